/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Literal converts a test table string into a template.
func Literal(s string) stringLiteral { return stringLiteral(s) }
