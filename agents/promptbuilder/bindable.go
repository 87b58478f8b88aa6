/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Bindable is implemented by request values that know how to bind
// themselves into a template.
type Bindable interface {
	Bind(prompt *Prompt) (*Prompt, error)
}

// Render binds b into p and builds the result.
func Render(p *Prompt, b Bindable) (string, error) {
	bound, err := b.Bind(p)
	if err != nil {
		return "", err
	}
	return bound.Build()
}
