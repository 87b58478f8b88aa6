/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package session names research sessions and persists what each round of
// a session produced.
//
// A session id has the form YYYYMMDD_HHMMSS_xxxxxxxx, the local start time
// followed by the first eight characters of a random UUID. Everything
// stored for a session lives under the prefix "session_<id>/":
//
//	session_<id>/search_strategy_results.json
//	session_<id>/answer.md
//
// Two stores are provided. FileStore writes below a local directory and
// GCSStore writes objects into a Cloud Storage bucket:
//
//	store := session.NewFileStore("./output")
//	if err := store.SaveResult(ctx, session.NewDump(res)); err != nil {
//		return err
//	}
package session
