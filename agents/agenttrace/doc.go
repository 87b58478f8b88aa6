/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace records one Trace per pipeline invocation, with a Step
for every stage and external call made along the way. Each Trace and Step
is backed by an OpenTelemetry span, and a completed Trace is handed to the
Tracer found in the context.

	ctx = agenttrace.WithTracer(ctx, agenttrace.ByCode(func(t *agenttrace.Trace) {
		log.Printf("trace %s took %v", t.ID, t.Duration())
	}))

	tr := agenttrace.StartTrace(ctx, "What changed in Go 1.25?")
	step := tr.StartStep("searching", attribute.Int("queries", 3))
	step.StartStep("search", attribute.String("query", "go 1.25 release notes")).Complete(nil)
	step.Complete(nil)
	tr.Complete(nil)

Steps started from another Step nest their spans under it. When no Tracer
is installed, traces are logged through clog at debug level.
*/
package agenttrace
