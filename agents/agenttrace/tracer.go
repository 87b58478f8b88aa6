/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"log/slog"

	"github.com/chainguard-dev/clog"
)

// Tracer receives completed traces.
type Tracer interface {
	RecordTrace(*Trace)
}

// ByCode adapts a function into a Tracer.
type ByCode func(*Trace)

// RecordTrace implements Tracer.
func (f ByCode) RecordTrace(t *Trace) { f(t) }

type tracerKey struct{}

// WithTracer installs t for traces started from ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, t)
}

// TracerFrom returns the installed Tracer, or one that logs each trace at
// debug level through the context's logger.
func TracerFrom(ctx context.Context) Tracer {
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	logger := clog.FromContext(ctx)
	return ByCode(func(t *Trace) {
		if !logger.Handler().Enabled(ctx, slog.LevelDebug) {
			return
		}
		logger.With(
			"trace_id", t.ID,
			"operation", t.Operation,
			"duration_ms", t.Duration().Milliseconds(),
			"steps", len(t.Steps),
		).Debug("Strategy trace completed", "trace", t.String())
	})
}
