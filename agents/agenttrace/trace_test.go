/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"chainguard.dev/searchstrategy/agents/agenttrace"
	"chainguard.dev/searchstrategy/agents/metrics"
)

func TestTraceRecordsSteps(t *testing.T) {
	t.Parallel()
	var recorded *agenttrace.Trace
	ctx := agenttrace.WithTracer(context.Background(), agenttrace.ByCode(func(tr *agenttrace.Trace) {
		recorded = tr
	}))
	ctx = metrics.WithSession(ctx, "20260102_030405_deadbeef")

	tr := agenttrace.StartTrace(ctx, "what is new")
	search := tr.StartStep("searching", attribute.Int("queries", 2))
	search.Complete(nil)
	synth := tr.StartStep("synthesizing")
	synth.RecordTokenUsage("claude", 10, 5)
	boom := errors.New("llm down")
	synth.Complete(boom)
	tr.Complete(boom)

	if recorded != tr {
		t.Fatalf("recorded trace = %p, wanted = %p", recorded, tr)
	}
	if got, want := tr.SessionID, "20260102_030405_deadbeef"; got != want {
		t.Errorf("SessionID = %q, wanted = %q", got, want)
	}
	if got := len(tr.Steps); got != 2 {
		t.Fatalf("len(Steps) = %d, wanted = 2", got)
	}
	if got, want := tr.Steps[0].Name, "searching"; got != want {
		t.Errorf("Steps[0].Name = %q, wanted = %q", got, want)
	}
	if !errors.Is(tr.Steps[1].Error, boom) {
		t.Errorf("Steps[1].Error = %v, wanted = %v", tr.Steps[1].Error, boom)
	}
	if tr.Duration() < 0 || tr.Steps[0].Duration() < 0 {
		t.Error("negative duration")
	}

	s := tr.String()
	for _, want := range []string{"what is new", "searching", "synthesizing", "tokens.total: 15", "Error: llm down"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, wanted it to contain %q", s, want)
		}
	}
}

func TestDefaultTracerLogs(t *testing.T) {
	t.Parallel()
	// Without an installed tracer Complete must still succeed.
	tr := agenttrace.StartTrace(context.Background(), "q")
	tr.StartStep("evaluating").Complete(nil)
	tr.Complete(nil)
	if tr.EndTime.IsZero() {
		t.Error("EndTime not set after Complete")
	}
}

// recordSpans installs a span recorder as the global tracer provider for
// the rest of the test. Callers must not run in parallel.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })
	return sr
}

func TestStepStartStepNestsSpans(t *testing.T) {
	sr := recordSpans(t)
	ctx := agenttrace.WithTracer(context.Background(), agenttrace.ByCode(func(*agenttrace.Trace) {}))

	tr := agenttrace.Start(ctx, "execute", "q")
	parent := tr.StartStep("searching")
	parent.StartStep("search", attribute.String("query", "a")).Complete(nil)
	parent.StartStep("search", attribute.String("query", "b")).Complete(nil)
	parent.Complete(nil)
	tr.Complete(nil)

	spans := map[string][]sdktrace.ReadOnlySpan{}
	for _, s := range sr.Ended() {
		spans[s.Name()] = append(spans[s.Name()], s)
	}
	if len(spans["strategy.execute"]) != 1 || len(spans["strategy.searching"]) != 1 || len(spans["strategy.search"]) != 2 {
		t.Fatalf("ended spans = %v, wanted one execute, one searching and two search spans", spans)
	}
	root, searching := spans["strategy.execute"][0], spans["strategy.searching"][0]
	if got, want := searching.Parent().SpanID(), root.SpanContext().SpanID(); got != want {
		t.Errorf("searching parent = %s, wanted = %s", got, want)
	}
	for _, s := range spans["strategy.search"] {
		if got, want := s.Parent().SpanID(), searching.SpanContext().SpanID(); got != want {
			t.Errorf("search parent = %s, wanted the searching span %s", got, want)
		}
	}
	if got := len(tr.Steps); got != 3 {
		t.Errorf("len(Steps) = %d, wanted = 3", got)
	}
}

func TestDefaultTracerHonorsLogLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		level slog.Level
		want  bool
	}{
		{name: "debug", level: slog.LevelDebug, want: true},
		{name: "info", level: slog.LevelInfo, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := clog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tt.level}))
			ctx := clog.WithLogger(context.Background(), logger)

			tr := agenttrace.Start(ctx, "plan", "question text")
			tr.StartStep("completing").Complete(nil)
			tr.Complete(nil)

			out := buf.String()
			if got := strings.Contains(out, "Strategy trace completed"); got != tt.want {
				t.Errorf("logged = %v, wanted = %v; output:\n%s", got, tt.want, out)
			}
			if tt.want && !strings.Contains(out, "operation=plan") {
				t.Errorf("output = %q, wanted it to name the operation", out)
			}
		})
	}
}
