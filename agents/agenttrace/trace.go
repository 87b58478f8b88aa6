/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"chainguard.dev/searchstrategy/agents/metrics"
)

const instrumentation = "chainguard.dev/searchstrategy/agenttrace"

func tracer() oteltrace.Tracer {
	return otel.Tracer(instrumentation, oteltrace.WithInstrumentationVersion("1.0.0"))
}

// Step is one timed unit of work inside a Trace.
type Step struct {
	Name       string               `json:"name"`
	Attributes []attribute.KeyValue `json:"-"`
	Error      error                `json:"error,omitempty"`
	StartTime  time.Time            `json:"start_time"`
	EndTime    time.Time            `json:"end_time"`

	mu    sync.Mutex
	trace *Trace
	ctx   context.Context
	span  oteltrace.Span
}

// Trace covers a single invocation from question to verdict.
type Trace struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Question  string    `json:"question"`
	SessionID string    `json:"session_id,omitempty"`
	Steps     []*Step   `json:"steps"`
	Error     error     `json:"error,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	mu     sync.Mutex
	tracer Tracer
	ctx    context.Context
	span   oteltrace.Span
}

// StartTrace opens an "execute" trace for question, reporting to the
// context's Tracer once completed.
func StartTrace(ctx context.Context, question string) *Trace {
	return Start(ctx, "execute", question)
}

// Start opens a trace for operation on question. Its span is named
// "strategy.<operation>".
func Start(ctx context.Context, operation, question string) *Trace {
	session := metrics.SessionFrom(ctx)
	attrs := []attribute.KeyValue{attribute.String("strategy.question", question)}
	if session != "" {
		attrs = append(attrs, attribute.String("session", session))
	}
	ctx, span := tracer().Start(ctx, "strategy."+operation, oteltrace.WithAttributes(attrs...))

	return &Trace{
		ID:        newID(),
		Operation: operation,
		Question:  question,
		SessionID: session,
		Steps:     []*Step{},
		StartTime: time.Now(),
		tracer:    TracerFrom(ctx),
		ctx:       ctx,
		span:      span,
	}
}

// Context returns the context carrying the trace's span.
func (t *Trace) Context() context.Context {
	return t.ctx
}

// StartStep opens a step whose span is a child of the trace's span.
func (t *Trace) StartStep(name string, attrs ...attribute.KeyValue) *Step {
	return t.startStep(t.ctx, name, attrs)
}

// StartStep opens a step whose span is a child of s's span. The new step
// is recorded on the same trace.
func (s *Step) StartStep(name string, attrs ...attribute.KeyValue) *Step {
	return s.trace.startStep(s.ctx, name, attrs)
}

func (t *Trace) startStep(parent context.Context, name string, attrs []attribute.KeyValue) *Step {
	ctx, span := tracer().Start(parent, "strategy."+name, oteltrace.WithAttributes(attrs...))
	return &Step{
		Name:       name,
		Attributes: attrs,
		StartTime:  time.Now(),
		trace:      t,
		ctx:        ctx,
		span:       span,
	}
}

// Context returns the context carrying the step's span.
func (s *Step) Context() context.Context {
	return s.ctx
}

// SetAttributes annotates the step and its span.
func (s *Step) SetAttributes(attrs ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attributes = append(s.Attributes, attrs...)
	s.span.SetAttributes(attrs...)
}

// RecordTokenUsage attaches completion token counts to the step.
func (s *Step) RecordTokenUsage(model string, inputTokens, outputTokens int64) {
	s.SetAttributes(
		attribute.String("model", model),
		attribute.Int64("tokens.input", inputTokens),
		attribute.Int64("tokens.output", outputTokens),
		attribute.Int64("tokens.total", inputTokens+outputTokens),
	)
}

// Complete ends the step and appends it to its trace.
func (s *Step) Complete(err error) {
	s.mu.Lock()
	s.Error = err
	s.EndTime = time.Now()
	s.mu.Unlock()

	endSpan(s.span, err)

	s.trace.mu.Lock()
	defer s.trace.mu.Unlock()
	s.trace.Steps = append(s.trace.Steps, s)
}

// Duration is the elapsed time, or the time so far for an open step.
func (s *Step) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return elapsed(s.StartTime, s.EndTime)
}

// Complete ends the trace and hands it to the Tracer.
func (t *Trace) Complete(err error) {
	t.mu.Lock()
	t.Error = err
	t.EndTime = time.Now()
	t.mu.Unlock()

	endSpan(t.span, err)
	t.tracer.RecordTrace(t)
}

// Duration is the elapsed time, or the time so far for an open trace.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return elapsed(t.StartTime, t.EndTime)
}

// String renders a human readable summary.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s (%s) ===\n", t.ID, t.Operation)
	fmt.Fprintf(&sb, "Question: %q\n", t.Question)
	if t.SessionID != "" {
		fmt.Fprintf(&sb, "Session: %s\n", t.SessionID)
	}
	fmt.Fprintf(&sb, "Duration: %v\n", elapsed(t.StartTime, t.EndTime))

	fmt.Fprintf(&sb, "\nSteps (%d):\n", len(t.Steps))
	for i, s := range t.Steps {
		fmt.Fprintf(&sb, "  [%d] %s %v\n", i+1, s.Name, elapsed(s.StartTime, s.EndTime))
		for _, kv := range s.Attributes {
			fmt.Fprintf(&sb, "      %s: %s\n", kv.Key, kv.Value.Emit())
		}
		if s.Error != nil {
			fmt.Fprintf(&sb, "      Error: %v\n", s.Error)
		}
	}
	if t.Error != nil {
		fmt.Fprintf(&sb, "\nError: %v\n", t.Error)
	}
	return sb.String()
}

func endSpan(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func elapsed(start, end time.Time) time.Duration {
	if end.IsZero() {
		return time.Since(start)
	}
	return end.Sub(start)
}

// newID returns YYYYMMDD-HHMMSS-<8 hex>.
func newID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102-150405.000000")
	}
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), hex.EncodeToString(b))
}
