/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records OpenTelemetry counters for completion and search
// calls. Instruments that fail to register fall back to no-op counters so a
// misconfigured meter provider never breaks a pipeline run.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the instrumentation scope shared by every provider.
const MeterName = "chainguard.dev/searchstrategy"

// AttributeEnricher adds contextual attributes to the base set recorded
// with each measurement.
type AttributeEnricher func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue

type sessionKey struct{}

// WithSession stores a session identifier for SessionEnricher.
func WithSession(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFrom returns the session identifier stored by WithSession.
func SessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// SessionEnricher tags measurements with the session from the context.
func SessionEnricher(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
	if id := SessionFrom(ctx); id != "" {
		return append(base, attribute.String("session", id))
	}
	return base
}

func counter(meter metric.Meter, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		slog.Warn("Failed to create counter, metrics will be disabled", "error", err, "counter", name)
		return noop.Int64Counter{}
	}
	return c
}

// GenAI counts tokens and completion requests per model.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	requests         metric.Int64Counter
	enrich           AttributeEnricher
}

// NewGenAI registers the completion instruments on the named meter.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))
	return &GenAI{
		promptTokens:     counter(meter, "genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter(meter, "genai.token.completion", "The number of completion tokens used", "{tokens}"),
		requests:         counter(meter, "genai.requests", "The number of completion requests", "{requests}"),
		enrich:           SessionEnricher,
	}
}

// SetAttributeEnricher replaces the default SessionEnricher.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.enrich = enricher
}

func (m *GenAI) attrs(ctx context.Context, base []attribute.KeyValue) metric.MeasurementOption {
	if m.enrich != nil {
		base = m.enrich(ctx, base)
	}
	return metric.WithAttributes(base...)
}

// RecordTokens adds prompt and completion token usage for model.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64) {
	opt := m.attrs(ctx, []attribute.KeyValue{attribute.String("model", model)})
	m.promptTokens.Add(ctx, promptTokens, opt)
	m.completionTokens.Add(ctx, completionTokens, opt)
}

// RecordRequest counts one completion call and whether it failed.
func (m *GenAI) RecordRequest(ctx context.Context, model string, err error) {
	m.requests.Add(ctx, 1, m.attrs(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.Bool("error", err != nil),
	}))
}

// Search counts search provider calls and the hits they returned.
type Search struct {
	calls  metric.Int64Counter
	hits   metric.Int64Counter
	enrich AttributeEnricher
}

// NewSearch registers the search instruments on the named meter.
func NewSearch(meterName string) *Search {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))
	return &Search{
		calls:  counter(meter, "search.calls", "The number of search provider calls", "{calls}"),
		hits:   counter(meter, "search.results", "The number of search results returned", "{results}"),
		enrich: SessionEnricher,
	}
}

// RecordCall counts a call to provider that returned hits results.
func (m *Search) RecordCall(ctx context.Context, provider string, hits int, err error) {
	base := []attribute.KeyValue{
		attribute.String("provider", provider),
		attribute.Bool("error", err != nil),
	}
	if m.enrich != nil {
		base = m.enrich(ctx, base)
	}
	opt := metric.WithAttributes(base...)
	m.calls.Add(ctx, 1, opt)
	m.hits.Add(ctx, int64(hits), opt)
}
