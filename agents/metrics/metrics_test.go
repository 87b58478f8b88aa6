/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
)

func TestSessionEnricher(t *testing.T) {
	t.Parallel()
	base := []attribute.KeyValue{attribute.String("model", "m")}

	if got := SessionEnricher(context.Background(), base); len(got) != 1 {
		t.Errorf("SessionEnricher() without session = %v, wanted base only", got)
	}

	ctx := WithSession(context.Background(), "20260101_120000_abcdef12")
	got := SessionEnricher(ctx, base)
	want := []attribute.KeyValue{
		attribute.String("model", "m"),
		attribute.String("session", "20260101_120000_abcdef12"),
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b attribute.KeyValue) bool { return a == b })); diff != "" {
		t.Errorf("SessionEnricher() mismatch (-want +got):\n%s", diff)
	}
}

func TestWithSessionEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	if got := WithSession(ctx, ""); got != ctx {
		t.Error("WithSession(\"\") returned a derived context, wanted the original")
	}
}

func TestRecordWithoutProvider(t *testing.T) {
	t.Parallel()
	// The global meter provider is a no-op in tests; recording must not panic.
	ctx := WithSession(context.Background(), "s")
	g := NewGenAI(MeterName)
	g.RecordTokens(ctx, "claude", 10, 20)
	g.RecordRequest(ctx, "claude", errors.New("boom"))

	var called bool
	g.SetAttributeEnricher(func(_ context.Context, base []attribute.KeyValue) []attribute.KeyValue {
		called = true
		return base
	})
	g.RecordTokens(ctx, "claude", 1, 1)
	if !called {
		t.Error("custom enricher was not invoked")
	}

	NewSearch(MeterName).RecordCall(ctx, "brave", 3, nil)
}
