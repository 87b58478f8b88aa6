/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}

// Not parallel: the counters are process wide.
func TestRecordVerdict(t *testing.T) {
	tests := []struct {
		verdict   EvaluationVerdict
		complete  string
		indicator string
	}{
		{verdict: Classify("It is satisfactory."), complete: "true", indicator: "satisfactory"},
		{verdict: Classify("Need to explore pricing."), complete: "false", indicator: "need to explore"},
		{verdict: Classify("SEARCH COMPLETE"), complete: "true", indicator: "default"},
	}
	for _, tt := range tests {
		c := verdictCounter.WithLabelValues(tt.complete, tt.indicator)
		before := counterValue(t, c)
		recordVerdict(tt.verdict)
		if got := counterValue(t, c) - before; got != 1 {
			t.Errorf("recordVerdict(%+v) incremented {%s,%s} by %v, wanted = 1", tt.verdict, tt.complete, tt.indicator, got)
		}
	}
}
