/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	executionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_strategy_executions_total",
			Help: "Total number of search strategy rounds, by terminal state or error",
		},
		[]string{"outcome"},
	)

	verdictCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_strategy_verdicts_total",
			Help: "Completeness verdicts by the indicator phrase that decided them",
		},
		[]string{"complete", "indicator"},
	)

	searchFailureCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_strategy_search_failures_total",
			Help: "Searches that failed and contributed no results",
		},
	)

	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_strategy_stage_duration_seconds",
			Help:    "Wall time spent in each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"stage"},
	)
)

func recordVerdict(v EvaluationVerdict) {
	indicator := v.Indicator
	if indicator == "" {
		indicator = "default"
	}
	complete := "false"
	if v.Complete {
		complete = "true"
	}
	verdictCounter.With(prometheus.Labels{"complete": complete, "indicator": indicator}).Inc()
}
