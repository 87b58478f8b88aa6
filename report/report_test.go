/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"chainguard.dev/searchstrategy/report"
	"chainguard.dev/searchstrategy/search"
	"chainguard.dev/searchstrategy/strategy"
)

func sample() *strategy.Result {
	return &strategy.Result{
		SessionID:     "20260304_050607_abcdef12",
		OriginalQuery: "What is new in AI safety?",
		Queries:       []string{"recent AI safety papers", "AI safety funding 2024"},
		Outcomes: []strategy.QueryOutcome{{
			Query:   strategy.SearchQuery{Text: "recent AI safety papers", Position: 1},
			Results: []search.Item{{Title: "Interpretability survey", URL: "https://a.example"}},
		}, {
			Query:   strategy.SearchQuery{Text: "AI safety funding 2024", Position: 2},
			Results: []search.Item{},
			Err:     "deadline exceeded",
		}},
		Combined: strategy.CombinedAnswer{Text: "  Several labs published work.  ", QueryCount: 2},
		Verdict:  strategy.EvaluationVerdict{Complete: false, RawText: "additional search needed", Indicator: "additional search"},
		State:    strategy.NeedsMoreSearch,
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Text(&buf, sample()); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Question: What is new in AI safety?",
		"Session: 20260304_050607_abcdef12",
		"Top Result",
		"Interpretability survey",
		"error: deadline exceeded",
		"## Combined answer\n\nSeveral labs published work.\n",
		`ADDITIONAL SEARCHES NEEDED (matched "additional search")`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Text() output missing %q:\n%s", want, out)
		}
	}
}

func TestTextDefaultVerdict(t *testing.T) {
	res := sample()
	res.Verdict = strategy.EvaluationVerdict{Complete: true}
	var buf bytes.Buffer
	if err := report.Text(&buf, res); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if want := "SEARCH COMPLETE (no indicator matched)"; !strings.Contains(buf.String(), want) {
		t.Errorf("Text() output missing %q:\n%s", want, buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := report.JSON(&buf, sample()); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	var got strategy.Result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.State != strategy.NeedsMoreSearch || got.Combined.QueryCount != 2 {
		t.Errorf("decoded = %+v, wanted the sample round", got)
	}
}

func TestQueries(t *testing.T) {
	queries := strategy.ExtractQueries("1. Search for recent AI safety papers\n2. Look up AI safety funding 2024")
	var buf bytes.Buffer
	if err := report.Queries(&buf, queries); err != nil {
		t.Fatalf("Queries() error = %v", err)
	}
	for _, want := range []string{"recent AI safety papers", "AI safety funding 2024", "Source"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Queries() output missing %q:\n%s", want, buf.String())
		}
	}
}
