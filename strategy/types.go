/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package strategy

import "chainguard.dev/searchstrategy/search"

// State is a step of a research round.
type State string

const (
	Strategizing    State = "STRATEGIZING"
	Searching       State = "SEARCHING"
	Synthesizing    State = "SYNTHESIZING"
	Evaluating      State = "EVALUATING"
	Done            State = "DONE"
	NeedsMoreSearch State = "NEEDS_MORE_SEARCH"
)

// Terminal reports whether no further stage follows s within a round.
func (s State) Terminal() bool {
	return s == Done || s == NeedsMoreSearch
}

// SearchQuery is one query extracted from strategy text.
type SearchQuery struct {
	Text string `json:"text"`

	// Position is the 1-based order of extraction.
	Position int `json:"position"`

	// Source is the strategy line, or quoted fragment, the query came from.
	Source string `json:"source"`
}

// QueryOutcome pairs a query with the hits it produced, in provider order.
type QueryOutcome struct {
	Query   SearchQuery   `json:"query"`
	Results []search.Item `json:"results"`

	// Err is the search failure, if any, that left Results empty.
	Err string `json:"error,omitempty"`
}

// CombinedAnswer is the synthesized narrative over all outcomes.
type CombinedAnswer struct {
	Text       string   `json:"text"`
	Queries    []string `json:"queries"`
	QueryCount int      `json:"num_searches"`
}

// EvaluationVerdict is the classified completeness judgment.
type EvaluationVerdict struct {
	Complete bool   `json:"complete"`
	RawText  string `json:"raw_text"`

	// Indicator is the phrase that decided Complete, empty when the
	// default applied.
	Indicator string `json:"indicator,omitempty"`
}

// Result is everything a round produced.
type Result struct {
	SessionID     string            `json:"session_id,omitempty"`
	OriginalQuery string            `json:"original_query"`
	Strategy      string            `json:"strategy"`
	Queries       []string          `json:"queries"`
	Outcomes      []QueryOutcome    `json:"outcomes"`
	Combined      CombinedAnswer    `json:"combined_answer"`
	Verdict       EvaluationVerdict `json:"verdict"`
	State         State             `json:"state"`
}
