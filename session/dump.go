/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"chainguard.dev/searchstrategy/search"
	"chainguard.dev/searchstrategy/strategy"
)

const (
	// ResultFile holds the JSON Dump of a round.
	ResultFile = "search_strategy_results.json"
	// AnswerFile holds the final answer as markdown.
	AnswerFile = "answer.md"
)

// Dump is the persisted form of one round.
type Dump struct {
	SessionID       string        `json:"session_id"`
	OriginalQuery   string        `json:"original_query"`
	Strategy        string        `json:"strategy"`
	Searches        []SearchEntry `json:"searches"`
	CombinedResults string        `json:"combined_results"`
	Evaluation      string        `json:"evaluation"`
	Complete        bool          `json:"complete"`
}

// SearchEntry records one query and what it returned.
type SearchEntry struct {
	Number  int           `json:"number"`
	Query   string        `json:"query"`
	Results []search.Item `json:"results"`
	Error   string        `json:"error,omitempty"`
}

// NewDump captures res for storage.
func NewDump(res *strategy.Result) Dump {
	d := Dump{
		SessionID:       res.SessionID,
		OriginalQuery:   res.OriginalQuery,
		Strategy:        res.Strategy,
		Searches:        make([]SearchEntry, 0, len(res.Outcomes)),
		CombinedResults: res.Combined.Text,
		Evaluation:      res.Verdict.RawText,
		Complete:        res.Verdict.Complete,
	}
	for _, o := range res.Outcomes {
		results := o.Results
		if results == nil {
			results = []search.Item{}
		}
		d.Searches = append(d.Searches, SearchEntry{
			Number:  o.Query.Position,
			Query:   o.Query.Text,
			Results: results,
			Error:   o.Err,
		})
	}
	return d
}

// Store persists session artifacts.
type Store interface {
	// SaveResult writes d under its session prefix.
	SaveResult(ctx context.Context, d Dump) error
	// SaveAnswer writes the markdown answer for session id.
	SaveAnswer(ctx context.Context, id, answer string) error
}

func encode(d Dump) (string, []byte, error) {
	if err := Validate(d.SessionID); err != nil {
		return "", nil, err
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("marshal session %s: %w", d.SessionID, err)
	}
	return path.Join(Prefix(d.SessionID), ResultFile), append(b, '\n'), nil
}

func answerName(id string) (string, error) {
	if err := Validate(id); err != nil {
		return "", err
	}
	return path.Join(Prefix(id), AnswerFile), nil
}
