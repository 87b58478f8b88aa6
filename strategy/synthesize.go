/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"context"
	"fmt"

	"chainguard.dev/searchstrategy/agents/promptbuilder"
	"chainguard.dev/searchstrategy/llm"
)

// Synthesize asks completer to merge the outcomes into one answer to
// question. Queries without hits are presented as having no results.
func Synthesize(ctx context.Context, completer llm.Provider, question string, outcomes []QueryOutcome) (CombinedAnswer, *llm.Response, error) {
	prompt, err := promptbuilder.Render(synthesisPrompt, synthesisRequest{question: question, outcomes: outcomes})
	if err != nil {
		return CombinedAnswer{}, nil, fmt.Errorf("building synthesis prompt: %w", err)
	}
	resp, err := completer.Complete(ctx, prompt)
	if err != nil {
		return CombinedAnswer{}, nil, fmt.Errorf("synthesizing combined answer: %w", err)
	}

	queries := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		queries = append(queries, o.Query.Text)
	}
	return CombinedAnswer{
		Text:       resp.Content(),
		Queries:    queries,
		QueryCount: len(outcomes),
	}, resp, nil
}

// Evaluate asks completer whether answer covers question and classifies
// the response.
func Evaluate(ctx context.Context, completer llm.Provider, question string, answer CombinedAnswer) (EvaluationVerdict, *llm.Response, error) {
	prompt, err := promptbuilder.Render(evaluationPrompt, answerRequest{question: question, answer: answer.Text})
	if err != nil {
		return EvaluationVerdict{}, nil, fmt.Errorf("building evaluation prompt: %w", err)
	}
	resp, err := completer.Complete(ctx, prompt)
	if err != nil {
		return EvaluationVerdict{}, nil, fmt.Errorf("evaluating combined answer: %w", err)
	}
	return Classify(resp.Content()), resp, nil
}
