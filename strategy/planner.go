/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/searchstrategy/agents/agenttrace"
	"chainguard.dev/searchstrategy/agents/promptbuilder"
	"chainguard.dev/searchstrategy/llm"
)

// Plan asks the completion model for a search strategy for question. The
// returned text is meant for Execute.
func (p *Pipeline) Plan(ctx context.Context, question string) (string, error) {
	p.observer(ctx, Strategizing)
	resp, err := p.complete(ctx, "plan", question, planPrompt, planRequest{question: question})
	if err != nil {
		return "", fmt.Errorf("planning search strategy: %w", err)
	}
	clog.FromContext(ctx).With("length", len(resp.Content())).Info("Planned search strategy")
	return resp.Content(), nil
}

// FollowUp asks for a new strategy that targets what prev's evaluation
// found missing.
func (p *Pipeline) FollowUp(ctx context.Context, prev *Result) (string, error) {
	if prev == nil {
		return "", errors.New("follow-up requires a previous result")
	}
	p.observer(ctx, Strategizing)
	resp, err := p.complete(ctx, "follow_up", prev.OriginalQuery, followUpPrompt, planRequest{
		question: prev.OriginalQuery,
		previous: &previousRound{Queries: prev.Queries, Evaluation: prev.Verdict.RawText},
	})
	if err != nil {
		return "", fmt.Errorf("planning follow-up searches: %w", err)
	}
	return resp.Content(), nil
}

// Answer writes the final user-facing response from res's combined answer.
func (p *Pipeline) Answer(ctx context.Context, res *Result) (string, error) {
	if res == nil {
		return "", errors.New("answer requires a result")
	}
	resp, err := p.complete(ctx, "answer", res.OriginalQuery, answerPrompt, answerRequest{question: res.OriginalQuery, answer: res.Combined.Text})
	if err != nil {
		return "", fmt.Errorf("formulating final answer: %w", err)
	}
	return resp.Content(), nil
}

// complete runs one traced completion. The trace is named after operation
// and holds a single "completing" step carrying the token usage.
func (p *Pipeline) complete(ctx context.Context, operation, question string, tmpl *promptbuilder.Prompt, req promptbuilder.Bindable) (resp *llm.Response, err error) {
	tr := agenttrace.Start(ctx, operation, question)
	defer func() { tr.Complete(err) }()

	prompt, err := promptbuilder.Render(tmpl, req)
	if err != nil {
		return nil, err
	}
	step := tr.StartStep("completing")
	cctx, cancel := bound(step.Context(), p.completionTimeout)
	defer cancel()
	resp, err = p.completer.Complete(cctx, prompt)
	if resp != nil {
		step.RecordTokenUsage(resp.Model, resp.InputTokens, resp.OutputTokens)
	}
	step.Complete(err)
	return resp, err
}
