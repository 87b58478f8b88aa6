/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/genai"

	"chainguard.dev/searchstrategy/agents/retry"
	"chainguard.dev/searchstrategy/llm"
)

type fakeModels struct {
	errs   []error
	calls  int
	model  string
	config *genai.GenerateContentConfig
	prompt string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model, f.config = model, config
	f.prompt = contents[0].Parts[0].Text
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: "the "},
				{Text: "answer"},
			}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 7, CandidatesTokenCount: 2},
	}, nil
}

var fast = retry.Config{MaxRetries: 2, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond}

func TestComplete(t *testing.T) {
	t.Parallel()
	fake := &fakeModels{errs: []error{errors.New("Error 429, RESOURCE_EXHAUSTED")}}
	p, err := newProvider(fake, llm.WithSystem("cite sources"), llm.WithRetryConfig(fast))
	if err != nil {
		t.Fatalf("newProvider() error = %v", err)
	}

	resp, err := p.Complete(context.Background(), "evaluate this")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got, want := resp.Content(), "the answer"; got != want {
		t.Errorf("Content() = %q, wanted = %q", got, want)
	}
	if resp.InputTokens != 7 || resp.OutputTokens != 2 {
		t.Errorf("tokens = %d/%d, wanted = 7/2", resp.InputTokens, resp.OutputTokens)
	}
	if fake.calls != 2 {
		t.Errorf("calls = %d, wanted = 2", fake.calls)
	}
	if fake.model != DefaultModel || fake.prompt != "evaluate this" {
		t.Errorf("request = (%q, %q), wanted = (%q, %q)", fake.model, fake.prompt, DefaultModel, "evaluate this")
	}
	if fake.config.SystemInstruction == nil || fake.config.SystemInstruction.Parts[0].Text != "cite sources" {
		t.Errorf("SystemInstruction = %+v, wanted the system prompt", fake.config.SystemInstruction)
	}
}

func TestCompletePermanentError(t *testing.T) {
	t.Parallel()
	denied := errors.New("permission denied")
	fake := &fakeModels{errs: []error{denied}}
	p, err := newProvider(fake, llm.WithRetryConfig(fast))
	if err != nil {
		t.Fatalf("newProvider() error = %v", err)
	}
	if _, err := p.Complete(context.Background(), "x"); !errors.Is(err, denied) {
		t.Errorf("Complete() error = %v, wanted = %v", err, denied)
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, wanted = 1", fake.calls)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	if _, err := New(nil); err == nil {
		t.Error("New(nil) error = nil, wanted error")
	}
	if _, err := newProvider(&fakeModels{}, llm.WithModel("claude-sonnet-4")); err == nil {
		t.Error("newProvider() with a Claude model: error = nil, wanted error")
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Error 503, Service Unavailable"), true},
		{errors.New("quota exceeded for project"), true},
		{errors.New("invalid argument"), false},
	}
	for _, tt := range tests {
		if got := isRetryable(tt.err); got != tt.want {
			t.Errorf("isRetryable(%v) = %t, wanted = %t", tt.err, got, tt.want)
		}
	}
}
