/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gemini completes prompts with Google's Gemini models through the
// genai SDK, on either the Gemini API or Vertex AI backend.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"chainguard.dev/searchstrategy/agents/retry"
	"chainguard.dev/searchstrategy/llm"
)

// DefaultModel is used when no llm.WithModel option is given.
const DefaultModel = "gemini-2.5-flash"

// generator is the subset of *genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type provider struct {
	models   generator
	settings llm.Settings
}

var _ llm.Provider = (*provider)(nil)

// New returns a Provider backed by client.
func New(client *genai.Client, opts ...llm.Option) (llm.Provider, error) {
	if client == nil {
		return nil, errors.New("genai client cannot be nil")
	}
	return newProvider(client.Models, opts...)
}

func newProvider(models generator, opts ...llm.Option) (*provider, error) {
	s, err := llm.NewSettings(DefaultModel, opts...)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(s.Model, "gemini-") {
		return nil, fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", s.Model)
	}
	return &provider{models: models, settings: s}, nil
}

// Complete implements llm.Provider.
func (p *provider) Complete(ctx context.Context, prompt string) (*llm.Response, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     ptr(float32(p.settings.Temperature)),
		MaxOutputTokens: int32(p.settings.MaxTokens),
	}
	if p.settings.System != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: p.settings.System}}}
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	result, err := retry.Do(ctx, p.settings.Retry, "gemini_generate", isRetryable, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return p.models.GenerateContent(ctx, p.settings.Model, contents, config)
	})
	if err != nil {
		p.settings.Record(ctx, nil, err)
		return nil, fmt.Errorf("gemini completion: %w", err)
	}

	resp := &llm.Response{Text: text(result), Model: p.settings.Model}
	if result.UsageMetadata != nil {
		resp.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		resp.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
	}
	p.settings.Record(ctx, resp, nil)

	clog.FromContext(ctx).With("model", p.settings.Model).
		With("input_tokens", resp.InputTokens).
		With("output_tokens", resp.OutputTokens).
		Debug("Gemini completion finished")
	return resp, nil
}

// text joins the non-thought text parts of the first candidate.
func text(r *genai.GenerateContentResponse) string {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// isRetryable matches quota and transient server errors reported by Vertex
// and the Gemini API.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{
		"Resource exhausted", "RESOURCE_EXHAUSTED", "429", "rate limit",
		"Overloaded", "503", "quota exceeded", "Internal error", "server error",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T {
	return &v
}
