/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claude completes prompts with Anthropic's Messages API, either
// directly or through Vertex AI.
//
//	client := anthropic.NewClient(vertex.WithGoogleAuth(ctx, region, projectID))
//	p, err := claude.New(client, llm.WithMaxTokens(8192))
package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"

	"chainguard.dev/searchstrategy/agents/retry"
	"chainguard.dev/searchstrategy/llm"
)

// DefaultModel is used when no llm.WithModel option is given.
const DefaultModel = "claude-sonnet-4@20250514"

type provider struct {
	client   anthropic.Client
	settings llm.Settings
}

var _ llm.Provider = (*provider)(nil)

// New returns a Provider backed by client.
func New(client anthropic.Client, opts ...llm.Option) (llm.Provider, error) {
	s, err := llm.NewSettings(DefaultModel, opts...)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(s.Model, "claude-") {
		return nil, fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", s.Model)
	}
	if s.MaxTokens > 64000 {
		return nil, fmt.Errorf("max tokens %d exceeds maximum of 64000", s.MaxTokens)
	}
	return &provider{client: client, settings: s}, nil
}

// Complete implements llm.Provider.
func (p *provider) Complete(ctx context.Context, prompt string) (*llm.Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.settings.Model),
		MaxTokens: p.settings.MaxTokens,
		Messages: []anthropic.MessageParam{{
			Role:    anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)},
		}},
		Temperature: anthropic.Float(p.settings.Temperature),
	}
	if p.settings.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.settings.System}}
	}

	message, err := retry.Do(ctx, p.settings.Retry, "claude_message", isRetryable, func(ctx context.Context) (*anthropic.Message, error) {
		return p.client.Messages.New(ctx, params)
	})
	if err != nil {
		p.settings.Record(ctx, nil, err)
		return nil, fmt.Errorf("claude completion: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	resp := &llm.Response{
		Text:         text.String(),
		Model:        p.settings.Model,
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}
	p.settings.Record(ctx, resp, nil)

	clog.FromContext(ctx).With("model", p.settings.Model).
		With("input_tokens", resp.InputTokens).
		With("output_tokens", resp.OutputTokens).
		Debug("Claude completion finished")
	return resp, nil
}

// isRetryable matches rate limit, overload and gateway errors.
func isRetryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 503, 504, 529:
			return true
		}
	}
	return false
}
