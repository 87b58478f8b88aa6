/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openai completes prompts with the OpenAI Chat Completions API.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"

	"chainguard.dev/searchstrategy/agents/retry"
	"chainguard.dev/searchstrategy/llm"
)

// DefaultModel is used when no llm.WithModel option is given.
const DefaultModel = "gpt-4o"

type provider struct {
	client   openai.Client
	settings llm.Settings
}

var _ llm.Provider = (*provider)(nil)

// New returns a Provider backed by client.
func New(client openai.Client, opts ...llm.Option) (llm.Provider, error) {
	s, err := llm.NewSettings(DefaultModel, opts...)
	if err != nil {
		return nil, err
	}
	return &provider{client: client, settings: s}, nil
}

// Complete implements llm.Provider.
func (p *provider) Complete(ctx context.Context, prompt string) (*llm.Response, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if p.settings.System != "" {
		messages = append(messages, openai.SystemMessage(p.settings.System))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(p.settings.Model),
		Messages:            messages,
		Temperature:         openai.Float(p.settings.Temperature),
		MaxCompletionTokens: openai.Int(p.settings.MaxTokens),
	}

	completion, err := retry.Do(ctx, p.settings.Retry, "openai_chat", isRetryable, func(ctx context.Context) (*openai.ChatCompletion, error) {
		return p.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		p.settings.Record(ctx, nil, err)
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		err := errors.New("openai completion: response has no choices")
		p.settings.Record(ctx, nil, err)
		return nil, err
	}

	resp := &llm.Response{
		Text:         completion.Choices[0].Message.Content,
		Model:        p.settings.Model,
		InputTokens:  completion.Usage.PromptTokens,
		OutputTokens: completion.Usage.CompletionTokens,
	}
	p.settings.Record(ctx, resp, nil)

	clog.FromContext(ctx).With("model", p.settings.Model).
		With("input_tokens", resp.InputTokens).
		With("output_tokens", resp.OutputTokens).
		Debug("OpenAI completion finished")
	return resp, nil
}

func isRetryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
