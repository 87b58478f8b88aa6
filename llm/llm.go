/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package llm defines the completion interface consumed by the strategy
// pipeline and the settings shared by its provider implementations.
package llm

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/searchstrategy/agents/metrics"
	"chainguard.dev/searchstrategy/agents/retry"
)

// Response is the result of a single completion.
type Response struct {
	Text         string `json:"text"`
	Model        string `json:"model"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
}

// Content returns the completion text. It is safe on a nil Response.
func (r *Response) Content() string {
	if r == nil {
		return ""
	}
	return r.Text
}

// Provider produces a completion for a prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string) (*Response, error)
}

// Func adapts a function into a Provider.
type Func func(ctx context.Context, prompt string) (*Response, error)

// Complete implements Provider.
func (f Func) Complete(ctx context.Context, prompt string) (*Response, error) {
	return f(ctx, prompt)
}

// Settings holds the knobs common to every provider.
type Settings struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	System      string
	Retry       retry.Config
	Metrics     *metrics.GenAI
}

// Option configures Settings.
type Option func(*Settings) error

// NewSettings applies opts over defaults for model.
func NewSettings(model string, opts ...Option) (Settings, error) {
	s := Settings{
		Model:       model,
		MaxTokens:   4096,
		Temperature: 0.1,
		Retry:       retry.Default(),
	}
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return Settings{}, err
		}
	}
	if s.Metrics == nil {
		s.Metrics = metrics.NewGenAI(metrics.MeterName)
	}
	return s, nil
}

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(s *Settings) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		s.Model = model
		return nil
	}
}

// WithMaxTokens bounds the completion length.
func WithMaxTokens(tokens int64) Option {
	return func(s *Settings) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		s.MaxTokens = tokens
		return nil
	}
}

// WithTemperature sets sampling temperature in [0, 1].
func WithTemperature(temp float64) Option {
	return func(s *Settings) error {
		if temp < 0 || temp > 1 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		s.Temperature = temp
		return nil
	}
}

// WithSystem sets the system instructions sent with every prompt.
func WithSystem(system string) Option {
	return func(s *Settings) error {
		s.System = system
		return nil
	}
}

// WithRetryConfig replaces the default retry policy for transient errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(s *Settings) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		s.Retry = cfg
		return nil
	}
}

// WithMetrics records token usage on m instead of a fresh instance.
func WithMetrics(m *metrics.GenAI) Option {
	return func(s *Settings) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		s.Metrics = m
		return nil
	}
}

// Record logs usage for a finished completion attempt.
func (s Settings) Record(ctx context.Context, resp *Response, err error) {
	s.Metrics.RecordRequest(ctx, s.Model, err)
	if resp != nil {
		s.Metrics.RecordTokens(ctx, s.Model, resp.InputTokens, resp.OutputTokens)
	}
}
