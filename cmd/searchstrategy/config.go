/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"strings"
	"time"

	"chainguard.dev/searchstrategy/strategy"
)

type config struct {
	// Completion backend: claude, gemini or openai. Inferred from the
	// model name or the available credentials when empty.
	LLMProvider     string `env:"LLM_PROVIDER"`
	LLMModel        string `env:"LLM_MODEL"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`

	// Vertex AI location, used when no API key is configured. Both are
	// detected from the metadata server on Google Cloud.
	ProjectID string `env:"GOOGLE_CLOUD_PROJECT"`
	Region    string `env:"GOOGLE_CLOUD_REGION"`

	SearchProvider string `env:"SEARCH_PROVIDER,default=duckduckgo"`
	BraveAPIKey    string `env:"BRAVE_API_KEY"`
	TavilyAPIKey   string `env:"TAVILY_API_KEY"`
	TavilyDepth    string `env:"TAVILY_DEPTH,default=basic"`

	MaxResults        int           `env:"SEARCH_MAX_RESULTS,default=5"`
	SearchTimeout     time.Duration `env:"SEARCH_TIMEOUT,default=30s"`
	CompletionTimeout time.Duration `env:"COMPLETION_TIMEOUT,default=2m"`
	Parallelism       int           `env:"SEARCH_PARALLELISM,default=1"`

	// Sessions go to SESSION_BUCKET when set, OUTPUT_DIR otherwise.
	OutputDir     string `env:"OUTPUT_DIR,default=./output"`
	SessionBucket string `env:"SESSION_BUCKET"`
	SessionPrefix string `env:"SESSION_PREFIX"`
}

const (
	providerClaude = "claude"
	providerGemini = "gemini"
	providerOpenAI = "openai"
)

// llmProvider resolves which completion backend to use.
func (c *config) llmProvider() (string, error) {
	if c.LLMProvider != "" {
		switch p := strings.ToLower(c.LLMProvider); p {
		case providerClaude, providerGemini, providerOpenAI:
			return p, nil
		default:
			return "", fmt.Errorf("unsupported LLM_PROVIDER %q (expected claude, gemini or openai)", c.LLMProvider)
		}
	}

	model := strings.ToLower(c.LLMModel)
	switch {
	case strings.HasPrefix(model, "claude-"):
		return providerClaude, nil
	case strings.HasPrefix(model, "gemini-"):
		return providerGemini, nil
	case strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"), strings.HasPrefix(model, "o4"):
		return providerOpenAI, nil
	case model != "":
		return "", fmt.Errorf("unsupported model: %s (expected claude-*, gemini-* or gpt-*)", c.LLMModel)
	}

	switch {
	case c.AnthropicAPIKey != "":
		return providerClaude, nil
	case c.GeminiAPIKey != "":
		return providerGemini, nil
	case c.OpenAIAPIKey != "":
		return providerOpenAI, nil
	default:
		return providerClaude, nil
	}
}

func (c *config) pipelineOptions() []strategy.Option {
	return []strategy.Option{
		strategy.WithMaxResults(c.MaxResults),
		strategy.WithSearchTimeout(c.SearchTimeout),
		strategy.WithCompletionTimeout(c.CompletionTimeout),
		strategy.WithParallelism(c.Parallelism),
	}
}
