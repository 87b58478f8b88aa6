/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/compute/metadata"
	"cloud.google.com/go/storage"
	"github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/chainguard-dev/clog"
	openaisdk "github.com/openai/openai-go"
	oaoption "github.com/openai/openai-go/option"
	"google.golang.org/genai"

	"chainguard.dev/searchstrategy/agents/metrics"
	"chainguard.dev/searchstrategy/llm"
	"chainguard.dev/searchstrategy/llm/claude"
	"chainguard.dev/searchstrategy/llm/gemini"
	"chainguard.dev/searchstrategy/llm/openai"
	"chainguard.dev/searchstrategy/search"
	"chainguard.dev/searchstrategy/search/brave"
	"chainguard.dev/searchstrategy/search/duckduckgo"
	"chainguard.dev/searchstrategy/search/tavily"
	"chainguard.dev/searchstrategy/session"
	"chainguard.dev/searchstrategy/strategy"
)

const defaultRegion = "us-east5"

// gcpLocation returns the Vertex AI project and region, consulting the
// metadata server for whatever the environment leaves unset.
func (c *config) gcpLocation(ctx context.Context) (string, string, error) {
	log := clog.FromContext(ctx)
	project, region := c.ProjectID, c.Region
	onGCE := metadata.OnGCE()

	if project == "" {
		if !onGCE {
			return "", "", errors.New("GOOGLE_CLOUD_PROJECT is required outside of Google Cloud")
		}
		id, err := metadata.ProjectIDWithContext(ctx)
		if err != nil {
			return "", "", fmt.Errorf("detecting project ID: %w", err)
		}
		project = id
		log.With("project_id", project).Info("Detected Google Cloud project")
	}

	if region == "" {
		region = defaultRegion
		if onGCE {
			zone, err := metadata.ZoneWithContext(ctx)
			if err != nil {
				return "", "", fmt.Errorf("detecting zone: %w", err)
			}
			if i := strings.LastIndex(zone, "-"); i > 0 {
				region = zone[:i]
			}
			log.With("region", region).Info("Detected Google Cloud region")
		}
	}
	return project, region, nil
}

func (c *config) newCompleter(ctx context.Context, m *metrics.GenAI) (llm.Provider, error) {
	name, err := c.llmProvider()
	if err != nil {
		return nil, err
	}
	var opts []llm.Option
	if m != nil {
		opts = append(opts, llm.WithMetrics(m))
	}
	if c.LLMModel != "" {
		opts = append(opts, llm.WithModel(c.LLMModel))
	}

	switch name {
	case providerClaude:
		if c.AnthropicAPIKey != "" {
			return claude.New(anthropic.NewClient(aoption.WithAPIKey(c.AnthropicAPIKey)), opts...)
		}
		project, region, err := c.gcpLocation(ctx)
		if err != nil {
			return nil, err
		}
		return claude.New(anthropic.NewClient(vertex.WithGoogleAuth(ctx, region, project)), opts...)

	case providerGemini:
		cc := &genai.ClientConfig{APIKey: c.GeminiAPIKey, Backend: genai.BackendGeminiAPI}
		if c.GeminiAPIKey == "" {
			project, region, err := c.gcpLocation(ctx)
			if err != nil {
				return nil, err
			}
			cc = &genai.ClientConfig{Project: project, Location: region, Backend: genai.BackendVertexAI}
		}
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("creating Google AI client: %w", err)
		}
		return gemini.New(client, opts...)

	case providerOpenAI:
		if c.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required for the openai provider")
		}
		return openai.New(openaisdk.NewClient(oaoption.WithAPIKey(c.OpenAIAPIKey)), opts...)
	}
	return nil, fmt.Errorf("unsupported LLM provider %q", name)
}

func (c *config) newSearcher(m *metrics.Search) (search.Provider, error) {
	name := strings.ToLower(c.SearchProvider)
	var (
		p   search.Provider
		err error
	)
	switch name {
	case "duckduckgo", "ddg":
		name = "duckduckgo"
		p, err = duckduckgo.New()
	case "brave":
		p, err = brave.New(c.BraveAPIKey)
	case "tavily":
		p, err = tavily.New(c.TavilyAPIKey, tavily.WithDepth(c.TavilyDepth))
	default:
		return nil, fmt.Errorf("unsupported SEARCH_PROVIDER %q (expected duckduckgo, brave or tavily)", c.SearchProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s search: %w", name, err)
	}
	return search.Instrument(name, p, m), nil
}

// newStore returns where sessions are saved and a func releasing it.
func (c *config) newStore(ctx context.Context) (session.Store, func(), error) {
	if c.SessionBucket == "" {
		return session.NewFileStore(c.OutputDir), func() {}, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("creating storage client: %w", err)
	}
	store, err := session.NewGCSStore(client, c.SessionBucket, c.SessionPrefix)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, func() { _ = client.Close() }, nil
}

// newPipeline wires the configured providers into a strategy pipeline.
func (c *config) newPipeline(ctx context.Context, opts ...strategy.Option) (*strategy.Pipeline, error) {
	completer, err := c.newCompleter(ctx, metrics.NewGenAI(metrics.MeterName))
	if err != nil {
		return nil, err
	}
	searcher, err := c.newSearcher(metrics.NewSearch(metrics.MeterName))
	if err != nil {
		return nil, err
	}
	return strategy.New(searcher, completer, append(c.pipelineOptions(), opts...)...)
}
