/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package tavily searches with the Tavily search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chainguard.dev/searchstrategy/agents/retry"
	"chainguard.dev/searchstrategy/search"
)

// Endpoint is the search API.
const Endpoint = "https://api.tavily.com/search"

// Client is a search.Provider for Tavily.
type Client struct {
	apiKey   string
	depth    string
	endpoint string
	http     *http.Client
	retry    retry.Config
}

var _ search.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithDepth selects "basic" or "advanced" search.
func WithDepth(depth string) Option {
	return func(c *Client) error {
		switch depth {
		case "basic", "advanced":
			c.depth = depth
			return nil
		case "":
			return nil
		}
		return fmt.Errorf("tavily: unknown search depth %q", depth)
	}
}

// WithHTTPClient replaces the default client with its 10s timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) error {
		if h == nil {
			return errors.New("http client cannot be nil")
		}
		c.http = h
		return nil
	}
}

// WithEndpoint overrides the API URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) error {
		c.endpoint = endpoint
		return nil
	}
}

// WithRetryConfig sets the backoff used for 429 and 5xx responses.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.retry = cfg
		return nil
	}
}

// New returns a Tavily client authenticated with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}
	c := &Client{
		apiKey:   apiKey,
		depth:    "basic",
		endpoint: Endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		retry:    retry.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type request struct {
	Query       string `json:"query"`
	APIKey      string `json:"api_key"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results,omitempty"`
}

type response struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search implements search.Provider.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]search.Item, error) {
	payload, err := json.Marshal(request{Query: query, APIKey: c.apiKey, SearchDepth: c.depth, MaxResults: max(maxResults, 0)})
	if err != nil {
		return nil, err
	}

	body, err := search.Fetch(ctx, c.http, "tavily", c.retry, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("tavily: decoding response: %w", err)
	}
	items := make([]search.Item, 0, len(out.Results))
	for _, r := range out.Results {
		items = append(items, search.Item{Title: r.Title, URL: r.URL, Snippet: r.Content})
	}
	return search.Truncate(items, maxResults), nil
}
