/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package brave searches with the Brave Search web API.
package brave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chainguard.dev/searchstrategy/agents/retry"
	"chainguard.dev/searchstrategy/search"
)

// Endpoint is the web search API.
const Endpoint = "https://api.search.brave.com/res/v1/web/search"

// maxCount is the largest count the API accepts.
const maxCount = 20

// Client is a search.Provider for Brave.
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
	retry    retry.Config
	throttle *search.Throttle
}

var _ search.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient replaces the default client with its 10s timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Client) error {
		if c == nil {
			return errors.New("http client cannot be nil")
		}
		b.http = c
		return nil
	}
}

// WithEndpoint overrides the API URL.
func WithEndpoint(endpoint string) Option {
	return func(b *Client) error {
		b.endpoint = endpoint
		return nil
	}
}

// WithRetryConfig sets the backoff used for 429 and 5xx responses.
func WithRetryConfig(cfg retry.Config) Option {
	return func(b *Client) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		b.retry = cfg
		return nil
	}
}

// WithRateLimit spaces requests interval apart. The free plan allows one
// request per second.
func WithRateLimit(interval time.Duration) Option {
	return func(b *Client) error {
		if interval < 0 {
			return fmt.Errorf("rate limit interval cannot be negative, got %v", interval)
		}
		b.throttle = &search.Throttle{Interval: interval}
		return nil
	}
}

// New returns a Brave client authenticated with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("brave: API key is missing")
	}
	b := &Client{
		apiKey:   apiKey,
		endpoint: Endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		retry:    retry.Default(),
		throttle: &search.Throttle{Interval: time.Second},
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

type response struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search implements search.Provider.
func (b *Client) Search(ctx context.Context, query string, maxResults int) ([]search.Item, error) {
	params := url.Values{"q": {query}}
	if maxResults > 0 {
		params.Set("count", strconv.Itoa(min(maxResults, maxCount)))
	}
	endpoint := b.endpoint + "?" + params.Encode()

	body, err := search.Fetch(ctx, b.http, "brave", b.retry, func(ctx context.Context) (*http.Request, error) {
		if err := b.throttle.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Subscription-Token", b.apiKey)
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("brave: decoding response: %w", err)
	}
	items := make([]search.Item, 0, len(payload.Web.Results))
	for _, r := range payload.Web.Results {
		items = append(items, search.Item{Title: r.Title, URL: r.URL, Snippet: r.Description})
	}
	return search.Truncate(items, maxResults), nil
}
