/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package search defines the web search interface used by the strategy
// pipeline, along with the HTTP plumbing shared by its backends.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"chainguard.dev/searchstrategy/agents/metrics"
	"chainguard.dev/searchstrategy/agents/retry"
)

// Item is a single search hit.
type Item struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider runs a web search and returns at most maxResults hits in the
// backend's ranking order. Errors are returned, never swallowed.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Item, error)
}

// Func adapts a function into a Provider.
type Func func(ctx context.Context, query string, maxResults int) ([]Item, error)

// Search implements Provider.
func (f Func) Search(ctx context.Context, query string, maxResults int) ([]Item, error) {
	return f(ctx, query, maxResults)
}

// StatusError reports a non-200 response from a search backend.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: http %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: http %d: %s", e.Provider, e.StatusCode, e.Body)
}

// HTTPStatus implements retry.StatusCoder.
func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// Transient matches throttling and server side failures.
var Transient = retry.OnStatus(
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
)

// Fetch sends the request built by newRequest, retrying Transient
// failures, and returns the body of a 200 response.
func Fetch(ctx context.Context, client *http.Client, provider string, cfg retry.Config, newRequest func(context.Context) (*http.Request, error)) ([]byte, error) {
	return retry.Do(ctx, cfg, provider+"_search", Transient, func(ctx context.Context) ([]byte, error) {
		req, err := newRequest(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, fmt.Errorf("%s: reading response: %w", provider, err)
		}
		if resp.StatusCode != http.StatusOK {
			if len(body) > 256 {
				body = body[:256]
			}
			return nil, &StatusError{Provider: provider, StatusCode: resp.StatusCode, Body: string(body)}
		}
		return body, nil
	})
}

// Throttle spaces calls at least Interval apart.
type Throttle struct {
	Interval time.Duration

	mu   sync.Mutex
	next time.Time
}

// Wait blocks until the caller may proceed or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	at := t.next
	if at.Before(now) {
		at = now
	}
	t.next = at.Add(t.Interval)
	t.mu.Unlock()

	wait := time.Until(at)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Truncate caps items at n, leaving the order untouched. n <= 0 means no cap.
func Truncate(items []Item, n int) []Item {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

type instrumented struct {
	name    string
	inner   Provider
	metrics *metrics.Search
}

// Instrument counts calls and hits for p under name.
func Instrument(name string, p Provider, m *metrics.Search) Provider {
	if m == nil {
		m = metrics.NewSearch(metrics.MeterName)
	}
	return &instrumented{name: name, inner: p, metrics: m}
}

func (i *instrumented) Search(ctx context.Context, query string, maxResults int) ([]Item, error) {
	items, err := i.inner.Search(ctx, query, maxResults)
	i.metrics.RecordCall(ctx, i.name, len(items), err)
	return items, err
}
