/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package duckduckgo searches the DuckDuckGo lite HTML endpoint. It needs
// no API key, which makes it the default backend.
package duckduckgo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"chainguard.dev/searchstrategy/agents/retry"
	"chainguard.dev/searchstrategy/search"
)

// Endpoint is the lite HTML search form.
const Endpoint = "https://lite.duckduckgo.com/lite/"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// shared keeps every client within DuckDuckGo's tolerance of roughly one
// query per second per source address.
var shared = &search.Throttle{Interval: time.Second}

// Client is a search.Provider for DuckDuckGo.
type Client struct {
	endpoint string
	http     *http.Client
	retry    retry.Config
	throttle *search.Throttle
}

var _ search.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient replaces the default client with its 15s timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Client) error {
		if c == nil {
			return errors.New("http client cannot be nil")
		}
		d.http = c
		return nil
	}
}

// WithEndpoint points the client at a different search form.
func WithEndpoint(endpoint string) Option {
	return func(d *Client) error {
		if _, err := url.Parse(endpoint); err != nil {
			return fmt.Errorf("parsing endpoint: %w", err)
		}
		d.endpoint = endpoint
		return nil
	}
}

// WithRetryConfig sets the backoff used for 429 and 5xx responses.
func WithRetryConfig(cfg retry.Config) Option {
	return func(d *Client) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		d.retry = cfg
		return nil
	}
}

// WithThrottle replaces the process-wide one query per second throttle.
func WithThrottle(t *search.Throttle) Option {
	return func(d *Client) error {
		d.throttle = t
		return nil
	}
}

// New returns a DuckDuckGo client.
func New(opts ...Option) (*Client, error) {
	d := &Client{
		endpoint: Endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		retry:    retry.Default(),
		throttle: shared,
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Search implements search.Provider.
func (d *Client) Search(ctx context.Context, query string, maxResults int) ([]search.Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("duckduckgo: query is empty")
	}
	form := url.Values{"q": {query}}.Encode()

	body, err := search.Fetch(ctx, d.http, "duckduckgo", d.retry, func(ctx context.Context) (*http.Request, error) {
		if d.throttle != nil {
			if err := d.throttle.Wait(ctx); err != nil {
				return nil, err
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	items, err := parse(body)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parsing results: %w", err)
	}
	return search.Truncate(items, maxResults), nil
}

// parse reads result links and their snippets from the lite page. Each
// result is an anchor with class result-link, followed later by a cell
// with class result-snippet.
func parse(body []byte) ([]search.Item, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var items []search.Item
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result-link"):
				if link := resolve(attr(n, "href")); link != "" {
					items = append(items, search.Item{Title: text(n), URL: link})
				}
				return
			case n.Data == "td" && hasClass(n, "result-snippet"):
				if len(items) > 0 && items[len(items)-1].Snippet == "" {
					items[len(items)-1].Snippet = text(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return items, nil
}

// resolve unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolve(href string) string {
	href = strings.TrimSpace(href)
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	return strings.Contains(" "+attr(n, "class")+" ", " "+class+" ")
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
