/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"chainguard.dev/searchstrategy/agents/retry"
	"chainguard.dev/searchstrategy/search"
)

const litePage = `<html><body><table>
<tr><td>1.&nbsp;</td><td>
  <a rel="nofollow" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fsafety&amp;rut=abc" class='result-link'>AI <b>Safety</b> Papers</a>
</td></tr>
<tr><td>&nbsp;</td><td class='result-snippet'>Recent work on <b>alignment</b> &amp; evaluation.</td></tr>
<tr><td>2.&nbsp;</td><td>
  <a rel="nofollow" href="https://example.org/funding" class='result-link'>Funding 2024</a>
</td></tr>
<tr><td>&nbsp;</td><td class='result-snippet'>Grants overview.</td></tr>
<tr><td>3.&nbsp;</td><td>
  <a rel="nofollow" href="javascript:void(0)" class='result-link'>Ad</a>
</td></tr>
<tr><td>4.&nbsp;</td><td>
  <a rel="nofollow" href="https://example.net/third" class='result-link'>Third</a>
</td></tr>
</table></body></html>`

func TestParse(t *testing.T) {
	t.Parallel()
	got, err := parse([]byte(litePage))
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	want := []search.Item{
		{Title: "AI Safety Papers", URL: "https://example.com/safety", Snippet: "Recent work on alignment & evaluation."},
		{Title: "Funding 2024", URL: "https://example.org/funding", Snippet: "Grants overview."},
		{Title: "Third", URL: "https://example.net/third"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, wanted POST", r.Method)
		}
		if got := r.FormValue("q"); got != "ai safety" {
			t.Errorf("q = %q, wanted = %q", got, "ai safety")
		}
		_, _ = w.Write([]byte(litePage))
	}))
	defer srv.Close()

	c, err := New(
		WithEndpoint(srv.URL),
		WithHTTPClient(srv.Client()),
		WithThrottle(nil),
		WithRetryConfig(retry.Config{MaxRetries: 1, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := c.Search(context.Background(), "ai safety", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 || got[1].URL != "https://example.org/funding" {
		t.Errorf("Search() = %+v, wanted the first two results", got)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()
	c, err := New(WithThrottle(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := c.Search(context.Background(), "  ", 5); err == nil {
		t.Error("Search(blank) error = nil, wanted error")
	}
}
