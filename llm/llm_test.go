/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm_test

import (
	"context"
	"testing"
	"time"

	"chainguard.dev/searchstrategy/agents/retry"
	"chainguard.dev/searchstrategy/llm"
)

func TestResponseContent(t *testing.T) {
	t.Parallel()
	var nilResp *llm.Response
	if got := nilResp.Content(); got != "" {
		t.Errorf("nil Content() = %q, wanted empty", got)
	}
	if got := (&llm.Response{Text: "hello"}).Content(); got != "hello" {
		t.Errorf("Content() = %q, wanted = %q", got, "hello")
	}
}

func TestFunc(t *testing.T) {
	t.Parallel()
	var p llm.Provider = llm.Func(func(_ context.Context, prompt string) (*llm.Response, error) {
		return &llm.Response{Text: "echo: " + prompt}, nil
	})
	resp, err := p.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got, want := resp.Content(), "echo: hi"; got != want {
		t.Errorf("Complete() = %q, wanted = %q", got, want)
	}
}

func TestNewSettings(t *testing.T) {
	t.Parallel()
	s, err := llm.NewSettings("base-model",
		llm.WithModel("other"),
		llm.WithMaxTokens(100),
		llm.WithTemperature(0.5),
		llm.WithSystem("be brief"),
		llm.WithRetryConfig(retry.Config{MaxRetries: 1, BaseBackoff: time.Millisecond}),
	)
	if err != nil {
		t.Fatalf("NewSettings() error = %v", err)
	}
	if s.Model != "other" || s.MaxTokens != 100 || s.Temperature != 0.5 || s.System != "be brief" || s.Retry.MaxRetries != 1 {
		t.Errorf("NewSettings() = %+v, wanted the options applied", s)
	}
	if s.Metrics == nil {
		t.Error("Metrics = nil, wanted a default instance")
	}
}

func TestNewSettingsRejects(t *testing.T) {
	t.Parallel()
	for name, opt := range map[string]llm.Option{
		"empty model":    llm.WithModel(""),
		"zero tokens":    llm.WithMaxTokens(0),
		"hot":            llm.WithTemperature(1.5),
		"negative retry": llm.WithRetryConfig(retry.Config{MaxRetries: -1}),
		"nil metrics":    llm.WithMetrics(nil),
	} {
		if _, err := llm.NewSettings("m", opt); err == nil {
			t.Errorf("%s: NewSettings() error = nil, wanted error", name)
		}
	}
}
