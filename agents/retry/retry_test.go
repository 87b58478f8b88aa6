/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/searchstrategy/agents/retry"
)

func fastConfig() retry.Config {
	return retry.Config{
		MaxRetries:  3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
		MaxJitter:   time.Millisecond,
	}
}

func always(err error) bool { return err != nil }

type statusErr int

func (s statusErr) Error() string   { return fmt.Sprintf("status %d", int(s)) }
func (s statusErr) HTTPStatus() int { return int(s) }

func TestDo(t *testing.T) {
	t.Parallel()
	transient := errors.New("429 too many requests")

	tests := []struct {
		name         string
		failures     int32
		isRetryable  func(error) bool
		wantAttempts int32
		wantErr      bool
	}{{
		name:         "first try",
		failures:     0,
		isRetryable:  always,
		wantAttempts: 1,
	}, {
		name:         "recovers",
		failures:     2,
		isRetryable:  always,
		wantAttempts: 3,
	}, {
		name:         "exhausted",
		failures:     100,
		isRetryable:  always,
		wantAttempts: 4,
		wantErr:      true,
	}, {
		name:         "permanent",
		failures:     100,
		isRetryable:  func(error) bool { return false },
		wantAttempts: 1,
		wantErr:      true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var attempts atomic.Int32
			got, err := retry.Do(context.Background(), fastConfig(), "test_op", tt.isRetryable, func(context.Context) (string, error) {
				if attempts.Add(1) <= tt.failures {
					return "", transient
				}
				return "ok", nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Do() error = %v, wanted error = %t", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, transient) {
				t.Errorf("Do() error = %v, wanted it to wrap %v", err, transient)
			}
			if !tt.wantErr && got != "ok" {
				t.Errorf("Do() = %q, wanted = %q", got, "ok")
			}
			if n := attempts.Load(); n != tt.wantAttempts {
				t.Errorf("attempts = %d, wanted = %d", n, tt.wantAttempts)
			}
		})
	}
}

func TestDoExhaustedMessage(t *testing.T) {
	t.Parallel()
	_, err := retry.Do(context.Background(), fastConfig(), "search", always, func(context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	if err == nil {
		t.Fatal("Do() error = nil, wanted error")
	}
	if want := "search failed after 3 retries"; !strings.HasPrefix(err.Error(), want) {
		t.Errorf("Do() error = %q, wanted prefix %q", err, want)
	}
}

func TestDoCancelledDuringBackoff(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.BaseBackoff = time.Hour
	cfg.MaxBackoff = time.Hour

	_, err := retry.Do(ctx, cfg, "test_op", always, func(context.Context) (string, error) {
		cancel()
		return "", errors.New("503")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, wanted = %v", err, context.Canceled)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	if err := retry.Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
	for _, cfg := range []retry.Config{
		{MaxRetries: -1},
		{BaseBackoff: -time.Second},
		{MaxBackoff: -time.Second},
		{MaxJitter: -time.Second},
	} {
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, wanted error", cfg)
		}
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()
	got := retry.Default()
	want := retry.Config{MaxRetries: 5, BaseBackoff: time.Second, MaxBackoff: time.Minute, MaxJitter: 500 * time.Millisecond}
	if got != want {
		t.Errorf("Default() = %+v, wanted = %+v", got, want)
	}
}

func TestOnStatus(t *testing.T) {
	t.Parallel()
	isRetryable := retry.OnStatus(http.StatusTooManyRequests, http.StatusServiceUnavailable)

	tests := []struct {
		err  error
		want bool
	}{
		{statusErr(http.StatusTooManyRequests), true},
		{fmt.Errorf("wrapped: %w", statusErr(http.StatusServiceUnavailable)), true},
		{statusErr(http.StatusBadRequest), false},
		{errors.New("429"), false},
	}
	for _, tt := range tests {
		if got := isRetryable(tt.err); got != tt.want {
			t.Errorf("OnStatus(%v) = %t, wanted = %t", tt.err, got, tt.want)
		}
	}
}
