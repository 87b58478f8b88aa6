/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServeCmd answers research requests over HTTP.
type ServeCmd struct {
	Addr      string `default:":8080" env:"ADDR" help:"Listen address"`
	MaxRounds int    `default:"2" help:"Upper bound on rounds a request may ask for"`
}

// Run implements the serve command.
func (c *ServeCmd) Run(ctx context.Context, cfg *config) error {
	pipeline, err := cfg.newPipeline(ctx)
	if err != nil {
		return err
	}
	store, closeStore, err := cfg.newStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           newHandler(&researcher{pipeline: pipeline, store: store, maxRounds: c.MaxRounds, answer: true}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	clog.FromContext(ctx).With("addr", c.Addr).Info("Serving search strategy API")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type researchRequest struct {
	Question  string `json:"question"`
	Strategy  string `json:"strategy,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	MaxRounds int    `json:"max_rounds,omitempty"`

	// SkipAnswer stops after evaluation.
	SkipAnswer bool `json:"skip_answer,omitempty"`
}

func newHandler(r *researcher) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/search-strategy", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		var body researchRequest
		if err := json.NewDecoder(io.LimitReader(req.Body, 1<<20)).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
			return
		}
		if body.Question == "" {
			writeError(w, http.StatusBadRequest, errors.New("question is required"))
			return
		}

		call := *r
		if body.MaxRounds > 0 && body.MaxRounds < call.maxRounds {
			call.maxRounds = body.MaxRounds
		}
		call.answer = !body.SkipAnswer

		out, err := call.research(ctx, body.SessionID, body.Question, body.Strategy)
		if err != nil {
			clog.FromContext(ctx).With("error", err.Error()).Error("Research failed")
			writeError(w, http.StatusBadGateway, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = writeJSON(w, out)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok\n")
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = writeJSON(w, map[string]string{"error": err.Error()})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
