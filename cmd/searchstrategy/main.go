/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main is the searchstrategy command. It plans web searches for a
// question, runs them, and synthesizes and evaluates a combined answer.
//
// Commands:
//   - run answers one question and stores the session
//   - extract prints the queries found in a strategy
//   - serve answers questions over HTTP and exposes Prometheus metrics
//
// Configuration comes from the environment (optionally seeded from a .env
// file) and flags override it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A missing .env file is fine.
	_ = godotenv.Load()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "failed to process config: %v", err)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("searchstrategy"),
		kong.Description("Plan, run and evaluate web search strategies."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err := kctx.Run(&cfg); err != nil {
		clog.FatalContextf(ctx, "%s failed: %v", kctx.Command(), err)
	}
}
