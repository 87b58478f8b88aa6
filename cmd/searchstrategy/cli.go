/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/searchstrategy/report"
	"chainguard.dev/searchstrategy/strategy"
)

// CLI defines the command-line interface.
type CLI struct {
	Run     RunCmd     `cmd:"" help:"Research a question"`
	Extract ExtractCmd `cmd:"" help:"Print the search queries found in a strategy"`
	Serve   ServeCmd   `cmd:"" help:"Serve research over HTTP"`
}

// RunCmd researches one question.
type RunCmd struct {
	Question     string `arg:"" help:"Question to research"`
	Strategy     string `short:"s" help:"Search strategy text; planned by the model when omitted"`
	StrategyFile string `short:"f" type:"existingfile" help:"Read the search strategy from a file"`
	Session      string `help:"Session id; generated when omitted"`
	MaxRounds    int    `default:"1" help:"Rounds to run while the evaluation asks for more searches"`
	Output       string `short:"o" default:"table" enum:"table,json" help:"Output format (table, json)"`
	SkipAnswer   bool   `help:"Stop after evaluation without writing a final answer"`
	Parallelism  int    `help:"Concurrent searches (overrides SEARCH_PARALLELISM)"`
}

// Run implements the run command.
func (c *RunCmd) Run(ctx context.Context, cfg *config) error {
	if c.MaxRounds < 1 {
		return fmt.Errorf("max rounds must be at least 1, got %d", c.MaxRounds)
	}
	plan, err := readStrategy(c.Strategy, c.StrategyFile, nil)
	if err != nil {
		return err
	}

	var opts []strategy.Option
	if c.Parallelism > 0 {
		opts = append(opts, strategy.WithParallelism(c.Parallelism))
	}
	pipeline, err := cfg.newPipeline(ctx, opts...)
	if err != nil {
		return err
	}
	store, closeStore, err := cfg.newStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	r := &researcher{pipeline: pipeline, store: store, maxRounds: c.MaxRounds, answer: !c.SkipAnswer}
	out, err := r.research(ctx, c.Session, c.Question, plan)
	if err != nil {
		return err
	}
	clog.FromContext(ctx).With("session", out.Result.SessionID).
		With("rounds", out.Rounds).
		With("state", string(out.Result.State)).
		Info("Research finished")

	if c.Output == "json" {
		return report.JSON(os.Stdout, out.Result)
	}
	if err := report.Text(os.Stdout, out.Result); err != nil {
		return err
	}
	if out.Answer != "" {
		_, err = fmt.Fprintf(os.Stdout, "\n## Answer\n\n%s\n", strings.TrimSpace(out.Answer))
	}
	return err
}

// ExtractCmd prints the queries a strategy would run.
type ExtractCmd struct {
	Strategy string `arg:"" optional:"" help:"Strategy text; read from --file or stdin when omitted"`
	File     string `short:"f" type:"existingfile" help:"Read the strategy from a file"`
	JSON     bool   `help:"Print queries as JSON"`
}

// Run implements the extract command.
func (c *ExtractCmd) Run() error {
	text, err := readStrategy(c.Strategy, c.File, os.Stdin)
	if err != nil {
		return err
	}
	queries := strategy.ExtractQueries(text)
	if c.JSON {
		return writeJSON(os.Stdout, queries)
	}
	return report.Queries(os.Stdout, queries)
}

// readStrategy returns inline text, else the file contents, else whatever
// stdin holds when it is non-nil.
func readStrategy(text, file string, stdin io.Reader) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading strategy: %w", err)
		}
		return string(b), nil
	case stdin != nil:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading strategy from stdin: %w", err)
		}
		return string(b), nil
	}
	return "", nil
}
