/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"chainguard.dev/searchstrategy/agents/agenttrace"
	"chainguard.dev/searchstrategy/agents/metrics"
	"chainguard.dev/searchstrategy/llm"
	"chainguard.dev/searchstrategy/search"
)

// Observer is told about every state a round enters.
type Observer func(ctx context.Context, state State)

// Pipeline executes search strategies against a search backend and a
// completion model. It holds only configuration and is safe for
// concurrent use.
type Pipeline struct {
	searcher          search.Provider
	completer         llm.Provider
	maxResults        int
	searchTimeout     time.Duration
	completionTimeout time.Duration
	parallelism       int
	observer          Observer
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithMaxResults bounds the hits requested per query. Defaults to 5.
func WithMaxResults(n int) Option {
	return func(p *Pipeline) error {
		if n <= 0 {
			return fmt.Errorf("max results must be positive, got %d", n)
		}
		p.maxResults = n
		return nil
	}
}

// WithSearchTimeout bounds each search call. A timed out search counts as
// a search with no results. Zero disables the bound.
func WithSearchTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d < 0 {
			return fmt.Errorf("search timeout cannot be negative, got %v", d)
		}
		p.searchTimeout = d
		return nil
	}
}

// WithCompletionTimeout bounds each completion call. A timed out
// completion fails the round. Zero disables the bound.
func WithCompletionTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d < 0 {
			return fmt.Errorf("completion timeout cannot be negative, got %v", d)
		}
		p.completionTimeout = d
		return nil
	}
}

// WithParallelism lets up to n searches run at once. Outcomes keep query
// order regardless. Defaults to 1.
func WithParallelism(n int) Option {
	return func(p *Pipeline) error {
		if n <= 0 {
			return fmt.Errorf("parallelism must be positive, got %d", n)
		}
		p.parallelism = n
		return nil
	}
}

// WithObserver registers fn for state transitions.
func WithObserver(fn Observer) Option {
	return func(p *Pipeline) error {
		if fn == nil {
			return errors.New("observer cannot be nil")
		}
		p.observer = fn
		return nil
	}
}

// New returns a Pipeline over searcher and completer.
func New(searcher search.Provider, completer llm.Provider, opts ...Option) (*Pipeline, error) {
	if searcher == nil {
		return nil, errors.New("search provider cannot be nil")
	}
	if completer == nil {
		return nil, errors.New("completion provider cannot be nil")
	}
	p := &Pipeline{
		searcher:    searcher,
		completer:   completer,
		maxResults:  5,
		parallelism: 1,
		observer:    func(context.Context, State) {},
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type execution struct {
	sessionID string
}

// ExecuteOption configures one Execute call.
type ExecuteOption func(*execution)

// WithSessionID labels the round's logs, traces and metrics. It has no
// effect on the result.
func WithSessionID(id string) ExecuteOption {
	return func(e *execution) {
		e.sessionID = id
	}
}

// Execute runs one round for originalQuery using the queries found in
// strategyText. Search failures are absorbed; completion failures are
// returned with their cause intact.
func (p *Pipeline) Execute(ctx context.Context, originalQuery, strategyText string, opts ...ExecuteOption) (*Result, error) {
	var ex execution
	for _, opt := range opts {
		opt(&ex)
	}
	ctx = metrics.WithSession(ctx, ex.sessionID)
	if ex.sessionID != "" {
		ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("session", ex.sessionID))
	}

	tr := agenttrace.StartTrace(ctx, originalQuery)
	ctx = tr.Context()

	res, err := p.execute(ctx, tr, originalQuery, strategyText)
	tr.Complete(err)
	if err != nil {
		executionCounter.WithLabelValues("error").Inc()
		return nil, err
	}
	res.SessionID = ex.sessionID
	executionCounter.WithLabelValues(string(res.State)).Inc()
	return res, nil
}

func (p *Pipeline) execute(ctx context.Context, tr *agenttrace.Trace, originalQuery, strategyText string) (*Result, error) {
	log := clog.FromContext(ctx)

	queries := ExtractQueries(strategyText)
	res := &Result{
		OriginalQuery: originalQuery,
		Strategy:      strategyText,
		Queries:       make([]string, 0, len(queries)),
	}
	for _, q := range queries {
		res.Queries = append(res.Queries, q.Text)
	}
	log.With("queries", len(queries)).Info("Executing search strategy")

	p.enter(ctx, res, Searching)
	start := time.Now()
	step := tr.StartStep("searching", attribute.Int("queries", len(queries)))
	res.Outcomes = p.searchAll(step, queries)
	step.Complete(nil)
	stageDuration.WithLabelValues(string(Searching)).Observe(time.Since(start).Seconds())

	p.enter(ctx, res, Synthesizing)
	start = time.Now()
	step = tr.StartStep("synthesizing")
	combined, resp, err := p.synthesize(step.Context(), originalQuery, res.Outcomes)
	if resp != nil {
		step.RecordTokenUsage(resp.Model, resp.InputTokens, resp.OutputTokens)
	}
	step.Complete(err)
	stageDuration.WithLabelValues(string(Synthesizing)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	res.Combined = combined

	p.enter(ctx, res, Evaluating)
	start = time.Now()
	step = tr.StartStep("evaluating")
	verdict, resp, err := p.evaluate(step.Context(), originalQuery, combined)
	if resp != nil {
		step.RecordTokenUsage(resp.Model, resp.InputTokens, resp.OutputTokens)
	}
	step.SetAttributes(attribute.Bool("complete", verdict.Complete), attribute.String("indicator", verdict.Indicator))
	step.Complete(err)
	stageDuration.WithLabelValues(string(Evaluating)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	res.Verdict = verdict
	recordVerdict(verdict)

	if verdict.Indicator == "" {
		log.Warn("Evaluation matched no indicator phrase, treating the answer as complete")
	}
	if verdict.Complete {
		p.enter(ctx, res, Done)
	} else {
		p.enter(ctx, res, NeedsMoreSearch)
	}
	log.With("complete", verdict.Complete).With("indicator", verdict.Indicator).Info("Search strategy evaluated")
	return res, nil
}

func (p *Pipeline) enter(ctx context.Context, res *Result, s State) {
	res.State = s
	p.observer(ctx, s)
}

// searchAll runs every query under parent, at most p.parallelism at a time,
// and returns outcomes in query order.
func (p *Pipeline) searchAll(parent *agenttrace.Step, queries []SearchQuery) []QueryOutcome {
	outcomes := make([]QueryOutcome, len(queries))
	var g errgroup.Group
	g.SetLimit(p.parallelism)
	for i, q := range queries {
		g.Go(func() error {
			outcomes[i] = p.searchOne(parent, q)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (p *Pipeline) searchOne(parent *agenttrace.Step, q SearchQuery) QueryOutcome {
	step := parent.StartStep("search", attribute.String("query", q.Text), attribute.Int("position", q.Position))
	ctx, cancel := bound(step.Context(), p.searchTimeout)
	defer cancel()

	outcome := QueryOutcome{Query: q, Results: []search.Item{}}
	items, err := p.searcher.Search(ctx, q.Text, p.maxResults)
	if err != nil {
		clog.FromContext(ctx).With("query", q.Text).
			With("position", q.Position).
			With("error", err.Error()).
			Warn("Search failed, continuing without results")
		searchFailureCounter.Inc()
		outcome.Err = err.Error()
	} else {
		outcome.Results = append(outcome.Results, search.Truncate(items, p.maxResults)...)
	}
	step.SetAttributes(attribute.Int("results", len(outcome.Results)))
	step.Complete(err)
	return outcome
}

func (p *Pipeline) synthesize(ctx context.Context, question string, outcomes []QueryOutcome) (CombinedAnswer, *llm.Response, error) {
	ctx, cancel := bound(ctx, p.completionTimeout)
	defer cancel()
	return Synthesize(ctx, p.completer, question, outcomes)
}

func (p *Pipeline) evaluate(ctx context.Context, question string, answer CombinedAnswer) (EvaluationVerdict, *llm.Response, error) {
	ctx, cancel := bound(ctx, p.completionTimeout)
	defer cancel()
	return Evaluate(ctx, p.completer, question, answer)
}

func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
