/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/searchstrategy/session"
	"chainguard.dev/searchstrategy/strategy"
)

// researcher drives rounds of a session until the evaluation is satisfied
// or the round budget runs out.
type researcher struct {
	pipeline  *strategy.Pipeline
	store     session.Store
	maxRounds int
	answer    bool
}

// outcome is the last round of a session and the answer written from it.
type outcome struct {
	Result *strategy.Result `json:"result"`
	Rounds int              `json:"rounds"`
	Answer string           `json:"answer,omitempty"`
}

func (r *researcher) research(ctx context.Context, id, question, plan string) (*outcome, error) {
	if question == "" {
		return nil, errors.New("question cannot be empty")
	}
	if id == "" {
		id = session.NewID()
	} else if err := session.Validate(id); err != nil {
		return nil, err
	}
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("session", id))
	log := clog.FromContext(ctx)

	if plan == "" {
		var err error
		if plan, err = r.pipeline.Plan(ctx, question); err != nil {
			return nil, err
		}
	}

	out := &outcome{}
	for {
		out.Rounds++
		res, err := r.pipeline.Execute(ctx, question, plan, strategy.WithSessionID(id))
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", out.Rounds, err)
		}
		out.Result = res
		if err := r.store.SaveResult(ctx, session.NewDump(res)); err != nil {
			return nil, fmt.Errorf("saving round %d: %w", out.Rounds, err)
		}
		if res.State == strategy.Done || out.Rounds >= r.maxRounds {
			break
		}
		log.With("round", out.Rounds).Info("Evaluation asked for more searches, planning a follow-up round")
		if plan, err = r.pipeline.FollowUp(ctx, res); err != nil {
			return nil, err
		}
	}

	if !r.answer {
		return out, nil
	}
	answer, err := r.pipeline.Answer(ctx, out.Result)
	if err != nil {
		return nil, err
	}
	if err := r.store.SaveAnswer(ctx, id, answer); err != nil {
		return nil, fmt.Errorf("saving answer: %w", err)
	}
	out.Answer = answer
	return out, nil
}
