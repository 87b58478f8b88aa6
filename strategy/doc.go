/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package strategy turns an LLM-authored search strategy into a researched,
self-evaluated answer.

A Pipeline runs four stages in order:

  - ExtractQueries pulls up to five search queries out of free-form
    strategy text.
  - Each query is sent to a search.Provider. A failing search contributes an
    empty result list; it never fails the run.
  - The findings are combined into one answer by an llm.Provider.
  - The same provider judges whether the answer covers the question, and
    Classify turns that judgment into a boolean.

Completion errors in the last two stages are returned to the caller. The
pipeline never loops on its own: a Result in state NeedsMoreSearch is the
caller's cue to plan a follow-up round with Pipeline.FollowUp.
*/
package strategy
