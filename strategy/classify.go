/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"regexp"
	"strings"
)

var (
	completeIndicators = []string{
		"adequately answer",
		"sufficient information",
		"comprehensive enough",
		"query is answered",
		"satisfactory",
	}
	incompleteIndicators = []string{
		"more information needed",
		"additional search",
		"missing information",
		"need to explore",
	}

	completeRe   = indicatorRe(completeIndicators)
	incompleteRe = indicatorRe(incompleteIndicators)
)

// indicatorRe matches any phrase starting at a word boundary, so
// "insufficient information" and "unsatisfactory" do not count as
// affirmations while "additional searches" still matches its stem.
func indicatorRe(phrases []string) *regexp.Regexp {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`)
}

// Classify derives a verdict from an evaluator's free-text response.
// Affirming phrases are checked before negating ones, so text containing
// both is complete.
//
// Text with neither kind of phrase is treated as complete. That default
// favours stopping early and can pass off thin research as finished;
// callers that care should inspect Indicator, which is empty in that case.
func Classify(raw string) EvaluationVerdict {
	lower := strings.ToLower(raw)
	if m := completeRe.FindString(lower); m != "" {
		return EvaluationVerdict{Complete: true, RawText: raw, Indicator: m}
	}
	if m := incompleteRe.FindString(lower); m != "" {
		return EvaluationVerdict{Complete: false, RawText: raw, Indicator: m}
	}
	return EvaluationVerdict{Complete: true, RawText: raw}
}
