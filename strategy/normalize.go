/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxQueries bounds how many queries a strategy can yield.
	MaxQueries = 5
	maxQuoted  = 3
	// A query must be longer than this many characters.
	minQueryLen = 5
)

var (
	markerRe     = regexp.MustCompile(`(?i)search for|query:|research:|look up`)
	enumeratedRe = regexp.MustCompile(`^(?:\d+[.)]|[-*•])`)
	// enumPrefixRe strips the whole leading run of list punctuation.
	enumPrefixRe = regexp.MustCompile(`^[\d.)\-*•\s]+`)
	// listMarkerRe strips exactly one list marker.
	listMarkerRe = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s*`)
	quotedRe     = regexp.MustCompile(`"([^"]+)"`)
)

// ExtractQueries pulls search queries out of strategy text.
//
// A line naming a search ("Search for ...", "Query: ...", "Research: ...",
// "Look up ...") yields what follows its first colon or dash, or the text
// after the phrase when the line has no such delimiter. Any other numbered or bulleted line yields its text without
// the list marker. Candidates of five characters or fewer are dropped.
//
// When no line qualifies, up to three double-quoted fragments are used, and
// failing that the whole trimmed text becomes the single query, even when
// it is empty. At most MaxQueries are returned, in source order, without
// de-duplication.
func ExtractQueries(text string) []SearchQuery {
	var out []SearchQuery
	add := func(q, source string) {
		out = append(out, SearchQuery{Text: q, Position: len(out) + 1, Source: source})
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		var q string
		switch {
		case markerRe.MatchString(line):
			q = markerPayload(line)
		case enumeratedRe.MatchString(line):
			q = trimQuery(enumPrefixRe.ReplaceAllString(line, ""))
		default:
			continue
		}
		if utf8.RuneCountInString(q) > minQueryLen {
			add(q, line)
		}
	}

	if len(out) == 0 {
		for _, m := range quotedRe.FindAllStringSubmatch(text, maxQuoted) {
			add(m[1], m[0])
		}
	}
	if len(out) == 0 {
		trimmed := strings.TrimSpace(text)
		add(trimmed, trimmed)
	}

	if len(out) > MaxQueries {
		out = out[:MaxQueries]
	}
	return out
}

func markerPayload(line string) string {
	s := listMarkerRe.ReplaceAllString(line, "")
	loc := markerRe.FindStringIndex(s)
	if loc == nil {
		return ""
	}
	rest := s[loc[1]:]
	if k := strings.IndexAny(s, ":-"); k >= 0 {
		rest = s[k+1:]
	}
	return trimQuery(strings.TrimLeft(rest, ":-–— \t"))
}

func trimQuery(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '“' || r == '”'
	})
}
