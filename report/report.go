/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders research rounds for terminals and pipes.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"chainguard.dev/searchstrategy/strategy"
)

const cellWidth = 48

// newTable creates a markdown style table writer used by every report.
func newTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// Text writes res as a searches table followed by the combined answer and
// the verdict.
func Text(w io.Writer, res *strategy.Result) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n", res.OriginalQuery)
	if res.SessionID != "" {
		fmt.Fprintf(&sb, "Session: %s\n", res.SessionID)
	}
	sb.WriteString("\n")
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}

	table := newTable([]string{"#", "Query", "Hits", "Top Result"}, w)
	for i, o := range res.Outcomes {
		top := ""
		switch {
		case o.Err != "":
			top = "error: " + o.Err
		case len(o.Results) > 0:
			top = o.Results[0].Title
		}
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			clip(o.Query.Text),
			strconv.Itoa(len(o.Results)),
			clip(top),
		}); err != nil {
			return fmt.Errorf("append row %d: %w", i+1, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render searches: %w", err)
	}

	sb.Reset()
	fmt.Fprintf(&sb, "\n## Combined answer\n\n%s\n\n", strings.TrimSpace(res.Combined.Text))
	fmt.Fprintf(&sb, "## Verdict: %s\n", verdict(res.Verdict))
	_, err := io.WriteString(w, sb.String())
	return err
}

// JSON writes res as indented JSON.
func JSON(w io.Writer, res *strategy.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// Queries writes extracted queries as a table.
func Queries(w io.Writer, queries []strategy.SearchQuery) error {
	table := newTable([]string{"#", "Query", "Source"}, w)
	for _, q := range queries {
		if err := table.Append([]string{strconv.Itoa(q.Position), q.Text, clip(q.Source)}); err != nil {
			return fmt.Errorf("append query %d: %w", q.Position, err)
		}
	}
	return table.Render()
}

func verdict(v strategy.EvaluationVerdict) string {
	state := "SEARCH COMPLETE"
	if !v.Complete {
		state = "ADDITIONAL SEARCHES NEEDED"
	}
	if v.Indicator == "" {
		return state + " (no indicator matched)"
	}
	return fmt.Sprintf("%s (matched %q)", state, v.Indicator)
}

func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= cellWidth {
		return s
	}
	return string(r[:cellWidth-3]) + "..."
}
