/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package strategy

import (
	"encoding/xml"

	"chainguard.dev/searchstrategy/agents/promptbuilder"
)

const noResults = "No results found."

var (
	planPrompt = promptbuilder.MustNewPrompt(`For the following question, create a comprehensive web search strategy.

{{question}}

Create a detailed strategy with specific search queries that would gather all the information needed.
Structure your response as a numbered list of 3 to 5 search queries, one per line, each written as
"N. Search for <query>", followed by a brief explanation of what it should find.`)

	followUpPrompt = promptbuilder.MustNewPrompt(`An earlier round of web searches did not fully answer a question.

{{question}}

The searches already run and the evaluation of their combined answer:

{{previous}}

Propose up to 5 new search queries that target the missing information. Do not repeat earlier queries.
Write them as a numbered list, one per line, each written as "N. Search for <query>".`)

	synthesisPrompt = promptbuilder.MustNewPrompt(`I've searched for information about the question below.

{{question}}

Based on several different searches, here's what I found:

{{findings}}

Combine these search results into a comprehensive answer to the original question.
Provide a well-structured, comprehensive answer that synthesizes all the information.
Include only factual information supported by the findings.`)

	evaluationPrompt = promptbuilder.MustNewPrompt(`Evaluate if the search results adequately answer the original query.

{{question}}

{{answer}}

Please analyze:
1. How well the results address the original query
2. What information might be missing
3. Whether additional searches would be beneficial
4. A clear judgment: "SEARCH COMPLETE" or "ADDITIONAL SEARCHES NEEDED"`)

	answerPrompt = promptbuilder.MustNewPrompt(`Formulate a comprehensive response to the user's question.

{{question}}

Based on our research, here's what we found:

{{answer}}

Create a well-structured, accurate response that directly addresses the question.
Include relevant facts, details and context from the research.
If the information available is limited, acknowledge it.`)
)

type questionXML struct {
	XMLName xml.Name `xml:"original_question"`
	Text    string   `xml:",chardata"`
}

type answerXML struct {
	XMLName xml.Name `xml:"combined_answer"`
	Text    string   `xml:",chardata"`
}

type findingsXML struct {
	XMLName  xml.Name    `xml:"search_findings"`
	Count    int         `xml:"count,attr"`
	Searches []searchXML `xml:"search"`
}

type searchXML struct {
	Number  int         `xml:"number,attr"`
	Query   string      `xml:"query"`
	Note    string      `xml:"note,omitempty"`
	Results []resultXML `xml:"result"`
}

type resultXML struct {
	Title   string `xml:"title"`
	URL     string `xml:"url"`
	Snippet string `xml:"snippet"`
}

// previousRound is bound as YAML into the follow-up prompt.
type previousRound struct {
	Queries    []string `yaml:"queries"`
	Evaluation string   `yaml:"evaluation"`
}

func findings(outcomes []QueryOutcome) findingsXML {
	f := findingsXML{Count: len(outcomes), Searches: make([]searchXML, 0, len(outcomes))}
	for i, o := range outcomes {
		s := searchXML{Number: i + 1, Query: o.Query.Text}
		if len(o.Results) == 0 {
			s.Note = noResults
		}
		for _, r := range o.Results {
			s.Results = append(s.Results, resultXML{Title: r.Title, URL: r.URL, Snippet: r.Snippet})
		}
		f.Searches = append(f.Searches, s)
	}
	return f
}

type synthesisRequest struct {
	question string
	outcomes []QueryOutcome
}

func (r synthesisRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindXML("question", questionXML{Text: r.question})
	if err != nil {
		return nil, err
	}
	return p.BindXML("findings", findings(r.outcomes))
}

type answerRequest struct {
	question string
	answer   string
}

func (r answerRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindXML("question", questionXML{Text: r.question})
	if err != nil {
		return nil, err
	}
	return p.BindXML("answer", answerXML{Text: r.answer})
}

type planRequest struct {
	question string
	previous *previousRound
}

func (r planRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindXML("question", questionXML{Text: r.question})
	if err != nil {
		return nil, err
	}
	if r.previous == nil {
		return p, nil
	}
	return p.BindYAML("previous", r.previous)
}
