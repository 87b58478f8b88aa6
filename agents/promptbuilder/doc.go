/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder assembles LLM prompts from developer-authored templates
and caller data, keeping the two apart.

Templates contain `{{name}}` placeholders and must be string literals: the
parameter type is unexported, so only untyped constants convert to it.
Caller data (questions, search snippets, model output from an earlier step)
is bound through an encoder so it arrives in the prompt as escaped XML or
YAML rather than as free text that can rewrite the instructions around it.

	p := promptbuilder.MustNewPrompt(`Answer this:
	{{question}}`)
	p, err := p.BindXML("question", struct {
		XMLName xml.Name `xml:"question"`
		Text    string   `xml:",chardata"`
	}{Text: userInput})
	if err != nil { ... }
	text, err := p.Build()

Templates are parsed once. Substitution is a single pass over the parsed
segments, so a bound value containing `{{other}}` is never expanded.
Every Bind method returns a new Prompt and leaves the receiver untouched,
which lets package-level templates be shared between goroutines.
*/
package promptbuilder
