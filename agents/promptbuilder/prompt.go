/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/xml"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// stringLiteral only accepts untyped string constants from callers.
type stringLiteral string

// segment is either literal template text or a named placeholder.
type segment struct {
	text string
	slot string
}

// Prompt is an immutable parsed template plus the values bound so far.
type Prompt struct {
	segments []segment
	slots    map[string]struct{}
	values   map[string]func() (string, error)
}

// NewPrompt parses template, returning an error for an unclosed or
// malformed placeholder.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	segments, err := parse(string(template))
	if err != nil {
		return nil, err
	}
	p := &Prompt{
		segments: segments,
		slots:    make(map[string]struct{}),
		values:   make(map[string]func() (string, error)),
	}
	for _, s := range segments {
		if s.slot != "" {
			p.slots[s.slot] = struct{}{}
		}
	}
	return p, nil
}

// MustNewPrompt is NewPrompt for package-level templates. It panics on a
// malformed template.
func MustNewPrompt(template stringLiteral) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Slots lists the placeholder names in sorted order.
func (p *Prompt) Slots() []string {
	return slices.Sorted(maps.Keys(p.slots))
}

// BindStringLiteral binds a developer-supplied constant.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.bind(name, func() (string, error) { return string(value), nil })
}

// BindXML binds data marshaled as indented XML.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := xml.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal %s as XML: %w", name, err)
		}
		return string(b), nil
	})
}

// BindYAML binds data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := yaml.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("marshal %s as YAML: %w", name, err)
		}
		return strings.TrimRight(string(b), "\n"), nil
	})
}

func (p *Prompt) bind(name string, render func() (string, error)) (*Prompt, error) {
	if _, ok := p.slots[name]; !ok {
		return nil, fmt.Errorf("binding %q not found in template", name)
	}
	if _, ok := p.values[name]; ok {
		return nil, fmt.Errorf("binding %q already bound", name)
	}
	values := maps.Clone(p.values)
	values[name] = render
	return &Prompt{segments: p.segments, slots: p.slots, values: values}, nil
}

// Build renders the prompt. Every placeholder must be bound.
func (p *Prompt) Build() (string, error) {
	rendered := make(map[string]string, len(p.slots))
	for _, name := range p.Slots() {
		render, ok := p.values[name]
		if !ok {
			return "", fmt.Errorf("unbound placeholder: %s", name)
		}
		v, err := render()
		if err != nil {
			return "", err
		}
		rendered[name] = v
	}

	var sb strings.Builder
	for _, s := range p.segments {
		if s.slot != "" {
			sb.WriteString(rendered[s.slot])
			continue
		}
		sb.WriteString(s.text)
	}
	return sb.String(), nil
}

func parse(template string) ([]segment, error) {
	var out []segment
	for template != "" {
		start := strings.Index(template, "{{")
		if start < 0 {
			out = append(out, segment{text: template})
			break
		}
		if start > 0 {
			out = append(out, segment{text: template[:start]})
		}
		end := strings.Index(template[start:], "}}")
		if end < 0 {
			return nil, errors.New("unclosed binding: missing '}}'")
		}
		name := strings.TrimSpace(template[start+2 : start+end])
		if !isIdentifier(name) {
			return nil, fmt.Errorf("invalid binding identifier %q", name)
		}
		out = append(out, segment{slot: name})
		template = template[start+end+2:]
	}
	return out, nil
}

// isIdentifier reports whether s is a letter followed by letters, digits
// or underscores.
func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
