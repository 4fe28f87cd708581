// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline lists the headings of a Markdown document so a section
// catalogue can be drafted from it.
package outline

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/rulebook-engine/internal/catalogue"
)

// Heading is one heading found in the document.
type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`

	// Marker is the full source line of the heading, usable as a catalogue
	// marker.
	Marker string `json:"marker" yaml:"marker"`

	// Offset is the byte offset of the heading line; Line is 1-based.
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line" yaml:"line"`
}

// Headings parses src and returns its headings in document order. Headings
// nested in block quotes or lists are included.
func Headings(src []byte) []Heading {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		seg := h.Lines().At(0)
		start := bytes.LastIndexByte(src[:seg.Start], '\n') + 1
		end := bytes.IndexByte(src[start:], '\n')
		if end < 0 {
			end = len(src)
		} else {
			end += start
		}

		out = append(out, Heading{
			Level:  h.Level,
			Text:   strings.TrimSpace(string(h.Text(src))),
			Marker: strings.TrimRight(string(src[start:end]), " \t\r"),
			Offset: start,
			Line:   bytes.Count(src[:start], []byte{'\n'}) + 1,
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}

// Skeleton turns the headings at the given level into catalogue entries.
// Level 0 keeps every heading. Repeated titles or markers keep their first
// occurrence only, since a catalogue cannot hold duplicates.
func Skeleton(headings []Heading, level int) []catalogue.Entry {
	var entries []catalogue.Entry
	titles := make(map[string]bool)
	markers := make(map[string]bool)
	for _, h := range headings {
		if level > 0 && h.Level != level {
			continue
		}
		if h.Text == "" || titles[h.Text] || markers[h.Marker] {
			continue
		}
		titles[h.Text] = true
		markers[h.Marker] = true
		entries = append(entries, catalogue.Entry{Title: h.Text, Marker: h.Marker})
	}
	return entries
}
