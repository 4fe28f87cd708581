// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cleanup turns raw extracted PDF text into Markdown, either with
// regex heuristics or page by page through a chat completion backend.
package cleanup

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
	spaceRunRe  = regexp.MustCompile(` {2,}`)
	capsTitleRe = regexp.MustCompile(`\n([A-Z][A-Z\s]{4,})\n`)
	keywordRe   = regexp.MustCompile(`(?m)^(Casting Time|Range|Components|Duration|Level \d+|Saving Throw|Hit Points):`)
)

// Basic applies the regex cleanup pipeline to raw text: NFKC
// normalisation, blank-run collapsing, hyphenation repair, joining of
// wrapped lines, space collapsing, ALL-CAPS lines promoted to headers, and
// bolded mechanical keywords at line starts.
func Basic(raw string) string {
	text := norm.NFKC.String(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = strings.ReplaceAll(text, "-\n", "")
	text = JoinWrappedLines(text)
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = PromoteCapsHeaders(text)
	text = BoldKeywords(text)
	return strings.TrimSpace(text)
}

// JoinWrappedLines replaces every newline that is not next to another
// newline with a space, leaving paragraph breaks intact.
func JoinWrappedLines(text string) string {
	b := []byte(text)
	for i, c := range b {
		if c != '\n' {
			continue
		}
		prevNL := i > 0 && text[i-1] == '\n'
		nextNL := i+1 < len(text) && text[i+1] == '\n'
		if !prevNL && !nextNL {
			b[i] = ' '
		}
	}
	return string(b)
}

// PromoteCapsHeaders turns lines of five or more capitals and spaces into
// level-one headers.
func PromoteCapsHeaders(text string) string {
	return capsTitleRe.ReplaceAllString(text, "\n# $1\n")
}

// BoldKeywords bolds spell and stat block labels at the start of a line.
func BoldKeywords(text string) string {
	return keywordRe.ReplaceAllString(text, "**$1**:")
}
