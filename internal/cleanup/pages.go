// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cleanup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PageSeparator joins cleaned pages in the output document.
const PageSeparator = "\n\n---\n\n"

var pageMarkerRe = regexp.MustCompile(`<!-- Page (\d+) -->`)

// Page is one page of extracted text.
type Page struct {
	Number int
	Text   string

	// Headers lists words the PDF sets larger than body text on this page.
	Headers []string
}

// PageMarker returns the marker comment that precedes page n.
func PageMarker(n int) string {
	return fmt.Sprintf("<!-- Page %d -->", n)
}

// SplitPages splits text on page markers. Text before the first marker is
// dropped. Text with no markers at all is returned as page 1.
func SplitPages(text string) []Page {
	locs := pageMarkerRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []Page{{Number: 1, Text: strings.TrimSpace(text)}}
	}

	pages := make([]Page, 0, len(locs))
	for i, loc := range locs {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		pages = append(pages, Page{Number: n, Text: strings.TrimSpace(text[loc[1]:end])})
	}
	return pages
}

// JoinPages renders pages with their markers, separated by PageSeparator.
func JoinPages(pages []Page) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = PageMarker(p.Number) + "\n\n" + p.Text
	}
	return strings.Join(parts, PageSeparator)
}
