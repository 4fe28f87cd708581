// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// HeaderHints is the number of header candidates kept per page.
const HeaderHints = 3

// PDFConverter extracts text page by page with the pure Go PDF reader. Each
// page is preceded by its page marker and read with the layout PageLayout
// picks for it.
type PDFConverter struct{}

// Convert reads every page of pdfPath. Pages whose text cannot be decoded
// are kept as empty pages so numbering stays aligned with the source.
func (PDFConverter) Convert(ctx context.Context, pdfPath string) (text string, err error) {
	// The reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading %s: %v", pdfPath, r)
		}
	}()

	f, reader, err := pdflib.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	n := reader.NumPage()
	if n == 0 {
		return "", fmt.Errorf("%s has no pages", pdfPath)
	}

	var b strings.Builder
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "<!-- Page %d -->\n", i)

		content := pageText(reader.Page(i), PageLayout(i))
		b.WriteString(strings.TrimRight(content, " \n"))
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// pageText reads one page with the given layout. A null or undecodable page
// reads as empty.
func pageText(page pdflib.Page, layout Layout) (text string) {
	if page.V.IsNull() {
		return ""
	}
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	if layout == LayoutPlain {
		s, err := page.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return s
	}

	glyphs := page.Content().Text
	if layout == LayoutRows {
		return RowText(glyphs)
	}
	return ColumnText(glyphs, pageWidth(page, glyphs))
}

// AnalyzePDF returns the header candidates of every page of pdfPath, keyed
// by 1-based page number. Pages without larger-than-body text are absent.
func AnalyzePDF(ctx context.Context, pdfPath string) (hints map[int][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analyzing %s: %v", pdfPath, r)
		}
	}()

	f, reader, err := pdflib.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	hints = make(map[int][]string)
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		if h := HeaderCandidates(page.Content().Text, HeaderHints); len(h) > 0 {
			hints[i] = h
		}
	}
	return hints, nil
}
