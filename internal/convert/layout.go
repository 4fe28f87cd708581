// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"math"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Layout selects how the glyphs of one page are read back into lines.
type Layout int

const (
	// LayoutPlain reads the page in content-stream order.
	LayoutPlain Layout = iota
	// LayoutRows reads the page row by row, keeping wide horizontal gaps
	// so that multi-column listings stay aligned.
	LayoutRows
	// LayoutTwoColumn reads the left half of the page, then the right half.
	LayoutTwoColumn
)

// tocPages is the last page of the rulebook's table of contents.
const tocPages = 4

// PageLayout returns the layout used for page n (1-based): the title page is
// plain, the contents pages are read by rows, and body pages are two columns.
func PageLayout(n int) Layout {
	switch {
	case n <= 1:
		return LayoutPlain
	case n <= tocPages:
		return LayoutRows
	default:
		return LayoutTwoColumn
	}
}

// word is a run of glyphs on one line with no gap between them.
type word struct {
	text string
	size float64
	x    float64
	end  float64
}

// line is a set of words sharing a baseline.
type line struct {
	words []word
}

// groupLines clusters glyphs into lines ordered top to bottom and splits
// each line into words ordered left to right. PDF space has its origin at
// the bottom left, so a larger Y is higher on the page.
func groupLines(glyphs []pdflib.Text) []line {
	gs := make([]pdflib.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			gs = append(gs, g)
		}
	}
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].Y > gs[j].Y })

	var lines []line
	var row []pdflib.Text
	flush := func() {
		if len(row) == 0 {
			return
		}
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		lines = append(lines, line{words: splitWords(row)})
		row = nil
	}
	for _, g := range gs {
		if len(row) > 0 && !sameBaseline(row[0], g) {
			flush()
		}
		row = append(row, g)
	}
	flush()
	return lines
}

func sameBaseline(a, b pdflib.Text) bool {
	tol := math.Max(2, 0.4*math.Min(fontSize(a), fontSize(b)))
	return math.Abs(a.Y-b.Y) <= tol
}

func fontSize(g pdflib.Text) float64 {
	if g.FontSize <= 0 {
		return 10
	}
	return g.FontSize
}

// splitWords breaks an X-ordered row into words at space glyphs and at
// horizontal gaps wider than a fifth of the font size.
func splitWords(row []pdflib.Text) []word {
	var words []word
	open := false
	for _, g := range row {
		if strings.TrimSpace(g.S) == "" {
			open = false
			continue
		}
		if open && g.X-words[len(words)-1].end > 0.2*fontSize(g) {
			open = false
		}
		if !open {
			words = append(words, word{size: fontSize(g), x: g.X})
			open = true
		}
		w := &words[len(words)-1]
		w.text += g.S
		w.end = math.Max(w.end, g.X+g.W)
	}
	return words
}

// render joins lines into text. With keepGaps, the space between words
// grows with the horizontal distance between them.
func render(lines []line, keepGaps bool) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		var b strings.Builder
		for i, w := range l.words {
			if i > 0 {
				n := 1
				if keepGaps {
					gap := w.x - l.words[i-1].end
					n = max(1, int(math.Round(gap/(0.5*w.size))))
				}
				b.WriteString(strings.Repeat(" ", n))
			}
			b.WriteString(w.text)
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// RowText reads glyphs row by row, preserving horizontal spacing.
func RowText(glyphs []pdflib.Text) string {
	return render(groupLines(glyphs), true)
}

// ColumnText reads glyphs left of the page midpoint before those right of
// it. A glyph belongs to the column its left edge falls in.
func ColumnText(glyphs []pdflib.Text, pageWidth float64) string {
	mid := pageWidth / 2
	var left, right []pdflib.Text
	for _, g := range glyphs {
		if g.X < mid {
			left = append(left, g)
		} else {
			right = append(right, g)
		}
	}
	return render(groupLines(left), false) + "\n" + render(groupLines(right), false)
}

// HeaderCandidates returns up to limit words set larger than the page's
// body text, top of the page first. The body size is the font size shared
// by the most words; ties go to the smaller size.
func HeaderCandidates(glyphs []pdflib.Text, limit int) []string {
	var words []word
	for _, l := range groupLines(glyphs) {
		words = append(words, l.words...)
	}
	if len(words) == 0 || limit <= 0 {
		return nil
	}

	counts := make(map[float64]int)
	for _, w := range words {
		counts[w.size]++
	}
	body, best := 0.0, -1
	for size, n := range counts {
		if n > best || (n == best && size < body) {
			body, best = size, n
		}
	}

	var out []string
	for _, w := range words {
		if w.size > body {
			out = append(out, w.text)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// pageWidth reads the MediaBox width from the page or the nearest ancestor
// that sets it, falling back to the right edge of the rightmost glyph.
func pageWidth(page pdflib.Page, glyphs []pdflib.Text) float64 {
	for v, depth := page.V, 0; !v.IsNull() && depth < 16; v, depth = v.Key("Parent"), depth+1 {
		box := v.Key("MediaBox")
		if box.Kind() != pdflib.Array || box.Len() != 4 {
			continue
		}
		if w := box.Index(2).Float64() - box.Index(0).Float64(); w > 0 {
			return w
		}
	}
	var right float64
	for _, g := range glyphs {
		right = math.Max(right, g.X+g.W)
	}
	return right
}
