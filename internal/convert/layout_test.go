// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"
	"testing"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
)

// glyphs lays s out one glyph per rune starting at x on baseline y, each
// glyph half the font size wide.
func glyphs(x, y, size float64, s string) []pdflib.Text {
	var out []pdflib.Text
	w := size / 2
	i := 0
	for _, r := range s {
		out = append(out, pdflib.Text{Font: "Body", FontSize: size, X: x + float64(i)*w, Y: y, W: w, S: string(r)})
		i++
	}
	return out
}

func concat(parts ...[]pdflib.Text) []pdflib.Text {
	var out []pdflib.Text
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestPageLayout(t *testing.T) {
	tests := []struct {
		page int
		want Layout
	}{
		{1, LayoutPlain},
		{2, LayoutRows},
		{4, LayoutRows},
		{5, LayoutTwoColumn},
		{120, LayoutTwoColumn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageLayout(tt.page), "page %d", tt.page)
	}
}

func TestColumnText_ReadsLeftColumnFirst(t *testing.T) {
	// Content-stream order interleaves the columns row by row.
	page := concat(
		glyphs(50, 700, 10, "# Combat"),
		glyphs(320, 700, 10, "# Spells"),
		glyphs(50, 685, 10, "attack rolls"),
		glyphs(320, 685, 10, "spell slots"),
	)

	got := ColumnText(page, 600)
	assert.Equal(t, "# Combat\nattack rolls\n# Spells\nspell slots", got)
	assert.Less(t, strings.Index(got, "# Combat"), strings.Index(got, "# Spells"))
}

func TestColumnText_OrdersLinesTopToBottom(t *testing.T) {
	page := concat(
		glyphs(50, 600, 10, "third"),
		glyphs(50, 700, 10, "first"),
		glyphs(50, 650, 10, "second"),
	)
	assert.Equal(t, "first\nsecond\nthird\n", ColumnText(page, 600))
}

func TestRowText_KeepsColumnGaps(t *testing.T) {
	page := concat(
		glyphs(50, 700, 10, "Combat"),
		glyphs(250, 699, 10, "Spells"),
		glyphs(50, 680, 10, "Actions"),
	)
	// "Combat" ends at x=80, so the gap to x=250 is 170 points: 34 spaces
	// at half the font size each.
	want := "Combat" + strings.Repeat(" ", 34) + "Spells\nActions"
	assert.Equal(t, want, RowText(page))
}

func TestHeaderCandidates(t *testing.T) {
	page := concat(
		glyphs(50, 700, 18, "Combat"),
		glyphs(50, 650, 14, "Actions"),
		glyphs(50, 630, 14, "Bonus"),
		glyphs(50, 610, 14, "Reaction"),
		glyphs(50, 560, 10, "the rules of play apply"),
	)
	assert.Equal(t, []string{"Combat", "Actions", "Bonus"}, HeaderCandidates(page, HeaderHints))
	assert.Equal(t, []string{"Combat"}, HeaderCandidates(page, 1))
}

func TestHeaderCandidates_NoLargerText(t *testing.T) {
	assert.Nil(t, HeaderCandidates(nil, HeaderHints))
	assert.Nil(t, HeaderCandidates(glyphs(50, 700, 10, "plain body text"), HeaderHints))
}
