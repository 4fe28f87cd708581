// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import (
	"fmt"
	"strings"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// anchorHit is an anchor together with the byte offset where its marker
// was found.
type anchorHit struct {
	anchor types.SectionAnchor
	start  int
}

// LocateSections maps the ordered catalogue onto byte spans of doc.
//
// Each marker is searched for strictly after the previous located anchor's
// start, so an anchor never matches inside a region already claimed by an
// earlier one. A located section runs until the next located anchor or the
// end of the document; content belonging to a missing anchor is absorbed by
// the section before it. Markers are matched on first occurrence, which
// assumes they do not recur as ordinary prose ahead of their real header.
//
// Missing anchors and sections without countable words are reported as
// diagnostics and produce no Section.
func LocateSections(doc types.Document, anchors []types.SectionAnchor) ([]types.Section, []types.Diagnostic) {
	text := doc.Text()
	var diags []types.Diagnostic

	hits := make([]anchorHit, 0, len(anchors))
	from := 0
	for _, a := range anchors {
		idx := indexFrom(text, a.Marker, from)
		if idx < 0 {
			diags = append(diags, types.Diagnostic{
				Kind:    types.DiagMissingAnchor,
				Section: a.Title,
				Detail:  fmt.Sprintf("marker %q not found", a.Marker),
			})
			continue
		}
		hits = append(hits, anchorHit{anchor: a, start: idx})
		from = idx + 1
	}

	if len(hits) == 0 {
		if len(anchors) > 0 {
			diags = append(diags, types.Diagnostic{
				Kind:   types.DiagNoAnchorsFound,
				Detail: fmt.Sprintf("none of %d catalogued sections were found", len(anchors)),
			})
		}
		return nil, diags
	}

	sections := make([]types.Section, 0, len(hits))
	for i, h := range hits {
		end := doc.Len()
		if i+1 < len(hits) {
			end = hits[i+1].start
		}
		if end <= h.start {
			continue
		}

		body := strings.TrimSpace(text[h.start:end])
		wc := CountWords(body)
		if wc == 0 {
			diags = append(diags, types.Diagnostic{
				Kind:    types.DiagEmptySection,
				Section: h.anchor.Title,
				Detail:  "section has no countable words",
			})
			continue
		}

		sections = append(sections, types.Section{
			Anchor:    h.anchor,
			Start:     h.start,
			End:       end,
			Text:      body,
			WordCount: wc,
		})
	}

	return sections, diags
}

// indexFrom returns the byte offset of the first occurrence of marker in
// text at or after from, or -1. An empty marker never matches.
func indexFrom(text, marker string, from int) int {
	if marker == "" || from > len(text) {
		return -1
	}
	idx := strings.Index(text[from:], marker)
	if idx < 0 {
		return -1
	}
	return from + idx
}
