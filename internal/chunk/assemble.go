// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import (
	"fmt"

	"github.com/pdiddy/rulebook-engine/internal/health"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// Assembler numbers fragments into chunk records across sections and keeps
// the running statistics. It is not safe for concurrent use.
type Assembler struct {
	records []types.ChunkRecord
	stats   *health.Stats
	diags   []types.Diagnostic
	next    int
}

// NewAssembler returns an assembler whose stats classify against the given
// target range.
func NewAssembler(targetMin, targetMax int) *Assembler {
	return &Assembler{
		stats: health.NewStats(targetMin, targetMax),
		next:  1,
	}
}

// Add turns one section's fragments into records and returns them. A
// section with several fragments gets "<title> Part k" titles; a lone
// fragment keeps the bare section title. Whitespace-only fragments are
// skipped and consume no sequence number.
func (a *Assembler) Add(section types.Section, frags []Fragment) []types.ChunkRecord {
	kept := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if f.WordCount == 0 && isBlank(f.Text) {
			continue
		}
		kept = append(kept, f)
	}

	title := section.Anchor.Title
	out := make([]types.ChunkRecord, 0, len(kept))
	for k, f := range kept {
		rec := types.ChunkRecord{
			Sequence:      a.next,
			Title:         title,
			SourceSection: title,
			Content:       f.Text,
			WordCount:     f.WordCount,
		}
		if len(kept) > 1 {
			rec.Title = fmt.Sprintf("%s Part %d", title, k+1)
		}
		a.next++

		band := a.stats.Observe(rec, f.Unbounded)
		if f.Unbounded {
			a.diags = append(a.diags, types.Diagnostic{
				Kind:    types.DiagUnboundedFragment,
				Section: title,
				Detail: fmt.Sprintf("%s: %d words (%s), no break point within lookahead",
					rec.Title, rec.WordCount, band),
			})
		}
		out = append(out, rec)
	}

	a.records = append(a.records, out...)
	return out
}

// Records returns every record assembled so far in sequence order.
func (a *Assembler) Records() []types.ChunkRecord {
	return a.records
}

// Stats returns the running statistics.
func (a *Assembler) Stats() *health.Stats {
	return a.stats
}

// Diagnostics returns the unbounded-fragment diagnostics raised so far.
func (a *Assembler) Diagnostics() []types.Diagnostic {
	return a.diags
}

func isBlank(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
		default:
			return false
		}
	}
	return true
}
