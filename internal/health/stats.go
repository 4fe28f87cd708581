// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package health aggregates per-chunk statistics and turns them into a
// quality report with recommendations.
package health

import "github.com/pdiddy/rulebook-engine/pkg/types"

// Band classifies a chunk's word count against the target range.
type Band string

const (
	BandIdeal Band = "ideal"
	BandSmall Band = "small"
	BandLarge Band = "large"
)

// Stats is the running aggregate filled in while chunks are assembled.
// It is written by a single assembling pass and read afterwards.
type Stats struct {
	TargetMin int
	TargetMax int

	Ideal int
	Small int
	Large int

	// WordCounts lists every chunk's word count in sequence order.
	WordCounts []int

	// Unbounded lists the titles of chunks whose splitter found no break
	// point within the lookahead horizon.
	Unbounded []string

	covered map[string]bool
	order   []string
}

// NewStats returns empty stats for the given target range.
func NewStats(targetMin, targetMax int) *Stats {
	return &Stats{
		TargetMin: targetMin,
		TargetMax: targetMax,
		covered:   make(map[string]bool),
	}
}

// Classify returns the band for a word count.
func (s *Stats) Classify(words int) Band {
	switch {
	case words < s.TargetMin:
		return BandSmall
	case words > s.TargetMax:
		return BandLarge
	default:
		return BandIdeal
	}
}

// Observe records one emitted chunk and returns its band.
func (s *Stats) Observe(rec types.ChunkRecord, unbounded bool) Band {
	band := s.Classify(rec.WordCount)
	switch band {
	case BandSmall:
		s.Small++
	case BandLarge:
		s.Large++
	default:
		s.Ideal++
	}
	s.WordCounts = append(s.WordCounts, rec.WordCount)
	if unbounded {
		s.Unbounded = append(s.Unbounded, rec.Title)
	}
	if !s.covered[rec.SourceSection] {
		s.covered[rec.SourceSection] = true
		s.order = append(s.order, rec.SourceSection)
	}
	return band
}

// Total returns the number of observed chunks.
func (s *Stats) Total() int {
	return len(s.WordCounts)
}

// SectionsCovered returns the source sections with at least one chunk, in
// first-seen order.
func (s *Stats) SectionsCovered() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
