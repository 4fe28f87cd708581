// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk implements the chunking core: word counting, section
// location, structural splitting and chunk assembly. Everything here is pure
// and synchronous; writing chunks to disk lives in the export package.
package chunk

import (
	"github.com/pdiddy/rulebook-engine/internal/health"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// Result holds everything one chunking run produced.
type Result struct {
	Sections    []types.Section
	Records     []types.ChunkRecord
	Stats       *health.Stats
	Diagnostics []types.Diagnostic
}

// Run locates the catalogued sections in doc, splits each one and assembles
// the fragments into numbered records. It never fails: missing anchors,
// empty sections and oversized fragments come back as diagnostics.
func Run(doc types.Document, anchors []types.SectionAnchor, cfg types.ChunkingConfig) Result {
	opts := Options{
		TargetMin: cfg.TargetMin,
		TargetMax: cfg.TargetMax,
		Lookahead: cfg.LookaheadLines,
	}.withDefaults()

	sections, diags := LocateSections(doc, anchors)
	asm := NewAssembler(opts.TargetMin, opts.TargetMax)
	for _, s := range sections {
		asm.Add(s, SplitFragments(s.Text, opts))
	}

	return Result{
		Sections:    sections,
		Records:     asm.Records(),
		Stats:       asm.Stats(),
		Diagnostics: append(diags, asm.Diagnostics()...),
	}
}

// Report summarizes the run against a catalogue of the given size.
func (r Result) Report(catalogueSize int) health.Report {
	return health.Summarize(r.Stats, r.Stats.TargetMin, r.Stats.TargetMax, catalogueSize)
}
