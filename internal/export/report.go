// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rulebook-engine/internal/health"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

const (
	reportJSON = "report.json"
	reportYAML = "report.yaml"
)

// ChunkEntry is the per-chunk line of the report index.
type ChunkEntry struct {
	ChunkID       string `json:"chunk_id" yaml:"chunk_id"`
	File          string `json:"file" yaml:"file"`
	Title         string `json:"title" yaml:"title"`
	SourceSection string `json:"source_section" yaml:"source_section"`
	WordCount     int    `json:"word_count" yaml:"word_count"`
}

// ReportFile is the run report written next to the chunks.
type ReportFile struct {
	Health      health.Report      `json:"health" yaml:"health"`
	Chunks      []ChunkEntry       `json:"chunks" yaml:"chunks"`
	Diagnostics []types.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// NewReportFile indexes recs under the given report.
func NewReportFile(report health.Report, recs []types.ChunkRecord, suffix string, diags []types.Diagnostic) ReportFile {
	rf := ReportFile{Health: report, Diagnostics: diags, Chunks: make([]ChunkEntry, len(recs))}
	for i, r := range recs {
		rf.Chunks[i] = ChunkEntry{
			ChunkID:       r.ChunkID(),
			File:          Filename(r, suffix),
			Title:         r.Title,
			SourceSection: r.SourceSection,
			WordCount:     r.WordCount,
		}
	}
	return rf
}

// WriteReport writes report.json and report.yaml into dir.
func WriteReport(dir string, rf ReportFile) error {
	data, err := json.MarshalIndent(rf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, reportJSON), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", reportJSON, err)
	}

	data, err = yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, reportYAML), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", reportYAML, err)
	}
	return nil
}
