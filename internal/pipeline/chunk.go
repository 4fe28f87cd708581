// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives the stages end to end: extraction, basic and AI
// cleanup, chunking and export. It owns the file I/O and logging around the
// pure chunking core.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/pdiddy/rulebook-engine/internal/chunk"
	"github.com/pdiddy/rulebook-engine/internal/export"
	"github.com/pdiddy/rulebook-engine/internal/health"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// ChunkOutcome is what ChunkFile produced.
type ChunkOutcome struct {
	Result      chunk.Result
	Report      health.Report
	Write       export.WriteResult
	Cleared     int
	Diagnostics []types.Diagnostic
}

// ChunkText runs the chunking core on text and stamps the report with a
// fresh run id.
func ChunkText(text string, anchors []types.SectionAnchor, cfg types.ChunkingConfig) (chunk.Result, health.Report) {
	res := chunk.Run(types.NewDocument(text), anchors, cfg)
	report := res.Report(len(anchors))
	report.RunID = uuid.NewString()
	return res, report
}

// ChunkFile chunks the Markdown at inputPath into cfg.Files.ExportDir. The
// directory's old chunk files are removed first so a rerun leaves exactly
// one file per record. Diagnostics are logged and returned; only reading the
// input or preparing the directory can fail the run.
func ChunkFile(ctx context.Context, inputPath string, anchors []types.SectionAnchor, cfg types.Config, log *slog.Logger, w io.Writer) (ChunkOutcome, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return ChunkOutcome{}, fmt.Errorf("reading chunk input: %w", err)
	}

	res, report := ChunkText(string(data), anchors, cfg.Chunking)
	out := ChunkOutcome{Result: res, Report: report}

	dir := cfg.Files.ExportDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return out, fmt.Errorf("creating export directory: %w", err)
	}
	out.Cleared, err = export.ClearDir(dir)
	if err != nil {
		return out, err
	}
	if out.Cleared > 0 {
		log.Info("cleared previous chunks", "dir", dir, "files", out.Cleared)
	}

	fmt.Fprintf(w, "Chunking %s: %d sections, %d chunks\n", inputPath, len(res.Sections), len(res.Records))
	out.Write = export.WriteAll(ctx, res.Records, export.Options{
		Dir:     dir,
		Suffix:  cfg.Files.Suffix,
		Writers: cfg.Chunking.Writers,
	}, w)

	out.Diagnostics = append(append([]types.Diagnostic(nil), res.Diagnostics...), out.Write.Failures...)
	LogDiagnostics(ctx, log, out.Diagnostics)

	rf := export.NewReportFile(report, res.Records, cfg.Files.Suffix, out.Diagnostics)
	if err := export.WriteReport(dir, rf); err != nil {
		log.Warn("writing report failed", "dir", dir, "error", err)
	}

	fmt.Fprintln(w)
	if err := report.WriteText(w); err != nil {
		return out, fmt.Errorf("printing report: %w", err)
	}
	log.Info("chunking complete",
		"run_id", report.RunID,
		"chunks", report.TotalChunks,
		"written", out.Write.Written,
		"failed", out.Write.Failed,
		"tier", report.Tier,
	)
	return out, nil
}

// LogDiagnostics logs each diagnostic. Empty sections are informational;
// every other kind is a warning.
func LogDiagnostics(ctx context.Context, log *slog.Logger, diags []types.Diagnostic) {
	for _, d := range diags {
		level := slog.LevelWarn
		if d.Kind == types.DiagEmptySection {
			level = slog.LevelInfo
		}
		attrs := []any{"kind", string(d.Kind), "detail", d.Detail}
		if d.Section != "" {
			attrs = append(attrs, "section", d.Section)
		}
		log.Log(ctx, level, "chunking diagnostic", attrs...)
	}
}
