// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert extracts text from the rulebook PDF with pluggable
// backends.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/rulebook-engine/internal/container"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// Converter turns a PDF file into text. Page boundaries, when the backend
// knows them, are marked with "<!-- Page N -->" lines.
type Converter interface {
	Convert(ctx context.Context, pdfPath string) (string, error)
}

// Status is the outcome of one extraction.
type Status string

const (
	StatusExtracted Status = "extracted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Options controls ExtractDocument.
type Options struct {
	// Force re-extracts even when the output already exists.
	Force bool
}

// ExtractDocument converts the PDF at pdfPath and writes the text to
// outPath. An existing output is kept unless opts.Force is set. The status
// line is written to w.
func ExtractDocument(ctx context.Context, c Converter, pdfPath, outPath string, opts Options, w io.Writer) (Status, error) {
	name := filepath.Base(pdfPath)

	if !opts.Force {
		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (%s already exists)\n", name, outPath)
			return StatusSkipped, nil
		}
	}

	if _, err := os.Stat(pdfPath); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return StatusFailed, fmt.Errorf("PDF not found: %w", err)
	}

	text, err := c.Convert(ctx, pdfPath)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return StatusFailed, err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			return StatusFailed, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return StatusFailed, fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(w, "extracted: %s -> %s (%d bytes)\n", name, outPath, len(text))
	return StatusExtracted, nil
}

// New returns the converter for cfg.Backend. The markitdown backend needs a
// working container runtime with the image present.
func New(ctx context.Context, cfg types.Config) (Converter, error) {
	switch cfg.Backend {
	case "", types.BackendNative:
		return &PDFConverter{}, nil
	case types.BackendMarkitdown:
		rt, err := container.Select(ctx, cfg.Container.Runtime)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownConverter(ctx, rt, cfg.Container.Image)
	default:
		return nil, fmt.Errorf("unknown conversion backend %q", cfg.Backend)
	}
}
