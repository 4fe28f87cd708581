// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/rulebook-engine/internal/acquire"
	"github.com/pdiddy/rulebook-engine/internal/cache"
	"github.com/pdiddy/rulebook-engine/internal/cleanup"
	"github.com/pdiddy/rulebook-engine/internal/convert"
	"github.com/pdiddy/rulebook-engine/internal/workflow"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// Runner executes workflow steps against the files named in Config.
// Converter and Cleaner are built from Config on first use when nil.
type Runner struct {
	Config  types.Config
	Anchors []types.SectionAnchor

	Converter  convert.Converter
	Cleaner    *cleanup.Cleaner
	HTTPClient *http.Client

	// Force re-extracts even when the raw text already exists.
	Force bool

	Logger *slog.Logger
	Out    io.Writer

	cache cache.Cache
}

// Run performs every step of action in order and stops at the first
// failure.
func (r *Runner) Run(ctx context.Context, action workflow.Action) error {
	steps := action.Steps(r.Config.AI.Enabled)
	r.logger().Info("running workflow", "action", action, "steps", len(steps))
	defer r.closeCache()

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(r.out(), "\n== %s ==\n", step)
		if err := r.RunStep(ctx, step); err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
	}
	return nil
}

// RunStep performs a single step.
func (r *Runner) RunStep(ctx context.Context, step workflow.Step) error {
	switch step {
	case workflow.StepExtract:
		return r.Extract(ctx)
	case workflow.StepBasic:
		return r.BasicCleanup()
	case workflow.StepAI:
		_, err := r.AICleanup(ctx)
		return err
	case workflow.StepChunk:
		_, err := r.Chunk(ctx)
		return err
	default:
		return fmt.Errorf("unknown step %q", step)
	}
}

// Fetch downloads the input PDF from Config.Source.URL.
func (r *Runner) Fetch(ctx context.Context) error {
	if r.HTTPClient == nil {
		r.HTTPClient = acquire.NewClient(r.Config.Source)
	}
	_, err := acquire.Fetch(ctx, r.HTTPClient, r.Config.Source, r.Config.Files.InputPDF,
		acquire.Options{Force: r.Force}, r.out())
	return err
}

// Extract converts the input PDF into the raw text file. A missing PDF is
// downloaded first when a source URL is configured.
func (r *Runner) Extract(ctx context.Context) error {
	if _, err := os.Stat(r.Config.Files.InputPDF); err != nil && r.Config.Source.URL != "" {
		if err := r.Fetch(ctx); err != nil {
			return err
		}
	}
	if r.Converter == nil {
		c, err := convert.New(ctx, r.Config)
		if err != nil {
			return err
		}
		r.Converter = c
	}
	_, err := convert.ExtractDocument(ctx, r.Converter, r.Config.Files.InputPDF, r.Config.Files.RawText,
		convert.Options{Force: r.Force}, r.out())
	return err
}

// BasicCleanup applies the regex cleanup to the raw text.
func (r *Runner) BasicCleanup() error {
	files := r.Config.Files
	raw, err := os.ReadFile(files.RawText)
	if err != nil {
		return fmt.Errorf("reading raw text: %w", err)
	}
	cleaned := cleanup.Basic(string(raw))
	if err := writeFile(files.BasicMarkdown, cleaned); err != nil {
		return err
	}
	fmt.Fprintf(r.out(), "cleaned: %s -> %s (%d bytes)\n", files.RawText, files.BasicMarkdown, len(cleaned))
	return nil
}

// AICleanup sends each page of the raw text through the AI cleaner and
// writes the joined result.
func (r *Runner) AICleanup(ctx context.Context) (cleanup.Summary, error) {
	files := r.Config.Files
	raw, err := os.ReadFile(files.RawText)
	if err != nil {
		return cleanup.Summary{}, fmt.Errorf("reading raw text: %w", err)
	}
	if r.Cleaner == nil {
		if err := r.buildCleaner(ctx); err != nil {
			return cleanup.Summary{}, err
		}
	}

	if r.Cleaner.Headers == nil {
		r.Cleaner.Headers = r.headerHints(ctx)
	}

	text, summary, err := r.Cleaner.CleanText(ctx, string(raw), r.out())
	if err != nil {
		return summary, err
	}
	if err := writeFile(files.AIMarkdown, text); err != nil {
		return summary, err
	}
	r.logger().Info("AI cleanup complete",
		"cleaned", summary.Cleaned, "cached", summary.Cached, "failed", summary.Failed)
	return summary, nil
}

// Chunk chunks the best available cleaned Markdown.
func (r *Runner) Chunk(ctx context.Context) (ChunkOutcome, error) {
	input, err := workflow.ChunkInput(r.Config.Files)
	if err != nil {
		return ChunkOutcome{}, err
	}
	return ChunkFile(ctx, input, r.Anchors, r.Config, r.logger(), r.out())
}

// headerHints reads per-page header candidates from the source PDF. A
// missing or unreadable PDF only costs the hints.
func (r *Runner) headerHints(ctx context.Context) map[int][]string {
	pdfPath := r.Config.Files.InputPDF
	if _, err := os.Stat(pdfPath); err != nil {
		return nil
	}
	hints, err := convert.AnalyzePDF(ctx, pdfPath)
	if err != nil {
		r.logger().Warn("PDF structure analysis failed, cleaning without header hints", "pdf", pdfPath, "error", err)
		return nil
	}
	r.logger().Debug("PDF structure analysed", "pages_with_headers", len(hints))
	return hints
}

func (r *Runner) buildCleaner(ctx context.Context) error {
	backend, err := cleanup.NewOpenAIBackend(r.Config.AI)
	if err != nil {
		return fmt.Errorf("AI cleanup needs an OpenAI key in .secrets/openai-api-key or OPENAI_API_KEY: %w", err)
	}
	c, err := cache.New(ctx, r.Config.Cache)
	if err != nil {
		return err
	}
	r.cache = c
	r.Cleaner = cleanup.NewCleaner(backend, c, r.Config.AI, r.logger())
	r.Cleaner.CacheTTL = r.Config.Cache.TTL
	return nil
}

func (r *Runner) closeCache() {
	if r.cache == nil {
		return
	}
	if err := r.cache.Close(); err != nil {
		r.logger().Warn("closing cache", "error", err)
	}
	r.cache = nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
