// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export persists chunk records as Markdown files with a metadata
// preamble, plus the run report.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

const maxSlugRunes = 40

var (
	slugStripRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSpaceRe = regexp.MustCompile(`\s+`)
)

// Slugify keeps letters, digits, underscores, whitespace and hyphens, turns
// whitespace runs into underscores and trims edge underscores. The result is
// at most 40 runes.
func Slugify(title string) string {
	s := slugStripRe.ReplaceAllString(title, "")
	s = slugSpaceRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if r := []rune(s); len(r) > maxSlugRunes {
		s = strings.TrimRight(string(r[:maxSlugRunes]), "_")
	}
	return s
}

// Filename returns "{sequence:03d}_{slug}_{suffix}.md" for rec.
func Filename(rec types.ChunkRecord, suffix string) string {
	slug := Slugify(rec.Title)
	if slug == "" {
		slug = "chunk"
	}
	name := rec.ChunkID() + "_" + slug
	if suffix != "" {
		name += "_" + suffix
	}
	return name + ".md"
}

// Render returns the chunk artifact: the metadata preamble, a blank line
// and the body.
func Render(rec types.ChunkRecord) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", rec.Title)
	fmt.Fprintf(&b, "source_section: %q\n", rec.SourceSection)
	fmt.Fprintf(&b, "word_count: %d\n", rec.WordCount)
	fmt.Fprintf(&b, "chunk_id: %s\n", rec.ChunkID())
	b.WriteString("---\n\n")
	b.WriteString(rec.Content)
	b.WriteString("\n")
	return b.String()
}

// ClearDir creates dir if needed and removes the Markdown files left by a
// previous run. It returns the number of files removed.
func ClearDir(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dir, err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return 0, fmt.Errorf("listing %s: %w", dir, err)
	}
	removed := 0
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if err := os.Remove(m); err != nil {
			return removed, fmt.Errorf("removing %s: %w", m, err)
		}
		removed++
	}
	return removed, nil
}

// WriteResult holds the outcome of writing a batch of chunks.
type WriteResult struct {
	Written  int
	Failed   int
	Paths    []string
	Failures []types.Diagnostic
}

// Total returns the number of chunks attempted.
func (r WriteResult) Total() int {
	return r.Written + r.Failed
}

// HasFailures reports whether any chunk could not be written.
func (r WriteResult) HasFailures() bool {
	return r.Failed > 0
}

// Options configures WriteAll.
type Options struct {
	Dir     string
	Suffix  string
	Writers int
}

type writeOutcome struct {
	path string
	err  error
}

// WriteAll writes every record to opts.Dir using up to opts.Writers
// concurrent writers. A failed write is reported and skipped; it never stops
// the batch. Status lines are printed to w in sequence order once all writes
// finish.
func WriteAll(ctx context.Context, recs []types.ChunkRecord, opts Options, w io.Writer) WriteResult {
	writers := opts.Writers
	if writers < 1 {
		writers = 1
	}

	outcomes := make([]writeOutcome, len(recs))
	var g errgroup.Group
	g.SetLimit(writers)
	for i, rec := range recs {
		g.Go(func() error {
			path := filepath.Join(opts.Dir, Filename(rec, opts.Suffix))
			outcomes[i].path = path
			if err := ctx.Err(); err != nil {
				outcomes[i].err = err
				return nil
			}
			outcomes[i].err = os.WriteFile(path, []byte(Render(rec)), 0o644)
			return nil
		})
	}
	_ = g.Wait()

	var result WriteResult
	for i, o := range outcomes {
		name := filepath.Base(o.path)
		if o.err != nil {
			result.Failed++
			result.Failures = append(result.Failures, types.Diagnostic{
				Kind:    types.DiagPersistenceFailure,
				Section: recs[i].Title,
				Detail:  fmt.Sprintf("writing %s: %v", name, o.err),
			})
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, o.err)
			continue
		}
		result.Written++
		result.Paths = append(result.Paths, o.path)
		fmt.Fprintf(w, "wrote:   %s (%d words)\n", name, recs[i].WordCount)
	}

	fmt.Fprintf(w, "\nExport summary: %d written, %d failed (total: %d)\n",
		result.Written, result.Failed, result.Total())
	return result
}
