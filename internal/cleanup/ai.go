// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cleanup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/rulebook-engine/internal/cache"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

const truncationNote = "\n[...truncated...]"

// Backend abstracts the chat completion API so tests can supply a fake.
type Backend interface {
	// CleanPage returns the Markdown for one page of raw text.
	CleanPage(ctx context.Context, page Page) (string, error)

	// Model identifies the backend configuration in cache keys.
	Model() string
}

// Summary holds page counts from an AI cleanup run.
type Summary struct {
	Cleaned int
	Cached  int
	Skipped int
	Failed  int
}

// Total returns the number of pages seen.
func (s Summary) Total() int {
	return s.Cleaned + s.Cached + s.Skipped + s.Failed
}

// HasFailures reports whether any page fell back to basic cleanup.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Cleaner runs pages through a Backend with retries and a response cache.
type Cleaner struct {
	// CacheTTL is how long cleaned pages stay cached; zero keeps them.
	CacheTTL time.Duration

	// Headers holds header candidates by page number, passed to the
	// backend as hints.
	Headers map[int][]string

	backend Backend
	cache   cache.Cache
	cfg     types.AIConfig
	logger  *slog.Logger
}

// NewCleaner builds a Cleaner. A nil cache disables caching and a nil
// logger discards log output.
func NewCleaner(backend Backend, c cache.Cache, cfg types.AIConfig, logger *slog.Logger) *Cleaner {
	if c == nil {
		c = cache.NewNoOp()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cleaner{backend: backend, cache: c, cfg: cfg, logger: logger}
}

// CleanText splits raw on page markers, cleans every non-empty page and
// joins the results. A page whose backend calls all fail keeps its basic
// cleanup text. Progress lines go to w. The only error returned is context
// cancellation.
func (c *Cleaner) CleanText(ctx context.Context, raw string, w io.Writer) (string, Summary, error) {
	var summary Summary
	var out []Page

	for _, p := range SplitPages(raw) {
		if err := ctx.Err(); err != nil {
			return "", summary, err
		}
		if p.Text == "" {
			summary.Skipped++
			continue
		}

		full := p.Text
		p.Text = truncate(p.Text, c.cfg.MaxPageChars)
		p.Headers = c.Headers[p.Number]
		key := cache.Key(c.backend.Model(), strconv.FormatFloat(c.cfg.Temperature, 'f', -1, 64),
			p.Text, strings.Join(p.Headers, "\n"))

		if cached, ok, err := c.cache.Get(ctx, key); err != nil {
			c.logger.Warn("cache lookup failed", "page", p.Number, "error", err)
		} else if ok {
			fmt.Fprintf(w, "cached:  page %d\n", p.Number)
			summary.Cached++
			out = append(out, Page{Number: p.Number, Text: cached})
			continue
		}

		cleaned, err := c.cleanWithRetry(ctx, p)
		if err != nil {
			if ctx.Err() != nil {
				return "", summary, ctx.Err()
			}
			fmt.Fprintf(w, "failed:  page %d (%v)\n", p.Number, err)
			c.logger.Warn("AI cleanup failed, using basic cleanup", "page", p.Number, "error", err)
			summary.Failed++
			out = append(out, Page{Number: p.Number, Text: Basic(full)})
			continue
		}

		if err := c.cache.Set(ctx, key, cleaned, c.CacheTTL); err != nil {
			c.logger.Warn("cache store failed", "page", p.Number, "error", err)
		}
		fmt.Fprintf(w, "cleaned: page %d\n", p.Number)
		summary.Cleaned++
		out = append(out, Page{Number: p.Number, Text: cleaned})
	}

	fmt.Fprintf(w, "\nAI cleanup summary: %d cleaned, %d cached, %d skipped, %d failed (total: %d)\n",
		summary.Cleaned, summary.Cached, summary.Skipped, summary.Failed, summary.Total())
	return JoinPages(out), summary, nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

func (c *Cleaner) cleanWithRetry(ctx context.Context, p Page) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		callCtx := ctx
		var cancel context.CancelFunc
		if c.cfg.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		}
		text, err := c.backend.CleanPage(callCtx, p)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			if text == "" {
				lastErr = fmt.Errorf("empty response")
				continue
			}
			return text, nil
		}
		lastErr = err
		c.logger.Debug("page attempt failed", "page", p.Number, "attempt", attempt+1, "error", err)
	}
	return "", fmt.Errorf("after %d retries: %w", c.cfg.MaxRetries, lastErr)
}

// truncate cuts text to at most limit bytes on a rune boundary and appends
// a truncation note. A non-positive limit disables truncation.
func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + truncationNote
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
