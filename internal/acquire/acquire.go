// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads the rulebook PDF from its published URL.
package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pdiddy/rulebook-engine/internal/httputil"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// Status is the outcome of a fetch.
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// ErrNotPDF is returned when the server answers with something other than a
// PDF document, typically an HTML error or login page.
var ErrNotPDF = errors.New("response is not a PDF")

var pdfMagic = []byte("%PDF-")

// Options controls Fetch.
type Options struct {
	// Force downloads even when destPath already exists.
	Force bool
}

// NewClient returns an HTTP client with the configured timeout.
func NewClient(src types.SourceConfig) *http.Client {
	return &http.Client{Timeout: src.Timeout}
}

// Fetch downloads src.URL to destPath. An existing file is kept unless
// opts.Force is set. The download goes to a temporary file that is renamed
// into place only once it is complete and starts with the PDF signature.
func Fetch(ctx context.Context, client *http.Client, src types.SourceConfig, destPath string, opts Options, w io.Writer) (Status, error) {
	name := filepath.Base(destPath)

	if !opts.Force {
		if _, err := os.Stat(destPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
			return StatusSkipped, nil
		}
	}

	u, err := url.Parse(src.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return StatusFailed, fmt.Errorf("invalid source URL %q", src.URL)
	}

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return StatusFailed, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	fmt.Fprintf(w, "downloading: %s\n", src.URL)
	n, err := downloadFile(ctx, client, src, destPath)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return StatusFailed, fmt.Errorf("downloading %s: %w", name, err)
	}
	fmt.Fprintf(w, "downloaded: %s (%d bytes)\n", destPath, n)
	return StatusDownloaded, nil
}

func downloadFile(ctx context.Context, client *http.Client, src types.SourceConfig, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if src.UserAgent != "" {
		req.Header.Set("User-Agent", src.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, client, req, src.MaxRetries)
	if err != nil {
		return 0, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d from %s", resp.StatusCode, src.URL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	head := make([]byte, len(pdfMagic))
	hn, _ := io.ReadFull(resp.Body, head)
	head = head[:hn]
	if !bytes.Equal(head, pdfMagic) {
		tmpFile.Close()
		os.Remove(tmpPath)
		return 0, ErrNotPDF
	}

	n, copyErr := io.Copy(tmpFile, io.MultiReader(bytes.NewReader(head), resp.Body))
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}
