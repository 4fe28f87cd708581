// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rulebook-engine/internal/httputil"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const fakePDF = "%PDF-1.7\nfake rulebook body\n%%EOF\n"

func source(url string) types.SourceConfig {
	return types.SourceConfig{URL: url, UserAgent: "rulebook-engine/test", Timeout: 5 * time.Second, MaxRetries: 2}
}

func TestFetchDownloads(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(fakePDF))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "in", "book.pdf")
	var buf bytes.Buffer
	status, err := Fetch(context.Background(), ts.Client(), source(ts.URL+"/srd.pdf"), dest, Options{}, &buf)
	require.NoError(t, err)

	assert.Equal(t, StatusDownloaded, status)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, fakePDF, string(data))
	assert.Equal(t, "rulebook-engine/test", gotUA)
	assert.Equal(t, "application/pdf", gotAccept)
	assert.Contains(t, buf.String(), "downloaded:")

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(dest), ".acquire-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFetchSkipsExisting(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(fakePDF))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "book.pdf")
	require.NoError(t, os.WriteFile(dest, []byte("%PDF-old"), 0o644))

	status, err := Fetch(context.Background(), ts.Client(), source(ts.URL), dest, Options{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, status)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	status, err = Fetch(context.Background(), ts.Client(), source(ts.URL), dest, Options{Force: true}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, StatusDownloaded, status)
	data, _ := os.ReadFile(dest)
	assert.Equal(t, fakePDF, string(data))
}

func TestFetchRetriesRateLimit(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(fakePDF))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "book.pdf")
	status, err := Fetch(context.Background(), ts.Client(), source(ts.URL), dest, Options{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, StatusDownloaded, status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		url     func(base string) string
		errMsg  string
		errIs   error
	}{
		{
			name:    "not found",
			handler: func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
			errMsg:  "HTTP 404",
		},
		{
			name: "html instead of pdf",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>please log in</html>"))
			},
			errIs: ErrNotPDF,
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			errIs:   ErrNotPDF,
		},
		{
			name:    "bad scheme",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			url:     func(string) string { return "ftp://example.com/book.pdf" },
			errMsg:  "invalid source URL",
		},
		{
			name:    "empty url",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			url:     func(string) string { return "" },
			errMsg:  "invalid source URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()
			u := ts.URL
			if tt.url != nil {
				u = tt.url(ts.URL)
			}

			dest := filepath.Join(t.TempDir(), "book.pdf")
			status, err := Fetch(context.Background(), ts.Client(), source(u), dest, Options{}, &bytes.Buffer{})
			require.Error(t, err)
			assert.Equal(t, StatusFailed, status)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
			assert.NoFileExists(t, dest)
		})
	}
}
