// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// fakeConverter implements Converter for testing. It returns canned text
// or an error and counts calls.
type fakeConverter struct {
	output string
	err    error
	calls  int
}

func (f *fakeConverter) Convert(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

// setupPDF creates a placeholder PDF and returns its path and the temp dir.
func setupPDF(t *testing.T) (pdfPath, tmpDir string) {
	t.Helper()
	tmpDir = t.TempDir()
	pdfPath = filepath.Join(tmpDir, "SRD_CC_v5.2.1.pdf")
	if err := os.WriteFile(pdfPath, []byte("fake pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	return pdfPath, tmpDir
}

func TestExtractDocument(t *testing.T) {
	tests := []struct {
		name       string
		converter  *fakeConverter
		preCreate  bool
		force      bool
		wantStatus Status
		wantErr    bool
		wantLog    string
		wantCalls  int
	}{
		{
			name:       "successful extraction",
			converter:  &fakeConverter{output: "<!-- Page 1 -->\nText"},
			wantStatus: StatusExtracted,
			wantLog:    "extracted:",
			wantCalls:  1,
		},
		{
			name:       "skip existing output",
			converter:  &fakeConverter{output: "unused"},
			preCreate:  true,
			wantStatus: StatusSkipped,
			wantLog:    "skipped:",
		},
		{
			name:       "force overwrites existing output",
			converter:  &fakeConverter{output: "fresh"},
			preCreate:  true,
			force:      true,
			wantStatus: StatusExtracted,
			wantLog:    "extracted:",
			wantCalls:  1,
		},
		{
			name:       "converter failure",
			converter:  &fakeConverter{err: errors.New("corrupt xref")},
			wantStatus: StatusFailed,
			wantErr:    true,
			wantLog:    "failed:",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfPath, tmpDir := setupPDF(t)
			outPath := filepath.Join(tmpDir, "out", "raw.txt")
			if tt.preCreate {
				require.NoError(t, os.MkdirAll(filepath.Dir(outPath), 0o755))
				require.NoError(t, os.WriteFile(outPath, []byte("existing"), 0o644))
			}

			var log bytes.Buffer
			status, err := ExtractDocument(context.Background(), tt.converter, pdfPath, outPath, Options{Force: tt.force}, &log)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Contains(t, log.String(), tt.wantLog)
			assert.Equal(t, tt.wantCalls, tt.converter.calls)

			if status == StatusExtracted {
				data, err := os.ReadFile(outPath)
				require.NoError(t, err)
				assert.Equal(t, tt.converter.output, string(data))
			}
		})
	}
}

func TestExtractDocument_MissingPDF(t *testing.T) {
	dir := t.TempDir()
	conv := &fakeConverter{output: "x"}

	status, err := ExtractDocument(context.Background(), conv, filepath.Join(dir, "nope.pdf"), filepath.Join(dir, "raw.txt"), Options{}, io.Discard)
	assert.Equal(t, StatusFailed, status)
	assert.ErrorContains(t, err, "PDF not found")
	assert.Zero(t, conv.calls)
}

func TestPDFConverter_RejectsNonPDF(t *testing.T) {
	pdfPath, _ := setupPDF(t)
	_, err := PDFConverter{}.Convert(context.Background(), pdfPath)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), pdfPath))
}

func TestNew(t *testing.T) {
	cfg := types.DefaultConfig()
	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &PDFConverter{}, c)

	cfg.Backend = "ocr"
	_, err = New(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown conversion backend")
}
