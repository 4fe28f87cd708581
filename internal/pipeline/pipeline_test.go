// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rulebook-engine/internal/cleanup"
	"github.com/pdiddy/rulebook-engine/internal/logger"
	"github.com/pdiddy/rulebook-engine/internal/workflow"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

const rawBook = "<!-- Page 1 -->\n\n# Alpha\n\nalpha words go here now.\n\n# Beta\n\nbeta words go here now."

var testAnchors = []types.SectionAnchor{
	{Title: "Alpha", Marker: "# Alpha", Order: 0},
	{Title: "Beta", Marker: "# Beta", Order: 1},
}

type fakeConverter struct {
	text  string
	calls int
}

func (f *fakeConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	f.calls++
	return f.text, nil
}

type upperBackend struct{}

func (upperBackend) Model() string { return "fake" }

func (upperBackend) CleanPage(ctx context.Context, p cleanup.Page) (string, error) {
	return strings.ReplaceAll(p.Text, "words", "WORDS"), nil
}

func testConfig(t *testing.T) types.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := types.DefaultConfig()
	cfg.Files = types.FilesConfig{
		InputPDF:      filepath.Join(dir, "book.pdf"),
		RawText:       filepath.Join(dir, "raw.txt"),
		BasicMarkdown: filepath.Join(dir, "basic.md"),
		AIMarkdown:    filepath.Join(dir, "ai.md"),
		ExportDir:     filepath.Join(dir, "export"),
		Suffix:        "TEST",
	}
	cfg.AI.Enabled = false
	return cfg
}

func chunkFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	require.NoError(t, err)
	return matches
}

func TestChunkText(t *testing.T) {
	res, report := ChunkText("# Alpha\n\nalpha words go here now.", testAnchors, types.DefaultConfig().Chunking)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "Alpha", res.Records[0].Title)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.SectionsCovered)
	assert.Equal(t, 2, report.SectionsTotal)
}

func TestChunkFile(t *testing.T) {
	cfg := testConfig(t)
	input := filepath.Join(t.TempDir(), "book.md")
	require.NoError(t, os.WriteFile(input, []byte(strings.TrimPrefix(rawBook, "<!-- Page 1 -->\n\n")), 0o644))

	var out, logs bytes.Buffer
	log := logger.New("info", "text", &logs)

	got, err := ChunkFile(context.Background(), input, testAnchors, cfg, log, &out)
	require.NoError(t, err)

	assert.Len(t, got.Result.Records, 2)
	assert.Equal(t, 2, got.Write.Written)
	assert.False(t, got.Write.HasFailures())
	assert.Empty(t, got.Diagnostics)
	assert.Len(t, chunkFiles(t, cfg.Files.ExportDir), 2)
	assert.FileExists(t, filepath.Join(cfg.Files.ExportDir, "001_Alpha_TEST.md"))
	assert.FileExists(t, filepath.Join(cfg.Files.ExportDir, "report.json"))
	assert.FileExists(t, filepath.Join(cfg.Files.ExportDir, "report.yaml"))
	assert.Contains(t, out.String(), "CHUNKING HEALTH REPORT")
	assert.Contains(t, logs.String(), "chunking complete")
}

func TestChunkFileRerunIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	input := filepath.Join(t.TempDir(), "book.md")
	require.NoError(t, os.WriteFile(input, []byte("# Alpha\n\nalpha words go here now.\n\n# Beta\n\nbeta words."), 0o644))
	require.NoError(t, os.MkdirAll(cfg.Files.ExportDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Files.ExportDir, "099_stale_TEST.md"), []byte("old"), 0o644))

	log := logger.New("error", "text", nil)
	first, err := ChunkFile(context.Background(), input, testAnchors, cfg, log, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Cleared)
	before := chunkFiles(t, cfg.Files.ExportDir)

	second, err := ChunkFile(context.Background(), input, testAnchors, cfg, log, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Cleared)
	assert.Equal(t, before, chunkFiles(t, cfg.Files.ExportDir))
}

func TestChunkFileLogsDiagnostics(t *testing.T) {
	cfg := testConfig(t)
	input := filepath.Join(t.TempDir(), "book.md")
	require.NoError(t, os.WriteFile(input, []byte("# Alpha\n\nalpha words go here now."), 0o644))

	var logs bytes.Buffer
	got, err := ChunkFile(context.Background(), input, testAnchors, cfg, logger.New("info", "text", &logs), &bytes.Buffer{})
	require.NoError(t, err)

	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, types.DiagMissingAnchor, got.Diagnostics[0].Kind)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "kind=missing_anchor")
	assert.Contains(t, logs.String(), "section=Beta")
}

func TestChunkFileMissingInput(t *testing.T) {
	cfg := testConfig(t)
	_, err := ChunkFile(context.Background(), filepath.Join(t.TempDir(), "none.md"), testAnchors, cfg,
		logger.New("error", "text", nil), &bytes.Buffer{})
	assert.ErrorContains(t, err, "reading chunk input")
}

func TestLogDiagnosticsLevels(t *testing.T) {
	var logs bytes.Buffer
	LogDiagnostics(context.Background(), logger.New("warn", "text", &logs), []types.Diagnostic{
		{Kind: types.DiagEmptySection, Section: "Empty", Detail: "no words"},
		{Kind: types.DiagNoAnchorsFound, Detail: "none found"},
	})
	assert.NotContains(t, logs.String(), "Empty")
	assert.Contains(t, logs.String(), "kind=no_anchors_found")
}

func TestRunnerRunAllWithoutAI(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Files.InputPDF, []byte("%PDF-1.4"), 0o644))

	conv := &fakeConverter{text: rawBook}
	var out bytes.Buffer
	r := &Runner{Config: cfg, Anchors: testAnchors, Converter: conv, Out: &out}

	require.NoError(t, r.Run(context.Background(), workflow.ActionRunAll))

	assert.Equal(t, 1, conv.calls)
	assert.FileExists(t, cfg.Files.RawText)
	assert.FileExists(t, cfg.Files.BasicMarkdown)
	assert.NoFileExists(t, cfg.Files.AIMarkdown)
	assert.Len(t, chunkFiles(t, cfg.Files.ExportDir), 2)
	assert.Contains(t, out.String(), "== extract ==")
	assert.NotContains(t, out.String(), "== ai_cleanup ==")

	state, _, err := workflow.Detect(cfg.Files)
	require.NoError(t, err)
	assert.Equal(t, workflow.StateComplete, state)
}

func TestRunnerResumeAI(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Enabled = true
	require.NoError(t, os.WriteFile(cfg.Files.RawText, []byte(rawBook), 0o644))
	require.NoError(t, os.WriteFile(cfg.Files.BasicMarkdown, []byte("# Alpha\n\nbasic"), 0o644))

	r := &Runner{
		Config:  cfg,
		Anchors: testAnchors,
		Cleaner: cleanup.NewCleaner(upperBackend{}, nil, cfg.AI, nil),
	}
	require.NoError(t, r.Run(context.Background(), workflow.ActionResumeAI))

	ai, err := os.ReadFile(cfg.Files.AIMarkdown)
	require.NoError(t, err)
	assert.Contains(t, string(ai), "<!-- Page 1 -->")
	assert.Contains(t, string(ai), "alpha WORDS")

	files := chunkFiles(t, cfg.Files.ExportDir)
	require.Len(t, files, 2)
	body, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "alpha WORDS", "chunks come from the AI output")
}

func TestRunnerAICleanupWithUnreadablePDF(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Enabled = true
	require.NoError(t, os.WriteFile(cfg.Files.InputPDF, []byte("%PDF-1.4 not really"), 0o644))
	require.NoError(t, os.WriteFile(cfg.Files.RawText, []byte(rawBook), 0o644))

	var logs bytes.Buffer
	r := &Runner{
		Config:  cfg,
		Cleaner: cleanup.NewCleaner(upperBackend{}, nil, cfg.AI, nil),
		Logger:  logger.New("debug", "text", &logs),
	}
	summary, err := r.AICleanup(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Cleaned)
	assert.Contains(t, logs.String(), "PDF structure analysis failed")
	ai, err := os.ReadFile(cfg.Files.AIMarkdown)
	require.NoError(t, err)
	assert.Contains(t, string(ai), "alpha WORDS")
}

func TestRunnerChunkOnlyWithoutInput(t *testing.T) {
	r := &Runner{Config: testConfig(t), Anchors: testAnchors}
	err := r.Run(context.Background(), workflow.ActionChunkOnly)
	assert.ErrorIs(t, err, workflow.ErrNoChunkInput)
}

func TestRunnerAIWithoutKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Enabled = true
	cfg.AI.APIKey = ""
	require.NoError(t, os.WriteFile(cfg.Files.RawText, []byte(rawBook), 0o644))

	r := &Runner{Config: cfg, Anchors: testAnchors}
	_, err := r.AICleanup(context.Background())
	assert.ErrorContains(t, err, "OpenAI key")
}

func TestRunnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Config: testConfig(t), Anchors: testAnchors}
	assert.ErrorIs(t, r.Run(ctx, workflow.ActionRunAll), context.Canceled)
}

func TestRunnerExtractFetchesMissingPDF(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.7\nbody"))
	}))
	defer ts.Close()

	cfg := testConfig(t)
	cfg.Source.URL = ts.URL + "/srd.pdf"
	conv := &fakeConverter{text: rawBook}
	r := &Runner{Config: cfg, Converter: conv, HTTPClient: ts.Client()}

	require.NoError(t, r.Extract(context.Background()))
	assert.FileExists(t, cfg.Files.InputPDF)
	assert.FileExists(t, cfg.Files.RawText)
	assert.Equal(t, 1, conv.calls)
}

func TestRunnerExtractWithoutPDFOrSource(t *testing.T) {
	r := &Runner{Config: testConfig(t), Converter: &fakeConverter{}}
	assert.ErrorContains(t, r.Extract(context.Background()), "PDF not found")
}
