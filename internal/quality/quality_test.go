// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOCRConfidence(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{"empty", "", 0},
		{"clean prose", "Clean words here.", 1},
		{"glyph runs floor at zero", "IlI1 O0O", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, OCRConfidence(tt.content), 1e-9)
		})
	}
}

func TestFormattingScore(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{"header only", "# Title\n\nSome text.", 1.0},
		{"no header", "plain text", 0.8},
		{"no header with gap", "plain\n\n\n\ntext", 0.6},
		{"list and emphasis capped", "# T\n\n- item\n\n**bold**", 1.0},
		{"list and emphasis make up for missing header", "intro\n- item\n*x*", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FormattingScore(tt.content), 1e-9)
		})
	}
}

func TestCompletenessScore(t *testing.T) {
	assert.InDelta(t, 0.5, CompletenessScore("Some text\n"+TruncationMarker), 1e-9)
	assert.InDelta(t, 0.5, CompletenessScore("# H\n\nFull sentence.\n\nCut off mid"), 1e-9)
	assert.InDelta(t, 1.0, CompletenessScore("# Only a header\n\n- a list item"), 1e-9)
	assert.InDelta(t, 1.0, CompletenessScore("One. Two!\n\nThree?"), 1e-9)
}

func TestTermsPreserved(t *testing.T) {
	assert.Equal(t, 3, TermsPreserved("Strength and fire damage; the target is prone."))
	assert.Equal(t, 0, TermsPreserved("Nothing relevant."))
}

func TestSpellingErrors(t *testing.T) {
	assert.Equal(t, 2, SpellingErrors("aaa b a I"))
	assert.Equal(t, 0, SpellingErrors("A wizard casts a spell"))
}

func TestBrokenReferences(t *testing.T) {
	content := "For details see\nMore text on page 12.\nSee chapter\nListed on p.\n"
	assert.Equal(t, 3, BrokenReferences(content))
	assert.Equal(t, 0, BrokenReferences("See the Combat chapter for details."))
}

func TestStripFrontmatter(t *testing.T) {
	assert.Equal(t, "Body", StripFrontmatter("---\ntitle: x\n---\n\nBody"))
	assert.Equal(t, "No frontmatter", StripFrontmatter("No frontmatter"))
	assert.Equal(t, "---unterminated", StripFrontmatter("---unterminated"))
}

func TestAggregate(t *testing.T) {
	good := Metrics{OCRConfidence: 0.95, FormattingScore: 0.9, CompletenessScore: 1, TermsPreserved: 4}
	r := Aggregate([]ChunkMetrics{{File: "a.md", Metrics: good}, {File: "b.md", Metrics: good}})

	assert.Equal(t, 2, r.Summary.TotalChunks)
	assert.InDelta(t, 0.95, r.Summary.AverageOCRConfidence, 1e-9)
	assert.InDelta(t, 4.0, r.Summary.AverageTermsPreserved, 1e-9)
	assert.Equal(t, []string{RecQualityGood}, r.Recommendations)
}

func TestAggregateRecommendations(t *testing.T) {
	poor := Metrics{OCRConfidence: 0.5, FormattingScore: 0.5, SpellingErrors: 15, BrokenReferences: 3}
	r := Aggregate([]ChunkMetrics{{File: "a.md", Metrics: poor}, {File: "b.md", Metrics: poor}})

	assert.Equal(t, []string{RecBetterSource, RecBetterFormatting, RecSpellCheck, RecCrossReferences}, r.Recommendations)
	assert.Equal(t, 30, r.Summary.TotalSpellingErrors)
	assert.Equal(t, 6, r.Summary.TotalBrokenReferences)
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_b.md"),
		[]byte("---\ntitle: \"B\"\n---\n\n# B\n\nStrength decides it.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_a.md"),
		[]byte("---\ntitle: \"A\"\n---\n\n# A\n\nFire and cold.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	r, err := ValidateDir(dir)
	require.NoError(t, err)

	require.Len(t, r.Chunks, 2)
	assert.Equal(t, "001_a.md", r.Chunks[0].File)
	assert.Equal(t, "002_b.md", r.Chunks[1].File)
	assert.Equal(t, 2, r.Chunks[0].Metrics.TermsPreserved)
	assert.Equal(t, 1, r.Chunks[1].Metrics.TermsPreserved)
	assert.NotEmpty(t, r.Recommendations)
}

func TestValidateDirErrors(t *testing.T) {
	_, err := ValidateDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, err = ValidateDir(t.TempDir())
	assert.ErrorContains(t, err, "no markdown files")
}

func TestReportWriteText(t *testing.T) {
	r := Aggregate([]ChunkMetrics{{File: "a.md", Metrics: Metrics{OCRConfidence: 0.9, FormattingScore: 0.8, SpellingErrors: 2}}})

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "Chunks analysed:       1")
	assert.Contains(t, out, "OCR confidence:        0.90")
	assert.Contains(t, out, "Suspect words:         2")
	assert.Contains(t, out, "  - "+RecQualityGood)
}
