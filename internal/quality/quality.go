// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality scores exported chunks with text heuristics: OCR noise,
// Markdown formatting, truncation, rules vocabulary, suspect words and
// dangling cross-references.
package quality

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended to pages cut before AI cleanup.
const TruncationMarker = "[...truncated...]"

// Recommendation texts.
const (
	RecBetterSource     = "Consider using higher quality PDF or OCR preprocessing"
	RecBetterFormatting = "Improve markdown formatting in AI cleanup prompts"
	RecSpellCheck       = "Add spell-checking step to the pipeline"
	RecCrossReferences  = "Implement cross-reference repair logic"
	RecQualityGood      = "Quality looks good! Consider fine-tuning chunk sizes for your specific RAG use case"
)

// rulesTerms is the vocabulary expected to survive cleanup intact.
var rulesTerms = map[string][]string{
	"ability_scores": {"Strength", "Dexterity", "Constitution", "Intelligence", "Wisdom", "Charisma"},
	"damage_types":   {"acid", "cold", "fire", "force", "lightning", "necrotic", "poison", "psychic", "radiant", "thunder"},
	"conditions": {"blinded", "charmed", "deafened", "frightened", "grappled", "incapacitated", "invisible",
		"paralyzed", "petrified", "poisoned", "prone", "restrained", "stunned", "unconscious"},
	"spell_schools": {"abjuration", "conjuration", "divination", "enchantment", "evocation", "illusion", "necromancy", "transmutation"},
}

var (
	ilRunRe       = regexp.MustCompile(`[Il1]{2,}`)
	oRunRe        = regexp.MustCompile(`[O0]{2,}`)
	tinyWordRe    = regexp.MustCompile(`\b[a-z]{1,2}\b`)
	strangeRe     = regexp.MustCompile(`[^\w\s\-.,;:!?'"()\[\]{}]`)
	headerRe      = regexp.MustCompile(`(?m)^#{1,6}\s`)
	listRe        = regexp.MustCompile(`(?m)^\s*(\d+\.|[*-])\s`)
	emphasisRe    = regexp.MustCompile(`\*\*.+?\*\*|\*.+?\*`)
	blankGapRe    = regexp.MustCompile(`\n{4,}`)
	asciiWordRe   = regexp.MustCompile(`\b[a-zA-Z]+\b`)
	danglingRefRe = regexp.MustCompile(`(?im)\b(see|page|chapter)\s*$`)
	danglingPPRe  = regexp.MustCompile(`(?m)\bpp?\.\s*$`)
)

// Metrics are the scores for one chunk. Scores are in [0, 1].
type Metrics struct {
	OCRConfidence     float64 `json:"ocr_confidence" yaml:"ocr_confidence"`
	FormattingScore   float64 `json:"formatting_score" yaml:"formatting_score"`
	CompletenessScore float64 `json:"completeness_score" yaml:"completeness_score"`
	TermsPreserved    int     `json:"terms_preserved" yaml:"terms_preserved"`
	SpellingErrors    int     `json:"spelling_errors" yaml:"spelling_errors"`
	BrokenReferences  int     `json:"broken_references" yaml:"broken_references"`
}

// Validate scores one chunk body.
func Validate(content string) Metrics {
	return Metrics{
		OCRConfidence:     OCRConfidence(content),
		FormattingScore:   FormattingScore(content),
		CompletenessScore: CompletenessScore(content),
		TermsPreserved:    TermsPreserved(content),
		SpellingErrors:    SpellingErrors(content),
		BrokenReferences:  BrokenReferences(content),
	}
}

// OCRConfidence penalises runs of look-alike glyphs, stray one and two
// letter words and characters outside ordinary prose punctuation.
func OCRConfidence(content string) float64 {
	total := utf8.RuneCountInString(content)
	if total == 0 {
		return 0
	}
	artifacts := len(ilRunRe.FindAllStringIndex(content, -1)) +
		len(oRunRe.FindAllStringIndex(content, -1)) +
		len(tinyWordRe.FindAllStringIndex(content, -1)) +
		len(strangeRe.FindAllStringIndex(content, -1))
	return max(0, 1-float64(artifacts)/float64(total)*10)
}

// FormattingScore starts at 1 and adjusts for headers, lists, emphasis and
// long blank gaps.
func FormattingScore(content string) float64 {
	score := 1.0
	if !headerRe.MatchString(content) {
		score -= 0.2
	}
	if listRe.MatchString(content) {
		score += 0.1
	}
	if emphasisRe.MatchString(content) {
		score += 0.1
	}
	if blankGapRe.MatchString(content) {
		score -= 0.2
	}
	return min(1, max(0, score))
}

// CompletenessScore is 0.5 for truncated text, otherwise the share of prose
// paragraphs that end with terminal punctuation. Headers, list items and
// table rows are not prose.
func CompletenessScore(content string) float64 {
	if strings.Contains(content, TruncationMarker) {
		return 0.5
	}
	prose, incomplete := 0, 0
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || !isProse(para) {
			continue
		}
		prose++
		if !strings.ContainsAny(para[len(para)-1:], ".!?:)\"'*") {
			incomplete++
		}
	}
	if prose == 0 {
		return 1
	}
	return 1 - float64(incomplete)/float64(prose)
}

func isProse(para string) bool {
	switch para[0] {
	case '#', '|', '-', '*', '>':
		return false
	}
	return !listRe.MatchString(para)
}

// TermsPreserved counts the rules terms that appear in content, ignoring
// case.
func TermsPreserved(content string) int {
	lower := strings.ToLower(content)
	n := 0
	for _, terms := range rulesTerms {
		for _, term := range terms {
			if strings.Contains(lower, strings.ToLower(term)) {
				n++
			}
		}
	}
	return n
}

// SpellingErrors counts words with a letter repeated three times in a row
// and single letters other than "a" and "I".
func SpellingErrors(content string) int {
	n := 0
	for _, w := range asciiWordRe.FindAllString(content, -1) {
		if hasTripleLetter(w) {
			n++
		}
		if len(w) == 1 && w != "a" && w != "A" && w != "i" && w != "I" {
			n++
		}
	}
	return n
}

func hasTripleLetter(w string) bool {
	for i := 2; i < len(w); i++ {
		if w[i] == w[i-1] && w[i] == w[i-2] {
			return true
		}
	}
	return false
}

// BrokenReferences counts lines that end in a dangling "see", "page",
// "chapter" or "p."/"pp.".
func BrokenReferences(content string) int {
	return len(danglingRefRe.FindAllStringIndex(content, -1)) +
		len(danglingPPRe.FindAllStringIndex(content, -1))
}

// StripFrontmatter removes a leading "---" delimited metadata block.
func StripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return content
	}
	return strings.TrimSpace(parts[2])
}

// ChunkMetrics is the score of one chunk file.
type ChunkMetrics struct {
	File    string  `json:"file" yaml:"file"`
	Metrics Metrics `json:"metrics" yaml:"metrics"`
}

// Summary aggregates chunk metrics.
type Summary struct {
	TotalChunks           int     `json:"total_chunks" yaml:"total_chunks"`
	AverageOCRConfidence  float64 `json:"average_ocr_confidence" yaml:"average_ocr_confidence"`
	AverageFormatting     float64 `json:"average_formatting_score" yaml:"average_formatting_score"`
	AverageCompleteness   float64 `json:"average_completeness_score" yaml:"average_completeness_score"`
	TotalSpellingErrors   int     `json:"total_spelling_errors" yaml:"total_spelling_errors"`
	TotalBrokenReferences int     `json:"total_broken_references" yaml:"total_broken_references"`
	AverageTermsPreserved float64 `json:"average_terms_preserved" yaml:"average_terms_preserved"`
}

// Report is the quality report for a directory of chunks.
type Report struct {
	Summary         Summary        `json:"summary" yaml:"summary"`
	Chunks          []ChunkMetrics `json:"chunks" yaml:"chunks"`
	Recommendations []string       `json:"recommendations" yaml:"recommendations"`
}

// ValidateDir scores every Markdown file in dir, in name order.
func ValidateDir(dir string) (Report, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return Report{}, fmt.Errorf("listing %s: %w", dir, err)
	}
	if _, err := os.Stat(dir); err != nil {
		return Report{}, fmt.Errorf("chunks directory %s not found: %w", dir, err)
	}
	if len(matches) == 0 {
		return Report{}, fmt.Errorf("no markdown files found in %s", dir)
	}
	sort.Strings(matches)

	chunks := make([]ChunkMetrics, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return Report{}, fmt.Errorf("reading %s: %w", path, err)
		}
		chunks = append(chunks, ChunkMetrics{
			File:    filepath.Base(path),
			Metrics: Validate(StripFrontmatter(string(data))),
		})
	}
	return Aggregate(chunks), nil
}

// Aggregate builds a report from per-chunk metrics.
func Aggregate(chunks []ChunkMetrics) Report {
	var s Summary
	s.TotalChunks = len(chunks)
	for _, c := range chunks {
		s.AverageOCRConfidence += c.Metrics.OCRConfidence
		s.AverageFormatting += c.Metrics.FormattingScore
		s.AverageCompleteness += c.Metrics.CompletenessScore
		s.AverageTermsPreserved += float64(c.Metrics.TermsPreserved)
		s.TotalSpellingErrors += c.Metrics.SpellingErrors
		s.TotalBrokenReferences += c.Metrics.BrokenReferences
	}
	if n := float64(len(chunks)); n > 0 {
		s.AverageOCRConfidence /= n
		s.AverageFormatting /= n
		s.AverageCompleteness /= n
		s.AverageTermsPreserved /= n
	}
	return Report{Summary: s, Chunks: chunks, Recommendations: recommend(s)}
}

func recommend(s Summary) []string {
	var recs []string
	if s.AverageOCRConfidence < 0.8 {
		recs = append(recs, RecBetterSource)
	}
	if s.AverageFormatting < 0.7 {
		recs = append(recs, RecBetterFormatting)
	}
	if s.TotalSpellingErrors > 20 {
		recs = append(recs, RecSpellCheck)
	}
	if s.TotalBrokenReferences > 5 {
		recs = append(recs, RecCrossReferences)
	}
	if len(recs) == 0 {
		recs = append(recs, RecQualityGood)
	}
	return recs
}

// WriteText renders the report summary and recommendations.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	s := r.Summary
	fmt.Fprintln(&b, "CHUNK QUALITY REPORT")
	fmt.Fprintf(&b, "Chunks analysed:       %d\n", s.TotalChunks)
	fmt.Fprintf(&b, "OCR confidence:        %.2f\n", s.AverageOCRConfidence)
	fmt.Fprintf(&b, "Formatting score:      %.2f\n", s.AverageFormatting)
	fmt.Fprintf(&b, "Completeness score:    %.2f\n", s.AverageCompleteness)
	fmt.Fprintf(&b, "Rules terms per chunk: %.1f\n", s.AverageTermsPreserved)
	fmt.Fprintf(&b, "Suspect words:         %d\n", s.TotalSpellingErrors)
	fmt.Fprintf(&b, "Broken references:     %d\n", s.TotalBrokenReferences)
	fmt.Fprintln(&b, "\nRecommendations:")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
