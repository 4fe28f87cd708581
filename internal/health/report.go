// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package health

import (
	"fmt"
	"io"
	"strings"
)

// Tier is the overall quality grade derived from the ideal-range share.
type Tier string

const (
	TierExcellent        Tier = "excellent"
	TierGood             Tier = "good"
	TierFair             Tier = "fair"
	TierNeedsImprovement Tier = "needs_improvement"
)

// Recommendation texts. Rules are evaluated independently.
const (
	RecSplitFurther  = "Consider splitting large chunks further at paragraph boundaries"
	RecMergeSmall    = "Consider merging very small chunks with related content"
	RecVerifyAnchors = "Some sections may be missing - verify section detection logic"
	RecLooksGood     = "Chunk distribution looks good"
)

const (
	bandShareLimit = 0.20
	coverageFloor  = 0.90
)

// BandSummary is the count and share of chunks in one size band.
type BandSummary struct {
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Report is the quality summary of one chunking run.
type Report struct {
	RunID string `json:"run_id,omitempty" yaml:"run_id,omitempty"`

	TotalChunks     int     `json:"total_chunks" yaml:"total_chunks"`
	SectionsCovered int     `json:"sections_covered" yaml:"sections_covered"`
	SectionsTotal   int     `json:"sections_total" yaml:"sections_total"`
	Coverage        float64 `json:"coverage" yaml:"coverage"`

	TargetMin int `json:"target_min" yaml:"target_min"`
	TargetMax int `json:"target_max" yaml:"target_max"`

	Ideal BandSummary `json:"ideal" yaml:"ideal"`
	Small BandSummary `json:"small" yaml:"small"`
	Large BandSummary `json:"large" yaml:"large"`

	MeanWords float64 `json:"mean_words" yaml:"mean_words"`
	MinWords  int     `json:"min_words" yaml:"min_words"`
	MaxWords  int     `json:"max_words" yaml:"max_words"`

	Tier            Tier     `json:"tier" yaml:"tier"`
	Unbounded       []string `json:"unbounded,omitempty" yaml:"unbounded,omitempty"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// Summarize reduces stats into a Report. catalogueSize is the number of
// anchors in the catalogue; coverage is the share of them that produced at
// least one chunk. A run with no chunks reports zero everywhere instead of
// dividing by zero.
func Summarize(stats *Stats, targetMin, targetMax, catalogueSize int) Report {
	if stats == nil {
		stats = NewStats(targetMin, targetMax)
	}
	total := stats.Total()
	covered := len(stats.order)

	r := Report{
		TotalChunks:     total,
		SectionsCovered: covered,
		SectionsTotal:   catalogueSize,
		Coverage:        ratio(covered, catalogueSize),
		TargetMin:       targetMin,
		TargetMax:       targetMax,
		Ideal:           BandSummary{Count: stats.Ideal, Percent: percent(stats.Ideal, total)},
		Small:           BandSummary{Count: stats.Small, Percent: percent(stats.Small, total)},
		Large:           BandSummary{Count: stats.Large, Percent: percent(stats.Large, total)},
	}
	if len(stats.Unbounded) > 0 {
		r.Unbounded = append([]string(nil), stats.Unbounded...)
	}

	if total > 0 {
		sum := 0
		r.MinWords = stats.WordCounts[0]
		r.MaxWords = stats.WordCounts[0]
		for _, wc := range stats.WordCounts {
			sum += wc
			r.MinWords = min(r.MinWords, wc)
			r.MaxWords = max(r.MaxWords, wc)
		}
		r.MeanWords = float64(sum) / float64(total)
	}

	r.Tier = tierFor(r.Ideal.Percent)

	if float64(stats.Large) > float64(total)*bandShareLimit {
		r.Recommendations = append(r.Recommendations, RecSplitFurther)
	}
	if float64(stats.Small) > float64(total)*bandShareLimit {
		r.Recommendations = append(r.Recommendations, RecMergeSmall)
	}
	if r.Coverage < coverageFloor {
		r.Recommendations = append(r.Recommendations, RecVerifyAnchors)
	}
	if len(r.Recommendations) == 0 {
		r.Recommendations = []string{RecLooksGood}
	}

	return r
}

func tierFor(idealPct float64) Tier {
	switch {
	case idealPct >= 80:
		return TierExcellent
	case idealPct >= 60:
		return TierGood
	case idealPct >= 40:
		return TierFair
	default:
		return TierNeedsImprovement
	}
}

func percent(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(100*n) / float64(d)
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// WriteText renders the report as a human-readable block.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "CHUNKING HEALTH REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Total chunks:     %d\n", r.TotalChunks)
	fmt.Fprintf(&b, "Sections covered: %d/%d (%.1f%%)\n", r.SectionsCovered, r.SectionsTotal, 100*r.Coverage)

	if r.TotalChunks > 0 {
		fmt.Fprintln(&b, "Word counts:")
		fmt.Fprintf(&b, "  average: %.0f\n", r.MeanWords)
		fmt.Fprintf(&b, "  range:   %d - %d\n", r.MinWords, r.MaxWords)
		fmt.Fprintf(&b, "  target:  %d - %d\n", r.TargetMin, r.TargetMax)
	}

	fmt.Fprintln(&b, "\nSize distribution:")
	fmt.Fprintf(&b, "  ideal (%d-%d): %d (%.1f%%)\n", r.TargetMin, r.TargetMax, r.Ideal.Count, r.Ideal.Percent)
	fmt.Fprintf(&b, "  small (<%d):    %d (%.1f%%)\n", r.TargetMin, r.Small.Count, r.Small.Percent)
	fmt.Fprintf(&b, "  large (>%d):    %d (%.1f%%)\n", r.TargetMax, r.Large.Count, r.Large.Percent)
	for _, title := range r.Unbounded {
		fmt.Fprintf(&b, "  no break point found: %s\n", title)
	}

	fmt.Fprintf(&b, "\nQuality: %s\n", strings.ToUpper(strings.ReplaceAll(string(r.Tier), "_", " ")))

	fmt.Fprintln(&b, "\nRecommendations:")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
