// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the rulebook-engine pipeline:
// the source document, the section catalogue, located sections, emitted
// chunk records, diagnostics, and the stage configuration.
package types

import "fmt"

// Document is the immutable text handed to the chunking core.
type Document struct {
	text string
}

// NewDocument wraps text as a Document.
func NewDocument(text string) Document {
	return Document{text: text}
}

// Text returns the document contents.
func (d Document) Text() string { return d.text }

// Len returns the document length in bytes.
func (d Document) Len() int { return len(d.text) }

// SectionAnchor is one entry of the caller-supplied section catalogue.
type SectionAnchor struct {
	// Title is the human-readable section name (e.g. "Combat").
	Title string `json:"title" yaml:"title"`

	// Marker is the literal text that starts the section in the document,
	// typically the header line (e.g. "# Combat").
	Marker string `json:"marker" yaml:"marker"`

	// Order is the zero-based position of the anchor in the catalogue.
	Order int `json:"order" yaml:"order"`
}

// Section is a located span of the document owned by one anchor.
// Start and End are byte offsets into the document; End > Start always.
type Section struct {
	Anchor    SectionAnchor `json:"anchor" yaml:"anchor"`
	Start     int           `json:"start" yaml:"start"`
	End       int           `json:"end" yaml:"end"`
	Text      string        `json:"-" yaml:"-"`
	WordCount int           `json:"word_count" yaml:"word_count"`
}

// ChunkRecord is one emitted chunk. Sequence numbers are dense, starting at 1.
type ChunkRecord struct {
	Sequence      int    `json:"sequence" yaml:"sequence"`
	Title         string `json:"title" yaml:"title"`
	SourceSection string `json:"source_section" yaml:"source_section"`
	Content       string `json:"content" yaml:"content"`
	WordCount     int    `json:"word_count" yaml:"word_count"`
}

// ChunkID returns the zero-padded three-digit sequence used in frontmatter
// and filenames.
func (c ChunkRecord) ChunkID() string {
	return fmt.Sprintf("%03d", c.Sequence)
}

// DiagnosticKind classifies a recoverable condition reported by the pipeline.
type DiagnosticKind string

const (
	// DiagMissingAnchor: a catalogued section marker was not found.
	DiagMissingAnchor DiagnosticKind = "missing_anchor"
	// DiagEmptySection: a located section had no countable words.
	DiagEmptySection DiagnosticKind = "empty_section"
	// DiagUnboundedFragment: no break point was found within the lookahead
	// horizon and the fragment was emitted above the target maximum.
	DiagUnboundedFragment DiagnosticKind = "unbounded_fragment"
	// DiagPersistenceFailure: a chunk artifact could not be written.
	DiagPersistenceFailure DiagnosticKind = "persistence_failure"
	// DiagNoAnchorsFound: no catalogue entry matched the document.
	DiagNoAnchorsFound DiagnosticKind = "no_anchors_found"
)

// Diagnostic records one recoverable condition. None of them abort a run.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Section string         `json:"section,omitempty" yaml:"section,omitempty"`
	Detail  string         `json:"detail" yaml:"detail"`
}

func (d Diagnostic) String() string {
	if d.Section == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Section, d.Detail)
}
