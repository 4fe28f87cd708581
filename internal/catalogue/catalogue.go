// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalogue loads and validates the ordered list of section anchors
// that drives chunking.
package catalogue

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// File is the on-disk representation of a catalogue.
type File struct {
	Name     string  `yaml:"name,omitempty"`
	Sections []Entry `yaml:"sections"`
}

// Entry is one catalogue line. When Marker is empty it defaults to
// "# " + Title.
type Entry struct {
	Title  string `yaml:"title" json:"title"`
	Marker string `yaml:"marker,omitempty" json:"marker,omitempty"`
}

// Build assigns order to entries and rejects blank titles and duplicate
// titles or markers.
func Build(entries []Entry) ([]types.SectionAnchor, error) {
	anchors := make([]types.SectionAnchor, 0, len(entries))
	titles := make(map[string]int, len(entries))
	markers := make(map[string]int, len(entries))

	for i, e := range entries {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			return nil, fmt.Errorf("entry %d: empty title", i+1)
		}
		marker := e.Marker
		if strings.TrimSpace(marker) == "" {
			marker = "# " + title
		}
		if prev, ok := titles[title]; ok {
			return nil, fmt.Errorf("entry %d: duplicate title %q (first at entry %d)", i+1, title, prev)
		}
		if prev, ok := markers[marker]; ok {
			return nil, fmt.Errorf("entry %d: duplicate marker %q (first at entry %d)", i+1, marker, prev)
		}
		titles[title] = i + 1
		markers[marker] = i + 1

		anchors = append(anchors, types.SectionAnchor{Title: title, Marker: marker, Order: i})
	}
	return anchors, nil
}

// Parse decodes a YAML catalogue.
func Parse(data []byte) ([]types.SectionAnchor, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalogue: %w", err)
	}
	if len(f.Sections) == 0 {
		return nil, fmt.Errorf("catalogue has no sections")
	}
	return Build(f.Sections)
}

// Load reads a catalogue from path. An empty path returns the built-in SRD
// 5.2 catalogue.
func Load(path string) ([]types.SectionAnchor, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalogue %s: %w", path, err)
	}
	anchors, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return anchors, nil
}

// Marshal encodes anchors as a catalogue file.
func Marshal(name string, anchors []types.SectionAnchor) ([]byte, error) {
	f := File{Name: name, Sections: make([]Entry, len(anchors))}
	for i, a := range anchors {
		f.Sections[i] = Entry{Title: a.Title, Marker: a.Marker}
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("marshaling catalogue: %w", err)
	}
	return data, nil
}
