//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pipeline groups the targets that run the built CLI against the files
// named in rulebook-engine.yaml.
type Pipeline mg.Namespace

// Extract writes the raw page text of the rulebook PDF.
func (Pipeline) Extract() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "extract")
}

// Basic runs the regex cleanup.
func (Pipeline) Basic() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "clean")
}

// AI runs the page-by-page AI cleanup.
func (Pipeline) AI() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "clean", "--ai")
}

// Chunk splits the cleaned Markdown into the export directory.
func (Pipeline) Chunk() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "chunk")
}

// Validate scores the exported chunks.
func (Pipeline) Validate() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "validate")
}

// Run resumes the workflow from the detected stage and validates the result.
func (Pipeline) Run() error {
	mg.Deps(Build)
	if err := sh.RunV(binPath(), "run"); err != nil {
		return err
	}
	mg.Deps(Pipeline.Validate)
	return nil
}

// Fresh reruns every stage from PDF extraction.
func (Pipeline) Fresh() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "run", "--choice=fresh")
}
