// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow detects how far a previous run got and decides which
// stages to run next. Decisions are pure: the caller supplies the choice
// that an interactive prompt would otherwise ask for.
package workflow

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// State is the first stage whose output is missing.
type State string

const (
	StatePDFExtraction State = "pdf_extraction"
	StateBasicCleanup  State = "basic_cleanup"
	StateAICleanup     State = "ai_cleanup"
	StateChunking      State = "chunking"
	StateComplete      State = "complete"
)

// Choice is what the user asked for.
type Choice string

const (
	// ChoiceAuto follows the detected state.
	ChoiceAuto   Choice = ""
	ChoiceFresh  Choice = "fresh"
	ChoiceResume Choice = "resume"
	ChoiceChunks Choice = "chunks"
	ChoiceExit   Choice = "exit"
)

// ParseChoice validates a choice given on the command line.
func ParseChoice(s string) (Choice, error) {
	switch c := Choice(s); c {
	case ChoiceAuto, ChoiceFresh, ChoiceResume, ChoiceChunks, ChoiceExit:
		return c, nil
	case "auto":
		return ChoiceAuto, nil
	default:
		return "", fmt.Errorf("unknown choice %q (want auto, fresh, resume, chunks or exit)", s)
	}
}

// Action is the decided plan.
type Action string

const (
	ActionRunAll      Action = "run_all"
	ActionResumeBasic Action = "resume_basic"
	ActionResumeAI    Action = "resume_ai"
	ActionChunkOnly   Action = "chunk_only"
	ActionExit        Action = "exit"
)

// Step is one pipeline stage.
type Step string

const (
	StepExtract Step = "extract"
	StepBasic   Step = "basic_cleanup"
	StepAI      Step = "ai_cleanup"
	StepChunk   Step = "chunk"
)

// ErrNoChunkInput is returned when neither cleaned file exists.
var ErrNoChunkInput = errors.New("no cleaned Markdown available for chunking; run the full workflow first")

// Artifacts records which stage outputs exist on disk.
type Artifacts struct {
	RawText       bool `json:"raw_text"`
	BasicMarkdown bool `json:"basic_markdown"`
	AIMarkdown    bool `json:"ai_markdown"`
	Chunks        int  `json:"chunks"`
}

// Inspect checks the configured files and counts chunk files in the export
// directory.
func Inspect(files types.FilesConfig) (Artifacts, error) {
	a := Artifacts{
		RawText:       exists(files.RawText),
		BasicMarkdown: exists(files.BasicMarkdown),
		AIMarkdown:    exists(files.AIMarkdown),
	}
	if files.ExportDir != "" {
		matches, err := filepath.Glob(filepath.Join(files.ExportDir, "*.md"))
		if err != nil {
			return a, fmt.Errorf("listing %s: %w", files.ExportDir, err)
		}
		a.Chunks = len(matches)
	}
	return a, nil
}

// State returns the suggested starting point for a, the latest stage wins.
func (a Artifacts) State() State {
	switch {
	case a.Chunks > 0:
		return StateComplete
	case a.AIMarkdown:
		return StateChunking
	case a.BasicMarkdown:
		return StateAICleanup
	case a.RawText:
		return StateBasicCleanup
	default:
		return StatePDFExtraction
	}
}

// Detect inspects files and returns the resulting state.
func Detect(files types.FilesConfig) (State, Artifacts, error) {
	a, err := Inspect(files)
	if err != nil {
		return "", a, err
	}
	return a.State(), a, nil
}

// Decide maps a detected state and a choice to an action. Choices that make
// no sense for the state (resuming a complete run, chunking without cleaned
// text) are errors.
func Decide(state State, choice Choice) (Action, error) {
	switch choice {
	case ChoiceExit:
		return ActionExit, nil
	case ChoiceFresh:
		return ActionRunAll, nil
	}

	switch state {
	case StateComplete:
		switch choice {
		case ChoiceAuto:
			return ActionExit, nil
		case ChoiceChunks:
			return ActionChunkOnly, nil
		}
	case StateChunking:
		return ActionChunkOnly, nil
	case StateAICleanup:
		if choice == ChoiceChunks {
			return ActionChunkOnly, nil
		}
		return ActionResumeAI, nil
	case StateBasicCleanup:
		if choice != ChoiceChunks {
			return ActionResumeBasic, nil
		}
	case StatePDFExtraction:
		if choice != ChoiceChunks {
			return ActionRunAll, nil
		}
	default:
		return "", fmt.Errorf("unknown workflow state %q", state)
	}
	return "", fmt.Errorf("choice %q is not available in state %s", choice, state)
}

// Steps lists the stages an action runs. AI cleanup is included only when
// ai is true.
func (a Action) Steps(ai bool) []Step {
	var steps []Step
	switch a {
	case ActionRunAll:
		steps = append(steps, StepExtract, StepBasic)
	case ActionResumeBasic:
		steps = append(steps, StepBasic)
	case ActionResumeAI:
	case ActionChunkOnly:
		return []Step{StepChunk}
	default:
		return nil
	}
	if ai {
		steps = append(steps, StepAI)
	}
	return append(steps, StepChunk)
}

// ChunkInput picks the file to chunk: the AI-cleaned Markdown when present,
// else the basic Markdown.
func ChunkInput(files types.FilesConfig) (string, error) {
	if exists(files.AIMarkdown) {
		return files.AIMarkdown, nil
	}
	if exists(files.BasicMarkdown) {
		return files.BasicMarkdown, nil
	}
	return "", ErrNoChunkInput
}

// WriteStatus prints a checklist of stage outputs.
func WriteStatus(w io.Writer, files types.FilesConfig, a Artifacts) {
	mark := func(ok bool) string {
		if ok {
			return "[x]"
		}
		return "[ ]"
	}
	fmt.Fprintf(w, "%s raw text extraction (%s)\n", mark(a.RawText), files.RawText)
	fmt.Fprintf(w, "%s basic cleanup (%s)\n", mark(a.BasicMarkdown), files.BasicMarkdown)
	fmt.Fprintf(w, "%s AI cleanup (%s)\n", mark(a.AIMarkdown), files.AIMarkdown)
	fmt.Fprintf(w, "%s chunking (%s/, %d files)\n", mark(a.Chunks > 0), files.ExportDir, a.Chunks)
	fmt.Fprintf(w, "next: %s\n", a.State())
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
