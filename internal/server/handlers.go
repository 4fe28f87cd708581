// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/rulebook-engine/internal/catalogue"
	"github.com/pdiddy/rulebook-engine/internal/config"
	"github.com/pdiddy/rulebook-engine/internal/export"
	"github.com/pdiddy/rulebook-engine/internal/outline"
	"github.com/pdiddy/rulebook-engine/internal/pipeline"
	"github.com/pdiddy/rulebook-engine/internal/quality"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type chunkRequest struct {
	Markdown       string            `json:"markdown" validate:"required"`
	Catalogue      []catalogue.Entry `json:"catalogue,omitempty"`
	TargetMin      int               `json:"target_min,omitempty" validate:"omitempty,min=1"`
	TargetMax      int               `json:"target_max,omitempty" validate:"omitempty,min=1"`
	LookaheadLines int               `json:"lookahead_lines,omitempty" validate:"omitempty,min=1"`
	Suffix         *string           `json:"suffix,omitempty"`
}

// Artifact is a rendered chunk file.
type Artifact struct {
	File    string `json:"file"`
	Content string `json:"content"`
}

// ChunkResponse is the body returned by POST /api/chunk.
type ChunkResponse struct {
	export.ReportFile
	Artifacts []Artifact `json:"artifacts"`
}

type outlineRequest struct {
	Markdown string `json:"markdown" validate:"required"`
	Level    int    `json:"level,omitempty" validate:"omitempty,min=1,max=6"`
}

// OutlineResponse is the body returned by POST /api/outline.
type OutlineResponse struct {
	Headings  []outline.Heading `json:"headings"`
	Catalogue []catalogue.Entry `json:"catalogue"`
}

type qualityRequest struct {
	Content string `json:"content" validate:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"catalogue": len(s.anchors),
	})
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if status, err := decode(r, &req); err != nil {
		s.fail(w, status, err)
		return
	}

	cfg := s.cfg
	if req.TargetMin > 0 {
		cfg.Chunking.TargetMin = req.TargetMin
	}
	if req.TargetMax > 0 {
		cfg.Chunking.TargetMax = req.TargetMax
	}
	if req.LookaheadLines > 0 {
		cfg.Chunking.LookaheadLines = req.LookaheadLines
	}
	if req.Suffix != nil {
		cfg.Files.Suffix = *req.Suffix
	}
	if err := config.Validate(cfg); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	anchors := s.anchors
	if len(req.Catalogue) > 0 {
		var err error
		if anchors, err = catalogue.Build(req.Catalogue); err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
	}

	res, report := pipeline.ChunkText(req.Markdown, anchors, cfg.Chunking)
	pipeline.LogDiagnostics(r.Context(), s.log, res.Diagnostics)

	resp := ChunkResponse{
		ReportFile: export.NewReportFile(report, res.Records, cfg.Files.Suffix, res.Diagnostics),
		Artifacts:  make([]Artifact, len(res.Records)),
	}
	for i, rec := range res.Records {
		resp.Artifacts[i] = Artifact{File: export.Filename(rec, cfg.Files.Suffix), Content: export.Render(rec)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	var req outlineRequest
	if status, err := decode(r, &req); err != nil {
		s.fail(w, status, err)
		return
	}
	headings := outline.Headings([]byte(req.Markdown))
	writeJSON(w, http.StatusOK, OutlineResponse{
		Headings:  headings,
		Catalogue: outline.Skeleton(headings, req.Level),
	})
}

func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	var req qualityRequest
	if status, err := decode(r, &req); err != nil {
		s.fail(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, quality.Validate(quality.StripFrontmatter(req.Content)))
}

// decode reads one JSON value from the body and validates it. It returns
// the HTTP status to report on failure.
func decode(r *http.Request, v any) (int, error) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return http.StatusBadRequest, fmt.Errorf("decoding request: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return http.StatusBadRequest, fmt.Errorf("invalid request: %w", err)
	}
	return 0, nil
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	} else {
		s.log.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}
