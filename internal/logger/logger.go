// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger builds the structured logger shared by the CLI and the
// HTTP server.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a structured logger writing to w at the given level. Format
// "json" selects the JSON handler; anything else selects text. A nil w
// writes to stderr.
func New(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
