// Package logging builds the structured loggers used across xaheen.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a text logger for the named component writing to w.
// A nil writer defaults to stderr so diagnostics never mix with command output.
func New(w io.Writer, component string, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler).With("component", component)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel parses a level name (debug, info, warn, error).
// Unknown or empty input yields LevelWarn, the CLI default.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Level resolves the effective level: verbose wins, then XAHEEN_LOG_LEVEL,
// then warn.
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return ParseLevel(os.Getenv("XAHEEN_LOG_LEVEL"))
}
