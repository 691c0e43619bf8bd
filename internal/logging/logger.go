// Package logging constructs the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a structured logger appropriate for the environment.
// Production uses JSON format, development uses human-readable text.
// Logs go to stderr so the stdio MCP transport keeps stdout to itself.
func New(env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
