// Package logger provides slog constructors shared by the CLI, the HTTP
// server, and the MCP server.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// NewDefaultLogger creates a text logger on stderr at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// New creates a logger from configuration strings. Level is one of debug,
// info, warn, error; format is "json" or "text". Unknown values fall back
// to info/text.
func New(level, format string) *slog.Logger {
	return slog.New(NewHandler(level, format))
}

// NewHandler builds the slog handler for New. Exposed so callers can wrap
// it with their own handlers.
func NewHandler(level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}

// ParseLevel converts a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
