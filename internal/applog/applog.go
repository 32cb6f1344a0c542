// Package applog sets up the shell's structured logging: slog text output on
// stderr and, when configured, in a rotating file.
package applog

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a config string to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New returns a text logger writing to stderr and, if file is non-nil, to
// file as well.
func New(level string, file *FileLogger) *slog.Logger {
	var w io.Writer = os.Stderr
	if file != nil {
		w = io.MultiWriter(os.Stderr, file)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}
