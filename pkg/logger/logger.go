// Package logger builds the process-wide *slog.Logger from the logging
// section of the config: level, text or JSON, and an optional rotated file
// alongside stderr.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions enables a rotated log file. A zero Path disables file output.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New creates a *slog.Logger writing to stderr.
// Level: "debug", "info", "warn", "error" (default: "info").
// Format: "json" or "text" (default: "text").
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithFile creates a logger that writes to stderr and, when fo.Path is
// set, to a lumberjack-rotated file. The returned closer is nil when no file
// is configured.
func NewWithFile(level, format string, fo FileOptions) (*slog.Logger, io.Closer) {
	if fo.Path == "" {
		return New(level, format), nil
	}

	lj := &lumberjack.Logger{
		Filename:   fo.Path,
		MaxSize:    positiveOr(fo.MaxSizeMB, 100),
		MaxBackups: positiveOr(fo.MaxBackups, 3),
		MaxAge:     positiveOr(fo.MaxAgeDays, 30),
	}

	return NewWithWriter(io.MultiWriter(os.Stderr, lj), level, format), lj
}

// NewWithWriter creates a *slog.Logger writing to w.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts a level string to slog.Level. Unknown values map to
// LevelInfo.
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

// ValidLevel reports whether s is a recognized level name.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
