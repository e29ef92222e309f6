// Package util provides shared utility functions for logging, retries, and
// rate limiting.
package util

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps a level string to a slog.Level. Supported levels: "debug",
// "info", "warn", "error". Defaults to info if the string is not recognised.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured JSON logger writing to a rotating log file
// and stderr. Used by the one-shot CLIs where the terminal is free.
func NewLogger(level, file string) *slog.Logger {
	w := io.MultiWriter(os.Stderr, rotatingWriter(file))
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// NewFileLogger creates a structured JSON logger writing only to a rotating
// log file. The TUI owns the terminal, so nothing may write to stdout or
// stderr while it runs.
func NewFileLogger(level, file string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(rotatingWriter(file), &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

func rotatingWriter(file string) io.Writer {
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return os.Stderr
		}
	}
	return &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

// SetDefault configures the provided logger as the default slog logger.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
