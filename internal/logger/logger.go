// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger configures the process-wide slog logger. Diagnostics go to
// stderr so that stdout carries only conversion confirmations.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Setup installs a text handler writing to w at the given level as the
// default slog logger.
func Setup(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// ParseLevel converts a level name to slog.Level. Valid values: "debug",
// "info", "warn", "error". Unrecognized values default to warn.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
