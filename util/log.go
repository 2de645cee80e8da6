package util

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a text logger writing to w (stderr when nil).
// Verbose enables debug records, the per step observations and actions.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
