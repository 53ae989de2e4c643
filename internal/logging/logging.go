// Package logging configures the app-wide structured logger. Log output
// goes to a file in the config directory so it never corrupts the TUI.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a logger writing JSON lines to path. With debug false the
// logger discards everything below Info; a failure to open the file never
// fails the command, it just disables logging.
func New(path string, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
}
