// Package logger builds the process logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns a text logger on stderr at the given level. Reports go to
// files; logs stay on stderr so they never mix.
func New(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
