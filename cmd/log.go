package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger creates a charmbracelet logger with short timestamps
// (e.g. "14:32:01.45") that filters below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// installLogger routes log/slog through the charmbracelet handler.
func installLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := slog.New(newLogger(w, level))
	slog.SetDefault(logger)
	return logger
}
