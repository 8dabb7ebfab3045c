package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// setupLogging installs the default slog logger. Logs go to stderr, keeping
// stdout for the keybind table, or are appended to logPath when set.
//
// Parameters:
//   - logPath: Optional log file path.
//   - verbose: Enables debug records.
//
// Returns:
//   - *os.File: The opened log file the caller must close, nil for stderr.
//   - error: Non-nil if the log file cannot be created.
func setupLogging(logPath string, verbose bool) (*os.File, error) {
	var logFile *os.File
	var w io.Writer = os.Stderr

	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(logPath), err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		logFile = f
		w = f
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return logFile, nil
}
