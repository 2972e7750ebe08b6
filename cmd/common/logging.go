package common

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// SetupFileLogging points the default slog logger at path, appending.
// Commands that own the terminal log only to the file. The returned func closes it.
func SetupFileLogging(path string, verbose bool) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return logFile.Close, nil
}
