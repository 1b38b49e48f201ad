// Package workspace prepares the on-disk layout the correction tool writes into.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
)

// Ensure creates dir and any missing parents. It reports whether the directory had to be created.
func Ensure(dir string, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		logger.Debug("Output directory exists", "dir", dir)
		return false, nil
	case err == nil:
		return false, fmt.Errorf("output path %s exists and is not a directory", dir)
	case !os.IsNotExist(err):
		return false, fmt.Errorf("failed to stat output directory %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	logger.Info("Output directory created", "dir", dir)
	return true, nil
}
