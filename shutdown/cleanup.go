// Package shutdown coordinates signal handling and ordered cleanup at the
// end of a run.
//
// cleanup.go builds the temp artifact sweep. The downloader writes every
// image to a temp_-prefixed file before renaming it into place, so
// anything still matching temp_* after the run is an aborted download.
package shutdown

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/LinkuDev/dreamina/logging"
)

// SweepTempArtifacts returns a cleanup that removes temp_ files left under
// the output root, at the root itself and one level down where the
// per-prompt artifact directories live.
//
// The sweep never blocks shutdown: listing and removal failures are logged
// and the cleanup still returns nil.
func SweepTempArtifacts(logger *logging.Logger, outputRoot string) CleanupFunc {
	return func(ctx context.Context) error {
		return sweepTempFiles(ctx, logger.Named("sweep"), outputRoot)
	}
}

func sweepTempFiles(ctx context.Context, logger *logging.Logger, outputRoot string) error {
	patterns := []string{
		filepath.Join(outputRoot, "temp_*"),
		filepath.Join(outputRoot, "*", "temp_*"),
	}

	var matches []string
	for _, pattern := range patterns {
		found, err := filepath.Glob(pattern)
		if err != nil {
			logger.Error("Failed to list temp artifacts",
				zap.String("pattern", pattern),
				zap.Error(err),
			)
			return nil
		}
		matches = append(matches, found...)
	}

	if len(matches) == 0 {
		logger.Debug("No temp artifacts to sweep")
		return nil
	}

	logger.Info("Sweeping temp artifacts", zap.Int("file_count", len(matches)))

	removed, failed := 0, 0
	for _, match := range matches {
		select {
		case <-ctx.Done():
			logger.Warn("Sweep cut short by shutdown deadline",
				zap.Int("removed", removed),
				zap.Int("remaining", len(matches)-removed-failed),
			)
			return nil
		default:
		}

		if err := os.Remove(match); err != nil {
			failed++
			logger.Warn("Failed to remove temp artifact",
				zap.String("file", filepath.Base(match)),
				zap.Error(err),
			)
		} else {
			removed++
			logger.Debug("Removed temp artifact",
				zap.String("file", filepath.Base(match)),
			)
		}
	}

	logger.Info("Temp artifact sweep complete",
		zap.Int("removed", removed),
		zap.Int("failed", failed),
	)
	return nil
}
