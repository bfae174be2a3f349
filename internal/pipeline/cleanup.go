package pipeline

import (
	"context"
	"log/slog"

	"subextract/internal/fileutil"
	"subextract/internal/logging"
)

// removeBestEffort deletes path and discards any failure after a debug log.
func removeBestEffort(ctx context.Context, logger *slog.Logger, path string) {
	if path == "" {
		return
	}
	if err := fileutil.RemoveIfExists(path); err != nil {
		logging.WithContext(ctx, logger).Debug("cleanup skipped",
			logging.String("path", path),
			logging.Error(err),
		)
	}
}
