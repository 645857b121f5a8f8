package maintenance

import (
	"context"
	"log/slog"
	"time"

	"railsetu/pkg/db"
	"railsetu/pkg/media"
	"railsetu/pkg/store"
)

const cacheMaxAge = 30 * 24 * time.Hour

// Run executes all maintenance tasks: cache pruning and orphaned media
// cleanup. It blocks until completion. Failures are logged but never stop
// startup.
func Run(ctx context.Context, s store.Store, d *db.DB, assets *media.Store) error {
	slog.Info("Starting database maintenance...")

	if err := d.PruneCache(cacheMaxAge); err != nil {
		slog.Error("Cache pruning failed", "error", err)
	} else {
		slog.Info("Cache pruning completed")
	}

	if err := cleanOrphanedMedia(ctx, s, assets); err != nil {
		slog.Error("Orphaned media cleanup failed", "error", err)
	}

	return nil
}

// cleanOrphanedMedia removes generated files no persisted record points
// to. Announcements can fail mid-pipeline and leave audio behind; this
// keeps the media root from growing without bound.
func cleanOrphanedMedia(ctx context.Context, s store.Store, assets *media.Store) error {
	paths, err := s.ListReferencedMedia(ctx)
	if err != nil {
		return err
	}

	referenced := make(map[string]bool, len(paths))
	for _, p := range paths {
		referenced[p] = true
	}

	removed, err := assets.CleanOrphans(referenced)
	if err != nil {
		return err
	}
	if removed > 0 {
		slog.Info("Orphaned media cleanup completed", "removed", removed, "referenced", len(referenced))
	}
	return nil
}
