package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"medley/internal/domain"
	"medley/internal/logger"
)

const (
	// DefaultSweepOrphanAge is how long an unreferenced file in the
	// thumbnail directory survives before the sweeper removes it.
	DefaultSweepOrphanAge = 24 * time.Hour
)

// thumbnailLister is the subset of the cache store the sweeper needs.
type thumbnailLister interface {
	ListThumbnails() ([]domain.Thumbnail, error)
	DeleteThumbnail(mediaID string) error
}

// ThumbnailSweeper reconciles the thumbnail directory with the cache store:
// rows whose file vanished are evicted, and files no row references are
// removed once they are old enough.
type ThumbnailSweeper struct {
	store     thumbnailLister
	thumbDir  string
	logger    logger.Logger
	interval  time.Duration
	orphanAge time.Duration
	stopCh    chan struct{}
}

// NewThumbnailSweeper creates a new sweeper for the given directory.
func NewThumbnailSweeper(
	store thumbnailLister,
	thumbDir string,
	log logger.Logger,
	interval time.Duration,
	orphanAge time.Duration,
) *ThumbnailSweeper {
	if orphanAge <= 0 {
		orphanAge = DefaultSweepOrphanAge
	}
	return &ThumbnailSweeper{
		store:     store,
		thumbDir:  thumbDir,
		logger:    log,
		interval:  interval,
		orphanAge: orphanAge,
		stopCh:    make(chan struct{}),
	}
}

// Start begins periodic sweeping.
func (ts *ThumbnailSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(ts.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ts.Sweep(); err != nil {
					ts.logger.Error("thumbnail sweep failed", logger.Error(err))
				}
			case <-ts.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweeper.
func (ts *ThumbnailSweeper) Stop() {
	close(ts.stopCh)
}

// Sweep runs one reconciliation pass.
func (ts *ThumbnailSweeper) Sweep() error {
	rows, err := ts.store.ListThumbnails()
	if err != nil {
		return err
	}

	referenced := make(map[string]bool, len(rows))
	var evicted int
	for _, row := range rows {
		if _, err := os.Stat(row.LocalPath); err == nil {
			referenced[filepath.Base(row.LocalPath)] = true
			continue
		}
		if err := ts.store.DeleteThumbnail(row.MediaID); err != nil {
			ts.logger.Warn("failed to evict stale thumbnail row",
				logger.String("media_id", row.MediaID),
				logger.Error(err))
			continue
		}
		evicted++
	}

	entries, err := os.ReadDir(ts.thumbDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-ts.orphanAge)
	var removed int
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(ts.thumbDir, entry.Name())); err != nil {
			ts.logger.Warn("failed to remove orphaned thumbnail",
				logger.String("file", entry.Name()),
				logger.Error(err))
			continue
		}
		removed++
	}

	if evicted > 0 || removed > 0 {
		ts.logger.Info("thumbnail sweep completed",
			logger.Int("evicted_rows", evicted),
			logger.Int("removed_files", removed))
	}
	return nil
}
