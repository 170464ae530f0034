package crawler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"medley/internal/domain"
	"medley/internal/logger"
)

// Catalog is the subset of the catalog store the crawler needs.
type Catalog interface {
	InsertItemIfAbsent(rec domain.ItemRecord) (bool, error)
	ListItemsByRoot(root string) ([]domain.ItemRecord, error)
	DeleteItem(itemID string) error
	ItemsForBackfill(root string, force bool) ([]domain.ItemRecord, error)
	SetThumbnailRoute(itemID, route string) error
}

// Crawler keeps the item catalog in sync with library directories on disk.
type Crawler struct {
	catalog Catalog
	source  string
	log     logger.Logger
}

// New builds a crawler writing records for the given media source.
func New(catalog Catalog, source string, log logger.Logger) *Crawler {
	return &Crawler{catalog: catalog, source: source, log: log}
}

// ListItems returns the stored catalog records for a library directory.
func (c *Crawler) ListItems(baseDir string) ([]domain.ItemRecord, error) {
	absRoot, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	return c.catalog.ListItemsByRoot(absRoot)
}

// UpdateItemDatabase reconciles one library directory with the catalog.
//
// Records whose path has vanished from disk are evicted first, then every
// entry found on disk is inserted unless a row for its (root, relative path)
// already exists. Existing rows keep their stored state, so tag edits made
// after the first crawl survive re-crawls. Individual item failures are
// collected, not fatal.
func (c *Crawler) UpdateItemDatabase(ctx context.Context, baseDir string) (domain.CrawlSummary, error) {
	absRoot, err := filepath.Abs(baseDir)
	if err != nil {
		return domain.CrawlSummary{}, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	summary := domain.CrawlSummary{BaseDir: absRoot}

	if _, err := os.Stat(absRoot); err != nil {
		return summary, fmt.Errorf("%w: base directory unavailable: %v", domain.ErrFolderNotFound, err)
	}

	existing, err := c.catalog.ListItemsByRoot(absRoot)
	if err != nil {
		return summary, err
	}
	for _, rec := range existing {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if _, statErr := os.Stat(rec.AbsolutePath); statErr == nil {
			continue
		}
		if err := c.catalog.DeleteItem(rec.ItemID); err != nil {
			summary.Errors = append(summary.Errors, domain.ItemError{Path: rec.AbsolutePath, Err: err.Error()})
			continue
		}
		summary.Removed++
	}

	items, walkErrs, err := iterTaggedItems(absRoot)
	if err != nil {
		return summary, err
	}
	summary.Errors = append(summary.Errors, walkErrs...)
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Seen++
		rec := buildItemRecord(absRoot, it)
		inserted, err := c.catalog.InsertItemIfAbsent(rec)
		if err != nil {
			summary.Errors = append(summary.Errors, domain.ItemError{Path: it.absPath, Err: err.Error()})
			continue
		}
		if inserted {
			summary.Inserted++
		} else {
			summary.Skipped++
		}
	}

	c.log.Info("item database updated",
		logger.String("base_dir", absRoot),
		logger.Int("seen", summary.Seen),
		logger.Int("inserted", summary.Inserted),
		logger.Int("skipped", summary.Skipped),
		logger.Int("removed", summary.Removed),
		logger.Int("errors", len(summary.Errors)))

	return summary, nil
}
