package crawler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"medley/internal/domain"
	"medley/internal/logger"
	"medley/internal/mediapath"
)

// UpdateMissingThumbnails computes and stores thumbnail routes for cataloged
// entries under a library root. Without force only rows lacking a route are
// touched; with force every row is recomputed. Videos get a real frame
// extracted when ffmpeg is available, a placeholder otherwise.
func (c *Crawler) UpdateMissingThumbnails(ctx context.Context, baseDir string, force bool) (domain.BackfillSummary, error) {
	absRoot, err := filepath.Abs(baseDir)
	if err != nil {
		return domain.BackfillSummary{}, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	summary := domain.BackfillSummary{BaseDir: absRoot}

	items, err := c.catalog.ItemsForBackfill(absRoot, force)
	if err != nil {
		return summary, err
	}

	for _, rec := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Scanned++

		if _, statErr := os.Stat(rec.AbsolutePath); statErr != nil {
			summary.Errors = append(summary.Errors, domain.ItemError{Path: rec.AbsolutePath, Err: statErr.Error()})
			continue
		}

		route := c.thumbnailRoute(ctx, rec, &summary)
		if err := c.catalog.SetThumbnailRoute(rec.ItemID, route); err != nil {
			summary.Errors = append(summary.Errors, domain.ItemError{Path: rec.AbsolutePath, Err: err.Error()})
			continue
		}
		summary.Updated++
	}

	c.log.Info("thumbnail routes backfilled",
		logger.String("base_dir", absRoot),
		logger.Bool("force", force),
		logger.Int("scanned", summary.Scanned),
		logger.Int("updated", summary.Updated),
		logger.Int("generated", summary.Generated),
		logger.Int("errors", len(summary.Errors)))

	return summary, nil
}

func (c *Crawler) thumbnailRoute(ctx context.Context, rec domain.ItemRecord, summary *domain.BackfillSummary) string {
	switch rec.ItemType {
	case domain.ItemTypeFolder:
		return mediapath.FindDirectoryThumbnail(rec.AbsolutePath, c.source)
	case domain.ItemTypeImage:
		return mediapath.BuildFileRoute(rec.AbsolutePath, c.source)
	case domain.ItemTypeVideo:
		if thumbPath, ok := c.generateVideoThumbnail(ctx, rec.AbsolutePath); ok {
			summary.Generated++
			return mediapath.BuildFileRoute(thumbPath, c.source)
		}
		return mediapath.FindVideoThumbnail(rec.AbsolutePath, c.source)
	default:
		return mediapath.DefaultThumbnailRoute
	}
}
