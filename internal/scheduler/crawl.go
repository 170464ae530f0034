package scheduler

import (
	"context"
	"time"

	"medley/internal/crawler"
	"medley/internal/domain"
	"medley/internal/logger"
)

// CrawlScheduler periodically reconciles every configured library with the
// item catalog and backfills missing thumbnail routes.
type CrawlScheduler struct {
	crawler       *crawler.Crawler
	libraries     func() []domain.Library
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCrawlScheduler creates a new crawl scheduler. Libraries are read
// through a provider so an admin reload takes effect on the next run.
func NewCrawlScheduler(
	c *crawler.Crawler,
	libraries func() []domain.Library,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CrawlScheduler {
	return &CrawlScheduler{
		crawler:       c,
		libraries:     libraries,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs an immediate crawl, then keeps crawling on the configured
// interval. Per-library failures are logged, never fatal: one offline
// mount must not stall the others.
func (cs *CrawlScheduler) Start(ctx context.Context) error {
	cs.runAll(ctx)

	ticker := time.NewTicker(cs.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cs.runAll(ctx)
			case <-cs.manualTrigger:
				cs.logger.Info("manual crawl triggered")
				cs.runAll(ctx)
			case <-cs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the scheduler.
func (cs *CrawlScheduler) Stop() {
	close(cs.stopCh)
}

func (cs *CrawlScheduler) runAll(ctx context.Context) {
	for _, lib := range cs.libraries() {
		if ctx.Err() != nil {
			return
		}
		if _, err := cs.crawler.UpdateItemDatabase(ctx, lib.Root); err != nil {
			cs.logger.Error("library crawl failed",
				logger.String("library", lib.Name),
				logger.String("root", lib.Root),
				logger.Error(err))
			continue
		}
		if _, err := cs.crawler.UpdateMissingThumbnails(ctx, lib.Root, false); err != nil {
			cs.logger.Error("thumbnail backfill failed",
				logger.String("library", lib.Name),
				logger.String("root", lib.Root),
				logger.Error(err))
		}
	}
}
