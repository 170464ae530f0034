package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"medley/internal/config"
	"medley/internal/crawler"
	"medley/internal/domain"
	"medley/internal/httpserver"
	"medley/internal/httpserver/deps"
	"medley/internal/logger"
	"medley/internal/scheduler"
	"medley/internal/sources/chrome"
	"medley/internal/sources/librarydef"
	"medley/internal/store/sqlite"
	"medley/internal/thumbcache"
	"medley/internal/version"
)

// libraryHolder keeps the current library set swappable under reload.
type libraryHolder struct {
	mu        sync.RWMutex
	libraries []domain.Library
}

func (h *libraryHolder) get() []domain.Library {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.libraries
}

func (h *libraryHolder) set(libs []domain.Library) {
	h.mu.Lock()
	h.libraries = libs
	h.mu.Unlock()
}

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	cacheStore *sqlite.CacheStore
	catalog    *sqlite.CatalogStore
	crawlSched *scheduler.CrawlScheduler
	sweeper    *scheduler.ThumbnailSweeper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open both stores early - fail fast if the data directory is unusable
	cacheStore, err := sqlite.OpenCacheStore(cfg.CacheDBPath())
	if err != nil {
		loggerClient.Errorf("Failed to open thumbnail cache store: %v", err)
		os.Exit(1)
	}
	catalog, err := sqlite.OpenCatalogStore(cfg.CatalogDBPath())
	if err != nil {
		loggerClient.Errorf("Failed to open item catalog store: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("stores initialized",
		logger.String("cache_db", cfg.CacheDBPath()),
		logger.String("catalog_db", cfg.CatalogDBPath()))

	// Load the library definitions; a missing file is not fatal, the
	// admin reload endpoint can bring libraries online later.
	holder := &libraryHolder{}
	if libs, err := librarydef.LoadLibraries(cfg.LibraryFile, loggerClient); err != nil {
		loggerClient.Warn("library definition file unavailable, starting without libraries",
			logger.String("file", cfg.LibraryFile),
			logger.Error(err))
	} else {
		holder.set(libs)
		loggerClient.Info("libraries loaded", logger.Int("count", len(libs)))
	}

	thumbs := thumbcache.New(
		cacheStore,
		cfg.ThumbnailDir(),
		cfg.SpecialThumbDomains,
		cfg.PageFetchTimeout,
		cfg.ImageFetchTimeout,
		loggerClient,
	)

	crawl := crawler.New(catalog, domain.LibrarySourceExternal, loggerClient)

	crawlTrigger := make(chan struct{}, 1)
	crawlSched := scheduler.NewCrawlScheduler(
		crawl,
		holder.get,
		loggerClient,
		cfg.CrawlInterval,
		crawlTrigger,
	)

	sweeper := scheduler.NewThumbnailSweeper(
		cacheStore,
		cfg.ThumbnailDir(),
		loggerClient,
		cfg.SweepInterval,
		cfg.SweepOrphanAge,
	)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		Libraries:      holder.get,
		ThumbnailDir:   cfg.ThumbnailDir(),
		Crawler:        crawl,
		Thumbs:         thumbs,
		BookmarkFile:   cfg.BookmarkFile,
		BookmarkMapper: chrome.NewMapper(thumbs, loggerClient),
		CrawlTrigger:   crawlTrigger,
		ReloadLibraries: func() error {
			libs, err := librarydef.LoadLibraries(cfg.LibraryFile, loggerClient)
			if err != nil {
				return err
			}
			holder.set(libs)
			loggerClient.Info("libraries reloaded", logger.Int("count", len(libs)))
			return nil
		},
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		server:     server,
		cacheStore: cacheStore,
		catalog:    catalog,
		crawlSched: crawlSched,
		sweeper:    sweeper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Medley v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Medley %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.crawlSched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start crawl scheduler: %w", err)
	}
	a.logger.Info("crawl scheduler started",
		logger.Duration("interval", a.cfg.CrawlInterval))

	a.sweeper.Start(ctx)
	a.logger.Info("thumbnail sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.crawlSched.Stop()
	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.cacheStore.Close(); err != nil {
		a.logger.Warnf("failed to close cache store: %v", err)
	}
	if err := a.catalog.Close(); err != nil {
		a.logger.Warnf("failed to close catalog store: %v", err)
	}

	a.logger.Info("✅ Medley stopped cleanly")
	return nil
}
