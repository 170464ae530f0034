package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataDir      string // root for the stores and the thumbnail files (default: "data")
	LibraryFile  string // path to the libraries.yaml definition file
	BookmarkFile string // path to the browser bookmark export (platform default when unset)

	SpecialThumbDomains []string      // domains resolved via og:image scraping (empty = none)
	PageFetchTimeout    time.Duration // page fetch for og:image discovery (default: 6s)
	ImageFetchTimeout   time.Duration // thumbnail image download (default: 8s)

	CrawlInterval  time.Duration // interval between catalog reconciliation runs (default: 24h)
	SweepInterval  time.Duration // interval between thumbnail cache sweeps (default: 24h)
	SweepOrphanAge time.Duration // age before an unreferenced blob file is removed (default: 24h)

	AllowedHosts []string // optional, restrict admin routes to specific Host headers
	AllowedCIDRS []string // optional, restrict admin routes to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MEDLEY_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MEDLEY_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MEDLEY_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MEDLEY_PRETTY_LOG", true),

		// Content sources
		DataDir:      getenv("MEDLEY_DATA_DIR", "data"),
		LibraryFile:  getenv("MEDLEY_LIBRARY_FILE", "libraries.yaml"),
		BookmarkFile: getenv("MEDLEY_BOOKMARK_FILE", defaultBookmarkPath()),

		// Thumbnail fetching
		SpecialThumbDomains: splitAndTrim(getenv("MEDLEY_SPECIAL_THUMB_DOMAINS", "")),
		PageFetchTimeout:    mustDuration("MEDLEY_PAGE_FETCH_TIMEOUT", 6*time.Second),
		ImageFetchTimeout:   mustDuration("MEDLEY_IMAGE_FETCH_TIMEOUT", 8*time.Second),

		// Maintenance
		CrawlInterval:  mustDuration("MEDLEY_CRAWL_INTERVAL", 24*time.Hour),
		SweepInterval:  mustDuration("MEDLEY_SWEEP_INTERVAL", 24*time.Hour),
		SweepOrphanAge: mustDuration("MEDLEY_SWEEP_ORPHAN_AGE", 24*time.Hour),

		// Access restrictions for admin routes
		AllowedHosts: splitAndTrim(getenv("MEDLEY_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("MEDLEY_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("MEDLEY_TRUST_PROXY", false),
	}

	// Log config only in debug mode
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", *cfg)
	}

	return cfg
}

// CacheDBPath is the SQLite file backing the thumbnail cache store.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

// CatalogDBPath is the SQLite file backing the item catalog store.
func (c *Config) CatalogDBPath() string {
	return filepath.Join(c.DataDir, "item_db.db")
}

// ThumbnailDir is where fetched thumbnail blobs are written.
func (c *Config) ThumbnailDir() string {
	return filepath.Join(c.DataDir, "thumbnails")
}

// defaultBookmarkPath returns the platform-default Chrome bookmark export
// location. The file may not exist; the bookmark routes report that lazily.
func defaultBookmarkPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "Google", "Chrome", "User Data", "Default", "Bookmarks")
		}
		return filepath.Join(home, "AppData", "Local", "Google", "Chrome", "User Data", "Default", "Bookmarks")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default", "Bookmarks")
	default:
		return filepath.Join(home, ".config", "google-chrome", "Default", "Bookmarks")
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
