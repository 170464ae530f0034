package deps

import (
	"time"

	"medley/internal/crawler"
	"medley/internal/domain"
	"medley/internal/logger"
	"medley/internal/sources/chrome"
	"medley/internal/thumbcache"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed on admin endpoints
	AllowedCIDRS []string         // IPs allowed on admin endpoints
	TrustProxy   bool             // true when running behind a trusted reverse proxy

	Libraries       func() []domain.Library // current library set; swapped on reload
	ThumbnailDir    string                  // directory holding cached thumbnail files
	Crawler         *crawler.Crawler
	Thumbs          *thumbcache.Service
	BookmarkFile    string // path to Chrome's Bookmarks export
	BookmarkMapper  *chrome.Mapper
	CrawlTrigger    chan struct{} // kicks the crawl scheduler
	ReloadLibraries func() error  // re-reads the library definition file
}
