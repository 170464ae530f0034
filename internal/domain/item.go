package domain

import "time"

// ItemType classifies a cataloged filesystem entry.
type ItemType string

const (
	ItemTypeFolder ItemType = "folder"
	ItemTypeImage  ItemType = "image"
	ItemTypeVideo  ItemType = "video"
	ItemTypeFile   ItemType = "file"
)

// ItemRecord is one entry of the persistent filesystem catalog.
//
// Identity is derived from (LibraryRoot, RelativePath) only: tags and file
// content do not participate, so re-tagging a folder after first discovery
// does not change an item's identity.
type ItemRecord struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ItemID is the content fingerprint of (LibraryRoot, RelativePath).
	ItemID string

	// RelativePath is slash-normalized, relative to LibraryRoot.
	RelativePath string

	// AbsolutePath is where the entry lived when it was observed.
	// It is NOT guaranteed to still exist; the crawler evicts records
	// whose path has vanished.
	AbsolutePath string

	// LibraryRoot is the absolute path of the crawled base directory.
	LibraryRoot string

	// ─────────────────────────────
	// Observation
	// ─────────────────────────────

	Name       string
	DataSource string // currently always "filesystem"
	ItemType   ItemType

	// Tags is the ordered stack of tag-directory names (marker stripped)
	// from the library root down to the item.
	Tags []string

	Ext       string
	MimeType  string
	SizeBytes int64

	// ─────────────────────────────
	// Enrichment (never clobbered by re-crawls)
	// ─────────────────────────────

	IsArchived     bool
	ThumbnailRoute string // lazily populated by the backfill pass

	// Reserved descriptive fields, currently always empty.
	Actors     []string
	Authors    []string
	FaceIDs    []string
	Region     string
	Rating     float64
	IsCensored bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DataSourceFilesystem is the only data source the crawler produces today.
const DataSourceFilesystem = "filesystem"

// ItemError records a single item's failure during a batch operation.
type ItemError struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// CrawlSummary is the result of one reconciliation run against a library.
type CrawlSummary struct {
	BaseDir  string      `json:"base_dir"`
	Seen     int         `json:"seen"`
	Inserted int         `json:"inserted"`
	Skipped  int         `json:"skipped"`
	Removed  int         `json:"removed"`
	Errors   []ItemError `json:"errors"`
}

// BackfillSummary is the result of one thumbnail backfill pass.
type BackfillSummary struct {
	BaseDir   string      `json:"base_dir"`
	Scanned   int         `json:"scanned"`
	Updated   int         `json:"updated"`
	Generated int         `json:"generated"`
	Errors    []ItemError `json:"errors"`
}
