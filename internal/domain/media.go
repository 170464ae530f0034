package domain

import "time"

// Sources and types recorded on cache entries.
const (
	SourceBookmark = "bookmark"

	MediaTypeBookmark = "bookmark"

	SubTypeYouTube = "youtube"
	SubTypeSpecial = "special"
)

// MediaItem is a registered external resource in the thumbnail cache store.
//
// A MediaItem is upserted on every cache lookup attempt, before any network
// fetch happens and regardless of its outcome, so the store always records
// that a resource was seen.
type MediaItem struct {
	// ID is the content fingerprint: a deterministic hash of
	// (Source, identifier) where identifier = OriginalURL or Title or
	// "bookmark". Same inputs always yield the same ID.
	ID string

	// Source indicates where the resource came from ("bookmark" today).
	Source string

	OriginalURL string
	Title       string
	MediaType   string

	// SubType refines MediaType: "youtube", "special", or empty while
	// unresolved.
	SubType string

	// Metadata is the only genuinely opaque payload; everything else is
	// a named field.
	Metadata map[string]string

	UpdatedAt time.Time
}

// Thumbnail is the blob-location record paired 1:1 with a MediaItem.
//
// LocalPath is not guaranteed to still exist on disk: every read must stat
// the file and treat absence as a cache miss, never as an error.
type Thumbnail struct {
	MediaID   string
	LocalPath string
	FetchedAt time.Time

	// Source is a provenance label ("youtube", "special", "bookmark").
	Source string
}
