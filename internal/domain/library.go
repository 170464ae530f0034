package domain

// Library sources. External libraries are served through the
// /serve_image route; internal ones map straight onto static paths.
const (
	LibrarySourceInternal = "internal"
	LibrarySourceExternal = "external"
)

// Library is a configured filesystem root the crawler maintains a catalog
// for. Libraries come from the YAML definition file, not from the store.
type Library struct {
	Name   string
	Root   string
	Source string // "internal" | "external"
}

// BookmarkEntry is one row of a bookmark folder listing, ready for the web
// layer to render.
type BookmarkEntry struct {
	Name           string `json:"name"`
	URL            string `json:"url"`
	ThumbnailRoute string `json:"thumbnail_route"`
	MediaType      string `json:"media_type"` // "folder" | "bookmark"
	SubType        string `json:"sub_type,omitempty"`
	ChildCount     int    `json:"child_count,omitempty"`
}
