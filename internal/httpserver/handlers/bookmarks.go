package handlers

import (
	"net/http"
	"strings"

	"medley/internal/domain"
	"medley/internal/httpserver/deps"
	"medley/internal/sources/chrome"
)

type bookmarkListing struct {
	Path    []string               `json:"path"`
	Name    string                 `json:"name"`
	Entries []domain.BookmarkEntry `json:"entries"`
}

// Bookmarks lists a folder of the Chrome bookmark export. The path after
// /bookmarks/ names a root and a chain of folder IDs; empty means the
// bookmark bar. The export file is re-read on every request since Chrome
// rewrites it behind our back.
func Bookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, err := chrome.NewLoader(d.BookmarkFile).Load()
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		path := splitBookmarkPath(r.URL.Path)
		folder, trail, err := file.FindFolder(path)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		entries := d.BookmarkMapper.MapFolder(r.Context(), folder, path, trail)
		writeJSON(w, http.StatusOK, bookmarkListing{
			Path:    path,
			Name:    folder.Name,
			Entries: entries,
		})
	}
}

func splitBookmarkPath(urlPath string) []string {
	rest := strings.TrimPrefix(urlPath, "/bookmarks")
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}
