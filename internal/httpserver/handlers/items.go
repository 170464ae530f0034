package handlers

import (
	"net/http"
	"sort"
	"strings"

	"medley/internal/domain"
	"medley/internal/httpserver/deps"
	"medley/internal/mediapath"
)

type itemEntry struct {
	Name           string          `json:"name"`
	RelativePath   string          `json:"relative_path"`
	ItemType       domain.ItemType `json:"item_type"`
	Tags           []string        `json:"tags,omitempty"`
	Size           string          `json:"size,omitempty"`
	SizeBytes      int64           `json:"size_bytes,omitempty"`
	ThumbnailRoute string          `json:"thumbnail_route,omitempty"`
	URL            string          `json:"url"`
}

type itemListing struct {
	Library string      `json:"library"`
	Path    string      `json:"path,omitempty"`
	Items   []itemEntry `json:"items"`
}

// Items lists cataloged records for a library. ?dir= selects the library
// root; ?path= narrows to a relative subtree and is validated against
// traversal. Each entry carries the display URL for its type.
func Items(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		libraries, err := targetRoots(d, r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		rel, err := mediapath.SafeRelativePath(r.URL.Query().Get("path"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		listings := make([]itemListing, 0, len(libraries))
		for _, lib := range libraries {
			records, err := d.Crawler.ListItems(lib.Root)
			if err != nil {
				writeError(w, d.Logger, err)
				return
			}

			entries := make([]itemEntry, 0, len(records))
			for _, rec := range records {
				if rel != "" && rec.RelativePath != rel && !strings.HasPrefix(rec.RelativePath, rel+"/") {
					continue
				}
				entries = append(entries, toItemEntry(rec, lib.Source))
			}
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].RelativePath < entries[j].RelativePath
			})
			listings = append(listings, itemListing{
				Library: lib.Name,
				Path:    rel,
				Items:   entries,
			})
		}
		writeJSON(w, http.StatusOK, listings)
	}
}

func toItemEntry(rec domain.ItemRecord, src string) itemEntry {
	entry := itemEntry{
		Name:           rec.Name,
		RelativePath:   rec.RelativePath,
		ItemType:       rec.ItemType,
		Tags:           rec.Tags,
		SizeBytes:      rec.SizeBytes,
		ThumbnailRoute: rec.ThumbnailRoute,
	}
	if rec.SizeBytes > 0 {
		entry.Size = mediapath.HumanReadableSize(rec.SizeBytes)
	}

	switch rec.ItemType {
	case domain.ItemTypeFolder:
		entry.URL = mediapath.BuildFolderURL(rec.RelativePath, src)
	case domain.ItemTypeImage:
		entry.URL = mediapath.BuildImageURL(rec.RelativePath, src)
	case domain.ItemTypeVideo:
		entry.URL = mediapath.BuildVideoURL(rec.RelativePath, src)
	default:
		entry.URL = mediapath.BuildFileRoute(rec.AbsolutePath, src)
	}
	return entry
}
