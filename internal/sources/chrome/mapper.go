package chrome

import (
	"context"
	"strings"

	"medley/internal/domain"
	"medley/internal/logger"
	"medley/internal/mediapath"
)

// Thumbnailer resolves thumbnails for bookmark URLs.
type Thumbnailer interface {
	CacheBookmarkThumbnail(ctx context.Context, url, title string, meta map[string]string) (route, subType string, err error)
}

// Mapper converts bookmark folder nodes to browsable listings.
type Mapper struct {
	thumbs Thumbnailer
	log    logger.Logger
}

// NewMapper creates a new bookmark mapper.
func NewMapper(thumbs Thumbnailer, log logger.Logger) *Mapper {
	return &Mapper{thumbs: thumbs, log: log}
}

// MapFolder converts a folder node's children to listing entries. folderPath
// is the resolved path of the folder itself ([rootName, childID...]); child
// folders extend it by their ID. trail carries the display names down to the
// folder and is recorded as metadata on each registered bookmark. Thumbnail
// failures fall back to the generic placeholder so one dead link never
// breaks a listing.
func (m *Mapper) MapFolder(ctx context.Context, folder *Node, folderPath, trail []string) []domain.BookmarkEntry {
	meta := map[string]string{"folder_path": strings.Join(trail, " / ")}
	entries := make([]domain.BookmarkEntry, 0, len(folder.Children))
	for _, child := range folder.Children {
		switch child.Type {
		case nodeTypeFolder:
			entries = append(entries, domain.BookmarkEntry{
				Name:           child.Name,
				URL:            folderURL(folderPath, child.ID),
				ThumbnailRoute: mediapath.DefaultThumbnailRoute,
				MediaType:      "folder",
				ChildCount:     len(child.Children),
			})
		case nodeTypeURL:
			route, subType, err := m.thumbs.CacheBookmarkThumbnail(ctx, child.URL, child.Name, meta)
			if err != nil {
				m.log.Warn("bookmark thumbnail failed",
					logger.String("url", child.URL),
					logger.Error(err))
			}
			if route == "" {
				route = mediapath.DefaultThumbnailRoute
			}
			entries = append(entries, domain.BookmarkEntry{
				Name:           child.Name,
				URL:            child.URL,
				ThumbnailRoute: route,
				MediaType:      "bookmark",
				SubType:        subType,
			})
		}
	}
	return entries
}

func folderURL(folderPath []string, childID string) string {
	segments := folderPath
	if len(segments) == 0 {
		segments = []string{defaultRoot}
	}
	return "/bookmarks/" + strings.Join(append(append([]string{}, segments...), childID), "/")
}
