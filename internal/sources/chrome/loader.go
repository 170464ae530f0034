// Package chrome reads Chrome's Bookmarks export file and maps its folders
// into browsable listings with cached thumbnails.
package chrome

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"medley/internal/domain"
)

// Loader handles loading and parsing of Chrome's Bookmarks JSON file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for the given Bookmarks file.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the Bookmarks file. The file belongs to the
// browser, not to us, so both absence and corruption are reported as
// typed errors the web layer can map to a status.
func (l *Loader) Load() (*ExportFile, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: bookmark file %s", domain.ErrBookmarkNotFound, l.filePath)
		}
		return nil, fmt.Errorf("failed to read bookmark file: %w", err)
	}

	var file ExportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: unparseable bookmark file: %v", domain.ErrExternalService, err)
	}
	return &file, nil
}

// FindFolder resolves a folder path of the form [rootName, childID...]
// and returns the folder together with the display names leading to it,
// the folder's own name included. An empty path means the bookmark bar.
// Unknown roots or IDs yield a not-found error.
func (f *ExportFile) FindFolder(path []string) (*Node, []string, error) {
	rootName := defaultRoot
	rest := path
	if len(path) > 0 {
		rootName = path[0]
		rest = path[1:]
	}

	current, ok := f.Roots[rootName]
	if !ok || current == nil {
		return nil, nil, fmt.Errorf("%w: unknown bookmark root %q", domain.ErrBookmarkNotFound, rootName)
	}
	trail := []string{current.Name}

	for _, id := range rest {
		var next *Node
		for _, child := range current.Children {
			if child.ID == id && child.Type == nodeTypeFolder {
				next = child
				break
			}
		}
		if next == nil {
			return nil, nil, fmt.Errorf("%w: no folder %q under %q", domain.ErrBookmarkNotFound, id, current.Name)
		}
		current = next
		trail = append(trail, current.Name)
	}
	return current, trail, nil
}
