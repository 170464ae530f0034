package chrome

// Node is one entry of the Chrome bookmark export tree.
type Node struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"` // "url" | "folder"
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Children []*Node `json:"children"`
}

// ExportFile is the root structure of Chrome's Bookmarks file. The roots
// map carries the fixed top-level folders: bookmark_bar, other, synced.
type ExportFile struct {
	Roots map[string]*Node `json:"roots"`
}

const (
	nodeTypeURL    = "url"
	nodeTypeFolder = "folder"

	// defaultRoot is the folder shown when no path is given.
	defaultRoot = "bookmark_bar"
)
