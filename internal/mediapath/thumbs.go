package mediapath

import (
	"os"
	"path/filepath"
	"strings"
)

// FindVideoThumbnail probes sibling filenames for a still image paired with
// the video: <stem>_thumbnail.<ext> first, then <stem>.<ext>, for every
// known image extension in fixed order. Returns the video placeholder route
// when nothing matches on disk.
func FindVideoThumbnail(absVideoPath, src string) string {
	stem := strings.TrimSuffix(absVideoPath, filepath.Ext(absVideoPath))

	candidates := make([]string, 0, len(imageExtOrder)*2)
	for _, ext := range imageExtOrder {
		candidates = append(candidates, stem+"_thumbnail."+ext)
		candidates = append(candidates, stem+"."+ext)
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return BuildFileRoute(candidate, src)
		}
	}

	return DefaultVideoThumbnailRoute
}

// FindDirectoryThumbnail walks the folder's subtree in filename-sorted
// order and returns the first image's route, or the first video's own
// thumbnail if a video is met before any image. Files in a directory are
// considered before its subdirectories. Empty subtrees get the generic
// placeholder.
func FindDirectoryThumbnail(absFolderPath, src string) string {
	if route, ok := searchDirectoryThumbnail(absFolderPath, src); ok {
		return route
	}
	return DefaultThumbnailRoute
}

func searchDirectoryThumbnail(dir, src string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	// os.ReadDir returns entries sorted by filename.
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		absPath := filepath.Join(dir, name)
		if IsImageFile(name) {
			return BuildFileRoute(absPath, src), true
		}
		if IsVideoFile(name) {
			// The video's own fallback (possibly the video placeholder)
			// is the answer for the whole folder.
			return FindVideoThumbnail(absPath, src), true
		}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if route, ok := searchDirectoryThumbnail(filepath.Join(dir, entry.Name()), src); ok {
			return route, true
		}
	}

	return "", false
}
