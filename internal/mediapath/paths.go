// Package mediapath holds the pure path, URL, and media-type helpers shared
// by the crawler, the thumbnail cache, and the web layer.
package mediapath

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"medley/internal/domain"
)

// Placeholder routes served by the web layer when no real thumbnail exists.
const (
	DefaultThumbnailRoute      = "/static/default_thumbnail.svg"
	DefaultVideoThumbnailRoute = "/static/default_video_thumbnail.svg"

	// ServeImagePrefix is the route prefix mapping back to absolute
	// filesystem paths for external-source files.
	ServeImagePrefix = "/serve_image"
)

// imageExtOrder fixes the probe order for thumbnail candidates, so sibling
// lookups are deterministic.
var imageExtOrder = []string{"jpg", "jpeg", "png", "gif", "webp"}

var imageExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true,
}

var videoExts = map[string]bool{
	"mp4": true, "mov": true, "avi": true, "mkv": true, "webm": true, "m4v": true,
}

// NormalizeSource collapses any source label to "internal" unless it is
// exactly "external".
func NormalizeSource(src string) string {
	if src == domain.LibrarySourceExternal {
		return domain.LibrarySourceExternal
	}
	return domain.LibrarySourceInternal
}

// NormalizeSlashes converts Windows path separators to forward slashes.
func NormalizeSlashes(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

func extOf(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// IsImageFile reports whether the filename's extension is a known image type.
func IsImageFile(name string) bool {
	return imageExts[extOf(name)]
}

// IsVideoFile reports whether the filename's extension is a known video type.
func IsVideoFile(name string) bool {
	return videoExts[extOf(name)]
}

// SafeRelativePath validates a caller-supplied relative path fragment.
// Absolute paths and anything that normalizes above the root are rejected
// with domain.ErrAccessDenied. This guards every filesystem read built from
// request input, so it must stay strict.
func SafeRelativePath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if filepath.IsAbs(p) || strings.HasPrefix(NormalizeSlashes(p), "/") {
		return "", fmt.Errorf("%w: absolute paths are not allowed: %s", domain.ErrAccessDenied, p)
	}
	normalized := path.Clean(NormalizeSlashes(p))
	if normalized == ".." || strings.HasPrefix(normalized, "../") {
		return "", fmt.Errorf("%w: path escapes base directory: %s", domain.ErrAccessDenied, p)
	}
	if normalized == "." {
		return "", nil
	}
	return normalized, nil
}

// escapePath percent-encodes each path segment, keeping the separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// BuildFileRoute produces the served-file route for an absolute path. The
// web layer resolves external routes back to disk under /serve_image.
func BuildFileRoute(absPath, src string) string {
	escaped := escapePath(NormalizeSlashes(absPath))
	if NormalizeSource(src) == domain.LibrarySourceExternal {
		return ServeImagePrefix + escaped
	}
	return escaped
}

// BuildImageURL produces the image detail page URL for a relative path.
func BuildImageURL(relPath, src string) string {
	normalizedSrc := NormalizeSource(src)
	escaped := escapePath(NormalizeSlashes(relPath))
	query := "?src=" + normalizedSrc
	if escaped != "" {
		return "/image/" + escaped + query
	}
	return "/image/" + query
}

// BuildFolderURL produces the folder listing URL for a relative path.
func BuildFolderURL(relPath, src string) string {
	normalizedSrc := NormalizeSource(src)
	escaped := escapePath(NormalizeSlashes(relPath))

	if normalizedSrc == domain.LibrarySourceExternal {
		if escaped != "" {
			return "/both/" + escaped
		}
		return "/"
	}

	if escaped != "" {
		return "/both/" + escaped + "/?src=internal"
	}
	return "/?src=internal"
}

// BuildVideoURL produces the video detail page URL for a relative path.
func BuildVideoURL(relPath, src string) string {
	escaped := escapePath(NormalizeSlashes(relPath))
	return "/video/" + escaped + "?src=" + NormalizeSource(src)
}

// HumanReadableSize renders a byte count with a binary unit suffix.
func HumanReadableSize(numBytes int64) string {
	if numBytes < 1024 {
		return fmt.Sprintf("%d B", numBytes)
	}
	size := float64(numBytes)
	units := []string{"KB", "MB", "GB", "TB", "PB"}
	for _, unit := range units {
		size /= 1024.0
		if size < 1024.0 || unit == units[len(units)-1] {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
	}
	return fmt.Sprintf("%.2f PB", size)
}
