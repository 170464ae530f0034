package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"medley/internal/domain"
	"medley/internal/httpserver/deps"
	"medley/internal/mediapath"
)

// ServeImage resolves a /serve_image/* route back to a file on disk.
//
// Two shapes are accepted: a bare file name addressing the thumbnail
// directory, and an absolute path addressing library content. Everything
// else, escapes via dot-dot included, is access denied. Only files inside
// the thumbnail directory or a configured library root are ever served.
func ServeImage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.URL.EscapedPath(), mediapath.ServeImagePrefix)
		raw = strings.TrimPrefix(raw, "/")
		reqPath, err := url.PathUnescape(raw)
		if err != nil || reqPath == "" {
			writeError(w, d.Logger, fmt.Errorf("%w: malformed image path", domain.ErrMediaNotFound))
			return
		}

		// Cached thumbnails address the thumbnail directory by file name.
		if !strings.Contains(reqPath, "/") {
			local := filepath.Join(d.ThumbnailDir, reqPath)
			if !withinDir(d.ThumbnailDir, local) {
				writeError(w, d.Logger, fmt.Errorf("%w: path escapes thumbnail directory", domain.ErrAccessDenied))
				return
			}
			if _, err := os.Stat(local); err != nil {
				writeError(w, d.Logger, fmt.Errorf("%w: %s", domain.ErrMediaNotFound, reqPath))
				return
			}
			http.ServeFile(w, r, local)
			return
		}

		abs := filepath.Clean("/" + filepath.FromSlash(reqPath))
		for _, lib := range d.Libraries() {
			if withinDir(lib.Root, abs) {
				if _, err := os.Stat(abs); err != nil {
					writeError(w, d.Logger, fmt.Errorf("%w: %s", domain.ErrMediaNotFound, reqPath))
					return
				}
				http.ServeFile(w, r, abs)
				return
			}
		}
		writeError(w, d.Logger, fmt.Errorf("%w: path outside configured libraries", domain.ErrAccessDenied))
	}
}

// withinDir reports whether target sits inside base after cleaning.
func withinDir(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)
	if target == base {
		return true
	}
	return strings.HasPrefix(target, base+string(filepath.Separator))
}
