package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"medley/internal/crawler"
	"medley/internal/domain"
	"medley/internal/httpserver/deps"
	"medley/internal/logger"
	"medley/internal/mediapath"
	"medley/internal/sources/chrome"
	"medley/internal/store/sqlite"
)

type stubThumbnailer struct{}

func (stubThumbnailer) CacheBookmarkThumbnail(context.Context, string, string, map[string]string) (string, string, error) {
	return "", "", nil
}

func testDeps(t *testing.T) (deps.Deps, string, string) {
	t.Helper()
	base := t.TempDir()
	thumbDir := filepath.Join(base, "thumbnails")
	libRoot := filepath.Join(base, "library")
	for _, dir := range []string{thumbDir, libRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	log := logger.New("error", false)
	return deps.Deps{
		Logger:       log,
		StartTime:    time.Now(),
		TimeNow:      time.Now,
		ThumbnailDir: thumbDir,
		Libraries: func() []domain.Library {
			return []domain.Library{{Name: "Test", Root: libRoot, Source: domain.LibrarySourceExternal}}
		},
		BookmarkMapper: chrome.NewMapper(stubThumbnailer{}, log),
	}, thumbDir, libRoot
}

func TestServeImageThumbnailByName(t *testing.T) {
	d, thumbDir, _ := testDeps(t)
	if err := os.WriteFile(filepath.Join(thumbDir, "abc.jpg"), []byte("img"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/serve_image/abc.jpg", nil)
	rec := httptest.NewRecorder()
	ServeImage(d)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "img" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestServeImageLibraryFile(t *testing.T) {
	d, _, libRoot := testDeps(t)
	abs := filepath.Join(libRoot, "pic with space.jpg")
	if err := os.WriteFile(abs, []byte("pic"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	route := mediapath.BuildFileRoute(abs, domain.LibrarySourceExternal)
	req := httptest.NewRequest(http.MethodGet, route, nil)
	rec := httptest.NewRecorder()
	ServeImage(d)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for %q, got %d", route, rec.Code)
	}
}

func TestServeImageOutsideLibrariesDenied(t *testing.T) {
	d, _, _ := testDeps(t)

	req := httptest.NewRequest(http.MethodGet, "/serve_image/etc/passwd", nil)
	rec := httptest.NewRecorder()
	ServeImage(d)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestServeImageTraversalDenied(t *testing.T) {
	d, _, libRoot := testDeps(t)

	escaped := url.PathEscape("..")
	target := "/serve_image" + mediapath.NormalizeSlashes(libRoot) + "/" + escaped + "/" + escaped + "/secret"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	ServeImage(d)(rec, req)

	if rec.Code != http.StatusForbidden && rec.Code != http.StatusNotFound {
		t.Fatalf("expected rejection, got %d", rec.Code)
	}
}

func TestServeImageMissingFile(t *testing.T) {
	d, _, _ := testDeps(t)

	req := httptest.NewRequest(http.MethodGet, "/serve_image/nothere.jpg", nil)
	rec := httptest.NewRecorder()
	ServeImage(d)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func writeBookmarkFile(t *testing.T, d *deps.Deps) {
	t.Helper()
	content := `{
  "roots": {
    "bookmark_bar": {
      "id": "1", "type": "folder", "name": "Bookmarks bar",
      "children": [
        {"id": "10", "type": "url", "name": "Example", "url": "https://example.com"}
      ]
    }
  }
}`
	path := filepath.Join(t.TempDir(), "Bookmarks")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write bookmarks: %v", err)
	}
	d.BookmarkFile = path
}

func TestBookmarksListing(t *testing.T) {
	d, _, _ := testDeps(t)
	writeBookmarkFile(t, &d)

	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	rec := httptest.NewRecorder()
	Bookmarks(d)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var listing bookmarkListing
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listing.Name != "Bookmarks bar" || len(listing.Entries) != 1 {
		t.Fatalf("unexpected listing %+v", listing)
	}
	if listing.Entries[0].ThumbnailRoute != mediapath.DefaultThumbnailRoute {
		t.Fatalf("expected placeholder thumbnail, got %q", listing.Entries[0].ThumbnailRoute)
	}
}

func TestBookmarksMissingFile(t *testing.T) {
	d, _, _ := testDeps(t)
	d.BookmarkFile = filepath.Join(t.TempDir(), "absent")

	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	rec := httptest.NewRecorder()
	Bookmarks(d)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBookmarksUnknownFolder(t *testing.T) {
	d, _, _ := testDeps(t)
	writeBookmarkFile(t, &d)

	req := httptest.NewRequest(http.MethodGet, "/bookmarks/bookmark_bar/999", nil)
	rec := httptest.NewRecorder()
	Bookmarks(d)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestItemsListing(t *testing.T) {
	d, _, libRoot := testDeps(t)

	if err := os.WriteFile(filepath.Join(libRoot, "poster.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(libRoot, "#action"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(libRoot, "#action", "clip.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	catalog, err := sqlite.OpenCatalogStore(filepath.Join(t.TempDir(), "item_db.db"))
	if err != nil {
		t.Fatalf("OpenCatalogStore: %v", err)
	}
	t.Cleanup(func() { catalog.Close() })
	d.Crawler = crawler.New(catalog, domain.LibrarySourceExternal, d.Logger)
	if _, err := d.Crawler.UpdateItemDatabase(context.Background(), libRoot); err != nil {
		t.Fatalf("UpdateItemDatabase: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	rec := httptest.NewRecorder()
	Items(d)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var listings []itemListing
	if err := json.Unmarshal(rec.Body.Bytes(), &listings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listings) != 1 || len(listings[0].Items) != 2 {
		t.Fatalf("unexpected listings %+v", listings)
	}
	for _, item := range listings[0].Items {
		if item.URL == "" {
			t.Errorf("item %q has no URL", item.RelativePath)
		}
	}
}

func TestItemsTraversalPathDenied(t *testing.T) {
	d, _, _ := testDeps(t)

	req := httptest.NewRequest(http.MethodGet, "/items?path=../../etc", nil)
	rec := httptest.NewRecorder()
	Items(d)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for traversal path, got %d", rec.Code)
	}
}

func TestUpdateItemsUnknownDirDenied(t *testing.T) {
	d, _, _ := testDeps(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/update-items?dir=/not/configured", nil)
	rec := httptest.NewRecorder()
	UpdateItems(d)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unconfigured dir, got %d", rec.Code)
	}
}

func TestWriteErrorMapping(t *testing.T) {
	log := logger.New("error", false)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"access denied", domain.ErrAccessDenied, http.StatusForbidden},
		{"media not found", domain.ErrMediaNotFound, http.StatusNotFound},
		{"folder not found", domain.ErrFolderNotFound, http.StatusNotFound},
		{"bookmark not found", domain.ErrBookmarkNotFound, http.StatusNotFound},
		{"external service", domain.ErrExternalService, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, log, tt.err)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
