package thumbcache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"medley/internal/domain"
	"medley/internal/logger"
	"medley/internal/store/sqlite"
)

func newTestService(t *testing.T, specialDomains []string) (*Service, *sqlite.CacheStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := sqlite.OpenCacheStore(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("OpenCacheStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	thumbDir := filepath.Join(dir, "thumbnails")
	svc := New(store, thumbDir, specialDomains, 2*time.Second, 2*time.Second, logger.New("error", false))
	return svc, store, thumbDir
}

func TestComputeMediaID(t *testing.T) {
	tests := []struct {
		name       string
		url, title string
		sameAs     [2]string
		differs    bool
	}{
		{name: "url wins over title", url: "https://a", title: "x", sameAs: [2]string{"https://a", "y"}},
		{name: "title when no url", url: "", title: "x", sameAs: [2]string{"", "x"}},
		{name: "different urls differ", url: "https://a", title: "", sameAs: [2]string{"https://b", ""}, differs: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ComputeMediaID(domain.SourceBookmark, tt.url, tt.title)
			b := ComputeMediaID(domain.SourceBookmark, tt.sameAs[0], tt.sameAs[1])
			if tt.differs && a == b {
				t.Fatalf("expected distinct IDs, both %q", a)
			}
			if !tt.differs && a != b {
				t.Fatalf("expected equal IDs, got %q and %q", a, b)
			}
		})
	}

	if len(ComputeMediaID(domain.SourceBookmark, "", "")) != 40 {
		t.Fatal("expected 40-char hex ID for bare entry")
	}
}

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"https://example.com/watch", ""},
		// A v= parameter outside a watch URL names no video.
		{"https://www.youtube.com/playlist?list=PL123&v=abc", ""},
		{"https://www.youtube.com/@channel", ""},
	}
	for _, tt := range tests {
		if got := ExtractYouTubeID(tt.url); got != tt.want {
			t.Errorf("ExtractYouTubeID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestExtractOGImage(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "double quotes",
			doc:  `<html><head><meta property="og:image" content="https://cdn.example.com/a.jpg"/></head></html>`,
			want: "https://cdn.example.com/a.jpg",
		},
		{
			name: "single quotes extra attrs",
			doc:  `<meta data-x='1' property='og:image' content='https://cdn.example.com/b.png'>`,
			want: "https://cdn.example.com/b.png",
		},
		{
			name: "html entities unescaped",
			doc:  `<meta property="og:image" content="https://cdn.example.com/c.jpg?a=1&amp;b=2">`,
			want: "https://cdn.example.com/c.jpg?a=1&b=2",
		},
		{
			name: "absent",
			doc:  `<html><head><title>nope</title></head></html>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractOGImage(tt.doc); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInferExtension(t *testing.T) {
	tests := []struct {
		contentType string
		url         string
		want        string
	}{
		{"image/png", "https://x/a.jpg", "png"},
		{"image/jpeg", "https://x/a.png", "jpg"},
		{"text/html", "https://x/a.webp", "webp"},
		{"", "https://x/a.GIF", "gif"},
		{"", "https://x/noext", "jpg"},
		// Unknown extensions and unservable image subtypes default to jpg.
		{"image/svg+xml", "https://x/logo.svg", "jpg"},
		{"", "https://x/a.php", "jpg"},
	}
	for _, tt := range tests {
		if got := inferExtension(tt.contentType, tt.url); got != tt.want {
			t.Errorf("inferExtension(%q, %q) = %q, want %q", tt.contentType, tt.url, got, tt.want)
		}
	}
}

func TestCacheBookmarkThumbnailSpecialSite(t *testing.T) {
	var pageHits int
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		pageHits++
		w.Write([]byte(`<meta property="og:image" content="/cover.png">`))
	})
	mux.HandleFunc("/cover.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc, store, thumbDir := newTestService(t, []string{"127.0.0.1"})

	route, subType, err := svc.CacheBookmarkThumbnail(context.Background(), srv.URL+"/page", "Cover", nil)
	if err != nil {
		t.Fatalf("CacheBookmarkThumbnail: %v", err)
	}
	if !strings.HasPrefix(route, "/serve_image/") || !strings.HasSuffix(route, ".png") {
		t.Fatalf("unexpected route %q", route)
	}
	if subType != domain.SubTypeSpecial {
		t.Fatalf("expected sub type %q, got %q", domain.SubTypeSpecial, subType)
	}

	mediaID := ComputeMediaID(domain.SourceBookmark, srv.URL+"/page", "Cover")
	if _, err := os.Stat(filepath.Join(thumbDir, mediaID+".png")); err != nil {
		t.Fatalf("expected cached file on disk: %v", err)
	}

	sub, err := store.GetMediaSubType(mediaID)
	if err != nil {
		t.Fatalf("GetMediaSubType: %v", err)
	}
	if sub != domain.SubTypeSpecial {
		t.Fatalf("expected sub_type %q, got %q", domain.SubTypeSpecial, sub)
	}

	// Second call must come from the cache without touching the page, and
	// the preserved sub type must still surface.
	route2, subType2, err := svc.CacheBookmarkThumbnail(context.Background(), srv.URL+"/page", "Cover", nil)
	if err != nil {
		t.Fatalf("second CacheBookmarkThumbnail: %v", err)
	}
	if route2 != route {
		t.Fatalf("expected stable route, got %q then %q", route, route2)
	}
	if subType2 != domain.SubTypeSpecial {
		t.Fatalf("expected preserved sub type, got %q", subType2)
	}
	if pageHits != 1 {
		t.Fatalf("expected 1 page fetch, got %d", pageHits)
	}
}

func TestCacheBookmarkThumbnailMissingFileIsMiss(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<meta property="og:image" content="/cover.jpg">`))
	})
	mux.HandleFunc("/cover.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpg-bytes"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc, _, thumbDir := newTestService(t, []string{"127.0.0.1"})

	route, _, err := svc.CacheBookmarkThumbnail(context.Background(), srv.URL+"/page", "", nil)
	if err != nil {
		t.Fatalf("CacheBookmarkThumbnail: %v", err)
	}
	if route == "" {
		t.Fatal("expected route on first fetch")
	}

	// Remove the file behind the row; the next call must refetch.
	mediaID := ComputeMediaID(domain.SourceBookmark, srv.URL+"/page", "")
	if err := os.Remove(filepath.Join(thumbDir, mediaID+".jpg")); err != nil {
		t.Fatalf("remove cached file: %v", err)
	}

	route2, _, err := svc.CacheBookmarkThumbnail(context.Background(), srv.URL+"/page", "", nil)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if route2 != route {
		t.Fatalf("expected refetched route %q, got %q", route, route2)
	}
	if _, err := os.Stat(filepath.Join(thumbDir, mediaID+".jpg")); err != nil {
		t.Fatalf("expected refetched file: %v", err)
	}
}

func TestCacheBookmarkThumbnailDegradesOnUnreachableURL(t *testing.T) {
	svc, store, _ := newTestService(t, []string{"127.0.0.1"})

	meta := map[string]string{"folder_path": "Bookmarks bar / News"}
	route, subType, err := svc.CacheBookmarkThumbnail(context.Background(), "http://127.0.0.1:1/page", "Broken", meta)
	if err != nil {
		t.Fatalf("expected graceful degradation, got error: %v", err)
	}
	if route != "" {
		t.Fatalf("expected empty route, got %q", route)
	}
	if subType != "" {
		t.Fatalf("expected empty sub type, got %q", subType)
	}

	// The registration itself must still have happened, metadata included.
	mediaID := ComputeMediaID(domain.SourceBookmark, "http://127.0.0.1:1/page", "Broken")
	item, err := store.GetMediaItem(mediaID)
	if err != nil {
		t.Fatalf("GetMediaItem: %v", err)
	}
	if item == nil {
		t.Fatal("expected registered media item")
	}
	if item.SubType != "" {
		t.Fatalf("expected empty sub_type, got %q", item.SubType)
	}
	if item.Metadata["folder_path"] != "Bookmarks bar / News" {
		t.Fatalf("expected folder context in metadata, got %v", item.Metadata)
	}
}

// A YouTube URL is classified at registration, so the sub type sticks even
// when the image fetch itself fails.
func TestCacheBookmarkThumbnailYouTubeSubTypeSurvivesFailedFetch(t *testing.T) {
	dir := t.TempDir()
	store, err := sqlite.OpenCacheStore(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("OpenCacheStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	// A nanosecond client timeout makes every download fail, connected or not.
	svc := New(store, filepath.Join(dir, "thumbnails"), nil, time.Nanosecond, time.Nanosecond, logger.New("error", false))

	url := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	route, subType, err := svc.CacheBookmarkThumbnail(context.Background(), url, "Video", nil)
	if err != nil {
		t.Fatalf("CacheBookmarkThumbnail: %v", err)
	}
	if route != "" {
		t.Fatalf("expected empty route on failed fetch, got %q", route)
	}
	if subType != domain.SubTypeYouTube {
		t.Fatalf("expected sub type %q, got %q", domain.SubTypeYouTube, subType)
	}

	mediaID := ComputeMediaID(domain.SourceBookmark, url, "Video")
	stored, err := store.GetMediaSubType(mediaID)
	if err != nil {
		t.Fatalf("GetMediaSubType: %v", err)
	}
	if stored != domain.SubTypeYouTube {
		t.Fatalf("expected stored sub_type %q, got %q", domain.SubTypeYouTube, stored)
	}
}

func TestCacheBookmarkThumbnailNonSpecialSiteSkipsNetwork(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	route, subType, err := svc.CacheBookmarkThumbnail(context.Background(), "https://plain.example.com/x", "Plain", nil)
	if err != nil {
		t.Fatalf("CacheBookmarkThumbnail: %v", err)
	}
	if route != "" {
		t.Fatalf("expected empty route for non-special site, got %q", route)
	}
	if subType != "" {
		t.Fatalf("expected empty sub type, got %q", subType)
	}
}
