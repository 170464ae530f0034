package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"medley/internal/domain"
)

func openTestCache(t *testing.T) *CacheStore {
	t.Helper()
	store, err := OpenCacheStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenCacheStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertMediaItemOverwritesSubType(t *testing.T) {
	store := openTestCache(t)

	item := domain.MediaItem{
		ID:          "abc123",
		Source:      domain.SourceBookmark,
		OriginalURL: "https://example.com/page",
		Title:       "Example",
		MediaType:   domain.MediaTypeBookmark,
	}
	if err := store.UpsertMediaItem(item); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	sub, err := store.GetMediaSubType("abc123")
	if err != nil {
		t.Fatalf("GetMediaSubType: %v", err)
	}
	if sub != "" {
		t.Fatalf("expected empty sub_type, got %q", sub)
	}

	item.SubType = domain.SubTypeYouTube
	if err := store.UpsertMediaItem(item); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	sub, err = store.GetMediaSubType("abc123")
	if err != nil {
		t.Fatalf("GetMediaSubType after update: %v", err)
	}
	if sub != domain.SubTypeYouTube {
		t.Fatalf("expected sub_type %q, got %q", domain.SubTypeYouTube, sub)
	}
}

func TestGetMediaItemRoundTrip(t *testing.T) {
	store := openTestCache(t)

	item := domain.MediaItem{
		ID:          "m42",
		Source:      domain.SourceBookmark,
		OriginalURL: "https://example.com/page",
		Title:       "Example",
		MediaType:   domain.MediaTypeBookmark,
		SubType:     domain.SubTypeSpecial,
		Metadata:    map[string]string{"folder_path": "Bookmarks bar / News"},
	}
	if err := store.UpsertMediaItem(item); err != nil {
		t.Fatalf("UpsertMediaItem: %v", err)
	}

	got, err := store.GetMediaItem("m42")
	if err != nil {
		t.Fatalf("GetMediaItem: %v", err)
	}
	if got == nil {
		t.Fatal("expected media item, got nil")
	}
	if got.OriginalURL != item.OriginalURL || got.Title != item.Title || got.SubType != item.SubType {
		t.Fatalf("unexpected row %+v", got)
	}
	if got.Metadata["folder_path"] != "Bookmarks bar / News" {
		t.Fatalf("expected metadata to round trip, got %v", got.Metadata)
	}

	missing, err := store.GetMediaItem("nope")
	if err != nil {
		t.Fatalf("GetMediaItem missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing row, got %+v", missing)
	}
}

func TestGetMediaSubTypeMissingRow(t *testing.T) {
	store := openTestCache(t)

	sub, err := store.GetMediaSubType("nope")
	if err != nil {
		t.Fatalf("GetMediaSubType: %v", err)
	}
	if sub != "" {
		t.Fatalf("expected empty sub_type for missing row, got %q", sub)
	}
}

func TestThumbnailLifecycle(t *testing.T) {
	store := openTestCache(t)

	if err := store.UpsertMediaItem(domain.MediaItem{
		ID:        "m1",
		Source:    domain.SourceBookmark,
		MediaType: domain.MediaTypeBookmark,
	}); err != nil {
		t.Fatalf("UpsertMediaItem: %v", err)
	}

	got, err := store.GetThumbnail("m1")
	if err != nil {
		t.Fatalf("GetThumbnail before insert: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil thumbnail before insert, got %+v", got)
	}

	thumb := domain.Thumbnail{
		MediaID:   "m1",
		LocalPath: "/tmp/thumbs/m1.jpg",
		FetchedAt: time.Now().UTC(),
		Source:    "https://example.com/img.jpg",
	}
	if err := store.UpsertThumbnail(thumb); err != nil {
		t.Fatalf("UpsertThumbnail: %v", err)
	}

	got, err = store.GetThumbnail("m1")
	if err != nil {
		t.Fatalf("GetThumbnail: %v", err)
	}
	if got == nil {
		t.Fatal("expected thumbnail row, got nil")
	}
	if got.LocalPath != thumb.LocalPath {
		t.Fatalf("expected local_path %q, got %q", thumb.LocalPath, got.LocalPath)
	}
	if got.Source != thumb.Source {
		t.Fatalf("expected source %q, got %q", thumb.Source, got.Source)
	}

	all, err := store.ListThumbnails()
	if err != nil {
		t.Fatalf("ListThumbnails: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 thumbnail, got %d", len(all))
	}

	if err := store.DeleteThumbnail("m1"); err != nil {
		t.Fatalf("DeleteThumbnail: %v", err)
	}
	got, err = store.GetThumbnail("m1")
	if err != nil {
		t.Fatalf("GetThumbnail after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}

	// Deleting a row that no longer exists must stay silent.
	if err := store.DeleteThumbnail("m1"); err != nil {
		t.Fatalf("DeleteThumbnail idempotence: %v", err)
	}
}
