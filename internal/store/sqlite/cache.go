package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"medley/internal/domain"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS media_items (
    id           TEXT PRIMARY KEY,
    source       TEXT NOT NULL,
    original_url TEXT,
    title        TEXT,
    media_type   TEXT NOT NULL,
    sub_type     TEXT,
    metadata     TEXT,
    updated_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS thumbnails (
    media_id   TEXT PRIMARY KEY REFERENCES media_items(id) ON DELETE CASCADE,
    local_path TEXT NOT NULL,
    fetched_at TIMESTAMP NOT NULL,
    source     TEXT
);

CREATE INDEX IF NOT EXISTS idx_media_items_source ON media_items(source);
CREATE INDEX IF NOT EXISTS idx_media_items_media_type ON media_items(media_type);
CREATE INDEX IF NOT EXISTS idx_media_items_original_url ON media_items(original_url);
`

// CacheStore persists media item registrations and their thumbnail blob rows.
type CacheStore struct {
	db *sql.DB
}

// OpenCacheStore opens (creating if needed) the thumbnail cache database.
func OpenCacheStore(path string) (*CacheStore, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	return &CacheStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *CacheStore) Close() error {
	return s.db.Close()
}

// UpsertMediaItem inserts or updates the registration row for a media item.
// Re-registering the same ID overwrites every descriptive column, so a later
// call with a resolved sub_type wins over the initial empty one.
func (s *CacheStore) UpsertMediaItem(item domain.MediaItem) error {
	var meta interface{}
	if len(item.Metadata) > 0 {
		raw, err := json.Marshal(item.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
		meta = string(raw)
	}

	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
        INSERT INTO media_items (id, source, original_url, title, media_type, sub_type, metadata, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            source       = excluded.source,
            original_url = excluded.original_url,
            title        = excluded.title,
            media_type   = excluded.media_type,
            sub_type     = excluded.sub_type,
            metadata     = excluded.metadata,
            updated_at   = excluded.updated_at`,
		item.ID, item.Source, nullString(item.OriginalURL), nullString(item.Title),
		item.MediaType, nullString(item.SubType), meta, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert media item: %w", err)
	}
	return nil
}

// GetMediaSubType returns the stored sub_type for a media item, or the empty
// string when the row is absent or has no sub_type.
func (s *CacheStore) GetMediaSubType(mediaID string) (string, error) {
	var subType sql.NullString
	err := s.db.QueryRow(`SELECT sub_type FROM media_items WHERE id = ?`, mediaID).Scan(&subType)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query sub_type: %w", err)
	}
	return subType.String, nil
}

// GetMediaItem returns the full registration row for a media item, or nil
// when no row exists.
func (s *CacheStore) GetMediaItem(mediaID string) (*domain.MediaItem, error) {
	var item domain.MediaItem
	var originalURL, title, subType, meta sql.NullString
	err := s.db.QueryRow(`
        SELECT id, source, original_url, title, media_type, sub_type, metadata, updated_at
        FROM media_items WHERE id = ?`, mediaID).
		Scan(&item.ID, &item.Source, &originalURL, &title, &item.MediaType, &subType, &meta, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query media item: %w", err)
	}
	item.OriginalURL = originalURL.String
	item.Title = title.String
	item.SubType = subType.String
	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), &item.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}
	return &item, nil
}

// GetThumbnail returns the thumbnail row for a media item, or nil when no
// row exists. Callers must still stat the file: a row whose local_path has
// vanished from disk counts as a miss.
func (s *CacheStore) GetThumbnail(mediaID string) (*domain.Thumbnail, error) {
	var t domain.Thumbnail
	var source sql.NullString
	err := s.db.QueryRow(`
        SELECT media_id, local_path, fetched_at, source
        FROM thumbnails WHERE media_id = ?`, mediaID).
		Scan(&t.MediaID, &t.LocalPath, &t.FetchedAt, &source)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query thumbnail: %w", err)
	}
	t.Source = source.String
	return &t, nil
}

// UpsertThumbnail records or replaces the thumbnail blob row for a media item.
func (s *CacheStore) UpsertThumbnail(t domain.Thumbnail) error {
	fetchedAt := t.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
        INSERT INTO thumbnails (media_id, local_path, fetched_at, source)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(media_id) DO UPDATE SET
            local_path = excluded.local_path,
            fetched_at = excluded.fetched_at,
            source     = excluded.source`,
		t.MediaID, t.LocalPath, fetchedAt, nullString(t.Source))
	if err != nil {
		return fmt.Errorf("failed to upsert thumbnail: %w", err)
	}
	return nil
}

// DeleteThumbnail removes the blob row for a media item. Deleting a missing
// row is not an error.
func (s *CacheStore) DeleteThumbnail(mediaID string) error {
	if _, err := s.db.Exec(`DELETE FROM thumbnails WHERE media_id = ?`, mediaID); err != nil {
		return fmt.Errorf("failed to delete thumbnail: %w", err)
	}
	return nil
}

// ListThumbnails returns every thumbnail row. Used by the sweeper to
// reconcile rows against files on disk.
func (s *CacheStore) ListThumbnails() ([]domain.Thumbnail, error) {
	rows, err := s.db.Query(`SELECT media_id, local_path, fetched_at, source FROM thumbnails`)
	if err != nil {
		return nil, fmt.Errorf("failed to list thumbnails: %w", err)
	}
	defer rows.Close()

	var out []domain.Thumbnail
	for rows.Next() {
		var t domain.Thumbnail
		var source sql.NullString
		if err := rows.Scan(&t.MediaID, &t.LocalPath, &t.FetchedAt, &source); err != nil {
			return nil, fmt.Errorf("failed to scan thumbnail row: %w", err)
		}
		t.Source = source.String
		out = append(out, t)
	}
	return out, rows.Err()
}
