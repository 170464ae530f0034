package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"medley/internal/domain"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS items (
    item_id         TEXT PRIMARY KEY,
    relative_path   TEXT NOT NULL,
    absolute_path   TEXT NOT NULL,
    library_root    TEXT NOT NULL,
    name            TEXT NOT NULL,
    data_source     TEXT NOT NULL,
    item_type       TEXT NOT NULL,
    tags            TEXT,
    ext             TEXT,
    mime_type       TEXT,
    size_bytes      INTEGER,
    is_archived     INTEGER NOT NULL DEFAULT 0,
    thumbnail_route TEXT,
    actors          TEXT,
    authors         TEXT,
    face_ids        TEXT,
    region          TEXT,
    rating          REAL,
    is_censored     INTEGER,
    created_at      TIMESTAMP NOT NULL,
    updated_at      TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_root_rel ON items(library_root, relative_path);
CREATE INDEX IF NOT EXISTS idx_items_item_type ON items(item_type);
CREATE INDEX IF NOT EXISTS idx_items_tags ON items(tags);
`

// CatalogStore persists crawled filesystem item records.
type CatalogStore struct {
	db *sql.DB
}

// OpenCatalogStore opens (creating if needed) the item catalog database.
func OpenCatalogStore(path string) (*CatalogStore, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return &CatalogStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *CatalogStore) Close() error {
	return s.db.Close()
}

func encodeList(list []string) (interface{}, error) {
	if len(list) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func decodeList(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertItemIfAbsent inserts a record unless a row already exists for the
// same (library_root, relative_path). Existing rows are left untouched, so
// edits made after the first crawl (tags in particular) survive re-crawls.
// Returns true when a new row was created.
func (s *CatalogStore) InsertItemIfAbsent(rec domain.ItemRecord) (bool, error) {
	tags, err := encodeList(rec.Tags)
	if err != nil {
		return false, fmt.Errorf("failed to encode tags: %w", err)
	}

	now := time.Now().UTC()
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	res, err := s.db.Exec(`
        INSERT INTO items (
            item_id, relative_path, absolute_path, library_root, name,
            data_source, item_type, tags, ext, mime_type, size_bytes,
            is_archived, thumbnail_route, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(library_root, relative_path) DO NOTHING`,
		rec.ItemID, rec.RelativePath, rec.AbsolutePath, rec.LibraryRoot, rec.Name,
		rec.DataSource, rec.ItemType, tags, nullString(rec.Ext), nullString(rec.MimeType),
		rec.SizeBytes, boolToInt(rec.IsArchived), nullString(rec.ThumbnailRoute),
		createdAt, updatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// ListItemsByRoot returns every record stored for a library root.
func (s *CatalogStore) ListItemsByRoot(root string) ([]domain.ItemRecord, error) {
	rows, err := s.db.Query(`
        SELECT item_id, relative_path, absolute_path, library_root, name,
               data_source, item_type, tags, ext, mime_type, size_bytes,
               is_archived, thumbnail_route, created_at, updated_at
        FROM items WHERE library_root = ?`, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// DeleteItem removes a record by primary key.
func (s *CatalogStore) DeleteItem(itemID string) error {
	if _, err := s.db.Exec(`DELETE FROM items WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// ItemsForBackfill returns records under a root that still need a thumbnail
// route. With force set, every record under the root is returned so existing
// routes get recomputed.
func (s *CatalogStore) ItemsForBackfill(root string, force bool) ([]domain.ItemRecord, error) {
	query := `
        SELECT item_id, relative_path, absolute_path, library_root, name,
               data_source, item_type, tags, ext, mime_type, size_bytes,
               is_archived, thumbnail_route, created_at, updated_at
        FROM items WHERE library_root = ?`
	if !force {
		query += ` AND (thumbnail_route IS NULL OR thumbnail_route = '')`
	}
	rows, err := s.db.Query(query, root)
	if err != nil {
		return nil, fmt.Errorf("failed to query backfill items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// SetThumbnailRoute updates the stored thumbnail route for an item.
func (s *CatalogStore) SetThumbnailRoute(itemID, route string) error {
	_, err := s.db.Exec(`UPDATE items SET thumbnail_route = ?, updated_at = ? WHERE item_id = ?`,
		route, time.Now().UTC(), itemID)
	if err != nil {
		return fmt.Errorf("failed to set thumbnail route: %w", err)
	}
	return nil
}

func scanItems(rows *sql.Rows) ([]domain.ItemRecord, error) {
	var out []domain.ItemRecord
	for rows.Next() {
		var rec domain.ItemRecord
		var tags, ext, mimeType, thumbRoute sql.NullString
		var archived int
		if err := rows.Scan(&rec.ItemID, &rec.RelativePath, &rec.AbsolutePath,
			&rec.LibraryRoot, &rec.Name, &rec.DataSource, &rec.ItemType,
			&tags, &ext, &mimeType, &rec.SizeBytes, &archived, &thumbRoute,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		decoded, err := decodeList(tags)
		if err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
		rec.Tags = decoded
		rec.Ext = ext.String
		rec.MimeType = mimeType.String
		rec.IsArchived = archived != 0
		rec.ThumbnailRoute = thumbRoute.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
