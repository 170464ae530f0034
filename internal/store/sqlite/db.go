// Package sqlite implements the two persistent stores: the thumbnail cache
// (media_items + thumbnails) and the item catalog (items). Both are opened
// explicitly at process start; schema creation happens on open.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// openDB opens a SQLite database in WAL mode, creating parent directories
// as needed. The busy timeout covers concurrent requests sharing the file.
func openDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// nullString maps empty strings to NULL for nullable columns.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
