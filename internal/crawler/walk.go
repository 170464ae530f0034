// Package crawler reconciles library directories on disk with the persistent
// item catalog and backfills thumbnail routes for cataloged entries.
package crawler

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"medley/internal/domain"
	"medley/internal/mediapath"
)

// tagMarker prefixes directory names that act as tag containers rather than
// items of their own.
const tagMarker = "#"

// taggedItem is one catalogable entry found while walking a library.
type taggedItem struct {
	absPath string
	relPath string // slash-normalized, relative to the library root
	name    string
	isDir   bool
	tags    []string
}

// ComputeItemID derives the stable catalog key for an entry: the absolute
// library root and the slash-normalized relative path, nothing else.
func ComputeItemID(libraryRoot, relPath string) string {
	sum := sha1.Sum([]byte(libraryRoot + "::" + mediapath.NormalizeSlashes(relPath)))
	return hex.EncodeToString(sum[:])
}

// iterTaggedItems walks a library root and yields its catalogable entries.
//
// Only two kinds of location produce items: the root itself, and tag
// directories (names starting with the marker) at any nesting depth.
// Every directory is descended: tag directories stack their stripped
// names as tags, regular directories pass the accumulated tags through
// unchanged so tag directories nested below them are still reached.
// Regular directories inside the root or a tag directory are items
// themselves; their plain contents are not. Dotfiles are skipped
// everywhere. Unreadable directories are reported per path, never fatal.
func iterTaggedItems(root string) ([]taggedItem, []domain.ItemError, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve library root: %w", err)
	}
	w := &treeWalker{root: absRoot}
	w.walk(absRoot, nil, true)
	return w.items, w.errs, nil
}

type treeWalker struct {
	root  string
	items []taggedItem
	errs  []domain.ItemError
}

// walk visits dir. catalog marks directories whose direct entries are
// catalogable: the library root and tag directories.
func (w *treeWalker) walk(dir string, tags []string, catalog bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.errs = append(w.errs, domain.ItemError{Path: dir, Err: err.Error()})
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		absPath := filepath.Join(dir, name)

		if strings.HasPrefix(name, tagMarker) {
			if !entry.IsDir() {
				continue
			}
			childTags := append(append([]string{}, tags...), strings.TrimPrefix(name, tagMarker))
			w.walk(absPath, childTags, true)
			continue
		}

		if catalog {
			rel, err := filepath.Rel(w.root, absPath)
			if err != nil {
				w.errs = append(w.errs, domain.ItemError{Path: absPath, Err: err.Error()})
				continue
			}
			w.items = append(w.items, taggedItem{
				absPath: absPath,
				relPath: mediapath.NormalizeSlashes(rel),
				name:    name,
				isDir:   entry.IsDir(),
				tags:    tags,
			})
		}
		if entry.IsDir() {
			w.walk(absPath, tags, false)
		}
	}
}

// buildItemRecord turns a walked entry into its catalog record.
func buildItemRecord(libraryRoot string, it taggedItem) domain.ItemRecord {
	rec := domain.ItemRecord{
		ItemID:       ComputeItemID(libraryRoot, it.relPath),
		RelativePath: it.relPath,
		AbsolutePath: it.absPath,
		LibraryRoot:  libraryRoot,
		Name:         it.name,
		DataSource:   domain.DataSourceFilesystem,
		Tags:         it.tags,
	}

	if it.isDir {
		rec.ItemType = domain.ItemTypeFolder
		return rec
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(it.name), "."))
	rec.Ext = ext
	if ext != "" {
		rec.MimeType = mime.TypeByExtension("." + ext)
	}
	switch {
	case mediapath.IsImageFile(it.name):
		rec.ItemType = domain.ItemTypeImage
	case mediapath.IsVideoFile(it.name):
		rec.ItemType = domain.ItemTypeVideo
	default:
		rec.ItemType = domain.ItemTypeFile
	}
	if info, err := os.Stat(it.absPath); err == nil {
		rec.SizeBytes = info.Size()
	}
	return rec
}
