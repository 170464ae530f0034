package domain

import "errors"

// Error kinds surfaced to the boundary layer so it can map them to HTTP
// statuses. Within the core, best-effort enrichment (thumbnail fetching,
// frame extraction) never returns these; it degrades to empty results.
var (
	// ErrMediaNotFound means the requested media item does not exist.
	ErrMediaNotFound = errors.New("media not found")

	// ErrFolderNotFound means the requested folder does not exist.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrAccessDenied means the requested path is not allowed.
	ErrAccessDenied = errors.New("access denied")

	// ErrExternalService means an upstream dependency failed.
	ErrExternalService = errors.New("external service error")

	// ErrBookmarkNotFound means a bookmark folder or entry was not found.
	ErrBookmarkNotFound = errors.New("bookmark not found")
)
