package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"medley/internal/domain"
	"medley/internal/httpserver/deps"
	"medley/internal/logger"
)

// targetRoots resolves the optional ?dir= query parameter. Without it every
// configured library is targeted; with it the directory must match one of
// the configured roots, anything else is access denied.
func targetRoots(d deps.Deps, r *http.Request) ([]domain.Library, error) {
	libraries := d.Libraries()
	dir := r.URL.Query().Get("dir")
	if dir == "" {
		return libraries, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: unresolvable dir %q", domain.ErrAccessDenied, dir)
	}
	for _, lib := range libraries {
		if filepath.Clean(lib.Root) == filepath.Clean(abs) {
			return []domain.Library{lib}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not a configured library root", domain.ErrAccessDenied, dir)
}

// UpdateItems runs a synchronous catalog reconciliation and returns the
// per-library summaries. A library whose root is offline contributes an
// error entry instead of aborting the batch.
func UpdateItems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		libraries, err := targetRoots(d, r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		summaries := make([]domain.CrawlSummary, 0, len(libraries))
		for _, lib := range libraries {
			summary, err := d.Crawler.UpdateItemDatabase(r.Context(), lib.Root)
			if err != nil {
				d.Logger.Error("crawl failed",
					logger.String("library", lib.Name),
					logger.Error(err))
				summary.Errors = append(summary.Errors, domain.ItemError{Path: lib.Root, Err: err.Error()})
			}
			summaries = append(summaries, summary)
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}

// UpdateThumbnails runs a synchronous thumbnail backfill. ?force=1
// recomputes routes that are already set.
func UpdateThumbnails(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		libraries, err := targetRoots(d, r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		force := r.URL.Query().Get("force") == "1" || r.URL.Query().Get("force") == "true"

		summaries := make([]domain.BackfillSummary, 0, len(libraries))
		for _, lib := range libraries {
			summary, err := d.Crawler.UpdateMissingThumbnails(r.Context(), lib.Root, force)
			if err != nil {
				d.Logger.Error("thumbnail backfill failed",
					logger.String("library", lib.Name),
					logger.Error(err))
				summary.Errors = append(summary.Errors, domain.ItemError{Path: lib.Root, Err: err.Error()})
			}
			summaries = append(summaries, summary)
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}

// Reload re-reads the library definition file and kicks the crawl scheduler.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.ReloadLibraries(); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		select {
		case d.CrawlTrigger <- struct{}{}:
			d.Logger.Info("manual crawl triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("reload triggered\n"))
		default:
			d.Logger.Warn("crawl already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("crawl already in progress, libraries reloaded\n"))
		}
	}
}
