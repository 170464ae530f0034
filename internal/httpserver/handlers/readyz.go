package handlers

import (
	"net/http"

	"medley/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready     bool `json:"ready"`
	Libraries int  `json:"libraries"`
}

// Readyz reports readiness. The process is ready as soon as the stores are
// open; the library count is informational.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, readyzResponse{
			Ready:     true,
			Libraries: len(d.Libraries()),
		})
	}
}
