package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"medley/internal/domain"
	"medley/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses and writes a JSON body.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrMediaNotFound),
		errors.Is(err, domain.ErrFolderNotFound),
		errors.Is(err, domain.ErrBookmarkNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrExternalService):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed", logger.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
