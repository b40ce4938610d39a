package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"shopclock/timetrack"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody reads an optional JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeServiceError maps time tracking failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, timetrack.ErrAlreadyClockedIn), errors.Is(err, timetrack.ErrNoActiveEntry):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, timetrack.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, timetrack.ErrInvalidReason), errors.Is(err, timetrack.ErrInvalidBreak):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("time tracking request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
