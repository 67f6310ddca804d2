package utils

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"weatherboard/internal/db"
	"weatherboard/internal/modules/weather/types"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write JSON", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": msg,
	})
}

// WriteServiceError maps a service error onto a response. Validation errors
// echo their message; store failures get fallback so driver text stays
// server-side.
func WriteServiceError(w http.ResponseWriter, err error, fallback string) {
	var fetchErr *db.DataFetchError
	switch {
	case errors.Is(err, types.ErrInvalidQuery):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &fetchErr):
		WriteError(w, http.StatusInternalServerError, fallback)
	default:
		slog.Error("unexpected service error", "error", err)
		WriteError(w, http.StatusInternalServerError, fallback)
	}
}
