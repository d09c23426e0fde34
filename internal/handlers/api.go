package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// orEmpty keeps empty collections encoding as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service sentinels to status codes. Anything else is
// logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrBillNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrRequestAlreadyDecided):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidMonth),
		errors.Is(err, services.ErrInvalidBillStatus),
		errors.Is(err, services.ErrInvalidMenuItem),
		errors.Is(err, services.ErrMenuItemUnavailable),
		errors.Is(err, services.ErrInvalidAdminKey),
		errors.Is(err, services.ErrInvalidAdminRequest),
		errors.Is(err, services.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(operation, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
