package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/notes-api/internal/domain"
)

// maxBodyBytes caps request bodies read by readJSON.
const maxBodyBytes = 1 << 20

const internalErrorMessage = "An unexpected error occurred."

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeInternalError logs err and sends a generic 500 that reveals nothing
// about the cause.
func writeInternalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, internalErrorMessage)
}

// readJSON decodes the request body into the given destination.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// inputMessage returns the client-facing part of a domain.ErrInvalidInput error.
func inputMessage(err error) string {
	prefix := domain.ErrInvalidInput.Error() + ": "
	return strings.TrimPrefix(err.Error(), prefix)
}
