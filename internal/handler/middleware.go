package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/msomdec/notes-api/internal/domain"
	"github.com/msomdec/notes-api/internal/service"
)

type contextKey string

const (
	subjectContextKey contextKey = "subject"
	noteContextKey    contextKey = "note"
	startContextKey   contextKey = "requestStart"
)

// SubjectFromContext returns the authenticated user id, or "" if the request
// has not passed RequireAuth.
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(subjectContextKey).(string)
	return subject
}

// NoteFromContext returns the note attached by RequireNoteAccess.
func NoteFromContext(ctx context.Context) *domain.Note {
	note, _ := ctx.Value(noteContextKey).(*domain.Note)
	return note
}

// RequestTime returns the instant StampRequest saw the request, falling back
// to the current time for unstamped requests.
func RequestTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(startContextKey).(time.Time); ok {
		return t
	}
	return time.Now().UTC()
}

// StampRequest records when the request arrived.
func StampRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), startContextKey, time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>"
// header with 401. Accepted requests carry the token subject in their context.
func RequireAuth(auth *service.AuthService) Interceptor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			subject, err := auth.Authenticate(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), subjectContextKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireNoteAccess resolves the {id} path value to a note owned by the
// authenticated user and attaches it to the context. It must run after
// RequireAuth.
func RequireNoteAccess(notes *service.NoteService) Interceptor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			note, err := notes.Authorize(r.Context(), SubjectFromContext(r.Context()), r.PathValue("id"))
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrInvalidID):
					writeError(w, http.StatusBadRequest, "Invalid note ID format")
				case errors.Is(err, domain.ErrNotFound):
					writeError(w, http.StatusNotFound, "Note not found")
				case errors.Is(err, domain.ErrForbidden):
					writeError(w, http.StatusForbidden, "Access denied")
				default:
					writeInternalError(w, r, "authorize note", err)
				}
				return
			}

			ctx := context.WithValue(r.Context(), noteContextKey, note)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LogRequests logs one line per request with its outcome and latency.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// SecurityHeaders sets conservative response headers for a JSON API.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
