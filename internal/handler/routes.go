package handler

import (
	"net/http"

	"github.com/msomdec/notes-api/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, notes *service.NoteService, store Pinger) {
	authHandler := NewAuthHandler(auth)
	noteHandler := NewNoteHandler(notes)

	authed := RequireAuth(auth)
	owned := RequireNoteAccess(notes)

	mux.HandleFunc("GET /{$}", HandleRoot)
	mux.Handle("GET /healthz", HandleHealthz(store))

	mux.HandleFunc("POST /auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /auth/login", authHandler.HandleLogin)
	mux.Handle("GET /auth/me", Chain(http.HandlerFunc(authHandler.HandleMe), authed))

	mux.Handle("GET /notes", Chain(http.HandlerFunc(noteHandler.HandleList), StampRequest, authed))
	mux.Handle("POST /notes", Chain(http.HandlerFunc(noteHandler.HandleCreate), StampRequest, authed))
	mux.Handle("GET /notes/{id}", Chain(http.HandlerFunc(noteHandler.HandleGet), StampRequest, authed, owned))
	mux.Handle("PUT /notes/{id}", Chain(http.HandlerFunc(noteHandler.HandleUpdate), StampRequest, authed, owned))
	mux.Handle("DELETE /notes/{id}", Chain(http.HandlerFunc(noteHandler.HandleDelete), StampRequest, authed, owned))
}
