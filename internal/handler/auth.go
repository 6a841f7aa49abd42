package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/notes-api/internal/domain"
	"github.com/msomdec/notes-api/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister processes a JSON registration request.
// POST /auth/register
// Request:  {"username":"...","password":"..."}
// Response: {"id":"...","username":"..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, inputMessage(err))
		case errors.Is(err, domain.ErrConflict):
			writeError(w, http.StatusConflict, "Username already exists")
		default:
			writeInternalError(w, r, "register user", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// HandleLogin processes a JSON login request.
// POST /auth/login
// Request:  {"username":"...","password":"..."}
// Response: {"token":"...","expiresAt":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	token, expiresAt, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, inputMessage(err))
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			writeInternalError(w, r, "login user", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: formatTime(expiresAt)})
}

// HandleMe returns the authenticated user.
// GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUserByID(r.Context(), SubjectFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeInternalError(w, r, "get current user", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}
