package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/notes-api/internal/domain"
	"github.com/msomdec/notes-api/internal/service"
)

// NoteHandler serves the /notes endpoints. Single-note handlers expect the
// note to have been attached by RequireNoteAccess.
type NoteHandler struct {
	notes *service.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

type noteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// HandleList returns a page of the caller's notes.
// GET /notes?page=&limit=&search=
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := service.NewListParams(q.Get("page"), q.Get("limit"), q.Get("search"))

	page, err := h.notes.List(r.Context(), SubjectFromContext(r.Context()), params)
	if err != nil {
		writeInternalError(w, r, "list notes", err)
		return
	}

	writeJSON(w, http.StatusOK, noteListResponse{
		Notes:      toNoteDTOs(page.Notes),
		Pagination: toPaginationDTO(page.Pagination),
		Timestamp:  formatTime(RequestTime(r.Context())),
	})
}

// HandleCreate stores a new note owned by the caller.
// POST /notes
// Request:  {"title":"...","body":"..."}
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	note, err := h.notes.Create(r.Context(), SubjectFromContext(r.Context()), req.Title, req.Body)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, inputMessage(err))
			return
		}
		writeInternalError(w, r, "create note", err)
		return
	}

	h.writeNote(w, r, http.StatusCreated, note)
}

// HandleGet returns a single note.
// GET /notes/{id}
func (h *NoteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.writeNote(w, r, http.StatusOK, NoteFromContext(r.Context()))
}

// HandleUpdate replaces the title and body of a note.
// PUT /notes/{id}
// Request:  {"title":"...","body":"..."}
func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	note := NoteFromContext(r.Context())

	var req noteRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.notes.Update(r.Context(), note, req.Title, req.Body); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, inputMessage(err))
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Note not found")
		default:
			writeInternalError(w, r, "update note", err)
		}
		return
	}

	h.writeNote(w, r, http.StatusOK, note)
}

// HandleDelete permanently removes a note.
// DELETE /notes/{id}
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), NoteFromContext(r.Context())); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		writeInternalError(w, r, "delete note", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message:   "Note deleted successfully",
		Timestamp: formatTime(RequestTime(r.Context())),
	})
}

func (h *NoteHandler) writeNote(w http.ResponseWriter, r *http.Request, status int, note *domain.Note) {
	writeJSON(w, status, noteResponse{
		Note:      toNoteDTO(note),
		Timestamp: formatTime(RequestTime(r.Context())),
	})
}
