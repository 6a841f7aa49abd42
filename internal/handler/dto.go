package handler

import (
	"time"

	"github.com/msomdec/notes-api/internal/domain"
	"github.com/msomdec/notes-api/internal/service"
)

// timeFormat is RFC 3339 with millisecond precision.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// UserDTO is the JSON representation of a user. The password hash is never
// included.
type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{ID: u.ID, Username: u.Username}
}

// NoteDTO is the JSON representation of a note.
type NoteDTO struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toNoteDTO(n *domain.Note) NoteDTO {
	return NoteDTO{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: formatTime(n.CreatedAt),
		UpdatedAt: formatTime(n.UpdatedAt),
	}
}

func toNoteDTOs(notes []domain.Note) []NoteDTO {
	dtos := make([]NoteDTO, len(notes))
	for i := range notes {
		dtos[i] = toNoteDTO(&notes[i])
	}
	return dtos
}

// PaginationDTO is the JSON representation of listing metadata.
type PaginationDTO struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func toPaginationDTO(p service.Pagination) PaginationDTO {
	return PaginationDTO{Page: p.Page, Limit: p.Limit, Total: p.Total, Pages: p.Pages}
}

type noteResponse struct {
	Note      NoteDTO `json:"note"`
	Timestamp string  `json:"timestamp"`
}

type noteListResponse struct {
	Notes      []NoteDTO     `json:"notes"`
	Pagination PaginationDTO `json:"pagination"`
	Timestamp  string        `json:"timestamp"`
}

type messageResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}
