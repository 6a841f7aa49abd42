package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/msomdec/notes-api/internal/domain"
)

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// NoteService handles note CRUD, access control, and listings.
type NoteService struct {
	notes domain.NoteRepository
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes domain.NoteRepository) *NoteService {
	return &NoteService{notes: notes}
}

// NotePage is one page of a user's notes.
type NotePage struct {
	Notes      []domain.Note
	Pagination Pagination
}

// Sanitize strips anything that looks like markup and surrounding whitespace.
func Sanitize(s string) string {
	return strings.TrimSpace(markupPattern.ReplaceAllString(s, ""))
}

// Create sanitises and validates the fields, then stores a note owned by ownerID.
func (s *NoteService) Create(ctx context.Context, ownerID, title, body string) (*domain.Note, error) {
	title, body, err := cleanFields(title, body)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{OwnerID: ownerID, Title: title, Body: body}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// Authorize resolves rawID to a note the subject may act on. The id shape is
// checked before any store access, then existence, then ownership.
func (s *NoteService) Authorize(ctx context.Context, subjectID, rawID string) (*domain.Note, error) {
	if !domain.ValidID(rawID) {
		return nil, domain.ErrInvalidID
	}

	note, err := s.notes.GetByID(ctx, domain.CanonicalID(rawID))
	if err != nil {
		return nil, err
	}

	if !note.OwnedBy(subjectID) {
		return nil, domain.ErrForbidden
	}
	return note, nil
}

// Update replaces title and body of a note obtained from Authorize. Nothing is
// written unless both fields pass validation.
func (s *NoteService) Update(ctx context.Context, note *domain.Note, title, body string) error {
	title, body, err := cleanFields(title, body)
	if err != nil {
		return err
	}

	updated := *note
	updated.Title = title
	updated.Body = body
	if err := s.notes.Update(ctx, &updated); err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	*note = updated
	return nil
}

// Delete permanently removes a note obtained from Authorize.
func (s *NoteService) Delete(ctx context.Context, note *domain.Note) error {
	if err := s.notes.Delete(ctx, note.ID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// List returns one page of ownerID's notes, newest first. The owner filter is
// always applied; the search term narrows it further.
func (s *NoteService) List(ctx context.Context, ownerID string, p ListParams) (*NotePage, error) {
	notes, total, err := s.notes.List(ctx, domain.NoteQuery{
		OwnerID: ownerID,
		Search:  p.Search,
		Offset:  p.Offset(),
		Limit:   p.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return &NotePage{Notes: notes, Pagination: newPagination(p, total)}, nil
}

func cleanFields(title, body string) (string, string, error) {
	title = Sanitize(title)
	body = Sanitize(body)
	if title == "" {
		return "", "", fmt.Errorf("%w: Title is required", domain.ErrInvalidInput)
	}
	if body == "" {
		return "", "", fmt.Errorf("%w: Body is required", domain.ErrInvalidInput)
	}
	return title, body, nil
}
