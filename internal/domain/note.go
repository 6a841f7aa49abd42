package domain

import (
	"context"
	"time"
)

// Note is a piece of text owned by exactly one user.
type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the note belongs to the given user. Both sides are
// compared in canonical form so representation differences never matter.
func (n *Note) OwnedBy(userID string) bool {
	return CanonicalID(n.OwnerID) == CanonicalID(userID)
}

// NoteQuery selects a page of one owner's notes. Search is matched as a
// case-insensitive substring of the title or the body; empty means no filter.
type NoteQuery struct {
	OwnerID string
	Search  string
	Offset  int
	Limit   int
}

// NoteRepository defines persistence operations for notes.
type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	GetByID(ctx context.Context, id string) (*Note, error)
	// List returns the requested page, newest first, along with the number of
	// notes matching the query before paging.
	List(ctx context.Context, q NoteQuery) ([]Note, int, error)
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id string) error
}
