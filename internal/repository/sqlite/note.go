package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/notes-api/internal/domain"
)

// noteRepo implements domain.NoteRepository using SQLite.
type noteRepo struct {
	db *sql.DB
}

const noteColumns = `id, owner_id, title, body, created_at, updated_at`

func (r *noteRepo) Create(ctx context.Context, note *domain.Note) error {
	id, err := domain.NewID()
	if err != nil {
		return fmt.Errorf("generate note id: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notes (id, owner_id, title, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, domain.CanonicalID(note.OwnerID), note.Title, note.Body, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}

	note.ID = id
	note.OwnerID = domain.CanonicalID(note.OwnerID)
	note.CreatedAt = now
	note.UpdatedAt = now
	return nil
}

func (r *noteRepo) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	n := &domain.Note{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, domain.CanonicalID(id),
	).Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// List filters with instr() rather than LIKE so the search term is matched
// literally, folding case with unicode_lower on both sides.
func (r *noteRepo) List(ctx context.Context, q domain.NoteQuery) ([]domain.Note, int, error) {
	where := "owner_id = ?"
	args := []any{domain.CanonicalID(q.OwnerID)}
	if q.Search != "" {
		where += " AND (instr(" + foldFunc + "(title), " + foldFunc + "(?)) > 0" +
			" OR instr(" + foldFunc + "(body), " + foldFunc + "(?)) > 0)"
		args = append(args, q.Search, q.Search)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE `+where+`
		 ORDER BY created_at DESC, seq DESC
		 LIMIT ? OFFSET ?`,
		append(args, q.Limit, q.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, total, nil
}

func (r *noteRepo) Update(ctx context.Context, note *domain.Note) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, body = ?, updated_at = ? WHERE id = ?`,
		note.Title, note.Body, now, domain.CanonicalID(note.ID),
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	note.UpdatedAt = now
	return nil
}

func (r *noteRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, domain.CanonicalID(id))
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
