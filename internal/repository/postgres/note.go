package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/notes-api/internal/domain"
)

type noteRepo struct {
	pool *pgxpool.Pool
}

const noteColumns = `id, owner_id, title, body, created_at, updated_at`

func scanNote(row pgx.Row) (domain.Note, error) {
	var n domain.Note
	if err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return n, err
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return n, nil
}

func (r *noteRepo) Create(ctx context.Context, note *domain.Note) error {
	id, err := domain.NewID()
	if err != nil {
		return fmt.Errorf("generate note id: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	owner := domain.CanonicalID(note.OwnerID)
	_, err = r.pool.Exec(ctx, `
		INSERT INTO notes (id, owner_id, title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, id, owner, note.Title, note.Body, now)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	note.ID = id
	note.OwnerID = owner
	note.CreatedAt = now
	note.UpdatedAt = now
	return nil
}

func (r *noteRepo) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	n, err := scanNote(r.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1`, domain.CanonicalID(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &n, nil
}

// List uses strpos() so the search term is matched literally.
func (r *noteRepo) List(ctx context.Context, q domain.NoteQuery) ([]domain.Note, int, error) {
	where := "owner_id = $1"
	args := []any{domain.CanonicalID(q.OwnerID)}
	if q.Search != "" {
		args = append(args, q.Search)
		p := "$" + strconv.Itoa(len(args))
		where += " AND (strpos(lower(title), lower(" + p + ")) > 0 OR strpos(lower(body), lower(" + p + ")) > 0)"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notes WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	limitArg := "$" + strconv.Itoa(len(args)+1)
	offsetArg := "$" + strconv.Itoa(len(args)+2)
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteColumns+` FROM notes WHERE `+where+`
		ORDER BY created_at DESC, seq DESC
		LIMIT `+limitArg+` OFFSET `+offsetArg,
		append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, total, nil
}

func (r *noteRepo) Update(ctx context.Context, note *domain.Note) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	tag, err := r.pool.Exec(ctx, `
		UPDATE notes SET title = $1, body = $2, updated_at = $3
		WHERE id = $4
	`, note.Title, note.Body, now, domain.CanonicalID(note.ID))
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	note.UpdatedAt = now
	return nil
}

func (r *noteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, domain.CanonicalID(id))
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
