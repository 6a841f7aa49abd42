package domain

import "context"

// Database defines lifecycle operations for the underlying store.
// Each implementation (SQLite, Postgres) owns its own schema setup, so the
// whole persistence backend is swappable at startup.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Users() UserRepository
	Notes() NoteRepository
	Close() error
}
