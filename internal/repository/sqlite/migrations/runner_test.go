package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/msomdec/notes-api/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun_CreatesSchema(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)",
		"aaaaaaaaaaaaaaaaaaaaaaaa", "alice", "hash",
	)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO notes (id, owner_id, title, body) VALUES (?, ?, ?, ?)",
		"bbbbbbbbbbbbbbbbbbbbbbbb", "aaaaaaaaaaaaaaaaaaaaaaaa", "t", "b",
	)
	if err != nil {
		t.Fatalf("insert into notes: %v", err)
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 migration records, got %d", count)
	}
}

func TestRun_UsernameUnique(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	insert := "INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)"
	if _, err := db.ExecContext(ctx, insert, "aaaaaaaaaaaaaaaaaaaaaaaa", "alice", "h"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.ExecContext(ctx, insert, "bbbbbbbbbbbbbbbbbbbbbbbb", "alice", "h"); err == nil {
		t.Fatal("expected unique constraint violation for duplicate username")
	}
}
