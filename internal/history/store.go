// Package history persists the gallery in SQLite so separate CLI runs share
// one list of uploads and exports.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gogpu/ggedit"
)

const schema = `
CREATE TABLE IF NOT EXISTS gallery (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	original   TEXT NOT NULL,
	edited     TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
)`

// Store is a ggedit.Gallery backed by a SQLite table. Rows are only ever
// inserted; All returns them in insertion order.
type Store struct {
	db *sql.DB
}

var _ ggedit.Gallery = (*Store)(nil)

// Open opens (creating if needed) the history database at path.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	// One connection keeps ":memory:" a single database and serializes writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Append inserts e.
func (s *Store) Append(ctx context.Context, e ggedit.Entry) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gallery (original, edited, created_at) VALUES (?, ?, ?)`,
		string(e.Original), string(e.Edited), created.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

// All returns every entry in insertion order.
func (s *Store) All(ctx context.Context) ([]ggedit.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT original, edited, created_at FROM gallery ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ggedit.Entry
	for rows.Next() {
		var (
			original, edited string
			created          int64
		)
		if err := rows.Scan(&original, &edited, &created); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		out = append(out, ggedit.Entry{
			Original:  ggedit.Handle(original),
			Edited:    ggedit.Handle(edited),
			CreatedAt: time.Unix(0, created).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	return out, nil
}

// Count returns the number of entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gallery`).Scan(&n); err != nil {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}
