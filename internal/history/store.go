// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite ledger of notebook conversions.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/nbexport/pkg/types"
)

const defaultListLimit = 50

// Store records conversion attempts in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating its parent
// directory and schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			notebook TEXT NOT NULL,
			output TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			bytes INTEGER NOT NULL DEFAULT 0,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_notebook ON conversions(notebook)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one conversion attempt.
func (s *Store) Record(ctx context.Context, c types.Conversion) error {
	if c.ConvertedAt.IsZero() {
		c.ConvertedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (notebook, output, status, error, bytes, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.Notebook, c.Output, string(c.Status), c.Error, c.Bytes,
		c.ConvertedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting conversion for %s: %w", c.Notebook, err)
	}
	return nil
}

// List returns the most recent conversions, newest first. A non-positive
// limit uses the default of 50.
func (s *Store) List(ctx context.Context, limit int) ([]types.Conversion, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT notebook, output, status, COALESCE(error, ''), bytes, converted_at
		 FROM conversions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var out []types.Conversion
	for rows.Next() {
		var c types.Conversion
		var status, ts string
		if err := rows.Scan(&c.Notebook, &c.Output, &status, &c.Error, &c.Bytes, &ts); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		c.Status = types.ConversionStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			c.ConvertedAt = t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
