// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists corpus records in a SQLite database so that a
// converted corpus can be queried with SQL. Each database holds one
// records table; rows keep the document order of the source file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/smoking-convert/pkg/types"
)

// Ext is the file extension of databases written by Sink.
const Ext = ".db"

// Store wraps an open records database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and creates the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
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

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			text TEXT NOT NULL,
			label TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_label ON records(label)`,
		`CREATE INDEX IF NOT EXISTS idx_records_id ON records(id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Replace deletes all rows and inserts ds in one transaction. Row positions
// are the zero-based dataset indexes.
func (s *Store) Replace(ctx context.Context, ds types.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (position, id, text, label) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range ds {
		if _, err := stmt.ExecContext(ctx, i, r.ID, r.Text, r.Label); err != nil {
			return fmt.Errorf("inserting record %d (ID %q): %w", i, r.ID, err)
		}
	}

	return tx.Commit()
}

// Dataset reads all records back in position order.
func (s *Store) Dataset(ctx context.Context) (types.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text, label, id FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	ds := types.Dataset{}
	for rows.Next() {
		var r types.Record
		if err := rows.Scan(&r.Text, &r.Label, &r.ID); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		ds = append(ds, r)
	}
	return ds, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Sink writes datasets as SQLite databases. The database is built in a
// temp file beside the target and renamed into place, so a failed write
// never leaves a partial database at the target path.
type Sink struct{}

func (Sink) Ext() string { return Ext }

func (Sink) Write(ctx context.Context, path string, ds types.Dataset) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := build(ctx, tmpPath, ds); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func build(ctx context.Context, path string, ds types.Dataset) error {
	s, err := Open(path)
	if err != nil {
		return err
	}
	if err := s.Replace(ctx, ds); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}

// ReadFile opens the database at path and returns its records.
func ReadFile(ctx context.Context, path string) (types.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Dataset(ctx)
}
