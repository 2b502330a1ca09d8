package mappingstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const createMappingsTable = `CREATE TABLE IF NOT EXISTS mappings (
	ocr_name   TEXT PRIMARY KEY,
	catalog_id TEXT NOT NULL
)`

// SQLiteStore keeps learned mappings in a single SQLite table
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (and creates if needed) the database at path
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time keeps SQLite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createMappingsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create mappings table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads every stored mapping
func (s *SQLiteStore) Load(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ocr_name, catalog_id FROM mappings`)
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()

	mappings := map[string]string{}
	for rows.Next() {
		var name, id string
		if err := rows.Scan(&name, &id); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		mappings[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mappings: %w", err)
	}
	return mappings, nil
}

// Save replaces the table content with mappings in one transaction
func (s *SQLiteStore) Save(ctx context.Context, mappings map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mappings`); err != nil {
		return fmt.Errorf("clear mappings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO mappings (ocr_name, catalog_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for name, id := range mappings {
		if _, err := stmt.ExecContext(ctx, name, id); err != nil {
			return fmt.Errorf("insert mapping %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mappings: %w", err)
	}
	return nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
