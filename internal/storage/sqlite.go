// Package storage provides the SQLite-backed store for papers, tags, and
// reading history. It implements the read interfaces the recommendation
// engine depends on.
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Papers with their embeddings (BLOB of little-endian float32s,
		-- NULL while the paper is pending embedding)
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			arxiv_id TEXT,
			doi TEXT,
			title TEXT NOT NULL,
			authors_json TEXT NOT NULL,
			abstract TEXT,
			category TEXT,
			pdf_url TEXT,
			published INTEGER,
			embedding BLOB,
			created_at INTEGER NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_papers_arxiv
			ON papers(arxiv_id) WHERE arxiv_id IS NOT NULL AND arxiv_id != '';
		CREATE INDEX IF NOT EXISTS idx_papers_category ON papers(category);

		-- User-defined tags
		CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS paper_tags (
			paper_id TEXT NOT NULL,
			tag_id INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			UNIQUE(paper_id, tag_id)
		);

		-- Reading history; events accumulate and are never deleted by the
		-- recommendation path
		CREATE TABLE IF NOT EXISTS reading_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			paper_id TEXT NOT NULL,
			read_at INTEGER NOT NULL,
			rating INTEGER,
			notes TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_history_user_time
			ON reading_history(user_id, read_at DESC);

		-- Per-paper embedding provenance for staleness detection
		CREATE TABLE IF NOT EXISTS embedding_metadata (
			paper_id TEXT PRIMARY KEY,
			model_name TEXT NOT NULL,
			embedded_at INTEGER NOT NULL,
			text_hash TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}
