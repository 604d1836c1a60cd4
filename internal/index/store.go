// Package index exports semantic models into a SQLite database so scopes,
// symbols and references can be queried with plain SQL.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the index tables.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath with WAL mode enabled.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for ad-hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id            INTEGER PRIMARY KEY,
  path          TEXT NOT NULL UNIQUE,
  language      TEXT NOT NULL,
  hash          TEXT NOT NULL,
  module        BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS scopes (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  local_id        INTEGER NOT NULL,
  parent_scope_id INTEGER REFERENCES scopes(id),
  kind            TEXT NOT NULL,
  flags           TEXT NOT NULL,
  strict          BOOLEAN NOT NULL DEFAULT FALSE,
  start_line      INTEGER,
  start_col       INTEGER,
  end_line        INTEGER,
  end_col         INTEGER
);

CREATE TABLE IF NOT EXISTS symbols (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  scope_id        INTEGER NOT NULL REFERENCES scopes(id),
  name            TEXT NOT NULL,
  flags           TEXT NOT NULL,
  redeclarations  INTEGER NOT NULL DEFAULT 0,
  start_line      INTEGER,
  start_col       INTEGER,
  end_line        INTEGER,
  end_col         INTEGER
);

CREATE TABLE IF NOT EXISTS refs (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  scope_id        INTEGER NOT NULL REFERENCES scopes(id),
  symbol_id       INTEGER REFERENCES symbols(id),
  name            TEXT NOT NULL,
  flags           TEXT NOT NULL,
  start_line      INTEGER,
  start_col       INTEGER,
  end_line        INTEGER,
  end_col         INTEGER
);

CREATE INDEX IF NOT EXISTS idx_scopes_file ON scopes(file_id);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id);
CREATE INDEX IF NOT EXISTS idx_refs_symbol ON refs(symbol_id);
CREATE INDEX IF NOT EXISTS idx_refs_name ON refs(name);
`
