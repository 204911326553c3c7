package sqlite

import (
	_ "embed"
	"fmt"

	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Open creates or opens the mirror database at the given path, applying
// pragmas and the schema. Safe to call on an existing database.
//
// The connection is configured with:
//   - WAL mode so cached reads proceed while a merge commits
//   - foreign key enforcement (cascade deletes between entity tables)
//   - a busy timeout instead of immediate SQLITE_BUSY errors
//   - a single writer connection, which is all sqlite supports anyway
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return db, nil
}

// OpenInMemory returns a fresh private in-memory database with the schema
// applied. Intended for tests.
func OpenInMemory() (*sql.DB, error) {
	return Open(":memory:")
}
