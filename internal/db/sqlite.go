package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// timeFormat is how timestamps are stored in SQLite text columns.
const timeFormat = "2006-01-02T15:04:05Z"

// DB wraps the SQLite connection backing the card library and search history
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and initializes the schema
func New(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createCharactersTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create characters schema: %w", err)
	}

	if _, err := conn.Exec(createSearchesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create searches schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
