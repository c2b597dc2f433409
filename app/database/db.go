package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sql connection so repositories share one handle.
type DB struct {
	*sql.DB
}

// NewConnection opens (and creates if necessary) the sqlite database at the
// given path. WAL mode keeps the API readable while ingest tasks write.
func NewConnection(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// sqlite allows a single writer; serialize access through one connection.
	db.SetMaxOpenConns(1)

	return &DB{DB: db}, nil
}
