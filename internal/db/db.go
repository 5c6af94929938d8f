package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	// Drivers registered under "mysql" and "sqlite3".
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/chimera/internal/config"
)

// Open prepares a pool for the configured database. Connections are made
// lazily; callers ping through the store to check reachability.
// The pool holds a single connection: one caller, one transaction at a time.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	database, err := sqlx.Open(cfg.DriverName(), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	database.SetMaxOpenConns(1)
	return database, nil
}

// OpenMemory opens an in-memory SQLite database with foreign keys enforced.
// Used by tests and demos.
func OpenMemory() (*sqlx.DB, error) {
	database, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	database.SetMaxOpenConns(1)
	return database, nil
}
