// internal/db/db.go
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB is the sqlite handle shared by every store in the application.
type DB struct {
	*sql.DB
}

// New opens (or creates) the database at path and applies the pragmas
// the stores depend on: WAL so dashboard reads never block the callback
// and refresh writers, foreign keys for the user-scoped cascades, and a
// busy timeout so short write bursts queue instead of erroring.
func New(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := sqldb.Exec(pragma); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	return &DB{sqldb}, nil
}
