package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // register "sqlite3" driver
)

// Open opens the SQLite database at the given path, creating it if it does not
// exist, and applies the pragmas required by [Provider].
//
// It does not create the schema, see [CreateSchema].
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("unable to execute %q: %w", pragma, err)
		}
	}

	return db, nil
}

// CreateSchema creates the SQLite schema elements required by [Provider].
func CreateSchema(
	ctx context.Context,
	db *sql.DB,
) error {
	_, err := db.ExecContext(
		ctx,
		`CREATE TABLE IF NOT EXISTS projector_readmodel (
			type     TEXT NOT NULL,
			id       TEXT NOT NULL,
			revision INTEGER NOT NULL,
			value    BLOB NOT NULL,

			PRIMARY KEY (type, id)
		)`,
	)

	return err
}
