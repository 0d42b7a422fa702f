package postgres

import (
	"context"
	"database/sql"
)

// CreateSchema creates the PostgreSQL schema elements required by [Provider].
func CreateSchema(
	ctx context.Context,
	db *sql.DB,
) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // nolint:errcheck

	if _, err := tx.ExecContext(ctx, `CREATE SCHEMA IF NOT EXISTS projector`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(
		ctx,
		`CREATE TABLE IF NOT EXISTS projector.readmodel (
			type     TEXT NOT NULL,
			id       TEXT NOT NULL,
			revision BIGINT NOT NULL,
			value    BYTEA NOT NULL,

			PRIMARY KEY (type, id)
		)`,
	); err != nil {
		return err
	}

	return tx.Commit()
}
