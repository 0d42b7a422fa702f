// Package sqlite is an implementation of [provider.Provider] that stores read
// models in an SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dogmatiq/projector/projection"
	"github.com/dogmatiq/projector/provider"
	"github.com/dogmatiq/projector/provider/internal/codec"
)

// Provider is an implementation of [provider.Provider] that stores read models
// in an SQLite table.
//
// The schema must be created using [CreateSchema] before the provider is used.
type Provider struct {
	// DB is the SQLite database connection.
	DB *sql.DB
}

var _ provider.Provider = (*Provider)(nil)

// Fetch returns the read model of the given type with the given ID.
func (p *Provider) Fetch(
	ctx context.Context,
	readModelType, id string,
) (*projection.ReadModel, error) {
	row := p.DB.QueryRowContext(
		ctx,
		`SELECT
			revision,
			value
		FROM projector_readmodel
		WHERE type = ?
		AND id = ?`,
		readModelType,
		id,
	)

	var (
		rev  int64
		data []byte
	)

	if err := row.Scan(&rev, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	v, err := codec.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	return &projection.ReadModel{
		ID:       id,
		Revision: uint64(rev),
		Value:    v,
	}, nil
}

// Store persists rm.
func (p *Provider) Store(
	ctx context.Context,
	readModelType string,
	rm *projection.ReadModel,
) error {
	data, err := codec.Marshal(rm.Value)
	if err != nil {
		return err
	}

	var res sql.Result

	if rm.Revision == 0 {
		res, err = p.DB.ExecContext(
			ctx,
			`INSERT INTO projector_readmodel (
				type,
				id,
				revision,
				value
			) VALUES (
				?, ?, 1, ?
			) ON CONFLICT (type, id) DO NOTHING`,
			readModelType,
			rm.ID,
			data,
		)
	} else {
		res, err = p.DB.ExecContext(
			ctx,
			`UPDATE projector_readmodel SET
				revision = revision + 1,
				value = ?
			WHERE type = ?
			AND id = ?
			AND revision = ?`,
			data,
			readModelType,
			rm.ID,
			int64(rm.Revision),
		)
	}

	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n != 1 {
		return conflict(readModelType, rm)
	}

	return nil
}

// Delete removes rm.
func (p *Provider) Delete(
	ctx context.Context,
	readModelType string,
	rm *projection.ReadModel,
) error {
	if rm == nil {
		return nil
	}

	res, err := p.DB.ExecContext(
		ctx,
		`DELETE FROM projector_readmodel
		WHERE type = ?
		AND id = ?
		AND revision = ?`,
		readModelType,
		rm.ID,
		int64(rm.Revision),
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil || n != 0 {
		return err
	}

	current, err := p.Fetch(ctx, readModelType, rm.ID)
	if err != nil || current == nil {
		return err
	}

	return conflict(readModelType, rm)
}

func conflict(readModelType string, rm *projection.ReadModel) error {
	return &provider.ConflictError{
		ReadModelTypeName: readModelType,
		ID:                rm.ID,
		Revision:          rm.Revision,
	}
}
