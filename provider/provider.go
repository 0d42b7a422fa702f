// Package provider defines the interface between the projection engine and the
// storage backend that holds read models.
package provider

import (
	"context"
	"fmt"

	"github.com/dogmatiq/projector/projection"
)

// A Provider persists read models.
//
// Implementations must provide per-key atomicity for each individual call.
// They are not expected to provide atomicity across calls.
type Provider interface {
	// Fetch returns the read model of the given type with the given ID.
	//
	// It returns nil if the read model does not exist.
	Fetch(ctx context.Context, readModelType, id string) (*projection.ReadModel, error)

	// Store persists rm, replacing any existing read model of the same type
	// with the same ID.
	//
	// The write succeeds only if the revision of the stored read model is
	// equal to rm.Revision, where a read model that does not exist has a
	// revision of zero. The stored read model's revision becomes
	// rm.Revision + 1. Otherwise, it returns a [ConflictError].
	Store(ctx context.Context, readModelType string, rm *projection.ReadModel) error

	// Delete removes rm, which is the read model as previously returned by
	// Fetch.
	//
	// The delete succeeds only if the revision of the stored read model is
	// equal to rm.Revision, otherwise it returns a [ConflictError]. Deleting a
	// read model that does not exist is not an error. If rm is nil, it is a
	// no-op.
	Delete(ctx context.Context, readModelType string, rm *projection.ReadModel) error
}

// ConflictError is returned when a read model can not be written because its
// revision does not match the revision in the store.
type ConflictError struct {
	ReadModelTypeName string
	ID                string
	Revision          uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"optimistic concurrency conflict on %s read model %q: revision %d is not the current revision",
		e.ReadModelTypeName,
		e.ID,
		e.Revision,
	)
}
