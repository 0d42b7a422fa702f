package projection

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
)

// InvalidParameterError indicates that an entity snapshot does not contain a
// usable value for a binding's join key.
type InvalidParameterError struct {
	Field    string
	Snapshot EntitySnapshot
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf(
		"could not find the join key named %q in %s entity snapshot: %s",
		e.Field,
		e.Snapshot.EntityTypeName,
		protojson.Format(e.Snapshot.Value),
	)
}

// ProjectionNotFoundError indicates that a binding has been declared without a
// function that implements it.
type ProjectionNotFoundError struct {
	EntityTypeName    string
	ReadModelTypeName string
}

func (e *ProjectionNotFoundError) Error() string {
	return fmt.Sprintf(
		"could not load the projection function for the %s read model (from %s)",
		e.ReadModelTypeName,
		e.EntityTypeName,
	)
}

// IDMismatchError indicates that a projection function returned a replacement
// read model whose ID differs from the join key value it was projected for.
type IDMismatchError struct {
	ReadModelTypeName string
	JoinKeyValue      string
	ID                string
}

func (e *IDMismatchError) Error() string {
	return fmt.Sprintf(
		"the replacement %s read model has ID %q, expected the join key value %q",
		e.ReadModelTypeName,
		e.ID,
		e.JoinKeyValue,
	)
}

// BindingError wraps an error that occurred while projecting an entity
// snapshot via a specific binding.
type BindingError struct {
	Binding Binding
	Err     error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf(
		"unable to project %s to %s (join key %q): %s",
		e.Binding.EntityTypeName,
		e.Binding.ReadModelTypeName,
		e.Binding.JoinKey,
		e.Err,
	)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}
