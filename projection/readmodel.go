package projection

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// EntitySnapshot is the state of an entity after some event has been applied
// to it.
type EntitySnapshot struct {
	// EntityTypeName is the name of the entity's type.
	EntityTypeName string

	// Value is the entity's state. Its fields are accessed by name.
	Value *structpb.Struct
}

// ReadModel is the materialized state of a single read-model instance.
//
// A read model is uniquely addressed by the name of its type and its ID.
type ReadModel struct {
	// ID is the read model's identifier. It is the value of the join key of
	// the projection that produced it.
	//
	// A projection function may leave it empty when returning a replacement,
	// in which case the join key value is used.
	ID string

	// Revision is the version of the read model as known by the provider that
	// stores it. It is used for optimistic concurrency control.
	//
	// A zero revision indicates a read model that has never been stored. The
	// revision of a replacement returned by a projection function is ignored;
	// the revision of the fetched read model is used instead.
	Revision uint64

	// Value is the read model's content.
	Value *structpb.Struct
}
