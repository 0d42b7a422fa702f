// Package invoker calls projection functions.
package invoker

import (
	"fmt"

	"github.com/dogmatiq/projector/projection"
	"google.golang.org/protobuf/types/known/structpb"
)

// Invoke calls the projection function that implements b.
//
// It returns a [*projection.ProjectionNotFoundError] if no function is
// registered for b. A panic within the projection function is returned as an
// error.
func Invoke(
	r *projection.Registry,
	b projection.Binding,
	entity *structpb.Struct,
	current *projection.ReadModel,
) (o projection.Outcome, err error) {
	fn, ok := r.Func(b)
	if !ok {
		return projection.Outcome{}, &projection.ProjectionNotFoundError{
			EntityTypeName:    b.EntityTypeName,
			ReadModelTypeName: b.ReadModelTypeName,
		}
	}

	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Binding: b, Value: v}
		}
	}()

	return fn(entity, current), nil
}

// PanicError is returned by [Invoke] when a projection function panics.
type PanicError struct {
	Binding projection.Binding
	Value   any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf(
		"projection of %s to %s panicked: %v",
		e.Binding.EntityTypeName,
		e.Binding.ReadModelTypeName,
		e.Value,
	)
}
