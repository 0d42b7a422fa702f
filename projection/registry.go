package projection

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Binding associates an entity type with a read model that is projected from
// it.
type Binding struct {
	// EntityTypeName is the name of the entity type that the read model is
	// projected from.
	EntityTypeName string

	// ReadModelTypeName is the name of the projected read model's type.
	ReadModelTypeName string

	// JoinKey is the name of the entity field that holds the ID of the read
	// model.
	JoinKey string
}

func (b Binding) String() string {
	return fmt.Sprintf("%s -> %s (join key %q)", b.EntityTypeName, b.ReadModelTypeName, b.JoinKey)
}

type funcKey struct {
	EntityTypeName    string
	ReadModelTypeName string
}

func (b Binding) key() funcKey {
	return funcKey{b.EntityTypeName, b.ReadModelTypeName}
}

// Registry is an immutable set of projection bindings and the functions that
// implement them.
//
// It is built once at startup using a [RegistryBuilder].
type Registry struct {
	bindings map[string][]Binding
	funcs    map[funcKey]Func
}

// Bindings returns the bindings for the given entity type, in the order they
// were declared.
func (r *Registry) Bindings(entityType string) []Binding {
	if r == nil {
		return nil
	}
	return slices.Clone(r.bindings[entityType])
}

// Func returns the projection function that implements b.
func (r *Registry) Func(b Binding) (Func, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.funcs[b.key()]
	return fn, ok
}

// EntityTypes returns the names of the entity types that have at least one
// binding, in lexical order.
func (r *Registry) EntityTypes() []string {
	if r == nil {
		return nil
	}
	types := maps.Keys(r.bindings)
	slices.Sort(types)
	return types
}

// RegistryBuilder builds a [Registry].
//
// The zero value is ready to use.
type RegistryBuilder struct {
	bindings map[string][]Binding
	declared map[funcKey]struct{}
	funcs    map[funcKey]Func
}

// Bind declares a binding between an entity type and a read model type and
// registers the function that implements it.
func (b *RegistryBuilder) Bind(
	entityType, readModelType, joinKey string,
	fn Func,
) *RegistryBuilder {
	b.Declare(entityType, readModelType, joinKey)
	return b.Implement(entityType, readModelType, fn)
}

// Declare declares a binding between an entity type and a read model type
// without registering its implementation.
//
// It panics if the binding has already been declared.
func (b *RegistryBuilder) Declare(
	entityType, readModelType, joinKey string,
) *RegistryBuilder {
	if entityType == "" {
		panic("entity type name must not be empty")
	}
	if readModelType == "" {
		panic("read model type name must not be empty")
	}
	if joinKey == "" {
		panic("join key must not be empty")
	}

	binding := Binding{entityType, readModelType, joinKey}
	k := binding.key()

	if _, ok := b.declared[k]; ok {
		panic(fmt.Sprintf(
			"%s is already bound to %s",
			readModelType,
			entityType,
		))
	}

	if b.bindings == nil {
		b.bindings = map[string][]Binding{}
		b.declared = map[funcKey]struct{}{}
	}

	b.bindings[entityType] = append(b.bindings[entityType], binding)
	b.declared[k] = struct{}{}

	return b
}

// Implement registers the function that projects an entity type to a read
// model type.
//
// It panics if fn is nil or a function is already registered for the pair.
func (b *RegistryBuilder) Implement(
	entityType, readModelType string,
	fn Func,
) *RegistryBuilder {
	if fn == nil {
		panic("projection function must not be nil")
	}

	k := funcKey{entityType, readModelType}

	if _, ok := b.funcs[k]; ok {
		panic(fmt.Sprintf(
			"projection of %s to %s is already implemented",
			entityType,
			readModelType,
		))
	}

	if b.funcs == nil {
		b.funcs = map[funcKey]Func{}
	}

	b.funcs[k] = fn

	return b
}

// Build returns a [Registry] containing the bindings and functions registered
// so far.
//
// Subsequent changes to the builder do not affect the returned registry.
func (b *RegistryBuilder) Build() *Registry {
	r := &Registry{
		bindings: make(map[string][]Binding, len(b.bindings)),
		funcs:    maps.Clone(b.funcs),
	}

	for t, bindings := range b.bindings {
		r.bindings[t] = slices.Clone(bindings)
	}

	return r
}
