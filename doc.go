// Package projector materializes read models from entity snapshots.
//
// Each [projection.EntitySnapshot] is projected into every read model bound to
// its entity type. The bindings are processed concurrently and their outcomes
// are committed through a [provider.Provider].
package projector
