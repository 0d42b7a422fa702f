// Package projection defines the types used to derive read models from entity
// snapshots.
//
// A [Registry] maps entity types to the read models that are projected from
// them. Each read model is produced by a [Func], a pure function of the entity
// snapshot and the current state of the read model, which returns an [Outcome]
// describing how the read model changes.
package projection
