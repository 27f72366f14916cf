package ecs

import (
	"iter"
	"reflect"
)

// Query[P] selects entities carrying a component of type P, optionally
// narrowed by With/Without filters over other component types. A Query is
// a pure, immutable value: building one does no work at all, and the same
// value can be reused across many ticks or held as a system field. All
// work happens lazily, inside Iter/IterEphemeral/Len, against whatever
// World state exists at call time.
type Query[P any] struct {
	withTypes        []reflect.Type
	withoutTypes     []reflect.Type
	withEphemeral    []reflect.Type
	withoutEphemeral []reflect.Type
}

// NewQuery returns the query matching every entity with a P, unfiltered.
func NewQuery[P any]() Query[P] {
	return Query[P]{}
}

// With narrows the query to entities that also carry every type in types,
// in the regular partition. Use C[T]() to build tokens, since a method
// cannot add a type parameter of its own. To test for an ephemeral
// component instead, use WithEphemeral: overloading With to mean either
// partition depending on argument would make a query's meaning depend on
// what the caller happens to have spawned that tick.
func (q Query[P]) With(types ...reflect.Type) Query[P] {
	q.withTypes = append(append([]reflect.Type{}, q.withTypes...), types...)
	return q
}

// Without narrows the query to entities that carry none of types, in the
// regular partition.
func (q Query[P]) Without(types ...reflect.Type) Query[P] {
	q.withoutTypes = append(append([]reflect.Type{}, q.withoutTypes...), types...)
	return q
}

// WithEphemeral narrows the query to entities that carry every type in
// types as an ephemeral component this tick.
func (q Query[P]) WithEphemeral(types ...reflect.Type) Query[P] {
	q.withEphemeral = append(append([]reflect.Type{}, q.withEphemeral...), types...)
	return q
}

// WithoutEphemeral narrows the query to entities that carry none of types
// as an ephemeral component this tick.
func (q Query[P]) WithoutEphemeral(types ...reflect.Type) Query[P] {
	q.withoutEphemeral = append(append([]reflect.Type{}, q.withoutEphemeral...), types...)
	return q
}

func (q Query[P]) matches(w *World, e Entity) bool {
	for _, t := range q.withTypes {
		if !w.regular.has(t, e) {
			return false
		}
	}
	for _, t := range q.withoutTypes {
		if w.regular.has(t, e) {
			return false
		}
	}
	for _, t := range q.withEphemeral {
		if !w.ephemeral.has(t, e) {
			return false
		}
	}
	for _, t := range q.withoutEphemeral {
		if w.ephemeral.has(t, e) {
			return false
		}
	}
	return true
}

// Iter iterates every entity with a regular P matching the query's
// filters, in the underlying store's dense order. Safe to call during a
// system's phase: despawns and component changes made from the loop body
// are deferred until the phase ends, so the backing store does not change
// under the iteration (invariant I5). Outside a phase those calls apply
// immediately, so the loop body must not remove P components or despawn
// entities then.
func (q Query[P]) Iter(w *World) iter.Seq2[Entity, P] {
	store := getStore[P](w.regular)
	if store == nil {
		return func(func(Entity, P) bool) {}
	}
	return func(yield func(Entity, P) bool) {
		for e, v := range store.iter() {
			if !q.matches(w, e) {
				continue
			}
			if !yield(e, v) {
				return
			}
		}
	}
}

// IterEphemeral is Iter over the ephemeral partition's P store instead of
// the regular one (§4.3): used to react to this tick's transient events.
func (q Query[P]) IterEphemeral(w *World) iter.Seq2[Entity, P] {
	store := getStore[P](w.ephemeral)
	if store == nil {
		return func(func(Entity, P) bool) {}
	}
	return func(yield func(Entity, P) bool) {
		for e, v := range store.iter() {
			if !q.matches(w, e) {
				continue
			}
			if !yield(e, v) {
				return
			}
		}
	}
}

// Len counts the matches Iter would yield, without allocating a slice.
func (q Query[P]) Len(w *World) int {
	n := 0
	for range q.Iter(w) {
		n++
	}
	return n
}

// LenEphemeral counts the matches IterEphemeral would yield.
func (q Query[P]) LenEphemeral(w *World) int {
	n := 0
	for range q.IterEphemeral(w) {
		n++
	}
	return n
}
