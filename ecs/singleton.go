package ecs

// Singleton accesses global, non-entity-scoped state: world configuration,
// RNG seeds, a shared clock, whatever a simulation needs exactly one of.
// Unlike the teacher's archetype-backed version, this one does not cache a
// raw pointer into component storage — there is no stable backing array
// to point into under a flat, swap-remove-based store — so every access
// re-resolves through the World's singleton map.
type Singleton[T any] struct{}

// NewSingleton returns a handle for singleton type T. The handle itself
// carries no state; the value lives on the World.
func NewSingleton[T any]() Singleton[T] {
	return Singleton[T]{}
}

// Get returns T's current value and whether it has been Set.
func (Singleton[T]) Get(w *World) (T, bool) {
	v, ok := w.singletons[typeOf[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// GetOrInit returns T's current value, initializing it to zero first if
// absent.
func (s Singleton[T]) GetOrInit(w *World) T {
	v, ok := s.Get(w)
	if !ok {
		var zero T
		s.Set(w, zero)
		return zero
	}
	return v
}

// Set overwrites T's value, creating it if absent.
func (Singleton[T]) Set(w *World, v T) {
	w.singletons[typeOf[T]()] = v
}
