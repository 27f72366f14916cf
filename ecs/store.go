package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

// anyStore is the type-erased view of a genericStore[T], used wherever the
// concrete component type isn't statically known at the call site: despawn
// cleanup across every registered type, ephemeral clear-all, and a query's
// .With/.Without filters.
type anyStore interface {
	has(e Entity) bool
	remove(e Entity) bool
	clear()
	len() int
	getAny(e Entity) (any, bool)
	setAny(e Entity, v any) bool
}

// genericStore holds Entity -> T for exactly one component type T. It is a
// dense/sparse pair: dense slices for allocation-free iteration, an intmap
// index for O(1) lookup, and swap-remove on delete so the dense slices never
// develop holes.
type genericStore[T any] struct {
	index    *intmap.Map[Entity, int]
	entities []Entity
	values   []T
}

func newGenericStore[T any]() *genericStore[T] {
	return &genericStore[T]{
		index:    intmap.New[Entity, int](64),
		entities: make([]Entity, 0, 64),
		values:   make([]T, 0, 64),
	}
}

func (s *genericStore[T]) has(e Entity) bool {
	_, ok := s.index.Get(e)
	return ok
}

// insert adds a new value for e. Callers must check has(e) first; insert
// does not overwrite an existing entry (that is replace's job).
func (s *genericStore[T]) insert(e Entity, v T) {
	pos := len(s.values)
	s.entities = append(s.entities, e)
	s.values = append(s.values, v)
	s.index.Put(e, pos)
}

func (s *genericStore[T]) get(e Entity) (T, bool) {
	pos, ok := s.index.Get(e)
	if !ok {
		var zero T
		return zero, false
	}
	return s.values[pos], true
}

// replace overwrites the value for e, returning the prior value. Callers
// must check has(e) first.
func (s *genericStore[T]) replace(e Entity, v T) T {
	pos, _ := s.index.Get(e)
	prior := s.values[pos]
	s.values[pos] = v
	return prior
}

// remove deletes e's value via swap-remove, returning false if absent.
func (s *genericStore[T]) remove(e Entity) bool {
	pos, ok := s.index.Get(e)
	if !ok {
		return false
	}

	last := len(s.values) - 1
	if pos != last {
		movedEntity := s.entities[last]
		s.entities[pos] = movedEntity
		s.values[pos] = s.values[last]
		s.index.Put(movedEntity, pos)
	}
	var zero T
	s.entities = s.entities[:last]
	s.values[last] = zero
	s.values = s.values[:last]
	s.index.Del(e)
	return true
}

// removeValue is remove, but also returns the removed value.
func (s *genericStore[T]) removeValue(e Entity) (T, bool) {
	pos, ok := s.index.Get(e)
	if !ok {
		var zero T
		return zero, false
	}
	v := s.values[pos]
	s.remove(e)
	return v, true
}

func (s *genericStore[T]) clear() {
	s.entities = s.entities[:0]
	s.values = s.values[:0]
	s.index.Clear()
}

func (s *genericStore[T]) len() int {
	return len(s.entities)
}

// getAny/setAny back anyStore's type-erased access, used by reflection-
// driven tooling (ecs/debugui) that only has a reflect.Type, not T.
func (s *genericStore[T]) getAny(e Entity) (any, bool) {
	pos, ok := s.index.Get(e)
	if !ok {
		return nil, false
	}
	return s.values[pos], true
}

func (s *genericStore[T]) setAny(e Entity, v any) bool {
	pos, ok := s.index.Get(e)
	if !ok {
		return false
	}
	s.values[pos] = v.(T)
	return true
}

// iter yields (Entity, T) pairs in the store's dense order, zero allocation.
func (s *genericStore[T]) iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for i, e := range s.entities {
			if !yield(e, s.values[i]) {
				return
			}
		}
	}
}

// typeOf is the internal type-token constructor behind C: Go methods cannot
// introduce their own type parameters, so component types are passed to
// Query.With/Without as reflect.Type values produced by a free function
// instead of a generic builder method.
func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// C returns the type token for T, for use with Query.With/Query.Without.
func C[T any]() reflect.Type {
	return typeOf[T]()
}

// partition is one of the two storage halves a World holds: regular
// components or ephemeral components (§3/§4.3). They are structurally
// identical map[reflect.Type]anyStore instances that never interfere with
// each other (invariant I2).
type partition struct {
	stores map[reflect.Type]anyStore
}

func newPartition() *partition {
	return &partition{stores: make(map[reflect.Type]anyStore)}
}

func getStore[T any](p *partition) *genericStore[T] {
	t := typeOf[T]()
	s, ok := p.stores[t]
	if !ok {
		return nil
	}
	return s.(*genericStore[T])
}

func getOrCreateStore[T any](p *partition) *genericStore[T] {
	t := typeOf[T]()
	s, ok := p.stores[t]
	if ok {
		return s.(*genericStore[T])
	}
	ns := newGenericStore[T]()
	p.stores[t] = ns
	return ns
}

// removeEntity drops e from every store in the partition, regardless of
// component type. Used by despawn (both partitions); ephemeral clear-all
// uses clearAll instead, since it drops everything, not just one entity's
// slice of it.
func (p *partition) removeEntity(e Entity) {
	for _, s := range p.stores {
		s.remove(e)
	}
}

func (p *partition) clearAll() {
	for _, s := range p.stores {
		s.clear()
	}
}

func (p *partition) has(t reflect.Type, e Entity) bool {
	s, ok := p.stores[t]
	if !ok {
		return false
	}
	return s.has(e)
}
