package ecs

import (
	"io"
	"reflect"

	"github.com/sirupsen/logrus"
)

// Phase identifies where in a scheduler tick a World currently is. Outside
// any tick (Idle), mutators apply immediately; during BeforeRun/Run/
// AfterRun they are deferred (§4.4/§4.5/§5).
type Phase int

const (
	Idle Phase = iota
	BeforeRun
	Run
	AfterRun
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case BeforeRun:
		return "BeforeRun"
	case Run:
		return "Run"
	case AfterRun:
		return "AfterRun"
	default:
		return "Unknown"
	}
}

// World aggregates the entity allocator, the regular and ephemeral
// component partitions, and the deferred mutation buffer into the single
// mutable object systems operate on.
type World struct {
	allocator *allocator
	regular   *partition
	ephemeral *partition
	deferred  []func(*World)
	phase     Phase
	logger    *logrus.Logger

	singletons map[reflect.Type]any
}

// WorldOption configures a World at construction time.
type WorldOption func(*World)

// WithLogger sets the logger used for debug-only visibility into dropped
// deferred operations (§7). A nil logger is treated as a discard sink.
func WithLogger(logger *logrus.Logger) WorldOption {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorld creates an empty World ready for spawning entities.
func NewWorld(opts ...WorldOption) *World {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	w := &World{
		allocator:  newAllocator(),
		regular:    newPartition(),
		ephemeral:  newPartition(),
		logger:     discard,
		singletons: make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) inPhase() bool {
	return w.phase != Idle
}

// enqueue defers fn if a system phase is active, applying it immediately
// otherwise. fn must not itself call enqueue.
func (w *World) enqueue(fn func(*World)) {
	if w.inPhase() {
		w.deferred = append(w.deferred, fn)
		return
	}
	fn(w)
}

// flush applies every buffered deferred operation in enqueue order, then
// empties the buffer. Operations are applied with a silent precondition
// check embedded in each op (§4.4): a stale op (e.g. a replace on an
// entity despawned earlier in the same batch) simply does nothing.
func (w *World) flush() {
	if len(w.deferred) == 0 {
		return
	}
	ops := w.deferred
	w.deferred = w.deferred[:0]
	for _, op := range ops {
		op(w)
	}
}

// clearEphemeral drops every ephemeral component of every type (§4.3,
// invariant I4), called by the scheduler's cleanup phase.
func (w *World) clearEphemeral() {
	w.ephemeral.clearAll()
}

// ---- Entity lifecycle (§6) ----

// SpawnEntity creates a new entity, immediately visible to reads and
// queries regardless of phase.
func SpawnEntity(w *World) Entity {
	return w.allocator.spawn()
}

// IsAlive reports whether e has been spawned and not yet despawned.
func IsAlive(w *World, e Entity) bool {
	return w.allocator.isAlive(e)
}

// Entities iterates every currently alive entity.
func Entities(w *World) func(yield func(Entity) bool) {
	return w.allocator.entities()
}

// DespawnEntity retires e. Outside a system phase this applies immediately
// and its components are dropped from both partitions at once; during a
// phase it is deferred to the next flush point (§3 Lifecycles).
func DespawnEntity(w *World, e Entity) error {
	if w.inPhase() {
		w.deferred = append(w.deferred, func(w *World) {
			despawnNow(w, e)
		})
		return nil
	}
	return despawnNow(w, e)
}

func despawnNow(w *World, e Entity) error {
	if err := w.allocator.despawn(e); err != nil {
		return err
	}
	w.regular.removeEntity(e)
	w.ephemeral.removeEntity(e)
	return nil
}

// ---- Regular components (§6) ----

// AddComponent attaches v of type T to e. Fails with ComponentAlreadyExists
// if e already carries a T, or EntityNotFound if e isn't alive.
func AddComponent[T any](w *World, e Entity, v T) error {
	if w.inPhase() {
		w.deferred = append(w.deferred, func(w *World) {
			if err := addComponentNow(w, e, v); err != nil {
				w.logger.WithError(err).Debug("ecs: dropped deferred AddComponent")
			}
		})
		return nil
	}
	return addComponentNow(w, e, v)
}

func addComponentNow[T any](w *World, e Entity, v T) error {
	if !w.allocator.isAlive(e) {
		return errEntityNotFound(e)
	}
	store := getOrCreateStore[T](w.regular)
	if store.has(e) {
		return errComponentAlreadyExists(e, typeOf[T]())
	}
	store.insert(e, v)
	return nil
}

// ReplaceComponent overwrites e's T. Fails with ComponentNotFound if
// absent, or EntityNotFound if e isn't alive.
func ReplaceComponent[T any](w *World, e Entity, v T) error {
	if w.inPhase() {
		w.deferred = append(w.deferred, func(w *World) {
			if _, err := replaceComponentNow(w, e, v); err != nil {
				w.logger.WithError(err).Debug("ecs: dropped deferred ReplaceComponent")
			}
		})
		return nil
	}
	_, err := replaceComponentNow(w, e, v)
	return err
}

func replaceComponentNow[T any](w *World, e Entity, v T) (T, error) {
	var zero T
	if !w.allocator.isAlive(e) {
		return zero, errEntityNotFound(e)
	}
	store := getStore[T](w.regular)
	if store == nil || !store.has(e) {
		return zero, errComponentNotFound(e, typeOf[T]())
	}
	return store.replace(e, v), nil
}

// RemoveComponent detaches e's T, returning it. Fails with
// ComponentNotFound if absent, or EntityNotFound if e isn't alive. During
// a phase the removal is deferred and T's zero value is returned.
func RemoveComponent[T any](w *World, e Entity) (T, error) {
	if w.inPhase() {
		w.deferred = append(w.deferred, func(w *World) {
			if _, err := removeComponentNow[T](w, e); err != nil {
				w.logger.WithError(err).Debug("ecs: dropped deferred RemoveComponent")
			}
		})
		var zero T
		return zero, nil
	}
	return removeComponentNow[T](w, e)
}

func removeComponentNow[T any](w *World, e Entity) (T, error) {
	var zero T
	if !w.allocator.isAlive(e) {
		return zero, errEntityNotFound(e)
	}
	store := getStore[T](w.regular)
	if store == nil {
		return zero, errComponentNotFound(e, typeOf[T]())
	}
	v, ok := store.removeValue(e)
	if !ok {
		return zero, errComponentNotFound(e, typeOf[T]())
	}
	return v, nil
}

// GetComponent reads e's T, if present.
func GetComponent[T any](w *World, e Entity) (T, bool) {
	store := getStore[T](w.regular)
	if store == nil {
		var zero T
		return zero, false
	}
	return store.get(e)
}

// HasComponent reports whether e carries a T.
func HasComponent[T any](w *World, e Entity) bool {
	store := getStore[T](w.regular)
	if store == nil {
		return false
	}
	return store.has(e)
}

// ---- Ephemeral components (§6) ----
// Same six operations, same semantics, living in the separate ephemeral
// partition (§4.3) that the scheduler clears wholesale after every tick.

// AddEphemeralComponent attaches an ephemeral v of type T to e.
func AddEphemeralComponent[T any](w *World, e Entity, v T) error {
	if w.inPhase() {
		w.deferred = append(w.deferred, func(w *World) {
			if err := addEphemeralNow(w, e, v); err != nil {
				w.logger.WithError(err).Debug("ecs: dropped deferred AddEphemeralComponent")
			}
		})
		return nil
	}
	return addEphemeralNow(w, e, v)
}

func addEphemeralNow[T any](w *World, e Entity, v T) error {
	if !w.allocator.isAlive(e) {
		return errEntityNotFound(e)
	}
	store := getOrCreateStore[T](w.ephemeral)
	if store.has(e) {
		return errComponentAlreadyExists(e, typeOf[T]())
	}
	store.insert(e, v)
	return nil
}

// ReplaceEphemeralComponent overwrites e's ephemeral T.
func ReplaceEphemeralComponent[T any](w *World, e Entity, v T) error {
	if w.inPhase() {
		w.deferred = append(w.deferred, func(w *World) {
			if _, err := replaceEphemeralNow(w, e, v); err != nil {
				w.logger.WithError(err).Debug("ecs: dropped deferred ReplaceEphemeralComponent")
			}
		})
		return nil
	}
	_, err := replaceEphemeralNow(w, e, v)
	return err
}

func replaceEphemeralNow[T any](w *World, e Entity, v T) (T, error) {
	var zero T
	if !w.allocator.isAlive(e) {
		return zero, errEntityNotFound(e)
	}
	store := getStore[T](w.ephemeral)
	if store == nil || !store.has(e) {
		return zero, errComponentNotFound(e, typeOf[T]())
	}
	return store.replace(e, v), nil
}

// RemoveEphemeralComponent detaches e's ephemeral T, returning it. During
// a phase the removal is deferred and T's zero value is returned.
func RemoveEphemeralComponent[T any](w *World, e Entity) (T, error) {
	if w.inPhase() {
		w.deferred = append(w.deferred, func(w *World) {
			if _, err := removeEphemeralNow[T](w, e); err != nil {
				w.logger.WithError(err).Debug("ecs: dropped deferred RemoveEphemeralComponent")
			}
		})
		var zero T
		return zero, nil
	}
	return removeEphemeralNow[T](w, e)
}

func removeEphemeralNow[T any](w *World, e Entity) (T, error) {
	var zero T
	if !w.allocator.isAlive(e) {
		return zero, errEntityNotFound(e)
	}
	store := getStore[T](w.ephemeral)
	if store == nil {
		return zero, errComponentNotFound(e, typeOf[T]())
	}
	v, ok := store.removeValue(e)
	if !ok {
		return zero, errComponentNotFound(e, typeOf[T]())
	}
	return v, nil
}

// GetEphemeralComponent reads e's ephemeral T, if present.
func GetEphemeralComponent[T any](w *World, e Entity) (T, bool) {
	store := getStore[T](w.ephemeral)
	if store == nil {
		var zero T
		return zero, false
	}
	return store.get(e)
}

// HasEphemeralComponent reports whether e carries an ephemeral T.
func HasEphemeralComponent[T any](w *World, e Entity) bool {
	store := getStore[T](w.ephemeral)
	if store == nil {
		return false
	}
	return store.has(e)
}

// ---- Reflection-based introspection (for tooling, e.g. ecs/debugui) ----
// Regular code should prefer the generic accessors above; these exist for
// code that only learns component types at runtime.

// ComponentTypes returns every component type that has a regular-partition
// store, in no particular order. A store is created by the first add of
// its type and is kept after it empties, so a type can be listed with no
// live value.
func (w *World) ComponentTypes() []reflect.Type {
	types := make([]reflect.Type, 0, len(w.regular.stores))
	for t := range w.regular.stores {
		types = append(types, t)
	}
	return types
}

// EphemeralComponentTypes is ComponentTypes for the ephemeral partition.
func (w *World) EphemeralComponentTypes() []reflect.Type {
	types := make([]reflect.Type, 0, len(w.ephemeral.stores))
	for t := range w.ephemeral.stores {
		types = append(types, t)
	}
	return types
}

// HasComponentType reports whether e carries a regular component of type
// t, addressed by reflect.Type rather than a static Go type parameter.
func (w *World) HasComponentType(t reflect.Type, e Entity) bool {
	return w.regular.has(t, e)
}

// HasEphemeralComponentType is HasComponentType for the ephemeral
// partition.
func (w *World) HasEphemeralComponentType(t reflect.Type, e Entity) bool {
	return w.ephemeral.has(t, e)
}

// ComponentAny returns e's regular component of type t boxed as any, for
// callers that only have a reflect.Type.
func (w *World) ComponentAny(t reflect.Type, e Entity) (any, bool) {
	s, ok := w.regular.stores[t]
	if !ok {
		return nil, false
	}
	return s.getAny(e)
}

// SetComponentAny overwrites e's regular component of type t from a boxed
// any, for callers that only have a reflect.Type. v must hold a value of
// the type t was created with; a mismatch panics, mirroring the panic a
// failed type assertion would give the caller directly.
func (w *World) SetComponentAny(t reflect.Type, e Entity, v any) bool {
	s, ok := w.regular.stores[t]
	if !ok {
		return false
	}
	return s.setAny(e, v)
}
