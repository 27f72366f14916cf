package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrorKind classifies the failures the core can return. It intentionally
// stays a closed, small enum: every operation in this package fails in one
// of these ways or not at all (§7 of the design: no panics on well-formed
// input).
type ErrorKind int

const (
	_ ErrorKind = iota
	// EntityNotFound means the operation targeted an entity that is not
	// alive at the point of the operation.
	EntityNotFound
	// ComponentAlreadyExists means AddComponent targeted an (entity, T)
	// pair that already has a value.
	ComponentAlreadyExists
	// ComponentNotFound means ReplaceComponent/RemoveComponent targeted
	// an (entity, T) pair with no value.
	ComponentNotFound
	// DuplicateSystem means AddSystem was called with a system type
	// already registered.
	DuplicateSystem
	// MissingDependency means a system declared a dependency on a type
	// that was never added to the scheduler.
	MissingDependency
	// DependencyCycle means the declared dependency graph is not a DAG.
	DependencyCycle
	// SchedulerSealed means AddSystem was called after Build.
	SchedulerSealed
)

func (k ErrorKind) String() string {
	switch k {
	case EntityNotFound:
		return "EntityNotFound"
	case ComponentAlreadyExists:
		return "ComponentAlreadyExists"
	case ComponentNotFound:
		return "ComponentNotFound"
	case DuplicateSystem:
		return "DuplicateSystem"
	case MissingDependency:
		return "MissingDependency"
	case DependencyCycle:
		return "DependencyCycle"
	case SchedulerSealed:
		return "SchedulerSealed"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every fallible operation in
// this package. Use KindOf (or errors.As) to recover the ErrorKind.
type Error struct {
	Kind   ErrorKind
	Entity Entity
	Type   reflect.Type
	detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case DuplicateSystem, MissingDependency, DependencyCycle, SchedulerSealed:
		return fmt.Sprintf("ecs: %s%s", e.Kind, e.detail)
	case ComponentAlreadyExists, ComponentNotFound:
		return fmt.Sprintf("ecs: %s: entity %d, component %s%s", e.Kind, e.Entity, e.Type, e.detail)
	default:
		return fmt.Sprintf("ecs: %s: entity %d%s", e.Kind, e.Entity, e.detail)
	}
}

// KindOf extracts the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func errEntityNotFound(e Entity) error {
	return &Error{Kind: EntityNotFound, Entity: e}
}

func errComponentAlreadyExists(e Entity, t reflect.Type) error {
	return &Error{Kind: ComponentAlreadyExists, Entity: e, Type: t}
}

func errComponentNotFound(e Entity, t reflect.Type) error {
	return &Error{Kind: ComponentNotFound, Entity: e, Type: t}
}

func errDuplicateSystem(t reflect.Type) error {
	return &Error{Kind: DuplicateSystem, detail: fmt.Sprintf(": system %s", t)}
}

func errMissingDependency(system, dep reflect.Type) error {
	return &Error{Kind: MissingDependency, detail: fmt.Sprintf(": system %s depends on unregistered %s", system, dep)}
}

func errDependencyCycle(cycle []reflect.Type) error {
	return &Error{Kind: DependencyCycle, detail: fmt.Sprintf(": %v", cycle)}
}

var errSchedulerSealed = &Error{Kind: SchedulerSealed}
