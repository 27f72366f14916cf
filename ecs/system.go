package ecs

import "reflect"

// System is a unit of per-tick logic the Scheduler runs against a World.
// Implementations typically hold Query values as fields and use them
// against the World passed to Run.
type System interface {
	Run(w *World)
}

// BeforeRunner lets a system contribute setup logic that runs before any
// system's Run this tick, in schedule order. Optional: most systems don't
// need it.
type BeforeRunner interface {
	Before(w *World)
}

// AfterRunner lets a system contribute cleanup logic that runs after every
// system's Run this tick, in schedule order. Optional.
type AfterRunner interface {
	After(w *World)
}

// DependsOn lets a system declare other system types that must run before
// it within the same tick. The scheduler resolves these into a topological
// order at Build time and fails with MissingDependency or DependencyCycle
// if they can't be satisfied. Use SystemType[T]() to build the tokens.
type DependsOn interface {
	Dependencies() []reflect.Type
}

// SystemType returns the reflect.Type token identifying system type T, for
// use in a DependsOn.Dependencies implementation.
func SystemType[T System]() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}
