package ecs

import (
	"context"
	"reflect"
	"time"
)

// Scheduler orders a fixed set of systems into a single per-tick sweep:
// every BeforeRunner runs, then every System.Run, then every AfterRunner,
// then ephemeral components are cleared (§4.5, §5, invariant I4).
//
// Dependency declarations (DependsOn) are resolved once, at Build, into a
// topological order; Run itself never re-checks them.
type Scheduler struct {
	systems []System
	types   []reflect.Type
	order   []System
	built   bool

	execStats map[reflect.Type]*systemExecStats
}

type systemExecStats struct {
	count int
	min   time.Duration
	max   time.Duration
	total time.Duration
	last  time.Duration
}

// NewScheduler returns an empty, unbuilt Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{execStats: make(map[reflect.Type]*systemExecStats)}
}

// AddSystem registers sys. Fails with DuplicateSystem if a system of the
// same concrete type is already registered, or SchedulerSealed if Build
// has already run.
func (s *Scheduler) AddSystem(sys System) error {
	if s.built {
		return errSchedulerSealed
	}
	t := reflect.TypeOf(sys)
	for _, existing := range s.types {
		if existing == t {
			return errDuplicateSystem(t)
		}
	}
	s.systems = append(s.systems, sys)
	s.types = append(s.types, t)
	return nil
}

// SystemCount returns the number of registered systems.
func (s *Scheduler) SystemCount() int {
	return len(s.systems)
}

// IsBuilt reports whether Build has run successfully.
func (s *Scheduler) IsBuilt() bool {
	return s.built
}

// Build resolves declared dependencies into a run order and seals the
// scheduler against further AddSystem calls. Among systems with no
// remaining unscheduled dependency at a given step, the one registered
// earliest (insertion order) goes first, so a dependency-free scheduler
// runs in registration order exactly. Fails with MissingDependency if a
// system depends on a type never registered, or DependencyCycle if the
// dependency graph isn't a DAG.
func (s *Scheduler) Build() error {
	n := len(s.systems)
	indexByType := make(map[reflect.Type]int, n)
	for i, t := range s.types {
		indexByType[t] = i
	}

	deps := make([][]int, n)
	for i, sys := range s.systems {
		dn, ok := sys.(DependsOn)
		if !ok {
			continue
		}
		for _, depType := range dn.Dependencies() {
			depIdx, ok := indexByType[depType]
			if !ok {
				return errMissingDependency(s.types[i], depType)
			}
			deps[i] = append(deps[i], depIdx)
		}
	}

	indegree := make([]int, n)
	dependents := make([][]int, n)
	for i, ds := range deps {
		indegree[i] = len(ds)
		for _, d := range ds {
			dependents[d] = append(dependents[d], i)
		}
	}

	scheduled := make([]bool, n)
	order := make([]System, 0, n)
	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if scheduled[i] || indegree[i] != 0 {
				continue
			}
			next = i
			break
		}
		if next == -1 {
			return errDependencyCycle(cycleTypes(s.types, scheduled))
		}
		scheduled[next] = true
		order = append(order, s.systems[next])
		for _, dep := range dependents[next] {
			indegree[dep]--
		}
	}

	s.order = order
	s.built = true
	return nil
}

func (s *Scheduler) recordExec(t reflect.Type, d time.Duration) {
	st, ok := s.execStats[t]
	if !ok {
		st = &systemExecStats{min: d, max: d}
		s.execStats[t] = st
	}
	st.count++
	st.last = d
	st.total += d
	if d < st.min {
		st.min = d
	}
	if d > st.max {
		st.max = d
	}
}

func cycleTypes(types []reflect.Type, scheduled []bool) []reflect.Type {
	var cycle []reflect.Type
	for i, t := range types {
		if !scheduled[i] {
			cycle = append(cycle, t)
		}
	}
	return cycle
}

// Run executes exactly one tick against w: BeforeRun for every
// BeforeRunner in schedule order, then Run for every system, then AfterRun
// for every AfterRunner, flushing the deferred buffer after each system
// call (not just at the end of the phase) so that a later system in the
// same phase sees an earlier system's writes (§4.4, §4.7). If Build has
// not been called yet, Run calls it first and returns its error.
func (s *Scheduler) Run(w *World) error {
	if !s.built {
		if err := s.Build(); err != nil {
			return err
		}
	}

	for _, sys := range s.order {
		if br, ok := sys.(BeforeRunner); ok {
			runPhase(w, BeforeRun, func() { br.Before(w) })
		}
	}

	for _, sys := range s.order {
		start := time.Now()
		sys := sys
		runPhase(w, Run, func() { sys.Run(w) })
		s.recordExec(reflect.TypeOf(sys), time.Since(start))
	}

	for _, sys := range s.order {
		if ar, ok := sys.(AfterRunner); ok {
			runPhase(w, AfterRun, func() { ar.After(w) })
		}
	}

	w.flush()
	w.clearEphemeral()
	return nil
}

// RunLoop calls Run once per tick at interval until ctx is cancelled.
// If a tick returns an error, RunLoop logs it and returns.
func (s *Scheduler) RunLoop(ctx context.Context, w *World, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Run(w); err != nil {
				w.logger.WithError(err).Error("ecs: scheduler tick failed")
				return
			}
		}
	}
}
