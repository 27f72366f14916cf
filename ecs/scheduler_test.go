package ecs

import (
	"reflect"
	"testing"
)

type movementSystem struct {
	query Query[position]
	ran   int
}

func (s *movementSystem) Run(w *World) {
	s.ran++
	for e, p := range s.query.Iter(w) {
		v, ok := GetComponent[velocity](w, e)
		if !ok {
			continue
		}
		p.X += v.DX
		p.Y += v.DY
		ReplaceComponent(w, e, p)
	}
}

type loggingSystem struct {
	dependsOn []reflect.Type
	ran       int
}

func (s *loggingSystem) Run(w *World)                 { s.ran++ }
func (s *loggingSystem) Dependencies() []reflect.Type { return s.dependsOn }

func TestSchedulerRunsInRegistrationOrder(t *testing.T) {
	w := NewWorld()
	s := NewScheduler()

	var order []string
	first := &orderedSystem{name: "first", log: &order}
	second := &dependentSystem{orderedSystem: orderedSystem{name: "second", log: &order}}

	if err := s.AddSystem(first); err != nil {
		t.Fatalf("AddSystem: %v", err)
	}
	if err := s.AddSystem(second); err != nil {
		t.Fatalf("AddSystem: %v", err)
	}
	if err := s.Run(w); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected [first second], got %v", order)
	}
}

type orderedSystem struct {
	name string
	log  *[]string
}

func (s *orderedSystem) Run(w *World) {
	*s.log = append(*s.log, s.name)
}

func TestSchedulerDuplicateSystemRejected(t *testing.T) {
	s := NewScheduler()
	s.AddSystem(&movementSystem{})
	err := s.AddSystem(&movementSystem{})
	if kind, ok := KindOf(err); !ok || kind != DuplicateSystem {
		t.Errorf("expected DuplicateSystem, got %v", err)
	}
}

func TestSchedulerSealedAfterBuild(t *testing.T) {
	s := NewScheduler()
	s.AddSystem(&movementSystem{})
	if err := s.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	err := s.AddSystem(&loggingSystem{})
	if kind, ok := KindOf(err); !ok || kind != SchedulerSealed {
		t.Errorf("expected SchedulerSealed, got %v", err)
	}
}

func TestSchedulerMissingDependency(t *testing.T) {
	s := NewScheduler()
	s.AddSystem(&loggingSystem{dependsOn: []reflect.Type{reflect.TypeOf(&movementSystem{})}})
	err := s.Build()
	if kind, ok := KindOf(err); !ok || kind != MissingDependency {
		t.Errorf("expected MissingDependency, got %v", err)
	}
}

func TestSchedulerDependencyCycleRejected(t *testing.T) {
	type sysA struct{ loggingSystem }
	type sysB struct{ loggingSystem }

	s := NewScheduler()
	a := &sysA{}
	b := &sysB{}
	a.dependsOn = []reflect.Type{reflect.TypeOf(b)}
	b.dependsOn = []reflect.Type{reflect.TypeOf(a)}

	s.AddSystem(a)
	s.AddSystem(b)

	err := s.Build()
	if kind, ok := KindOf(err); !ok || kind != DependencyCycle {
		t.Errorf("expected DependencyCycle, got %v", err)
	}
}

type dependentSystem struct {
	orderedSystem
	deps []reflect.Type
}

func (d *dependentSystem) Dependencies() []reflect.Type { return d.deps }

func TestSchedulerDependencyOrderRespected(t *testing.T) {
	var order []string
	first := &orderedSystem{name: "base", log: &order}
	dependent := &dependentSystem{orderedSystem: orderedSystem{name: "dependent", log: &order}}
	dependent.deps = []reflect.Type{reflect.TypeOf(first)}

	s := NewScheduler()
	// Register the dependent first to prove Build reorders by dependency,
	// not just insertion order.
	s.AddSystem(dependent)
	s.AddSystem(first)

	w := NewWorld()
	if err := s.Run(w); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 2 || order[0] != "base" || order[1] != "dependent" {
		t.Errorf("expected [base dependent], got %v", order)
	}
}

func TestSchedulerEphemeralClearedAfterTick(t *testing.T) {
	w := NewWorld()
	e := SpawnEntity(w)
	AddEphemeralComponent(w, e, tag{Name: "hit"})

	s := NewScheduler()
	s.AddSystem(&movementSystem{})
	if err := s.Run(w); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if HasEphemeralComponent[tag](w, e) {
		t.Error("ephemeral component should be cleared after a full tick")
	}
}

func TestSchedulerBeforeAndAfterRunners(t *testing.T) {
	var order []string
	sys := &phasedSystem{log: &order}

	s := NewScheduler()
	s.AddSystem(sys)
	w := NewWorld()
	if err := s.Run(w); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"before", "run", "after"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("expected %v, got %v", want, order)
		}
	}
}

type phasedSystem struct {
	log *[]string
}

func (s *phasedSystem) Before(w *World) { *s.log = append(*s.log, "before") }
func (s *phasedSystem) Run(w *World)    { *s.log = append(*s.log, "run") }
func (s *phasedSystem) After(w *World)  { *s.log = append(*s.log, "after") }
