package ecs_test

import (
	"reflect"
	"testing"

	"github.com/hearthglen/ecs"
)

type Position struct{ X, Y float32 }
type Velocity struct{ X, Y float32 }
type Health struct{ Current, Max uint32 }
type DamageEvent struct{ Amount uint32 }
type Dead struct{}
type Tag struct{}

type movementSystem struct {
	query ecs.Query[Position]
}

func (s *movementSystem) Run(w *ecs.World) {
	for e, p := range s.query.With(ecs.C[Velocity]()).Iter(w) {
		v, _ := ecs.GetComponent[Velocity](w, e)
		ecs.ReplaceComponent(w, e, Position{X: p.X + v.X, Y: p.Y + v.Y})
	}
}

func TestScenario_MovementSystem(t *testing.T) {
	w := ecs.NewWorld()
	e1 := ecs.SpawnEntity(w)
	ecs.AddComponent(w, e1, Position{0, 0})
	ecs.AddComponent(w, e1, Velocity{1, 2})

	e2 := ecs.SpawnEntity(w)
	ecs.AddComponent(w, e2, Position{5, 5})

	s := ecs.NewScheduler()
	s.AddSystem(&movementSystem{})
	if err := s.Run(w); err != nil {
		t.Fatalf("Run: %v", err)
	}

	p1, _ := ecs.GetComponent[Position](w, e1)
	if p1 != (Position{1, 2}) {
		t.Errorf("e1 expected Position{1,2}, got %+v", p1)
	}
	p2, _ := ecs.GetComponent[Position](w, e2)
	if p2 != (Position{5, 5}) {
		t.Errorf("e2 expected unchanged Position{5,5}, got %+v", p2)
	}
}

type damageDealer struct {
	target ecs.Entity
}

func (s *damageDealer) Run(w *ecs.World) {
	ecs.AddEphemeralComponent(w, s.target, DamageEvent{Amount: 30})
}

type damageApplier struct {
	query ecs.Query[DamageEvent]
}

func (s *damageApplier) Dependencies() []reflect.Type {
	return []reflect.Type{ecs.SystemType[*damageDealer]()}
}

func (s *damageApplier) Run(w *ecs.World) {
	for e, dmg := range s.query.IterEphemeral(w) {
		h, ok := ecs.GetComponent[Health](w, e)
		if !ok {
			continue
		}
		h.Current -= dmg.Amount
		ecs.ReplaceComponent(w, e, h)
	}
}

func TestScenario_DamageViaEphemeral(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.SpawnEntity(w)
	ecs.AddComponent(w, e, Health{Current: 100, Max: 100})

	dealer := &damageDealer{target: e}
	applier := &damageApplier{query: ecs.NewQuery[DamageEvent]()}

	s := ecs.NewScheduler()
	s.AddSystem(dealer)
	s.AddSystem(applier)
	if err := s.Run(w); err != nil {
		t.Fatalf("Run: %v", err)
	}

	h, _ := ecs.GetComponent[Health](w, e)
	if h != (Health{Current: 70, Max: 100}) {
		t.Errorf("expected Health{70,100}, got %+v", h)
	}
	if ecs.HasEphemeralComponent[DamageEvent](w, e) {
		t.Error("ephemeral DamageEvent should be gone after the tick")
	}
}

func TestScenario_FilterWithNegation(t *testing.T) {
	w := ecs.NewWorld()

	e1 := ecs.SpawnEntity(w)
	ecs.AddComponent(w, e1, Position{})
	ecs.AddComponent(w, e1, Velocity{})

	e2 := ecs.SpawnEntity(w)
	ecs.AddComponent(w, e2, Position{})
	ecs.AddComponent(w, e2, Velocity{})
	ecs.AddComponent(w, e2, Dead{})

	e3 := ecs.SpawnEntity(w)
	ecs.AddComponent(w, e3, Position{})

	q := ecs.NewQuery[Position]().With(ecs.C[Velocity]()).Without(ecs.C[Dead]())
	var matched []ecs.Entity
	for e := range q.Iter(w) {
		matched = append(matched, e)
	}
	if len(matched) != 1 || matched[0] != e1 {
		t.Errorf("expected exactly [e1], got %v", matched)
	}
}

type despawningSystem struct {
	target ecs.Entity
	query  ecs.Query[Tag]
	seen   []ecs.Entity
}

func (s *despawningSystem) Run(w *ecs.World) {
	for e := range s.query.Iter(w) {
		s.seen = append(s.seen, e)
		if e == s.target {
			ecs.DespawnEntity(w, e)
		}
	}
}

func TestScenario_DespawnDuringIteration(t *testing.T) {
	w := ecs.NewWorld()
	e1 := ecs.SpawnEntity(w)
	e2 := ecs.SpawnEntity(w)
	e3 := ecs.SpawnEntity(w)
	for _, e := range []ecs.Entity{e1, e2, e3} {
		ecs.AddComponent(w, e, Tag{})
	}

	sys := &despawningSystem{target: e2, query: ecs.NewQuery[Tag]()}
	s := ecs.NewScheduler()
	s.AddSystem(sys)
	if err := s.Run(w); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sys.seen) != 3 {
		t.Errorf("expected all three entities yielded during iteration, got %v", sys.seen)
	}

	var alive []ecs.Entity
	for e := range ecs.Entities(w) {
		alive = append(alive, e)
	}
	if len(alive) != 2 {
		t.Fatalf("expected 2 alive entities after flush, got %v", alive)
	}
	for _, e := range alive {
		if e == e2 {
			t.Error("e2 should have been despawned")
		}
	}
	if ecs.HasComponent[Tag](w, e2) {
		t.Error("e2's components should be gone from storage")
	}
}

type namedSystem struct{ name string }

func (s *namedSystem) Run(w *ecs.World) {}

type cyclicA struct{ namedSystem }

func (s *cyclicA) Dependencies() []reflect.Type {
	return []reflect.Type{ecs.SystemType[*cyclicB]()}
}

type cyclicB struct{ namedSystem }

func (s *cyclicB) Dependencies() []reflect.Type {
	return []reflect.Type{ecs.SystemType[*cyclicA]()}
}

func TestScenario_CycleRejection(t *testing.T) {
	s := ecs.NewScheduler()
	a := &cyclicA{namedSystem: namedSystem{name: "a"}}
	b := &cyclicB{namedSystem: namedSystem{name: "b"}}

	if err := s.AddSystem(a); err != nil {
		t.Fatalf("AddSystem a: %v", err)
	}
	if err := s.AddSystem(b); err != nil {
		t.Fatalf("AddSystem b: %v", err)
	}

	err := s.Build()
	if kind, ok := ecs.KindOf(err); !ok || kind != ecs.DependencyCycle {
		t.Fatalf("expected DependencyCycle, got %v", err)
	}
	if s.IsBuilt() {
		t.Error("scheduler should remain unsealed after a failed Build")
	}

	if err := s.AddSystem(&namedSystem{name: "c"}); err != nil {
		t.Errorf("AddSystem should still work after a failed Build: %v", err)
	}
}

func TestScenario_DuplicateAdd(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.SpawnEntity(w)

	if err := ecs.AddComponent(w, e, Position{0, 0}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := ecs.AddComponent(w, e, Position{1, 1})
	if kind, ok := ecs.KindOf(err); !ok || kind != ecs.ComponentAlreadyExists {
		t.Fatalf("expected ComponentAlreadyExists, got %v", err)
	}

	p, _ := ecs.GetComponent[Position](w, e)
	if p != (Position{0, 0}) {
		t.Errorf("stored value should remain Position{0,0}, got %+v", p)
	}
}
