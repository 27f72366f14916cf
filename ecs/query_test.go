package ecs

import "testing"

type tag struct{ Name string }
type frozen struct{}

func TestQueryIterMatchesComponentType(t *testing.T) {
	w := NewWorld()
	e1 := SpawnEntity(w)
	e2 := SpawnEntity(w)
	AddComponent(w, e1, position{X: 1})
	AddComponent(w, e2, position{X: 2})

	q := NewQuery[position]()
	seen := map[Entity]position{}
	for e, p := range q.Iter(w) {
		seen[e] = p
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(seen))
	}
	if seen[e1].X != 1 || seen[e2].X != 2 {
		t.Errorf("unexpected values: %+v", seen)
	}
}

func TestQueryWithFilter(t *testing.T) {
	w := NewWorld()
	moving := SpawnEntity(w)
	still := SpawnEntity(w)
	AddComponent(w, moving, position{})
	AddComponent(w, moving, velocity{DX: 1})
	AddComponent(w, still, position{})

	q := NewQuery[position]().With(C[velocity]())
	n := 0
	for e := range q.Iter(w) {
		if e != moving {
			t.Errorf("expected only moving entity to match, got %d", e)
		}
		n++
	}
	if n != 1 {
		t.Errorf("expected 1 match, got %d", n)
	}
}

func TestQueryWithoutFilter(t *testing.T) {
	w := NewWorld()
	active := SpawnEntity(w)
	frozenEntity := SpawnEntity(w)
	AddComponent(w, active, position{})
	AddComponent(w, frozenEntity, position{})
	AddComponent(w, frozenEntity, frozen{})

	q := NewQuery[position]().Without(C[frozen]())
	n := 0
	for e := range q.Iter(w) {
		if e != active {
			t.Errorf("expected only active entity to match, got %d", e)
		}
		n++
	}
	if n != 1 {
		t.Errorf("expected 1 match, got %d", n)
	}
}

func TestQueryWithAndWithoutCombine(t *testing.T) {
	w := NewWorld()
	target := SpawnEntity(w)
	wrongTag := SpawnEntity(w)
	isFrozen := SpawnEntity(w)

	for _, e := range []Entity{target, wrongTag, isFrozen} {
		AddComponent(w, e, position{})
	}
	AddComponent(w, target, tag{Name: "hero"})
	AddComponent(w, wrongTag, tag{Name: "villain"})
	AddComponent(w, isFrozen, tag{Name: "hero"})
	AddComponent(w, isFrozen, frozen{})

	q := NewQuery[position]().With(C[tag]()).Without(C[frozen]())
	n := 0
	for e := range q.Iter(w) {
		if HasComponent[frozen](w, e) {
			t.Errorf("frozen entity should have been excluded: %d", e)
		}
		n++
	}
	if n != 2 {
		t.Errorf("expected 2 matches (target, wrongTag), got %d", n)
	}
}

func TestQueryIterEphemeral(t *testing.T) {
	w := NewWorld()
	e := SpawnEntity(w)
	AddEphemeralComponent(w, e, tag{Name: "damage"})

	q := NewQuery[tag]()
	if q.Len(w) != 0 {
		t.Error("regular Iter should not see ephemeral components")
	}
	if q.LenEphemeral(w) != 1 {
		t.Error("IterEphemeral should see the ephemeral component")
	}
}

func TestQueryLenOnEmptyWorld(t *testing.T) {
	w := NewWorld()
	q := NewQuery[position]()
	if q.Len(w) != 0 {
		t.Errorf("expected 0, got %d", q.Len(w))
	}
}

func TestQueryIsAPureValue(t *testing.T) {
	w := NewWorld()
	e := SpawnEntity(w)
	AddComponent(w, e, position{X: 1})

	q := NewQuery[position]()
	n1 := q.Len(w)

	e2 := SpawnEntity(w)
	AddComponent(w, e2, position{X: 2})
	n2 := q.Len(w)

	if n1 != 1 || n2 != 2 {
		t.Errorf("query should reflect world state live without re-construction: n1=%d n2=%d", n1, n2)
	}
}
