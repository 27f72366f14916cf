package ecs

import "testing"

func TestAllocatorSpawnIsUnique(t *testing.T) {
	a := newAllocator()

	seen := make(map[Entity]bool)
	for i := 0; i < 100; i++ {
		e := a.spawn()
		if seen[e] {
			t.Fatalf("spawn returned duplicate entity %d", e)
		}
		seen[e] = true
		if !a.isAlive(e) {
			t.Fatalf("entity %d not alive immediately after spawn", e)
		}
	}
	if a.count() != 100 {
		t.Errorf("expected count 100, got %d", a.count())
	}
}

func TestAllocatorDespawnRetiresID(t *testing.T) {
	a := newAllocator()
	e1 := a.spawn()
	e2 := a.spawn()

	if err := a.despawn(e1); err != nil {
		t.Fatalf("despawn: %v", err)
	}
	if a.isAlive(e1) {
		t.Errorf("e1 should not be alive after despawn")
	}
	if !a.isAlive(e2) {
		t.Errorf("e2 should still be alive")
	}

	e3 := a.spawn()
	if e3 == e1 {
		t.Errorf("spawn reused a retired identifier: %d", e3)
	}
}

func TestAllocatorDespawnUnknownEntity(t *testing.T) {
	a := newAllocator()
	err := a.despawn(Entity(999))
	if err == nil {
		t.Fatal("expected error despawning unknown entity")
	}
	if kind, ok := KindOf(err); !ok || kind != EntityNotFound {
		t.Errorf("expected EntityNotFound, got %v", err)
	}
}

func TestAllocatorEntitiesIteration(t *testing.T) {
	a := newAllocator()
	e1 := a.spawn()
	e2 := a.spawn()
	e3 := a.spawn()
	a.despawn(e2)

	var got []Entity
	for e := range a.entities() {
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 alive entities, got %d", len(got))
	}
	foundE1, foundE3 := false, false
	for _, e := range got {
		if e == e1 {
			foundE1 = true
		}
		if e == e3 {
			foundE3 = true
		}
	}
	if !foundE1 || !foundE3 {
		t.Errorf("expected e1 and e3 in iteration, got %v", got)
	}
}

func TestAllocatorEntitiesEarlyStop(t *testing.T) {
	a := newAllocator()
	a.spawn()
	a.spawn()
	a.spawn()

	count := 0
	for range a.entities() {
		count++
		if count == 1 {
			break
		}
	}
	if count != 1 {
		t.Errorf("expected early stop at 1, got %d", count)
	}
}
