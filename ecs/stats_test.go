package ecs

import "testing"

func TestWorldStatsCountsEntitiesAndComponents(t *testing.T) {
	w := NewWorld()
	e1 := SpawnEntity(w)
	e2 := SpawnEntity(w)
	AddComponent(w, e1, position{})
	AddComponent(w, e2, position{})
	AddComponent(w, e1, velocity{})
	AddEphemeralComponent(w, e1, tag{})

	stats := w.Stats()
	if stats.EntityCount != 2 {
		t.Errorf("expected 2 entities, got %d", stats.EntityCount)
	}
	if stats.ComponentCounts[typeOf[position]()] != 2 {
		t.Errorf("expected 2 position components, got %d", stats.ComponentCounts[typeOf[position]()])
	}
	if stats.ComponentCounts[typeOf[velocity]()] != 1 {
		t.Errorf("expected 1 velocity component, got %d", stats.ComponentCounts[typeOf[velocity]()])
	}
	if stats.EphemeralCounts[typeOf[tag]()] != 1 {
		t.Errorf("expected 1 ephemeral tag component, got %d", stats.EphemeralCounts[typeOf[tag]()])
	}
}

func TestSchedulerStatsTracksExecutions(t *testing.T) {
	s := NewScheduler()
	sys := &movementSystem{}
	s.AddSystem(sys)

	w := NewWorld()
	for i := 0; i < 3; i++ {
		if err := s.Run(w); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	stats := s.Stats()
	if stats.SystemCount != 1 {
		t.Errorf("expected 1 system, got %d", stats.SystemCount)
	}
	if stats.TotalExecutions != 3 {
		t.Errorf("expected 3 total executions, got %d", stats.TotalExecutions)
	}
	if len(stats.Systems) != 1 {
		t.Fatalf("expected 1 system stats entry, got %d", len(stats.Systems))
	}
	if stats.Systems[0].ExecutionCount != 3 {
		t.Errorf("expected 3 executions recorded, got %d", stats.Systems[0].ExecutionCount)
	}
}
