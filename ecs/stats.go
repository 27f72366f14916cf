package ecs

import (
	"reflect"
	"time"
)

// WorldStats is a point-in-time snapshot of a World's size, useful for
// monitoring and the debugui inspector.
type WorldStats struct {
	EntityCount     int
	ComponentCounts map[reflect.Type]int
	EphemeralCounts map[reflect.Type]int
	SingletonCount  int
	DeferredPending int
}

// Stats snapshots w. The returned maps are copies; mutating them has no
// effect on w.
func (w *World) Stats() WorldStats {
	stats := WorldStats{
		EntityCount:     w.allocator.count(),
		ComponentCounts: make(map[reflect.Type]int, len(w.regular.stores)),
		EphemeralCounts: make(map[reflect.Type]int, len(w.ephemeral.stores)),
		SingletonCount:  len(w.singletons),
		DeferredPending: len(w.deferred),
	}
	for t, s := range w.regular.stores {
		stats.ComponentCounts[t] = s.len()
	}
	for t, s := range w.ephemeral.stores {
		stats.EphemeralCounts[t] = s.len()
	}
	return stats
}

// SystemStats reports one system's accumulated Run timings.
type SystemStats struct {
	Type           reflect.Type
	ExecutionCount int
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// SchedulerStats is a point-in-time snapshot of a Scheduler's registered
// systems and their accumulated per-tick timings.
type SchedulerStats struct {
	SystemCount     int
	Built           bool
	TotalExecutions int
	Systems         []SystemStats
}

// Stats snapshots s.
func (s *Scheduler) Stats() SchedulerStats {
	out := SchedulerStats{
		SystemCount: len(s.systems),
		Built:       s.built,
	}
	for _, t := range s.types {
		st, ok := s.execStats[t]
		if !ok {
			out.Systems = append(out.Systems, SystemStats{Type: t})
			continue
		}
		avg := st.total / time.Duration(st.count)
		out.TotalExecutions += st.count
		out.Systems = append(out.Systems, SystemStats{
			Type:           t,
			ExecutionCount: st.count,
			MinDuration:    st.min,
			MaxDuration:    st.max,
			AvgDuration:    avg,
			LastDuration:   st.last,
			TotalDuration:  st.total,
		})
	}
	return out
}
