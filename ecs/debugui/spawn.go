package debugui

import "github.com/hearthglen/ecs"

// Options configures Spawn.
type Options struct {
	EntityBrowserPageSize   int
	PerformanceStatsHistory int
}

// DefaultOptions returns the sizing the teacher's original debug UI shipped
// with: a 100-row entity browser page and a 120-frame performance graph.
func DefaultOptions() Options {
	return Options{
		EntityBrowserPageSize:   100,
		PerformanceStatsHistory: 120,
	}
}

// Spawn attaches a single entity carrying all four debug panels (entity
// browser, component inspector, performance stats, query debugger) to w,
// seeds the FrameTimer singleton ImguiSystem reads each tick, and returns
// that entity. Run an *ImguiSystem in your scheduler afterward to have
// them render.
func Spawn(w *ecs.World, opts Options) ecs.Entity {
	e := ecs.SpawnEntity(w)
	ecs.AddComponent(w, e, NewEntityBrowser(opts.EntityBrowserPageSize))
	ecs.AddComponent(w, e, NewComponentInspector())
	ecs.AddComponent(w, e, NewPerformanceStats(opts.PerformanceStatsHistory))
	ecs.AddComponent(w, e, NewQueryDebugger())

	timer := ecs.NewSingleton[FrameTimer]()
	timer.Set(w, *NewFrameTimer())

	return e
}
