package debugui

import "github.com/hearthglen/ecs"

// EntityBrowser lists every live entity alongside its component types,
// with search filtering and pagination. Attach it to an entity to have
// ImguiSystem render it each tick.
type EntityBrowser struct {
	cache              *entityBrowserCache
	selectedEntity     ecs.Entity
	filterText         string
	filterType         string
	maxEntitiesPerPage int
	currentPage        int
}

// ComponentInspector shows and edits the component values attached to the
// entity currently selected in an EntityBrowser.
type ComponentInspector struct {
	selectedEntity ecs.Entity
}

// PerformanceStats plots recent tick timings and a snapshot of World/
// Scheduler size.
type PerformanceStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

// QueryDebugger lets the user pick a set of component types interactively
// and see how many live entities would match a Query requiring all of
// them.
type QueryDebugger struct {
	selected map[string]bool
	cache    *queryDebuggerCache
}
