// Package debugui provides immediate-mode GUI integration for ECS worlds
// using Dear ImGui. It manages ImGui rendering through ECS components and
// a single system, so a debug UI is itself ordinary ECS state rather than
// a side channel bolted onto the world.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hearthglen/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render arbitrary ImGui widgets
// each tick.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton.
// Use this to tell whether ImGui is consuming mouse or keyboard input
// before routing it to game input handling.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem renders every debug UI component attached to the world and
// queues ImguiItem render callbacks. Component state (selection,
// pagination, caches) is written back with ReplaceComponent since a
// Query yields values, not pointers to live storage.
type ImguiSystem struct {
	Items               ecs.Query[ImguiItem]
	EntityBrowsers      ecs.Query[EntityBrowser]
	ComponentInspectors ecs.Query[ComponentInspector]
	PerformanceStatss   ecs.Query[PerformanceStats]
	QueryDebuggers      ecs.Query[QueryDebugger]
	InputState          ecs.Singleton[ImguiInputState]
	FrameTimer          ecs.Singleton[FrameTimer]
	Scheduler           *ecs.Scheduler
}

func (s *ImguiSystem) Run(w *ecs.World) {
	state, _ := s.InputState.Get(w)
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()
	s.InputState.Set(w, state)

	deltaTime := float32(0.016)
	timer, ok := s.FrameTimer.Get(w)
	if !ok {
		timer = *NewFrameTimer()
	}
	deltaTime = timer.DeltaTime()
	s.FrameTimer.Set(w, timer)

	var selectedEntity ecs.Entity

	for e, browser := range s.EntityBrowsers.Iter(w) {
		browser.Render(w)
		selectedEntity = browser.SelectedEntity()
		ecs.ReplaceComponent(w, e, browser)
	}

	for e, inspector := range s.ComponentInspectors.Iter(w) {
		inspector.Render(w, selectedEntity)
		ecs.ReplaceComponent(w, e, inspector)
	}

	for e, stats := range s.PerformanceStatss.Iter(w) {
		stats.Render(w, s.Scheduler, deltaTime)
		ecs.ReplaceComponent(w, e, stats)
	}

	for e, debugger := range s.QueryDebuggers.Iter(w) {
		debugger.Render(w)
		ecs.ReplaceComponent(w, e, debugger)
	}

	for _, item := range s.Items.Iter(w) {
		ecs.Defer(w, func(*ecs.World) { item.Render() })
	}
}
