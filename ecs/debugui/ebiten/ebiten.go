// Package ebiten provides Dear ImGui backend integration for the Ebiten game
// engine, and wires that backend into an ecs.World as a singleton so the
// debugui package's ImguiSystem can drive it from inside a scheduler tick.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/hearthglen/ecs"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewWindow creates an Ebiten-backed ImGui window and disables the default
// imgui.ini persistence, since a debug UI's layout is expected to reset
// with the process rather than survive across runs.
func NewWindow(title string, width, height int) ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return ImguiBackend{EbitenBackend: backend}
}

// Attach registers backend as the ecs.Singleton[ImguiBackend] on w, so
// debugui.ImguiSystem and any ebiten.Game glue can both fetch it from the
// world instead of threading it through as a separate parameter.
func Attach(w *ecs.World, backend ImguiBackend) ecs.Singleton[ImguiBackend] {
	singleton := ecs.NewSingleton[ImguiBackend]()
	singleton.Set(w, backend)
	return singleton
}
