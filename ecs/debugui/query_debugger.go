package debugui

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hearthglen/ecs"
)

type queryDebuggerCache struct {
	componentTypes []string
	lastTypeCount  int
}

// NewQueryDebugger returns a QueryDebugger with nothing selected.
func NewQueryDebugger() QueryDebugger {
	return QueryDebugger{
		selected: make(map[string]bool),
		cache:    &queryDebuggerCache{lastTypeCount: -1},
	}
}

func (qd *QueryDebugger) Render(w *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(w)

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selected = make(map[string]bool)
	}

	for _, compType := range qd.cache.componentTypes {
		selected := qd.selected[compType]
		if imgui.Checkbox(compType, &selected) {
			if selected {
				qd.selected[compType] = true
			} else {
				delete(qd.selected, compType)
			}
		}
	}

	imgui.Separator()

	typeMap := make(map[string]reflect.Type)
	for _, t := range w.ComponentTypes() {
		typeMap[t.String()] = t
	}

	selectedTypes := make([]reflect.Type, 0, len(qd.selected))
	for typeName := range qd.selected {
		if t, ok := typeMap[typeName]; ok {
			selectedTypes = append(selectedTypes, t)
		}
	}

	if len(selectedTypes) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matches := qd.matchingEntities(w, selectedTypes)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matches)))

	if imgui.TreeNodeStr("Matching Entities") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
		if imgui.BeginTableV("QueryMatchTable", 1, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Entity ID")
			imgui.TableHeadersRow()

			for _, e := range matches {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", e))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebugger) rebuildCacheIfNeeded(w *ecs.World) {
	count := len(w.ComponentTypes())
	if qd.cache.lastTypeCount != count {
		qd.cache.componentTypes = nil
		qd.cache.lastTypeCount = count
	}

	if qd.cache.componentTypes == nil {
		qd.rebuildCache(w)
	}
}

func (qd *QueryDebugger) rebuildCache(w *ecs.World) {
	types := w.ComponentTypes()
	qd.cache.componentTypes = make([]string, len(types))
	for i, t := range types {
		qd.cache.componentTypes[i] = t.String()
	}
	sort.Strings(qd.cache.componentTypes)
}

// matchingEntities has no archetype index to consult in a flat per-type
// store, so it walks every live entity and checks each selected type
// directly. Fine for an occasional debug-tool query; not how game code
// should query (use ecs.Query[P] for that).
func (qd *QueryDebugger) matchingEntities(w *ecs.World, requiredTypes []reflect.Type) []ecs.Entity {
	var matches []ecs.Entity
	for e := range ecs.Entities(w) {
		all := true
		for _, t := range requiredTypes {
			if !w.HasComponentType(t, e) {
				all = false
				break
			}
		}
		if all {
			matches = append(matches, e)
		}
	}
	return matches
}
