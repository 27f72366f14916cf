package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hearthglen/ecs"
)

type entityInfo struct {
	ID             ecs.Entity
	ComponentTypes []string
	ComponentCount int
}

type entityBrowserCache struct {
	entities      []entityInfo
	lastEntityRev int
	sortColumn    int
	sortAscending bool
}

// NewEntityBrowser returns an EntityBrowser showing up to
// maxEntitiesPerPage rows at a time.
func NewEntityBrowser(maxEntitiesPerPage int) EntityBrowser {
	return EntityBrowser{
		cache:              &entityBrowserCache{sortAscending: true, lastEntityRev: -1},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(w *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(w)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterType = ""
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		filtered := eb.filteredEntities()

		start := eb.currentPage * eb.maxEntitiesPerPage
		end := start + eb.maxEntitiesPerPage
		if end > len(filtered) {
			end = len(filtered)
		}

		for i := start; i < end; i++ {
			entity := filtered[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntity == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntity = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	filtered := eb.filteredEntities()
	if len(filtered) > eb.maxEntitiesPerPage {
		totalPages := (len(filtered) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filtered)))
	}

	imgui.End()
}

// rev is a cheap, if imprecise, change signal: entity count plus the
// number of distinct component types in play. It avoids rebuilding every
// frame, but a change that leaves the sum the same (one entity despawned
// and another spawned, or a component of an already-known type added or
// removed) is not detected: the cached rows stay as they are until the
// sum changes.
func (eb *EntityBrowser) rebuildCacheIfNeeded(w *ecs.World) {
	rev := w.Stats().EntityCount + len(w.ComponentTypes())
	if eb.cache.lastEntityRev != rev {
		eb.cache.entities = nil
		eb.cache.lastEntityRev = rev
	}
	if eb.cache.entities == nil {
		eb.rebuildCache(w)
	}
}

func (eb *EntityBrowser) rebuildCache(w *ecs.World) {
	types := w.ComponentTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}

	eb.cache.entities = nil
	for e := range ecs.Entities(w) {
		var present []string
		for i, t := range types {
			if w.HasComponentType(t, e) {
				present = append(present, names[i])
			}
		}
		eb.cache.entities = append(eb.cache.entities, entityInfo{
			ID:             e,
			ComponentTypes: present,
			ComponentCount: len(present),
		})
	}
	eb.sortEntities()
}

func (eb *EntityBrowser) sortEntities() {
	sort.Slice(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool
		switch eb.cache.sortColumn {
		case 0:
			less = a.ID < b.ID
		case 1:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 2:
			less = a.ComponentCount < b.ComponentCount
		default:
			less = a.ID < b.ID
		}
		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowser) filteredEntities() []entityInfo {
	if eb.filterText == "" && eb.filterType == "" {
		return eb.cache.entities
	}

	filtered := make([]entityInfo, 0, len(eb.cache.entities))
	needle := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterType != "" && !containsType(entity.ComponentTypes, eb.filterType) {
			continue
		}
		if eb.filterText != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))
			if !strings.Contains(idStr, needle) && !strings.Contains(componentsStr, needle) {
				continue
			}
		}
		filtered = append(filtered, entity)
	}
	return filtered
}

func containsType(types []string, t string) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// SelectedEntity returns the entity currently highlighted in the browser.
func (eb *EntityBrowser) SelectedEntity() ecs.Entity {
	return eb.selectedEntity
}
