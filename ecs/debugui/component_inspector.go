package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hearthglen/ecs"
)

// NewComponentInspector returns a ComponentInspector with no entity selected.
func NewComponentInspector() ComponentInspector {
	return ComponentInspector{}
}

func (ci *ComponentInspector) Render(w *ecs.World, selectedEntity ecs.Entity) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntity = selectedEntity

	if ci.selectedEntity == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	if !ecs.IsAlive(w, ci.selectedEntity) {
		imgui.Text(fmt.Sprintf("Entity %d is no longer alive", ci.selectedEntity))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", ci.selectedEntity))
	imgui.Separator()

	for _, compType := range w.ComponentTypes() {
		if !w.HasComponentType(compType, ci.selectedEntity) {
			continue
		}
		component, ok := w.ComponentAny(compType, ci.selectedEntity)
		if !ok {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderComponent(w, component, compType)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderComponent(w *ecs.World, component any, compType reflect.Type) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	fields := globalReflectionCache.GetFields(compType)

	for _, field := range fields {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}

		ci.renderField(w, field.Name, fieldVal, field, compType)
	}
}

func (ci *ComponentInspector) renderField(w *ecs.World, name string, val reflect.Value, field FieldInfo, compType reflect.Type) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	if field.IsEntity {
		imgui.Text(fmt.Sprintf("%s: entity %d", name, val.Uint()))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			ci.updateField(w, compType, field.Index, func(f reflect.Value) { f.SetInt(int64(v)) })
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			if v >= 0 {
				ci.updateField(w, compType, field.Index, func(f reflect.Value) { f.SetUint(uint64(v)) })
			}
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			ci.updateField(w, compType, field.Index, func(f reflect.Value) { f.SetFloat(float64(v)) })
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			ci.updateField(w, compType, field.Index, func(f reflect.Value) { f.SetBool(v) })
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			ci.updateField(w, compType, field.Index, func(f reflect.Value) { f.SetString(v) })
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			nestedFields := globalReflectionCache.GetFields(val.Type())
			for _, nf := range nestedFields {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderField(w, nf.Name, nestedVal, nf, compType)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

// updateField re-reads the component, mutates field fieldIdx on an
// addressable copy, and writes it back via SetComponentAny. Stores hold
// values rather than pointers, so a read-modify-write has to go through a
// fresh addressable copy each time instead of mutating in place.
func (ci *ComponentInspector) updateField(w *ecs.World, compType reflect.Type, fieldIdx int, mutate func(reflect.Value)) {
	component, ok := w.ComponentAny(compType, ci.selectedEntity)
	if !ok {
		return
	}

	ptr := reflect.New(reflect.TypeOf(component))
	ptr.Elem().Set(reflect.ValueOf(component))

	field := ptr.Elem().Field(fieldIdx)
	if !field.CanSet() {
		return
	}
	mutate(field)

	w.SetComponentAny(compType, ci.selectedEntity, ptr.Elem().Interface())
}
