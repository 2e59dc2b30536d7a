package engine

import (
	"fmt"
	"sort"
)

// ScriptFactory creates a Component from JSON props.
type ScriptFactory func(props map[string]any) Component

// ScriptSerializer converts a Component back to props for JSON saving.
// It returns nil for components it does not own.
type ScriptSerializer func(c Component) map[string]any

// ScriptApplier applies a single property value to a script component.
// Returns true if the property was applied successfully.
type ScriptApplier func(c Component, propName string, value any) bool

type scriptEntry struct {
	factory    ScriptFactory
	serializer ScriptSerializer
	applier    ScriptApplier
	fieldTypes map[string]string
}

var scriptRegistry = map[string]scriptEntry{}

func register(name string, entry scriptEntry) {
	if _, exists := scriptRegistry[name]; exists {
		panic(fmt.Sprintf("script %q already registered", name))
	}
	scriptRegistry[name] = entry
}

// RegisterScript registers a named script with a factory and optional serializer.
func RegisterScript(name string, factory ScriptFactory, serializer ScriptSerializer) {
	register(name, scriptEntry{factory: factory, serializer: serializer})
}

// RegisterScriptWithApplier also registers an applier so single properties can
// be changed at runtime.
func RegisterScriptWithApplier(name string, factory ScriptFactory, serializer ScriptSerializer, applier ScriptApplier) {
	register(name, scriptEntry{factory: factory, serializer: serializer, applier: applier})
}

// RegisterScriptWithMetadata also records the declared type of each prop.
// Props typed "GameObjectRef" hold object UIDs. Scene files keep saved UIDs,
// so these props resolve again after a reload.
func RegisterScriptWithMetadata(name string, factory ScriptFactory, serializer ScriptSerializer, applier ScriptApplier, fieldTypes map[string]string) {
	register(name, scriptEntry{factory: factory, serializer: serializer, applier: applier, fieldTypes: fieldTypes})
}

// CreateScript looks up a registered script by name and creates it with the given props.
func CreateScript(name string, props map[string]any) Component {
	entry, ok := scriptRegistry[name]
	if !ok {
		return nil
	}
	return entry.factory(props)
}

// SerializeScript tries to serialize a component by checking all registered scripts.
// Returns (name, props, true) if found, ("", nil, false) otherwise.
func SerializeScript(c Component) (string, map[string]any, bool) {
	name, entry, ok := lookup(c)
	if !ok {
		return "", nil, false
	}
	return name, entry.serializer(c), true
}

// GetRegisteredScripts returns a sorted list of all registered script names.
func GetRegisteredScripts() []string {
	names := make([]string, 0, len(scriptRegistry))
	for name := range scriptRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyScriptProperty applies a property value to a script component.
// Returns true if the property was applied successfully.
func ApplyScriptProperty(c Component, propName string, value any) bool {
	for _, entry := range scriptRegistry {
		if entry.applier == nil {
			continue
		}
		if entry.applier(c, propName, value) {
			return true
		}
	}
	return false
}

// HasScriptApplier checks if a component has an applier registered.
func HasScriptApplier(c Component) bool {
	_, entry, ok := lookup(c)
	return ok && entry.applier != nil
}

// GetScriptFieldType returns the declared type of a prop on c's script, or ""
// when none was registered.
func GetScriptFieldType(c Component, propName string) string {
	_, entry, ok := lookup(c)
	if !ok || entry.fieldTypes == nil {
		return ""
	}
	return entry.fieldTypes[propName]
}

// ScriptFieldTypes returns the declared prop types of a registered script.
func ScriptFieldTypes(name string) map[string]string {
	return scriptRegistry[name].fieldTypes
}

// lookup finds the entry whose serializer recognizes c.
func lookup(c Component) (string, scriptEntry, bool) {
	for name, entry := range scriptRegistry {
		if entry.serializer == nil {
			continue
		}
		if entry.serializer(c) != nil {
			return name, entry, true
		}
	}
	return "", scriptEntry{}, false
}
