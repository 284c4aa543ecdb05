package render

import (
	"maps"
	"slices"
	"strings"
)

// HiddenField is a hidden input emitted next to the visible controls, such as
// the PIN visibility flag carried through a full-page POST.
type HiddenField struct {
	Name  string
	Value string
}

// SortedHiddenFields merges extra over base and returns the result ordered by
// name. Blank names are dropped and later entries win.
func SortedHiddenFields(base map[string]string, extra ...HiddenField) []HiddenField {
	merged := make(map[string]string, len(base)+len(extra))
	for name, value := range base {
		if name = strings.TrimSpace(name); name != "" {
			merged[name] = value
		}
	}
	for _, field := range extra {
		if name := strings.TrimSpace(field.Name); name != "" {
			merged[name] = field.Value
		}
	}
	if len(merged) == 0 {
		return nil
	}

	out := make([]HiddenField, 0, len(merged))
	for _, name := range slices.Sorted(maps.Keys(merged)) {
		out = append(out, HiddenField{Name: name, Value: merged[name]})
	}
	return out
}
