package prefsink

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FieldDescriptor describes one value defined by a preference file. Nested
// mappings are flattened into dotted paths. EnvVar is only set for top-level
// keys, the only ones Get can fall back to the environment for.
type FieldDescriptor struct {
	Path   string `json:"path"`
	Type   string `json:"type"`
	EnvVar string `json:"env_var,omitempty"`
	Value  any    `json:"value,omitempty"`
}

// Describe lists the values defined by the preference file, sorted by path.
func (j *Jar) Describe() []FieldDescriptor {
	fields := []FieldDescriptor{}
	for _, key := range j.Keys() {
		described := describeValue(j.values[key], key)
		for i := range described {
			if described[i].Path == key {
				described[i].EnvVar = j.EnvVarName(key)
			}
		}
		fields = append(fields, described...)
	}
	return fields
}

func describeValue(value any, prefix string) []FieldDescriptor {
	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			return []FieldDescriptor{{Path: prefix, Type: "map[string]any"}}
		}
		var fields []FieldDescriptor
		for _, key := range slices.Sorted(maps.Keys(typed)) {
			fields = append(fields, describeValue(typed[key], joinPath(prefix, key))...)
		}
		return fields
	case []any:
		elementType := "any"
		if len(typed) > 0 {
			elementType = typeName(typed[0])
		}
		return []FieldDescriptor{{Path: prefix, Type: "[]" + elementType, Value: typed}}
	default:
		return []FieldDescriptor{{Path: prefix, Type: typeName(typed), Value: typed}}
	}
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
