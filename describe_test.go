package prefsink

import "testing"

func TestDescribeFlattensNestedValues(t *testing.T) {
	jar := Create("buster", map[string]any{
		"color": "red",
		"server": map[string]any{
			"port": int64(8080),
			"tls":  map[string]any{"enabled": true},
		},
		"tags":  []any{"a", "b"},
		"empty": map[string]any{},
		"unset": nil,
	}, "/p")

	want := []FieldDescriptor{
		{Path: "color", Type: "string", EnvVar: "BUSTER_COLOR"},
		{Path: "empty", Type: "map[string]any", EnvVar: "BUSTER_EMPTY"},
		{Path: "server.port", Type: "int64"},
		{Path: "server.tls.enabled", Type: "bool"},
		{Path: "tags", Type: "[]string", EnvVar: "BUSTER_TAGS"},
		{Path: "unset", Type: "nil", EnvVar: "BUSTER_UNSET"},
	}
	got := jar.Describe()
	if len(got) != len(want) {
		t.Fatalf("expected %d fields, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].Path != want[i].Path || got[i].Type != want[i].Type || got[i].EnvVar != want[i].EnvVar {
			t.Fatalf("field %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestDescribeEmptyJar(t *testing.T) {
	if fields := Create("buster", nil, "").Describe(); len(fields) != 0 {
		t.Fatalf("expected no fields, got %+v", fields)
	}
}
