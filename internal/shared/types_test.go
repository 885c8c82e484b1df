package shared

import (
	"strings"
	"testing"
)

func TestStringSlice_Value(t *testing.T) {
	tests := map[string]struct {
		slice StringSlice
		want  string
	}{
		"nil":          {nil, "[]"},
		"empty":        {StringSlice{}, "[]"},
		"capabilities": {StringSlice{"text_generation", "vision"}, `["text_generation","vision"]`},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := tt.slice.Value()
			if err != nil {
				t.Fatalf("Value() error = %v", err)
			}
			var got string
			switch raw := v.(type) {
			case string:
				got = raw
			case []byte:
				got = string(raw)
			default:
				t.Fatalf("unexpected driver value %T", v)
			}
			if got != tt.want {
				t.Errorf("Value() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStringSlice_Scan(t *testing.T) {
	var s StringSlice
	if err := s.Scan([]byte(`["gpu","edge"]`)); err != nil {
		t.Fatalf("Scan([]byte) error = %v", err)
	}
	if !s.ContainsAll([]string{"edge", "gpu"}) || len(s) != 2 {
		t.Errorf("unexpected slice %v", s)
	}

	var fromString StringSlice
	if err := fromString.Scan(`["finance"]`); err != nil || len(fromString) != 1 {
		t.Errorf("Scan(string) = %v, %v", fromString, err)
	}

	var untouched StringSlice
	if err := untouched.Scan(nil); err != nil || untouched != nil {
		t.Errorf("Scan(nil) = %v, %v", untouched, err)
	}

	for _, bad := range []any{42, "not json"} {
		var out StringSlice
		if err := out.Scan(bad); err == nil {
			t.Errorf("Scan(%v) expected error", bad)
		}
	}
}

func TestNewID(t *testing.T) {
	id := NewID("task_")
	if !strings.HasPrefix(id, "task_") || len(id) != len("task_")+32 {
		t.Errorf("unexpected id %q", id)
	}
	if NewID("task_") == id {
		t.Error("expected distinct ids")
	}
}

func TestStringSlice_ContainsAll(t *testing.T) {
	tests := []struct {
		name   string
		slice  StringSlice
		sub    []string
		expect bool
	}{
		{"empty requirement", StringSlice{"a"}, nil, true},
		{"empty slice empty requirement", nil, []string{}, true},
		{"subset", StringSlice{"a", "b", "c"}, []string{"c", "a"}, true},
		{"missing one", StringSlice{"a", "b"}, []string{"a", "z"}, false},
		{"empty slice", nil, []string{"a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.slice.ContainsAll(tt.sub); got != tt.expect {
				t.Errorf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestStringSlice_Without(t *testing.T) {
	s := StringSlice{"t1", "t2", "t1", "t3"}
	out := s.Without("t1")
	if len(out) != 2 || out[0] != "t2" || out[1] != "t3" {
		t.Errorf("unexpected result %v", out)
	}
	if len(s) != 4 {
		t.Error("expected original slice untouched")
	}
}

func TestFloatMap_ScanValue(t *testing.T) {
	m := FloatMap{"bandwidth": 50}
	v, err := m.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out FloatMap
	if err := out.Scan(v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["bandwidth"] != 50 {
		t.Errorf("expected 50, got %v", out["bandwidth"])
	}

	empty, _ := FloatMap(nil).Value()
	if empty != "{}" {
		t.Errorf("expected {} for nil map, got %v", empty)
	}
}

func TestFloatMap_CloneIsIndependent(t *testing.T) {
	m := FloatMap{"a": 1}
	c := m.Clone()
	c["a"] = 2
	if m["a"] != 1 {
		t.Error("expected clone to be independent")
	}
	if FloatMap(nil).Clone() != nil {
		t.Error("expected nil clone of nil map")
	}
}
