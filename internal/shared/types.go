package shared

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value any) error {
	return scanJSON(value, s, "StringSlice")
}

// Contains reports whether v is present.
func (s StringSlice) Contains(v string) bool {
	return slices.Contains(s, v)
}

// ContainsAll reports whether every element of sub is present in s.
func (s StringSlice) ContainsAll(sub []string) bool {
	if len(sub) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(s))
	for _, v := range s {
		set[v] = struct{}{}
	}
	for _, v := range sub {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

// Without returns a copy of s with every occurrence of v removed.
func (s StringSlice) Without(v string) StringSlice {
	out := make(StringSlice, 0, len(s))
	for _, item := range s {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}

func (s StringSlice) Clone() StringSlice {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

type FloatMap map[string]float64

func (m FloatMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *FloatMap) Scan(value any) error {
	return scanJSON(value, m, "FloatMap")
}

func (m FloatMap) Clone() FloatMap {
	if m == nil {
		return nil
	}
	out := make(FloatMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func scanJSON(value any, dst any, name string) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, name)
	}

	return json.Unmarshal(bytes, dst)
}

func NewID(prefix string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return prefix + hex.EncodeToString(b)
}
