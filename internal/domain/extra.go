package domain

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// reserved keys are system managed and never accepted as additional fields.
var reserved = map[string]struct{}{
	"id": {}, "_id": {}, "__v": {}, "createdat": {}, "updatedat": {},
}

// jsonFields returns the lower-cased JSON names of v's struct fields.
// encoding/json matches keys case-insensitively, so lookups must too.
func jsonFields(v any) map[string]struct{} {
	t := reflect.TypeOf(v)
	out := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		out[strings.ToLower(name)] = struct{}{}
	}
	return out
}

func withKeys(m map[string]struct{}, keys ...string) map[string]struct{} {
	for _, k := range keys {
		m[strings.ToLower(k)] = struct{}{}
	}
	return m
}

// extraFields collects the top-level keys of the JSON object b that are not
// part of known.
func extraFields(b []byte, known map[string]struct{}) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	var out map[string]any
	for k, v := range raw {
		lk := strings.ToLower(k)
		if _, ok := known[lk]; ok {
			continue
		}
		if _, ok := reserved[lk]; ok {
			continue
		}
		if k == "" || strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, err
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = val
	}
	return out, nil
}

// withExtra splices the extra key/values into the encoded JSON object b.
func withExtra(b []byte, extra map[string]any) ([]byte, error) {
	if len(extra) == 0 {
		return b, nil
	}
	eb, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimRight(b, " \n")
	if len(b) < 2 || len(eb) <= 2 {
		return b, nil
	}
	out := make([]byte, 0, len(b)+len(eb))
	out = append(out, b[:len(b)-1]...)
	if len(b) > 2 {
		out = append(out, ',')
	}
	out = append(out, eb[1:]...)
	return out, nil
}

// CloneExtra copies an additional-fields map, descending into nested
// objects and arrays so the copy shares no mutable state with m.
func CloneExtra(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneExtra(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
