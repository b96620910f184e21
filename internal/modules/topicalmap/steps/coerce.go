package steps

import (
	"encoding/json"
	"fmt"
	"strings"
)

func stringFromAny(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func stringSliceFromAny(v any) []string {
	out := []string{}
	if v == nil {
		return out
	}
	arr, ok := v.([]any)
	if !ok {
		if s := stringFromAny(v); s != "" {
			out = append(out, s)
		}
		return out
	}
	for _, x := range arr {
		if s := stringFromAny(x); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func boolFromAny(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		return s == "true" || s == "1" || s == "yes"
	default:
		return false
	}
}

// optFloat returns nil for absent, null or non-numeric values.
func optFloat(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return nil
		}
		f = x
	default:
		return nil
	}
	return &f
}

func sliceAny(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return nil
}

// mapsFromAny keeps only the object elements of a JSON array.
func mapsFromAny(v any) []map[string]any {
	arr := sliceAny(v)
	out := make([]map[string]any, 0, len(arr))
	for _, x := range arr {
		if m, ok := x.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// requireArray fails when a required top-level field is missing or is not an array.
func requireArray(stage Stage, raw map[string]any, field string) ([]any, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return nil, &ValidationError{Stage: stage, Field: field}
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &ValidationError{Stage: stage, Field: field, Reason: "expected an array"}
	}
	return arr, nil
}

func lowerEnum(v any) string {
	return strings.ToLower(stringFromAny(v))
}
