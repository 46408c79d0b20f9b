// Package taxonomy reconciles the legacy single-valued specialty/category fields with the
// canonical array fields, and carries the static reference vocabulary used for validation
// and browse facets.
package taxonomy

import (
	"bytes"
	"encoding/json"
)

// Normalize returns the canonical array form of one taxonomy dimension.
//
// A non-nil plural slice wins and is copied. Otherwise a non-empty singular value becomes a
// one-element slice. Otherwise the result is an empty, non-nil slice. The input slice is
// never returned or modified, so callers may keep filtering their own records.
func Normalize(plural []string, singular string) []string {
	if plural != nil {
		out := make([]string, len(plural))
		copy(out, plural)
		return out
	}
	if singular != "" {
		return []string{singular}
	}
	return []string{}
}

// NormalizeRaw applies the same rules to persisted JSON, where the plural field may be
// missing, null or of the wrong shape. Only a JSON array counts as a plural value; non-string
// elements inside it are dropped. Only a non-empty JSON string counts as a singular value.
func NormalizeRaw(plural, singular json.RawMessage) []string {
	if isArray(plural) {
		var items []any
		if err := json.Unmarshal(plural, &items); err == nil {
			out := make([]string, 0, len(items))
			for _, item := range items {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
	if len(singular) > 0 {
		var s string
		if err := json.Unmarshal(singular, &s); err == nil && s != "" {
			return []string{s}
		}
	}
	return []string{}
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Intersects reports whether a and b share at least one element.
func Intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
