// Package entity normalizes raw reference-content JSON into canonical,
// filterable summaries.
//
// The corpus is heterogeneous: the same logical field appears as a scalar
// in one document and a structured object or array in another. All shape
// handling lives here, one resolver per field, so the store and importer
// never inspect raw JSON. Resolution never fails — missing or unreadable
// values degrade to documented defaults.
package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// first unwraps a one-or-many value: arrays resolve to their first element,
// anything else passes through. Empty arrays resolve to nil.
func first(v any) any {
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return nil
		}
		return arr[0]
	}
	return v
}

// sub returns obj[key] when v is a JSON object, or nil.
func sub(v any, key string) any {
	if obj, ok := v.(map[string]any); ok {
		return obj[key]
	}
	return nil
}

// str coerces a scalar to string. Numbers are formatted without a trailing
// ".0" so a JSON 5 round-trips as "5".
func str(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10), true
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}

// num coerces a scalar to float64. encoding/json decodes every JSON number
// as float64; numeric strings are parsed as a fallback.
func num(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// boolean reports a JSON true. Anything else, including absence, is false.
func boolean(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// joined flattens a scalar-or-array value into a single space-joined string.
// Used for alignment, where the corpus stores letter-code arrays like
// ["L", "E"].
func joined(v any, sep string) (string, bool) {
	if s, ok := str(v); ok {
		return s, true
	}
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return "", false
	}
	parts := make([]string, 0, len(arr))
	for _, el := range arr {
		if s, ok := str(el); ok {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, sep), true
}

// ChallengeValue converts a challenge-rating string into its numeric sort
// key. Fractions map exactly, anything else parses as a float, and
// unparseable input degrades to 0.
func ChallengeValue(cr string) float64 {
	switch strings.TrimSpace(cr) {
	case "1/8":
		return 0.125
	case "1/4":
		return 0.25
	case "1/2":
		return 0.5
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(cr), 64)
	if err != nil {
		return 0
	}
	return f
}

// fmtNum renders a float without a spurious fraction part, for display
// strings like range distances.
func fmtNum(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprintf("%g", f)
}
