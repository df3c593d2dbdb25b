package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// refPattern matches a {{ name }} or {{ name.Field }} reference.
var refPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}\}`)

// Resolve substitutes references in a step's params or expectations.
//
// A string that is exactly one reference takes the referenced value with
// its type intact, so "{{ lush.DeviceIndex }}" stays a number. References
// embedded in longer text are formatted into the text. Unknown references
// are kept verbatim. Nested maps and lists are resolved recursively; the
// input is never modified.
func Resolve(params map[string]any, state *ExecutionState) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = resolveValue(v, state)
	}
	return out
}

func resolveValue(v any, state *ExecutionState) any {
	switch t := v.(type) {
	case string:
		return resolveString(t, state)
	case map[string]any:
		return Resolve(t, state)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = resolveValue(t[i], state)
		}
		return out
	}
	return v
}

func resolveString(s string, state *ExecutionState) any {
	if state == nil {
		return s
	}
	trimmed := strings.TrimSpace(s)
	if loc := refPattern.FindStringSubmatchIndex(trimmed); loc != nil && loc[0] == 0 && loc[1] == len(trimmed) {
		if v, ok := state.Get(trimmed[loc[2]:loc[3]]); ok {
			return v
		}
		return s
	}
	return Expand(s, state)
}

// Expand formats every known reference in s into the text.
func Expand(s string, state *ExecutionState) string {
	if state == nil {
		return s
	}
	return refPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := refPattern.FindStringSubmatch(ref)[1]
		v, ok := state.Get(name)
		if !ok {
			return ref
		}
		return formatRef(v)
	})
}

// formatRef prints whole floats without a fraction, since JSON numbers
// decode as float64.
func formatRef(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}
