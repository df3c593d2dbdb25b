package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ToFloat64 converts the numeric types produced by YAML, JSON and the
// handlers to float64.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint8:
		return float64(n), true
	default:
		return 0, false
	}
}

// CheckerSaveAs stores the whole step output under the expected name, so
// later steps can use {{ name.Field }}.
func CheckerSaveAs(key string, expected any, state *ExecutionState) *ExpectResult {
	targetKey, ok := expected.(string)
	if !ok {
		return &ExpectResult{
			Key: key, Expected: expected, Passed: false,
			Message: fmt.Sprintf("save_as target must be a string, got %T", expected),
		}
	}
	output, exists := state.Get(InternalStepOutput)
	if !exists {
		return &ExpectResult{
			Key: key, Expected: expected, Passed: false,
			Message: "no step output to save",
		}
	}

	state.Set(targetKey, output)
	return &ExpectResult{
		Key: key, Expected: expected, Actual: output, Passed: true,
		Message: fmt.Sprintf("saved step output as %q", targetKey),
	}
}

// CheckerContains checks substrings of several outputs at once:
//
//	contains:
//	  DeviceName: Lush
func CheckerContains(key string, expected any, state *ExecutionState) *ExpectResult {
	want, ok := expected.(map[string]any)
	if !ok {
		return &ExpectResult{
			Key: key, Expected: expected, Passed: false,
			Message: fmt.Sprintf("contains expects a map of output to substring, got %T", expected),
		}
	}

	names := make([]string, 0, len(want))
	for name := range want {
		names = append(names, name)
	}
	sort.Strings(names)

	var missing []string
	actual := make(map[string]any, len(want))
	for _, name := range names {
		v, exists := state.Get(name)
		actual[name] = v
		if !exists || !strings.Contains(fmt.Sprintf("%v", v), fmt.Sprintf("%v", want[name])) {
			missing = append(missing, fmt.Sprintf("%s=%v does not contain %q", name, v, want[name]))
		}
	}
	if len(missing) > 0 {
		return &ExpectResult{
			Key: key, Expected: expected, Actual: actual, Passed: false,
			Message: strings.Join(missing, "; "),
		}
	}
	return &ExpectResult{
		Key: key, Expected: expected, Actual: actual, Passed: true,
		Message: "all substrings found",
	}
}

// CheckerErrorContains checks the ErrorMessage of an Error reply.
func CheckerErrorContains(key string, expected any, state *ExecutionState) *ExpectResult {
	actual, exists := state.Get(KeyErrorMessage)
	if !exists {
		return &ExpectResult{
			Key: key, Expected: expected, Passed: false,
			Message: "step produced no error message",
		}
	}

	actualStr, ok1 := actual.(string)
	expectedStr, ok2 := expected.(string)
	if !ok1 || !ok2 {
		return &ExpectResult{
			Key: key, Expected: expected, Actual: actual, Passed: false,
			Message: fmt.Sprintf("expected string types for contains check, got %T and %T", actual, expected),
		}
	}

	passed := strings.Contains(actualStr, expectedStr)
	return &ExpectResult{
		Key: key, Expected: expected, Actual: actual, Passed: passed,
		Message: fmt.Sprintf("error message contains %q: %v", expectedStr, passed),
	}
}

// CheckerNoError passes when the step's reply is not an Error message.
// Used in YAML as: no_error: true
func CheckerNoError(key string, expected any, state *ExecutionState) *ExpectResult {
	output, _ := state.Get(InternalStepOutput)
	step, _ := output.(map[string]any)
	if step[KeyKind] == "Error" {
		return &ExpectResult{
			Key: key, Expected: expected, Actual: step[KeyErrorMessage], Passed: false,
			Message: fmt.Sprintf("error reply: %v", step[KeyErrorMessage]),
		}
	}
	return &ExpectResult{
		Key: key, Expected: expected, Actual: step[KeyKind], Passed: true,
		Message: "no error present",
	}
}

// CheckerDurationUnder checks that the step's round trip took less than
// the expected duration string (e.g. "100ms").
func CheckerDurationUnder(key string, expected any, state *ExecutionState) *ExpectResult {
	limit, err := parseDuration(expected)
	if err != nil {
		return &ExpectResult{
			Key: key, Expected: expected, Passed: false,
			Message: err.Error(),
		}
	}
	actual, exists := state.Get(KeyDuration)
	if !exists {
		return &ExpectResult{
			Key: key, Expected: expected, Passed: false,
			Message: fmt.Sprintf("output key %q not found", KeyDuration),
		}
	}
	took, err := parseDuration(actual)
	if err != nil {
		return &ExpectResult{
			Key: key, Expected: expected, Actual: actual, Passed: false,
			Message: err.Error(),
		}
	}

	passed := took < limit
	return &ExpectResult{
		Key: key, Expected: expected, Actual: took, Passed: passed,
		Message: fmt.Sprintf("%s < %s = %v", took, limit, passed),
	}
}

// CheckerValueInRange checks numeric outputs against inclusive bounds:
//
//	in_range:
//	  Speed: [0, 1]
func CheckerValueInRange(key string, expected any, state *ExecutionState) *ExpectResult {
	bounds, ok := expected.(map[string]any)
	if !ok {
		return &ExpectResult{
			Key: key, Expected: expected, Passed: false,
			Message: fmt.Sprintf("in_range expects a map of output to [min, max], got %T", expected),
		}
	}

	for name, b := range bounds {
		pair, ok := b.([]any)
		if !ok || len(pair) != 2 {
			return &ExpectResult{
				Key: key, Expected: expected, Passed: false,
				Message: fmt.Sprintf("%s: bounds must be a [min, max] array", name),
			}
		}
		actual, exists := state.Get(name)
		value, ok1 := ToFloat64(actual)
		lo, ok2 := ToFloat64(pair[0])
		hi, ok3 := ToFloat64(pair[1])
		if !exists || !ok1 || !ok2 || !ok3 {
			return &ExpectResult{
				Key: key, Expected: expected, Actual: actual, Passed: false,
				Message: fmt.Sprintf("%s: cannot compare %v", name, actual),
			}
		}
		if value < lo || value > hi {
			return &ExpectResult{
				Key: key, Expected: expected, Actual: actual, Passed: false,
				Message: fmt.Sprintf("%s = %v not in [%v, %v]", name, value, lo, hi),
			}
		}
	}
	return &ExpectResult{
		Key: key, Expected: expected, Passed: true,
		Message: "all values in range",
	}
}

func parseDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		return time.ParseDuration(d)
	default:
		if n, ok := ToFloat64(v); ok {
			return time.Duration(n), nil
		}
		return 0, fmt.Errorf("cannot interpret %v (%T) as a duration", v, v)
	}
}

// RegisterEnhancedCheckers registers every checker beyond the default one.
func RegisterEnhancedCheckers(e *Engine) {
	e.RegisterChecker(CheckerNameSaveAs, CheckerSaveAs)
	e.RegisterChecker(CheckerNameContains, CheckerContains)
	e.RegisterChecker(CheckerNameErrorContains, CheckerErrorContains)
	e.RegisterChecker(CheckerNameNoError, CheckerNoError)
	e.RegisterChecker(CheckerNameDurationUnder, CheckerDurationUnder)
	e.RegisterChecker(CheckerNameValueInRange, CheckerValueInRange)
}
