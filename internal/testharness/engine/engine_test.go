package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/buttplug-go/buttplug/internal/testharness/engine"
	"github.com/buttplug-go/buttplug/internal/testharness/loader"
)

func emit(outputs map[string]any) engine.ActionHandler {
	return func(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
		return outputs, nil
	}
}

// TestEngineBasic tests basic engine functionality.
func TestEngineBasic(t *testing.T) {
	e := engine.New()
	e.RegisterHandler("send", emit(map[string]any{"kind": "Ok", "id": uint32(2)}))

	tc := &loader.TestCase{
		ID:   "TC-001",
		Name: "Basic Test",
		Steps: []loader.Step{{
			Action: "send",
			Expect: map[string]any{"kind": "Ok", "id": 2},
		}},
	}

	result := e.Run(context.Background(), tc)
	if !result.Passed {
		t.Errorf("Test should pass, error: %v", result.Error)
	}
	if len(result.StepResults) != 1 {
		t.Errorf("Expected 1 step result, got %d", len(result.StepResults))
	}
	if result.Status() != "passed" {
		t.Errorf("Status = %s", result.Status())
	}
}

// TestEngineSteps tests sequential step execution and stopping at the
// first failed step.
func TestEngineSteps(t *testing.T) {
	e := engine.New()
	var order []string
	record := func(name string, err error) engine.ActionHandler {
		return func(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
			order = append(order, name)
			return nil, err
		}
	}
	e.RegisterHandler("one", record("one", nil))
	e.RegisterHandler("two", record("two", errors.New("broken")))
	e.RegisterHandler("three", record("three", nil))

	tc := &loader.TestCase{
		ID:    "TC-STEPS",
		Steps: []loader.Step{{Action: "one"}, {Action: "two"}, {Action: "three"}},
	}
	result := e.Run(context.Background(), tc)

	if result.Passed {
		t.Error("Test should fail")
	}
	if strings.Join(order, ",") != "one,two" {
		t.Errorf("Execution order = %v", order)
	}
	if result.Error == nil || result.Error.Error() != "two: broken" {
		t.Errorf("Error = %v", result.Error)
	}
}

func TestDefaultCheckerNumbers(t *testing.T) {
	e := engine.New()
	e.RegisterHandler("emit", emit(map[string]any{
		"DeviceIndex": float64(0),
		"ErrorCode":   uint8(4),
		"Speeds":      []any{float64(10)},
		"Name":        "Lovense Lush",
	}))

	tc := &loader.TestCase{
		ID: "TC-NUM",
		Steps: []loader.Step{{
			Action: "emit",
			Expect: map[string]any{
				"DeviceIndex": 0,
				"ErrorCode":   4,
				"Speeds":      []any{10},
				"Name":        "Lovense Lush",
			},
		}},
	}
	result := e.Run(context.Background(), tc)
	if !result.Passed {
		t.Errorf("expected pass, got %v", result.Error)
	}
}

// TestDefaultChecker_PresentValue tests the "present" keyword.
func TestDefaultChecker_PresentValue(t *testing.T) {
	e := engine.New()
	e.RegisterHandler("emit", emit(map[string]any{"ServerName": "anything"}))

	tc := &loader.TestCase{
		ID:    "TC-PRESENT",
		Steps: []loader.Step{{Action: "emit", Expect: map[string]any{"ServerName": engine.ValuePresent}}},
	}
	if result := e.Run(context.Background(), tc); !result.Passed {
		t.Errorf("expected pass, got %v", result.Error)
	}

	tc.Steps[0].Expect = map[string]any{"MaxPingTime": engine.ValuePresent}
	result := e.Run(context.Background(), tc)
	if result.Passed {
		t.Error("expected test to fail when key is missing")
	}
	if !strings.Contains(result.Error.Error(), `key "MaxPingTime" not found`) {
		t.Errorf("Error = %v", result.Error)
	}
}

// TestEngineTimeout tests step timeout handling.
func TestEngineTimeout(t *testing.T) {
	config := engine.DefaultConfig()
	config.StepTimeout = 50 * time.Millisecond
	e := engine.NewWithConfig(config)

	e.RegisterHandler("slow", func(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
			return map[string]any{"done": true}, nil
		}
	})

	tc := &loader.TestCase{ID: "TC-TIMEOUT", Steps: []loader.Step{{Action: "slow"}}}
	result := e.Run(context.Background(), tc)
	if result.Passed {
		t.Error("Test should fail due to timeout")
	}
	if !errors.Is(result.Error, context.DeadlineExceeded) {
		t.Errorf("Error = %v", result.Error)
	}

	// An explicit wait extends the step deadline.
	tc.Steps[0].Params = map[string]any{"duration_ms": 600}
	if result := e.Run(context.Background(), tc); !result.Passed {
		t.Errorf("wait step should fit its deadline: %v", result.Error)
	}
}

// TestEngineResults tests suite result collection.
func TestEngineResults(t *testing.T) {
	var completed []string
	config := engine.DefaultConfig()
	config.OnTestComplete = func(r *engine.TestResult) { completed = append(completed, r.TestCase.ID) }
	e := engine.NewWithConfig(config)
	e.RegisterHandler("pass", emit(map[string]any{"pass": true}))
	e.RegisterHandler("fail", func(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
		return nil, errors.New("intentional failure")
	})

	cases := []*loader.TestCase{
		{ID: "TC-PASS-1", Steps: []loader.Step{{Action: "pass", Expect: map[string]any{"pass": true}}}},
		{ID: "TC-PASS-2", Steps: []loader.Step{{Action: "pass"}}},
		{ID: "TC-FAIL", Steps: []loader.Step{{Action: "fail"}}},
		{ID: "TC-SKIP", Skip: true, Steps: []loader.Step{{Action: "fail"}}},
	}
	result := e.RunSuite(context.Background(), cases)

	if result.PassCount != 2 || result.FailCount != 1 || result.SkipCount != 1 {
		t.Errorf("counts = %d/%d/%d", result.PassCount, result.FailCount, result.SkipCount)
	}
	if result.SuiteName != "Buttplug Protocol" {
		t.Errorf("SuiteName = %s", result.SuiteName)
	}
	if len(completed) != 4 {
		t.Errorf("OnTestComplete calls = %v", completed)
	}
	if result.Results[3].SkipReason != "skipped by test definition" {
		t.Errorf("SkipReason = %q", result.Results[3].SkipReason)
	}
}

// TestEngineStopOnFirstFailure tests early suite termination.
func TestEngineStopOnFirstFailure(t *testing.T) {
	config := engine.DefaultConfig()
	config.StopOnFirstFailure = true
	e := engine.NewWithConfig(config)
	e.RegisterHandler("fail", func(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
		return nil, errors.New("nope")
	})

	cases := []*loader.TestCase{
		{ID: "TC-1", Steps: []loader.Step{{Action: "fail"}}},
		{ID: "TC-2", Steps: []loader.Step{{Action: "fail"}}},
	}
	result := e.RunSuite(context.Background(), cases)
	if len(result.Results) != 1 {
		t.Errorf("expected 1 result, got %d", len(result.Results))
	}
}

// TestEngineSetupTeardown tests the per-scenario hooks.
func TestEngineSetupTeardown(t *testing.T) {
	var tornDown bool
	config := engine.DefaultConfig()
	config.Setup = func(ctx context.Context, tc *loader.TestCase, state *engine.ExecutionState) error {
		state.Target = "session:" + tc.ID
		return nil
	}
	config.Teardown = func(tc *loader.TestCase, state *engine.ExecutionState) { tornDown = true }
	e := engine.NewWithConfig(config)
	e.RegisterHandler("target", func(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
		return map[string]any{"target": state.Target}, nil
	})

	tc := &loader.TestCase{ID: "TC-HOOKS", Steps: []loader.Step{{Action: "target", Expect: map[string]any{"target": "session:TC-HOOKS"}}}}
	if result := e.Run(context.Background(), tc); !result.Passed {
		t.Errorf("expected pass, got %v", result.Error)
	}
	if !tornDown {
		t.Error("Teardown not called")
	}

	config.Setup = func(ctx context.Context, tc *loader.TestCase, state *engine.ExecutionState) error {
		return errors.New("no server")
	}
	result := engine.NewWithConfig(config).Run(context.Background(), tc)
	if result.Passed || result.Error == nil || !strings.Contains(result.Error.Error(), "setup failed: no server") {
		t.Errorf("Error = %v", result.Error)
	}
}

// TestEngineInterpolation tests {{ }} references to earlier outputs.
func TestEngineInterpolation(t *testing.T) {
	e := engine.New()
	e.RegisterHandler("added", emit(map[string]any{"kind": "DeviceAdded", "DeviceIndex": float64(3)}))
	e.RegisterHandler("echo", func(ctx context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
		return map[string]any{"message": step.Params["message"], "index": step.Params["index"]}, nil
	})

	tc := &loader.TestCase{
		ID: "TC-INTERP",
		Steps: []loader.Step{
			{Action: "added", Expect: map[string]any{"save_as": "lush"}},
			{
				Action: "echo",
				Params: map[string]any{
					"message": `{"StopDeviceCmd":{"Id":4,"DeviceIndex":{{ lush.DeviceIndex }}}}`,
					"index":   "{{DeviceIndex}}",
				},
				Expect: map[string]any{
					"message": `{"StopDeviceCmd":{"Id":4,"DeviceIndex":3}}`,
					"index":   3,
				},
			},
		},
	}
	result := e.Run(context.Background(), tc)
	if !result.Passed {
		t.Fatalf("expected pass, got %v", result.Error)
	}
	if _, ok := result.StepResults[1].Output["index"].(float64); !ok {
		t.Errorf("pure references keep their type, got %T", result.StepResults[1].Output["index"])
	}
}

// TestEngineExpectations tests the extra checkers.
func TestEngineExpectations(t *testing.T) {
	e := engine.New()
	e.RegisterHandler("error", emit(map[string]any{
		"kind":         "Error",
		"ErrorCode":    float64(2),
		"ErrorMessage": "Ping timed out.",
		"duration":     time.Millisecond,
	}))
	e.RegisterHandler("ok", emit(map[string]any{"kind": "Ok", "Speed": 0.5, "duration": int64(time.Second)}))

	tests := []struct {
		name   string
		action string
		expect map[string]any
		pass   bool
	}{
		{"error contains", "error", map[string]any{"error_contains": "Ping"}, true},
		{"error contains mismatch", "error", map[string]any{"error_contains": "Handshake"}, false},
		{"no error on error", "error", map[string]any{"no_error": true}, false},
		{"no error on ok", "ok", map[string]any{"no_error": true}, true},
		{"contains", "error", map[string]any{"contains": map[string]any{"ErrorMessage": "timed", "kind": "Err"}}, true},
		{"contains mismatch", "error", map[string]any{"contains": map[string]any{"ErrorMessage": "device"}}, false},
		{"duration under", "error", map[string]any{"duration_under": "100ms"}, true},
		{"duration over", "ok", map[string]any{"duration_under": "100ms"}, false},
		{"in range", "ok", map[string]any{"in_range": map[string]any{"Speed": []any{0, 1}}}, true},
		{"out of range", "ok", map[string]any{"in_range": map[string]any{"Speed": []any{0.6, 1}}}, false},
		{"bad range", "ok", map[string]any{"in_range": map[string]any{"Speed": []any{0}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := &loader.TestCase{ID: "TC-EXP", Steps: []loader.Step{{Action: tt.action, Expect: tt.expect}}}
			result := e.Run(context.Background(), tc)
			if result.Passed != tt.pass {
				t.Errorf("Passed = %v, want %v (error: %v)", result.Passed, tt.pass, result.Error)
			}
		})
	}
}

// TestEngineUnknownAction tests handling of unregistered actions.
func TestEngineUnknownAction(t *testing.T) {
	e := engine.New()
	tc := &loader.TestCase{ID: "TC-UNKNOWN", Steps: []loader.Step{{Action: "teleport"}}}
	result := e.Run(context.Background(), tc)
	if result.Passed {
		t.Error("Test should fail for unknown action")
	}
	if result.Error == nil || result.Error.Error() != "unknown action: teleport" {
		t.Errorf("Error = %v", result.Error)
	}
}

func TestExecutionStateGet(t *testing.T) {
	state := engine.NewExecutionState(context.Background())
	state.Set("kind", "Ok")
	state.Set("lush", map[string]any{"DeviceIndex": 0, "nested": map[string]any{"x": "y"}})

	tests := []struct {
		key   string
		want  any
		found bool
	}{
		{"kind", "Ok", true},
		{"{{ kind }}", "Ok", true},
		{"lush.DeviceIndex", 0, true},
		{"lush.nested.x", "y", true},
		{"lush.missing", nil, false},
		{"kind.sub", nil, false},
		{"absent", nil, false},
	}
	for _, tt := range tests {
		got, ok := state.Get(tt.key)
		if ok != tt.found || got != tt.want {
			t.Errorf("Get(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.found)
		}
	}
}

func TestResolve(t *testing.T) {
	state := engine.NewExecutionState(context.Background())
	state.Set("lush", map[string]any{"DeviceIndex": float64(3), "DeviceName": "Lovense Lush"})
	state.Set("speed", 0.5)

	params := map[string]any{
		"index":   "{{ lush.DeviceIndex }}",
		"label":   "{{ lush.DeviceName }} at {{ speed }}",
		"missing": "{{ nope }}",
		"nested":  []any{map[string]any{"Speed": "{{speed}}"}},
		"count":   2,
	}
	got := engine.Resolve(params, state)

	if got["index"] != float64(3) {
		t.Errorf("index = %#v, want float64 3", got["index"])
	}
	if got["label"] != "Lovense Lush at 0.5" {
		t.Errorf("label = %q", got["label"])
	}
	if got["missing"] != "{{ nope }}" {
		t.Errorf("missing = %q", got["missing"])
	}
	nested := got["nested"].([]any)[0].(map[string]any)
	if nested["Speed"] != 0.5 {
		t.Errorf("nested Speed = %#v", nested["Speed"])
	}
	if got["count"] != 2 {
		t.Errorf("count = %#v", got["count"])
	}
	if params["index"] != "{{ lush.DeviceIndex }}" {
		t.Error("input was modified")
	}
	if engine.Expand("idx={{ lush.DeviceIndex }}", state) != "idx=3" {
		t.Errorf("Expand = %q", engine.Expand("idx={{ lush.DeviceIndex }}", state))
	}
}

func TestStepDuration(t *testing.T) {
	cases := []struct {
		params map[string]any
		want   time.Duration
	}{
		{map[string]any{"duration_ms": 250}, 250 * time.Millisecond},
		{map[string]any{"duration": "1s"}, time.Second},
		{map[string]any{"duration": "soon"}, 0},
		{nil, 0},
	}
	for _, c := range cases {
		if got := engine.StepDuration(c.params); got != c.want {
			t.Errorf("StepDuration(%v) = %v, want %v", c.params, got, c.want)
		}
	}
}
