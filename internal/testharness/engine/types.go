// Package engine runs protocol scenarios step by step.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/buttplug-go/buttplug/internal/testharness/loader"
)

// TestResult represents the outcome of a single scenario.
type TestResult struct {
	// TestCase is the scenario that was executed.
	TestCase *loader.TestCase

	// Passed indicates if all steps passed.
	Passed bool

	// Error is the error that caused failure, if any.
	Error error

	// StepResults contains results for each executed step.
	StepResults []*StepResult

	// Duration is how long the scenario took.
	Duration time.Duration

	// StartTime when the scenario started.
	StartTime time.Time

	// EndTime when the scenario finished.
	EndTime time.Time

	// Skipped indicates if the scenario was skipped.
	Skipped bool

	// SkipReason explains why the scenario was skipped.
	SkipReason string
}

// Status returns "passed", "failed" or "skipped".
func (r *TestResult) Status() string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Passed:
		return "passed"
	default:
		return "failed"
	}
}

// StepResult represents the outcome of a single step.
type StepResult struct {
	// Step is the step that was executed.
	Step *loader.Step

	// StepIndex is the index of this step (0-based).
	StepIndex int

	// Passed indicates if the step passed.
	Passed bool

	// Error is the error that caused failure, if any.
	Error error

	// ExpectResults maps expectation keys to their results.
	ExpectResults map[string]*ExpectResult

	// Duration is how long the step took.
	Duration time.Duration

	// Output contains the values the step's handler produced.
	Output map[string]any
}

// ExpectResult represents the result of checking an expectation.
type ExpectResult struct {
	Key      string
	Expected any
	Actual   any
	Passed   bool
	Message  string
}

// SuiteResult represents the outcome of running several scenarios.
type SuiteResult struct {
	SuiteName string
	Results   []*TestResult
	PassCount int
	FailCount int
	SkipCount int
	Duration  time.Duration
}

// ActionHandler performs a step action. The returned outputs are checked
// against the step's expectations and stay visible to later steps.
type ActionHandler func(ctx context.Context, step *loader.Step, state *ExecutionState) (map[string]any, error)

// ExpectChecker checks one expectation against the execution state.
type ExpectChecker func(key string, expected any, state *ExecutionState) *ExpectResult

// ExecutionState holds state during a scenario.
type ExecutionState struct {
	// Outputs accumulated from previous steps.
	Outputs map[string]any

	// Target is whatever the scenario's handlers act on, installed by
	// the Setup hook.
	Target any

	// Context for cancellation.
	Context context.Context
}

// NewExecutionState creates a new execution state.
func NewExecutionState(ctx context.Context) *ExecutionState {
	return &ExecutionState{
		Outputs: make(map[string]any),
		Context: ctx,
	}
}

// Get retrieves a value from outputs. Keys may be wrapped in "{{ }}" and
// may use dots to reach into saved maps ("lush.DeviceIndex").
func (s *ExecutionState) Get(key string) (any, bool) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "{{") && strings.HasSuffix(key, "}}") {
		key = strings.TrimSpace(key[2 : len(key)-2])
	}
	if v, ok := s.Outputs[key]; ok {
		return v, true
	}

	head, rest, found := strings.Cut(key, ".")
	if !found {
		return nil, false
	}
	v, ok := s.Outputs[head]
	for ok {
		m, isMap := v.(map[string]any)
		if !isMap {
			return nil, false
		}
		var part string
		part, rest, found = strings.Cut(rest, ".")
		v, ok = m[part]
		if !found {
			return v, ok
		}
	}
	return nil, false
}

// Set stores a value in outputs.
func (s *ExecutionState) Set(key string, value any) {
	s.Outputs[key] = value
}

// EngineConfig configures the engine.
type EngineConfig struct {
	// SuiteName names the suite in reports.
	SuiteName string

	// DefaultTimeout is the default timeout for a scenario.
	DefaultTimeout time.Duration

	// StepTimeout is the default timeout for individual steps.
	StepTimeout time.Duration

	// StopOnFirstFailure stops the suite after the first failed scenario.
	StopOnFirstFailure bool

	// Setup prepares a scenario, typically by installing state.Target.
	Setup func(ctx context.Context, tc *loader.TestCase, state *ExecutionState) error

	// Teardown releases what Setup created. It runs even when steps fail.
	Teardown func(tc *loader.TestCase, state *ExecutionState)

	// OnTestComplete is called after each scenario of a suite.
	OnTestComplete func(result *TestResult)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		SuiteName:      "Buttplug Protocol",
		DefaultTimeout: 30 * time.Second,
		StepTimeout:    5 * time.Second,
	}
}
