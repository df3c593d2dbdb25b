package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/buttplug-go/buttplug/internal/testharness/loader"
)

// Engine executes scenarios.
type Engine struct {
	config *EngineConfig

	mu       sync.RWMutex
	handlers map[string]ActionHandler
	checkers map[string]ExpectChecker
}

// New creates a new engine with default configuration.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an engine with the built-in checkers registered.
func NewWithConfig(config *EngineConfig) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	e := &Engine{
		config:   config,
		handlers: make(map[string]ActionHandler),
		checkers: map[string]ExpectChecker{CheckerNameDefault: defaultChecker},
	}
	RegisterEnhancedCheckers(e)
	return e
}

// RegisterHandler registers an action handler.
func (e *Engine) RegisterHandler(action string, handler ActionHandler) {
	e.mu.Lock()
	e.handlers[action] = handler
	e.mu.Unlock()
}

// RegisterChecker registers the checker used for expectations named key.
func (e *Engine) RegisterChecker(key string, checker ExpectChecker) {
	e.mu.Lock()
	e.checkers[key] = checker
	e.mu.Unlock()
}

// Actions returns the registered action names, sorted.
func (e *Engine) Actions() []string {
	e.mu.RLock()
	names := make([]string, 0, len(e.handlers))
	for name := range e.handlers {
		names = append(names, name)
	}
	e.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (e *Engine) handler(action string) (ActionHandler, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	h, ok := e.handlers[action]
	return h, ok
}

func (e *Engine) checker(key string) ExpectChecker {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if c, ok := e.checkers[key]; ok {
		return c
	}
	return e.checkers[CheckerNameDefault]
}

// Run executes a single scenario. Steps run in order and the scenario
// ends at the first failing step.
func (e *Engine) Run(ctx context.Context, tc *loader.TestCase) *TestResult {
	result := &TestResult{TestCase: tc, StartTime: time.Now()}
	defer result.finish()

	if tc.Skip {
		result.Skipped = true
		result.SkipReason = tc.SkipReason
		if result.SkipReason == "" {
			result.SkipReason = "skipped by test definition"
		}
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, durationOr(tc.Timeout, e.config.DefaultTimeout))
	defer cancel()

	state := NewExecutionState(ctx)
	if setup := e.config.Setup; setup != nil {
		if err := setup(ctx, tc, state); err != nil {
			result.Error = fmt.Errorf("setup failed: %w", err)
			return result
		}
	}
	if teardown := e.config.Teardown; teardown != nil {
		defer teardown(tc, state)
	}

	for i := range tc.Steps {
		sr := e.runStep(ctx, &tc.Steps[i], i, state)
		result.StepResults = append(result.StepResults, sr)
		if !sr.Passed {
			result.Error = sr.Error
			return result
		}
	}
	result.Passed = true
	return result
}

func (r *TestResult) finish() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// runStep resolves a step against earlier outputs, runs its action and
// checks its expectations.
func (e *Engine) runStep(ctx context.Context, step *loader.Step, index int, state *ExecutionState) *StepResult {
	sr := &StepResult{
		Step:          step,
		StepIndex:     index,
		Output:        make(map[string]any),
		ExpectResults: make(map[string]*ExpectResult),
	}
	start := time.Now()
	defer func() { sr.Duration = time.Since(start) }()

	h, ok := e.handler(step.Action)
	if !ok {
		sr.Error = fmt.Errorf("unknown action: %s", step.Action)
		return sr
	}

	// A step that waits on purpose gets its wait on top of the allowance.
	timeout := durationOr(step.Timeout, e.config.StepTimeout) + StepDuration(step.Params)
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolved := *step
	resolved.Params = Resolve(step.Params, state)
	outputs, err := h(stepCtx, &resolved, state)
	if err != nil {
		sr.Error = fmt.Errorf("%s: %w", step.Action, err)
		return sr
	}

	snapshot := make(map[string]any, len(outputs))
	for k, v := range outputs {
		state.Set(k, v)
		sr.Output[k] = v
		snapshot[k] = v
	}
	state.Set(InternalStepOutput, snapshot)

	expects := Resolve(step.Expect, state)
	keys := make([]string, 0, len(expects))
	for k := range expects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sr.Passed = true
	for _, key := range keys {
		er := e.checker(key)(key, expects[key], state)
		sr.ExpectResults[key] = er
		if !er.Passed && sr.Passed {
			sr.Passed = false
			sr.Error = fmt.Errorf("expectation failed: %s - %s", key, er.Message)
		}
	}
	return sr
}

// defaultChecker compares the output named key with expected. Numbers
// compare by value whatever their Go type; everything else compares by
// its printed form. The value "present" only requires the output to exist.
func defaultChecker(key string, expected any, state *ExecutionState) *ExpectResult {
	res := &ExpectResult{Key: key, Expected: expected}
	actual, ok := state.Get(key)
	if !ok {
		res.Message = fmt.Sprintf("key %q not found in outputs", key)
		return res
	}
	res.Actual = actual

	if s, isStr := expected.(string); isStr && s == ValuePresent {
		res.Passed = true
		res.Message = fmt.Sprintf("%s = %v", key, actual)
		return res
	}

	res.Passed = valuesEqual(expected, actual)
	if res.Passed {
		res.Message = fmt.Sprintf("%s = %v", key, expected)
	} else {
		res.Message = fmt.Sprintf("expected %v, got %v", expected, actual)
	}
	return res
}

func valuesEqual(expected, actual any) bool {
	if en, ok := ToFloat64(expected); ok {
		if an, ok := ToFloat64(actual); ok {
			return en == an
		}
	}
	return fmt.Sprint(expected) == fmt.Sprint(actual)
}

// RunSuite executes scenarios in order and tallies the outcomes.
func (e *Engine) RunSuite(ctx context.Context, cases []*loader.TestCase) *SuiteResult {
	suite := &SuiteResult{SuiteName: e.config.SuiteName}
	start := time.Now()
	defer func() { suite.Duration = time.Since(start) }()

	for _, tc := range cases {
		if ctx.Err() != nil {
			break
		}
		res := e.Run(ctx, tc)
		suite.add(res)
		if e.config.OnTestComplete != nil {
			e.config.OnTestComplete(res)
		}
		if res.Status() == "failed" && e.config.StopOnFirstFailure {
			break
		}
	}
	return suite
}

func (s *SuiteResult) add(r *TestResult) {
	s.Results = append(s.Results, r)
	switch r.Status() {
	case "skipped":
		s.SkipCount++
	case "passed":
		s.PassCount++
	default:
		s.FailCount++
	}
}

// StepDuration returns the explicit wait a step asks for through
// duration_ms or duration (a Go duration string), or zero.
func StepDuration(params map[string]any) time.Duration {
	if ms, ok := ToFloat64(params[ParamDurationMS]); ok {
		return time.Duration(ms * float64(time.Millisecond))
	}
	if s, ok := params[ParamDuration].(string); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return 0
}

// durationOr parses s, falling back to def when s is empty or invalid.
// The loader has already rejected invalid durations in files.
func durationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}
