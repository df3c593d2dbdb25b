// Package runner drives protocol scenarios against a Buttplug server,
// either one started in-process per scenario or a remote one.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/buttplug-go/buttplug/internal/testharness/engine"
	"github.com/buttplug-go/buttplug/internal/testharness/loader"
	"github.com/buttplug-go/buttplug/pkg/device"
	caplog "github.com/buttplug-go/buttplug/pkg/log"
)

// Config configures a Runner.
type Config struct {
	// URL of a remote server. Empty starts an in-process server with the
	// scenario's simulated devices for every scenario.
	URL string

	// Devices resolves simulated devices to protocols. Nil uses the
	// built-in device configuration.
	Devices *device.ConfigurationManager

	// InitTimeout bounds protocol initialization of simulated devices.
	InitTimeout time.Duration

	// StepTimeout is the default per-step timeout.
	StepTimeout time.Duration

	// StopOnFirstFailure stops the suite after the first failed scenario.
	StopOnFirstFailure bool

	// OnTestComplete is called after each scenario.
	OnTestComplete func(result *engine.TestResult)

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// CaptureLogger receives protocol capture events from in-process
	// servers (optional).
	CaptureLogger caplog.Logger
}

// Runner executes scenarios.
type Runner struct {
	config Config
	engine *engine.Engine
}

// New creates a runner.
func New(config Config) (*Runner, error) {
	if config.Devices == nil && config.URL == "" {
		devs, err := device.LoadFromInternal()
		if err != nil {
			return nil, err
		}
		config.Devices = devs
	}

	r := &Runner{config: config}
	ec := engine.DefaultConfig()
	if config.StepTimeout > 0 {
		ec.StepTimeout = config.StepTimeout
	}
	ec.StopOnFirstFailure = config.StopOnFirstFailure
	ec.OnTestComplete = config.OnTestComplete
	ec.Setup = r.setup
	ec.Teardown = r.teardown
	if config.URL != "" {
		ec.SuiteName += " (" + config.URL + ")"
	}

	r.engine = engine.NewWithConfig(ec)
	r.registerHandlers(r.engine)
	return r, nil
}

// Actions returns the actions scenarios may use.
func (r *Runner) Actions() []string {
	return actionNames()
}

// Run executes one scenario.
func (r *Runner) Run(ctx context.Context, tc *loader.TestCase) *engine.TestResult {
	return r.engine.Run(ctx, tc)
}

// RunSuite executes scenarios in order. Against a remote server, scenarios
// that need simulated devices are skipped.
func (r *Runner) RunSuite(ctx context.Context, cases []*loader.TestCase) *engine.SuiteResult {
	if r.config.URL == "" {
		return r.engine.RunSuite(ctx, cases)
	}
	adjusted := make([]*loader.TestCase, 0, len(cases))
	for _, tc := range cases {
		if !tc.Remote && !tc.Skip {
			c := *tc
			c.Skip = true
			c.SkipReason = errRemoteUnsupported.Error()
			tc = &c
		}
		adjusted = append(adjusted, tc)
	}
	return r.engine.RunSuite(ctx, adjusted)
}

func (r *Runner) setup(ctx context.Context, tc *loader.TestCase, state *engine.ExecutionState) error {
	if r.config.URL != "" {
		if !tc.Remote {
			return errRemoteUnsupported
		}
		t, err := dial(ctx, r.config.URL, r.config.Logger)
		if err != nil {
			return err
		}
		state.Target = t
		return nil
	}

	local, err := startLocal(localConfig{
		devices:     r.config.Devices,
		initTimeout: r.config.InitTimeout,
		logger:      r.config.Logger,
		capture:     r.config.CaptureLogger,
	}, tc)
	if err != nil {
		return err
	}
	t, err := dial(ctx, local.url, r.config.Logger)
	if err != nil {
		_ = local.close()
		return err
	}
	t.local = local
	state.Target = t
	return nil
}

func (r *Runner) teardown(tc *loader.TestCase, state *engine.ExecutionState) {
	t, ok := state.Target.(*Target)
	if !ok || t == nil {
		return
	}
	if err := t.Close(); err != nil && r.config.Logger != nil {
		r.config.Logger.Debug("teardown", "test", tc.ID, "error", err)
	}
}

var errRemoteUnsupported = errors.New("scenario needs the in-process server")
