package protocol

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/buttplug-go/buttplug/pkg/device"
	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/metrics"
)

// DefaultQueueSize is the number of commands a runner buffers.
const DefaultQueueSize = 16

// stopQueueSize bounds pending stops. Stops are idempotent so a small
// buffer is enough.
const stopQueueSize = 4

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Index is the device index assigned by the device manager.
	Index uint32

	// Device is the transport handle. The runner owns it exclusively.
	Device device.Impl

	// Protocol is the protocol instance bound to Device.
	Protocol Protocol

	// QueueSize bounds queued commands. Zero uses DefaultQueueSize.
	QueueSize int

	// Logger for operational logging. Nil disables logging.
	Logger *slog.Logger

	// CaptureLogger receives DEVICE-layer state and error events.
	CaptureLogger caplog.Logger

	// Metrics records command outcomes. Nil disables metrics.
	Metrics *metrics.Metrics
}

type result struct {
	msg message.Message
	err error
}

type request struct {
	ctx   context.Context
	cmd   message.DeviceCommand
	gen   uint64
	reply chan result
}

// Runner serializes command execution for one device. A single goroutine
// consumes the queue, so multi-write commands never interleave. Stop
// commands travel on a separate channel that is always drained first;
// submitting one cancels the command in flight and fails every command
// queued before it.
type Runner struct {
	index   uint32
	dev     device.Impl
	proto   Protocol
	logger  *slog.Logger
	capture caplog.Logger
	metrics *metrics.Metrics

	queue  chan *request
	stopCh chan *request

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu             sync.Mutex
	started        bool
	initializing   bool
	closed         bool
	stopGen        uint64
	inflightCancel context.CancelFunc

	closeOnce sync.Once
}

// NewRunner creates a runner. Call Start before Execute.
func NewRunner(cfg RunnerConfig) *Runner {
	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		index:   cfg.Index,
		dev:     cfg.Device,
		proto:   cfg.Protocol,
		logger:  cfg.Logger,
		capture: caplog.OrNoop(cfg.CaptureLogger),
		metrics: cfg.Metrics,
		queue:   make(chan *request, size),
		stopCh:  make(chan *request, stopQueueSize),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Index returns the device index.
func (r *Runner) Index() uint32 { return r.index }

// Device returns the transport handle.
func (r *Runner) Device() device.Impl { return r.dev }

// Protocol returns the protocol instance.
func (r *Runner) Protocol() Protocol { return r.proto }

// Done is closed when the runner has stopped.
func (r *Runner) Done() <-chan struct{} { return r.done }

// Start initializes the protocol and starts the command loop. The loop runs
// even when initialization fails so stops are still answered.
//
// Commands submitted while Initialize runs wait for the loop. A stop
// submitted then is answered at once without touching the device, since
// nothing has been set in motion yet, and fails the commands queued before
// it.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started || r.closed {
		r.mu.Unlock()
		return ErrAlreadyInitialized
	}
	r.started = true
	r.initializing = true
	r.mu.Unlock()

	r.logState(StateUninitialized, StateInitializing, "")
	err := r.proto.Initialize(ctx, r.dev)
	reason := ""
	if err != nil {
		reason = err.Error()
		r.capture.Log(r.event(caplog.CategoryError, func(e *caplog.Event) {
			e.Error = caplog.NewErrorEvent(caplog.LayerDevice, err, "initialize")
		}))
	}
	r.logState(StateInitializing, r.proto.State(), reason)

	r.mu.Lock()
	r.initializing = false
	r.mu.Unlock()
	go r.loop()
	return err
}

// Execute submits cmd and waits for its reply. Replies echo cmd's id.
func (r *Runner) Execute(ctx context.Context, cmd message.DeviceCommand) (message.Message, error) {
	r.mu.Lock()
	if !r.started || r.closed {
		r.mu.Unlock()
		return nil, r.closedError()
	}
	req := &request{ctx: ctx, cmd: cmd, reply: make(chan result, 1)}
	isStop := cmd.Kind() == message.KindStopDeviceCmd
	if isStop {
		r.stopGen++
		if r.inflightCancel != nil {
			r.inflightCancel()
		}
		if r.initializing {
			r.mu.Unlock()
			r.metrics.ObserveCommand(r.proto.Name(), cmd.Kind().String(), metrics.StatusOk, 0)
			r.debugLog("stop answered during initialization", "id", cmd.ID())
			return message.NewOk(cmd.ID()), nil
		}
	}
	req.gen = r.stopGen
	r.mu.Unlock()

	ch := r.queue
	if isStop {
		ch = r.stopCh
	}
	select {
	case ch <- req:
	case <-ctx.Done():
		return nil, message.NewDeviceError("%s for device %d not sent: %v", cmd.Kind(), r.index, ctx.Err())
	case <-r.done:
		return nil, r.closedError()
	}

	select {
	case res := <-req.reply:
		return res.msg, res.err
	case <-ctx.Done():
		return nil, message.NewDeviceError("%s for device %d abandoned: %v", cmd.Kind(), r.index, ctx.Err())
	case <-r.done:
		select {
		case res := <-req.reply:
			return res.msg, res.err
		default:
			return nil, r.closedError()
		}
	}
}

// Close stops the loop, fails queued commands and disconnects the device.
// It is safe to call more than once.
func (r *Runner) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.mu.Lock()
		started := r.started
		r.closed = true
		if r.inflightCancel != nil {
			r.inflightCancel()
		}
		r.mu.Unlock()

		r.cancel()
		if started {
			<-r.done
		} else {
			close(r.done)
		}
		err = r.dev.Disconnect()
	})
	return err
}

func (r *Runner) loop() {
	defer close(r.done)
	for {
		// Stops first, then whatever arrives.
		select {
		case req := <-r.stopCh:
			r.run(req)
			continue
		default:
		}

		select {
		case <-r.ctx.Done():
			r.drain()
			return
		case req := <-r.stopCh:
			r.run(req)
		case req := <-r.queue:
			r.run(req)
		}
	}
}

func (r *Runner) run(req *request) {
	isStop := req.cmd.Kind() == message.KindStopDeviceCmd

	r.mu.Lock()
	if !isStop && req.gen != r.stopGen {
		r.mu.Unlock()
		r.finish(req, nil, r.preemptedError(req.cmd), metrics.StatusPreempted, 0)
		return
	}
	ctx, cancel := context.WithCancel(req.ctx)
	if !isStop {
		r.inflightCancel = cancel
	}
	r.mu.Unlock()

	start := time.Now()
	msg, err := r.proto.ParseMessage(ctx, r.dev, req.cmd)
	elapsed := time.Since(start)

	r.mu.Lock()
	preempted := !isStop && req.gen != r.stopGen
	r.inflightCancel = nil
	r.mu.Unlock()
	cancel()

	status := metrics.StatusOk
	switch {
	case err != nil && preempted:
		err = r.preemptedError(req.cmd)
		status = metrics.StatusPreempted
	case err != nil:
		status = metrics.StatusError
	}
	r.finish(req, msg, err, status, elapsed)
}

func (r *Runner) finish(req *request, msg message.Message, err error, status string, elapsed time.Duration) {
	kind := req.cmd.Kind().String()
	r.metrics.ObserveCommand(r.proto.Name(), kind, status, elapsed)
	switch status {
	case metrics.StatusPreempted:
		r.metrics.StopPreempted(r.proto.Name(), 1)
		r.debugLog("command preempted by stop", "kind", kind, "id", req.cmd.ID())
	case metrics.StatusError:
		r.debugLog("command failed", "kind", kind, "id", req.cmd.ID(), "error", err)
		r.capture.Log(r.event(caplog.CategoryError, func(e *caplog.Event) {
			e.Error = caplog.NewErrorEvent(caplog.LayerDevice, err, kind)
		}))
	}
	req.reply <- result{msg: msg, err: err}
}

func (r *Runner) drain() {
	for {
		select {
		case req := <-r.stopCh:
			req.reply <- result{err: r.closedError()}
		case req := <-r.queue:
			req.reply <- result{err: r.closedError()}
		default:
			return
		}
	}
}

func (r *Runner) preemptedError(cmd message.DeviceCommand) error {
	return message.NewDeviceError("%s on device %d cancelled by StopDeviceCmd", cmd.Kind(), r.index)
}

func (r *Runner) closedError() error {
	return message.NewDeviceError("device %d (%s) is not connected", r.index, r.dev.Name())
}

func (r *Runner) logState(from, to State, reason string) {
	r.debugLog("protocol state", "from", from, "to", to)
	r.capture.Log(r.event(caplog.CategoryState, func(e *caplog.Event) {
		e.StateChange = &caplog.StateChangeEvent{
			Entity:   caplog.StateEntityProtocol,
			OldState: from.String(),
			NewState: to.String(),
			Reason:   reason,
		}
	}))
}

func (r *Runner) event(cat caplog.Category, fill func(*caplog.Event)) caplog.Event {
	idx := r.index
	e := caplog.Event{
		Timestamp:   time.Now(),
		Direction:   caplog.DirectionOut,
		Layer:       caplog.LayerDevice,
		Category:    cat,
		DeviceIndex: &idx,
		DeviceName:  r.dev.Name(),
	}
	fill(&e)
	return e
}

// debugLog logs a debug message if logging is enabled.
func (r *Runner) debugLog(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, append([]any{"device", r.index}, args...)...)
	}
}
