package protocol

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/buttplug-go/buttplug/pkg/message"
)

// State is the protocol lifecycle state.
type State uint32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateInitializing:
		return "INITIALIZING"
	case StateReady:
		return "READY"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// ErrAlreadyInitialized is returned by Begin when initialization has
// already started.
var ErrAlreadyInitialized = errors.New("protocol already initialized")

// Lifecycle tracks the initialization state machine. The zero value is
// Uninitialized. It is safe for concurrent use.
type Lifecycle struct {
	state atomic.Uint32

	mu    sync.Mutex
	cause error
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return State(l.state.Load())
}

// Begin moves Uninitialized to Initializing. Any other starting state
// returns ErrAlreadyInitialized.
func (l *Lifecycle) Begin() error {
	if !l.state.CompareAndSwap(uint32(StateUninitialized), uint32(StateInitializing)) {
		return ErrAlreadyInitialized
	}
	return nil
}

// Finish ends initialization: Ready when err is nil, Failed otherwise.
// It returns the resulting state. Calling Finish outside Initializing
// leaves the state unchanged.
func (l *Lifecycle) Finish(err error) State {
	target := StateReady
	if err != nil {
		target = StateFailed
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.state.CompareAndSwap(uint32(StateInitializing), uint32(target)) {
		return l.State()
	}
	l.cause = err
	return target
}

// Ready returns nil in the Ready state and a Device error otherwise.
func (l *Lifecycle) Ready() error {
	switch s := l.State(); s {
	case StateReady:
		return nil
	case StateFailed:
		l.mu.Lock()
		cause := l.cause
		l.mu.Unlock()
		if cause != nil {
			return message.NewDeviceError("device initialization failed: %v", cause)
		}
		return message.NewDeviceError("device initialization failed")
	default:
		return message.NewDeviceError("device not ready (%s)", s)
	}
}
