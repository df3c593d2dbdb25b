package protocol

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/buttplug-go/buttplug/pkg/device"
	"github.com/buttplug-go/buttplug/pkg/message"
)

// DefaultInitTimeout bounds how long Initialize waits for a device reply.
const DefaultInitTimeout = 3 * time.Second

// Protocol is a vendor-specific command translator bound to one device.
type Protocol interface {
	// Name returns the protocol implementation name ("LovenseProtocol").
	Name() string

	// Initialize performs one-time device setup. It must finish, Ready or
	// Failed, before ParseMessage accepts anything but StopDeviceCmd.
	Initialize(ctx context.Context, dev device.Impl) error

	// ParseMessage handles one command and returns its reply, normally an
	// Ok echoing cmd's id.
	ParseMessage(ctx context.Context, dev device.Impl, cmd message.DeviceCommand) (message.Message, error)

	// State returns the lifecycle state.
	State() State
}

// Config is what a Factory needs to build a protocol instance.
type Config struct {
	// Selection is the configuration entry the device resolved to.
	Selection device.ProtocolSelection

	// Notifications is the device's incoming data stream.
	Notifications <-chan device.Notification

	// InitTimeout bounds device replies during Initialize. Zero uses
	// DefaultInitTimeout.
	InitTimeout time.Duration

	// Logger for operational logging. Nil disables logging.
	Logger *slog.Logger
}

// Factory creates a protocol instance from cfg.
type Factory func(cfg Config) Protocol

// Registry maps configuration protocol names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in protocols registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.factories["lovense"] = NewLovense
	return r
}

// Register adds a factory. Registering a name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("protocol %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// New creates a protocol instance for the named configuration protocol.
func (r *Registry) New(name string, cfg Config) (Protocol, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no protocol implementation for %q", name)
	}
	return f(cfg), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Base carries the state every protocol implementation shares: the
// lifecycle, the advertised attributes and logging.
type Base struct {
	Lifecycle

	name       string
	deviceName string
	attrs      message.DeviceMessages
	logger     *slog.Logger
}

// Configure sets up b for the protocol called name. Implementations call
// it from their constructor.
func (b *Base) Configure(name string, cfg Config) {
	b.name = name
	b.deviceName = cfg.Selection.Name
	b.attrs = cfg.Selection.Messages.Clone()
	if cfg.Logger != nil {
		b.logger = cfg.Logger.With("protocol", name, "device", cfg.Selection.Name)
	}
}

// debugLog logs a debug message if logging is enabled.
func (b *Base) debugLog(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}

// warnLog logs a warning if logging is enabled.
func (b *Base) warnLog(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}

// Name returns the protocol name.
func (b *Base) Name() string { return b.name }

// Attributes returns the advertised attributes for kind.
func (b *Base) Attributes(kind message.Kind) (message.MessageAttributes, bool) {
	return b.attrs.Attributes(kind)
}

// Reject returns the error for a command the protocol does not implement.
func (b *Base) Reject(cmd message.DeviceCommand) error {
	return message.NewDeviceError("%s does not accept %s messages.", b.name, cmd.Kind())
}

// Admit runs the checks every non-stop command must pass: the protocol is
// Ready and the command matches the advertised capabilities.
func (b *Base) Admit(cmd message.DeviceCommand) error {
	if err := b.Ready(); err != nil {
		return err
	}
	return CheckCapability(b.deviceName, b.attrs, cmd)
}
