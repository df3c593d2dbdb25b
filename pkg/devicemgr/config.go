package devicemgr

import (
	"errors"
	"log/slog"
	"time"

	"github.com/buttplug-go/buttplug/pkg/device"
	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/metrics"
	"github.com/buttplug-go/buttplug/pkg/protocol"
)

// Manager errors.
var (
	ErrNoConfiguration  = errors.New("device configuration is required")
	ErrNoProtocol       = errors.New("no protocol matches device")
	ErrAlreadyConnected = errors.New("device already connected")
	ErrUnknownDevice    = errors.New("unknown device index")
	ErrAlreadyStarted   = errors.New("device manager already started")
	ErrClosed           = errors.New("device manager closed")
)

// Config configures a Manager.
type Config struct {
	// Devices resolves discovered devices to protocols. Required.
	Devices *device.ConfigurationManager

	// Registry supplies protocol implementations. Nil uses
	// protocol.NewRegistry().
	Registry *protocol.Registry

	// CommunicationManagers discover devices.
	CommunicationManagers []device.CommunicationManager

	// InitTimeout bounds protocol initialization of each device.
	InitTimeout time.Duration

	// QueueSize bounds queued commands per device.
	QueueSize int

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// CaptureLogger receives DEVICE-layer capture events (optional).
	CaptureLogger caplog.Logger

	// Metrics records device and command metrics (optional).
	Metrics *metrics.Metrics
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Devices == nil {
		return ErrNoConfiguration
	}
	return nil
}

// EventHandler receives DeviceAdded, DeviceRemoved and ScanningFinished
// messages, all with id 0. Handlers run on the manager's goroutines and
// must not block.
type EventHandler func(message.Message)
