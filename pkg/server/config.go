package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/buttplug-go/buttplug/pkg/devicemgr"
	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/metrics"
)

// DefaultName is the server name reported in ServerInfo.
const DefaultName = "Buttplug Go Server"

// Configuration errors.
var (
	ErrNoDeviceManager = errors.New("device manager is required")
	ErrInvalidPingTime = errors.New("invalid max ping time")
)

// DeviceManager is the part of devicemgr.Manager a session needs.
type DeviceManager interface {
	OnEvent(handler devicemgr.EventHandler) (unsubscribe func())
	Dispatch(ctx context.Context, cmd message.DeviceCommand) message.Message
	StopAllDevices(ctx context.Context, id uint32) message.Message
	DeviceList(id uint32) *message.DeviceList
	StartScanning(ctx context.Context) error
	StopScanning(ctx context.Context) error
}

// Config configures a Server.
type Config struct {
	// Name is reported to clients. Empty uses DefaultName.
	Name string

	// MaxPingTime is the longest a client may go without a Ping. Zero
	// disables the ping timer. Reported to clients in milliseconds.
	MaxPingTime time.Duration

	// Devices handles device commands and scanning. Required.
	Devices DeviceManager

	// LogForwarder backs RequestLog. If nil, RequestLog is acknowledged
	// but no Log messages are sent.
	LogForwarder *LogForwarder

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// CaptureLogger receives SERVER-layer capture events (optional).
	CaptureLogger caplog.Logger

	// Metrics counts open sessions (optional).
	Metrics *metrics.Metrics
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Devices == nil {
		return ErrNoDeviceManager
	}
	if c.MaxPingTime < 0 || c.MaxPingTime.Milliseconds() > math.MaxUint32 {
		return fmt.Errorf("%w: %s", ErrInvalidPingTime, c.MaxPingTime)
	}
	return nil
}

func (c Config) name() string {
	if c.Name == "" {
		return DefaultName
	}
	return c.Name
}
