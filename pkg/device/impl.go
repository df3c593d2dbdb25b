package device

import (
	"context"
	"errors"

	"github.com/buttplug-go/buttplug/pkg/message"
)

// Device handle errors.
var (
	ErrDisconnected    = errors.New("device disconnected")
	ErrUnknownEndpoint = errors.New("endpoint not available on device")
	ErrReadTimeout     = errors.New("device read timed out")
)

// Notification is data a device pushed on an endpoint without a prior read,
// e.g. the reply to a query written to tx.
type Notification struct {
	Endpoint message.Endpoint
	Data     []byte
}

// Impl is the transport handle for one connected device.
//
// WriteValue and ReadValue block until the transport reports completion or
// ctx is done. Implementations must be safe for concurrent use, although the
// protocol runner never issues overlapping calls for the same device.
type Impl interface {
	// Name returns the advertised device name.
	Name() string

	// Address returns a transport-specific address (BLE MAC, serial port).
	Address() string

	// Endpoints returns the endpoints the handle can reach.
	Endpoints() []message.Endpoint

	// WriteValue writes cmd.Data to cmd.Endpoint.
	WriteValue(ctx context.Context, cmd *message.RawWriteCmd) error

	// ReadValue reads from cmd.Endpoint. With WaitForData set the call
	// blocks until data arrives; otherwise it returns what is available.
	ReadValue(ctx context.Context, cmd *message.RawReadCmd) (*message.RawReading, error)

	// Notifications returns the stream of pushed data. The channel is closed
	// when the device disconnects. Implementations drop data when the
	// consumer falls behind rather than block the transport.
	Notifications() <-chan Notification

	// Disconnect closes the transport. Further writes fail with ErrDisconnected.
	Disconnect() error
}

// HasEndpoint reports whether dev exposes ep.
func HasEndpoint(dev Impl, ep message.Endpoint) bool {
	for _, e := range dev.Endpoints() {
		if e == ep {
			return true
		}
	}
	return false
}
