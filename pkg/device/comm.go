package device

import "context"

// ScanEventType distinguishes scan events.
type ScanEventType uint8

const (
	// ScanEventDeviceFound carries a newly discovered, connected device.
	ScanEventDeviceFound ScanEventType = iota + 1

	// ScanEventFinished reports that the manager stopped scanning.
	ScanEventFinished
)

// String returns the event type name.
func (t ScanEventType) String() string {
	switch t {
	case ScanEventDeviceFound:
		return "DEVICE_FOUND"
	case ScanEventFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// DiscoveredDevice is a device handle together with the identity it was
// discovered under.
type DiscoveredDevice struct {
	Specifier Specifier
	Impl      Impl
}

// ScanEvent is emitted by a CommunicationManager.
type ScanEvent struct {
	Type   ScanEventType
	Device DiscoveredDevice
}

// CommunicationManager discovers devices on one transport (BLE, serial,
// simulation). Discovery runs in the background; results arrive on Events.
type CommunicationManager interface {
	// Name identifies the manager in logs.
	Name() string

	// StartScanning begins discovery. Calling it while scanning is a no-op.
	StartScanning(ctx context.Context) error

	// StopScanning ends discovery. A ScanEventFinished follows.
	StopScanning(ctx context.Context) error

	// IsScanning reports whether discovery is running.
	IsScanning() bool

	// Events returns the event stream. It stays open for the manager's
	// lifetime.
	Events() <-chan ScanEvent
}
