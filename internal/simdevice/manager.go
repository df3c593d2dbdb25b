package simdevice

import (
	"context"
	"sync"

	"github.com/buttplug-go/buttplug/pkg/device"
)

// eventBuffer bounds undelivered scan events.
const eventBuffer = 64

// Manager is a CommunicationManager whose scans "discover" devices added
// with AddDevice.
type Manager struct {
	name string

	mu       sync.Mutex
	pending  []*Device
	scanning bool
	scans    int

	events chan device.ScanEvent
}

// NewManager creates a manager that will report devs on the next scan.
func NewManager(devs ...*Device) *Manager {
	return &Manager{
		name:    "simulated",
		pending: devs,
		events:  make(chan device.ScanEvent, eventBuffer),
	}
}

// Name returns "simulated".
func (m *Manager) Name() string { return m.name }

// AddDevice makes d discoverable. While scanning it is reported at once.
func (m *Manager) AddDevice(d *Device) {
	m.mu.Lock()
	if !m.scanning {
		m.pending = append(m.pending, d)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	m.found(d)
}

// StartScanning reports every pending device.
func (m *Manager) StartScanning(ctx context.Context) error {
	m.mu.Lock()
	if m.scanning {
		m.mu.Unlock()
		return nil
	}
	m.scanning = true
	m.scans++
	found := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, d := range found {
		m.found(d)
	}
	return nil
}

// StopScanning ends the scan and reports ScanEventFinished.
func (m *Manager) StopScanning(ctx context.Context) error {
	m.mu.Lock()
	if !m.scanning {
		m.mu.Unlock()
		return nil
	}
	m.scanning = false
	m.mu.Unlock()

	m.events <- device.ScanEvent{Type: device.ScanEventFinished}
	return nil
}

// IsScanning reports whether a scan is running.
func (m *Manager) IsScanning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scanning
}

// Scans returns how many scans were started.
func (m *Manager) Scans() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scans
}

// Events returns the scan event stream.
func (m *Manager) Events() <-chan device.ScanEvent {
	return m.events
}

func (m *Manager) found(d *Device) {
	m.events <- device.ScanEvent{
		Type: device.ScanEventDeviceFound,
		Device: device.DiscoveredDevice{
			Specifier: device.NewBluetoothLESpecifierFromDevice(d.Name()),
			Impl:      d,
		},
	}
}

var _ device.CommunicationManager = (*Manager)(nil)
