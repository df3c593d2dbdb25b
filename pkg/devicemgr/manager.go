package devicemgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/buttplug-go/buttplug/pkg/device"
	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/protocol"
)

// connectedDevice is one entry in the device table.
type connectedDevice struct {
	runner  *protocol.Runner
	address string
	info    message.DeviceMessageInfo
}

// Manager owns every connected device. It allocates device indices,
// resolves protocols, runs one protocol.Runner per device and routes device
// commands to them.
type Manager struct {
	config   Config
	registry *protocol.Registry
	capture  caplog.Logger

	mu        sync.RWMutex
	devices   map[uint32]*connectedDevice
	addresses map[string]uint32
	nextIndex uint32
	started   bool
	closed    bool

	handlersMu  sync.RWMutex
	handlers    map[int]EventHandler
	nextHandler int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a device manager.
func New(config Config) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	registry := config.Registry
	if registry == nil {
		registry = protocol.NewRegistry()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		config:    config,
		registry:  registry,
		capture:   caplog.OrNoop(config.CaptureLogger),
		devices:   make(map[uint32]*connectedDevice),
		addresses: make(map[string]uint32),
		handlers:  make(map[int]EventHandler),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// OnEvent registers an event handler and returns a function that removes it.
func (m *Manager) OnEvent(handler EventHandler) (unsubscribe func()) {
	m.handlersMu.Lock()
	id := m.nextHandler
	m.nextHandler++
	m.handlers[id] = handler
	m.handlersMu.Unlock()

	return func() {
		m.handlersMu.Lock()
		delete(m.handlers, id)
		m.handlersMu.Unlock()
	}
}

func (m *Manager) emit(msg message.Message) {
	m.handlersMu.RLock()
	ids := make([]int, 0, len(m.handlers))
	for id := range m.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]EventHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, m.handlers[id])
	}
	m.handlersMu.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
}

// Start consumes the communication managers' scan events until Close.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.started {
		return ErrAlreadyStarted
	}
	m.started = true

	for _, cm := range m.config.CommunicationManagers {
		m.wg.Add(1)
		go m.consume(cm)
	}
	return nil
}

func (m *Manager) consume(cm device.CommunicationManager) {
	defer m.wg.Done()
	events := cm.Events()
	for {
		select {
		case <-m.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case device.ScanEventDeviceFound:
				if _, err := m.AddDevice(m.ctx, ev.Device); err != nil {
					m.debugLog("discovered device not added",
						"manager", cm.Name(),
						"device", ev.Device.Impl.Name(),
						"error", err)
				}
			case device.ScanEventFinished:
				m.debugLog("scan finished", "manager", cm.Name())
				if !m.IsScanning() {
					m.logScanning("FINISHED")
					m.emit(message.NewScanningFinished())
				}
			}
		}
	}
}

// AddDevice resolves the protocol for d, initializes it and announces the
// device. Devices that match no protocol or fail initialization are
// disconnected.
func (m *Manager) AddDevice(ctx context.Context, d device.DiscoveredDevice) (*message.DeviceAdded, error) {
	impl := d.Impl
	sel, ok := m.config.Devices.FindProtocol(d.Specifier)
	if !ok {
		_ = impl.Disconnect()
		return nil, fmt.Errorf("%w: %s", ErrNoProtocol, impl.Name())
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		_ = impl.Disconnect()
		return nil, ErrClosed
	}
	if idx, exists := m.addresses[impl.Address()]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s is device %d", ErrAlreadyConnected, impl.Address(), idx)
	}
	index := m.nextIndex
	m.nextIndex++
	m.addresses[impl.Address()] = index
	m.mu.Unlock()

	wrapped := protocol.NewCaptureDevice(impl, m.config.CaptureLogger, index)
	proto, err := m.registry.New(sel.Protocol, protocol.Config{
		Selection:     sel,
		Notifications: wrapped.Notifications(),
		InitTimeout:   m.config.InitTimeout,
		Logger:        m.config.Logger,
	})
	if err != nil {
		m.release(index, impl.Address())
		_ = impl.Disconnect()
		return nil, err
	}

	runner := protocol.NewRunner(protocol.RunnerConfig{
		Index:         index,
		Device:        wrapped,
		Protocol:      proto,
		QueueSize:     m.config.QueueSize,
		Logger:        m.config.Logger,
		CaptureLogger: m.config.CaptureLogger,
		Metrics:       m.config.Metrics,
	})
	if err := runner.Start(ctx); err != nil {
		m.release(index, impl.Address())
		_ = runner.Close()
		return nil, err
	}

	added := message.NewDeviceAdded(index, sel.Name, sel.Messages)
	entry := &connectedDevice{
		runner:  runner,
		address: impl.Address(),
		info:    message.DeviceMessageInfoFromAdded(added),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		_ = runner.Close()
		return nil, ErrClosed
	}
	m.devices[index] = entry
	m.wg.Add(1)
	m.mu.Unlock()

	m.config.Metrics.DeviceConnected()
	m.debugLog("device added", "index", index, "name", sel.Name, "protocol", proto.Name())

	go m.watch(index, entry, wrapped.Notifications())

	m.emit(added)
	return added, nil
}

func (m *Manager) release(index uint32, address string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addresses[address] == index {
		delete(m.addresses, address)
	}
}

// watch drains the device's notifications after initialization and removes
// the device once its stream closes.
func (m *Manager) watch(index uint32, entry *connectedDevice, notes <-chan device.Notification) {
	defer m.wg.Done()
	if notes == nil {
		return
	}
	for {
		select {
		case <-entry.runner.Done():
			return
		case _, ok := <-notes:
			if !ok {
				m.debugLog("device disconnected", "index", index)
				_ = m.removeEntry(index, entry)
				return
			}
		}
	}
}

// RemoveDevice disconnects the device and announces its removal.
func (m *Manager) RemoveDevice(index uint32) error {
	m.mu.RLock()
	entry, ok := m.devices[index]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDevice, index)
	}
	return m.removeEntry(index, entry)
}

func (m *Manager) removeEntry(index uint32, entry *connectedDevice) error {
	m.mu.Lock()
	if m.devices[index] != entry {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownDevice, index)
	}
	delete(m.devices, index)
	if m.addresses[entry.address] == index {
		delete(m.addresses, entry.address)
	}
	m.mu.Unlock()

	err := entry.runner.Close()
	m.config.Metrics.DeviceDisconnected()
	m.emit(message.NewDeviceRemoved(index))
	return err
}

// Dispatch routes cmd to its device and returns the reply. Failures come
// back as Error messages carrying cmd's id.
func (m *Manager) Dispatch(ctx context.Context, cmd message.DeviceCommand) message.Message {
	m.mu.RLock()
	entry, ok := m.devices[cmd.TargetIndex()]
	m.mu.RUnlock()
	if !ok {
		return errorReply(cmd.ID(), message.NewDeviceError("Device index %d not found", cmd.TargetIndex()))
	}

	reply, err := entry.runner.Execute(ctx, cmd)
	if err != nil {
		return errorReply(cmd.ID(), err)
	}
	return reply
}

// StopAllDevices stops every connected device concurrently and replies
// Ok(id). Stops never fail.
func (m *Manager) StopAllDevices(ctx context.Context, id uint32) message.Message {
	m.mu.RLock()
	entries := make(map[uint32]*connectedDevice, len(m.devices))
	for idx, e := range m.devices {
		entries[idx] = e
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for idx, e := range entries {
		wg.Add(1)
		go func(idx uint32, r *protocol.Runner) {
			defer wg.Done()
			stop := message.NewStopDeviceCmd(idx)
			stop.SetID(id)
			if _, err := r.Execute(ctx, stop); err != nil {
				m.debugLog("stop failed", "index", idx, "error", err)
			}
		}(idx, e.runner)
	}
	wg.Wait()
	return message.NewOk(id)
}

// DeviceList returns the connected devices ordered by index.
func (m *Manager) DeviceList(id uint32) *message.DeviceList {
	m.mu.RLock()
	infos := make([]message.DeviceMessageInfo, 0, len(m.devices))
	for _, e := range m.devices {
		infos = append(infos, message.DeviceMessageInfo{
			DeviceIndex:    e.info.DeviceIndex,
			DeviceName:     e.info.DeviceName,
			DeviceMessages: e.info.DeviceMessages.Clone(),
		})
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].DeviceIndex < infos[j].DeviceIndex })
	list := message.NewDeviceList(infos)
	list.SetID(id)
	return list
}

// DeviceCount returns the number of connected devices.
func (m *Manager) DeviceCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.devices)
}

// StartScanning starts discovery on every communication manager.
func (m *Manager) StartScanning(ctx context.Context) error {
	if len(m.config.CommunicationManagers) == 0 {
		return message.NewDeviceError("No device communication managers available to start scanning")
	}
	var errs []error
	for _, cm := range m.config.CommunicationManagers {
		if err := cm.StartScanning(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cm.Name(), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return message.NewDeviceError("Failed to start scanning: %v", err)
	}
	m.logScanning("SCANNING")
	return nil
}

// StopScanning stops discovery on every communication manager. A
// ScanningFinished event follows once all of them have stopped.
func (m *Manager) StopScanning(ctx context.Context) error {
	if len(m.config.CommunicationManagers) == 0 {
		return message.NewDeviceError("No device communication managers available to stop scanning")
	}
	var errs []error
	for _, cm := range m.config.CommunicationManagers {
		if err := cm.StopScanning(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cm.Name(), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return message.NewDeviceError("Failed to stop scanning: %v", err)
	}
	return nil
}

// IsScanning reports whether any communication manager is scanning.
func (m *Manager) IsScanning() bool {
	for _, cm := range m.config.CommunicationManagers {
		if cm.IsScanning() {
			return true
		}
	}
	return false
}

// Close disconnects every device and stops event processing.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	entries := make(map[uint32]*connectedDevice, len(m.devices))
	for idx, e := range m.devices {
		entries[idx] = e
	}
	m.mu.Unlock()

	m.cancel()

	var errs []error
	for idx, e := range entries {
		if err := m.removeEntry(idx, e); err != nil {
			errs = append(errs, err)
		}
	}
	m.wg.Wait()
	return errors.Join(errs...)
}

func (m *Manager) logScanning(state string) {
	m.capture.Log(caplog.Event{
		Timestamp: time.Now(),
		Direction: caplog.DirectionOut,
		Layer:     caplog.LayerDevice,
		Category:  caplog.CategoryState,
		StateChange: &caplog.StateChangeEvent{
			Entity:   caplog.StateEntityScanning,
			NewState: state,
		},
	})
}

// debugLog logs a debug message if logging is enabled.
func (m *Manager) debugLog(msg string, args ...any) {
	if m.config.Logger != nil {
		m.config.Logger.Debug(msg, args...)
	}
}

// errorReply converts err into an Error message carrying id.
func errorReply(id uint32, err error) *message.Error {
	reply := message.ErrorFromError(err)
	reply.SetID(id)
	return reply
}
