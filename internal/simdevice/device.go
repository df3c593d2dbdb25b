// Package simdevice provides an in-memory Lovense device and a simulated
// communication manager, used by tests and by bp-console.
package simdevice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/buttplug-go/buttplug/pkg/device"
	"github.com/buttplug-go/buttplug/pkg/message"
)

// notificationBuffer bounds undelivered rx notifications.
const notificationBuffer = 16

// nextAddress keeps simulated addresses unique within a process.
var nextAddress atomic.Uint32

// Handlers are optional hooks into device operations.
type Handlers struct {
	// OnWrite is called for every tx write before it is applied, with the
	// write's context. A non-nil error fails the write.
	OnWrite func(ctx context.Context, command string) error
}

// Device simulates a Lovense toy speaking the ASCII command set on tx and
// answering on rx.
type Device struct {
	// Handlers are callbacks for specific operations.
	Handlers Handlers

	name     string
	address  string
	devType  string
	firmware string
	motors   int

	mu        sync.RWMutex
	writes    []string
	vibration []int
	rotation  int
	clockwise bool
	battery   int
	lastRx    []byte
	silent    bool
	failWrite error
	connected bool

	notes     chan device.Notification
	closeOnce sync.Once
}

// Option configures a Device.
type Option func(*Device)

// WithAddress sets the reported address.
func WithAddress(addr string) Option {
	return func(d *Device) { d.address = addr }
}

// WithIdentity sets the type and firmware reported for "DeviceType;".
func WithIdentity(deviceType, firmware string) Option {
	return func(d *Device) {
		d.devType = deviceType
		d.firmware = firmware
	}
}

// WithMotors sets the number of vibration motors.
func WithMotors(n int) Option {
	return func(d *Device) { d.motors = n }
}

// WithBattery sets the battery level reported for "Battery;".
func WithBattery(level int) Option {
	return func(d *Device) { d.battery = level }
}

// Silent makes the device ignore the DeviceType query.
func Silent() Option {
	return func(d *Device) { d.silent = true }
}

// New creates a connected simulated device advertising name.
func New(name string, opts ...Option) *Device {
	n := nextAddress.Add(1)
	d := &Device{
		name:      name,
		address:   fmt.Sprintf("00:82:05:9A:%02X:%02X", byte(n>>8), byte(n)),
		devType:   "S",
		firmware:  "11",
		motors:    1,
		clockwise: true,
		battery:   85,
		connected: true,
		notes:     make(chan device.Notification, notificationBuffer),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.vibration = make([]int, d.motors)
	return d
}

// Name returns the advertised name.
func (d *Device) Name() string { return d.name }

// Address returns the simulated BLE address.
func (d *Device) Address() string { return d.address }

// Endpoints returns tx and rx.
func (d *Device) Endpoints() []message.Endpoint {
	return []message.Endpoint{message.EndpointTx, message.EndpointRx}
}

// WriteValue applies a command written to tx.
func (d *Device) WriteValue(ctx context.Context, cmd *message.RawWriteCmd) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cmd.Endpoint != message.EndpointTx {
		return fmt.Errorf("%w: %s", device.ErrUnknownEndpoint, cmd.Endpoint)
	}
	command := string(cmd.Data)
	if d.Handlers.OnWrite != nil {
		if err := d.Handlers.OnWrite(ctx, command); err != nil {
			return err
		}
	}

	d.mu.Lock()
	if !d.connected {
		d.mu.Unlock()
		return device.ErrDisconnected
	}
	if d.failWrite != nil {
		err := d.failWrite
		d.mu.Unlock()
		return err
	}
	d.writes = append(d.writes, command)
	reply := d.apply(command)
	d.mu.Unlock()

	if reply != "" {
		d.Push(message.EndpointRx, []byte(reply))
	}
	return nil
}

// apply updates the simulated state and returns the rx reply, if any.
// Callers hold d.mu.
func (d *Device) apply(command string) string {
	body := strings.TrimSuffix(strings.TrimSpace(command), ";")
	name, arg, _ := strings.Cut(body, ":")

	switch {
	case name == "DeviceType":
		if d.silent {
			return ""
		}
		return fmt.Sprintf("%s:%s:%s;", d.devType, d.firmware, strings.ReplaceAll(d.address, ":", ""))
	case name == "Battery":
		return strconv.Itoa(d.battery) + ";"
	case name == "RotateChange":
		d.clockwise = !d.clockwise
		return "OK;"
	case name == "Rotate":
		level, err := strconv.Atoi(arg)
		if err != nil {
			return "ERR;"
		}
		d.rotation = level
		return "OK;"
	case name == "Vibrate":
		level, err := strconv.Atoi(arg)
		if err != nil {
			return "ERR;"
		}
		for i := range d.vibration {
			d.vibration[i] = level
		}
		return "OK;"
	case strings.HasPrefix(name, "Vibrate"):
		motor, err := strconv.Atoi(strings.TrimPrefix(name, "Vibrate"))
		level, lerr := strconv.Atoi(arg)
		if err != nil || lerr != nil || motor < 1 || motor > len(d.vibration) {
			return "ERR;"
		}
		d.vibration[motor-1] = level
		return "OK;"
	default:
		return "ERR;"
	}
}

// ReadValue returns the most recent rx data.
func (d *Device) ReadValue(ctx context.Context, cmd *message.RawReadCmd) (*message.RawReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cmd.Endpoint != message.EndpointRx {
		return nil, fmt.Errorf("%w: %s", device.ErrUnknownEndpoint, cmd.Endpoint)
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.connected {
		return nil, device.ErrDisconnected
	}
	if len(d.lastRx) == 0 && cmd.WaitForData {
		return nil, device.ErrReadTimeout
	}
	data := append([]byte(nil), d.lastRx...)
	if cmd.ExpectedLength > 0 && int(cmd.ExpectedLength) < len(data) {
		data = data[:cmd.ExpectedLength]
	}
	return message.NewRawReading(cmd.DeviceIndex, message.EndpointRx, data), nil
}

// Notifications returns pushed rx data.
func (d *Device) Notifications() <-chan device.Notification {
	return d.notes
}

// Push delivers data as if the device sent it. Data is dropped when nobody
// keeps up with the notification stream.
func (d *Device) Push(ep message.Endpoint, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.connected {
		return
	}
	if ep == message.EndpointRx {
		d.lastRx = append([]byte(nil), data...)
	}
	select {
	case d.notes <- device.Notification{Endpoint: ep, Data: append([]byte(nil), data...)}:
	default:
	}
}

// Disconnect drops the connection and closes the notification stream.
func (d *Device) Disconnect() error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.connected = false
		close(d.notes)
		d.mu.Unlock()
	})
	return nil
}

// Connected reports whether Disconnect has not been called.
func (d *Device) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// FailWrites makes every following write fail with err. Nil restores
// normal operation.
func (d *Device) FailWrites(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failWrite = err
}

// Writes returns the commands written so far.
func (d *Device) Writes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.writes...)
}

// Vibration returns the current level of each motor.
func (d *Device) Vibration() []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]int(nil), d.vibration...)
}

// Rotation returns the rotation level and direction.
func (d *Device) Rotation() (level int, clockwise bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rotation, d.clockwise
}

// Idle reports whether every actuator is at zero.
func (d *Device) Idle() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, v := range d.vibration {
		if v != 0 {
			return false
		}
	}
	return d.rotation == 0
}

var _ device.Impl = (*Device)(nil)
