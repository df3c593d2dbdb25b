package protocol

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/buttplug-go/buttplug/pkg/device"
	"github.com/buttplug-go/buttplug/pkg/device/mocks"
	"github.com/buttplug-go/buttplug/pkg/message"
)

const lovenseIdentityReply = "C:11:0082059AD3BD;"

// lovenseDevice is a mocked Lovense handle that records tx writes and
// answers the DeviceType query.
type lovenseDevice struct {
	*mocks.MockImpl

	notes chan device.Notification

	mu       sync.Mutex
	writes   []string
	failNext error
	silent   bool
	block    chan struct{}
	entered  chan string

	active    atomic.Int32
	maxActive atomic.Int32
}

func newLovenseDevice(t *testing.T, name string) *lovenseDevice {
	t.Helper()
	d := &lovenseDevice{
		MockImpl: mocks.NewMockImpl(t),
		notes:    make(chan device.Notification, 8),
	}
	d.EXPECT().Name().Return(name).Maybe()
	d.EXPECT().Notifications().Return(d.notes).Maybe()
	d.EXPECT().WriteValue(mock.Anything, mock.Anything).RunAndReturn(d.write).Maybe()
	return d
}

func (d *lovenseDevice) write(ctx context.Context, cmd *message.RawWriteCmd) error {
	n := d.active.Add(1)
	defer d.active.Add(-1)
	for {
		m := d.maxActive.Load()
		if n <= m || d.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	d.mu.Lock()
	block, entered := d.block, d.entered
	d.mu.Unlock()
	if block != nil && string(cmd.Data) != "Vibrate:0;" {
		if entered != nil {
			entered <- string(cmd.Data)
		}
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failNext != nil {
		err := d.failNext
		d.failNext = nil
		return err
	}
	d.writes = append(d.writes, string(cmd.Data))
	if string(cmd.Data) == "DeviceType;" && !d.silent {
		d.notes <- device.Notification{Endpoint: message.EndpointRx, Data: []byte(lovenseIdentityReply)}
	}
	return nil
}

func (d *lovenseDevice) Writes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.writes...)
}

// Block makes every write except the stop write wait until the returned
// function is called or the write's context ends. Each blocked write is
// announced on entered.
func (d *lovenseDevice) Block() (entered <-chan string, release func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.block = make(chan struct{})
	d.entered = make(chan string, 16)
	block := d.block
	var once sync.Once
	return d.entered, func() { once.Do(func() { close(block) }) }
}

func (d *lovenseDevice) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = nil
}

func (d *lovenseDevice) FailNext(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failNext = err
}

var errTransport = errors.New("gatt write failed")

// selection resolves name against the built-in device configuration.
func selection(t *testing.T, name string) device.ProtocolSelection {
	t.Helper()
	cm, err := device.LoadFromInternal()
	require.NoError(t, err)
	sel, ok := cm.FindProtocol(device.NewBluetoothLESpecifierFromDevice(name))
	require.True(t, ok, "no configuration for %s", name)
	return sel
}

// readyLovense returns an initialized protocol bound to a mocked device.
func readyLovense(t *testing.T, name string) (*Lovense, *lovenseDevice) {
	t.Helper()
	dev := newLovenseDevice(t, name)
	p := NewLovense(Config{Selection: selection(t, name), Notifications: dev.notes}).(*Lovense)
	require.NoError(t, p.Initialize(context.Background(), dev))
	dev.Reset()
	return p, dev
}

// requireDeviceError asserts err is a Device-class protocol error and
// returns its text.
func requireDeviceError(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var pe *message.ProtocolError
	require.True(t, errors.As(err, &pe), "not a protocol error: %v", err)
	require.Equal(t, message.ErrorCodeDevice, pe.Code)
	return pe.Message
}

func deviceNote(ep message.Endpoint, data string) device.Notification {
	return device.Notification{Endpoint: ep, Data: []byte(data)}
}
