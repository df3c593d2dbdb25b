package protocol

import (
	"context"
	"time"

	"github.com/buttplug-go/buttplug/pkg/device"
	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
)

// notificationBuffer is the capacity of the re-published notification
// channel. Notifications beyond it are dropped, like a device would.
const notificationBuffer = 32

// captureDevice records every transport operation of the wrapped handle as a
// RAW capture event.
type captureDevice struct {
	device.Impl

	logger caplog.Logger
	index  uint32
	notes  chan device.Notification
}

// NewCaptureDevice wraps dev so writes (OUT), reads and notifications (IN)
// are sent to logger. With a nil logger dev is returned unchanged.
func NewCaptureDevice(dev device.Impl, logger caplog.Logger, index uint32) device.Impl {
	if logger == nil {
		return dev
	}
	c := &captureDevice{Impl: dev, logger: logger, index: index}
	if in := dev.Notifications(); in != nil {
		c.notes = make(chan device.Notification, notificationBuffer)
		go c.forward(in)
	}
	return c
}

func (c *captureDevice) WriteValue(ctx context.Context, cmd *message.RawWriteCmd) error {
	raw := caplog.NewRawEvent(cmd.Endpoint, cmd.Data)
	raw.WriteWithResponse = cmd.WriteWithResponse
	c.log(caplog.DirectionOut, raw)
	return c.Impl.WriteValue(ctx, cmd)
}

func (c *captureDevice) ReadValue(ctx context.Context, cmd *message.RawReadCmd) (*message.RawReading, error) {
	reading, err := c.Impl.ReadValue(ctx, cmd)
	if err == nil && reading != nil {
		c.log(caplog.DirectionIn, caplog.NewRawEvent(reading.Endpoint, reading.Data))
	}
	return reading, err
}

func (c *captureDevice) Notifications() <-chan device.Notification {
	return c.notes
}

func (c *captureDevice) forward(in <-chan device.Notification) {
	defer close(c.notes)
	for n := range in {
		c.log(caplog.DirectionIn, caplog.NewRawEvent(n.Endpoint, n.Data))
		select {
		case c.notes <- n:
		default:
		}
	}
}

func (c *captureDevice) log(dir caplog.Direction, raw *caplog.RawEvent) {
	idx := c.index
	c.logger.Log(caplog.Event{
		Timestamp:   time.Now(),
		Direction:   dir,
		Layer:       caplog.LayerDevice,
		Category:    caplog.CategoryRaw,
		DeviceIndex: &idx,
		DeviceName:  c.Name(),
		Raw:         raw,
	})
}
