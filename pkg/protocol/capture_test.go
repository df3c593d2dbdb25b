package protocol

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
)

func TestCaptureDeviceNilLogger(t *testing.T) {
	dev := newLovenseDevice(t, "LVS-S001")
	assert.Same(t, dev, NewCaptureDevice(dev, nil, 0))
}

func TestCaptureDeviceRecordsTraffic(t *testing.T) {
	dev := newLovenseDevice(t, "LVS-S001")
	dev.EXPECT().ReadValue(mock.Anything, mock.Anything).
		Return(message.NewRawReading(0, message.EndpointRx, []byte("85;")), nil).Once()
	capture := &memoryLogger{}
	wrapped := NewCaptureDevice(dev, capture, 4)

	require.NoError(t, wrapped.WriteValue(context.Background(), message.NewRawWriteCmd(4, message.EndpointTx, []byte("Vibrate:1;"), true)))
	_, err := wrapped.ReadValue(context.Background(), message.NewRawReadCmd(4, message.EndpointRx, 0, false))
	require.NoError(t, err)

	dev.notes <- deviceNote(message.EndpointRx, "OK;")
	select {
	case n := <-wrapped.Notifications():
		assert.Equal(t, "OK;", string(n.Data))
	case <-time.After(time.Second):
		t.Fatal("notification not forwarded")
	}

	events := capture.Events()
	require.Len(t, events, 3)

	out := events[0]
	assert.Equal(t, caplog.DirectionOut, out.Direction)
	assert.Equal(t, caplog.LayerDevice, out.Layer)
	assert.Equal(t, caplog.CategoryRaw, out.Category)
	require.NotNil(t, out.DeviceIndex)
	assert.Equal(t, uint32(4), *out.DeviceIndex)
	assert.Equal(t, "LVS-S001", out.DeviceName)
	assert.Equal(t, "tx", out.Raw.Endpoint)
	assert.Equal(t, []byte("Vibrate:1;"), out.Raw.Data)
	assert.True(t, out.Raw.WriteWithResponse)

	assert.Equal(t, caplog.DirectionIn, events[1].Direction)
	assert.Equal(t, []byte("85;"), events[1].Raw.Data)
	assert.Equal(t, caplog.DirectionIn, events[2].Direction)
	assert.Equal(t, "rx", events[2].Raw.Endpoint)
}

func TestCaptureDeviceClosesWithSource(t *testing.T) {
	dev := newLovenseDevice(t, "LVS-S001")
	wrapped := NewCaptureDevice(dev, &memoryLogger{}, 0)
	close(dev.notes)

	select {
	case _, ok := <-wrapped.Notifications():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("forwarded channel not closed")
	}
}
