package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/buttplug-go/buttplug/pkg/message"
)

func TestEventRoundTripMessage(t *testing.T) {
	idx := uint32(2)
	processing := 3 * time.Millisecond
	msgEv := NewMessageEvent(message.NewStopDeviceCmd(2))
	msgEv.ProcessingTime = &processing

	event := Event{
		Timestamp:    time.Date(2026, 10, 18, 12, 0, 0, 123456789, time.UTC),
		ConnectionID: "6f1c7a52-8d2f-4b9e-9a4d-3c1e2f7b8a90",
		Direction:    DirectionIn,
		Layer:        LayerServer,
		Category:     CategoryMessage,
		DeviceIndex:  &idx,
		DeviceName:   "Lovense Edge",
		Message:      msgEv,
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}

	if !decoded.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", decoded.Timestamp, event.Timestamp)
	}
	if decoded.ConnectionID != event.ConnectionID {
		t.Errorf("ConnectionID = %q", decoded.ConnectionID)
	}
	if decoded.DeviceIndex == nil || *decoded.DeviceIndex != 2 {
		t.Errorf("DeviceIndex = %v, want 2", decoded.DeviceIndex)
	}
	if decoded.Message == nil {
		t.Fatal("Message payload lost")
	}
	if decoded.Message.Kind != "StopDeviceCmd" || decoded.Message.MessageID != 1 {
		t.Errorf("Message = %+v", decoded.Message)
	}
	if decoded.Message.ProcessingTime == nil || *decoded.Message.ProcessingTime != processing {
		t.Errorf("ProcessingTime = %v", decoded.Message.ProcessingTime)
	}

	m, err := decoded.Message.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if stop, ok := m.(*message.StopDeviceCmd); !ok || stop.DeviceIndex != 2 {
		t.Errorf("decoded message = %#v", m)
	}
}

func TestEventRoundTripRaw(t *testing.T) {
	event := Event{
		Timestamp: time.Now(),
		Direction: DirectionOut,
		Layer:     LayerDevice,
		Category:  CategoryRaw,
		Raw:       NewRawEvent(message.EndpointTx, []byte("Vibrate:10;")),
	}
	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if decoded.Raw == nil || decoded.Raw.Endpoint != "tx" || string(decoded.Raw.Data) != "Vibrate:10;" {
		t.Errorf("Raw = %+v", decoded.Raw)
	}
	if decoded.Message != nil || decoded.Error != nil {
		t.Error("only the raw payload should be set")
	}
}

func TestNewRawEventTruncates(t *testing.T) {
	data := bytes.Repeat([]byte{0xAA}, MaxRawCapture+10)
	ev := NewRawEvent(message.EndpointRx, data)
	if !ev.Truncated {
		t.Error("expected Truncated")
	}
	if ev.Size != MaxRawCapture+10 {
		t.Errorf("Size = %d", ev.Size)
	}
	if len(ev.Data) != MaxRawCapture {
		t.Errorf("len(Data) = %d", len(ev.Data))
	}

	data[0] = 0
	if ev.Data[0] != 0xAA {
		t.Error("RawEvent must copy the payload")
	}
}

func TestNewErrorEventKeepsCode(t *testing.T) {
	ev := NewErrorEvent(LayerDevice, message.NewDeviceError("write failed"), "VibrateCmd")
	if ev.Code == nil || *ev.Code != int(message.ErrorCodeDevice) {
		t.Errorf("Code = %v", ev.Code)
	}
	if ev.Message != "ERROR_DEVICE: write failed" {
		t.Errorf("Message = %q", ev.Message)
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xFF, 0x00}); err == nil {
		t.Error("expected error")
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(9).String(), "UNKNOWN"},
		{LayerConnector.String(), "CONNECTOR"},
		{LayerServer.String(), "SERVER"},
		{LayerDevice.String(), "DEVICE"},
		{CategoryRaw.String(), "RAW"},
		{CategoryState.String(), "STATE"},
		{StateEntityProtocol.String(), "PROTOCOL"},
		{StateEntityScanning.String(), "SCANNING"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
