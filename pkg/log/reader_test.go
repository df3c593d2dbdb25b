package log

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/buttplug-go/buttplug/pkg/message"
)

func writeCapture(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.bplog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func sampleEvents(base time.Time) []Event {
	zero, one := uint32(0), uint32(1)
	return []Event{
		{Timestamp: base, ConnectionID: "a", Direction: DirectionIn, Layer: LayerConnector, Category: CategoryMessage,
			Message: NewMessageEvent(message.NewRequestServerInfo("client", 1))},
		{Timestamp: base.Add(time.Second), ConnectionID: "a", Direction: DirectionIn, Layer: LayerServer, Category: CategoryMessage,
			DeviceIndex: &zero, Message: NewMessageEvent(message.NewVibrateCmd(0, nil))},
		{Timestamp: base.Add(2 * time.Second), Direction: DirectionOut, Layer: LayerDevice, Category: CategoryRaw,
			DeviceIndex: &zero, Raw: NewRawEvent(message.EndpointTx, []byte("Vibrate:5;"))},
		{Timestamp: base.Add(3 * time.Second), ConnectionID: "b", Direction: DirectionOut, Layer: LayerServer, Category: CategoryMessage,
			DeviceIndex: &one, Message: NewMessageEvent(message.NewOk(4))},
	}
}

func TestReaderIteratesInOrder(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r, err := NewReader(writeCapture(t, sampleEvents(base)))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	events, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[0].Message.Kind != "RequestServerInfo" {
		t.Errorf("first kind = %q", events[0].Message.Kind)
	}
	if events[3].Message.Kind != "Ok" || events[3].Message.MessageID != 4 {
		t.Errorf("last message = %+v", events[3].Message)
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	path := writeCapture(t, sampleEvents(base))

	out := DirectionOut
	raw := CategoryRaw
	zero := uint32(0)
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"connection", Filter{ConnectionID: "a"}, 2},
		{"direction", Filter{Direction: &out}, 2},
		{"category", Filter{Category: &raw}, 1},
		{"device index", Filter{DeviceIndex: &zero}, 2},
		{"kind", Filter{Kind: "VibrateCmd"}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{ConnectionID: "a", Direction: &out}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader: %v", err)
			}
			defer r.Close()
			events, err := r.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestReaderTruncatedFile(t *testing.T) {
	path := writeCapture(t, sampleEvents(time.Now()))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	n := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		n++
	}
	if n != 3 {
		t.Errorf("read %d complete events, want 3", n)
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.bplog")); err == nil {
		t.Error("expected error")
	}
}
