package device

import (
	"testing"

	"github.com/buttplug-go/buttplug/pkg/message"
)

func TestMatchName(t *testing.T) {
	tests := []struct {
		patterns []string
		name     string
		want     bool
	}{
		{[]string{"LVS-*"}, "LVS-P36", true},
		{[]string{"LVS-*"}, "LVS-", true},
		{[]string{"LVS-*"}, "LOVE-1", false},
		{[]string{"Launch"}, "Launch", true},
		{[]string{"Launch"}, "Launch2", false},
		{[]string{"*"}, "anything", true},
		{nil, "LVS-P36", false},
		{[]string{"A*", "LVS-P*"}, "LVS-P36", true},
	}
	for _, tt := range tests {
		if got := MatchName(tt.patterns, tt.name); got != tt.want {
			t.Errorf("MatchName(%v, %q) = %v, want %v", tt.patterns, tt.name, got, tt.want)
		}
	}
}

func TestSerialSpecifierMatches(t *testing.T) {
	cfg := &SerialSpecifier{Ports: []string{"COM3", "/dev/ttyUSB0"}}
	if !cfg.Matches(NewSerialSpecifierFromPort("com3")) {
		t.Error("port names should compare case-insensitively")
	}
	if cfg.Matches(NewSerialSpecifierFromPort("/dev/ttyUSB1")) {
		t.Error("unexpected match")
	}
}

func TestSpecifierKinds(t *testing.T) {
	var s Specifier = NewBluetoothLESpecifierFromDevice("x")
	if s.Kind() != "btle" {
		t.Errorf("Kind() = %q", s.Kind())
	}
	s = NewSerialSpecifierFromPort("COM1")
	if s.Kind() != "serial" {
		t.Errorf("Kind() = %q", s.Kind())
	}
}

func TestCharacteristicMissing(t *testing.T) {
	s := NewBluetoothLESpecifierFromDevice("LVS-1")
	if _, _, ok := s.Characteristic(message.EndpointTx); ok {
		t.Error("specifier without services has no characteristics")
	}
}
