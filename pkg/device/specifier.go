package device

import (
	"strings"

	"github.com/google/uuid"

	"github.com/buttplug-go/buttplug/pkg/message"
)

// Specifier identifies a device for protocol lookup. The set of
// implementations is closed.
type Specifier interface {
	// Kind returns a short transport name ("btle", "serial").
	Kind() string

	isSpecifier()
}

// BluetoothLESpecifier matches BLE devices by advertised name and maps GATT
// characteristics to endpoints.
//
// In a configuration entry Names are patterns: a trailing '*' matches any
// suffix. In a specifier built from a discovered device they are literal.
type BluetoothLESpecifier struct {
	Names []string

	// Services maps a GATT service UUID to the characteristic UUID of each
	// endpoint it carries.
	Services map[uuid.UUID]map[message.Endpoint]uuid.UUID
}

// NewBluetoothLESpecifierFromDevice creates a specifier for a discovered
// device advertising name.
func NewBluetoothLESpecifierFromDevice(name string) *BluetoothLESpecifier {
	return &BluetoothLESpecifier{Names: []string{name}}
}

// Kind returns "btle".
func (s *BluetoothLESpecifier) Kind() string { return "btle" }

func (*BluetoothLESpecifier) isSpecifier() {}

// Matches reports whether any name of the discovered device matches one of
// the patterns in s.
func (s *BluetoothLESpecifier) Matches(discovered *BluetoothLESpecifier) bool {
	for _, name := range discovered.Names {
		if MatchName(s.Names, name) {
			return true
		}
	}
	return false
}

// Characteristic returns the characteristic UUID carrying ep, if any.
func (s *BluetoothLESpecifier) Characteristic(ep message.Endpoint) (service, characteristic uuid.UUID, ok bool) {
	for svc, chars := range s.Services {
		if c, found := chars[ep]; found {
			return svc, c, true
		}
	}
	return uuid.Nil, uuid.Nil, false
}

// SerialSpecifier matches devices attached to a serial port.
type SerialSpecifier struct {
	Ports    []string
	BaudRate int
}

// NewSerialSpecifierFromPort creates a specifier for a device found on port.
func NewSerialSpecifierFromPort(port string) *SerialSpecifier {
	return &SerialSpecifier{Ports: []string{port}}
}

// Kind returns "serial".
func (s *SerialSpecifier) Kind() string { return "serial" }

func (*SerialSpecifier) isSpecifier() {}

// Matches reports whether the discovered port is listed in s. Port names
// compare case-insensitively ("COM3" and "com3" are the same port).
func (s *SerialSpecifier) Matches(discovered *SerialSpecifier) bool {
	for _, want := range s.Ports {
		for _, got := range discovered.Ports {
			if strings.EqualFold(want, got) {
				return true
			}
		}
	}
	return false
}

// MatchName reports whether name matches any of patterns. A pattern ending
// in '*' matches by prefix; anything else must match exactly.
func MatchName(patterns []string, name string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(name, prefix) {
				return true
			}
			continue
		}
		if p == name {
			return true
		}
	}
	return false
}

// Compile-time interface satisfaction checks.
var (
	_ Specifier = (*BluetoothLESpecifier)(nil)
	_ Specifier = (*SerialSpecifier)(nil)
)
