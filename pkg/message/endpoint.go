package message

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Endpoint names a logical transport channel exposed by a device, such as a
// BLE characteristic or a serial line direction. Endpoints serialize as
// their lowercase names.
type Endpoint uint8

const (
	EndpointCommand Endpoint = iota
	EndpointFirmware
	EndpointRx
	EndpointRxAccel
	EndpointRxBLEBattery
	EndpointRxPressure
	EndpointRxTouch
	EndpointTx
	EndpointTxMode
	EndpointTxShock
	EndpointTxVibrate
	EndpointTxVendorControl
	EndpointWhitelist
)

var endpointNames = [...]string{
	EndpointCommand:         "command",
	EndpointFirmware:        "firmware",
	EndpointRx:              "rx",
	EndpointRxAccel:         "rxaccel",
	EndpointRxBLEBattery:    "rxblebattery",
	EndpointRxPressure:      "rxpressure",
	EndpointRxTouch:         "rxtouch",
	EndpointTx:              "tx",
	EndpointTxMode:          "txmode",
	EndpointTxShock:         "txshock",
	EndpointTxVibrate:       "txvibrate",
	EndpointTxVendorControl: "txvendorcontrol",
	EndpointWhitelist:       "whitelist",
}

// String returns the wire name of the endpoint.
func (e Endpoint) String() string {
	if int(e) < len(endpointNames) {
		return endpointNames[e]
	}
	return fmt.Sprintf("endpoint(%d)", uint8(e))
}

// IsValid returns true if e is a defined endpoint.
func (e Endpoint) IsValid() bool {
	return int(e) < len(endpointNames)
}

// ParseEndpoint converts a wire name (case-insensitive) into an Endpoint.
func ParseEndpoint(name string) (Endpoint, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range endpointNames {
		if n == lower {
			return Endpoint(i), nil
		}
	}
	return 0, fmt.Errorf("unknown endpoint %q", name)
}

// MarshalText encodes the endpoint as its lowercase name.
func (e Endpoint) MarshalText() ([]byte, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("invalid endpoint %d", uint8(e))
	}
	return []byte(endpointNames[e]), nil
}

// UnmarshalText decodes a lowercase endpoint name.
func (e *Endpoint) UnmarshalText(text []byte) error {
	parsed, err := ParseEndpoint(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// RawData is a byte payload that serializes as a JSON array of numbers
// rather than the base64 string encoding/json uses for []byte.
type RawData []byte

// MarshalJSON encodes the bytes as a number array. Nil encodes as [].
func (d RawData) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.Grow(len(d)*4 + 2)
	b.WriteByte('[')
	for i, v := range d {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte(']')
	return []byte(b.String()), nil
}

// UnmarshalJSON decodes a number array, rejecting values outside 0-255.
func (d *RawData) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("raw data must be an array of bytes: %w", err)
	}
	if values == nil {
		*d = nil
		return nil
	}
	out := make(RawData, len(values))
	for i, v := range values {
		if v < 0 || v > 0xFF {
			return fmt.Errorf("raw data value %d at index %d out of byte range", v, i)
		}
		out[i] = byte(v)
	}
	*d = out
	return nil
}
