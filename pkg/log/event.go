package log

import (
	"encoding/json"
	"time"

	"github.com/buttplug-go/buttplug/pkg/message"
)

// MaxRawCapture is the largest raw payload stored in a RawEvent. Longer
// payloads are truncated; Size keeps the original length.
const MaxRawCapture = 512

// Event is one captured occurrence. CBOR encoding uses integer keys.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the client connection (UUID). Empty for
	// device events not tied to a connection.
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	Direction Direction `cbor:"3,keyasint"`
	Layer     Layer     `cbor:"4,keyasint"`
	Category  Category  `cbor:"5,keyasint"`

	// RemoteAddr is the client address for connector events.
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// DeviceIndex is set for events concerning one device.
	DeviceIndex *uint32 `cbor:"7,keyasint,omitempty"`

	// DeviceName is the advertised name of that device.
	DeviceName string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these is set).
	Message     *MessageEvent     `cbor:"10,keyasint,omitempty"`
	Raw         *RawEvent         `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"`
}

// Direction indicates message flow relative to the server.
type Direction uint8

const (
	// DirectionIn is client to server, or device to server.
	DirectionIn Direction = 0
	// DirectionOut is server to client, or server to device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which component captured the event.
type Layer uint8

const (
	LayerConnector Layer = 0
	LayerServer    Layer = 1
	LayerDevice    Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerConnector:
		return "CONNECTOR"
	case LayerServer:
		return "SERVER"
	case LayerDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event.
type Category uint8

const (
	CategoryMessage Category = 0
	CategoryRaw     Category = 1
	CategoryState   Category = 2
	CategoryError   Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryRaw:
		return "RAW"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent captures one protocol message.
type MessageEvent struct {
	// Kind is the protocol name of the variant ("VibrateCmd").
	Kind string `cbor:"1,keyasint"`

	// MessageID is the correlation id (0 for events).
	MessageID uint32 `cbor:"2,keyasint"`

	// JSON is the single-key object encoding of the message.
	JSON []byte `cbor:"3,keyasint,omitempty"`

	// ProcessingTime is set on replies: time from request receipt to reply.
	ProcessingTime *time.Duration `cbor:"4,keyasint,omitempty"`
}

// NewMessageEvent captures m. Encoding failures leave JSON empty.
func NewMessageEvent(m message.Message) *MessageEvent {
	ev := &MessageEvent{Kind: m.Kind().String(), MessageID: m.ID()}
	if data, err := message.Marshal(m); err == nil {
		ev.JSON = data
	}
	return ev
}

// Decode returns the captured message.
func (e *MessageEvent) Decode() (message.Message, error) {
	return message.Unmarshal(e.JSON)
}

// MarshalJSONPayload returns the payload as a generic JSON value, for
// export tools.
func (e *MessageEvent) MarshalJSONPayload() (any, error) {
	var v any
	if err := json.Unmarshal(e.JSON, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// RawEvent captures a raw endpoint write or read.
type RawEvent struct {
	Endpoint string `cbor:"1,keyasint"`

	// Size is the payload length before truncation.
	Size int `cbor:"2,keyasint"`

	Data      []byte `cbor:"3,keyasint,omitempty"`
	Truncated bool   `cbor:"4,keyasint,omitempty"`

	// WriteWithResponse mirrors the write flag for outgoing data.
	WriteWithResponse bool `cbor:"5,keyasint,omitempty"`
}

// NewRawEvent captures data on ep, truncating to MaxRawCapture.
func NewRawEvent(ep message.Endpoint, data []byte) *RawEvent {
	ev := &RawEvent{Endpoint: ep.String(), Size: len(data)}
	if len(data) > MaxRawCapture {
		data = data[:MaxRawCapture]
		ev.Truncated = true
	}
	ev.Data = append([]byte(nil), data...)
	return ev
}

// StateChangeEvent captures lifecycle changes.
type StateChangeEvent struct {
	Entity   StateEntity `cbor:"1,keyasint"`
	OldState string      `cbor:"2,keyasint,omitempty"`
	NewState string      `cbor:"3,keyasint"`
	Reason   string      `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what changed state.
type StateEntity uint8

const (
	StateEntityConnection StateEntity = 0
	StateEntitySession    StateEntity = 1
	StateEntityProtocol   StateEntity = 2
	StateEntityScanning   StateEntity = 3
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntitySession:
		return "SESSION"
	case StateEntityProtocol:
		return "PROTOCOL"
	case StateEntityScanning:
		return "SCANNING"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures failures at any layer.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`

	// Code is the protocol ErrorCode, when the failure has one.
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes the operation that failed.
	Context string `cbor:"4,keyasint,omitempty"`
}

// NewErrorEvent captures err. Protocol errors keep their code.
func NewErrorEvent(layer Layer, err error, context string) *ErrorEventData {
	code := int(message.CodeOf(err))
	return &ErrorEventData{Layer: layer, Message: err.Error(), Code: &code, Context: context}
}
