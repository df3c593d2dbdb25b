package message

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies an Error message. The numeric values are part of the
// wire format.
type ErrorCode uint8

const (
	// ErrorCodeUnknown is used for failures that fit no other class.
	ErrorCodeUnknown ErrorCode = 0

	// ErrorCodeHandshake indicates a failed or missing RequestServerInfo exchange.
	ErrorCodeHandshake ErrorCode = 1

	// ErrorCodePing indicates the client missed its ping deadline.
	ErrorCodePing ErrorCode = 2

	// ErrorCodeMessage indicates a malformed or unexpected message.
	ErrorCodeMessage ErrorCode = 3

	// ErrorCodeDevice indicates a device-side failure or an unsupported command.
	ErrorCodeDevice ErrorCode = 4
)

// IsValid returns true if the code is one of the defined classes.
func (c ErrorCode) IsValid() bool {
	return c <= ErrorCodeDevice
}

// UnmarshalJSON decodes a numeric code, rejecting values outside the
// defined classes.
func (c *ErrorCode) UnmarshalJSON(data []byte) error {
	var n uint8
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid error code %s: %w", data, err)
	}
	if !ErrorCode(n).IsValid() {
		return fmt.Errorf("invalid error code %d", n)
	}
	*c = ErrorCode(n)
	return nil
}

// String returns the error class name.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeUnknown:
		return "ERROR_UNKNOWN"
	case ErrorCodeHandshake:
		return "ERROR_HANDSHAKE"
	case ErrorCodePing:
		return "ERROR_PING"
	case ErrorCodeMessage:
		return "ERROR_MSG"
	case ErrorCodeDevice:
		return "ERROR_DEVICE"
	default:
		return "UNKNOWN"
	}
}

// LogLevel is the verbosity requested through RequestLog and carried by Log.
// Levels are ordered: a higher value includes every lower one.
type LogLevel uint8

const (
	LogLevelOff   LogLevel = 0
	LogLevelFatal LogLevel = 1
	LogLevelError LogLevel = 2
	LogLevelWarn  LogLevel = 3
	LogLevelInfo  LogLevel = 4
	LogLevelDebug LogLevel = 5
	LogLevelTrace LogLevel = 6
)

// IsValid returns true if the level is one of the defined levels.
func (l LogLevel) IsValid() bool {
	return l <= LogLevelTrace
}

// UnmarshalJSON decodes a numeric level, rejecting undefined levels.
func (l *LogLevel) UnmarshalJSON(data []byte) error {
	var n uint8
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid log level %s: %w", data, err)
	}
	if !LogLevel(n).IsValid() {
		return fmt.Errorf("invalid log level %d", n)
	}
	*l = LogLevel(n)
	return nil
}

// Includes reports whether a record at level other should be emitted when
// l is the configured level.
func (l LogLevel) Includes(other LogLevel) bool {
	return l != LogLevelOff && other != LogLevelOff && other <= l
}

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "Off"
	case LogLevelFatal:
		return "Fatal"
	case LogLevelError:
		return "Error"
	case LogLevelWarn:
		return "Warn"
	case LogLevelInfo:
		return "Info"
	case LogLevelDebug:
		return "Debug"
	case LogLevelTrace:
		return "Trace"
	default:
		return "Unknown"
	}
}
