package message

import (
	"errors"
	"fmt"
)

// ProtocolError is a failure in one of the five protocol error classes.
// Code selects the class, Message is the human-readable text that ends up
// in the Error message's ErrorMessage field.
type ProtocolError struct {
	Code    ErrorCode
	Message string
}

// Error implements error.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *ProtocolError with the same code, so
// errors.Is(err, &ProtocolError{Code: ErrorCodeDevice}) tests the class.
func (e *ProtocolError) Is(target error) bool {
	t, ok := target.(*ProtocolError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// NewDeviceError creates a device-class error.
func NewDeviceError(format string, args ...any) *ProtocolError {
	return newProtocolError(ErrorCodeDevice, format, args...)
}

// NewMessageError creates a message-class error.
func NewMessageError(format string, args ...any) *ProtocolError {
	return newProtocolError(ErrorCodeMessage, format, args...)
}

// NewPingError creates a ping-class error.
func NewPingError(format string, args ...any) *ProtocolError {
	return newProtocolError(ErrorCodePing, format, args...)
}

// NewHandshakeError creates a handshake-class error.
func NewHandshakeError(format string, args ...any) *ProtocolError {
	return newProtocolError(ErrorCodeHandshake, format, args...)
}

// NewUnknownError creates an unknown-class error.
func NewUnknownError(format string, args ...any) *ProtocolError {
	return newProtocolError(ErrorCodeUnknown, format, args...)
}

func newProtocolError(code ErrorCode, format string, args ...any) *ProtocolError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &ProtocolError{Code: code, Message: msg}
}

// CodeOf returns the error class of err. Errors that are not (and do not
// wrap) a *ProtocolError are ErrorCodeUnknown.
func CodeOf(err error) ErrorCode {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrorCodeUnknown
}

// ErrorFromError converts err into an Error message with id 0. A
// *ProtocolError keeps its class and text unchanged; any other error is
// reported as ErrorCodeUnknown with err.Error() as text.
func ErrorFromError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return NewError(pe.Code, pe.Message)
	}
	return NewError(ErrorCodeUnknown, err.Error())
}

// Err converts an Error message back into a *ProtocolError.
func (e *Error) Err() error {
	return &ProtocolError{Code: e.ErrorCode, Message: e.ErrorMessage}
}
