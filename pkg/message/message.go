package message

// SystemMessageID marks a message that was not sent in reply to a request.
const SystemMessageID uint32 = 0

// DefaultRequestID is the id request constructors start with. The sending
// layer replaces it with a fresh id before the request goes out.
const DefaultRequestID uint32 = 1

// Message is implemented by every protocol message variant and by Union.
// The set of implementations is closed: the unexported marker method keeps
// types outside this package from satisfying it.
type Message interface {
	// ID returns the correlation id.
	ID() uint32

	// SetID replaces the correlation id in place.
	SetID(id uint32)

	// Kind returns the variant discriminator.
	Kind() Kind

	// AsUnion wraps the variant in a Union. Calling it on a Union is a
	// programming error and panics.
	AsUnion() Union

	isMessage()
}

// DeviceCommand is the subset of messages that target a single connected
// device and are dispatched to that device's protocol.
type DeviceCommand interface {
	Message

	// TargetIndex returns the index of the device the command is addressed to.
	TargetIndex() uint32

	isDeviceCommand()
}

// AsDeviceCommand narrows m to a DeviceCommand. Unions are unwrapped first.
func AsDeviceCommand(m Message) (DeviceCommand, bool) {
	if u, ok := m.(Union); ok {
		m = u.Message()
	}
	cmd, ok := m.(DeviceCommand)
	return cmd, ok
}

// IsSystem reports whether m carries the system id (no correlated request).
func IsSystem(m Message) bool {
	return m.ID() == SystemMessageID
}

// ValidateRequest checks a message received from a client before it is
// handled. Requests need an id of at least 1 and must not be a variant only
// the server sends. Failures are MessageErrors.
func ValidateRequest(m Message) error {
	if u, ok := m.(Union); ok {
		m = u.Message()
	}
	if m == nil {
		return NewMessageError("Empty message")
	}
	if m.ID() == SystemMessageID {
		return NewMessageError("Message id 0 is reserved for server events")
	}
	if IsServerMessage(m.Kind()) {
		return NewMessageError("%s is a server message and cannot be sent by a client", m.Kind())
	}
	return nil
}

// IsServerMessage reports whether k is only ever sent by the server.
func IsServerMessage(k Kind) bool {
	switch k {
	case KindOk, KindError, KindLog, KindServerInfo, KindDeviceList,
		KindDeviceAdded, KindDeviceRemoved, KindScanningFinished, KindRawReading:
		return true
	}
	return false
}
