package message

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Union is the closed tagged union of all message variants. It holds exactly
// one concrete variant and serializes as a single-key JSON object keyed by
// the variant's protocol name.
//
// The zero Union holds nothing; it is only useful as a decoding target.
type Union struct {
	msg Message
}

// NewUnion wraps a concrete variant. Wrapping a Union or nil panics.
func NewUnion(m Message) Union {
	switch v := m.(type) {
	case nil:
		panic("message: NewUnion called with nil message")
	case Union:
		panic(fmt.Sprintf("message: NewUnion called on Union(%s)", v.Kind()))
	}
	return Union{msg: m}
}

// Message returns the wrapped variant, or nil for the zero Union.
func (u Union) Message() Message {
	return u.msg
}

// ID returns the wrapped variant's id.
func (u Union) ID() uint32 {
	if u.msg == nil {
		return SystemMessageID
	}
	return u.msg.ID()
}

// SetID sets the wrapped variant's id. The variant is held by pointer, so
// the change is visible through every copy of u.
func (u Union) SetID(id uint32) {
	if u.msg == nil {
		panic("message: SetID on empty Union")
	}
	u.msg.SetID(id)
}

// Kind returns the wrapped variant's kind, or KindUnknown when empty.
func (u Union) Kind() Kind {
	if u.msg == nil {
		return KindUnknown
	}
	return u.msg.Kind()
}

// AsUnion panics: a Union is already unified and has no flattened form of
// its own. Use Message to reach the variant.
func (u Union) AsUnion() Union {
	panic("message: AsUnion called on Union")
}

func (Union) isMessage() {}

// MarshalJSON encodes the union as {"<Kind>":{...}}.
func (u Union) MarshalJSON() ([]byte, error) {
	if u.msg == nil {
		return nil, fmt.Errorf("message: cannot encode empty Union")
	}
	body, err := json.Marshal(u.msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", u.msg.Kind(), err)
	}
	name, err := json.Marshal(u.msg.Kind().String())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(name) + len(body) + 3)
	buf.WriteByte('{')
	buf.Write(name)
	buf.WriteByte(':')
	buf.Write(body)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a single-key object into the matching variant.
func (u *Union) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to decode message object: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("message object must have exactly one key, got %d", len(obj))
	}

	for name, body := range obj {
		kind, ok := ParseKind(name)
		if !ok {
			return fmt.Errorf("unknown message type %q", name)
		}
		m := kind.New()
		if err := json.Unmarshal(body, m); err != nil {
			return fmt.Errorf("failed to decode %s: %w", name, err)
		}
		u.msg = m
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Message = Union{}
