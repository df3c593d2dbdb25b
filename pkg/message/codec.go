package message

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes one message as a single-key JSON object.
func Marshal(m Message) ([]byte, error) {
	u, err := toUnion(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(u)
}

// Unmarshal decodes one single-key JSON object into its variant.
func Unmarshal(data []byte) (Message, error) {
	var u Union
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return u.Message(), nil
}

// EncodeEnvelope encodes messages as a protocol envelope: a JSON array of
// single-key objects. At least one message is required.
func EncodeEnvelope(msgs ...Message) ([]byte, error) {
	if len(msgs) == 0 {
		return nil, fmt.Errorf("envelope must contain at least one message")
	}
	unions := make([]Union, len(msgs))
	for i, m := range msgs {
		u, err := toUnion(m)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		unions[i] = u
	}
	return json.Marshal(unions)
}

// DecodeEnvelope decodes a protocol envelope into its messages. An empty
// array or a bare object is rejected.
func DecodeEnvelope(data []byte) ([]Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("envelope must be a JSON array")
	}
	var unions []Union
	if err := json.Unmarshal(trimmed, &unions); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if len(unions) == 0 {
		return nil, fmt.Errorf("envelope must contain at least one message")
	}
	msgs := make([]Message, len(unions))
	for i, u := range unions {
		if u.msg == nil {
			return nil, fmt.Errorf("envelope entry %d is null", i)
		}
		msgs[i] = u.msg
	}
	return msgs, nil
}

// ToProtocolJSON returns the message wrapped in a single-element envelope,
// i.e. "[" + message JSON + "]".
func ToProtocolJSON(m Message) (string, error) {
	data, err := Marshal(m)
	if err != nil {
		return "", err
	}
	return "[" + string(data) + "]", nil
}

func toUnion(m Message) (Union, error) {
	switch v := m.(type) {
	case nil:
		return Union{}, fmt.Errorf("nil message")
	case Union:
		if v.msg == nil {
			return Union{}, fmt.Errorf("empty union")
		}
		return v, nil
	default:
		return m.AsUnion(), nil
	}
}
