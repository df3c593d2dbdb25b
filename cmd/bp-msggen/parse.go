package main

import (
	"fmt"
	"os"
	"unicode"

	"gopkg.in/yaml.v3"
)

// RawSpec is the generator input loaded from messages.yaml.
type RawSpec struct {
	Package  string          `yaml:"package"`
	Messages []RawMessageDef `yaml:"messages"`
}

// RawMessageDef describes one message variant.
type RawMessageDef struct {
	Name          string `yaml:"name"`
	DefaultID     uint32 `yaml:"default_id"`
	DeviceCommand bool   `yaml:"device_command"`
}

// LoadSpec reads and validates a message list from a YAML file.
func LoadSpec(path string) (*RawSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseSpec(data)
}

// ParseSpec parses and validates a message list.
func ParseSpec(data []byte) (*RawSpec, error) {
	var spec RawSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing message list: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks names and ids.
func (s *RawSpec) Validate() error {
	if s.Package == "" {
		return fmt.Errorf("package is required")
	}
	if len(s.Messages) == 0 {
		return fmt.Errorf("no messages defined")
	}
	if len(s.Messages) > 254 {
		return fmt.Errorf("too many messages (%d), Kind is a uint8", len(s.Messages))
	}

	seen := make(map[string]bool, len(s.Messages))
	for i, m := range s.Messages {
		if m.Name == "" {
			return fmt.Errorf("message[%d]: name is required", i)
		}
		if !unicode.IsUpper(rune(m.Name[0])) {
			return fmt.Errorf("message %s: name must be exported", m.Name)
		}
		if m.Name == "Unknown" {
			return fmt.Errorf("message[%d]: name %q is reserved", i, m.Name)
		}
		if seen[m.Name] {
			return fmt.Errorf("message %s: duplicate name", m.Name)
		}
		seen[m.Name] = true
		if m.DefaultID > 1 {
			return fmt.Errorf("message %s: default_id must be 0 or 1, got %d", m.Name, m.DefaultID)
		}
	}
	return nil
}
