// Package loader reads protocol scenarios from YAML.
package loader

import (
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// TestCase is one scenario: a fresh server session driven through a list
// of steps.
type TestCase struct {
	// ID is the unique scenario identifier (e.g., "TC-HANDSHAKE-001").
	ID string `yaml:"id"`

	// Name is a human-readable name for the scenario.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Devices are advertised names of simulated devices offered on the
	// first scan (e.g., "LVS-S001").
	Devices []DeviceSpec `yaml:"devices,omitempty"`

	// MaxPingTime is the server ping deadline (e.g., "100ms"). Empty
	// disables it.
	MaxPingTime string `yaml:"max_ping_time,omitempty"`

	// Steps are the actions to execute in order.
	Steps []Step `yaml:"steps"`

	// Timeout is the maximum duration for the scenario (e.g., "30s").
	Timeout string `yaml:"timeout,omitempty"`

	// Tags for selecting scenarios.
	Tags []string `yaml:"tags,omitempty"`

	// Skip disables the scenario.
	Skip bool `yaml:"skip,omitempty"`

	// SkipReason is reported for skipped scenarios.
	SkipReason string `yaml:"skip_reason,omitempty"`

	// Remote marks scenarios that only use protocol messages and can run
	// against any server.
	Remote bool `yaml:"remote,omitempty"`
}

// DeviceSpec describes one simulated device.
type DeviceSpec struct {
	Name    string `yaml:"name"`
	Motors  int    `yaml:"motors,omitempty"`
	Battery int    `yaml:"battery,omitempty"`
}

// UnmarshalYAML accepts either a bare advertised name or a mapping.
func (d *DeviceSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		d.Name = value.Value
		return nil
	}
	type plain DeviceSpec
	return value.Decode((*plain)(d))
}

// PingTime parses MaxPingTime.
func (tc *TestCase) PingTime() (time.Duration, error) {
	if tc.MaxPingTime == "" {
		return 0, nil
	}
	return time.ParseDuration(tc.MaxPingTime)
}

// HasTag reports whether the scenario carries tag.
func (tc *TestCase) HasTag(tag string) bool {
	for _, t := range tc.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Step represents a single action in a scenario.
type Step struct {
	// Action is the action to perform (e.g., "send", "wait_event").
	Action string `yaml:"action"`

	// Params are parameters for the action.
	Params map[string]any `yaml:"params,omitempty"`

	// Expect defines expected outcomes after the action.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Timeout overrides the default step timeout.
	Timeout string `yaml:"timeout,omitempty"`

	// Description explains what this step does.
	Description string `yaml:"description,omitempty"`
}

// LoadError provides details about a scenario loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Line is the line number where the error occurred (0 if unknown).
	Line int

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return msg
	}
	if e.Line > 0 {
		return e.File + ":" + strconv.Itoa(e.Line) + ": " + msg
	}
	return e.File + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
