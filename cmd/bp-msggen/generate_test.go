package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/imports"
)

const testSpec = `
package: message
messages:
  - name: Ok
    default_id: 0
  - name: Ping
    default_id: 1
  - name: StopDeviceCmd
    default_id: 1
    device_command: true
`

func TestParseSpecValid(t *testing.T) {
	spec, err := ParseSpec([]byte(testSpec))
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	if spec.Package != "message" {
		t.Errorf("Package = %q, want message", spec.Package)
	}
	if len(spec.Messages) != 3 {
		t.Fatalf("len(Messages) = %d, want 3", len(spec.Messages))
	}
	if !spec.Messages[2].DeviceCommand {
		t.Error("StopDeviceCmd should be a device command")
	}
}

func TestParseSpecInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no package", "messages:\n  - name: Ok\n"},
		{"no messages", "package: message\n"},
		{"lowercase name", "package: message\nmessages:\n  - name: ok\n"},
		{"reserved name", "package: message\nmessages:\n  - name: Unknown\n"},
		{"duplicate", "package: message\nmessages:\n  - name: Ok\n  - name: Ok\n"},
		{"bad default id", "package: message\nmessages:\n  - name: Ok\n    default_id: 2\n"},
		{"empty name", "package: message\nmessages:\n  - default_id: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSpec([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGenerateFormats(t *testing.T) {
	spec, err := ParseSpec([]byte(testSpec))
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}

	code := Generate(spec)
	formatted, err := imports.Process("messages_gen.go", []byte(code), nil)
	if err != nil {
		t.Fatalf("generated code does not format: %v\n%s", err, code)
	}
	out := string(formatted)

	for _, want := range []string{
		"DO NOT EDIT",
		"KindUnknown Kind = iota",
		"KindStopDeviceCmd",
		`case "Ping":`,
		"func (s *StopDeviceCmd) TargetIndex() uint32",
		"func (o *Ok) AsUnion() Union",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated code missing %q", want)
		}
	}
	if strings.Contains(out, "func (p *Ping) TargetIndex()") {
		t.Error("Ping must not be a device command")
	}
}

func TestGenerateCheckedInMessages(t *testing.T) {
	path := filepath.Join("..", "..", "pkg", "message", "messages.yaml")
	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if len(spec.Messages) != 28 {
		t.Errorf("len(Messages) = %d, want 28", len(spec.Messages))
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "messages_gen.go")
	if err := writeFormatted(out, Generate(spec)); err != nil {
		t.Fatalf("writeFormatted: %v", err)
	}
	if _, err := os.Stat(out + ".broken"); err == nil {
		t.Error("unexpected .broken file")
	}
}
