package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/buttplug-go/buttplug/internal/testharness/loader"
)

// TestLoaderParseBasic tests basic YAML scenario parsing.
func TestLoaderParseBasic(t *testing.T) {
	yaml := `
id: TC-TEST-001
name: Basic Test
description: A simple scenario
max_ping_time: 250ms
tags: [handshake, remote]
remote: true
steps:
  - action: send
    params:
      message: '{"Ping":{"Id":2}}'
    expect:
      kind: Ok
`
	tc, err := loader.ParseTestCase([]byte(yaml))
	if err != nil {
		t.Fatalf("Failed to parse test case: %v", err)
	}

	if tc.ID != "TC-TEST-001" {
		t.Errorf("ID mismatch: expected TC-TEST-001, got %s", tc.ID)
	}
	if tc.Name != "Basic Test" {
		t.Errorf("Name mismatch: expected 'Basic Test', got %s", tc.Name)
	}
	if !tc.Remote || !tc.HasTag("handshake") || tc.HasTag("device") {
		t.Errorf("Remote/tags mismatch: %+v", tc)
	}
	ping, err := tc.PingTime()
	if err != nil || ping != 250*time.Millisecond {
		t.Errorf("PingTime = %v, %v", ping, err)
	}
	if len(tc.Steps) != 1 {
		t.Fatalf("Expected 1 step, got %d", len(tc.Steps))
	}
	step := tc.Steps[0]
	if step.Action != "send" {
		t.Errorf("Step action mismatch: expected send, got %s", step.Action)
	}
	if step.Params["message"] != `{"Ping":{"Id":2}}` {
		t.Errorf("Step message mismatch: %v", step.Params["message"])
	}
	if step.Expect["kind"] != "Ok" {
		t.Errorf("Step expect mismatch: %v", step.Expect)
	}
}

// TestLoaderDevices tests both device forms.
func TestLoaderDevices(t *testing.T) {
	yaml := `
id: TC-DEV-001
name: Devices
devices:
  - LVS-S001
  - name: LVS-P36
    motors: 2
    battery: 40
steps:
  - action: scan
`
	tc, err := loader.ParseTestCase([]byte(yaml))
	if err != nil {
		t.Fatalf("Failed to parse test case: %v", err)
	}
	if len(tc.Devices) != 2 {
		t.Fatalf("Expected 2 devices, got %d", len(tc.Devices))
	}
	if tc.Devices[0] != (loader.DeviceSpec{Name: "LVS-S001"}) {
		t.Errorf("Device 0 mismatch: %+v", tc.Devices[0])
	}
	if tc.Devices[1] != (loader.DeviceSpec{Name: "LVS-P36", Motors: 2, Battery: 40}) {
		t.Errorf("Device 1 mismatch: %+v", tc.Devices[1])
	}
}

// TestLoaderErrors tests validation failures.
func TestLoaderErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing id", "name: x\nsteps:\n  - action: send\n", "test case ID is required"},
		{"no steps", "id: TC-1\n", "at least one step"},
		{"empty action", "id: TC-1\nsteps:\n  - params: {}\n", "step 1 has no action"},
		{"bad step timeout", "id: TC-1\nsteps:\n  - action: send\n    timeout: soon\n", "step 1 timeout"},
		{"bad ping", "id: TC-1\nmax_ping_time: often\nsteps:\n  - action: send\n", "invalid max_ping_time"},
		{"unnamed device", "id: TC-1\ndevices:\n  - motors: 2\nsteps:\n  - action: send\n", "device 1 has no name"},
		{"syntax", "id: [\n", "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.ParseTestCase([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			var le *loader.LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LoadError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadErrorFormat(t *testing.T) {
	err := &loader.LoadError{File: "a.yaml", Line: 12, Message: "bad"}
	if got := err.Error(); got != "a.yaml:12: bad" {
		t.Errorf("Error() = %q", got)
	}
	cause := errors.New("boom")
	err = &loader.LoadError{File: "a.yaml", Message: "bad", Cause: cause}
	if got := err.Error(); got != "a.yaml: bad: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("LoadError should unwrap to its cause")
	}
}

// TestLoaderLoadFile tests loading from disk.
func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ping.yaml")
	if err := os.WriteFile(file, []byte("id: TC-PING-001\nsteps:\n  - action: send\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tc, err := loader.LoadTestCase(file)
	if err != nil {
		t.Fatalf("LoadTestCase: %v", err)
	}
	if tc.ID != "TC-PING-001" {
		t.Errorf("ID mismatch: %s", tc.ID)
	}

	_, err = loader.LoadTestCase(filepath.Join(dir, "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("expected error naming the file, got %v", err)
	}
}

// TestLoaderLoadDirectory tests directory loading, ordering and filtering
// of non-YAML files.
func TestLoaderLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.yaml":    "id: TC-B\nsteps:\n  - action: send\n",
		"a.yml":     "id: TC-A\nsteps:\n  - action: send\n",
		"notes.txt": "not a scenario",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "c.yaml"), []byte("id: TC-C\nsteps:\n  - action: send\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cases, err := loader.LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(cases) != 2 || cases[0].ID != "TC-A" || cases[1].ID != "TC-B" {
		t.Fatalf("unexpected cases: %v", ids(cases))
	}

	cases, err = loader.LoadDirectoryRecursive(dir)
	if err != nil {
		t.Fatalf("LoadDirectoryRecursive: %v", err)
	}
	if len(cases) != 3 {
		t.Errorf("expected 3 cases, got %v", ids(cases))
	}
}

func TestLoadFSDuplicateID(t *testing.T) {
	fsys := fstest.MapFS{
		"s/one.yaml": {Data: []byte("id: TC-1\nsteps:\n  - action: send\n")},
		"s/two.yaml": {Data: []byte("id: TC-1\nsteps:\n  - action: send\n")},
	}
	_, err := loader.LoadFS(fsys, "s")
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate error, got %v", err)
	}
}

func TestFilterTestCases(t *testing.T) {
	cases := []*loader.TestCase{
		{ID: "TC-HANDSHAKE-001", Tags: []string{"handshake"}, Remote: true},
		{ID: "TC-DEVICE-001", Tags: []string{"device"}},
		{ID: "TC-DEVICE-002", Tags: []string{"device", "lovense"}},
	}

	tests := []struct {
		name   string
		filter loader.Filter
		want   []string
	}{
		{"all", loader.Filter{}, []string{"TC-HANDSHAKE-001", "TC-DEVICE-001", "TC-DEVICE-002"}},
		{"prefix", loader.Filter{IDPrefix: "TC-DEVICE"}, []string{"TC-DEVICE-001", "TC-DEVICE-002"}},
		{"tag", loader.Filter{Tags: []string{"lovense", "handshake"}}, []string{"TC-HANDSHAKE-001", "TC-DEVICE-002"}},
		{"remote", loader.Filter{RemoteOnly: true}, []string{"TC-HANDSHAKE-001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(loader.FilterTestCases(cases, tt.filter))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func ids(cases []*loader.TestCase) []string {
	out := make([]string, 0, len(cases))
	for _, tc := range cases {
		out = append(out, tc.ID)
	}
	return out
}
