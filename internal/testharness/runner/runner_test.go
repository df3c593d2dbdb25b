package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/buttplug-go/buttplug/internal/testharness/engine"
	"github.com/buttplug-go/buttplug/internal/testharness/loader"
	"github.com/buttplug-go/buttplug/internal/testharness/scenarios"
	"github.com/buttplug-go/buttplug/pkg/device"
	"github.com/buttplug-go/buttplug/pkg/message"
)

func builtinScenarios(t *testing.T) []*loader.TestCase {
	t.Helper()
	cases, err := loader.LoadFS(scenarios.FS, ".")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no built-in scenarios")
	}
	return cases
}

func describeFailure(t *testing.T, r *engine.TestResult) {
	t.Helper()
	t.Errorf("%s failed: %v", r.TestCase.ID, r.Error)
	for _, sr := range r.StepResults {
		if sr.Passed {
			continue
		}
		t.Logf("  step %d %s: error=%v output=%v", sr.StepIndex+1, sr.Step.Action, sr.Error, sr.Output)
		for k, er := range sr.ExpectResults {
			if !er.Passed {
				t.Logf("    %s: %s", k, er.Message)
			}
		}
	}
}

// TestBuiltinScenariosLocal runs every built-in scenario against its own
// in-process server.
func TestBuiltinScenariosLocal(t *testing.T) {
	r, err := New(Config{StepTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, tc := range builtinScenarios(t) {
		t.Run(tc.ID, func(t *testing.T) {
			res := r.Run(context.Background(), tc)
			if !res.Passed {
				describeFailure(t, res)
			}
		})
	}
}

// TestRemoteSkipsLocalScenarios points the runner at an already running
// server: remote-capable scenarios run, the rest are skipped.
func TestRemoteSkipsLocalScenarios(t *testing.T) {
	devs, err := device.LoadFromInternal()
	if err != nil {
		t.Fatalf("LoadFromInternal: %v", err)
	}
	srv, err := startLocal(localConfig{devices: devs}, &loader.TestCase{ID: "remote"})
	if err != nil {
		t.Fatalf("startLocal: %v", err)
	}
	defer srv.close()

	r, err := New(Config{URL: srv.url, StepTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := builtinScenarios(t)
	suite := r.RunSuite(context.Background(), cases)

	var remote int
	for _, tc := range cases {
		if tc.Remote {
			remote++
		}
	}
	if suite.PassCount != remote {
		for _, res := range suite.Results {
			if !res.Passed && !res.Skipped {
				describeFailure(t, res)
			}
		}
		t.Errorf("PassCount = %d, want %d", suite.PassCount, remote)
	}
	if suite.SkipCount != len(cases)-remote {
		t.Errorf("SkipCount = %d, want %d", suite.SkipCount, len(cases)-remote)
	}
	for _, res := range suite.Results {
		if res.Skipped && res.SkipReason != errRemoteUnsupported.Error() {
			t.Errorf("%s skip reason = %q", res.TestCase.ID, res.SkipReason)
		}
	}
	for _, tc := range cases {
		if !tc.Remote && tc.Skip {
			t.Errorf("%s was modified in place", tc.ID)
		}
	}
}

func TestSimulatorActionsNeedLocalServer(t *testing.T) {
	devs, err := device.LoadFromInternal()
	if err != nil {
		t.Fatalf("LoadFromInternal: %v", err)
	}
	srv, err := startLocal(localConfig{devices: devs}, &loader.TestCase{ID: "remote"})
	if err != nil {
		t.Fatalf("startLocal: %v", err)
	}
	defer srv.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tgt, err := dial(ctx, srv.url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer tgt.Close()

	if tgt.Local() {
		t.Error("dialed target should not be local")
	}
	if _, err := tgt.Device("LVS-S001"); !errors.Is(err, ErrNotLocal) {
		t.Errorf("Device error = %v, want ErrNotLocal", err)
	}
	if _, err := tgt.AddDevice(loader.DeviceSpec{Name: "LVS-S001"}); !errors.Is(err, ErrNotLocal) {
		t.Errorf("AddDevice error = %v, want ErrNotLocal", err)
	}
}

func TestUnknownSimulatedDevice(t *testing.T) {
	r, err := New(Config{StepTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tc := &loader.TestCase{
		ID:      "TC-UNKNOWN",
		Devices: []loader.DeviceSpec{{Name: "LVS-S001"}},
		Steps: []loader.Step{{
			Action: ActionDeviceState,
			Params: map[string]any{ParamDevice: "LVS-Z999"},
		}},
	}
	res := r.Run(context.Background(), tc)
	if res.Passed {
		t.Fatal("expected failure for unknown device")
	}
	if !errors.Is(res.Error, ErrUnknownDevice) {
		t.Errorf("error = %v, want ErrUnknownDevice", res.Error)
	}
}

func TestParseMessage(t *testing.T) {
	m, err := parseMessage(`{"Ping":{"Id":7}}`)
	if err != nil || m.ID() != 7 || m.Kind().String() != "Ping" {
		t.Errorf("JSON text: %v %v", m, err)
	}
	m, err = parseMessage(map[string]any{"Test": map[string]any{"Id": 3, "TestString": "x"}})
	if err != nil || m.ID() != 3 {
		t.Errorf("mapping: %v %v", m, err)
	}
	if _, err := parseMessage(nil); err == nil {
		t.Error("expected error for missing message")
	}
	if _, err := parseMessage(42); err == nil {
		t.Error("expected error for number")
	}
}

func TestActionNamesSorted(t *testing.T) {
	names := actionNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("not sorted: %v", names)
		}
	}
	if len(names) != 10 {
		t.Errorf("len = %d", len(names))
	}
}

func TestOrderRepliesFollowsRequestIDs(t *testing.T) {
	req := func(id uint32) message.Message {
		m := message.NewPing()
		m.SetID(id)
		return m
	}
	ok := func(id uint32) message.Message { return message.NewOk(id) }

	msgs := []message.Message{req(10), req(11), req(12)}
	got := orderReplies(msgs, []message.Message{ok(12), ok(11), ok(99), ok(10)})
	want := []uint32{10, 11, 12, 99}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID() != id {
			t.Errorf("reply %d id = %d, want %d", i, got[i].ID(), id)
		}
	}
}
