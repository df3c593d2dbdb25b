package protocol

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/metrics"
)

type memoryLogger struct {
	mu     sync.Mutex
	events []caplog.Event
}

func (m *memoryLogger) Log(e caplog.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *memoryLogger) Events() []caplog.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]caplog.Event(nil), m.events...)
}

type runnerFixture struct {
	runner  *Runner
	dev     *lovenseDevice
	reg     *prometheus.Registry
	capture *memoryLogger
}

func newRunnerFixture(t *testing.T, name string, initTimeout time.Duration) *runnerFixture {
	t.Helper()
	dev := newLovenseDevice(t, name)
	dev.EXPECT().Disconnect().Return(nil).Maybe()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	capture := &memoryLogger{}
	proto := NewLovense(Config{Selection: selection(t, name), Notifications: dev.notes, InitTimeout: initTimeout})
	r := NewRunner(RunnerConfig{
		Index:         3,
		Device:        dev,
		Protocol:      proto,
		CaptureLogger: capture,
		Metrics:       m,
	})
	t.Cleanup(func() { _ = r.Close() })
	return &runnerFixture{runner: r, dev: dev, reg: reg, capture: capture}
}

func vibrate(id uint32, speed float64) *message.VibrateCmd {
	cmd := message.NewVibrateCmd(3, []message.VibrateSubcommand{{Index: 0, Speed: speed}})
	cmd.SetID(id)
	return cmd
}

func stop(id uint32) *message.StopDeviceCmd {
	cmd := message.NewStopDeviceCmd(3)
	cmd.SetID(id)
	return cmd
}

func TestRunnerExecute(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 0)
	require.NoError(t, f.runner.Start(context.Background()))

	reply, err := f.runner.Execute(context.Background(), vibrate(5, 0.5))
	require.NoError(t, err)
	assert.Equal(t, message.NewOk(5), reply)
	assert.Equal(t, []string{"DeviceType;", "Vibrate:10;"}, f.dev.Writes())

	assert.Equal(t, uint32(3), f.runner.Index())
	assert.Equal(t, StateReady, f.runner.Protocol().State())
	n, err := testutil.GatherAndCount(f.reg, "buttplug_commands_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunnerBeforeStart(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 0)
	_, err := f.runner.Execute(context.Background(), vibrate(1, 0.5))
	assert.Contains(t, requireDeviceError(t, err), "not connected")
}

func TestRunnerStartTwice(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 0)
	require.NoError(t, f.runner.Start(context.Background()))
	assert.ErrorIs(t, f.runner.Start(context.Background()), ErrAlreadyInitialized)
}

func TestRunnerStartFailureStillStops(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 20*time.Millisecond)
	f.dev.silent = true

	requireDeviceError(t, f.runner.Start(context.Background()))
	assert.Equal(t, StateFailed, f.runner.Protocol().State())

	reply, err := f.runner.Execute(context.Background(), stop(9))
	require.NoError(t, err)
	assert.Equal(t, message.NewOk(9), reply)

	_, err = f.runner.Execute(context.Background(), vibrate(10, 0.5))
	requireDeviceError(t, err)

	var states []string
	var errorEvents int
	for _, e := range f.capture.Events() {
		switch e.Category {
		case caplog.CategoryState:
			states = append(states, e.StateChange.NewState)
		case caplog.CategoryError:
			errorEvents++
		}
	}
	assert.Equal(t, []string{"INITIALIZING", "FAILED"}, states)
	assert.Equal(t, 2, errorEvents, "init failure and rejected vibrate")
}

func TestRunnerStopDuringInitialize(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 5*time.Second)
	entered, release := f.dev.Block()
	defer release()

	started := make(chan error, 1)
	go func() { started <- f.runner.Start(context.Background()) }()
	require.Equal(t, "DeviceType;", <-entered)

	queued := make(chan error, 1)
	go func() {
		_, err := f.runner.Execute(context.Background(), vibrate(40, 1))
		queued <- err
	}()
	require.Eventually(t, func() bool { return len(f.runner.queue) == 1 }, time.Second, time.Millisecond)

	begin := time.Now()
	reply, err := f.runner.Execute(context.Background(), stop(41))
	require.NoError(t, err)
	assert.Equal(t, message.NewOk(41), reply)
	assert.Less(t, time.Since(begin), time.Second, "stop waited for initialization")
	assert.Equal(t, StateInitializing, f.runner.Protocol().State())

	release()
	require.NoError(t, <-started)
	select {
	case err := <-queued:
		assert.Contains(t, requireDeviceError(t, err), "cancelled by StopDeviceCmd")
	case <-time.After(time.Second):
		t.Fatal("command queued before the stop was not failed")
	}
	assert.Equal(t, []string{"DeviceType;"}, f.dev.Writes())

	reply, err = f.runner.Execute(context.Background(), vibrate(42, 0.5))
	require.NoError(t, err)
	assert.Equal(t, message.NewOk(42), reply)
}

func TestRunnerSerializesCommands(t *testing.T) {
	f := newRunnerFixture(t, "LVS-P36", 0)
	require.NoError(t, f.runner.Start(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := message.NewVibrateCmd(3, []message.VibrateSubcommand{
				{Index: 0, Speed: 0.1},
				{Index: 1, Speed: 0.9},
			})
			cmd.SetID(uint32(100 + i))
			reply, err := f.runner.Execute(context.Background(), cmd)
			assert.NoError(t, err)
			if err == nil {
				assert.Equal(t, uint32(100+i), reply.ID())
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.dev.maxActive.Load(), "writes never overlap")

	// Each two-write command stays contiguous.
	writes := f.dev.Writes()[1:]
	require.Len(t, writes, 40)
	for i := 0; i < len(writes); i += 2 {
		assert.Equal(t, "Vibrate1:2;", writes[i])
		assert.Equal(t, "Vibrate2:18;", writes[i+1])
	}
}

func TestRunnerStopPreemptsInFlight(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 0)
	require.NoError(t, f.runner.Start(context.Background()))
	entered, release := f.dev.Block()
	defer release()

	done := make(chan error, 1)
	go func() {
		_, err := f.runner.Execute(context.Background(), vibrate(20, 1))
		done <- err
	}()
	<-entered

	reply, err := f.runner.Execute(context.Background(), stop(21))
	require.NoError(t, err)
	assert.Equal(t, message.NewOk(21), reply)

	select {
	case err := <-done:
		assert.Contains(t, requireDeviceError(t, err), "cancelled by StopDeviceCmd")
	case <-time.After(time.Second):
		t.Fatal("in-flight command was not preempted")
	}

	expected := `
# HELP buttplug_stop_preemptions_total Commands cancelled or dropped because a stop arrived
# TYPE buttplug_stop_preemptions_total counter
buttplug_stop_preemptions_total{protocol="LovenseProtocol"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "buttplug_stop_preemptions_total"))
}

func TestRunnerStopFailsQueued(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 0)
	require.NoError(t, f.runner.Start(context.Background()))
	entered, release := f.dev.Block()
	defer release()

	results := make(chan error, 2)
	go func() {
		_, err := f.runner.Execute(context.Background(), vibrate(30, 1))
		results <- err
	}()
	<-entered
	go func() {
		_, err := f.runner.Execute(context.Background(), vibrate(31, 0.5))
		results <- err
	}()
	require.Eventually(t, func() bool { return len(f.runner.queue) == 1 }, time.Second, time.Millisecond)

	_, err := f.runner.Execute(context.Background(), stop(32))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		select {
		case err := <-results:
			assert.Contains(t, requireDeviceError(t, err), "cancelled by StopDeviceCmd")
		case <-time.After(time.Second):
			t.Fatal("queued command was not failed")
		}
	}
	assert.Equal(t, []string{"DeviceType;", "Vibrate:0;"}, f.dev.Writes())

	// Commands submitted after the stop run normally.
	release()
	reply, err := f.runner.Execute(context.Background(), vibrate(33, 0.5))
	require.NoError(t, err)
	assert.Equal(t, uint32(33), reply.ID())
}

func TestRunnerStopTwice(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 0)
	require.NoError(t, f.runner.Start(context.Background()))

	for _, id := range []uint32{40, 41} {
		reply, err := f.runner.Execute(context.Background(), stop(id))
		require.NoError(t, err)
		assert.Equal(t, message.NewOk(id), reply)
	}
	assert.Equal(t, []string{"DeviceType;", "Vibrate:0;", "Vibrate:0;"}, f.dev.Writes())
}

func TestRunnerExecuteContextCancelled(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 0)
	require.NoError(t, f.runner.Start(context.Background()))
	entered, release := f.dev.Block()
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.runner.Execute(ctx, vibrate(50, 1))
		done <- err
	}()
	<-entered
	cancel()

	select {
	case err := <-done:
		requireDeviceError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Execute ignored its context")
	}
}

func TestRunnerClose(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 0)
	require.NoError(t, f.runner.Start(context.Background()))

	require.NoError(t, f.runner.Close())
	require.NoError(t, f.runner.Close())

	select {
	case <-f.runner.Done():
	default:
		t.Fatal("Done not closed")
	}

	_, err := f.runner.Execute(context.Background(), vibrate(60, 0.5))
	assert.Contains(t, requireDeviceError(t, err), "not connected")
	f.dev.AssertNumberOfCalls(t, "Disconnect", 1)
}

func TestRunnerCloseUnblocksInFlight(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 0)
	require.NoError(t, f.runner.Start(context.Background()))
	entered, release := f.dev.Block()
	defer release()

	done := make(chan error, 1)
	go func() {
		_, err := f.runner.Execute(context.Background(), vibrate(70, 1))
		done <- err
	}()
	<-entered
	require.NoError(t, f.runner.Close())

	select {
	case err := <-done:
		requireDeviceError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close left a command hanging")
	}
}

func TestRunnerCloseBeforeStart(t *testing.T) {
	f := newRunnerFixture(t, "LVS-S001", 0)
	require.NoError(t, f.runner.Close())
	assert.ErrorIs(t, f.runner.Start(context.Background()), ErrAlreadyInitialized)
}
