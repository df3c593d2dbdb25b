package server

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buttplug-go/buttplug/internal/simdevice"
	"github.com/buttplug-go/buttplug/pkg/device"
	"github.com/buttplug-go/buttplug/pkg/devicemgr"
	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/metrics"
	"github.com/buttplug-go/buttplug/pkg/version"
)

// recorder is a Sender that keeps every pushed message.
type recorder struct {
	mu   sync.Mutex
	msgs []message.Message
}

func (r *recorder) Send(msg message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) find(kind message.Kind) message.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.Kind() == kind {
			return m
		}
	}
	return nil
}

func (r *recorder) count(kind message.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs {
		if m.Kind() == kind {
			n++
		}
	}
	return n
}

func (r *recorder) waitFor(t *testing.T, kind message.Kind) message.Message {
	t.Helper()
	var found message.Message
	require.Eventually(t, func() bool {
		found = r.find(kind)
		return found != nil
	}, time.Second, 5*time.Millisecond, "no %s received", kind)
	return found
}

type fixture struct {
	server  *Server
	devices *devicemgr.Manager
	sim     *simdevice.Manager
	fwd     *LogForwarder
	logger  *slog.Logger
	reg     *prometheus.Registry
}

func newFixture(t *testing.T, maxPing time.Duration) *fixture {
	t.Helper()
	devices, err := device.LoadFromInternal()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	met, err := metrics.New(reg)
	require.NoError(t, err)

	fwd := NewLogForwarder(nil)
	logger := slog.New(fwd)
	sim := simdevice.NewManager()

	mgr, err := devicemgr.New(devicemgr.Config{
		Devices:               devices,
		CommunicationManagers: []device.CommunicationManager{sim},
		InitTimeout:           200 * time.Millisecond,
		Logger:                logger,
		Metrics:               met,
	})
	require.NoError(t, err)
	require.NoError(t, mgr.Start())

	srv, err := New(Config{
		Name:         "Test Server",
		MaxPingTime:  maxPing,
		Devices:      mgr,
		LogForwarder: fwd,
		Logger:       logger,
		Metrics:      met,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = srv.Close()
		_ = mgr.Close()
	})
	return &fixture{server: srv, devices: mgr, sim: sim, fwd: fwd, logger: logger, reg: reg}
}

func (f *fixture) session(t *testing.T) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	sess, err := f.server.NewSession("conn-1", rec)
	require.NoError(t, err)
	return sess, rec
}

func (f *fixture) connected(t *testing.T) (*Session, *recorder) {
	t.Helper()
	sess, rec := f.session(t)
	reply := sess.Handle(context.Background(), message.NewRequestServerInfo("test client", 1))
	require.Equal(t, message.KindServerInfo, reply.Kind(), "handshake failed: %+v", reply)
	return sess, rec
}

func (f *fixture) addDevice(t *testing.T, d *simdevice.Device) {
	t.Helper()
	_, err := f.devices.AddDevice(context.Background(), device.DiscoveredDevice{
		Specifier: device.NewBluetoothLESpecifierFromDevice(d.Name()),
		Impl:      d,
	})
	require.NoError(t, err)
}

func withID[M message.Message](m M, id uint32) M {
	m.SetID(id)
	return m
}

func requireError(t *testing.T, reply message.Message, id uint32, code message.ErrorCode) *message.Error {
	t.Helper()
	e, ok := reply.(*message.Error)
	require.True(t, ok, "expected Error, got %T %+v", reply, reply)
	assert.Equal(t, id, e.ID())
	assert.Equal(t, code, e.ErrorCode)
	return e
}

func TestConfigValidate(t *testing.T) {
	assert.ErrorIs(t, Config{}.Validate(), ErrNoDeviceManager)

	f := newFixture(t, 0)
	assert.ErrorIs(t, Config{Devices: f.devices, MaxPingTime: -time.Second}.Validate(), ErrInvalidPingTime)
	assert.NoError(t, Config{Devices: f.devices}.Validate())
	assert.Equal(t, DefaultName, Config{}.name())
}

func TestHandshake(t *testing.T) {
	f := newFixture(t, 500*time.Millisecond)
	sess, _ := f.session(t)

	reply := sess.Handle(context.Background(), withID(message.NewRequestServerInfo("test client", 1), 4))
	info, ok := reply.(*message.ServerInfo)
	require.True(t, ok, "got %T", reply)

	build := version.MustParse(version.Current)
	assert.Equal(t, uint32(4), info.ID())
	assert.Equal(t, "Test Server", info.ServerName)
	assert.Equal(t, version.MessageVersion, info.MessageVersion)
	assert.Equal(t, uint32(500), info.MaxPingTime)
	assert.Equal(t, build.Major, info.MajorVersion)
	assert.Equal(t, build.Minor, info.MinorVersion)
	assert.Equal(t, build.Build, info.BuildVersion)
	assert.Equal(t, "test client", sess.ClientName())
}

func TestHandshakeRequiredFirst(t *testing.T) {
	f := newFixture(t, 0)
	sess, _ := f.session(t)

	e := requireError(t, sess.Handle(context.Background(), withID(message.NewPing(), 3)), 3, message.ErrorCodeHandshake)
	assert.Contains(t, e.ErrorMessage, "RequestServerInfo must be the first message")
}

func TestHandshakeNewerClient(t *testing.T) {
	f := newFixture(t, 0)
	sess, _ := f.session(t)

	reply := sess.Handle(context.Background(), message.NewRequestServerInfo("future", version.MessageVersion+1))
	e := requireError(t, reply, 1, message.ErrorCodeHandshake)
	assert.Equal(t, "Client message version 2 is newer than server message version 1", e.ErrorMessage)

	// The session is still waiting for a valid handshake.
	requireError(t, sess.Handle(context.Background(), message.NewPing()), 1, message.ErrorCodeHandshake)
}

func TestHandshakeTwice(t *testing.T) {
	f := newFixture(t, 0)
	sess, _ := f.connected(t)
	requireError(t, sess.Handle(context.Background(), message.NewRequestServerInfo("again", 1)), 1, message.ErrorCodeHandshake)
}

func TestSystemIDRejected(t *testing.T) {
	f := newFixture(t, 0)
	sess, _ := f.session(t)
	requireError(t, sess.Handle(context.Background(), withID(message.NewRequestServerInfo("c", 1), 0)), 0, message.ErrorCodeMessage)
}

func TestPingAndTest(t *testing.T) {
	f := newFixture(t, 0)
	sess, _ := f.connected(t)

	assert.Equal(t, message.NewOk(2), sess.Handle(context.Background(), withID(message.NewPing(), 2)))

	reply := sess.Handle(context.Background(), withID(message.NewTest("hello"), 9))
	echo, ok := reply.(*message.Test)
	require.True(t, ok)
	assert.Equal(t, uint32(9), echo.ID())
	assert.Equal(t, "hello", echo.TestString)
}

func TestUnionIsUnwrapped(t *testing.T) {
	f := newFixture(t, 0)
	sess, _ := f.connected(t)
	reply := sess.Handle(context.Background(), message.NewUnion(withID(message.NewPing(), 6)))
	assert.Equal(t, message.NewOk(6), reply)
}

func TestServerOnlyMessagesRejected(t *testing.T) {
	f := newFixture(t, 0)
	sess, _ := f.connected(t)

	tests := []message.Message{
		message.NewOk(5),
		withID(message.NewServerInfo("x", 1, 0), 5),
		withID(message.NewDeviceList(nil), 5),
		withID(message.NewDeviceAdded(0, "x", nil), 5),
		withID(message.NewDeviceRemoved(0), 5),
		withID(message.NewScanningFinished(), 5),
		withID(message.NewLog(message.LogLevelInfo, "x"), 5),
		withID(message.NewRawReading(0, message.EndpointRx, nil), 5),
	}
	for _, msg := range tests {
		t.Run(msg.Kind().String(), func(t *testing.T) {
			e := requireError(t, sess.Handle(context.Background(), msg), 5, message.ErrorCodeMessage)
			assert.Equal(t, msg.Kind().String()+" is a server message and cannot be sent by a client", e.ErrorMessage)
		})
	}
}

func TestPingTimeout(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond)
	d := simdevice.New("LVS-S001")
	f.addDevice(t, d)
	sess, rec := f.connected(t)

	reply := sess.Handle(context.Background(), withID(message.NewVibrateCmd(0, []message.VibrateSubcommand{{Index: 0, Speed: 1}}), 2))
	require.Equal(t, message.NewOk(2), reply)
	require.False(t, d.Idle())

	ev := rec.waitFor(t, message.KindError)
	e := requireError(t, ev, 0, message.ErrorCodePing)
	assert.Equal(t, "Ping timed out.", e.ErrorMessage)
	assert.True(t, d.Idle(), "devices are stopped when the ping deadline passes")

	select {
	case <-sess.Done():
	case <-time.After(time.Second):
		t.Fatal("session not terminated")
	}
	requireError(t, sess.Handle(context.Background(), withID(message.NewPing(), 3)), 3, message.ErrorCodePing)
	assert.Equal(t, 0, f.server.SessionCount())
}

func TestPingKeepsSessionAlive(t *testing.T) {
	f := newFixture(t, 80*time.Millisecond)
	sess, rec := f.connected(t)

	for i := 0; i < 6; i++ {
		time.Sleep(30 * time.Millisecond)
		require.Equal(t, message.NewOk(2), sess.Handle(context.Background(), withID(message.NewPing(), 2)))
	}
	assert.Nil(t, rec.find(message.KindError))
}

func TestRequestLog(t *testing.T) {
	f := newFixture(t, 0)
	sess, rec := f.connected(t)

	assert.Equal(t, message.NewOk(3), sess.Handle(context.Background(), withID(message.NewRequestLog(message.LogLevelInfo), 3)))
	assert.Equal(t, message.LogLevelInfo, sess.LogLevel())

	f.logger.Debug("too verbose")
	f.logger.Info("device ready", "index", 0)

	log, ok := rec.waitFor(t, message.KindLog).(*message.Log)
	require.True(t, ok)
	assert.Equal(t, message.LogLevelInfo, log.LogLevel)
	assert.Equal(t, "device ready index=0", log.LogMessage)
	assert.Equal(t, uint32(0), log.ID())
	assert.Equal(t, 1, rec.count(message.KindLog))

	sess.Handle(context.Background(), withID(message.NewRequestLog(message.LogLevelOff), 4))
	f.logger.Error("ignored")
	assert.Equal(t, 1, rec.count(message.KindLog))
}

func TestRequestLogInvalidLevel(t *testing.T) {
	f := newFixture(t, 0)
	sess, _ := f.connected(t)
	requireError(t, sess.Handle(context.Background(), withID(message.NewRequestLog(message.LogLevel(42)), 3)), 3, message.ErrorCodeMessage)
}

func TestScanningEvents(t *testing.T) {
	f := newFixture(t, 0)
	sess, rec := f.connected(t)
	f.sim.AddDevice(simdevice.New("LVS-A011"))

	assert.Equal(t, message.NewOk(2), sess.Handle(context.Background(), withID(message.NewStartScanning(), 2)))
	added, ok := rec.waitFor(t, message.KindDeviceAdded).(*message.DeviceAdded)
	require.True(t, ok)
	assert.Equal(t, "Lovense Nora", added.DeviceName)
	assert.Equal(t, uint32(0), added.ID())

	assert.Equal(t, message.NewOk(3), sess.Handle(context.Background(), withID(message.NewStopScanning(), 3)))
	rec.waitFor(t, message.KindScanningFinished)

	reply := sess.Handle(context.Background(), withID(message.NewRequestDeviceList(), 4))
	list, ok := reply.(*message.DeviceList)
	require.True(t, ok)
	assert.Equal(t, uint32(4), list.ID())
	require.Len(t, list.Devices, 1)
	assert.Equal(t, "Lovense Nora", list.Devices[0].DeviceName)
}

func TestEventsNotSentBeforeHandshake(t *testing.T) {
	f := newFixture(t, 0)
	_, rec := f.session(t)
	f.addDevice(t, simdevice.New("LVS-S001"))
	assert.Nil(t, rec.find(message.KindDeviceAdded))
}

func TestDeviceCommands(t *testing.T) {
	f := newFixture(t, 0)
	d := simdevice.New("LVS-S001")
	f.addDevice(t, d)
	sess, _ := f.connected(t)

	reply := sess.Handle(context.Background(), withID(message.NewSingleMotorVibrateCmd(0, 0.25), 7))
	assert.Equal(t, message.NewOk(7), reply)
	assert.Equal(t, []int{5}, d.Vibration())

	e := requireError(t, sess.Handle(context.Background(), withID(message.NewLinearCmd(0, nil), 8)), 8, message.ErrorCodeDevice)
	assert.Equal(t, "LovenseProtocol does not accept LinearCmd messages.", e.ErrorMessage)

	assert.Equal(t, message.NewOk(9), sess.Handle(context.Background(), withID(message.NewStopAllDevices(), 9)))
	assert.True(t, d.Idle())
}

func TestCloseStopsDevices(t *testing.T) {
	f := newFixture(t, 0)
	d := simdevice.New("LVS-S001")
	f.addDevice(t, d)
	sess, _ := f.connected(t)

	sess.Handle(context.Background(), withID(message.NewVibrateCmd(0, []message.VibrateSubcommand{{Index: 0, Speed: 1}}), 2))
	require.False(t, d.Idle())

	expected := `
# HELP buttplug_client_sessions Number of open client sessions
# TYPE buttplug_client_sessions gauge
buttplug_client_sessions 1
`
	assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "buttplug_client_sessions"))

	sess.Close()
	sess.Close()
	assert.True(t, d.Idle())
	assert.Equal(t, 0, f.server.SessionCount())
	_, open := <-sess.Done()
	assert.False(t, open)
	assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(strings.Replace(expected, "sessions 1", "sessions 0", 1)), "buttplug_client_sessions"))
}

func TestNewSessionAfterClose(t *testing.T) {
	f := newFixture(t, 0)
	require.NoError(t, f.server.Close())
	_, err := f.server.NewSession("late", &recorder{})
	assert.ErrorIs(t, err, ErrServerClosed)
}
