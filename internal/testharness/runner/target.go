package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/buttplug-go/buttplug/internal/simdevice"
	"github.com/buttplug-go/buttplug/internal/testharness/loader"
	"github.com/buttplug-go/buttplug/pkg/connector"
	"github.com/buttplug-go/buttplug/pkg/device"
	"github.com/buttplug-go/buttplug/pkg/devicemgr"
	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/server"
)

// Target errors.
var (
	ErrNotLocal      = errors.New("action requires the in-process server")
	ErrUnknownDevice = errors.New("unknown simulated device")
	ErrTargetClosed  = errors.New("connection closed")
)

// eventBuffer bounds server events not yet consumed by a step.
const eventBuffer = 256

// Target is one client connection to the server under test. Replies are
// matched to requests by id; id-0 messages are queued as events.
type Target struct {
	client  *connector.Client
	replies chan message.Message
	events  chan message.Message
	backlog []message.Message
	pumped  chan struct{}

	local *localServer
}

// localServer is an in-process server with simulated devices, served over
// a loopback WebSocket.
type localServer struct {
	sim      *simdevice.Manager
	devices  *devicemgr.Manager
	server   *server.Server
	listener *connector.Listener
	http     *http.Server
	url      string

	mu      sync.Mutex
	handles []*simdevice.Device
}

type localConfig struct {
	devices     *device.ConfigurationManager
	initTimeout time.Duration
	logger      *slog.Logger
	capture     caplog.Logger
}

func startLocal(cfg localConfig, tc *loader.TestCase) (*localServer, error) {
	ping, err := tc.PingTime()
	if err != nil {
		return nil, err
	}

	l := &localServer{}
	for _, spec := range tc.Devices {
		l.handles = append(l.handles, newSimulated(spec))
	}
	l.sim = simdevice.NewManager(l.handles...)

	l.devices, err = devicemgr.New(devicemgr.Config{
		Devices:               cfg.devices,
		CommunicationManagers: []device.CommunicationManager{l.sim},
		InitTimeout:           cfg.initTimeout,
		Logger:                cfg.logger,
		CaptureLogger:         cfg.capture,
	})
	if err != nil {
		return nil, err
	}
	if err := l.devices.Start(); err != nil {
		_ = l.devices.Close()
		return nil, err
	}

	l.server, err = server.New(server.Config{
		Name:          "bp-test " + tc.ID,
		MaxPingTime:   ping,
		Devices:       l.devices,
		Logger:        cfg.logger,
		CaptureLogger: cfg.capture,
	})
	if err != nil {
		_ = l.devices.Close()
		return nil, err
	}

	l.listener, err = connector.NewListener(connector.Config{
		Server:        l.server,
		Logger:        cfg.logger,
		CaptureLogger: cfg.capture,
	})
	if err != nil {
		_ = l.server.Close()
		_ = l.devices.Close()
		return nil, err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		l.close()
		return nil, err
	}
	l.http = &http.Server{Handler: l.listener, ReadHeaderTimeout: 5 * time.Second}
	l.url = "ws://" + ln.Addr().String() + "/"
	go func() { _ = l.http.Serve(ln) }()
	return l, nil
}

func newSimulated(spec loader.DeviceSpec) *simdevice.Device {
	var opts []simdevice.Option
	if spec.Motors > 0 {
		opts = append(opts, simdevice.WithMotors(spec.Motors))
	}
	if spec.Battery > 0 {
		opts = append(opts, simdevice.WithBattery(spec.Battery))
	}
	return simdevice.New(spec.Name, opts...)
}

func (l *localServer) addDevice(spec loader.DeviceSpec) *simdevice.Device {
	d := newSimulated(spec)
	l.mu.Lock()
	l.handles = append(l.handles, d)
	l.mu.Unlock()
	l.sim.AddDevice(d)
	return d
}

// find returns the first simulated device whose advertised name or address
// is key.
func (l *localServer) find(key string) (*simdevice.Device, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, d := range l.handles {
		if d.Name() == key || d.Address() == key {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, key)
}

func (l *localServer) close() error {
	var errs []error
	if l.listener != nil {
		errs = append(errs, l.listener.Close())
	}
	if l.http != nil {
		errs = append(errs, l.http.Close())
	}
	errs = append(errs, l.server.Close(), l.devices.Close())
	return errors.Join(errs...)
}

// dial connects to url and starts sorting inbound messages.
func dial(ctx context.Context, url string, logger *slog.Logger) (*Target, error) {
	c, err := connector.NewClient(connector.ClientConfig{URL: url, Logger: logger})
	if err != nil {
		return nil, err
	}
	if err := c.Connect(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	t := &Target{
		client:  c,
		replies: make(chan message.Message, eventBuffer),
		events:  make(chan message.Message, eventBuffer),
		pumped:  make(chan struct{}),
	}
	go t.pump()
	return t, nil
}

func (t *Target) pump() {
	defer close(t.pumped)
	for m := range t.client.Messages() {
		ch := t.replies
		if m.ID() == message.SystemMessageID {
			ch = t.events
		}
		select {
		case ch <- m:
		default:
			// Nobody is reading; drop rather than stall the client.
		}
	}
}

// Local reports whether the target runs its own server.
func (t *Target) Local() bool { return t.local != nil }

// State returns the client connection state.
func (t *Target) State() connector.ClientState { return t.client.State() }

// Send writes msgs as one envelope and returns their replies in request
// order. The server may answer device commands out of order.
func (t *Target) Send(ctx context.Context, msgs ...message.Message) ([]message.Message, error) {
	if err := t.client.Send(msgs...); err != nil {
		return nil, err
	}
	replies := make([]message.Message, 0, len(msgs))
	for range msgs {
		select {
		case m := <-t.replies:
			replies = append(replies, m)
		case <-t.pumped:
			return orderReplies(msgs, replies), ErrTargetClosed
		case <-ctx.Done():
			return orderReplies(msgs, replies), ctx.Err()
		}
	}
	return orderReplies(msgs, replies), nil
}

// orderReplies arranges replies to follow the ids of msgs. Replies whose
// id matches no request keep their arrival order at the end.
func orderReplies(msgs, replies []message.Message) []message.Message {
	out := make([]message.Message, 0, len(replies))
	used := make([]bool, len(replies))
	for _, req := range msgs {
		for i, r := range replies {
			if !used[i] && r.ID() == req.ID() {
				used[i] = true
				out = append(out, r)
				break
			}
		}
	}
	for i, r := range replies {
		if !used[i] {
			out = append(out, r)
		}
	}
	return out
}

// NextEvent returns the next event of kind, or of any kind when kind is
// empty. Events of other kinds stay queued for later calls.
func (t *Target) NextEvent(ctx context.Context, kind string) (message.Message, error) {
	for i, m := range t.backlog {
		if kind == "" || m.Kind().String() == kind {
			t.backlog = append(t.backlog[:i], t.backlog[i+1:]...)
			return m, nil
		}
	}
	for {
		select {
		case m := <-t.events:
			if kind == "" || m.Kind().String() == kind {
				return m, nil
			}
			t.backlog = append(t.backlog, m)
		case <-t.pumped:
			return nil, ErrTargetClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Device returns a simulated device by advertised name or address.
func (t *Target) Device(key string) (*simdevice.Device, error) {
	if t.local == nil {
		return nil, ErrNotLocal
	}
	return t.local.find(key)
}

// AddDevice offers another simulated device to scans.
func (t *Target) AddDevice(spec loader.DeviceSpec) (*simdevice.Device, error) {
	if t.local == nil {
		return nil, ErrNotLocal
	}
	return t.local.addDevice(spec), nil
}

// Close disconnects and, for local targets, shuts the server down.
func (t *Target) Close() error {
	err := t.client.Close()
	<-t.pumped
	if t.local != nil {
		err = errors.Join(err, t.local.close())
	}
	return err
}
