package interactive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/buttplug-go/buttplug/internal/simdevice"
	"github.com/buttplug-go/buttplug/pkg/connector"
	"github.com/buttplug-go/buttplug/pkg/device"
	"github.com/buttplug-go/buttplug/pkg/devicemgr"
	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/server"
)

// ErrNotLocal is returned by operations only an in-process backend supports.
var ErrNotLocal = errors.New("only available with the local server")

// Backend carries console messages to a server. Replies and events are
// reported through the output function given at construction.
type Backend interface {
	Send(ctx context.Context, msg message.Message) error
	Close() error
}

// LocalConfig configures an in-process server with simulated devices.
type LocalConfig struct {
	// Devices are the advertised names of the simulated devices offered on
	// the first scan.
	Devices []string

	// MaxPingTime is the server's ping deadline. Zero disables it.
	MaxPingTime time.Duration

	// Logger receives server logs (optional).
	Logger *slog.Logger
}

// Local runs a server in-process. Replies are returned synchronously;
// events arrive from the device manager's goroutines.
type Local struct {
	out     func(message.Message)
	sim     *simdevice.Manager
	devices *devicemgr.Manager
	server  *server.Server
	session *server.Session

	mu      sync.Mutex
	handles map[string]*simdevice.Device
}

// NewLocal builds a device manager, a server and one session bound to out.
func NewLocal(cfg LocalConfig, out func(message.Message)) (*Local, error) {
	devCfg, err := device.LoadFromInternal()
	if err != nil {
		return nil, err
	}

	l := &Local{out: out, handles: make(map[string]*simdevice.Device)}
	devs := make([]*simdevice.Device, 0, len(cfg.Devices))
	for _, name := range cfg.Devices {
		d := simdevice.New(name)
		l.handles[d.Address()] = d
		devs = append(devs, d)
	}
	l.sim = simdevice.NewManager(devs...)

	l.devices, err = devicemgr.New(devicemgr.Config{
		Devices:               devCfg,
		CommunicationManagers: []device.CommunicationManager{l.sim},
		Logger:                cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := l.devices.Start(); err != nil {
		return nil, err
	}

	l.server, err = server.New(server.Config{
		MaxPingTime: cfg.MaxPingTime,
		Devices:     l.devices,
		Logger:      cfg.Logger,
	})
	if err != nil {
		_ = l.devices.Close()
		return nil, err
	}

	l.session, err = l.server.NewSession("console", server.SenderFunc(func(m message.Message) error {
		out(m)
		return nil
	}))
	if err != nil {
		_ = l.devices.Close()
		return nil, err
	}
	return l, nil
}

// Send handles msg and reports the reply.
func (l *Local) Send(ctx context.Context, msg message.Message) error {
	l.out(l.session.Handle(ctx, msg))
	return nil
}

// AddDevice offers another simulated device to scans.
func (l *Local) AddDevice(name string) *simdevice.Device {
	d := simdevice.New(name)
	l.mu.Lock()
	l.handles[d.Address()] = d
	l.mu.Unlock()
	l.sim.AddDevice(d)
	return d
}

// Simulated returns every simulated device, keyed by address.
func (l *Local) Simulated() map[string]*simdevice.Device {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]*simdevice.Device, len(l.handles))
	for k, v := range l.handles {
		out[k] = v
	}
	return out
}

// Close ends the session and stops every device.
func (l *Local) Close() error {
	l.session.Close()
	err := l.server.Close()
	return errors.Join(err, l.devices.Close())
}

// Remote talks to a bp-server over WebSocket.
type Remote struct {
	client *connector.Client
	done   chan struct{}
}

// NewRemote dials url and forwards every inbound message to out.
func NewRemote(ctx context.Context, url string, logger *slog.Logger, out func(message.Message)) (*Remote, error) {
	c, err := connector.NewClient(connector.ClientConfig{
		URL:           url,
		AutoReconnect: true,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}
	if err := c.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	r := &Remote{client: c, done: make(chan struct{})}
	go func() {
		defer close(r.done)
		for m := range c.Messages() {
			out(m)
		}
	}()
	return r, nil
}

// OnStateChange reports connection state changes.
func (r *Remote) OnStateChange(fn func(oldState, newState connector.ClientState)) {
	r.client.OnStateChange(fn)
}

// Send writes msg; its reply arrives asynchronously.
func (r *Remote) Send(_ context.Context, msg message.Message) error {
	return r.client.Send(msg)
}

// Close disconnects and waits for the output goroutine.
func (r *Remote) Close() error {
	err := r.client.Close()
	<-r.done
	return err
}

var (
	_ Backend = (*Local)(nil)
	_ Backend = (*Remote)(nil)
)
