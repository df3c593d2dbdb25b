package connector

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/server"
)

// Listener defaults.
const (
	DefaultWriteTimeout = 10 * time.Second
	DefaultOutboxSize   = 64
)

// Listener errors.
var (
	ErrNoServer       = errors.New("server is required")
	ErrListenerClosed = errors.New("listener closed")
	ErrOutboxFull     = errors.New("outbound queue full")
	ErrConnClosed     = errors.New("connection closed")
)

// Config configures a Listener.
type Config struct {
	// Server creates one session per connection. Required.
	Server *server.Server

	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration

	// ReadTimeout closes connections idle for longer. Zero disables it;
	// the session's ping timer is the usual liveness check.
	ReadTimeout time.Duration

	// OutboxSize bounds queued outbound frames per connection.
	OutboxSize int

	// CheckOrigin is passed to the upgrader. Nil accepts every origin.
	CheckOrigin func(r *http.Request) bool

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// CaptureLogger receives CONNECTOR-layer capture events (optional).
	CaptureLogger caplog.Logger
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Server == nil {
		return ErrNoServer
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.OutboxSize <= 0 {
		c.OutboxSize = DefaultOutboxSize
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = func(*http.Request) bool { return true }
	}
}

// Listener is an http.Handler that upgrades requests to WebSocket
// connections and serves one client session on each.
type Listener struct {
	config   Config
	upgrader websocket.Upgrader
	capture  caplog.Logger

	mu     sync.Mutex
	conns  map[*conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewListener creates a listener.
func NewListener(config Config) (*Listener, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return &Listener{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin:     config.CheckOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		capture: caplog.OrNoop(config.CaptureLogger),
		conns:   make(map[*conn]struct{}),
	}, nil
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		http.Error(w, ErrListenerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	l.wg.Add(1)
	l.mu.Unlock()
	defer l.wg.Done()

	ws, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.debugLog("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newConn(l, ws, r.RemoteAddr)
	sess, err := l.config.Server.NewSession(c.id, c)
	if err != nil {
		l.debugLog("session refused", "conn", c.id, "error", err)
		_ = ws.Close()
		return
	}
	c.session = sess

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		sess.Close()
		_ = ws.Close()
		return
	}
	l.conns[c] = struct{}{}
	l.mu.Unlock()

	l.logConnection(c, "", "CONNECTED", "")
	l.debugLog("client connected", "conn", c.id, "remote", c.remote)

	c.serve(r.Context())

	l.logConnection(c, "CONNECTED", "DISCONNECTED", c.closeReason())
	l.debugLog("client disconnected", "conn", c.id, "reason", c.closeReason())
	l.mu.Lock()
	delete(l.conns, c)
	l.mu.Unlock()
}

// ConnectionCount returns the number of open connections.
func (l *Listener) ConnectionCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.conns)
}

// Close disconnects every client and waits for their handlers to return.
func (l *Listener) Close() error {
	l.mu.Lock()
	l.closed = true
	conns := make([]*conn, 0, len(l.conns))
	for c := range l.conns {
		conns = append(conns, c)
	}
	l.mu.Unlock()

	for _, c := range conns {
		c.close("listener closed")
	}
	l.wg.Wait()
	return nil
}

func (l *Listener) logConnection(c *conn, oldState, newState, reason string) {
	l.capture.Log(caplog.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    caplog.DirectionIn,
		Layer:        caplog.LayerConnector,
		Category:     caplog.CategoryState,
		RemoteAddr:   c.remote,
		StateChange: &caplog.StateChangeEvent{
			Entity:   caplog.StateEntityConnection,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (l *Listener) logError(c *conn, err error, context string) {
	l.capture.Log(caplog.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    caplog.DirectionIn,
		Layer:        caplog.LayerConnector,
		Category:     caplog.CategoryError,
		RemoteAddr:   c.remote,
		Error:        caplog.NewErrorEvent(caplog.LayerConnector, err, context),
	})
}

// debugLog logs a debug message if logging is enabled.
func (l *Listener) debugLog(msg string, args ...any) {
	if l.config.Logger != nil {
		l.config.Logger.Debug(msg, args...)
	}
}

// conn is one WebSocket client.
type conn struct {
	listener *Listener
	id       string
	remote   string
	ws       *websocket.Conn
	session  *server.Session

	outbox chan []byte
	done   chan struct{}

	// inflight tracks device commands handled off the read loop.
	inflight sync.WaitGroup

	mu        sync.Mutex
	reason    string
	closeOnce sync.Once
}

func newConn(l *Listener, ws *websocket.Conn, remote string) *conn {
	return &conn{
		listener: l,
		id:       uuid.NewString(),
		remote:   remote,
		ws:       ws,
		outbox:   make(chan []byte, l.config.OutboxSize),
		done:     make(chan struct{}),
	}
}

// Send queues msg as a single-message envelope. It never blocks.
func (c *conn) Send(msg message.Message) error {
	data, err := message.EncodeEnvelope(msg)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.outbox <- data:
		return nil
	default:
		return ErrOutboxFull
	}
}

// reply queues a reply, waiting for room in the outbox.
func (c *conn) reply(msg message.Message) error {
	data, err := message.EncodeEnvelope(msg)
	if err != nil {
		return err
	}
	select {
	case c.outbox <- data:
		return nil
	case <-c.done:
		return ErrConnClosed
	}
}

func (c *conn) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop()
	}()
	go func() {
		select {
		case <-c.session.Done():
			c.close("session ended")
		case <-c.done:
		}
	}()

	c.readLoop(ctx)
	c.close("read closed")
	cancel()
	// Commands still running must finish before the session stops the
	// devices, or one could land after the stop.
	c.inflight.Wait()
	c.session.Close()
	<-writerDone
	_ = c.ws.Close()
}

func (c *conn) readLoop(ctx context.Context) {
	for {
		select {
		case <-c.done:
			return
		default:
		}
		if c.listener.config.ReadTimeout > 0 {
			_ = c.ws.SetReadDeadline(time.Now().Add(c.listener.config.ReadTimeout))
		}
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.setReason(err.Error())
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		msgs, err := message.DecodeEnvelope(data)
		if err != nil {
			c.listener.logError(c, err, "decode envelope")
			_ = c.reply(message.ErrorFromError(message.NewMessageError("Could not parse message: %v", err)))
			continue
		}
		for _, msg := range msgs {
			if deviceBound(msg) {
				msg := msg
				c.inflight.Add(1)
				go func() {
					defer c.inflight.Done()
					_ = c.reply(c.session.Handle(ctx, msg))
				}()
				continue
			}
			if err := c.reply(c.session.Handle(ctx, msg)); err != nil {
				return
			}
		}
	}
}

// deviceBound reports whether msg is handled off the read loop. A device
// write can block for as long as the hardware takes, and a stop or a
// command for another device must not queue behind it. Everything else
// is answered in arrival order.
func deviceBound(msg message.Message) bool {
	if u, ok := msg.(message.Union); ok {
		msg = u.Message()
	}
	switch msg.(type) {
	case message.DeviceCommand, *message.StopAllDevices:
		return true
	}
	return false
}

// writeLoop writes queued frames until the connection closes, then flushes
// what is left and sends a close frame.
func (c *conn) writeLoop() {
	for {
		select {
		case data := <-c.outbox:
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.listener.logError(c, err, "write")
				c.close("write failed")
				return
			}
		case <-c.done:
			for {
				select {
				case data := <-c.outbox:
					if c.write(websocket.TextMessage, data) != nil {
						return
					}
				default:
					_ = c.write(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, c.closeReason()))
					return
				}
			}
		}
	}
}

func (c *conn) write(kind int, data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.listener.config.WriteTimeout))
	return c.ws.WriteMessage(kind, data)
}

// close ends the connection. The read loop is unblocked by expiring its
// deadline; the write loop flushes and sends a close frame.
func (c *conn) close(reason string) {
	c.closeOnce.Do(func() {
		c.setReason(reason)
		close(c.done)
		_ = c.ws.NetConn().SetReadDeadline(time.Now())
	})
}

func (c *conn) setReason(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reason == "" {
		c.reason = reason
	}
}

func (c *conn) closeReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

var _ server.Sender = (*conn)(nil)
