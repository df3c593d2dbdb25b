package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/buttplug-go/buttplug/pkg/message"
)

// Client errors.
var (
	ErrClientClosed  = errors.New("client closed")
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyDialed = errors.New("already connected")
	ErrNoURL         = errors.New("server URL is required")
)

// ClientState is the connection state of a Client.
type ClientState uint8

const (
	// StateDisconnected indicates no active connection.
	StateDisconnected ClientState = iota

	// StateConnecting indicates a dial is in progress.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected

	// StateReconnecting indicates automatic reconnection is in progress.
	StateReconnecting

	// StateClosed indicates the client has been closed.
	StateClosed
)

// String returns a human-readable state name.
func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnecting:
		return "RECONNECTING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// URL is the server's WebSocket URL (ws:// or wss://). Required.
	URL string

	// Dialer is used for every connection attempt. Nil uses
	// websocket.DefaultDialer.
	Dialer *websocket.Dialer

	// AutoReconnect redials with backoff when the connection drops.
	AutoReconnect bool

	// Backoff configures reconnect delays.
	Backoff BackoffConfig

	// InboxSize bounds undelivered inbound messages.
	InboxSize int

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Client is a WebSocket client for a Buttplug server. It sends envelopes
// and delivers every inbound message, replies and events alike, on
// Messages.
type Client struct {
	config  ClientConfig
	dialer  *websocket.Dialer
	backoff *Backoff
	inbox   chan message.Message

	mu            sync.RWMutex
	state         ClientState
	ws            *websocket.Conn
	onStateChange func(oldState, newState ClientState)

	writeMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClient creates a client. It does not dial until Connect.
func NewClient(config ClientConfig) (*Client, error) {
	if config.URL == "" {
		return nil, ErrNoURL
	}
	if config.InboxSize <= 0 {
		config.InboxSize = DefaultOutboxSize
	}
	dialer := config.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		config:  config,
		dialer:  dialer,
		backoff: NewBackoff(config.Backoff),
		inbox:   make(chan message.Message, config.InboxSize),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// OnStateChange sets a callback for state changes.
func (c *Client) OnStateChange(fn func(oldState, newState ClientState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// State returns the current connection state.
func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Messages delivers decoded inbound messages. It is closed by Close.
func (c *Client) Messages() <-chan message.Message {
	return c.inbox
}

// Connect dials the server.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateClosed:
		c.mu.Unlock()
		return ErrClientClosed
	case StateConnected, StateConnecting, StateReconnecting:
		c.mu.Unlock()
		return ErrAlreadyDialed
	}
	c.mu.Unlock()

	c.setState(StateConnecting)
	if err := c.dial(ctx); err != nil {
		c.setState(StateDisconnected)
		return err
	}
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	ws, _, err := c.dialer.DialContext(ctx, c.config.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.config.URL, err)
	}

	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		_ = ws.Close()
		return ErrClientClosed
	}
	c.ws = ws
	c.wg.Add(1)
	c.mu.Unlock()

	c.backoff.Reset()
	c.setState(StateConnected)
	c.debugLog("connected", "url", c.config.URL)

	go c.readLoop(ws)
	return nil
}

// Send writes msgs as one envelope.
func (c *Client) Send(msgs ...message.Message) error {
	data, err := message.EncodeEnvelope(msgs...)
	if err != nil {
		return err
	}

	c.mu.RLock()
	ws, state := c.ws, c.state
	c.mu.RUnlock()
	if state == StateClosed {
		return ErrClientClosed
	}
	if state != StateConnected || ws == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = ws.SetWriteDeadline(time.Now().Add(DefaultWriteTimeout))
	return ws.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) readLoop(ws *websocket.Conn) {
	defer c.wg.Done()
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			c.connectionLost(ws, err)
			return
		}
		msgs, err := message.DecodeEnvelope(data)
		if err != nil {
			c.debugLog("dropping undecodable frame", "error", err)
			continue
		}
		for _, msg := range msgs {
			select {
			case c.inbox <- msg:
			case <-c.ctx.Done():
				return
			}
		}
	}
}

func (c *Client) connectionLost(ws *websocket.Conn, err error) {
	c.mu.Lock()
	if c.state == StateClosed || c.ws != ws {
		c.mu.Unlock()
		return
	}
	c.ws = nil
	reconnect := c.config.AutoReconnect
	c.mu.Unlock()
	_ = ws.Close()

	c.debugLog("connection lost", "error", err)
	if !reconnect {
		c.setState(StateDisconnected)
		return
	}
	c.setState(StateReconnecting)
	c.wg.Add(1)
	go c.reconnectLoop()
}

// reconnectLoop redials with backoff until it succeeds or the client closes.
func (c *Client) reconnectLoop() {
	defer c.wg.Done()
	for {
		delay := c.backoff.Next()
		c.debugLog("reconnecting", "attempt", c.backoff.Attempts(), "delay", delay)

		select {
		case <-c.ctx.Done():
			return
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
		err := c.dial(ctx)
		cancel()
		if err == nil || errors.Is(err, ErrClientClosed) {
			return
		}
		c.debugLog("reconnect failed", "error", err)
	}
}

// Close disconnects and stops reconnecting. Messages is closed once every
// goroutine has exited.
func (c *Client) Close() error {
	c.mu.Lock()
	old := c.state
	if old == StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosed
	ws := c.ws
	c.ws = nil
	fn := c.onStateChange
	c.mu.Unlock()
	if fn != nil {
		fn(old, StateClosed)
	}

	c.cancel()
	var err error
	if ws != nil {
		c.writeMu.Lock()
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = ws.Close()
	}
	c.wg.Wait()
	close(c.inbox)
	return err
}

func (c *Client) setState(s ClientState) {
	c.mu.Lock()
	old := c.state
	if old == StateClosed || old == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	fn := c.onStateChange
	c.mu.Unlock()

	if fn != nil {
		fn(old, s)
	}
}

// debugLog logs a debug message if logging is enabled.
func (c *Client) debugLog(msg string, args ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, args...)
	}
}
