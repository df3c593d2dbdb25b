package server

import (
	"context"
	"sync"
	"time"

	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/version"
)

// stopTimeout bounds the device stop issued when a session ends or misses
// its ping deadline.
const stopTimeout = 5 * time.Second

// Session is one client conversation. Handle is safe for concurrent use:
// the connector answers device commands on their own goroutines so a stop
// is never queued behind a slow write. Events may be sent concurrently.
type Session struct {
	server *Server
	connID string
	sender Sender
	ping   *pingTimer

	mu          sync.Mutex
	handshaken  bool
	clientName  string
	logLevel    message.LogLevel
	unsubEvents func()
	unsubLogs   func()

	done      chan struct{}
	closeOnce sync.Once
}

func newSession(srv *Server, connID string, sender Sender) *Session {
	s := &Session{
		server: srv,
		connID: connID,
		sender: sender,
		done:   make(chan struct{}),
	}
	s.ping = newPingTimer(srv.config.MaxPingTime, s.pingExpired)
	return s
}

// ConnectionID returns the id given at creation.
func (s *Session) ConnectionID() string { return s.connID }

// ClientName returns the name sent in RequestServerInfo, or "" before the
// handshake.
func (s *Session) ClientName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientName
}

// Done is closed when the session ends, either through Close or because
// the client missed its ping deadline.
func (s *Session) Done() <-chan struct{} { return s.done }

// Handle processes one client message and returns the reply. The reply
// always carries msg's id.
func (s *Session) Handle(ctx context.Context, msg message.Message) message.Message {
	if u, ok := msg.(message.Union); ok {
		msg = u.Message()
	}
	start := time.Now()
	s.captureMessage(caplog.DirectionIn, msg, nil)

	reply := s.handle(ctx, msg)

	elapsed := time.Since(start)
	s.captureMessage(caplog.DirectionOut, reply, &elapsed)
	return reply
}

func (s *Session) handle(ctx context.Context, msg message.Message) message.Message {
	if err := message.ValidateRequest(msg); err != nil {
		id := message.SystemMessageID
		if msg != nil {
			id = msg.ID()
		}
		return errorReply(id, err)
	}
	id := msg.ID()
	if s.ping.isExpired() {
		return errorReply(id, message.NewPingError("Ping timed out."))
	}

	s.mu.Lock()
	handshaken := s.handshaken
	s.mu.Unlock()

	if info, ok := msg.(*message.RequestServerInfo); ok {
		if handshaken {
			return errorReply(id, message.NewHandshakeError("Handshake already completed"))
		}
		return s.handshake(info)
	}
	if !handshaken {
		return errorReply(id, message.NewHandshakeError("RequestServerInfo must be the first message, got %s", msg.Kind()))
	}

	switch m := msg.(type) {
	case *message.Ping:
		if !s.ping.reset() {
			return errorReply(id, message.NewPingError("Ping timed out."))
		}
		return message.NewOk(id)

	case *message.Test:
		echo := message.NewTest(m.TestString)
		echo.SetID(id)
		return echo

	case *message.RequestLog:
		return s.requestLog(id, m.LogLevel)

	case *message.StartScanning:
		if err := s.server.config.Devices.StartScanning(ctx); err != nil {
			return errorReply(id, err)
		}
		return message.NewOk(id)

	case *message.StopScanning:
		if err := s.server.config.Devices.StopScanning(ctx); err != nil {
			return errorReply(id, err)
		}
		return message.NewOk(id)

	case *message.RequestDeviceList:
		return s.server.config.Devices.DeviceList(id)

	case *message.StopAllDevices:
		return s.server.config.Devices.StopAllDevices(ctx, id)

	case message.DeviceCommand:
		return s.server.config.Devices.Dispatch(ctx, m)

	default:
		return errorReply(id, message.NewMessageError("Unhandled message type %s", msg.Kind()))
	}
}

func (s *Session) handshake(info *message.RequestServerInfo) message.Message {
	if err := version.CheckMessageVersion(info.MessageVersion); err != nil {
		return errorReply(info.ID(), message.NewHandshakeError(
			"Client message version %d is newer than server message version %d",
			info.MessageVersion, version.MessageVersion))
	}

	s.mu.Lock()
	s.handshaken = true
	s.clientName = info.ClientName
	s.unsubEvents = s.server.config.Devices.OnEvent(s.forwardEvent)
	s.mu.Unlock()

	s.ping.start()
	s.logState("OPEN", "CONNECTED", info.ClientName)
	s.server.debugLog("client connected",
		"conn", s.connID,
		"client", info.ClientName,
		"messageVersion", info.MessageVersion)

	cfg := s.server.config
	reply := message.NewServerInfo(cfg.name(), version.MessageVersion, uint32(cfg.MaxPingTime.Milliseconds()))
	reply.MajorVersion = s.server.build.Major
	reply.MinorVersion = s.server.build.Minor
	reply.BuildVersion = s.server.build.Build
	reply.SetID(info.ID())
	return reply
}

func (s *Session) requestLog(id uint32, level message.LogLevel) message.Message {
	if !level.IsValid() {
		return errorReply(id, message.NewMessageError("Invalid log level %d", level))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubLogs != nil {
		s.unsubLogs()
		s.unsubLogs = nil
	}
	s.logLevel = level
	if fwd := s.server.config.LogForwarder; fwd != nil && level != message.LogLevelOff {
		s.unsubLogs = fwd.Subscribe(level, func(l *message.Log) { s.send(l) })
	}
	return message.NewOk(id)
}

// LogLevel returns the level requested with RequestLog.
func (s *Session) LogLevel() message.LogLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logLevel
}

func (s *Session) forwardEvent(msg message.Message) {
	select {
	case <-s.done:
		return
	default:
	}
	s.send(msg)
}

func (s *Session) pingExpired() {
	s.server.warnLog("client missed ping deadline, stopping all devices", "conn", s.connID)

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	s.server.config.Devices.StopAllDevices(ctx, message.SystemMessageID)

	s.send(message.ErrorFromError(message.NewPingError("Ping timed out.")))
	s.logState("CONNECTED", "PING_TIMEOUT", "")
	s.terminate()
}

// Close ends the session. Devices are stopped if the client completed the
// handshake.
func (s *Session) Close() {
	s.ping.stop()
	s.mu.Lock()
	handshaken := s.handshaken
	s.mu.Unlock()

	if handshaken && !s.ping.isExpired() {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		s.server.config.Devices.StopAllDevices(ctx, message.SystemMessageID)
		cancel()
	}
	s.terminate()
}

func (s *Session) terminate() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.unsubEvents != nil {
			s.unsubEvents()
			s.unsubEvents = nil
		}
		if s.unsubLogs != nil {
			s.unsubLogs()
			s.unsubLogs = nil
		}
		s.mu.Unlock()

		close(s.done)
		if s.server.remove(s) {
			s.logState("", "CLOSED", "")
			s.server.debugLog("session closed", "conn", s.connID)
		}
	})
}

// send pushes a server-initiated message. Failures are captured but not
// logged through slog, which may be feeding this very session.
func (s *Session) send(msg message.Message) {
	s.captureMessage(caplog.DirectionOut, msg, nil)
	if err := s.sender.Send(msg); err != nil {
		s.server.captureLogger().Log(caplog.Event{
			Timestamp:    time.Now(),
			ConnectionID: s.connID,
			Direction:    caplog.DirectionOut,
			Layer:        caplog.LayerServer,
			Category:     caplog.CategoryError,
			Error:        caplog.NewErrorEvent(caplog.LayerServer, err, "send "+msg.Kind().String()),
		})
	}
}

func (s *Session) captureMessage(dir caplog.Direction, msg message.Message, elapsed *time.Duration) {
	if s.server.config.CaptureLogger == nil || msg == nil {
		return
	}
	ev := caplog.Event{
		Timestamp:    time.Now(),
		ConnectionID: s.connID,
		Direction:    dir,
		Layer:        caplog.LayerServer,
		Category:     caplog.CategoryMessage,
		Message:      caplog.NewMessageEvent(msg),
	}
	ev.Message.ProcessingTime = elapsed
	if cmd, ok := message.AsDeviceCommand(msg); ok {
		idx := cmd.TargetIndex()
		ev.DeviceIndex = &idx
	}
	s.server.config.CaptureLogger.Log(ev)
}

func (s *Session) logState(oldState, newState, reason string) {
	s.server.captureLogger().Log(caplog.Event{
		Timestamp:    time.Now(),
		ConnectionID: s.connID,
		Direction:    caplog.DirectionOut,
		Layer:        caplog.LayerServer,
		Category:     caplog.CategoryState,
		StateChange: &caplog.StateChangeEvent{
			Entity:   caplog.StateEntitySession,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (s *Server) captureLogger() caplog.Logger {
	return caplog.OrNoop(s.config.CaptureLogger)
}

// errorReply converts err into an Error message carrying id.
func errorReply(id uint32, err error) *message.Error {
	reply := message.ErrorFromError(err)
	reply.SetID(id)
	return reply
}
