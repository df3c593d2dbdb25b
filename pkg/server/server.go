package server

import (
	"errors"
	"sync"

	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/version"
)

// Sender delivers server-initiated messages to one client. It is called
// from several goroutines and must not block.
type Sender interface {
	Send(msg message.Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(msg message.Message) error

// Send calls f(msg).
func (f SenderFunc) Send(msg message.Message) error {
	return f(msg)
}

// Server creates client sessions that share one device manager.
type Server struct {
	config Config
	build  version.BuildVersion

	mu       sync.Mutex
	sessions map[*Session]struct{}
	closed   bool
}

// ErrServerClosed is returned by NewSession after Close.
var ErrServerClosed = errors.New("server closed")

// New creates a server.
func New(config Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Server{
		config:   config,
		build:    version.MustParse(version.Current),
		sessions: make(map[*Session]struct{}),
	}, nil
}

// Name returns the name reported in ServerInfo.
func (s *Server) Name() string {
	return s.config.name()
}

// NewSession opens a session for one client. connID identifies the client
// in capture logs.
func (s *Server) NewSession(connID string, sender Sender) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrServerClosed
	}
	sess := newSession(s, connID, sender)
	s.sessions[sess] = struct{}{}
	s.config.Metrics.SessionOpened()
	sess.logState("", "OPEN", "")
	s.debugLog("session opened", "conn", connID)
	return sess, nil
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close closes every open session and refuses new ones.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*Session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
	return nil
}

func (s *Server) remove(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess]; !ok {
		return false
	}
	delete(s.sessions, sess)
	s.config.Metrics.SessionClosed()
	return true
}

// debugLog logs a debug message if logging is enabled.
func (s *Server) debugLog(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}

// warnLog logs a warning if logging is enabled.
func (s *Server) warnLog(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Warn(msg, args...)
	}
}
