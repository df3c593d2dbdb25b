package server

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/buttplug-go/buttplug/pkg/message"
)

// LogForwarder is a slog.Handler that passes records to an optional inner
// handler and republishes them as Log messages to every session that asked
// for them with RequestLog.
type LogForwarder struct {
	hub    *logHub
	next   slog.Handler
	attrs  []slog.Attr
	prefix string
}

type logSubscriber struct {
	level message.LogLevel
	fn    func(*message.Log)
}

type logHub struct {
	mu     sync.RWMutex
	subs   map[int]logSubscriber
	nextID int
}

// NewLogForwarder creates a forwarder. next may be nil.
func NewLogForwarder(next slog.Handler) *LogForwarder {
	return &LogForwarder{hub: &logHub{subs: make(map[int]logSubscriber)}, next: next}
}

// Subscribe delivers records at or below level (in Log verbosity order) to
// fn. fn runs on the logging goroutine and must not block or log.
func (f *LogForwarder) Subscribe(level message.LogLevel, fn func(*message.Log)) (unsubscribe func()) {
	h := f.hub
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = logSubscriber{level: level, fn: fn}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Enabled implements slog.Handler.
func (f *LogForwarder) Enabled(ctx context.Context, level slog.Level) bool {
	if f.next != nil && f.next.Enabled(ctx, level) {
		return true
	}
	return f.hub.wants(LogLevelFromSlog(level))
}

// Handle implements slog.Handler.
func (f *LogForwarder) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if f.next != nil && f.next.Enabled(ctx, r.Level) {
		err = f.next.Handle(ctx, r)
	}

	level := LogLevelFromSlog(r.Level)
	subs := f.hub.matching(level)
	if len(subs) == 0 {
		return err
	}
	text := f.format(r)
	for _, fn := range subs {
		fn(message.NewLog(level, text))
	}
	return err
}

// WithAttrs implements slog.Handler.
func (f *LogForwarder) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *f
	if f.next != nil {
		out.next = f.next.WithAttrs(attrs)
	}
	out.attrs = append(append([]slog.Attr(nil), f.attrs...), f.qualify(attrs)...)
	return &out
}

// WithGroup implements slog.Handler.
func (f *LogForwarder) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	out := *f
	if f.next != nil {
		out.next = f.next.WithGroup(name)
	}
	out.prefix = f.prefix + name + "."
	return &out
}

func (f *LogForwarder) qualify(attrs []slog.Attr) []slog.Attr {
	if f.prefix == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: f.prefix + a.Key, Value: a.Value}
	}
	return out
}

// format renders "msg key=value ..." in a stable order.
func (f *LogForwarder) format(r slog.Record) string {
	var b strings.Builder
	b.WriteString(r.Message)
	write := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Resolve())
	}
	for _, a := range f.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(slog.Attr{Key: f.prefix + a.Key, Value: a.Value})
		return true
	})
	return b.String()
}

func (h *logHub) wants(level message.LogLevel) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		if s.level.Includes(level) {
			return true
		}
	}
	return false
}

func (h *logHub) matching(level message.LogLevel) []func(*message.Log) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]int, 0, len(h.subs))
	for id, s := range h.subs {
		if s.level.Includes(level) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	out := make([]func(*message.Log), len(ids))
	for i, id := range ids {
		out[i] = h.subs[id].fn
	}
	return out
}

// LogLevelFromSlog maps a slog level onto the protocol's log levels.
// Levels below Debug become Trace; Error+4 and above become Fatal.
func LogLevelFromSlog(l slog.Level) message.LogLevel {
	switch {
	case l < slog.LevelDebug:
		return message.LogLevelTrace
	case l < slog.LevelInfo:
		return message.LogLevelDebug
	case l < slog.LevelWarn:
		return message.LogLevelInfo
	case l < slog.LevelError:
		return message.LogLevelWarn
	case l < slog.LevelError+4:
		return message.LogLevelError
	default:
		return message.LogLevelFatal
	}
}

var _ slog.Handler = (*LogForwarder)(nil)
