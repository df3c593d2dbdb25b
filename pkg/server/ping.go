package server

import (
	"sync"
	"time"
)

// pingTimer fires onExpire once when no Ping arrives within the configured
// interval. A fired timer stays expired.
type pingTimer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	running  bool
	expired  bool
	onExpire func()
}

func newPingTimer(interval time.Duration, onExpire func()) *pingTimer {
	return &pingTimer{interval: interval, onExpire: onExpire}
}

// start arms the timer. A zero interval disables it.
func (p *pingTimer) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.interval <= 0 || p.running || p.expired {
		return
	}
	p.running = true
	p.timer = time.AfterFunc(p.interval, p.fire)
}

// reset restarts the countdown. It returns false once the timer has expired.
func (p *pingTimer) reset() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.expired {
		return false
	}
	if p.running {
		p.timer.Reset(p.interval)
	}
	return true
}

// stop disarms the timer without firing it.
func (p *pingTimer) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.running = false
}

func (p *pingTimer) isExpired() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expired
}

func (p *pingTimer) fire() {
	p.mu.Lock()
	if !p.running || p.expired {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.expired = true
	p.mu.Unlock()

	if p.onExpire != nil {
		p.onExpire()
	}
}
