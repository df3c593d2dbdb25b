// Package metrics exposes Prometheus metrics for device command execution.
//
// A nil *Metrics is valid and records nothing, so components can take an
// optional metrics handle without checking for it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "buttplug"

// Command status label values.
const (
	StatusOk        = "ok"
	StatusError     = "error"
	StatusPreempted = "preempted"
)

// Metrics holds the command and device metrics.
type Metrics struct {
	commands         *prometheus.CounterVec   // Commands by protocol, kind and status
	commandDuration  *prometheus.HistogramVec // ParseMessage latency by protocol and kind
	devicesConnected prometheus.Gauge         // Currently connected devices
	stopPreemptions  *prometheus.CounterVec   // In-flight or queued commands cut short by stop
	sessions         prometheus.Gauge         // Open client sessions
}

// New creates the metrics and registers them with reg. A nil registry
// disables metrics and returns nil.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total device commands handled, by outcome",
		}, []string{"protocol", "kind", "status"}),

		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent executing a device command",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"protocol", "kind"}),

		devicesConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "devices_connected",
			Help:      "Number of devices currently connected",
		}),

		stopPreemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stop_preemptions_total",
			Help:      "Commands cancelled or dropped because a stop arrived",
		}, []string{"protocol"}),

		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "client_sessions",
			Help:      "Number of open client sessions",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.commands, m.commandDuration, m.devicesConnected, m.stopPreemptions, m.sessions,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveCommand records one finished command.
func (m *Metrics) ObserveCommand(protocol, kind, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(protocol, kind, status).Inc()
	m.commandDuration.WithLabelValues(protocol, kind).Observe(d.Seconds())
}

// StopPreempted records n commands cut short by a stop.
func (m *Metrics) StopPreempted(protocol string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.stopPreemptions.WithLabelValues(protocol).Add(float64(n))
}

// DeviceConnected increments the connected device gauge.
func (m *Metrics) DeviceConnected() {
	if m == nil {
		return
	}
	m.devicesConnected.Inc()
}

// DeviceDisconnected decrements the connected device gauge.
func (m *Metrics) DeviceDisconnected() {
	if m == nil {
		return
	}
	m.devicesConnected.Dec()
}

// SessionOpened increments the session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// SessionClosed decrements the session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}
