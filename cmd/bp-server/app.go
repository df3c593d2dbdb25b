package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/buttplug-go/buttplug/internal/simdevice"
	"github.com/buttplug-go/buttplug/pkg/connector"
	"github.com/buttplug-go/buttplug/pkg/device"
	"github.com/buttplug-go/buttplug/pkg/devicemgr"
	caplog "github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/metrics"
	"github.com/buttplug-go/buttplug/pkg/server"
)

// app is a fully wired server: device manager, protocol server, WebSocket
// listener and, optionally, capture file and metrics registry.
type app struct {
	config serverConfig
	logger *slog.Logger

	capture  *caplog.FileLogger
	registry *prometheus.Registry
	devices  *devicemgr.Manager
	sim      *simdevice.Manager
	server   *server.Server
	listener *connector.Listener
}

// newApp builds every component. logOut receives text logs; it is also the
// sink the LogForwarder wraps, so clients asking for RequestLog see the
// same lines.
func newApp(cfg serverConfig, logOut io.Writer) (*app, error) {
	if err := ValidateServerConfig(cfg); err != nil {
		return nil, err
	}

	base := slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel})
	forwarder := server.NewLogForwarder(base)
	a := &app{
		config: cfg,
		logger: slog.New(forwarder),
	}

	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	// Capture events bypass the forwarder; forwarding them would feed the
	// session capture back into itself.
	var captures []caplog.Logger
	if cfg.CaptureLogPath != "" {
		fl, err := caplog.NewFileLogger(cfg.CaptureLogPath)
		if err != nil {
			return nil, err
		}
		a.capture = fl
		captures = append(captures, fl)
	}
	if cfg.CaptureToLog {
		captures = append(captures, caplog.NewSlogAdapter(slog.New(base)))
	}
	var capture caplog.Logger
	if len(captures) > 0 {
		capture = caplog.NewMultiLogger(captures...)
	}

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		var err error
		if m, err = metrics.New(a.registry); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	devCfg, err := loadDeviceConfig(cfg.DeviceConfigPath)
	if err != nil {
		return nil, err
	}

	var comms []device.CommunicationManager
	if len(cfg.Simulated) > 0 {
		devs := make([]*simdevice.Device, 0, len(cfg.Simulated))
		for _, sc := range cfg.Simulated {
			devs = append(devs, newSimulated(sc))
		}
		a.sim = simdevice.NewManager(devs...)
		comms = append(comms, a.sim)
	}

	a.devices, err = devicemgr.New(devicemgr.Config{
		Devices:               devCfg,
		CommunicationManagers: comms,
		InitTimeout:           cfg.InitTimeout,
		Logger:                a.logger,
		CaptureLogger:         capture,
		Metrics:               m,
	})
	if err != nil {
		return nil, err
	}
	if err := a.devices.Start(); err != nil {
		return nil, err
	}

	a.server, err = server.New(server.Config{
		Name:          cfg.Name,
		MaxPingTime:   cfg.MaxPingTime,
		Devices:       a.devices,
		LogForwarder:  forwarder,
		Logger:        a.logger,
		CaptureLogger: capture,
		Metrics:       m,
	})
	if err != nil {
		return nil, err
	}

	a.listener, err = connector.NewListener(connector.Config{
		Server:        a.server,
		Logger:        a.logger,
		CaptureLogger: capture,
	})
	if err != nil {
		return nil, err
	}

	ok = true
	return a, nil
}

func loadDeviceConfig(path string) (*device.ConfigurationManager, error) {
	if path == "" {
		return device.LoadFromInternal()
	}
	cm := device.NewConfigurationManager()
	if err := cm.Load(path); err != nil {
		return nil, fmt.Errorf("load device config: %w", err)
	}
	return cm, nil
}

func newSimulated(sc simulatedConfig) *simdevice.Device {
	var opts []simdevice.Option
	if sc.Motors > 0 {
		opts = append(opts, simdevice.WithMotors(sc.Motors))
	}
	if sc.Battery > 0 {
		opts = append(opts, simdevice.WithBattery(sc.Battery))
	}
	return simdevice.New(sc.Name, opts...)
}

// Handler serves the WebSocket endpoint.
func (a *app) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(a.config.Path, a.listener)
	return mux
}

// MetricsHandler serves /metrics and /health. It is nil when metrics are
// disabled.
func (a *app) MetricsHandler() http.Handler {
	if a.registry == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Run serves until ctx is cancelled, then shuts everything down.
func (a *app) Run(ctx context.Context) error {
	servers := []*http.Server{{
		Addr:              a.config.ListenAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if h := a.MetricsHandler(); h != nil {
		servers = append(servers, &http.Server{
			Addr:              a.config.MetricsAddr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		a.logger.Info("listening", "addr", srv.Addr)
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	// Disconnect clients first; hijacked connections are invisible to
	// http.Server.Shutdown.
	_ = a.listener.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		_ = srv.Shutdown(shutdownCtx)
	}
	if err := a.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Close releases every component. Devices are stopped before the capture
// file is closed so their final writes are recorded.
func (a *app) Close() error {
	var errs []error
	if a.listener != nil {
		errs = append(errs, a.listener.Close())
	}
	if a.server != nil {
		errs = append(errs, a.server.Close())
	}
	if a.devices != nil {
		errs = append(errs, a.devices.Close())
	}
	if a.capture != nil {
		errs = append(errs, a.capture.Close())
	}
	return errors.Join(errs...)
}
