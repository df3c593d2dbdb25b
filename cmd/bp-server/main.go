// Command bp-server runs a Buttplug server over WebSocket.
//
// Usage:
//
//	bp-server [flags]
//
// Flags:
//
//	-config string     Server configuration file (.yaml, .yml or .toml)
//	-listen string     Listen address, overrides the config file
//	-log-level string  Log level: debug, info, warn, error
//
// Examples:
//
//	# Serve with defaults on 127.0.0.1:12345
//	bp-server
//
//	# Serve with a config file offering two simulated toys
//	bp-server -config bp-server.example.yaml
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", "", "Server configuration file (.yaml, .yml or .toml)")
	listen := flag.String("listen", "", "Listen address, overrides the config file")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg := defaultServerConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadServerConfig(*configPath); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	if *logLevel != "" {
		level, err := parseLogLevel(*logLevel)
		if err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
		cfg.LogLevel = level
	}

	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("server started", "name", cfg.Name, "maxPingTime", cfg.MaxPingTime)
	if err := a.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	a.logger.Info("server stopped")
}
