package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/buttplug-go/buttplug/pkg/device"
	"github.com/buttplug-go/buttplug/pkg/server"
)

// fileConfig is the on-disk layout shared by the YAML and TOML encodings.
// Durations are strings in time.ParseDuration syntax.
type fileConfig struct {
	Name         string            `yaml:"name" toml:"name"`
	Listen       string            `yaml:"listen" toml:"listen"`
	Path         string            `yaml:"path" toml:"path"`
	MaxPingTime  string            `yaml:"max_ping_time" toml:"max_ping_time"`
	CaptureLog   string            `yaml:"capture_log" toml:"capture_log"`
	CaptureToLog bool              `yaml:"capture_to_log" toml:"capture_to_log"`
	Metrics      string            `yaml:"metrics_listen" toml:"metrics_listen"`
	DeviceConfig string            `yaml:"device_config" toml:"device_config"`
	LogLevel     string            `yaml:"log_level" toml:"log_level"`
	InitTimeout  string            `yaml:"init_timeout" toml:"init_timeout"`
	Simulated    []simulatedConfig `yaml:"simulated" toml:"simulated"`
}

// simulatedConfig describes one in-memory Lovense device offered to scans.
type simulatedConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Motors  int    `yaml:"motors" toml:"motors"`
	Battery int    `yaml:"battery" toml:"battery"`
}

// serverConfig is the resolved bp-server configuration.
type serverConfig struct {
	Name             string
	ListenAddr       string
	Path             string
	MaxPingTime      time.Duration
	CaptureLogPath   string
	CaptureToLog     bool
	MetricsAddr      string
	DeviceConfigPath string
	LogLevel         slog.Level
	InitTimeout      time.Duration
	Simulated        []simulatedConfig
}

func defaultServerConfig() serverConfig {
	return serverConfig{
		Name:        server.DefaultName,
		ListenAddr:  "127.0.0.1:12345",
		Path:        "/",
		LogLevel:    slog.LevelInfo,
		InitTimeout: 10 * time.Second,
	}
}

// loadServerConfig reads path, choosing YAML or TOML by extension, and
// overlays the values it sets onto the defaults.
func loadServerConfig(path string) (serverConfig, error) {
	cfg := defaultServerConfig()

	format, err := device.FormatFromPath(path)
	if err != nil {
		return serverConfig{}, fmt.Errorf("load server config: %w", err)
	}

	var raw fileConfig
	switch format {
	case device.FormatTOML:
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return serverConfig{}, fmt.Errorf("load server config: %w", err)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return serverConfig{}, fmt.Errorf("load server config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return serverConfig{}, fmt.Errorf("load server config: %w", err)
		}
	}

	if err := cfg.apply(raw); err != nil {
		return serverConfig{}, err
	}
	return cfg, nil
}

func (c *serverConfig) apply(raw fileConfig) error {
	if v := strings.TrimSpace(raw.Name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(raw.Listen); v != "" {
		c.ListenAddr = v
	}
	if v := strings.TrimSpace(raw.Path); v != "" {
		c.Path = v
	}
	if v := strings.TrimSpace(raw.MaxPingTime); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse max_ping_time: %w", err)
		}
		c.MaxPingTime = d
	}
	if v := strings.TrimSpace(raw.InitTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse init_timeout: %w", err)
		}
		c.InitTimeout = d
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return err
		}
		c.LogLevel = level
	}
	c.CaptureLogPath = strings.TrimSpace(raw.CaptureLog)
	c.CaptureToLog = raw.CaptureToLog
	c.MetricsAddr = strings.TrimSpace(raw.Metrics)
	c.DeviceConfigPath = strings.TrimSpace(raw.DeviceConfig)
	c.Simulated = append(c.Simulated, raw.Simulated...)
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("parse log_level: %w", err)
	}
	return level, nil
}

// ValidateServerConfig checks a resolved configuration.
func ValidateServerConfig(cfg serverConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return errors.New("server config missing name")
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return errors.New("server config missing listen address")
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		return fmt.Errorf("path must start with /, got %q", cfg.Path)
	}
	if cfg.MaxPingTime < 0 || cfg.MaxPingTime.Milliseconds() > math.MaxUint32 {
		return fmt.Errorf("max_ping_time out of range: %s", cfg.MaxPingTime)
	}
	if cfg.InitTimeout <= 0 {
		return fmt.Errorf("init_timeout must be positive, got %s", cfg.InitTimeout)
	}
	if cfg.MetricsAddr != "" && cfg.MetricsAddr == cfg.ListenAddr {
		return errors.New("metrics_listen must differ from listen")
	}
	for i, sim := range cfg.Simulated {
		if err := ValidateSimulated(sim); err != nil {
			return fmt.Errorf("simulated[%d] invalid: %w", i, err)
		}
	}
	return nil
}

// ValidateSimulated checks one simulated device entry.
func ValidateSimulated(sim simulatedConfig) error {
	if strings.TrimSpace(sim.Name) == "" {
		return errors.New("name is required")
	}
	if sim.Motors < 0 || sim.Motors > 2 {
		return fmt.Errorf("motors must be 0-2, got %d", sim.Motors)
	}
	if sim.Battery < 0 || sim.Battery > 100 {
		return fmt.Errorf("battery must be 0-100, got %d", sim.Battery)
	}
	return nil
}
