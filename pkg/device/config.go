package device

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/buttplug-go/buttplug/pkg/message"
)

//go:embed default_devices.yaml
var defaultDevices []byte

// Configuration errors.
var (
	ErrUnknownFormat = errors.New("unknown configuration format")
	ErrNoProtocols   = errors.New("configuration defines no protocols")
)

// Format is the encoding of a configuration file.
type Format uint8

const (
	FormatYAML Format = iota
	FormatTOML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
	}
}

// fileConfig is the on-disk layout shared by the YAML and TOML encodings.
type fileConfig struct {
	Protocols map[string]protocolConfig `yaml:"protocols" toml:"protocols"`
}

type protocolConfig struct {
	BTLE           *btleConfig    `yaml:"btle" toml:"btle"`
	Serial         *serialConfig  `yaml:"serial" toml:"serial"`
	Defaults       deviceConfig   `yaml:"defaults" toml:"defaults"`
	Configurations []deviceConfig `yaml:"configurations" toml:"configurations"`
}

type btleConfig struct {
	Names    []string                     `yaml:"names" toml:"names"`
	Services map[string]map[string]string `yaml:"services" toml:"services"`
}

type serialConfig struct {
	Ports    []string `yaml:"ports" toml:"ports"`
	BaudRate int      `yaml:"baud_rate" toml:"baud_rate"`
}

type deviceConfig struct {
	Identifier []string                    `yaml:"identifier" toml:"identifier"`
	Name       string                      `yaml:"name" toml:"name"`
	Messages   map[string]attributesConfig `yaml:"messages" toml:"messages"`
}

type attributesConfig struct {
	FeatureCount *uint32    `yaml:"feature_count" toml:"feature_count"`
	StepCount    []uint32   `yaml:"step_count" toml:"step_count"`
	Endpoints    []string   `yaml:"endpoints" toml:"endpoints"`
	MaxDuration  []uint32   `yaml:"max_duration" toml:"max_duration"`
	Patterns     [][]string `yaml:"patterns" toml:"patterns"`
	ActuatorType []string   `yaml:"actuator_type" toml:"actuator_type"`
}

// DeviceDefinition is one named device model within a protocol.
type DeviceDefinition struct {
	// Identifiers are BLE name patterns selecting this model. Empty for the
	// protocol defaults.
	Identifiers []string
	Name        string
	Messages    message.DeviceMessages
}

// ProtocolDefinition is a compiled protocol entry.
type ProtocolDefinition struct {
	Name           string
	BTLE           *BluetoothLESpecifier
	Serial         *SerialSpecifier
	Defaults       DeviceDefinition
	Configurations []DeviceDefinition
}

// ProtocolSelection is the result of a protocol lookup.
type ProtocolSelection struct {
	// Protocol is the protocol's configuration name, used to pick the
	// implementation from the protocol registry.
	Protocol string

	// Name is the user-facing device name.
	Name string

	// Messages are the capability attributes advertised for the device.
	Messages message.DeviceMessages

	// Definition is the full protocol entry, e.g. for endpoint mapping.
	Definition ProtocolDefinition
}

// ConfigurationManager holds the device configuration database.
type ConfigurationManager struct {
	mu        sync.RWMutex
	protocols map[string]ProtocolDefinition
}

// NewConfigurationManager creates an empty database.
func NewConfigurationManager() *ConfigurationManager {
	return &ConfigurationManager{protocols: make(map[string]ProtocolDefinition)}
}

// LoadFromInternal creates a database holding the built-in configuration.
func LoadFromInternal() (*ConfigurationManager, error) {
	cm := NewConfigurationManager()
	if err := cm.Parse(defaultDevices, FormatYAML); err != nil {
		return nil, fmt.Errorf("built-in device configuration: %w", err)
	}
	return cm, nil
}

// Load merges a YAML or TOML file into the database. The format follows
// the file extension.
func (cm *ConfigurationManager) Load(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read device configuration: %w", err)
	}
	if err := cm.Parse(data, format); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// Parse decodes data and merges its protocols into the database. Nothing is
// merged when any entry is invalid.
func (cm *ConfigurationManager) Parse(data []byte, format Format) error {
	var raw fileConfig
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &raw)
		if err != nil {
			return fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("decode toml: unknown key %s", undecoded[0])
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}

	if len(raw.Protocols) == 0 {
		return ErrNoProtocols
	}

	compiled := make(map[string]ProtocolDefinition, len(raw.Protocols))
	for name, pc := range raw.Protocols {
		def, err := compileProtocol(name, pc)
		if err != nil {
			return fmt.Errorf("protocol %s: %w", name, err)
		}
		compiled[name] = def
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	for name, def := range compiled {
		cm.protocols[name] = def
	}
	return nil
}

// Protocols returns the configured protocol names in sorted order.
func (cm *ConfigurationManager) Protocols() []string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	names := make([]string, 0, len(cm.protocols))
	for name := range cm.protocols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Protocol returns the definition of the named protocol.
func (cm *ConfigurationManager) Protocol(name string) (ProtocolDefinition, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	def, ok := cm.protocols[name]
	return def, ok
}

// FindProtocol resolves a discovered device's specifier. Protocols are
// tried in name order; within a BLE protocol the first configuration whose
// identifier matches the device name wins, otherwise the defaults apply.
func (cm *ConfigurationManager) FindProtocol(spec Specifier) (ProtocolSelection, bool) {
	for _, name := range cm.Protocols() {
		def, ok := cm.Protocol(name)
		if !ok {
			continue
		}

		switch s := spec.(type) {
		case *BluetoothLESpecifier:
			if def.BTLE == nil || !def.BTLE.Matches(s) {
				continue
			}
			model := def.Defaults
			for _, c := range def.Configurations {
				if matchAny(c.Identifiers, s.Names) {
					model = c
					break
				}
			}
			return selection(def, model), true
		case *SerialSpecifier:
			if def.Serial == nil || !def.Serial.Matches(s) {
				continue
			}
			return selection(def, def.Defaults), true
		}
	}
	return ProtocolSelection{}, false
}

func selection(def ProtocolDefinition, model DeviceDefinition) ProtocolSelection {
	name := model.Name
	if name == "" {
		name = def.Defaults.Name
	}
	return ProtocolSelection{
		Protocol:   def.Name,
		Name:       name,
		Messages:   model.Messages.Clone(),
		Definition: def,
	}
}

func matchAny(patterns, names []string) bool {
	for _, n := range names {
		if MatchName(patterns, n) {
			return true
		}
	}
	return false
}

func compileProtocol(name string, pc protocolConfig) (ProtocolDefinition, error) {
	def := ProtocolDefinition{Name: name}
	if pc.BTLE == nil && pc.Serial == nil {
		return def, errors.New("no btle or serial section")
	}

	if pc.BTLE != nil {
		if len(pc.BTLE.Names) == 0 {
			return def, errors.New("btle: names required")
		}
		services, err := compileServices(pc.BTLE.Services)
		if err != nil {
			return def, fmt.Errorf("btle: %w", err)
		}
		def.BTLE = &BluetoothLESpecifier{Names: pc.BTLE.Names, Services: services}
	}
	if pc.Serial != nil {
		if len(pc.Serial.Ports) == 0 {
			return def, errors.New("serial: ports required")
		}
		def.Serial = &SerialSpecifier{Ports: pc.Serial.Ports, BaudRate: pc.Serial.BaudRate}
	}

	defaults, err := compileDevice(pc.Defaults, nil)
	if err != nil {
		return def, fmt.Errorf("defaults: %w", err)
	}
	def.Defaults = defaults

	for i, c := range pc.Configurations {
		if len(c.Identifier) == 0 {
			return def, fmt.Errorf("configurations[%d]: identifier required", i)
		}
		model, err := compileDevice(c, defaults.Messages)
		if err != nil {
			return def, fmt.Errorf("configurations[%d]: %w", i, err)
		}
		def.Configurations = append(def.Configurations, model)
	}
	return def, nil
}

func compileServices(raw map[string]map[string]string) (map[uuid.UUID]map[message.Endpoint]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[uuid.UUID]map[message.Endpoint]uuid.UUID, len(raw))
	for svc, chars := range raw {
		svcID, err := uuid.Parse(svc)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", svc, err)
		}
		m := make(map[message.Endpoint]uuid.UUID, len(chars))
		for epName, char := range chars {
			ep, err := message.ParseEndpoint(epName)
			if err != nil {
				return nil, fmt.Errorf("service %s: %w", svc, err)
			}
			charID, err := uuid.Parse(char)
			if err != nil {
				return nil, fmt.Errorf("service %s endpoint %s: %w", svc, epName, err)
			}
			m[ep] = charID
		}
		out[svcID] = m
	}
	return out, nil
}

// compileDevice converts a device entry. Messages are merged over base.
func compileDevice(dc deviceConfig, base message.DeviceMessages) (DeviceDefinition, error) {
	out := DeviceDefinition{
		Identifiers: dc.Identifier,
		Name:        strings.TrimSpace(dc.Name),
		Messages:    base.Clone(),
	}
	if out.Messages == nil {
		out.Messages = make(message.DeviceMessages, len(dc.Messages))
	}

	for kindName, ac := range dc.Messages {
		kind, ok := message.ParseKind(kindName)
		if !ok {
			return out, fmt.Errorf("unknown message type %q", kindName)
		}
		if !kind.IsDeviceCommand() {
			return out, fmt.Errorf("%s is not a device command", kindName)
		}
		attrs, err := compileAttributes(ac)
		if err != nil {
			return out, fmt.Errorf("%s: %w", kindName, err)
		}
		out.Messages[kindName] = attrs
	}
	return out, nil
}

func compileAttributes(ac attributesConfig) (message.MessageAttributes, error) {
	attrs := message.MessageAttributes{
		FeatureCount: ac.FeatureCount,
		StepCount:    ac.StepCount,
		MaxDuration:  ac.MaxDuration,
		Patterns:     ac.Patterns,
		ActuatorType: ac.ActuatorType,
	}
	if ac.FeatureCount != nil && len(ac.StepCount) > 0 && int(*ac.FeatureCount) != len(ac.StepCount) {
		return attrs, fmt.Errorf("step_count has %d entries, feature_count is %d", len(ac.StepCount), *ac.FeatureCount)
	}
	for _, name := range ac.Endpoints {
		ep, err := message.ParseEndpoint(name)
		if err != nil {
			return attrs, err
		}
		attrs.Endpoints = append(attrs.Endpoints, ep)
	}
	return attrs, nil
}
