package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buttplug-go/buttplug/pkg/message"
)

func TestLoadFromInternal(t *testing.T) {
	cm, err := LoadFromInternal()
	require.NoError(t, err)
	assert.Equal(t, []string{"lovense"}, cm.Protocols())

	def, ok := cm.Protocol("lovense")
	require.True(t, ok)
	require.NotNil(t, def.BTLE)
	assert.Equal(t, "Lovense Device", def.Defaults.Name)

	svc, char, ok := def.BTLE.Characteristic(message.EndpointTx)
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, svc)
	assert.Equal(t, def.BTLE.Services[svc][message.EndpointTx], char)
}

func TestFindProtocolBLE(t *testing.T) {
	cm, err := LoadFromInternal()
	require.NoError(t, err)

	tests := []struct {
		device     string
		wantName   string
		wantRotate bool
		wantMotors uint32
	}{
		{"LVS-P36", "Lovense Edge", false, 2},
		{"LVS-A011", "Lovense Nora", true, 1},
		{"LVS-S001", "Lovense Lush", false, 1},
		{"LVS-Unknown", "Lovense Device", false, 1},
		{"LOVE-Test", "Lovense Device", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.device, func(t *testing.T) {
			sel, ok := cm.FindProtocol(NewBluetoothLESpecifierFromDevice(tt.device))
			require.True(t, ok)
			assert.Equal(t, "lovense", sel.Protocol)
			assert.Equal(t, tt.wantName, sel.Name)
			assert.Equal(t, tt.wantRotate, sel.Messages.Supports(message.KindRotateCmd))

			vib, ok := sel.Messages.Attributes(message.KindVibrateCmd)
			require.True(t, ok)
			assert.Equal(t, tt.wantMotors, vib.FeatureCountOr(0))

			// Defaults are merged into every model.
			assert.True(t, sel.Messages.Supports(message.KindStopDeviceCmd))
			raw, ok := sel.Messages.Attributes(message.KindRawWriteCmd)
			require.True(t, ok)
			assert.True(t, raw.HasEndpoint(message.EndpointTx))
		})
	}
}

func TestFindProtocolNoMatch(t *testing.T) {
	cm, err := LoadFromInternal()
	require.NoError(t, err)

	_, ok := cm.FindProtocol(NewBluetoothLESpecifierFromDevice("Fleshlight"))
	assert.False(t, ok)
	_, ok = cm.FindProtocol(NewSerialSpecifierFromPort("/dev/ttyUSB0"))
	assert.False(t, ok)
}

func TestFindProtocolReturnsCopy(t *testing.T) {
	cm, err := LoadFromInternal()
	require.NoError(t, err)

	sel, ok := cm.FindProtocol(NewBluetoothLESpecifierFromDevice("LVS-P36"))
	require.True(t, ok)
	delete(sel.Messages, "VibrateCmd")

	again, _ := cm.FindProtocol(NewBluetoothLESpecifierFromDevice("LVS-P36"))
	assert.True(t, again.Messages.Supports(message.KindVibrateCmd))
}

const tomlConfig = `
[protocols.vorze.serial]
ports = ["COM7", "/dev/ttyACM0"]
baud_rate = 19200

[protocols.vorze.defaults]
name = "Vorze A10 Cyclone"

[protocols.vorze.defaults.messages.VorzeA10CycloneCmd]

[protocols.vorze.defaults.messages.StopDeviceCmd]

[protocols.vorze.defaults.messages.RotateCmd]
feature_count = 1
step_count = [99]
`

func TestParseTOMLSerial(t *testing.T) {
	cm := NewConfigurationManager()
	require.NoError(t, cm.Parse([]byte(tomlConfig), FormatTOML))

	sel, ok := cm.FindProtocol(NewSerialSpecifierFromPort("com7"))
	require.True(t, ok)
	assert.Equal(t, "vorze", sel.Protocol)
	assert.Equal(t, "Vorze A10 Cyclone", sel.Name)
	assert.Equal(t, 19200, sel.Definition.Serial.BaudRate)
	assert.True(t, sel.Messages.Supports(message.KindVorzeA10CycloneCmd))

	rot, _ := sel.Messages.Attributes(message.KindRotateCmd)
	assert.Equal(t, []uint32{99}, rot.StepCount)
}

func TestLoadMergesOverInternal(t *testing.T) {
	cm, err := LoadFromInternal()
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	user := `
protocols:
  lovense:
    btle:
      names: ["LVS-*"]
    defaults:
      name: "Custom Lovense"
      messages:
        VibrateCmd:
          feature_count: 3
          step_count: [10, 10, 10]
        StopDeviceCmd: {}
`
	require.NoError(t, os.WriteFile(path, []byte(user), 0o644))
	require.NoError(t, cm.Load(path))

	sel, ok := cm.FindProtocol(NewBluetoothLESpecifierFromDevice("LVS-P36"))
	require.True(t, ok)
	assert.Equal(t, "Custom Lovense", sel.Name, "user file replaces the built-in protocol")
	vib, _ := sel.Messages.Attributes(message.KindVibrateCmd)
	assert.Equal(t, uint32(3), vib.FeatureCountOr(0))

	_, ok = cm.FindProtocol(NewBluetoothLESpecifierFromDevice("LOVE-1"))
	assert.False(t, ok)
}

func TestLoadUnknownExtension(t *testing.T) {
	cm := NewConfigurationManager()
	err := cm.Load("devices.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ``},
		{"no transport", "protocols:\n  x:\n    defaults:\n      name: X\n"},
		{"no names", "protocols:\n  x:\n    btle:\n      names: []\n"},
		{"unknown message", "protocols:\n  x:\n    btle:\n      names: [X]\n    defaults:\n      messages:\n        BogusCmd: {}\n"},
		{"not a device command", "protocols:\n  x:\n    btle:\n      names: [X]\n    defaults:\n      messages:\n        Ping: {}\n"},
		{"bad endpoint", "protocols:\n  x:\n    btle:\n      names: [X]\n    defaults:\n      messages:\n        RawWriteCmd:\n          endpoints: [nope]\n"},
		{"bad service uuid", "protocols:\n  x:\n    btle:\n      names: [X]\n      services:\n        not-a-uuid:\n          tx: 6e400002-b5a3-f393-e0a9-e50e24dcca9e\n"},
		{"step count mismatch", "protocols:\n  x:\n    btle:\n      names: [X]\n    defaults:\n      messages:\n        VibrateCmd:\n          feature_count: 2\n          step_count: [20]\n"},
		{"configuration without identifier", "protocols:\n  x:\n    btle:\n      names: [X]\n    configurations:\n      - name: Y\n"},
		{"unknown key", "protocols:\n  x:\n    btle:\n      names: [X]\n      colour: red\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := NewConfigurationManager()
			assert.Error(t, cm.Parse([]byte(tt.yaml), FormatYAML))
			assert.Empty(t, cm.Protocols(), "nothing merged on error")
		})
	}
}

func TestParseTOMLUnknownKey(t *testing.T) {
	cm := NewConfigurationManager()
	err := cm.Parse([]byte("[protocols.x.serial]\nports = [\"COM1\"]\nspeed = 9600\n"), FormatTOML)
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/etc/buttplug/devices.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFromPath("devices.toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)
	assert.Equal(t, "toml", f.String())
}
