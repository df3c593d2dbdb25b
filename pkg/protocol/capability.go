package protocol

import (
	"math"

	"github.com/buttplug-go/buttplug/pkg/message"
)

// defaultFeatureCount applies when a message advertises no FeatureCount.
const defaultFeatureCount = 1

// CheckCapability validates cmd against the attributes advertised for the
// device named deviceName. It returns a Device error when the command kind
// is not advertised, a feature index is out of range, a normalized value is
// outside [0, 1], or a raw command targets an endpoint not advertised.
//
// StopDeviceCmd is always permitted.
func CheckCapability(deviceName string, attrs message.DeviceMessages, cmd message.DeviceCommand) error {
	kind := cmd.Kind()
	if kind == message.KindStopDeviceCmd {
		return nil
	}

	a, ok := attrs.Attributes(kind)
	if !ok {
		return message.NewDeviceError("%s does not support %s", deviceName, kind)
	}
	features := a.FeatureCountOr(defaultFeatureCount)

	switch c := cmd.(type) {
	case *message.VibrateCmd:
		if len(c.Speeds) == 0 {
			return message.NewDeviceError("VibrateCmd requires at least one speed")
		}
		seen := make(map[uint32]bool, len(c.Speeds))
		for _, s := range c.Speeds {
			if err := checkFeature(kind, s.Index, features, seen); err != nil {
				return err
			}
			if err := checkUnit(kind, "speed", s.Speed); err != nil {
				return err
			}
		}
	case *message.RotateCmd:
		if len(c.Rotations) == 0 {
			return message.NewDeviceError("RotateCmd requires at least one rotation")
		}
		seen := make(map[uint32]bool, len(c.Rotations))
		for _, r := range c.Rotations {
			if err := checkFeature(kind, r.Index, features, seen); err != nil {
				return err
			}
			if err := checkUnit(kind, "speed", r.Speed); err != nil {
				return err
			}
		}
	case *message.LinearCmd:
		if len(c.Vectors) == 0 {
			return message.NewDeviceError("LinearCmd requires at least one vector")
		}
		seen := make(map[uint32]bool, len(c.Vectors))
		for _, v := range c.Vectors {
			if err := checkFeature(kind, v.Index, features, seen); err != nil {
				return err
			}
			if err := checkUnit(kind, "position", v.Position); err != nil {
				return err
			}
		}
	case *message.SingleMotorVibrateCmd:
		return checkUnit(kind, "speed", c.Speed)
	case *message.FleshlightLaunchFW12Cmd:
		if c.Position > 99 || c.Speed > 99 {
			return message.NewDeviceError("FleshlightLaunchFW12Cmd position and speed must be 0-99")
		}
	case *message.VorzeA10CycloneCmd:
		if c.Speed > 99 {
			return message.NewDeviceError("VorzeA10CycloneCmd speed must be 0-99, got %d", c.Speed)
		}
	case *message.RawWriteCmd:
		if !a.HasEndpoint(c.Endpoint) {
			return message.NewDeviceError("%s does not allow raw writes to endpoint %s", deviceName, c.Endpoint)
		}
	case *message.RawReadCmd:
		if !a.HasEndpoint(c.Endpoint) {
			return message.NewDeviceError("%s does not allow raw reads from endpoint %s", deviceName, c.Endpoint)
		}
	}
	return nil
}

func checkFeature(kind message.Kind, index, count uint32, seen map[uint32]bool) error {
	if index >= count {
		return message.NewDeviceError("%s feature index %d out of range (device has %d)", kind, index, count)
	}
	if seen[index] {
		return message.NewDeviceError("%s feature index %d given more than once", kind, index)
	}
	seen[index] = true
	return nil
}

func checkUnit(kind message.Kind, field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return message.NewDeviceError("%s %s %v out of range [0, 1]", kind, field, v)
	}
	return nil
}
