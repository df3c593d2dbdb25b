package interactive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/buttplug-go/buttplug/pkg/message"
	"github.com/buttplug-go/buttplug/pkg/version"
)

// ErrUsage wraps malformed console commands.
var ErrUsage = errors.New("usage")

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

// parseMessages turns one console line into messages. Lines starting with
// '{' or '[' are protocol JSON and keep their ids; shortcut commands get
// ids from nextID.
func parseMessages(line string, nextID func() uint32) ([]message.Message, error) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "["):
		return message.DecodeEnvelope([]byte(line))
	case strings.HasPrefix(line, "{"):
		m, err := message.Unmarshal([]byte(line))
		if err != nil {
			return nil, err
		}
		return []message.Message{m}, nil
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	m, err := parseShortcut(strings.ToLower(fields[0]), fields[1:])
	if err != nil {
		return nil, err
	}
	m.SetID(nextID())
	return []message.Message{m}, nil
}

func parseShortcut(cmd string, args []string) (message.Message, error) {
	switch cmd {
	case "hello":
		name := "bp-console"
		if len(args) > 0 {
			name = strings.Join(args, " ")
		}
		return message.NewRequestServerInfo(name, version.MessageVersion), nil

	case "ping":
		return message.NewPing(), nil

	case "test":
		return message.NewTest(strings.Join(args, " ")), nil

	case "scan":
		return message.NewStartScanning(), nil

	case "stopscan":
		return message.NewStopScanning(), nil

	case "list", "ls":
		return message.NewRequestDeviceList(), nil

	case "stopall":
		return message.NewStopAllDevices(), nil

	case "log":
		if len(args) != 1 {
			return nil, usagef("log <off|fatal|error|warn|info|debug|trace>")
		}
		level, err := parseLogLevel(args[0])
		if err != nil {
			return nil, err
		}
		return message.NewRequestLog(level), nil

	case "stop":
		idx, err := deviceIndexArg(args, "stop <device>")
		if err != nil {
			return nil, err
		}
		return message.NewStopDeviceCmd(idx), nil

	case "vibrate", "vib":
		if len(args) < 2 {
			return nil, usagef("vibrate <device> <speed>[,<speed>...]")
		}
		idx, err := deviceIndexArg(args, "vibrate <device> <speed>[,<speed>...]")
		if err != nil {
			return nil, err
		}
		speeds, err := parseSpeeds(args[1])
		if err != nil {
			return nil, err
		}
		subs := make([]message.VibrateSubcommand, len(speeds))
		for i, s := range speeds {
			subs[i] = message.VibrateSubcommand{Index: uint32(i), Speed: s}
		}
		return message.NewVibrateCmd(idx, subs), nil

	case "rotate", "rot":
		if len(args) < 2 || len(args) > 3 {
			return nil, usagef("rotate <device> <speed> [cw|ccw]")
		}
		idx, err := deviceIndexArg(args, "rotate <device> <speed> [cw|ccw]")
		if err != nil {
			return nil, err
		}
		speeds, err := parseSpeeds(args[1])
		if err != nil || len(speeds) != 1 {
			return nil, usagef("rotate <device> <speed> [cw|ccw]")
		}
		clockwise := true
		if len(args) == 3 {
			switch strings.ToLower(args[2]) {
			case "cw":
			case "ccw":
				clockwise = false
			default:
				return nil, usagef("direction must be cw or ccw, got %q", args[2])
			}
		}
		return message.NewRotateCmd(idx, []message.RotationSubcommand{{Index: 0, Speed: speeds[0], Clockwise: clockwise}}), nil

	case "lovense":
		if len(args) != 2 {
			return nil, usagef("lovense <device> <command;>")
		}
		idx, err := deviceIndexArg(args, "lovense <device> <command;>")
		if err != nil {
			return nil, err
		}
		return message.NewLovenseCmd(idx, args[1]), nil

	case "write":
		if len(args) < 3 {
			return nil, usagef("write <device> <endpoint> <text>")
		}
		idx, err := deviceIndexArg(args, "write <device> <endpoint> <text>")
		if err != nil {
			return nil, err
		}
		ep, err := message.ParseEndpoint(args[1])
		if err != nil {
			return nil, err
		}
		return message.NewRawWriteCmd(idx, ep, []byte(strings.Join(args[2:], " ")), false), nil

	case "read":
		if len(args) != 2 {
			return nil, usagef("read <device> <endpoint>")
		}
		idx, err := deviceIndexArg(args, "read <device> <endpoint>")
		if err != nil {
			return nil, err
		}
		ep, err := message.ParseEndpoint(args[1])
		if err != nil {
			return nil, err
		}
		return message.NewRawReadCmd(idx, ep, 0, false), nil

	default:
		return nil, fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}
}

func deviceIndexArg(args []string, usage string) (uint32, error) {
	if len(args) == 0 {
		return 0, usagef("%s", usage)
	}
	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0, usagef("device index must be a number, got %q", args[0])
	}
	return uint32(n), nil
}

// parseSpeeds parses a comma-separated list of speeds in [0, 1].
func parseSpeeds(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	speeds := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 || v > 1 {
			return nil, usagef("speed must be between 0 and 1, got %q", p)
		}
		speeds = append(speeds, v)
	}
	return speeds, nil
}

func parseLogLevel(s string) (message.LogLevel, error) {
	if n, err := strconv.ParseUint(s, 10, 8); err == nil && message.LogLevel(n).IsValid() {
		return message.LogLevel(n), nil
	}
	for l := message.LogLevelOff; l <= message.LogLevelTrace; l++ {
		if strings.EqualFold(l.String(), s) {
			return l, nil
		}
	}
	return 0, usagef("unknown log level %q", s)
}
