package protocol

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/buttplug-go/buttplug/pkg/device"
	"github.com/buttplug-go/buttplug/pkg/message"
)

// LovenseName is the protocol name used in rejection errors.
const LovenseName = "LovenseProtocol"

// lovenseMaxLevel is the vibration and rotation range when the configuration
// gives no step count.
const lovenseMaxLevel = 20

// stopWriteTimeout bounds each best-effort write issued by a stop.
const stopWriteTimeout = time.Second

// Lovense drives Lovense toys. Commands are ASCII strings terminated by ';'
// written to the tx endpoint; replies arrive as notifications on rx.
type Lovense struct {
	Base

	notifications <-chan device.Notification
	initTimeout   time.Duration

	mu        sync.Mutex
	identity  LovenseIdentity
	clockwise bool
}

// LovenseIdentity is the parsed reply to the DeviceType query, e.g.
// "C:11:0082059AD3BD;".
type LovenseIdentity struct {
	Type     string
	Firmware string
	Address  string
}

// NewLovense creates a Lovense protocol instance. It satisfies Factory.
func NewLovense(cfg Config) Protocol {
	timeout := cfg.InitTimeout
	if timeout <= 0 {
		timeout = DefaultInitTimeout
	}
	l := &Lovense{
		notifications: cfg.Notifications,
		initTimeout:   timeout,
		clockwise:     true,
	}
	l.Configure(LovenseName, cfg)
	return l
}

// Identity returns what the device reported during Initialize.
func (l *Lovense) Identity() LovenseIdentity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.identity
}

// Initialize queries the device type and waits for the rx reply.
func (l *Lovense) Initialize(ctx context.Context, dev device.Impl) error {
	if err := l.Begin(); err != nil {
		return err
	}
	id, err := l.queryDeviceType(ctx, dev)
	if err != nil {
		err = message.NewDeviceError("%s initialization of %s failed: %v", l.Name(), dev.Name(), err)
	} else {
		l.mu.Lock()
		l.identity = id
		l.mu.Unlock()
		l.debugLog("device identified", "type", id.Type, "firmware", id.Firmware)
	}
	l.Finish(err)
	return err
}

func (l *Lovense) queryDeviceType(ctx context.Context, dev device.Impl) (LovenseIdentity, error) {
	notes := l.notifications
	if notes == nil {
		notes = dev.Notifications()
	}

	// Discard anything pushed before the query so the reply is unambiguous.
drain:
	for {
		select {
		case _, ok := <-notes:
			if !ok {
				return LovenseIdentity{}, device.ErrDisconnected
			}
		default:
			break drain
		}
	}

	if err := l.write(ctx, dev, 0, "DeviceType;"); err != nil {
		return LovenseIdentity{}, err
	}

	timer := time.NewTimer(l.initTimeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return LovenseIdentity{}, ctx.Err()
		case <-timer.C:
			return LovenseIdentity{}, fmt.Errorf("no DeviceType reply within %s", l.initTimeout)
		case n, ok := <-notes:
			if !ok {
				return LovenseIdentity{}, device.ErrDisconnected
			}
			if n.Endpoint != message.EndpointRx {
				continue
			}
			return parseLovenseIdentity(string(n.Data))
		}
	}
}

func parseLovenseIdentity(reply string) (LovenseIdentity, error) {
	reply = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(reply), ";"))
	parts := strings.Split(reply, ":")
	if parts[0] == "" {
		return LovenseIdentity{}, fmt.Errorf("malformed DeviceType reply %q", reply)
	}
	id := LovenseIdentity{Type: parts[0]}
	if len(parts) > 1 {
		id.Firmware = parts[1]
	}
	if len(parts) > 2 {
		id.Address = parts[2]
	}
	return id, nil
}

// ParseMessage handles one device command.
func (l *Lovense) ParseMessage(ctx context.Context, dev device.Impl, cmd message.DeviceCommand) (message.Message, error) {
	if stop, ok := cmd.(*message.StopDeviceCmd); ok {
		return l.stop(ctx, dev, stop), nil
	}

	switch cmd.(type) {
	case *message.VibrateCmd, *message.SingleMotorVibrateCmd, *message.RotateCmd,
		*message.LovenseCmd, *message.RawWriteCmd, *message.RawReadCmd:
	default:
		return nil, l.Reject(cmd)
	}

	if err := l.Admit(cmd); err != nil {
		return nil, err
	}

	var err error
	switch c := cmd.(type) {
	case *message.VibrateCmd:
		err = l.vibrate(ctx, dev, c)
	case *message.SingleMotorVibrateCmd:
		err = l.write(ctx, dev, c.DeviceIndex, fmt.Sprintf("Vibrate:%d;", l.level(message.KindVibrateCmd, 0, c.Speed)))
	case *message.RotateCmd:
		err = l.rotate(ctx, dev, c)
	case *message.LovenseCmd:
		err = l.write(ctx, dev, c.DeviceIndex, c.Command)
	case *message.RawWriteCmd:
		if werr := dev.WriteValue(ctx, c); werr != nil {
			err = message.NewDeviceError("%s raw write to %s failed: %v", l.Name(), c.Endpoint, werr)
		}
	case *message.RawReadCmd:
		return l.rawRead(ctx, dev, c)
	}
	if err != nil {
		return nil, err
	}
	return message.NewOk(cmd.ID()), nil
}

// stop zeroes every actuator the device advertises. Failures are logged and
// never reported: stop always answers Ok.
func (l *Lovense) stop(ctx context.Context, dev device.Impl, cmd *message.StopDeviceCmd) message.Message {
	cmds := []string{"Vibrate:0;"}
	if _, ok := l.Attributes(message.KindRotateCmd); ok {
		cmds = append(cmds, "Rotate:0;")
	}

	base := context.WithoutCancel(ctx)
	for _, s := range cmds {
		wctx, cancel := context.WithTimeout(base, stopWriteTimeout)
		if err := l.write(wctx, dev, cmd.DeviceIndex, s); err != nil {
			l.warnLog("stop write failed", "command", s, "error", err)
		}
		cancel()
	}
	return message.NewOk(cmd.ID())
}

func (l *Lovense) vibrate(ctx context.Context, dev device.Impl, cmd *message.VibrateCmd) error {
	attrs, _ := l.Attributes(message.KindVibrateCmd)
	motors := attrs.FeatureCountOr(defaultFeatureCount)

	levels := make([]int, len(cmd.Speeds))
	same := true
	for i, s := range cmd.Speeds {
		levels[i] = l.level(message.KindVibrateCmd, s.Index, s.Speed)
		if levels[i] != levels[0] {
			same = false
		}
	}

	if motors == 1 || (same && uint32(len(cmd.Speeds)) == motors) {
		return l.write(ctx, dev, cmd.DeviceIndex, fmt.Sprintf("Vibrate:%d;", levels[0]))
	}
	for i, s := range cmd.Speeds {
		if err := l.write(ctx, dev, cmd.DeviceIndex, fmt.Sprintf("Vibrate%d:%d;", s.Index+1, levels[i])); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lovense) rotate(ctx context.Context, dev device.Impl, cmd *message.RotateCmd) error {
	for _, r := range cmd.Rotations {
		l.mu.Lock()
		change := r.Clockwise != l.clockwise
		l.mu.Unlock()
		if change {
			if err := l.write(ctx, dev, cmd.DeviceIndex, "RotateChange;"); err != nil {
				return err
			}
			l.mu.Lock()
			l.clockwise = r.Clockwise
			l.mu.Unlock()
		}
		if err := l.write(ctx, dev, cmd.DeviceIndex, fmt.Sprintf("Rotate:%d;", l.level(message.KindRotateCmd, r.Index, r.Speed))); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lovense) rawRead(ctx context.Context, dev device.Impl, cmd *message.RawReadCmd) (message.Message, error) {
	reading, err := dev.ReadValue(ctx, cmd)
	if err != nil {
		return nil, message.NewDeviceError("%s raw read from %s failed: %v", l.Name(), cmd.Endpoint, err)
	}
	if reading == nil {
		return nil, message.NewDeviceError("%s raw read from %s returned no data", l.Name(), cmd.Endpoint)
	}
	out := *reading
	out.MessageID = cmd.ID()
	out.DeviceIndex = cmd.DeviceIndex
	return &out, nil
}

// level scales a normalized speed to the device's integer range for the
// given feature.
func (l *Lovense) level(kind message.Kind, index uint32, speed float64) int {
	maxLevel := uint32(lovenseMaxLevel)
	if attrs, ok := l.Attributes(kind); ok && int(index) < len(attrs.StepCount) && attrs.StepCount[index] > 0 {
		maxLevel = attrs.StepCount[index]
	}
	return int(math.Round(speed * float64(maxLevel)))
}

func (l *Lovense) write(ctx context.Context, dev device.Impl, index uint32, command string) error {
	cmd := message.NewRawWriteCmd(index, message.EndpointTx, []byte(command), false)
	if err := dev.WriteValue(ctx, cmd); err != nil {
		return message.NewDeviceError("%s write %q failed: %v", l.Name(), command, err)
	}
	return nil
}

var _ Protocol = (*Lovense)(nil)
