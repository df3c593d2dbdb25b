// Package interactive implements the bp-console read-eval-print loop.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/chzyer/readline"

	"github.com/buttplug-go/buttplug/pkg/message"
)

// Console turns typed lines into protocol messages and prints everything
// the server sends back.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	backend Backend
	lastID  atomic.Uint32
}

// NewConsole creates a console printing to out. Attach a backend before
// calling Execute.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Attach sets the backend messages are sent to.
func (c *Console) Attach(b Backend) {
	c.backend = b
}

// Print writes an inbound message as protocol JSON. It is safe for
// concurrent use and is meant as the backend's output function.
func (c *Console) Print(m message.Message) {
	c.printMessage("<-", m)
}

func (c *Console) printMessage(arrow string, m message.Message) {
	data, err := message.Marshal(m)
	if err != nil {
		c.printf("%s %s (unencodable: %v)\n", arrow, m.Kind(), err)
		return
	}
	c.printf("%s %s\n", arrow, data)
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) nextID() uint32 {
	return c.lastID.Add(1)
}

// Execute runs one console line. It returns true when the user asked to
// quit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "help", "?":
		c.printHelp()
		return false
	case "quit", "exit", "q":
		return true
	case "add":
		c.cmdAdd(fields[1:])
		return false
	case "devices":
		c.cmdDevices()
		return false
	}

	msgs, err := parseMessages(line, c.nextID)
	if err != nil {
		c.printf("Error: %v\n", err)
		return false
	}
	for _, m := range msgs {
		c.printMessage("->", m)
		if err := c.backend.Send(ctx, m); err != nil {
			c.printf("Error: %v\n", err)
		}
	}
	return false
}

func (c *Console) cmdAdd(args []string) {
	local, ok := c.backend.(*Local)
	if !ok {
		c.printf("Error: %v\n", ErrNotLocal)
		return
	}
	if len(args) != 1 {
		c.printf("Error: %v\n", usagef("add <ble-name>"))
		return
	}
	d := local.AddDevice(args[0])
	c.printf("Simulated %s at %s; it is reported on the next scan\n", d.Name(), d.Address())
}

func (c *Console) cmdDevices() {
	local, ok := c.backend.(*Local)
	if !ok {
		c.printf("Error: %v\n", ErrNotLocal)
		return
	}
	sims := local.Simulated()
	addrs := make([]string, 0, len(sims))
	for a := range sims {
		addrs = append(addrs, a)
	}
	sort.Strings(addrs)
	for _, a := range addrs {
		d := sims[a]
		level, cw := d.Rotation()
		dir := "cw"
		if !cw {
			dir = "ccw"
		}
		c.printf("  %s %-10s vibrate=%v rotate=%d/%s connected=%t\n",
			a, d.Name(), d.Vibration(), level, dir, d.Connected())
	}
}

// Run reads lines from rl until the user quits, ctx ends or input closes.
func (c *Console) Run(ctx context.Context, rl *readline.Instance) {
	c.printHelp()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return
		}
		if c.Execute(ctx, line) {
			return
		}
	}
}

func (c *Console) printHelp() {
	c.printf(`
Buttplug Console Commands:
  Session:
    hello [name]                 - RequestServerInfo (do this first)
    ping                         - Ping
    test <text>                  - Test echo
    log <level>                  - RequestLog (off..trace)

  Devices:
    scan / stopscan              - StartScanning / StopScanning
    list                         - RequestDeviceList
    vibrate <dev> <s>[,<s>...]   - VibrateCmd, speeds 0..1 per motor
    rotate <dev> <s> [cw|ccw]    - RotateCmd
    lovense <dev> <cmd;>         - LovenseCmd, e.g. Battery;
    write <dev> <endpoint> <txt> - RawWriteCmd
    read <dev> <endpoint>        - RawReadCmd
    stop <dev>                   - StopDeviceCmd
    stopall                      - StopAllDevices

  Simulation (local mode):
    add <ble-name>               - Offer another simulated device
    devices                      - Show simulated device state

  Any line starting with { or [ is sent as protocol JSON.
  quit                           - Exit
`)
}
