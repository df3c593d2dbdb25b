// Command bp-console is an interactive Buttplug client.
//
// By default it runs a server in-process with simulated Lovense devices, so
// protocol messages can be tried without hardware. With -url it connects to
// a running bp-server instead.
//
// Usage:
//
//	bp-console [flags]
//
// Flags:
//
//	-url string       WebSocket URL of a bp-server (remote mode)
//	-devices string   Comma-separated simulated device names (local mode)
//	-max-ping dur     Local server ping deadline (0 disables)
//	-v                Print server logs
//
// Examples:
//
//	# Local server with a Lush and an Edge
//	bp-console -devices LVS-S001,LVS-P36
//
//	# Remote server
//	bp-console -url ws://127.0.0.1:12345/
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/buttplug-go/buttplug/cmd/bp-console/interactive"
	"github.com/buttplug-go/buttplug/pkg/connector"
)

func main() {
	url := flag.String("url", "", "WebSocket URL of a bp-server (remote mode)")
	devices := flag.String("devices", "LVS-S001", "Comma-separated simulated device names (local mode)")
	maxPing := flag.Duration("max-ping", 0, "Local server ping deadline (0 disables)")
	verbose := flag.Bool("v", false, "Print server logs")
	flag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "bp> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("Failed to create readline: %v", err)
	}
	defer rl.Close()

	var logOut io.Writer = io.Discard
	if *verbose {
		logOut = rl.Stderr()
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	console := interactive.NewConsole(rl.Stdout())

	var backend interactive.Backend
	if *url != "" {
		remote, err := interactive.NewRemote(ctx, *url, logger, console.Print)
		if err != nil {
			log.Fatalf("Failed to connect: %v", err)
		}
		remote.OnStateChange(func(_, s connector.ClientState) {
			logger.Info("connection state", "state", s)
		})
		backend = remote
	} else {
		local, err := interactive.NewLocal(interactive.LocalConfig{
			Devices:     splitNames(*devices),
			MaxPingTime: *maxPing,
			Logger:      logger,
		}, console.Print)
		if err != nil {
			log.Fatalf("Failed to start local server: %v", err)
		}
		backend = local
	}
	console.Attach(backend)

	console.Run(ctx, rl)

	if err := backend.Close(); err != nil {
		log.Printf("Error closing: %v", err)
	}
	_, _ = os.Stdout.WriteString("Goodbye!\n")
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
