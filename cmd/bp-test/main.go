// Command bp-test runs protocol scenarios against a Buttplug server.
//
// Without -url every scenario gets its own in-process server with the
// simulated devices it declares. With -url only scenarios marked remote run;
// the rest are skipped.
//
// Usage:
//
//	bp-test [flags]
//
// Flags:
//
//	-dir string            Scenario directory (default: built-in scenarios)
//	-url string            WebSocket URL of a running server
//	-format string         Output format: text, json, junit (default "text")
//	-v                     Show steps and expectations
//	-run string            Only run scenarios whose ID starts with this prefix
//	-tags string           Only run scenarios with one of these comma-separated tags
//	-step-timeout duration Default per-step timeout (default 5s)
//	-stop-on-failure       Stop after the first failed scenario
//	-capture string        Write protocol capture events to this .bplog file
//	-log-level string      Log level for server internals: debug, info, warn, error
//	-list                  List scenarios and actions, then exit
//
// Examples:
//
//	# Run the built-in scenarios in-process
//	bp-test
//
//	# Check a running server with JUnit output
//	bp-test -url ws://127.0.0.1:12345/ -format junit > report.xml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/buttplug-go/buttplug/internal/testharness/loader"
	"github.com/buttplug-go/buttplug/internal/testharness/reporter"
	"github.com/buttplug-go/buttplug/internal/testharness/runner"
	"github.com/buttplug-go/buttplug/internal/testharness/scenarios"
	caplog "github.com/buttplug-go/buttplug/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	dir           string
	url           string
	format        string
	verbose       bool
	run           string
	tags          string
	stepTimeout   time.Duration
	stopOnFailure bool
	capture       string
	logLevel      string
	list          bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fset := flag.NewFlagSet("bp-test", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&o.dir, "dir", "", "Scenario directory (default: built-in scenarios)")
	fset.StringVar(&o.url, "url", "", "WebSocket URL of a running server")
	fset.StringVar(&o.format, "format", "text", "Output format: text, json, junit")
	fset.BoolVar(&o.verbose, "v", false, "Show steps and expectations")
	fset.StringVar(&o.run, "run", "", "Only run scenarios whose ID starts with this prefix")
	fset.StringVar(&o.tags, "tags", "", "Only run scenarios with one of these comma-separated tags")
	fset.DurationVar(&o.stepTimeout, "step-timeout", 5*time.Second, "Default per-step timeout")
	fset.BoolVar(&o.stopOnFailure, "stop-on-failure", false, "Stop after the first failed scenario")
	fset.StringVar(&o.capture, "capture", "", "Write protocol capture events to this .bplog file")
	fset.StringVar(&o.logLevel, "log-level", "", "Log level for server internals: debug, info, warn, error")
	fset.BoolVar(&o.list, "list", false, "List scenarios and actions, then exit")
	if err := fset.Parse(args); err != nil {
		return o, err
	}
	if fset.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fset.Args(), " "))
	}
	return o, nil
}

// run executes bp-test and returns the process exit code: 0 when every
// scenario passed or was skipped, 1 on failures, 2 on usage errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	rep, err := reporter.New(o.format, stdout, o.verbose)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	cases, err := loadScenarios(o.dir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	cases = loader.FilterTestCases(cases, loader.Filter{
		IDPrefix: o.run,
		Tags:     splitTags(o.tags),
	})

	cfg := runner.Config{
		URL:                o.url,
		StepTimeout:        o.stepTimeout,
		StopOnFirstFailure: o.stopOnFailure,
	}
	if o.logLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
			fmt.Fprintf(stderr, "Error: invalid log level %q\n", o.logLevel)
			return 2
		}
		cfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	}
	if o.capture != "" {
		fl, err := caplog.NewFileLogger(o.capture)
		if err != nil {
			fmt.Fprintf(stderr, "Error: capture: %v\n", err)
			return 2
		}
		defer fl.Close()
		// Only set when non-nil to avoid a typed-nil interface.
		cfg.CaptureLogger = fl
	}

	r, err := runner.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if o.list {
		listScenarios(stdout, cases, r.Actions())
		return 0
	}

	suite := r.RunSuite(ctx, cases)
	rep.ReportSuite(suite)
	if suite.FailCount > 0 {
		return 1
	}
	return 0
}

func loadScenarios(dir string) ([]*loader.TestCase, error) {
	var fsys fs.FS = scenarios.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	return loader.LoadFS(fsys, ".")
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func listScenarios(w io.Writer, cases []*loader.TestCase, actions []string) {
	fmt.Fprintln(w, "Scenarios:")
	for _, tc := range cases {
		where := "local"
		if tc.Remote {
			where = "remote"
		}
		fmt.Fprintf(w, "  %-18s %-6s %s\n", tc.ID, where, tc.Name)
	}
	fmt.Fprintf(w, "\nActions: %s\n", strings.Join(actions, ", "))
}
