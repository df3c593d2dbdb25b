// Command bp-log views and analyzes Buttplug capture files.
//
// Capture files are written by bp-server when it runs with a capture
// path configured.
//
// Usage:
//
//	bp-log <command> [flags] <file.bplog>
//
// Commands:
//
//	view     View capture file in human-readable format
//	export   Export capture file to JSONL or CSV
//	filter   Filter capture file and write to new file
//	stats    Show statistics about the capture file
//
// Examples:
//
//	# View all events
//	bp-log view server.bplog
//
//	# View only raw device traffic
//	bp-log view --category raw server.bplog
//
//	# View only VibrateCmd messages
//	bp-log view --kind VibrateCmd server.bplog
//
//	# Export to JSONL
//	bp-log export --format jsonl server.bplog
//
//	# Keep one device's events
//	bp-log filter --device-index 0 -o lush.bplog server.bplog
//
//	# Show statistics
//	bp-log stats server.bplog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/buttplug-go/buttplug/cmd/bp-log/commands"
)

const usage = `bp-log - Buttplug Capture Analyzer

Usage:
  bp-log <command> [flags] <file.bplog>

Commands:
  view     View capture file in human-readable format
  export   Export capture file to JSONL or CSV
  filter   Filter capture file and write to new file
  stats    Show statistics about the capture file

Use "bp-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// pathArg parses args and returns the single positional capture path.
func pathArg(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func usageFor(fs *flag.FlagSet, title, synopsis string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "%s\n\nUsage:\n  %s\n\nFlags:\n", title, synopsis)
		fs.PrintDefaults()
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = usageFor(fs, "bp-log view - View capture file in human-readable format",
		"bp-log view [flags] <file.bplog>")

	layer := fs.String("layer", "", "Filter by layer (connector, server, device)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (message, raw, state, error)")
	kind := fs.String("kind", "", "Filter by message kind (e.g. VibrateCmd)")

	path := pathArg(fs, args)

	filter := commands.ViewFilter{Kind: *kind}
	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fail(err)
		}
		filter.Layer = &l
	}
	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fail(err)
		}
		filter.Direction = &d
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = usageFor(fs, "bp-log export - Export capture file to JSONL or CSV",
		"bp-log export [flags] <file.bplog>")

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	path := pathArg(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = usageFor(fs, "bp-log filter - Filter capture file and write to new file",
		"bp-log filter [flags] <file.bplog>")

	output := fs.String("o", "", "Output file (required)")
	connID := fs.String("conn-id", "", "Filter by connection ID")
	deviceIndex := fs.String("device-index", "", "Filter by device index")
	kind := fs.String("kind", "", "Filter by message kind")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	layer := fs.String("layer", "", "Filter by layer (connector, server, device)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (message, raw, state, error)")

	path := pathArg(fs, args)
	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	count, err := commands.RunFilter(path, commands.FilterOptions{
		Output:      *output,
		ConnID:      *connID,
		DeviceIndex: *deviceIndex,
		Kind:        *kind,
		TimeStart:   *timeStart,
		TimeEnd:     *timeEnd,
		Layer:       *layer,
		Direction:   *direction,
		Category:    *category,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "bp-log stats - Show statistics about the capture file\n\nUsage:\n  bp-log stats <file.bplog>\n")
	}

	path := pathArg(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
