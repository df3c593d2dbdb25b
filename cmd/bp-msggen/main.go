// Command bp-msggen generates the per-variant accessor methods and Kind
// tables of package message from a YAML list of message variants.
//
// Usage (from pkg/message, via go generate):
//
//	bp-msggen -input messages.yaml -output messages_gen.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"
)

func main() {
	input := flag.String("input", "", "Path to the message list YAML")
	output := flag.String("output", "", "Path of the generated Go file")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: bp-msggen -input <messages.yaml> -output <file.go>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*input, *output); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output string) error {
	spec, err := LoadSpec(input)
	if err != nil {
		return fmt.Errorf("loading message list: %w", err)
	}

	code := Generate(spec)
	if err := writeFormatted(output, code); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(output), err)
	}
	fmt.Printf("  generated %s (%d messages)\n", output, len(spec.Messages))
	return nil
}

// Generate renders the Go source for spec. The result is not yet gofmt'd.
func Generate(spec *RawSpec) string {
	data := kindData{Messages: spec.Messages}
	for _, m := range spec.Messages {
		if m.DefaultID != 0 {
			data.RequestIDs = append(data.RequestIDs, "Kind"+m.Name)
		}
		if m.DeviceCommand {
			data.DeviceCommands = append(data.DeviceCommands, "Kind"+m.Name)
		}
	}

	var b strings.Builder
	renderTemplate(&b, "header", spec.Package)
	renderTemplate(&b, "kind", data)
	for _, m := range spec.Messages {
		renderTemplate(&b, "variant", m)
	}
	return b.String()
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
