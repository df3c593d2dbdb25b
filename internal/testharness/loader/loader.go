package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseTestCase parses a scenario from YAML bytes.
func ParseTestCase(data []byte) (*TestCase, error) {
	var tc TestCase
	if err := yaml.Unmarshal(data, &tc); err != nil {
		le := &LoadError{Message: "failed to parse YAML", Cause: err}
		var te *yaml.TypeError
		if !errors.As(err, &te) {
			le.Line = yamlErrorLine(err)
		}
		return nil, le
	}
	if err := validate(&tc); err != nil {
		return nil, err
	}
	return &tc, nil
}

func validate(tc *TestCase) error {
	if tc.ID == "" {
		return &LoadError{Message: "test case ID is required"}
	}
	if len(tc.Steps) == 0 {
		return &LoadError{Message: "test case must have at least one step"}
	}
	for i, step := range tc.Steps {
		if step.Action == "" {
			return &LoadError{Message: fmt.Sprintf("step %d has no action", i+1)}
		}
		if step.Timeout != "" {
			if _, err := time.ParseDuration(step.Timeout); err != nil {
				return &LoadError{Message: fmt.Sprintf("step %d timeout", i+1), Cause: err}
			}
		}
	}
	for i, d := range tc.Devices {
		if d.Name == "" {
			return &LoadError{Message: fmt.Sprintf("device %d has no name", i+1)}
		}
	}
	if _, err := tc.PingTime(); err != nil {
		return &LoadError{Message: "invalid max_ping_time", Cause: err}
	}
	if tc.Timeout != "" {
		if _, err := time.ParseDuration(tc.Timeout); err != nil {
			return &LoadError{Message: "invalid timeout", Cause: err}
		}
	}
	return nil
}

// yamlErrorLine extracts the line from a yaml syntax error ("yaml: line 3: ...").
func yamlErrorLine(err error) int {
	var line int
	if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr != nil {
		return 0
	}
	return line
}

// LoadTestCase loads a scenario from a file.
func LoadTestCase(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}
	return parseFile(path, data)
}

func parseFile(path string, data []byte) (*TestCase, error) {
	tc, err := ParseTestCase(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return tc, nil
}

func isScenarioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// LoadDirectory loads all scenarios from a directory.
// Only files with .yaml or .yml extensions are loaded.
func LoadDirectory(dir string) ([]*TestCase, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// LoadDirectoryRecursive loads all scenarios from a directory and its
// subdirectories.
func LoadDirectoryRecursive(dir string) ([]*TestCase, error) {
	var cases []*TestCase
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isScenarioFile(p) {
			return nil
		}
		tc, err := LoadTestCase(p)
		if err != nil {
			return err
		}
		cases = append(cases, tc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cases, checkUnique(cases)
}

// LoadFS loads every scenario in dir of fsys, sorted by file name.
func LoadFS(fsys fs.FS, dir string) ([]*TestCase, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, &LoadError{File: dir, Message: "failed to read directory", Cause: err}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var cases []*TestCase
	for _, entry := range entries {
		if entry.IsDir() || !isScenarioFile(entry.Name()) {
			continue
		}
		p := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, &LoadError{File: p, Message: "failed to read file", Cause: err}
		}
		tc, err := parseFile(p, data)
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}
	return cases, checkUnique(cases)
}

func checkUnique(cases []*TestCase) error {
	seen := make(map[string]bool, len(cases))
	for _, tc := range cases {
		if seen[tc.ID] {
			return &LoadError{Message: fmt.Sprintf("duplicate test case ID %q", tc.ID)}
		}
		seen[tc.ID] = true
	}
	return nil
}

// Filter selects scenarios. Zero fields match everything.
type Filter struct {
	// IDPrefix keeps scenarios whose ID starts with it.
	IDPrefix string

	// Tags keeps scenarios carrying at least one of the tags.
	Tags []string

	// RemoteOnly keeps scenarios that can run against a remote server.
	RemoteOnly bool
}

// FilterTestCases returns the scenarios that match f, in order.
func FilterTestCases(cases []*TestCase, f Filter) []*TestCase {
	var out []*TestCase
	for _, tc := range cases {
		if f.IDPrefix != "" && !strings.HasPrefix(tc.ID, f.IDPrefix) {
			continue
		}
		if f.RemoteOnly && !tc.Remote {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(tc, f.Tags) {
			continue
		}
		out = append(out, tc)
	}
	return out
}

func hasAnyTag(tc *TestCase, tags []string) bool {
	for _, t := range tags {
		if tc.HasTag(t) {
			return true
		}
	}
	return false
}
