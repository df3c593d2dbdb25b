// Package scenarios holds the built-in protocol scenarios run by bp-test.
package scenarios

import "embed"

// FS contains every built-in scenario at its root.
//
//go:embed *.yaml
var FS embed.FS
