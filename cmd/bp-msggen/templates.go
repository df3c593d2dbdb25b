package main

import (
	"fmt"
	"strings"
	"text/template"
)

var funcMap = template.FuncMap{
	"recv": func(name string) string { return strings.ToLower(name[:1]) },
	"join": func(names []string) string { return strings.Join(names, ", ") },
}

var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	headerTmpl +
		kindTmpl +
		variantTmpl,
))

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		panic(fmt.Sprintf("template %s: %v", name, err))
	}
}

// kindData holds pre-computed groupings for the Kind template.
type kindData struct {
	Messages       []RawMessageDef
	RequestIDs     []string
	DeviceCommands []string
}

const headerTmpl = `
{{define "header"}}// Code generated by bp-msggen from messages.yaml. DO NOT EDIT.

package {{.}}

import "fmt"
{{end}}
`

const kindTmpl = `
{{define "kind"}}
// Kind identifies a message variant.
type Kind uint8

// Message kinds, in wire declaration order.
const (
	KindUnknown Kind = iota
{{- range .Messages}}
	Kind{{.Name}}
{{- end}}
)

// String returns the protocol name of the kind.
func (k Kind) String() string {
	switch k {
{{- range .Messages}}
	case Kind{{.Name}}:
		return "{{.Name}}"
{{- end}}
	default:
		return "Unknown"
	}
}

// ParseKind returns the kind with the given protocol name.
func ParseKind(name string) (Kind, bool) {
	switch name {
{{- range .Messages}}
	case "{{.Name}}":
		return Kind{{.Name}}, true
{{- end}}
	default:
		return KindUnknown, false
	}
}

// AllKinds returns every defined kind in declaration order.
func AllKinds() []Kind {
	return []Kind{
{{- range .Messages}}
		Kind{{.Name}},
{{- end}}
	}
}

// DefaultID returns the id a freshly constructed message of this kind carries.
func (k Kind) DefaultID() uint32 {
	switch k {
{{- if .RequestIDs}}
	case {{join .RequestIDs}}:
		return DefaultRequestID
{{- end}}
	default:
		return SystemMessageID
	}
}

// IsDeviceCommand reports whether messages of this kind implement DeviceCommand.
func (k Kind) IsDeviceCommand() bool {
	switch k {
{{- if .DeviceCommands}}
	case {{join .DeviceCommands}}:
		return true
{{- end}}
	default:
		return false
	}
}

// New returns a new message of this kind carrying its default id.
// It panics for KindUnknown or an undefined kind.
func (k Kind) New() Message {
	switch k {
{{- range .Messages}}
	case Kind{{.Name}}:
		return &{{.Name}}{MessageID: {{if .DefaultID}}DefaultRequestID{{else}}SystemMessageID{{end}}}
{{- end}}
	}
	panic(fmt.Sprintf("message: no variant for kind %d", uint8(k)))
}
{{end}}
`

const variantTmpl = `
{{define "variant"}}
// ID returns the correlation id.
func ({{recv .Name}} *{{.Name}}) ID() uint32 { return {{recv .Name}}.MessageID }

// SetID replaces the correlation id.
func ({{recv .Name}} *{{.Name}}) SetID(id uint32) { {{recv .Name}}.MessageID = id }

// Kind returns Kind{{.Name}}.
func (*{{.Name}}) Kind() Kind { return Kind{{.Name}} }

// AsUnion wraps the message in a Union.
func ({{recv .Name}} *{{.Name}}) AsUnion() Union { return Union{msg: {{recv .Name}}} }

func (*{{.Name}}) isMessage() {}
{{- if .DeviceCommand}}

// TargetIndex returns the addressed device index.
func ({{recv .Name}} *{{.Name}}) TargetIndex() uint32 { return {{recv .Name}}.DeviceIndex }

func (*{{.Name}}) isDeviceCommand() {}
{{- end}}
{{end}}
`
