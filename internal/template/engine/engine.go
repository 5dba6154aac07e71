// Package engine provides the narrow template engine interface used by the
// renderer and its implementations.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// VarName is the name under which variable bindings are exposed to every
// engine's templates.
const VarName = "vars"

// Engine evaluates template source against variable bindings.
// Implementations must be safe to call repeatedly; nothing is cached between calls.
type Engine interface {
	// Name returns the registry name of the engine.
	Name() string

	// Render evaluates source with vars exposed under VarName.
	Render(ctx context.Context, source string, vars interface{}) (string, error)
}

// VariableLister is implemented by engines that can report which bindings
// a template reads without rendering it.
type VariableLister interface {
	Variables(source string) ([]string, error)
}

// Engine names.
const (
	Dot        = "dot"
	GoTemplate = "gotemplate"
	Pongo2     = "pongo2"
)

// Default is the engine used when none is configured.
const Default = Dot

var constructors = map[string]func() Engine{
	Dot:        func() Engine { return NewDot() },
	GoTemplate: func() Engine { return NewGoTemplate() },
	Pongo2:     func() Engine { return NewPongo2() },
}

// New returns the engine registered under name. An empty name selects Default.
func New(name string) (Engine, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Default
	}
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown template engine %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names returns the registered engine names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnown reports whether name selects a registered engine.
func IsKnown(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return true
	}
	_, ok := constructors[name]
	return ok
}
