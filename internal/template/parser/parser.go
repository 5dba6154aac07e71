// Package parser compiles doT templates into JavaScript functions and runs
// them on an embedded JavaScript runtime.
package parser

import (
	"context"
	"strings"

	"github.com/dop251/goja"

	"github.com/tacogips/dottmpl/internal/debug"
)

// DefaultVarName is the identifier under which bindings are exposed to templates.
const DefaultVarName = "vars"

// Parser compiles and executes doT templates.
//
// Whitespace in the template source is always preserved verbatim.
type Parser interface {
	// Parse compiles input and executes it against vars.
	Parse(ctx context.Context, input []byte, vars interface{}) ([]byte, error)

	// Compile compiles input without executing it.
	Compile(input []byte) (*Template, error)

	// ExtractVariables finds the binding properties a template reads,
	// e.g. "x" for {{= vars.x }}.
	ExtractVariables(input []byte) ([]string, error)
}

// Option configures a DefaultParser.
type Option func(*DefaultParser)

// WithVarName sets the identifier bindings are exposed under.
func WithVarName(name string) Option {
	return func(p *DefaultParser) {
		if strings.TrimSpace(name) != "" {
			p.varName = strings.TrimSpace(name)
		}
	}
}

// DefaultParser implements Parser interface.
type DefaultParser struct {
	varName string
}

// NewParser creates a new DefaultParser.
func NewParser(opts ...Option) Parser {
	p := &DefaultParser{varName: DefaultVarName}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse compiles input and executes it against vars. Nothing is cached
// between calls.
func (p *DefaultParser) Parse(ctx context.Context, input []byte, vars interface{}) ([]byte, error) {
	tmpl, err := p.Compile(input)
	if err != nil {
		return nil, err
	}
	out, err := tmpl.Execute(ctx, vars)
	if err != nil {
		return nil, err
	}
	debug.Named("parser").Debug("executed template", "input_bytes", len(input), "output_bytes", len(out))
	return []byte(out), nil
}

// Compile translates input into a program. Defines are expanded here, so
// errors in {{## }} blocks are reported by Compile rather than Execute.
func (p *DefaultParser) Compile(input []byte) (*Template, error) {
	c := newCompiler(p.varName)
	body, err := c.body(string(input))
	if err != nil {
		return nil, err
	}

	src := "(function(" + p.varName + ",encodeHTML){" + body + "})"
	program, err := goja.Compile("template", src, false)
	if err != nil {
		return nil, syntaxError(err)
	}

	debug.Named("parser").Trace("compiled template", "source", src)
	return &Template{program: program, variables: c.variables()}, nil
}

// ExtractVariables finds all binding properties referenced by a template.
func (p *DefaultParser) ExtractVariables(input []byte) ([]string, error) {
	tmpl, err := p.Compile(input)
	if err != nil {
		return nil, err
	}
	return tmpl.Variables(), nil
}
