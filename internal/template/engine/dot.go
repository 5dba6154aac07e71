package engine

import (
	"context"

	"github.com/tacogips/dottmpl/internal/template/parser"
)

// DotEngine renders doT templates ({{= vars.x }}) on an embedded
// JavaScript runtime, with whitespace preserved and bindings exposed as
// "vars".
type DotEngine struct {
	parser parser.Parser
}

// NewDot creates a DotEngine.
func NewDot() *DotEngine {
	return &DotEngine{parser: parser.NewParser(parser.WithVarName(VarName))}
}

// Name returns the registry name.
func (e *DotEngine) Name() string { return Dot }

// Render compiles and executes source. Evaluation errors carry only the
// underlying message, e.g. "xxx is not defined".
func (e *DotEngine) Render(ctx context.Context, source string, vars interface{}) (string, error) {
	out, err := e.parser.Parse(ctx, []byte(source), vars)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Variables returns the top-level bindings source reads.
func (e *DotEngine) Variables(source string) ([]string, error) {
	return e.parser.ExtractVariables([]byte(source))
}
