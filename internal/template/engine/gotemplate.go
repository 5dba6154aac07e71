package engine

import (
	"context"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// GoTemplateEngine renders text/template sources with the sprig function
// library. Bindings are available as {{ .vars.x }}; unknown map keys fail.
type GoTemplateEngine struct {
	funcs template.FuncMap
}

// NewGoTemplate creates a GoTemplateEngine.
func NewGoTemplate() *GoTemplateEngine {
	return &GoTemplateEngine{funcs: sprig.TxtFuncMap()}
}

// Name returns the registry name.
func (e *GoTemplateEngine) Name() string { return GoTemplate }

// Render parses and executes source.
func (e *GoTemplateEngine) Render(ctx context.Context, source string, vars interface{}) (string, error) {
	tmpl, err := template.New("template").
		Funcs(e.funcs).
		Option("missingkey=error").
		Parse(source)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, map[string]interface{}{VarName: vars}); err != nil {
		return "", err
	}
	return b.String(), nil
}
