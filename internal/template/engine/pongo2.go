package engine

import (
	"context"

	"github.com/flosch/pongo2/v6"
)

// Pongo2Engine renders Django-style templates ({{ vars.x }}) through pongo2.
type Pongo2Engine struct {
	set *pongo2.TemplateSet
}

// NewPongo2 creates a Pongo2Engine with its own template set so that
// global filters registered elsewhere do not leak in.
func NewPongo2() *Pongo2Engine {
	return &Pongo2Engine{set: pongo2.NewSet("dottmpl", pongo2.MustNewLocalFileSystemLoader(""))}
}

// Name returns the registry name.
func (e *Pongo2Engine) Name() string { return Pongo2 }

// Render compiles and executes source.
func (e *Pongo2Engine) Render(ctx context.Context, source string, vars interface{}) (string, error) {
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return "", err
	}
	return tmpl.Execute(pongo2.Context{VarName: vars})
}
