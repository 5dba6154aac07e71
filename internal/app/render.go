package app

import (
	"context"

	"github.com/tacogips/dottmpl/internal/config"
	"github.com/tacogips/dottmpl/internal/hook"
)

// RenderOptions holds options for a one-off render.
type RenderOptions struct {
	Options
	// Name is an optional label for the log line.
	Name string
	// Input is the template path.
	Input string
	// Output is the rendered file path.
	Output string
	// VarsFile is a YAML or JSON mapping of variables.
	VarsFile string
	// Vars are key=value pairs applied on top of VarsFile.
	Vars []string
}

// Render renders a single job given on the command line. It goes through
// the same hook path as configured jobs, so validation, logging and error
// messages match.
func Render(ctx context.Context, opts RenderOptions) error {
	vars := make(map[string]interface{})

	if opts.VarsFile != "" {
		path, err := config.ExpandPath(opts.VarsFile)
		if err != nil {
			return NewSettingsLoadError("failed to resolve vars file", err)
		}
		s, err := config.LoadSettings(path)
		if err != nil {
			return NewSettingsLoadError("failed to load vars file", err)
		}
		mergeVars(vars, s.Root())
	}

	flagVars, err := ParseVarFlags(opts.Vars)
	if err != nil {
		return NewValidationError("invalid --var", err)
	}
	mergeVars(vars, flagVars)

	job := hook.Job{Vars: vars}
	if opts.Name != "" {
		job.Name = hook.String(opts.Name)
	}
	if opts.Input != "" {
		job.Input = hook.String(opts.Input)
	}
	if opts.Output != "" {
		job.Output = hook.String(opts.Output)
	}

	renderer, err := NewRenderer(opts.Options)
	if err != nil {
		return err
	}

	hooks := hook.Build([]hook.Job{job}, hook.WithLogger(opts.Log), hook.WithRenderer(renderer))
	if err := hooks.Run(ctx, hook.DefaultEvent); err != nil {
		return NewRunError("render", err)
	}
	return nil
}
