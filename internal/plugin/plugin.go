// Package plugin exposes template jobs from a host settings tree as
// lifecycle hooks.
package plugin

import (
	"github.com/tacogips/dottmpl/internal/config"
	"github.com/tacogips/dottmpl/internal/debug"
	"github.com/tacogips/dottmpl/internal/hook"
	"github.com/tacogips/dottmpl/internal/template/generator"
)

// Name is the name the plugin registers under.
const Name = "DotTemplate"

// Options configures a DotTemplate plugin.
type Options struct {
	// Key is the dotted settings path of the job descriptors.
	Key string
	// DefaultEvent is used for descriptors without an event.
	DefaultEvent string
	// Renderer renders each job. Defaults to a dot renderer on the local
	// filesystem.
	Renderer hook.Renderer
	// Log receives one line per rendered job.
	Log hook.LogFunc
}

// DotTemplate reads template jobs from the host settings once and exposes
// them as hooks keyed by lifecycle event.
type DotTemplate struct {
	jobs  []hook.Job
	hooks *hook.HookMap
}

// New builds the plugin. A settings tree without the configured key yields
// a plugin with no hooks. Descriptors that cannot be decoded are reported
// here; missing required fields are reported when a hook runs.
func New(settings *config.Settings, opts Options) (*DotTemplate, error) {
	if opts.Key == "" {
		opts.Key = config.DefaultSettingsKey
	}
	if opts.Renderer == nil {
		opts.Renderer = generator.NewRenderer()
	}

	var raw interface{}
	if settings != nil {
		if v, ok := settings.Lookup(opts.Key); ok {
			raw = v
		} else {
			debug.Named("plugin").Debug("settings key not set, no templates registered", "key", opts.Key)
		}
	}

	jobs, err := hook.Normalize(raw)
	if err != nil {
		return nil, err
	}

	hooks := hook.Build(jobs,
		hook.WithLogger(opts.Log),
		hook.WithRenderer(opts.Renderer),
		hook.WithDefaultEvent(opts.DefaultEvent),
	)

	debug.Named("plugin").Debug("registered templates", "plugin", Name, "jobs", len(jobs), "events", hooks.Len())
	return &DotTemplate{jobs: jobs, hooks: hooks}, nil
}

// Name returns the plugin name.
func (p *DotTemplate) Name() string {
	return Name
}

// Hooks returns the event to hook mapping.
func (p *DotTemplate) Hooks() *hook.HookMap {
	return p.hooks
}

// Jobs returns the decoded descriptors in configuration order.
func (p *DotTemplate) Jobs() []hook.Job {
	out := make([]hook.Job, len(p.jobs))
	copy(out, p.jobs)
	return out
}
