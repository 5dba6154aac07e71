package hook

import (
	"context"
	"fmt"

	"github.com/tacogips/dottmpl/internal/debug"
)

// Hook renders every job of one event group. It runs to completion or to
// the first failure; there is no cancellation once it starts.
type Hook func(ctx context.Context) error

// LogFunc receives one line of user-facing log output.
type LogFunc func(line string)

// Renderer renders a single job. generator.FileRenderer satisfies it.
type Renderer interface {
	Render(ctx context.Context, input, output string, vars interface{}) error
}

// Option configures Build.
type Option func(*builder)

// WithLogger sets the sink for the per-job "Generating template" lines.
func WithLogger(fn LogFunc) Option {
	return func(b *builder) {
		if fn != nil {
			b.log = fn
		}
	}
}

// WithRenderer sets the renderer used by every hook.
func WithRenderer(r Renderer) Option {
	return func(b *builder) {
		if r != nil {
			b.renderer = r
		}
	}
}

// WithDefaultEvent overrides the event used for jobs that do not set one.
func WithDefaultEvent(event string) Option {
	return func(b *builder) {
		if event != "" {
			b.defaultEvent = event
		}
	}
}

type builder struct {
	log          LogFunc
	renderer     Renderer
	defaultEvent string
}

// HookMap maps event names to hooks. It is immutable after Build and safe
// for concurrent use.
type HookMap struct {
	events []string
	groups map[string][]Job
	hooks  map[string]Hook
}

// Build groups jobs by event and creates one hook per group. The jobs are
// copied; later changes to the slice do not affect the hooks.
//
// A renderer must be supplied with WithRenderer; without one every hook
// fails when run.
func Build(jobs []Job, opts ...Option) *HookMap {
	b := &builder{
		log:          func(string) {},
		defaultEvent: DefaultEvent,
	}
	for _, opt := range opts {
		opt(b)
	}

	groups := groupWithDefault(jobs, b.defaultEvent)
	m := &HookMap{
		events: make([]string, 0, len(groups)),
		groups: make(map[string][]Job, len(groups)),
		hooks:  make(map[string]Hook, len(groups)),
	}
	for _, g := range groups {
		m.events = append(m.events, g.Event)
		m.groups[g.Event] = g.Jobs
		m.hooks[g.Event] = b.hook(g.Event, g.Jobs)
	}

	debug.Named("hook").Debug("built hooks", "hooks", len(m.events), "jobs", len(jobs), "events", m.events)
	return m
}

// hook creates the callback for one group.
func (b *builder) hook(event string, jobs []Job) Hook {
	return func(ctx context.Context) error {
		log := debug.Named("hook")
		log.Debug("running hook", "event", event, "jobs", len(jobs))
		for i, j := range jobs {
			if err := j.Validate(); err != nil {
				log.Debug("invalid job", "event", event, "index", i, "error", err)
				return err
			}

			b.log(fmt.Sprintf("Generating template %s", j.Label()))

			if b.renderer == nil {
				return &RenderError{Input: *j.Input, Cause: fmt.Errorf("no renderer configured")}
			}
			if err := b.renderer.Render(ctx, *j.Input, *j.Output, j.Vars); err != nil {
				return &RenderError{Input: *j.Input, Cause: err}
			}
		}
		return nil
	}
}

// Events returns the event names in first-occurrence order.
func (m *HookMap) Events() []string {
	out := make([]string, len(m.events))
	copy(out, m.events)
	return out
}

// Get returns the hook for event.
func (m *HookMap) Get(event string) (Hook, bool) {
	h, ok := m.hooks[event]
	return h, ok
}

// Jobs returns a copy of the jobs registered for event.
func (m *HookMap) Jobs(event string) []Job {
	jobs := m.groups[event]
	out := make([]Job, len(jobs))
	copy(out, jobs)
	return out
}

// Len returns the number of events.
func (m *HookMap) Len() int {
	return len(m.events)
}

// Run invokes the hook for event. Running an event with no hook is an error.
func (m *HookMap) Run(ctx context.Context, event string) error {
	h, ok := m.hooks[event]
	if !ok {
		return fmt.Errorf("no hook registered for event %q", event)
	}
	return h(ctx)
}

// Range calls fn for every event in first-occurrence order until fn
// returns false.
func (m *HookMap) Range(fn func(event string, h Hook) bool) {
	for _, event := range m.events {
		if !fn(event, m.hooks[event]) {
			return
		}
	}
}
