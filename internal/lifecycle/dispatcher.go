// Package lifecycle is a small hook registry that fires plugin hooks by
// lifecycle event name.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/tacogips/dottmpl/internal/debug"
	"github.com/tacogips/dottmpl/internal/hook"
)

// Registration is one plugin hook bound to an event.
type Registration struct {
	Plugin string
	Event  string
	Hook   hook.Hook
}

// Dispatcher keeps hooks per event in registration order.
type Dispatcher struct {
	mu     sync.RWMutex
	events []string
	hooks  map[string][]Registration
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{hooks: make(map[string][]Registration)}
}

// Register adds every hook of a plugin. Plugins registered later run after
// earlier ones for the same event.
func (d *Dispatcher) Register(plugin string, hooks *hook.HookMap) {
	if hooks == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	hooks.Range(func(event string, h hook.Hook) bool {
		if _, ok := d.hooks[event]; !ok {
			d.events = append(d.events, event)
		}
		d.hooks[event] = append(d.hooks[event], Registration{Plugin: plugin, Event: event, Hook: h})
		return true
	})
	debug.Named("lifecycle").Debug("registered plugin", "plugin", plugin, "events", hooks.Events())
}

// Events returns every event with at least one hook, in the order first
// registered.
func (d *Dispatcher) Events() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, len(d.events))
	copy(out, d.events)
	return out
}

// Has reports whether any hook is registered for event.
func (d *Dispatcher) Has(event string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.hooks[event]) > 0
}

// Fire runs the hooks of event in registration order and stops at the
// first error. An event with no hooks is a no-op.
func (d *Dispatcher) Fire(ctx context.Context, event string) error {
	d.mu.RLock()
	regs := make([]Registration, len(d.hooks[event]))
	copy(regs, d.hooks[event])
	d.mu.RUnlock()

	if len(regs) == 0 {
		debug.Named("lifecycle").Debug("no hooks for event", "event", event)
		return nil
	}

	for _, r := range regs {
		debug.Named("lifecycle").Debug("firing hook", "event", event, "plugin", r.Plugin)
		if err := r.Hook(ctx); err != nil {
			return &HookError{Plugin: r.Plugin, Event: event, Cause: err}
		}
	}
	return nil
}

// FireAll fires every registered event in order and stops at the first error.
func (d *Dispatcher) FireAll(ctx context.Context) error {
	for _, event := range d.Events() {
		if err := d.Fire(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// HookError identifies the plugin and event of a failed hook. Its message
// is the hook's own message.
type HookError struct {
	Plugin string
	Event  string
	Cause  error
}

// Error implements the error interface.
func (e *HookError) Error() string {
	return e.Cause.Error()
}

// Unwrap returns the hook's error.
func (e *HookError) Unwrap() error {
	return e.Cause
}

// Describe returns the error prefixed with plugin and event.
func (e *HookError) Describe() string {
	return fmt.Sprintf("%s (%s): %v", e.Event, e.Plugin, e.Cause)
}
