package app

import (
	"context"
	"errors"

	"github.com/tacogips/dottmpl/internal/debug"
	"github.com/tacogips/dottmpl/internal/lifecycle"
	"github.com/tacogips/dottmpl/internal/plugin"
)

// RunOptions holds options for firing lifecycle events.
type RunOptions struct {
	Options
	// Events are fired in the given order. Empty means the default event.
	Events []string
	// All fires every configured event in first-occurrence order.
	All bool
}

// RunResult reports which events were fired.
type RunResult struct {
	// Fired are the events whose hooks ran to completion.
	Fired []string
	// Skipped are requested events with no configured jobs.
	Skipped []string
}

// Run loads the settings, registers the template plugin and fires the
// requested events. It stops at the first failing hook.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	p, err := loadPlugin(opts.Options)
	if err != nil {
		return nil, err
	}

	d := lifecycle.NewDispatcher()
	d.Register(plugin.Name, p.Hooks())

	log := debug.Named("app")
	result := &RunResult{}

	if opts.All {
		log.Debug("firing all events", "events", d.Events())
		err := d.FireAll(ctx)
		var hookErr *lifecycle.HookError
		if err != nil && !errors.As(err, &hookErr) {
			return result, NewRunError("all events", err)
		}
		for _, event := range d.Events() {
			if hookErr != nil && event == hookErr.Event {
				return result, NewRunError(hookErr.Event, hookErr.Cause)
			}
			result.Fired = append(result.Fired, event)
		}
		return result, nil
	}

	events := opts.Events
	if len(events) == 0 {
		events = []string{opts.config().Templates.DefaultEvent}
	}
	log.Debug("firing events", "events", events)

	for _, event := range events {
		if !d.Has(event) {
			result.Skipped = append(result.Skipped, event)
			continue
		}
		if err := d.Fire(ctx, event); err != nil {
			var hookErr *lifecycle.HookError
			if errors.As(err, &hookErr) {
				return result, NewRunError(hookErr.Event, hookErr.Cause)
			}
			return result, NewRunError(event, err)
		}
		result.Fired = append(result.Fired, event)
	}

	return result, nil
}
