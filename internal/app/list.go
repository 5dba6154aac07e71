package app

import (
	"context"

	"github.com/tacogips/dottmpl/internal/hook"
)

// EventSummary describes the jobs bound to one event.
type EventSummary struct {
	// Event is the lifecycle event name.
	Event string
	// Jobs are in configuration order.
	Jobs []JobSummary
}

// JobSummary describes one configured job.
type JobSummary struct {
	// Label is the text logged when the job renders.
	Label string
	// Input is the template path, empty when unset.
	Input string
	// Output is the rendered file path, empty when unset.
	Output string
	// VarCount is the number of top-level variables.
	VarCount int
	// Problem is the configuration error the job would raise, if any.
	Problem string
}

// List returns the configured events and their jobs in first-occurrence
// order without rendering anything.
func List(ctx context.Context, opts Options) ([]EventSummary, error) {
	p, err := loadPlugin(opts)
	if err != nil {
		return nil, err
	}

	hooks := p.Hooks()
	summaries := make([]EventSummary, 0, hooks.Len())
	for _, event := range hooks.Events() {
		s := EventSummary{Event: event}
		for _, j := range hooks.Jobs(event) {
			s.Jobs = append(s.Jobs, summarizeJob(j))
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func summarizeJob(j hook.Job) JobSummary {
	s := JobSummary{Label: j.Label()}
	if j.Input != nil {
		s.Input = *j.Input
	}
	if j.Output != nil {
		s.Output = *j.Output
	}
	if m, ok := j.Vars.(map[string]interface{}); ok {
		s.VarCount = len(m)
	}
	if err := j.Validate(); err != nil {
		s.Problem = err.Error()
	}
	return s
}
