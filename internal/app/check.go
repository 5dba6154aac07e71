package app

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/tacogips/dottmpl/internal/debug"
	"github.com/tacogips/dottmpl/internal/hook"
	"github.com/tacogips/dottmpl/internal/template/generator"
)

// CheckResult holds the results of validating every configured job.
type CheckResult struct {
	// Engine is the name of the engine templates were rendered with.
	Engine string
	// JobsChecked is the number of jobs checked.
	JobsChecked int
	// Problems lists every failing job.
	Problems []CheckProblem
	// Warnings lists jobs that render but read bindings their vars lack.
	Warnings []CheckWarning
}

// CheckWarning is a job whose template reads bindings that are not set.
// Such reads render as "undefined" rather than failing.
type CheckWarning struct {
	Event string
	Index int
	Label string
	// Missing are the unset binding names, sorted.
	Missing []string
}

// String formats the warning for display.
func (w CheckWarning) String() string {
	return fmt.Sprintf("%s[%d] %s: vars not set: %s", w.Event, w.Index, w.Label, strings.Join(w.Missing, ", "))
}

// CheckProblem is a job that would fail when its hook runs.
type CheckProblem struct {
	// Event is the event the job belongs to.
	Event string
	// Index is the position of the job within its event.
	Index int
	// Label is the job's log label.
	Label string
	// Err is the error the hook would return.
	Err error
}

// Error implements the error interface.
func (p CheckProblem) Error() string {
	return fmt.Sprintf("%s[%d] %s: %v", p.Event, p.Index, p.Label, p.Err)
}

// Err combines all problems into one error, or nil when there are none.
func (r *CheckResult) Err() error {
	var result *multierror.Error
	for _, p := range r.Problems {
		result = multierror.Append(result, p)
	}
	return result.ErrorOrNil()
}

// Check validates every job and renders its template without writing.
// Unlike a hook it does not stop at the first failure.
func Check(ctx context.Context, opts Options) (*CheckResult, error) {
	p, err := loadPlugin(opts)
	if err != nil {
		return nil, err
	}
	renderer, err := NewRenderer(opts)
	if err != nil {
		return nil, err
	}

	log := debug.Named("app")
	result := &CheckResult{Engine: renderer.Engine().Name()}
	hooks := p.Hooks()
	for _, event := range hooks.Events() {
		for i, j := range hooks.Jobs(event) {
			result.JobsChecked++

			if err := j.Validate(); err != nil {
				result.Problems = append(result.Problems, CheckProblem{Event: event, Index: i, Label: j.Label(), Err: err})
				continue
			}

			if _, err := renderer.RenderString(ctx, *j.Input, j.Vars); err != nil {
				result.Problems = append(result.Problems, CheckProblem{
					Event: event,
					Index: i,
					Label: j.Label(),
					Err:   &hook.RenderError{Input: *j.Input, Cause: err},
				})
				continue
			}
			if missing := missingBindings(renderer, *j.Input, j.Vars); len(missing) > 0 {
				result.Warnings = append(result.Warnings, CheckWarning{Event: event, Index: i, Label: j.Label(), Missing: missing})
			}
			log.Debug("job ok", "event", event, "index", i)
		}
	}

	return result, nil
}

// missingBindings lists the bindings the template at input reads that vars
// does not define. Engines that cannot list their bindings, and vars that
// are not mappings, yield nothing.
func missingBindings(renderer *generator.FileRenderer, input string, vars interface{}) []string {
	names, err := renderer.Variables(input)
	if err != nil || len(names) == 0 {
		return nil
	}

	rv := reflect.Indirect(reflect.ValueOf(vars))
	if rv.Kind() != reflect.Map {
		return nil
	}
	set := make(map[string]struct{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		set[fmt.Sprint(iter.Key().Interface())] = struct{}{}
	}

	var missing []string
	for _, name := range names {
		if _, ok := set[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
