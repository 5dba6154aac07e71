// Package hook turns template job descriptors into lifecycle hooks.
//
// Descriptors are grouped by the event that triggers them. Each event gets
// one Hook that renders its jobs strictly in order and stops at the first
// failure.
package hook

// DefaultEvent is the lifecycle event used when a job does not name one.
const DefaultEvent = "package:initialize"

// Job describes one template render-and-write task.
//
// Input, Output and Vars are required, but their absence is only reported
// when the owning hook runs. Name and the required fields are pointers or
// interfaces so that "unset" can be told apart from an empty value.
type Job struct {
	// Name is an optional label used in log output.
	Name *string `mapstructure:"name" yaml:"name,omitempty" json:"name,omitempty"`
	// Event is the lifecycle event that triggers the job.
	Event string `mapstructure:"event" yaml:"event,omitempty" json:"event,omitempty"`
	// Input is the template source path.
	Input *string `mapstructure:"input" yaml:"input,omitempty" json:"input,omitempty"`
	// Output is the rendered file path.
	Output *string `mapstructure:"output" yaml:"output,omitempty" json:"output,omitempty"`
	// Vars are the bindings exposed to the template as "vars". An empty
	// mapping is valid; nil means missing.
	Vars interface{} `mapstructure:"vars" yaml:"vars,omitempty" json:"vars,omitempty"`

	// Err is set when the descriptor could not be decoded. It is reported
	// by Validate.
	Err error `mapstructure:"-" yaml:"-" json:"-"`
}

// String returns a pointer to s, for building Jobs in code.
func String(s string) *string {
	return &s
}

// EventName returns the job's event, falling back to DefaultEvent.
func (j Job) EventName() string {
	return j.eventOr(DefaultEvent)
}

func (j Job) eventOr(fallback string) string {
	if j.Event == "" {
		return fallback
	}
	return j.Event
}

// Label returns the text logged before the job renders: the name when
// set, otherwise "input -> output".
func (j Job) Label() string {
	if j.Name != nil {
		return *j.Name
	}
	return deref(j.Input) + " -> " + deref(j.Output)
}

// Validate reports a decode failure, then checks the required fields in
// the fixed order input, output, vars and reports only the first one
// missing.
func (j Job) Validate() error {
	if j.Err != nil {
		return j.Err
	}
	if j.Input == nil {
		return newConfigError(FieldInput)
	}
	if j.Output == nil {
		return newConfigError(FieldOutput)
	}
	if j.Vars == nil {
		return newConfigError(FieldVars)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return "undefined"
	}
	return *s
}
