package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/tacogips/dottmpl/internal/app"
	"github.com/tacogips/dottmpl/internal/hook"
)

// commonEvents are offered when prompting for a job's event.
var commonEvents = []string{
	hook.DefaultEvent,
	"after:package:finalize",
	"before:deploy:deploy",
	"after:deploy:deploy",
	"before:offline:start",
}

// JobAnswers holds the values collected for a new job.
type JobAnswers struct {
	Name   string `survey:"name"`
	Event  string `survey:"event"`
	Input  string `survey:"input"`
	Output string `survey:"output"`
	// Vars holds key=value pairs, one per line.
	Vars string `survey:"vars"`
}

// PromptForJob interactively asks for the fields of a new job. Values in
// defaults are offered as answers.
func PromptForJob(defaults JobAnswers) (JobAnswers, error) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Describe the template job to add:")
	fmt.Fprintln(stdout)

	event := defaults.Event
	if event == "" {
		event = globalConfig.Templates.DefaultEvent
	}

	questions := []*survey.Question{
		{
			Name: "input",
			Prompt: &survey.Input{
				Message: "input - template file (required)",
				Default: defaults.Input,
				Help:    "Path of the template, relative to the working directory",
			},
			Validate: survey.Required,
		},
		{
			Name: "output",
			Prompt: &survey.Input{
				Message: "output - rendered file (required)",
				Default: defaults.Output,
				Help:    "Path the rendered result is written to; it is overwritten on every run",
			},
			Validate: survey.ComposeValidators(survey.Required, notEqualTo("input", defaults.Input)),
		},
		{
			Name: "name",
			Prompt: &survey.Input{
				Message: "name - label shown in the log",
				Default: defaults.Name,
				Help:    "Leave empty to log the input and output paths instead",
			},
		},
		{
			Name: "event",
			Prompt: &survey.Select{
				Message: "event - lifecycle event that renders the template",
				Options: eventOptions(event),
				Default: event,
			},
		},
		{
			Name: "vars",
			Prompt: &survey.Multiline{
				Message: "vars - one key=value per line",
				Default: defaults.Vars,
				Help:    "Values are parsed as YAML scalars; dotted keys build nested variables",
			},
			Validate: validateVarLines,
		},
	}

	answers := JobAnswers{}
	if err := survey.Ask(questions, &answers); err != nil {
		return JobAnswers{}, err
	}
	return answers, nil
}

// eventOptions returns the common events with current included.
func eventOptions(current string) []string {
	for _, e := range commonEvents {
		if e == current {
			return commonEvents
		}
	}
	out := make([]string, 0, len(commonEvents)+1)
	out = append(out, current)
	return append(out, commonEvents...)
}

// splitVarLines returns the non-empty lines of a multiline vars answer.
func splitVarLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// validateVarLines is a survey validator for key=value lines.
func validateVarLines(val interface{}) error {
	str, ok := val.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", val)
	}
	_, err := app.ParseVarFlags(splitVarLines(str))
	return err
}

// notEqualTo rejects an answer equal to another field's value.
func notEqualTo(field, other string) survey.Validator {
	return func(val interface{}) error {
		str, ok := val.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", val)
		}
		if other != "" && str == other {
			return fmt.Errorf("must differ from %s", field)
		}
		return nil
	}
}

// jobFromAnswers builds a descriptor from collected answers. An event equal
// to defaultEvent is left unset.
func jobFromAnswers(a JobAnswers, defaultEvent string) (hook.Job, error) {
	vars, err := app.ParseVarFlags(splitVarLines(a.Vars))
	if err != nil {
		return hook.Job{}, err
	}

	job := hook.Job{Vars: vars}
	if a.Name != "" {
		job.Name = hook.String(a.Name)
	}
	if a.Event != "" && a.Event != defaultEvent {
		job.Event = a.Event
	}
	if a.Input != "" {
		job.Input = hook.String(a.Input)
	}
	if a.Output != "" {
		job.Output = hook.String(a.Output)
	}
	return job, nil
}
