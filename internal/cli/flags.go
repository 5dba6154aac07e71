package cli

import (
	"fmt"
	"strings"

	"github.com/tacogips/dottmpl/internal/template/engine"
)

// Common flag names and descriptions
const (
	// Flag names
	FlagConfig   = "config"
	FlagSettings = "settings"
	FlagEngine   = "engine"
	FlagNoColor  = "no-color"
	FlagQuiet    = "quiet"
	FlagDebug    = "debug"
	FlagAll      = "all"
	FlagInput    = "input"
	FlagOutput   = "output"
	FlagName     = "name"
	FlagEvent    = "event"
	FlagVar      = "var"
	FlagVarsFile = "vars-file"
	FlagYes      = "yes"

	// Flag descriptions
	DescConfig   = "Path to config file"
	DescSettings = "Settings file containing the template jobs (default serverless.yml)"
	DescEngine   = "Template engine"
	DescNoColor  = "Disable colored output"
	DescQuiet    = "Suppress non-error output"
	DescDebug    = "Enable debug logging"
	DescAll      = "Fire every configured event"
	DescInput    = "Template file"
	DescOutput   = "Rendered file"
	DescName     = "Label used in log output"
	DescEvent    = "Lifecycle event that triggers the job"
	DescVar      = "Template variable as key=value (repeatable)"
	DescVarsFile = "YAML or JSON file of template variables"
	DescYes      = "Do not prompt; use flag values"
)

// engineUsage lists the available engines in the --engine help text.
func engineUsage() string {
	return fmt.Sprintf("%s (%s)", DescEngine, strings.Join(engine.Names(), ", "))
}

// ValidateEventName checks that an event name is usable as a hook key.
func ValidateEventName(event string) error {
	if strings.TrimSpace(event) == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if strings.ContainsAny(event, " \t\n") {
		return fmt.Errorf("event name cannot contain whitespace: %q", event)
	}
	return nil
}
