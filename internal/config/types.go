package config

// Config represents the global dottmpl configuration.
type Config struct {
	// Settings locates the host settings file and the job descriptors in it.
	Settings SettingsConfig `json:"settings" yaml:"settings"`
	// Templates configures template rendering.
	Templates TemplateConfig `json:"templates" yaml:"templates"`
	// Writer configures how rendered files are written.
	Writer WriterConfig `json:"writer" yaml:"writer"`
	// Output configuration for display and logging.
	Output OutputConfig `json:"output" yaml:"output"`
}

// SettingsConfig represents where job descriptors are read from.
type SettingsConfig struct {
	// File is the host settings file (YAML or JSON).
	File string `json:"file" yaml:"file"`
	// Key is the dotted path of the descriptors inside the settings tree.
	Key string `json:"key" yaml:"key"`
}

// TemplateConfig represents template processing settings.
type TemplateConfig struct {
	// Engine is the template engine name (dot, gotemplate, pongo2).
	Engine string `json:"engine" yaml:"engine"`
	// DefaultEvent is the lifecycle event for jobs that do not name one.
	DefaultEvent string `json:"default_event" yaml:"default_event"`
}

// WriterConfig represents output file settings.
type WriterConfig struct {
	// Atomic writes through a temporary file and rename. Nil means the default.
	Atomic *bool `json:"atomic,omitempty" yaml:"atomic,omitempty"`
	// Mode is the octal permission of rendered files, e.g. "0644".
	Mode string `json:"mode" yaml:"mode"`
}

// IsAtomic reports whether atomic writes are enabled.
func (w WriterConfig) IsAtomic() bool {
	return w.Atomic == nil || *w.Atomic
}

// OutputConfig represents output and display settings.
type OutputConfig struct {
	// Color enables colored terminal output.
	Color bool `json:"color" yaml:"color"`
	// Verbose enables verbose logging output.
	Verbose bool `json:"verbose" yaml:"verbose"`
	// Quiet suppresses non-error output.
	Quiet bool `json:"quiet" yaml:"quiet"`
}
