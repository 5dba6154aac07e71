package config

import (
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/tacogips/dottmpl/internal/hook"
	"github.com/tacogips/dottmpl/internal/template/engine"
)

const (
	// DefaultSettingsFile is the host settings file read when none is given.
	DefaultSettingsFile = "serverless.yml"
	// DefaultSettingsKey is the dotted path of the job descriptors.
	DefaultSettingsKey = "custom.dotTemplate"
	// DefaultFileMode is the permission of rendered files.
	DefaultFileMode = "0644"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			File: DefaultSettingsFile,
			Key:  DefaultSettingsKey,
		},
		Templates: TemplateConfig{
			Engine:       engine.Default,
			DefaultEvent: hook.DefaultEvent,
		},
		Writer: WriterConfig{
			Mode: DefaultFileMode,
		},
		Output: OutputConfig{
			Color:   true,
			Verbose: false,
			Quiet:   false,
		},
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	homeDir, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "dottmpl", "config.yaml")
}
