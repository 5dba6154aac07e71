package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/tacogips/dottmpl/internal/debug"
)

// Loader defines the interface for loading configuration files.
type Loader interface {
	// Load loads configuration from the specified file path.
	Load(path string) (*Config, error)
	// LoadOrDefault loads configuration or returns defaults if file doesn't exist.
	LoadOrDefault(path string) (*Config, error)
	// Validate validates the configuration.
	Validate(config *Config) error
}

// FileLoader implements the Loader interface for file-based configuration loading.
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
type FileLoader struct{}

// NewLoader creates a new FileLoader instance.
func NewLoader() Loader {
	return &FileLoader{}
}

// Load loads configuration from the specified file path.
func (l *FileLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "configuration file not found", err)
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read configuration file", err)
	}

	// Decode over the defaults so keys absent from the file, booleans
	// included, keep their default values.
	cfg := DefaultConfig()
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, path, "invalid YAML syntax", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, path, "invalid JSON syntax", err)
		}
	}

	// Explicitly empty strings fall back to defaults too.
	mergeConfig(cfg, DefaultConfig())

	debug.Named("config").Debug("loaded configuration", "path", path)
	return cfg, nil
}

// LoadOrDefault loads configuration or returns defaults if file doesn't exist.
func (l *FileLoader) LoadOrDefault(path string) (*Config, error) {
	cfg, err := l.Load(path)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Type == ConfigNotFound {
			debug.Named("config").Debug("configuration not found, using defaults", "path", path)
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func (l *FileLoader) Validate(config *Config) error {
	return Validate(config)
}

// mergeConfig merges missing fields from defaults into cfg.
func mergeConfig(cfg, defaults *Config) {
	// Settings
	if cfg.Settings.File == "" {
		cfg.Settings.File = defaults.Settings.File
	}
	if cfg.Settings.Key == "" {
		cfg.Settings.Key = defaults.Settings.Key
	}

	// Templates
	if cfg.Templates.Engine == "" {
		cfg.Templates.Engine = defaults.Templates.Engine
	}
	if cfg.Templates.DefaultEvent == "" {
		cfg.Templates.DefaultEvent = defaults.Templates.DefaultEvent
	}

	// Writer
	if cfg.Writer.Mode == "" {
		cfg.Writer.Mode = defaults.Writer.Mode
	}
	if cfg.Writer.Atomic == nil {
		cfg.Writer.Atomic = defaults.Writer.Atomic
	}
}

// ExpandPath expands ~ to home directory and evaluates relative paths.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand home directory: %w", err)
	}

	// Make absolute path
	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return absPath, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
