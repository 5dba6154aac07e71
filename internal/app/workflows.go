package app

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tacogips/dottmpl/internal/config"
	"github.com/tacogips/dottmpl/internal/debug"
	"github.com/tacogips/dottmpl/internal/hook"
	"github.com/tacogips/dottmpl/internal/plugin"
	"github.com/tacogips/dottmpl/internal/template/engine"
	"github.com/tacogips/dottmpl/internal/template/generator"
)

// Options holds the settings shared by every workflow.
type Options struct {
	// Config is the tool configuration. Nil means defaults.
	Config *config.Config
	// SettingsFile overrides Config.Settings.File.
	SettingsFile string
	// Engine overrides Config.Templates.Engine.
	Engine string
	// Log receives the per-job log lines.
	Log hook.LogFunc
}

func (o Options) config() *config.Config {
	if o.Config != nil {
		return o.Config
	}
	return config.DefaultConfig()
}

func (o Options) settingsFile() string {
	if o.SettingsFile != "" {
		return o.SettingsFile
	}
	return o.config().Settings.File
}

func (o Options) engineName() string {
	if o.Engine != "" {
		return o.Engine
	}
	return o.config().Templates.Engine
}

// NewRenderer creates the file renderer described by the options.
func NewRenderer(opts Options) (*generator.FileRenderer, error) {
	cfg := opts.config()

	e, err := engine.New(opts.engineName())
	if err != nil {
		return nil, NewValidationError("invalid template engine", err)
	}

	mode, err := config.ParseFileMode(cfg.Writer.Mode)
	if err != nil {
		return nil, NewValidationError("invalid writer configuration", err)
	}

	writer := generator.NewFileWriter(
		generator.WithFileMode(mode),
		generator.WithAtomic(cfg.Writer.IsAtomic()),
	)
	return generator.NewRenderer(generator.WithEngine(e), generator.WithWriter(writer)), nil
}

// loadPlugin reads the settings file and builds the template plugin from it.
func loadPlugin(opts Options) (*plugin.DotTemplate, error) {
	cfg := opts.config()

	path, err := config.ExpandPath(opts.settingsFile())
	if err != nil {
		return nil, NewSettingsLoadError("failed to resolve settings path", err)
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		return nil, NewSettingsLoadError("failed to load settings", err)
	}

	renderer, err := NewRenderer(opts)
	if err != nil {
		return nil, err
	}

	p, err := plugin.New(settings, plugin.Options{
		Key:          cfg.Settings.Key,
		DefaultEvent: cfg.Templates.DefaultEvent,
		Renderer:     renderer,
		Log:          opts.Log,
	})
	if err != nil {
		return nil, NewPluginInitError(fmt.Sprintf("invalid %s in %s", cfg.Settings.Key, path), err)
	}

	debug.Named("app").Debug("loaded jobs", "path", path, "jobs", len(p.Jobs()))
	return p, nil
}

// ParseVarFlags parses key=value pairs. Values are decoded as YAML scalars,
// so "8080" becomes a number and "true" a boolean; dotted keys build nested
// mappings.
func ParseVarFlags(pairs []string) (map[string]interface{}, error) {
	vars := make(map[string]interface{})
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q: expected key=value", pair)
		}

		var value interface{}
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
			value = raw
		}

		if err := setPath(vars, key, value); err != nil {
			return nil, fmt.Errorf("invalid variable %q: %w", pair, err)
		}
	}
	return vars, nil
}

func setPath(m map[string]interface{}, key string, value interface{}) error {
	parts := strings.Split(key, ".")
	cur := m
	for _, part := range parts[:len(parts)-1] {
		if part == "" {
			return fmt.Errorf("empty key segment")
		}
		next, ok := cur[part].(map[string]interface{})
		if !ok {
			if _, exists := cur[part]; exists {
				return fmt.Errorf("%s is already set to a scalar", part)
			}
			next = make(map[string]interface{})
			cur[part] = next
		}
		cur = next
	}
	last := parts[len(parts)-1]
	if last == "" {
		return fmt.Errorf("empty key segment")
	}
	cur[last] = value
	return nil
}

// mergeVars copies src into dst, descending into nested mappings.
func mergeVars(dst, src map[string]interface{}) {
	for k, v := range src {
		sm, sok := v.(map[string]interface{})
		dm, dok := dst[k].(map[string]interface{})
		if sok && dok {
			mergeVars(dm, sm)
			continue
		}
		dst[k] = v
	}
}
