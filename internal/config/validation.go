package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tacogips/dottmpl/internal/template/engine"
)

// Validate validates the global configuration.
func Validate(config *Config) error {
	if config == nil {
		return NewConfigError(ConfigValidationFailed, "", "configuration cannot be nil")
	}

	if strings.TrimSpace(config.Settings.File) == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "settings.file", "settings file is required")
	}
	if err := validateKey(config.Settings.Key); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "settings.key", err.Error())
	}

	if !engine.IsKnown(config.Templates.Engine) {
		return NewConfigErrorWithField(
			ConfigValidationFailed,
			"",
			"templates.engine",
			fmt.Sprintf("unknown engine %q (available: %s)", config.Templates.Engine, strings.Join(engine.Names(), ", ")),
		)
	}
	if strings.TrimSpace(config.Templates.DefaultEvent) == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "templates.default_event", "default event cannot be empty")
	}

	if _, err := ParseFileMode(config.Writer.Mode); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "writer.mode", err.Error())
	}

	if config.Output.Quiet && config.Output.Verbose {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "output", "quiet and verbose cannot both be set")
	}

	return nil
}

// ParseFileMode parses an octal permission string such as "0644". An empty
// string yields the default mode.
func ParseFileMode(mode string) (os.FileMode, error) {
	if mode == "" {
		mode = DefaultFileMode
	}
	v, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: must be octal like 0644", mode)
	}
	if v > 0777 {
		return 0, fmt.Errorf("invalid file mode %q: only permission bits are allowed", mode)
	}
	if v&0200 == 0 {
		return 0, fmt.Errorf("invalid file mode %q: owner must be able to write", mode)
	}
	return os.FileMode(v), nil
}

// validateKey checks a dotted settings path.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("settings key is required")
	}
	for _, part := range strings.Split(key, ".") {
		if part == "" {
			return fmt.Errorf("settings key %q has an empty segment", key)
		}
	}
	return nil
}
