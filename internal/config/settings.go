package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tacogips/dottmpl/internal/debug"
)

// Settings is a parsed host settings file. Mappings are normalized to
// map[string]interface{} so the tree can be decoded like JSON.
type Settings struct {
	path string
	root map[string]interface{}
}

// NewSettings wraps an in-memory settings tree. A nil root is treated as
// an empty mapping.
func NewSettings(root map[string]interface{}) *Settings {
	if root == nil {
		root = map[string]interface{}{}
	}
	return &Settings{root: root}
}

// LoadSettings reads a host settings file. Files ending in .json are parsed
// as JSON, everything else as YAML.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "settings file not found", err)
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read settings file", err)
	}

	s, err := ParseSettings(data, isJSON(path))
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.File = path
		}
		return nil, err
	}
	s.path = path

	debug.Named("config").Debug("loaded settings", "path", path, "keys", len(s.root))
	return s, nil
}

// ParseSettings parses settings content as JSON or YAML.
func ParseSettings(data []byte, asJSON bool) (*Settings, error) {
	var raw interface{}
	if asJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, "", "invalid JSON syntax", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, "", "invalid YAML syntax", err)
		}
	}

	if raw == nil {
		return NewSettings(nil), nil
	}
	root, ok := normalizeTree(raw).(map[string]interface{})
	if !ok {
		return nil, NewConfigError(ConfigInvalid, "", fmt.Sprintf("settings must be a mapping, got %T", raw))
	}
	return NewSettings(root), nil
}

// Path returns the file the settings were loaded from.
func (s *Settings) Path() string {
	return s.path
}

// Root returns the settings tree.
func (s *Settings) Root() map[string]interface{} {
	return s.root
}

// Lookup returns the value at a dotted key such as "custom.dotTemplate".
// The second result is false when any segment is missing.
func (s *Settings) Lookup(key string) (interface{}, bool) {
	var cur interface{} = s.root
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores value at a dotted key, creating intermediate mappings. An
// existing non-mapping value on the path is an error.
func (s *Settings) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	cur := s.root
	for i, part := range parts[:len(parts)-1] {
		next, ok := cur[part]
		if !ok || next == nil {
			m := map[string]interface{}{}
			cur[part] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]interface{})
		if !ok {
			return NewConfigErrorWithField(ConfigInvalid, s.path, strings.Join(parts[:i+1], "."),
				fmt.Sprintf("expected a mapping, got %T", next))
		}
		cur = m
	}
	cur[parts[len(parts)-1]] = value
	return nil
}

// Save writes the settings to path in the format implied by its extension.
func (s *Settings) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(s.root, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(s.root)
	}
	if err != nil {
		return NewConfigErrorWithCause(ConfigInvalid, path, "failed to marshal settings", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return NewConfigErrorWithCause(ConfigInvalid, path, fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return NewConfigErrorWithCause(ConfigInvalid, path, "failed to write settings file", err)
	}

	s.path = path
	return nil
}

// normalizeTree converts YAML mappings with non-string keys into
// map[string]interface{} recursively.
func normalizeTree(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, e := range t {
			t[k] = normalizeTree(e)
		}
		return t
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalizeTree(e)
		}
		return out
	case []interface{}:
		for i, e := range t {
			t[i] = normalizeTree(e)
		}
		return t
	default:
		return v
	}
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
