package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const serverlessYAML = `service: api
custom:
  dotTemplate:
    - name: config
      input: templates/config.dot
      output: build/config.json
      vars:
        region: eu-west-1
        port: 8080
    - input: templates/env.dot
      output: .env
      event: before:deploy:deploy
      vars: {}
`

func TestLoadSettingsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serverless.yml")
	if err := os.WriteFile(path, []byte(serverlessYAML), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.Path() != path {
		t.Errorf("Expected path %s, got %s", path, s.Path())
	}

	v, ok := s.Lookup("custom.dotTemplate")
	if !ok {
		t.Fatal("Expected custom.dotTemplate to be present")
	}
	jobs, ok := v.([]interface{})
	if !ok || len(jobs) != 2 {
		t.Fatalf("Expected 2 descriptors, got %#v", v)
	}

	first, ok := jobs[0].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected mapping, got %T", jobs[0])
	}
	want := map[string]interface{}{"region": "eu-west-1", "port": 8080}
	if diff := cmp.Diff(want, first["vars"]); diff != "" {
		t.Errorf("vars mismatch (-want +got):\n%s", diff)
	}

	if _, ok := s.Lookup("custom.missing"); ok {
		t.Error("Expected custom.missing to be absent")
	}
	if _, ok := s.Lookup("service.name"); ok {
		t.Error("Expected lookup through a scalar to fail")
	}
}

func TestLoadSettingsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serverless.json")
	content := `{"custom": {"dotTemplate": {"input": "a.dot", "output": "a.txt", "vars": {"n": 1}}}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	v, ok := s.Lookup("custom.dotTemplate.vars.n")
	if !ok || v != float64(1) {
		t.Errorf("Expected 1, got %#v", v)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		typ     ConfigErrorType
	}{
		{name: "missing", file: "none.yml", typ: ConfigNotFound},
		{name: "bad yaml", file: "bad.yml", content: "custom: [", typ: ConfigInvalid},
		{name: "bad json", file: "bad.json", content: "{", typ: ConfigInvalid},
		{name: "not a mapping", file: "list.yml", content: "- a\n- b\n", typ: ConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatalf("Failed to write settings: %v", err)
				}
			}

			_, err := LoadSettings(path)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigError, got %T (%v)", err, err)
			}
			if cfgErr.Type != tt.typ {
				t.Errorf("Expected %v, got %v", tt.typ, cfgErr.Type)
			}
			if cfgErr.File != path {
				t.Errorf("Expected file %s, got %s", path, cfgErr.File)
			}
		})
	}
}

func TestParseSettingsEmpty(t *testing.T) {
	s, err := ParseSettings([]byte(""), false)
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	if len(s.Root()) != 0 {
		t.Errorf("Expected empty tree, got %v", s.Root())
	}
}

func TestSettingsSetAndSave(t *testing.T) {
	s := NewSettings(map[string]interface{}{"service": "api"})

	job := map[string]interface{}{"input": "a.dot", "output": "a.txt", "vars": map[string]interface{}{}}
	if err := s.Set("custom.dotTemplate", []interface{}{job}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("service.name", "x"); err == nil {
		t.Error("Expected error setting below a scalar")
	}

	for _, name := range []string{"out/serverless.yml", "out/serverless.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := s.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := LoadSettings(path)
			if err != nil {
				t.Fatalf("LoadSettings failed: %v", err)
			}
			v, ok := loaded.Lookup("custom.dotTemplate")
			if !ok {
				t.Fatal("Expected custom.dotTemplate after save")
			}
			if diff := cmp.Diff([]interface{}{job}, v); diff != "" {
				t.Errorf("descriptors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
