package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tacogips/dottmpl/internal/config"
	"github.com/tacogips/dottmpl/internal/hook"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestDotTemplateFromSettings(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test", "basic.dot")
	output := filepath.Join(dir, "test", "basic.tmpl")
	writeFile(t, input, "Basic {{=vars.x}}{{=vars.y || ''}}\nTest")

	settings := config.NewSettings(map[string]interface{}{
		"custom": map[string]interface{}{
			"dotTemplate": map[string]interface{}{
				"name":   "Test",
				"input":  input,
				"output": output,
				"vars":   map[string]interface{}{"x": "multiline"},
			},
		},
	})

	var lines []string
	p, err := New(settings, Options{Log: func(line string) { lines = append(lines, line) }})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if p.Name() != "DotTemplate" {
		t.Errorf("unexpected name %q", p.Name())
	}
	if diff := cmp.Diff([]string{hook.DefaultEvent}, p.Hooks().Events()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}

	if err := p.Hooks().Run(context.Background(), hook.DefaultEvent); err != nil {
		t.Fatalf("hook failed: %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(got) != "Basic multiline\nTest" {
		t.Errorf("expected %q, got %q", "Basic multiline\nTest", string(got))
	}
	if diff := cmp.Diff([]string{"Generating template Test"}, lines); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
}

func TestDotTemplateCustomKeyAndEvent(t *testing.T) {
	settings := config.NewSettings(map[string]interface{}{
		"templates": []interface{}{
			map[string]interface{}{"input": "a.dot"},
			map[string]interface{}{"input": "b.dot", "event": "deploy"},
		},
	})

	p, err := New(settings, Options{Key: "templates", DefaultEvent: "before:package"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if diff := cmp.Diff([]string{"before:package", "deploy"}, p.Hooks().Events()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if len(p.Jobs()) != 2 {
		t.Errorf("expected 2 jobs, got %d", len(p.Jobs()))
	}
}

func TestDotTemplateMissingKey(t *testing.T) {
	p, err := New(config.NewSettings(nil), Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Hooks().Len() != 0 {
		t.Errorf("expected no hooks, got %v", p.Hooks().Events())
	}
}

func TestDotTemplateScalarDescriptor(t *testing.T) {
	settings := config.NewSettings(map[string]interface{}{
		"custom": map[string]interface{}{"dotTemplate": "not-a-descriptor"},
	})

	p, err := New(settings, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	err = p.Hooks().Run(context.Background(), hook.DefaultEvent)
	var cfgErr *hook.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *hook.ConfigError, got %T (%v)", err, err)
	}
	if cfgErr.Field != hook.FieldInput {
		t.Errorf("expected missing input, got %q", cfgErr.Field)
	}
}

func TestDotTemplateDecodeErrorDeferred(t *testing.T) {
	settings := config.NewSettings(map[string]interface{}{
		"custom": map[string]interface{}{"dotTemplate": map[string]interface{}{
			"input": map[string]interface{}{"nested": true},
		}},
	})

	p, err := New(settings, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	err = p.Hooks().Run(context.Background(), hook.DefaultEvent)
	var decErr *hook.DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *hook.DecodeError, got %T (%v)", err, err)
	}
}
