package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tacogips/dottmpl/internal/hook"
)

// stubRenderer records the inputs it renders and fails for one of them.
type stubRenderer struct {
	calls  *[]string
	failOn string
}

func (s stubRenderer) Render(ctx context.Context, input, output string, vars interface{}) error {
	*s.calls = append(*s.calls, input)
	if input == s.failOn {
		return errors.New("boom")
	}
	return nil
}

func job(event, input string) hook.Job {
	return hook.Job{Event: event, Input: hook.String(input), Output: hook.String(input + ".out"), Vars: map[string]interface{}{}}
}

func TestDispatcherFire(t *testing.T) {
	var calls []string
	r := stubRenderer{calls: &calls}

	d := NewDispatcher()
	d.Register("first", hook.Build([]hook.Job{job("a", "1"), job("b", "2")}, hook.WithRenderer(r)))
	d.Register("second", hook.Build([]hook.Job{job("b", "3"), job("c", "4")}, hook.WithRenderer(r)))

	if diff := cmp.Diff([]string{"a", "b", "c"}, d.Events()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	if err := d.Fire(context.Background(), "b"); err != nil {
		t.Fatalf("Fire failed: %v", err)
	}
	if diff := cmp.Diff([]string{"2", "3"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	if err := d.Fire(context.Background(), "unknown"); err != nil {
		t.Errorf("firing an unknown event should be a no-op, got %v", err)
	}
	if d.Has("unknown") || !d.Has("c") {
		t.Error("Has returned unexpected results")
	}
}

func TestDispatcherFireAllStopsOnError(t *testing.T) {
	var calls []string
	r := stubRenderer{calls: &calls, failOn: "2"}

	d := NewDispatcher()
	d.Register("dot", hook.Build([]hook.Job{job("a", "1"), job("b", "2"), job("c", "3")}, hook.WithRenderer(r)))

	err := d.FireAll(context.Background())
	if err == nil {
		t.Fatal("expected error, got none")
	}
	if err.Error() != "2: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var hookErr *HookError
	if !errors.As(err, &hookErr) {
		t.Fatalf("expected *HookError, got %T", err)
	}
	if hookErr.Event != "b" || hookErr.Plugin != "dot" {
		t.Errorf("unexpected origin %s/%s", hookErr.Plugin, hookErr.Event)
	}
	if hookErr.Describe() != "b (dot): 2: boom" {
		t.Errorf("unexpected description %q", hookErr.Describe())
	}

	var renderErr *hook.RenderError
	if !errors.As(err, &renderErr) {
		t.Errorf("expected wrapped *hook.RenderError")
	}
	if diff := cmp.Diff([]string{"1", "2"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatcherRegisterNil(t *testing.T) {
	d := NewDispatcher()
	d.Register("none", nil)
	if len(d.Events()) != 0 {
		t.Errorf("expected no events, got %v", d.Events())
	}
}
