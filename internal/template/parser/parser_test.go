package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestInterpolate tests {{= expr }} substitution
func TestInterpolate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		vars     interface{}
		expected string
		wantErr  string
	}{
		{
			name:     "basic multiline",
			input:    "Basic {{=vars.x}}{{=vars.y || ''}}\nTest",
			vars:     map[string]interface{}{"x": "multiline"},
			expected: "Basic multiline\nTest",
		},
		{
			name:     "missing property prints undefined",
			input:    "Basic {{=vars.x}}{{=vars.y || ''}}\nTest",
			vars:     map[string]interface{}{"y": "hello"},
			expected: "Basic undefinedhello\nTest",
		},
		{
			name:    "undefined identifier",
			input:   "Basic {{=xxx}}\nTest",
			vars:    map[string]interface{}{},
			wantErr: "xxx is not defined",
		},
		{
			name:     "whitespace preserved",
			input:    "  a\n\n\t{{= vars.v }}  \n  b  ",
			vars:     map[string]interface{}{"v": "x"},
			expected: "  a\n\n\tx  \n  b  ",
		},
		{
			name:     "quotes and backslashes in text",
			input:    `it's C:\tmp\{{= vars.v }}`,
			vars:     map[string]interface{}{"v": "x"},
			expected: `it's C:\tmp\x`,
		},
		{
			name:     "numbers",
			input:    "{{=vars.i}} {{=vars.f}} {{=vars.n}} {{=vars.small}}",
			vars:     map[string]interface{}{"i": 8080, "f": 1.5, "n": float64(3), "small": 0.0000001},
			expected: "8080 1.5 3 1e-7",
		},
		{
			name:     "null and booleans",
			input:    "{{=vars.a}} {{=vars.b}}",
			vars:     map[string]interface{}{"a": nil, "b": true},
			expected: "null true",
		},
		{
			name:     "arrays and objects",
			input:    "{{=vars.list}} {{=vars.obj}} {{=vars.list.length}} {{=vars.list[1]}}",
			vars:     map[string]interface{}{"list": []interface{}{"a", nil, "c"}, "obj": map[string]interface{}{}},
			expected: "a,,c [object Object] 3 null",
		},
		{
			name:     "bracket access",
			input:    "{{= vars['my-key'] }}",
			vars:     map[string]interface{}{"my-key": "ok"},
			expected: "ok",
		},
		{
			name:     "concatenation and ternary",
			input:    "{{= vars.env === 'prod' ? 'live-' + vars.name : vars.name }}",
			vars:     map[string]interface{}{"env": "prod", "name": "api"},
			expected: "live-api",
		},
		{
			name:     "method calls",
			input:    "{{= JSON.stringify(vars) }} {{= vars.name.toUpperCase() }}",
			vars:     map[string]interface{}{"name": "api", "port": 80},
			expected: `{"name":"api","port":80} API`,
		},
		{
			name:     "typed go map",
			input:    "{{= vars.region }}",
			vars:     map[string]string{"region": "eu-west-1"},
			expected: "eu-west-1",
		},
		{
			name:     "unmatched open delimiter is text",
			input:    "a {{ b",
			vars:     map[string]interface{}{},
			expected: "a {{ b",
		},
		{
			name:     "empty tag is text",
			input:    "a {{}} b",
			vars:     map[string]interface{}{},
			expected: "a {{}} b",
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.Parse(context.Background(), []byte(tt.input), tt.vars)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got none", tt.wantErr)
				}
				if err.Error() != tt.wantErr {
					t.Errorf("expected error %q, got %q", tt.wantErr, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(result))
			}
		})
	}
}

func TestEvalErrorType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		vars     interface{}
		wantType EvalErrorType
		contains string
	}{
		{"reference", "{{= missing }}", nil, ReferenceError, "missing is not defined"},
		{"property of undefined", "{{= vars.a.b }}", map[string]interface{}{}, TypeError, "'b'"},
		{"nil bindings", "{{= vars.a }}", nil, TypeError, "'a'"},
		{"thrown string", "{{ throw 'boom'; }}", nil, OtherError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(context.Background(), []byte(tt.input), tt.vars)

			var evalErr *EvalError
			if !errors.As(err, &evalErr) {
				t.Fatalf("expected *EvalError, got %T (%v)", err, err)
			}
			if evalErr.Type != tt.wantType {
				t.Errorf("expected %s, got %s", tt.wantType, evalErr.Type)
			}
			if !strings.Contains(evalErr.Message, tt.contains) {
				t.Errorf("message %q does not contain %q", evalErr.Message, tt.contains)
			}
			if strings.Contains(evalErr.Message, "Error:") || strings.Contains(evalErr.Message, " at ") {
				t.Errorf("message should carry no class or stack, got %q", evalErr.Message)
			}
		})
	}
}

// TestEncode tests {{! expr }} HTML encoding
func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"markup", `<a href="/x">'q'</a>`, "&#60;a href=&#34;&#47;x&#34;&#62;&#39;q&#39;&#60;&#47;a&#62;"},
		{"existing entity kept", "fish &amp; chips & peas", "fish &amp; chips &#38; peas"},
		{"falsy is empty", 0, ""},
		{"null is empty", nil, ""},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := map[string]interface{}{"v": tt.value}
			result, err := parser.Parse(context.Background(), []byte("{{! vars.v }}"), vars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(result))
			}
		})
	}
}

// TestConditional tests {{? }} / {{?? }} / {{?}} blocks
func TestConditional(t *testing.T) {
	input := "{{? vars.mode === 'a' }}A{{?? vars.mode === 'b' }}B{{??}}other{{?}}"

	tests := []struct {
		mode     interface{}
		expected string
	}{
		{"a", "A"},
		{"b", "B"},
		{"c", "other"},
		{nil, "other"},
	}

	parser := NewParser()
	for _, tt := range tests {
		result, err := parser.Parse(context.Background(), []byte(input), map[string]interface{}{"mode": tt.mode})
		if err != nil {
			t.Fatalf("mode=%v: unexpected error: %v", tt.mode, err)
		}
		if string(result) != tt.expected {
			t.Errorf("mode=%v: expected %q, got %q", tt.mode, tt.expected, string(result))
		}
	}
}

// TestIterate tests {{~ list :value:index }} blocks
func TestIterate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		vars     map[string]interface{}
		expected string
	}{
		{
			name:     "value and index",
			input:    "{{~ vars.items :item:i }}{{= i }}={{= item.name }};{{~}}",
			vars:     map[string]interface{}{"items": []interface{}{map[string]interface{}{"name": "a"}, map[string]interface{}{"name": "b"}}},
			expected: "0=a;1=b;",
		},
		{
			name:     "missing list renders nothing",
			input:    "[{{~ vars.items :item }}x{{~}}]",
			vars:     map[string]interface{}{},
			expected: "[]",
		},
		{
			name:     "nested scope sees outer names",
			input:    "{{~ vars.a :x }}{{~ vars.b :y }}{{= x }}{{= y }} {{~}}{{~}}",
			vars:     map[string]interface{}{"a": []interface{}{"1", "2"}, "b": []string{"p"}},
			expected: "1p 2p ",
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.Parse(context.Background(), []byte(tt.input), tt.vars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(result))
			}
		})
	}
}

// TestEvaluate tests arbitrary {{ code }} blocks
func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		vars     map[string]interface{}
		expected string
	}{
		{name: "blank block", input: "a{{ }}b", expected: "ab"},
		{
			name:     "loop",
			input:    "{{ for (var n = 0; n < vars.count; n++) { }}{{= n }}{{ } }}",
			vars:     map[string]interface{}{"count": 3},
			expected: "012",
		},
		{
			name:     "local variable",
			input:    "{{ var host = vars.host || 'localhost'; }}http://{{= host }}/",
			vars:     map[string]interface{}{},
			expected: "http://localhost/",
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.Parse(context.Background(), []byte(tt.input), tt.vars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(result))
			}
		})
	}
}

func TestTemplateCannotMutateBindings(t *testing.T) {
	vars := map[string]interface{}{"list": []interface{}{"a"}, "name": "api"}

	_, err := NewParser().Parse(context.Background(), []byte("{{ vars.name = 'x'; vars.list.push('b'); }}"), vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]interface{}{"list": []interface{}{"a"}, "name": "api"}
	if diff := cmp.Diff(want, vars); diff != "" {
		t.Errorf("bindings changed (-want +got):\n%s", diff)
	}
}

// TestDefines tests {{## }} compile-time defines and {{# }} uses
func TestDefines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "text define",
			input:    "{{##def.greeting:Hello {{=vars.name}}#}}{{#def.greeting}}!",
			expected: "Hello api!",
		},
		{
			name:     "value define",
			input:    "{{##def.answer=40+2#}}{{#def.answer}}",
			expected: "42",
		},
		{
			name:     "parameterized define",
			input:    "{{##def.bold:x:<b>{{=x}}</b>#}}{{#def.bold:vars.name}}",
			expected: "<b>api</b>",
		},
		{
			name:     "first define wins",
			input:    "{{##def.a:one#}}{{##def.a:two#}}{{#def.a}}",
			expected: "one",
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.Parse(context.Background(), []byte(tt.input), map[string]interface{}{"name": "api"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(result))
			}
		})
	}
}

// TestCompileErrors tests syntax validation
func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errType ParseErrorType
		wantErr bool
	}{
		{name: "valid", input: "{{= vars.a }}{{? vars.b }}x{{?}}"},
		{name: "define", input: "{{##def.x:1#}}"},
		{name: "unclosed conditional", input: "{{? vars.b }}x", errType: InvalidSyntax, wantErr: true},
		{name: "unclosed iterate", input: "{{~ vars.b :v }}x", errType: InvalidSyntax, wantErr: true},
		{name: "stray endif", input: "x{{?}}", errType: InvalidSyntax, wantErr: true},
		{name: "stray else", input: "{{??}}", errType: InvalidSyntax, wantErr: true},
		{name: "bad expression", input: "{{= vars. }}", errType: InvalidSyntax, wantErr: true},
		{name: "bad iterate", input: "{{~ vars.a }}{{~}}", errType: InvalidSyntax, wantErr: true},
		{name: "failing define", input: "{{##def.x=nope#}}", errType: InvalidDefine, wantErr: true},
		{name: "failing use", input: "{{#def.x.y}}", errType: InvalidDefine, wantErr: true},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Compile([]byte(tt.input))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T (%v)", err, err)
			}
			if parseErr.Type != tt.errType {
				t.Errorf("expected error type %d, got %d (%v)", tt.errType, parseErr.Type, parseErr)
			}
		})
	}
}

func TestCancelledExecution(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewParser().Parse(ctx, []byte("{{ while (true) {} }}"), nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestExtractVariables(t *testing.T) {
	input := "{{= vars.b }}{{? vars.a && vars.c === 'x' }}{{~ vars.list :v }}{{= v.inner }}{{~}}{{?}}{{= vars['d-e'] }}" +
		"text vars.notcode {{ var z = vars.b; }}"

	got, err := NewParser().ExtractVariables([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "b", "c", "d-e", "list"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractVariables mismatch (-want +got):\n%s", diff)
	}
}

func TestWithVarName(t *testing.T) {
	p := NewParser(WithVarName("it"))

	result, err := p.Parse(context.Background(), []byte("{{= it.x }}"), map[string]interface{}{"x": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != "1" {
		t.Errorf("expected %q, got %q", "1", string(result))
	}

	_, err = p.Parse(context.Background(), []byte("{{= vars.x }}"), map[string]interface{}{"x": 1})
	if err == nil || err.Error() != "vars is not defined" {
		t.Errorf("expected vars to be undefined, got %v", err)
	}
}
