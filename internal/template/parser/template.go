package parser

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dop251/goja"
)

// Template is a compiled template. It holds no runtime state; every
// Execute call runs in a fresh JavaScript runtime.
type Template struct {
	program   *goja.Program
	variables []string
}

// Variables returns the binding properties the template reads, sorted.
func (t *Template) Variables() []string {
	out := make([]string, len(t.variables))
	copy(out, t.variables)
	return out
}

// Execute runs the template with vars bound as the first parameter.
// Cancelling ctx interrupts a running template.
func (t *Template) Execute(ctx context.Context, vars interface{}) (string, error) {
	rt := goja.New()
	stop := context.AfterFunc(ctx, func() { rt.Interrupt(ctx.Err()) })
	defer stop()

	fnVal, err := rt.RunProgram(t.program)
	if err != nil {
		return "", evalError(err)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return "", fmt.Errorf("compiled template is not a function")
	}

	bound := goja.Undefined()
	if vars != nil {
		bound = toValue(rt, vars)
	}

	out, err := fn(goja.Undefined(), bound, rt.ToValue(htmlEncoder(rt)))
	if err != nil {
		return "", evalError(err)
	}
	return out.String(), nil
}

// toValue copies Go data into native JavaScript values so templates can
// neither mutate the caller's data nor see Go-specific behaviour. Map keys
// are inserted in sorted order.
func toValue(rt *goja.Runtime, v interface{}) goja.Value {
	switch t := v.(type) {
	case nil:
		return goja.Null()
	case goja.Value:
		return t
	case string, bool, int, int64, float64:
		return rt.ToValue(t)
	case map[string]interface{}:
		obj := rt.NewObject()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_ = obj.Set(k, toValue(rt, t[k]))
		}
		return obj
	case []interface{}:
		items := make([]interface{}, len(t))
		for i, el := range t {
			items[i] = toValue(rt, el)
		}
		return rt.NewArray(items...)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		obj := rt.NewObject()
		keys := make([]string, 0, rv.Len())
		values := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			values[k] = iter.Value().Interface()
		}
		sort.Strings(keys)
		for _, k := range keys {
			_ = obj.Set(k, toValue(rt, values[k]))
		}
		return obj
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return goja.Null()
		}
		items := make([]interface{}, rv.Len())
		for i := range items {
			items[i] = toValue(rt, rv.Index(i).Interface())
		}
		return rt.NewArray(items...)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return goja.Null()
		}
		return toValue(rt, rv.Elem().Interface())
	}
	return rt.ToValue(v)
}

// htmlEncoder returns the encodeHTML function used by {{! }} tags. Falsy
// values encode to the empty string and ampersands that already start an
// entity are kept.
func htmlEncoder(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		v := call.Argument(0)
		if !v.ToBoolean() {
			return rt.ToValue("")
		}
		return rt.ToValue(encodeHTML(v.String()))
	}
}

var htmlReplacements = map[byte]string{
	'&':  "&#38;",
	'<':  "&#60;",
	'>':  "&#62;",
	'"':  "&#34;",
	'\'': "&#39;",
	'/':  "&#47;",
}

func encodeHTML(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '&' && startsEntity(s[i+1:]) {
			b.WriteByte(c)
			continue
		}
		if r, ok := htmlReplacements[c]; ok {
			b.WriteString(r)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// startsEntity reports whether s begins with "#?\w+;".
func startsEntity(s string) bool {
	i := 0
	if i < len(s) && s[i] == '#' {
		i++
	}
	start := i
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	return i > start && i < len(s) && s[i] == ';'
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
