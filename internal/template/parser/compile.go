package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

// Tag patterns. They are applied to the whole source one after another,
// so a later pattern never sees a tag an earlier one already rewrote.
var (
	definePattern       = regexp.MustCompile(`\{\{##\s*([\w.$]+)\s*(:|=)([\s\S]+?)#\}\}`)
	defineParamsPattern = regexp.MustCompile(`^\s*([\w$]+):([\s\S]+)`)
	usePattern          = regexp.MustCompile(`\{\{#([\s\S]+?)\}\}`)
	useParamsPattern    = regexp.MustCompile(`(^|[^\w$])def(?:\.|\[['"])([\w$.]+)(?:['"]\])?\s*:\s*([\w$.]+|"[^"]+"|'[^']+'|\{[^}]+\})`)

	interpolatePattern = regexp.MustCompile(`\{\{=([\s\S]+?)\}\}`)
	encodePattern      = regexp.MustCompile(`\{\{!([\s\S]+?)\}\}`)
	conditionalPattern = regexp.MustCompile(`\{\{\?(\?)?\s*([\s\S]*?)\s*\}\}`)
	iteratePattern     = regexp.MustCompile(`\{\{~\s*(?:\}\}|([\s\S]+?)\s*:\s*([\w$]+)\s*(?::\s*([\w$]+))?\s*\}\})`)
	evaluatePattern    = regexp.MustCompile(`\{\{([\s\S]+?\}*)\}\}`)

	emptyAppendPattern = regexp.MustCompile(`(\s|;|\}|^|\{)out\+='';`)
)

var (
	quoteEscaper   = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	quoteUnescaper = regexp.MustCompile(`\\('|\\)`)
	codeSpacer     = strings.NewReplacer("\r", " ", "\t", " ", "\n", " ")
	lineEscaper    = strings.NewReplacer("\n", `\n`, "\t", `\t`, "\r", `\r`)
)

// replaceFunc is regexp.ReplaceAllStringFunc with access to the submatches.
// Groups that did not participate in the match are empty.
func replaceFunc(re *regexp.Regexp, s string, fn func(groups []string) (string, error)) (string, error) {
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		repl, err := fn(groups)
		if err != nil {
			return "", err
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(repl)
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// unescape reverts quote escaping inside tag code and flattens line breaks.
func unescape(code string) string {
	return codeSpacer.Replace(quoteUnescaper.ReplaceAllString(code, "$1"))
}

// compiler turns template source into the body of a JavaScript function
// that builds the output in a variable named out.
type compiler struct {
	varName string
	refs    *regexp.Regexp
	vars    map[string]struct{}
	loops   int

	// rt and def hold compile-time defines; created on first use.
	rt  *goja.Runtime
	def *goja.Object
}

func newCompiler(varName string) *compiler {
	q := regexp.QuoteMeta(varName)
	return &compiler{
		varName: varName,
		refs: regexp.MustCompile(`(?:^|[^\w$.])` + q +
			`\s*(?:\.\s*([A-Za-z_$][\w$]*)|\[\s*(?:'([^']*)'|"([^"]*)")\s*\])`),
		vars: make(map[string]struct{}),
	}
}

// code unescapes tag code and records the bindings it reads.
func (c *compiler) code(raw string) string {
	code := unescape(raw)
	for _, m := range c.refs.FindAllStringSubmatch(code, -1) {
		for _, name := range m[1:] {
			if name != "" {
				c.vars[name] = struct{}{}
				break
			}
		}
	}
	return code
}

// variables returns the recorded binding properties, sorted.
func (c *compiler) variables() []string {
	out := make([]string, 0, len(c.vars))
	for name := range c.vars {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// body translates source into the function body.
func (c *compiler) body(source string) (string, error) {
	str := source
	if strings.Contains(str, "{{#") {
		var err error
		if str, err = c.resolveDefs(str); err != nil {
			return "", err
		}
	}

	str = quoteEscaper.Replace(str)

	steps := []struct {
		re *regexp.Regexp
		fn func(g []string) (string, error)
	}{
		{interpolatePattern, func(g []string) (string, error) {
			return "'+(" + c.code(g[1]) + ")+'", nil
		}},
		{encodePattern, func(g []string) (string, error) {
			return "'+encodeHTML(" + c.code(g[1]) + ")+'", nil
		}},
		{conditionalPattern, c.conditional},
		{iteratePattern, c.iterate},
		{evaluatePattern, func(g []string) (string, error) {
			return "';" + c.code(g[1]) + "out+='", nil
		}},
	}
	for _, step := range steps {
		var err error
		if str, err = replaceFunc(step.re, str, step.fn); err != nil {
			return "", err
		}
	}

	str = lineEscaper.Replace("var out='" + str + "';return out;")
	str = emptyAppendPattern.ReplaceAllString(str, "${1}")
	return strings.ReplaceAll(str, "+''", ""), nil
}

func (c *compiler) conditional(g []string) (string, error) {
	elseCase, code := g[1] != "", g[2]
	switch {
	case elseCase && code != "":
		return "';}else if(" + c.code(code) + "){out+='", nil
	case elseCase:
		return "';}else{out+='", nil
	case code != "":
		return "';if(" + c.code(code) + "){out+='", nil
	default:
		return "';}out+='", nil
	}
}

func (c *compiler) iterate(g []string) (string, error) {
	list, value, index := g[1], g[2], g[3]
	if list == "" {
		return "';} } out+='", nil
	}
	c.loops++
	id := strconv.Itoa(c.loops)
	if index == "" {
		index = "i" + id
	}
	arr, last := "arr"+id, "l"+id
	return "';var " + arr + "=" + c.code(list) + ";if(" + arr + "){var " + value + "," + index + "=-1," +
		last + "=" + arr + ".length-1;while(" + index + "<" + last + "){" +
		value + "=" + arr + "[" + index + "+=1];out+='", nil
}

// resolveDefs expands {{## }} defines and {{# }} uses before the
// template itself is translated. Defines live in a def object that use
// blocks are evaluated against.
func (c *compiler) resolveDefs(block string) (string, error) {
	if c.rt == nil {
		c.rt = goja.New()
		c.def = c.rt.NewObject()
	}

	str, err := replaceFunc(definePattern, block, func(g []string) (string, error) {
		name, assign, value := strings.TrimPrefix(g[1], "def."), g[2], g[3]
		if c.def.Get(name) != nil {
			return "", nil
		}
		if assign == ":" {
			if m := defineParamsPattern.FindStringSubmatch(value); m != nil {
				param := c.rt.NewObject()
				_ = param.Set("arg", m[1])
				_ = param.Set("text", m[2])
				return "", c.def.Set(name, param)
			}
			return "", c.def.Set(name, value)
		}
		if _, err := c.callWithDef("def['" + name + "']=" + value); err != nil {
			return "", &ParseError{Type: InvalidDefine, Message: err.Error(), Directive: g[0], Cause: err}
		}
		return "", nil
	})
	if err != nil {
		return "", err
	}

	return replaceFunc(usePattern, str, func(g []string) (string, error) {
		code, err := replaceFunc(useParamsPattern, g[1], c.useParam)
		if err != nil {
			return "", err
		}
		v, err := c.callWithDef("return " + code)
		if err != nil {
			return "", &ParseError{Type: InvalidDefine, Message: err.Error(), Directive: g[0], Cause: err}
		}
		if !v.ToBoolean() {
			return v.String(), nil
		}
		return c.resolveDefs(v.String())
	})
}

// useParam rewrites def.name:param into a reference to the parameterized
// define expanded with param.
func (c *compiler) useParam(g []string) (string, error) {
	prefix, name, param := g[1], g[2], g[3]
	d, ok := c.def.Get(name).(*goja.Object)
	if !ok || param == "" {
		return g[0], nil
	}
	arg, text := d.Get("arg"), d.Get("text")
	if arg == nil || text == nil || !arg.ToBoolean() {
		return g[0], nil
	}

	key := strings.NewReplacer("'", "_", `\`, "_").Replace(name + ":" + param)
	exp, ok := c.def.Get("__exp").(*goja.Object)
	if !ok {
		exp = c.rt.NewObject()
		if err := c.def.Set("__exp", exp); err != nil {
			return "", err
		}
	}

	argPattern := regexp.MustCompile(`(^|[^\w$])` + regexp.QuoteMeta(arg.String()) + `([^\w$])`)
	expanded, _ := replaceFunc(argPattern, text.String(), func(m []string) (string, error) {
		return m[1] + param + m[2], nil
	})
	if err := exp.Set(key, expanded); err != nil {
		return "", err
	}
	return prefix + "def.__exp['" + key + "']", nil
}

// callWithDef runs body as a function of def.
func (c *compiler) callWithDef(body string) (goja.Value, error) {
	fnVal, err := c.rt.RunString("(function(def){" + body + "})")
	if err != nil {
		return nil, evalError(err)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return nil, fmt.Errorf("define did not compile to a function")
	}
	v, err := fn(goja.Undefined(), c.def)
	if err != nil {
		return nil, evalError(err)
	}
	return v, nil
}
