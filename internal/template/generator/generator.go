package generator

import (
	"context"
	"strings"

	"github.com/tacogips/dottmpl/internal/debug"
	"github.com/tacogips/dottmpl/internal/template/engine"
)

// Renderer renders one template file to one output file.
type Renderer interface {
	// Render reads input, evaluates it against vars and writes the result
	// to output, replacing any existing content. Errors from the reader,
	// the engine and the writer are returned without added context.
	Render(ctx context.Context, input, output string, vars interface{}) error

	// RenderString reads and evaluates input without writing anything.
	RenderString(ctx context.Context, input string, vars interface{}) (string, error)
}

// Option configures a FileRenderer.
type Option func(*FileRenderer)

// WithEngine sets the template engine.
func WithEngine(e engine.Engine) Option {
	return func(r *FileRenderer) {
		if e != nil {
			r.engine = e
		}
	}
}

// WithReader sets the source reader.
func WithReader(rd Reader) Option {
	return func(r *FileRenderer) {
		if rd != nil {
			r.reader = rd
		}
	}
}

// WithWriter sets the output writer.
func WithWriter(w Writer) Option {
	return func(r *FileRenderer) {
		if w != nil {
			r.writer = w
		}
	}
}

// FileRenderer implements Renderer on top of a Reader, an Engine and a Writer.
type FileRenderer struct {
	engine engine.Engine
	reader Reader
	writer Writer
}

// NewRenderer creates a FileRenderer. Defaults are the dot engine and the
// local filesystem.
func NewRenderer(opts ...Option) *FileRenderer {
	r := &FileRenderer{
		engine: engine.NewDot(),
		reader: NewFileReader(),
		writer: NewFileWriter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine returns the configured engine.
func (r *FileRenderer) Engine() engine.Engine {
	return r.engine
}

// Render reads, evaluates and writes one template. The source is read on
// every call.
func (r *FileRenderer) Render(ctx context.Context, input, output string, vars interface{}) error {
	rendered, err := r.RenderString(ctx, input, vars)
	if err != nil {
		return err
	}

	if strings.TrimSpace(output) == "" {
		return newGeneratorError(GeneratorPathError, "output path is empty", "", nil)
	}

	return r.writer.WriteFile(output, []byte(rendered))
}

// RenderString reads and evaluates input.
func (r *FileRenderer) RenderString(ctx context.Context, input string, vars interface{}) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", newGeneratorError(GeneratorPathError, "input path is empty", "", nil)
	}

	source, err := r.reader.ReadFile(input)
	if err != nil {
		return "", err
	}

	debug.Named("generator").Debug("rendering", "input", input, "engine", r.engine.Name())
	return r.engine.Render(ctx, string(source), vars)
}

// Variables reads input and returns the bindings it reads. It returns nil
// when the engine cannot list them.
func (r *FileRenderer) Variables(input string) ([]string, error) {
	lister, ok := r.engine.(engine.VariableLister)
	if !ok {
		return nil, nil
	}
	source, err := r.reader.ReadFile(input)
	if err != nil {
		return nil, err
	}
	return lister.Variables(string(source))
}
