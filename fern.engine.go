package fern

import (
	"errors"

	"go.uber.org/zap"

	"github.com/fernlabs/go-fern/internal"
)

// Engine compiles template sources into renderable Templates. An Engine
// is cheap, stateless across compilations, and safe for concurrent use.
type Engine struct {
	config *engineConfig
	logger *zap.Logger
}

// New creates a new fern Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		config: config,
		logger: logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Compile compiles a template source into an immutable Template. The
// token stream and builder stack exist only for the duration of this
// call. Structural errors (unknown directives, malformed arguments,
// mismatched or missing closes) are fatal: no Template is produced.
func (e *Engine) Compile(source string) (*Template, error) {
	tokenizer := internal.NewTokenizer(source, e.logger)
	tokens := tokenizer.Tokenize()

	builderConfig := internal.BuilderConfig{
		MaxDepth: e.config.maxDepth,
	}
	builder := internal.NewBuilder(builderConfig, e.logger)

	root, err := builder.Build(tokens)
	if err != nil {
		var ce *internal.CompileError
		if errors.As(err, &ce) {
			return nil, newCompileError(ce)
		}
		return nil, err
	}

	return newTemplate(source, root), nil
}

// Render is a convenience method that compiles and renders in one step.
// For templates rendered multiple times, use Compile and keep the
// Template.
func (e *Engine) Render(source string, data map[string]any) (string, error) {
	tmpl, err := e.Compile(source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data), nil
}
