package fern

import (
	"github.com/fernlabs/go-fern/internal"
)

// Template is a compiled template. It is immutable after compilation
// and safe for concurrent Render calls.
type Template struct {
	source string
	root   *internal.RootBranch
}

func newTemplate(source string, root *internal.RootBranch) *Template {
	return &Template{
		source: source,
		root:   root,
	}
}

// Source returns the original template source text.
func (t *Template) Source() string {
	return t.source
}

// Render evaluates the template against the given data and returns the
// output. Unresolvable placeholders are emitted verbatim, false
// conditions render nothing, and missing collections iterate zero
// times; rendering never fails.
func (t *Template) Render(data map[string]any) string {
	return t.root.Render(NewScope(data))
}

// RenderScope renders against a prepared Scope, which allows callers to
// layer bindings with Child before rendering.
func (t *Template) RenderScope(scope *Scope) string {
	if scope == nil {
		scope = NewScope(nil)
	}
	return t.root.Render(scope)
}
