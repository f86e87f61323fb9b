// Package fern is a small template directive engine. It compiles text
// templates containing conditional (${#if ...}) and iterative
// (${#each ...}) directives into an immutable branch tree, then renders
// that tree against arbitrary data.
//
// Basic usage:
//
//	tmpl, err := fern.Compile("Hello ${name}!${#if vip} Welcome back.${#end if}")
//	if err != nil {
//	    // structural template errors are fatal at compile time
//	}
//	out := tmpl.Render(map[string]any{"name": "Ada", "vip": true})
//
// A compiled Template is immutable and safe for concurrent rendering.
// Missing data degrades gracefully at render time: unresolved ${path}
// placeholders stay verbatim, false conditions render empty, and
// missing or non-iterable each collections render zero iterations.
package fern

// Version is the library version.
const Version = "1.2.0"

// Compile compiles a template source with a default engine.
// For custom logging or limits, create an Engine with New.
func Compile(source string) (*Template, error) {
	return MustNew().Compile(source)
}

// MustCompile compiles a template source and panics on compile errors.
// Intended for templates known to be valid, such as literals in tests.
func MustCompile(source string) *Template {
	tmpl, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return tmpl
}
