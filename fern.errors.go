package fern

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"

	"github.com/fernlabs/go-fern/internal"
)

// Error message constants
const (
	ErrMsgCompileFailed = "template compilation failed"
)

// Error code constants for categorization
const (
	ErrCodeCompile = "FERN_COMPILE"
	ErrCodeStore   = "FERN_STORE"
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return "line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// newCompileError wraps an internal compile error with structured
// metadata. The internal error stays in the chain so errors.As based
// classification (IsInvalidDirective etc.) works on the result.
func newCompileError(cause *internal.CompileError) error {
	err := cuserr.WrapStdError(cause, ErrCodeCompile, ErrMsgCompileFailed).
		WithMetadata(MetaKeyKind, string(cause.Kind)).
		WithMetadata(MetaKeyLine, strconv.Itoa(cause.Position.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(cause.Position.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(cause.Position.Offset))

	if cause.Directive != "" {
		err = err.WithMetadata(MetaKeyDirective, cause.Directive)
	}
	if cause.Kind == internal.KindMismatchedClose {
		err = err.WithMetadata(MetaKeyExpected, cause.Expected).
			WithMetadata(MetaKeyFound, cause.Found)
	}
	return err
}

// compileErrorKind extracts the internal error kind from a compile
// error chain.
func compileErrorKind(err error) (internal.CompileErrorKind, bool) {
	var ce *internal.CompileError
	if !errors.As(err, &ce) {
		return "", false
	}
	return ce.Kind, true
}

// IsInvalidDirective reports whether a compile error was caused by an
// unknown directive name or malformed directive arguments.
func IsInvalidDirective(err error) bool {
	kind, ok := compileErrorKind(err)
	return ok && kind == internal.KindInvalidDirective
}

// IsMismatchedClose reports whether a compile error was caused by a
// close directive that does not name the currently open branch.
func IsMismatchedClose(err error) bool {
	kind, ok := compileErrorKind(err)
	return ok && kind == internal.KindMismatchedClose
}

// IsUnclosedBranch reports whether a compile error was caused by end of
// input with directives still open.
func IsUnclosedBranch(err error) bool {
	kind, ok := compileErrorKind(err)
	return ok && kind == internal.KindUnclosedBranch
}

// IsNestingTooDeep reports whether a compile error was caused by
// directive nesting beyond the engine's configured maximum depth.
func IsNestingTooDeep(err error) bool {
	kind, ok := compileErrorKind(err)
	return ok && kind == internal.KindNestingTooDeep
}

// CompileErrorPosition extracts the source position from a compile
// error chain. Returns false if err is not a compile error.
func CompileErrorPosition(err error) (Position, bool) {
	var ce *internal.CompileError
	if !errors.As(err, &ce) {
		return Position{}, false
	}
	return Position{
		Offset: ce.Position.Offset,
		Line:   ce.Position.Line,
		Column: ce.Position.Column,
	}, true
}
