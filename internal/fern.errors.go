package internal

import "fmt"

// CompileErrorKind categorizes compile-time failures
type CompileErrorKind string

// Compile error kind constants
const (
	KindInvalidDirective CompileErrorKind = "invalid_directive"
	KindMismatchedClose  CompileErrorKind = "mismatched_close"
	KindUnclosedBranch   CompileErrorKind = "unclosed_branch"
	KindNestingTooDeep   CompileErrorKind = "nesting_too_deep"
)

// Compile error message constants
const (
	ErrMsgUnknownDirective = "unknown directive"
	ErrMsgMalformedIf      = "malformed if condition"
	ErrMsgMalformedEach    = "malformed each iteration"
	ErrMsgMismatchedClose  = "mismatched close directive"
	ErrMsgUnclosedBranch   = "unclosed directive at end of input"
	ErrMsgNestingTooDeep   = "directive nesting exceeds maximum depth"
)

// CompileError is a fatal template compilation failure. No branch tree
// is produced when one occurs. The public package wraps these with
// structured error metadata; Kind stays stable for classification.
type CompileError struct {
	Kind      CompileErrorKind
	Message   string
	Position  Position
	Directive string // Directive name or raw argument text involved
	Expected  string // For mismatched close: the open branch kind
	Found     string // For mismatched close: the name the close carried
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	switch e.Kind {
	case KindMismatchedClose:
		return fmt.Sprintf("%s: expected %q, found %q at %s", e.Message, e.Expected, e.Found, e.Position)
	case KindUnclosedBranch:
		return fmt.Sprintf("%s: %s still open at %s", e.Message, e.Directive, e.Position)
	default:
		if e.Directive != "" {
			return fmt.Sprintf("%s: %s at %s", e.Message, e.Directive, e.Position)
		}
		return fmt.Sprintf("%s at %s", e.Message, e.Position)
	}
}

// NewInvalidDirectiveError creates an error for an unknown directive name
// or arguments that do not match the directive grammar.
func NewInvalidDirectiveError(msg, directive string, pos Position) *CompileError {
	return &CompileError{
		Kind:      KindInvalidDirective,
		Message:   msg,
		Position:  pos,
		Directive: directive,
	}
}

// NewMismatchedCloseError creates an error for a close directive that does
// not name the currently open branch.
func NewMismatchedCloseError(expected, found string, pos Position) *CompileError {
	return &CompileError{
		Kind:     KindMismatchedClose,
		Message:  ErrMsgMismatchedClose,
		Position: pos,
		Expected: expected,
		Found:    found,
	}
}

// NewUnclosedBranchError creates an error for end of input with directives
// still open.
func NewUnclosedBranchError(kind string, pos Position) *CompileError {
	return &CompileError{
		Kind:      KindUnclosedBranch,
		Message:   ErrMsgUnclosedBranch,
		Position:  pos,
		Directive: kind,
	}
}

// NewNestingTooDeepError creates an error for input nested beyond the
// configured maximum depth.
func NewNestingTooDeepError(directive string, pos Position) *CompileError {
	return &CompileError{
		Kind:      KindNestingTooDeep,
		Message:   ErrMsgNestingTooDeep,
		Position:  pos,
		Directive: directive,
	}
}
