package internal

import "fmt"

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Token represents a lexical token produced by the tokenizer.
// Tokens exist only during compilation; the branch builder consumes
// them and they are never retained in the compiled tree.
type Token struct {
	Type     TokenType // The type of token
	Value    string    // Text content, or raw directive args for OPEN
	Name     string    // Directive name for OPEN/CLOSE tokens
	Position Position  // Source position
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenTypeOpen:
		return fmt.Sprintf("Token{OPEN %s %q @ %s}", t.Name, t.Value, t.Position)
	case TokenTypeClose:
		return fmt.Sprintf("Token{CLOSE %s @ %s}", t.Name, t.Position)
	case TokenTypeEOF:
		return fmt.Sprintf("Token{EOF @ %s}", t.Position)
	default:
		return fmt.Sprintf("Token{TEXT %q @ %s}", t.Value, t.Position)
	}
}

// IsEOF returns true if this is an end-of-file token
func (t Token) IsEOF() bool {
	return t.Type == TokenTypeEOF
}

// NewTextToken creates a text token with the given content
func NewTextToken(content string, pos Position) Token {
	return Token{
		Type:     TokenTypeText,
		Value:    content,
		Position: pos,
	}
}

// NewOpenToken creates an open-directive token with raw argument text
func NewOpenToken(name, rawArgs string, pos Position) Token {
	return Token{
		Type:     TokenTypeOpen,
		Name:     name,
		Value:    rawArgs,
		Position: pos,
	}
}

// NewCloseToken creates a close-directive token
func NewCloseToken(name string, pos Position) Token {
	return Token{
		Type:     TokenTypeClose,
		Name:     name,
		Position: pos,
	}
}

// NewEOFToken creates an EOF token at the given position
func NewEOFToken(pos Position) Token {
	return Token{
		Type:     TokenTypeEOF,
		Position: pos,
	}
}
