package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Tokenizer splits template source into text and directive-marker tokens.
// Directive markers have the form ${#name args}. A backslash immediately
// preceding a marker escapes it: the marker is emitted as ordinary text
// and the backslash is dropped. A marker with no closing brace is never
// matched and flows through as ordinary text. The tokenizer performs no
// semantic validation of directive names or arguments.
type Tokenizer struct {
	source string
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	logger *zap.Logger
}

// NewTokenizer creates a new tokenizer for the given source
func NewTokenizer(source string, logger *zap.Logger) *Tokenizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgTokenizerCreated, zap.Int(LogFieldSource, len(source)))
	return &Tokenizer{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Tokenize processes the source and returns the token stream
func (t *Tokenizer) Tokenize() []Token {
	t.logger.Debug(LogMsgTokenizerStart)
	var tokens []Token

	// Pending literal text and the position it started at
	var pending []byte
	pendingPos := t.currentPosition()

	flush := func() {
		if len(pending) > 0 {
			tokens = append(tokens, NewTextToken(string(pending), pendingPos))
			pending = pending[:0]
		}
	}

	for !t.isAtEnd() {
		if t.matchStr(MarkerDirectiveOpen) {
			end := strings.IndexByte(t.source[t.pos:], CharCloseBrace)
			if end < 0 {
				// Unterminated marker: ordinary text
				if len(pending) == 0 {
					pendingPos = t.currentPosition()
				}
				pending = append(pending, t.advance())
				continue
			}

			marker := t.source[t.pos : t.pos+end+1]

			// Escape rule: a backslash immediately before the marker makes
			// it literal text and the backslash itself is dropped.
			if t.pos > 0 && t.source[t.pos-1] == CharBackslash && len(pending) > 0 {
				pending = pending[:len(pending)-1]
				if len(pending) == 0 {
					pendingPos = t.currentPosition()
				}
				pending = append(pending, marker...)
				t.advanceN(len(marker))
				continue
			}

			flush()
			tokens = append(tokens, t.markerToken(marker))
			t.advanceN(len(marker))
			pendingPos = t.currentPosition()
			continue
		}

		if len(pending) == 0 {
			pendingPos = t.currentPosition()
		}
		pending = append(pending, t.advance())
	}

	flush()
	tokens = append(tokens, NewEOFToken(t.currentPosition()))
	t.logger.Debug(LogMsgTokenizerEnd, zap.Int(LogFieldTokens, len(tokens)))
	return tokens
}

// markerToken converts a full ${#...} marker into an Open or Close token.
// The marker includes the opening ${# and closing brace.
func (t *Tokenizer) markerToken(marker string) Token {
	pos := t.currentPosition()
	body := marker[len(MarkerDirectiveOpen) : len(marker)-1]

	name := body
	rawArgs := ""
	if idx := strings.IndexFunc(body, isSpaceRune); idx >= 0 {
		name = body[:idx]
		rawArgs = strings.TrimSpace(body[idx:])
	}

	if name == DirectiveEnd {
		return NewCloseToken(rawArgs, pos)
	}
	return NewOpenToken(name, rawArgs, pos)
}

// Helper methods

// currentPosition returns the current position
func (t *Tokenizer) currentPosition() Position {
	return Position{
		Offset: t.pos,
		Line:   t.line,
		Column: t.column,
	}
}

// isAtEnd returns true if we've reached the end of source
func (t *Tokenizer) isAtEnd() bool {
	return t.pos >= len(t.source)
}

// advance consumes and returns the current character
func (t *Tokenizer) advance() byte {
	if t.isAtEnd() {
		return 0
	}
	ch := t.source[t.pos]
	t.pos++
	if ch == CharNewline {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
	return ch
}

// advanceN advances by n characters
func (t *Tokenizer) advanceN(n int) {
	for i := 0; i < n && !t.isAtEnd(); i++ {
		t.advance()
	}
}

// matchStr returns true if the remaining source starts with s
func (t *Tokenizer) matchStr(s string) bool {
	return strings.HasPrefix(t.source[t.pos:], s)
}

func isSpaceRune(r rune) bool {
	return r == rune(CharSpace) || r == rune(CharTab) || r == rune(CharNewline) || r == rune(CharCarriageRet)
}
