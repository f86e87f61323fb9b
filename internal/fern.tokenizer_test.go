package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTokenizer_PlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "empty string",
			input: "",
			expected: []Token{
				{Type: TokenTypeEOF, Position: Position{Offset: 0, Line: 1, Column: 1}},
			},
		},
		{
			name:  "simple text",
			input: "Hello, world!",
			expected: []Token{
				{Type: TokenTypeText, Value: "Hello, world!", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 13, Line: 1, Column: 14}},
			},
		},
		{
			name:  "multiline text",
			input: "Line 1\nLine 2",
			expected: []Token{
				{Type: TokenTypeText, Value: "Line 1\nLine 2", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 13, Line: 2, Column: 7}},
			},
		},
		{
			name:  "placeholder is not a directive marker",
			input: "Hello ${name}!",
			expected: []Token{
				{Type: TokenTypeText, Value: "Hello ${name}!", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 14, Line: 1, Column: 15}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input, zap.NewNop())
			tokens := tokenizer.Tokenize()
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestTokenizer_DirectiveMarkers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "if directive",
			input: "${#if user.active}yes${#end if}",
			expected: []Token{
				{Type: TokenTypeOpen, Name: "if", Value: "user.active", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeText, Value: "yes", Position: Position{Offset: 18, Line: 1, Column: 19}},
				{Type: TokenTypeClose, Name: "if", Position: Position{Offset: 21, Line: 1, Column: 22}},
				{Type: TokenTypeEOF, Position: Position{Offset: 31, Line: 1, Column: 32}},
			},
		},
		{
			name:  "each directive with key binding",
			input: "${#each items as k to v}${#end each}",
			expected: []Token{
				{Type: TokenTypeOpen, Name: "each", Value: "items as k to v", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeClose, Name: "each", Position: Position{Offset: 24, Line: 1, Column: 25}},
				{Type: TokenTypeEOF, Position: Position{Offset: 36, Line: 1, Column: 37}},
			},
		},
		{
			name:  "bare end carries empty name",
			input: "${#end}",
			expected: []Token{
				{Type: TokenTypeClose, Name: "", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 7, Line: 1, Column: 8}},
			},
		},
		{
			name:  "unknown directive is still tokenized",
			input: "${#unless x}",
			expected: []Token{
				{Type: TokenTypeOpen, Name: "unless", Value: "x", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeEOF, Position: Position{Offset: 12, Line: 1, Column: 13}},
			},
		},
		{
			name:  "text around markers",
			input: "a${#if x}b${#end if}c",
			expected: []Token{
				{Type: TokenTypeText, Value: "a", Position: Position{Offset: 0, Line: 1, Column: 1}},
				{Type: TokenTypeOpen, Name: "if", Value: "x", Position: Position{Offset: 1, Line: 1, Column: 2}},
				{Type: TokenTypeText, Value: "b", Position: Position{Offset: 9, Line: 1, Column: 10}},
				{Type: TokenTypeClose, Name: "if", Position: Position{Offset: 10, Line: 1, Column: 11}},
				{Type: TokenTypeText, Value: "c", Position: Position{Offset: 20, Line: 1, Column: 21}},
				{Type: TokenTypeEOF, Position: Position{Offset: 21, Line: 1, Column: 22}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input, zap.NewNop())
			tokens := tokenizer.Tokenize()
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestTokenizer_Escapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string // text token values in order
	}{
		{
			name:     "escaped marker becomes literal text without backslash",
			input:    `before \${#if x}after`,
			expected: []string{"before ${#if x}after"},
		},
		{
			name:     "escape inside larger text",
			input:    `cost: \${#each a as b}`,
			expected: []string{"cost: ${#each a as b}"},
		},
		{
			name:     "double backslash keeps one backslash and escapes",
			input:    `\\${#if x}`,
			expected: []string{`\${#if x}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input, zap.NewNop())
			tokens := tokenizer.Tokenize()

			var texts []string
			for _, tok := range tokens {
				require.NotEqual(t, TokenTypeOpen, tok.Type)
				require.NotEqual(t, TokenTypeClose, tok.Type)
				if tok.Type == TokenTypeText {
					texts = append(texts, tok.Value)
				}
			}
			assert.Equal(t, tt.expected, texts)
		})
	}
}

func TestTokenizer_UnterminatedMarker(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unterminated at end", input: "text ${#if x"},
		{name: "only opener", input: "${#"},
		{name: "opener then newline no brace", input: "${#if x\nmore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input, zap.NewNop())
			tokens := tokenizer.Tokenize()

			require.Len(t, tokens, 2)
			assert.Equal(t, TokenTypeText, tokens[0].Type)
			assert.Equal(t, tt.input, tokens[0].Value)
			assert.True(t, tokens[1].IsEOF())
		})
	}
}

func TestTokenizer_MarkerAcrossLines(t *testing.T) {
	tokenizer := NewTokenizer("line one\n${#if ok}\nline two${#end if}", zap.NewNop())
	tokens := tokenizer.Tokenize()

	require.Len(t, tokens, 5)
	assert.Equal(t, TokenTypeOpen, tokens[1].Type)
	assert.Equal(t, 2, tokens[1].Position.Line)
	assert.Equal(t, 1, tokens[1].Position.Column)
	assert.Equal(t, TokenTypeClose, tokens[3].Type)
	assert.Equal(t, 3, tokens[3].Position.Line)
}

func TestTokenizer_NilLoggerFallsBack(t *testing.T) {
	tokenizer := NewTokenizer("plain", nil)
	tokens := tokenizer.Tokenize()
	require.Len(t, tokens, 2)
	assert.Equal(t, "plain", tokens[0].Value)
}
