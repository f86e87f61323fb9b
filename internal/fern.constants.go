package internal

// TokenType represents the type of a lexical token
type TokenType string

// Token type constants
const (
	TokenTypeText  TokenType = "TEXT"
	TokenTypeOpen  TokenType = "OPEN"
	TokenTypeClose TokenType = "CLOSE"
	TokenTypeEOF   TokenType = "EOF"
)

// BranchKind identifies the variant of a branch node
type BranchKind string

// Branch kind constants
const (
	BranchKindRoot BranchKind = "root"
	BranchKindText BranchKind = "text"
	BranchKindIf   BranchKind = "if"
	BranchKindEach BranchKind = "each"
)

// Directive name constants
const (
	DirectiveIf   = "if"
	DirectiveEach = "each"
	DirectiveEnd  = "end"
)

// Marker syntax constants
const (
	MarkerDirectiveOpen   = "${#"
	MarkerPlaceholderOpen = "${"
	MarkerClose           = "}"
)

// Character constants
const (
	CharBackslash   = '\\'
	CharNewline     = '\n'
	CharSpace       = ' '
	CharTab         = '\t'
	CharCarriageRet = '\r'
	CharNegate      = '!'
	CharDot         = '.'
	CharBracketOpen = '['
	CharBracketEnd  = ']'
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
	CharCloseBrace  = '}'
	CharHash        = '#'
)

// CompareOp is a normalized comparison operator for if conditions
type CompareOp string

// Comparison operator constants. OpTruthy is the implicit operator when
// an if directive names only a path.
const (
	OpTruthy       CompareOp = "truthy"
	OpLess         CompareOp = "<"
	OpGreater      CompareOp = ">"
	OpLessEqual    CompareOp = "<="
	OpGreaterEqual CompareOp = ">="
	OpEqual        CompareOp = "==="
	OpNotEqual     CompareOp = "!=="
)

// Operator alias constants (normalized during decoding)
const (
	OpAliasEqual    = "=="
	OpAliasNotEqual = "!="
)

// Iteration grammar keyword constants
const (
	KeywordAs = "as"
	KeywordTo = "to"
)

// Literal keyword constants
const (
	LiteralTrue      = "true"
	LiteralFalse     = "false"
	LiteralNull      = "null"
	LiteralUndefined = "undefined"
)

// Builder configuration defaults
const (
	DefaultMaxDepth = 100
)

// Numeric formatting constants
const (
	IntBase10         = 10
	FloatFormatFlag   = 'f'
	FloatPrecisionAll = -1
	FloatBitSize64    = 64
)

// Log message constants
const (
	LogMsgTokenizerCreated = "tokenizer created"
	LogMsgTokenizerStart   = "tokenizing template source"
	LogMsgTokenizerEnd     = "tokenizing complete"
	LogMsgBuilderCreated   = "branch builder created"
	LogMsgBuilderStart     = "building branch tree"
	LogMsgBuilderEnd       = "branch tree complete"
)

// Log field name constants
const (
	LogFieldSource   = "source_bytes"
	LogFieldTokens   = "tokens"
	LogFieldBranches = "branches"
	LogFieldDepth    = "depth"
)
