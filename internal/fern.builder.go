package internal

import (
	"go.uber.org/zap"
)

// BuilderConfig holds branch builder configuration
type BuilderConfig struct {
	MaxDepth int // Maximum directive nesting depth (0 = unlimited)
}

// DefaultBuilderConfig returns the default builder configuration
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		MaxDepth: DefaultMaxDepth,
	}
}

// Builder consumes a token stream and produces an immutable branch
// tree. It is the engine's only state machine: states are stack
// configurations of open directives, and the single accepting state is
// the root alone on the stack at end of input. The stack holds the
// transient references needed to know where to pop to; it is discarded
// when Build returns, so the compiled tree carries child links only.
type Builder struct {
	config BuilderConfig
	logger *zap.Logger
}

// NewBuilder creates a builder with the given configuration
func NewBuilder(config BuilderConfig, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgBuilderCreated)
	return &Builder{
		config: config,
		logger: logger,
	}
}

// Build consumes tokens and returns the root branch, or a CompileError
// if the template is structurally malformed. No partial tree is ever
// returned.
func (b *Builder) Build(tokens []Token) (*RootBranch, error) {
	b.logger.Debug(LogMsgBuilderStart, zap.Int(LogFieldTokens, len(tokens)))

	root := &RootBranch{}
	stack := []container{root}
	current := func() container { return stack[len(stack)-1] }

	for _, tok := range tokens {
		switch tok.Type {
		case TokenTypeText:
			current().appendChild(NewTextBranch(tok.Value, tok.Position))

		case TokenTypeOpen:
			branch, err := b.decodeOpen(tok)
			if err != nil {
				return nil, err
			}
			if b.config.MaxDepth > 0 && len(stack) > b.config.MaxDepth {
				return nil, NewNestingTooDeepError(tok.Name, tok.Position)
			}
			current().appendChild(branch)
			stack = append(stack, branch)

		case TokenTypeClose:
			// The root is not closable; a close with nothing open is
			// always mismatched, even if it names "root".
			if len(stack) == 1 {
				return nil, NewMismatchedCloseError(string(root.Kind()), tok.Name, tok.Position)
			}
			open := current().Kind()
			if string(open) != tok.Name {
				return nil, NewMismatchedCloseError(string(open), tok.Name, tok.Position)
			}
			stack = stack[:len(stack)-1]

		case TokenTypeEOF:
			if len(stack) != 1 {
				return nil, NewUnclosedBranchError(string(current().Kind()), tok.Position)
			}
		}
	}

	b.logger.Debug(LogMsgBuilderEnd, zap.Int(LogFieldBranches, len(root.Children)))
	return root, nil
}

// decodeOpen decodes an open token's arguments into the matching branch
// variant. The switch over directive names is the builder's exhaustive
// unknown-directive check.
func (b *Builder) decodeOpen(tok Token) (container, error) {
	switch tok.Name {
	case DirectiveIf:
		cond, err := ParseCondition(tok.Value, tok.Position)
		if err != nil {
			return nil, err
		}
		return NewIfBranch(cond, tok.Position), nil

	case DirectiveEach:
		plan, err := ParseIteration(tok.Value, tok.Position)
		if err != nil {
			return nil, err
		}
		return NewEachBranch(plan, tok.Position), nil

	default:
		return nil, NewInvalidDirectiveError(ErrMsgUnknownDirective, tok.Name, tok.Position)
	}
}
