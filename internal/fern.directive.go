package internal

import (
	"reflect"
	"strconv"
	"strings"
)

// Operand is the decoded right-hand side of an if condition: either a
// literal decoded once at compile time, or a property path resolved
// lazily at render time.
type Operand struct {
	IsPath  bool
	Path    string
	Steps   []PathStep
	Literal any
}

// Condition is the render-ready descriptor of an if directive. It is
// decoded once at compile time; render only resolves paths against the
// current scope and compares.
type Condition struct {
	Negate  bool
	Path    string
	Steps   []PathStep
	Op      CompareOp
	Operand *Operand // nil when Op is OpTruthy
}

// IterationPlan is the render-ready descriptor of an each directive.
type IterationPlan struct {
	Path      string
	Steps     []PathStep
	ValueName string
	KeyName   string // empty when the key binding is absent
}

// compareOps maps recognized operator spellings to their normalized form.
var compareOps = map[string]CompareOp{
	string(OpLess):         OpLess,
	string(OpGreater):      OpGreater,
	string(OpLessEqual):    OpLessEqual,
	string(OpGreaterEqual): OpGreaterEqual,
	string(OpEqual):        OpEqual,
	string(OpNotEqual):     OpNotEqual,
	OpAliasEqual:           OpEqual,
	OpAliasNotEqual:        OpNotEqual,
}

// ParseCondition decodes the raw argument text of an if directive:
// <!>?<path>[ <op> <operand>]. An absent operator means a truthy test.
func ParseCondition(raw string, pos Position) (*Condition, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, NewInvalidDirectiveError(ErrMsgMalformedIf, raw, pos)
	}

	negate := false
	if text[0] == CharNegate {
		negate = true
		text = strings.TrimSpace(text[1:])
	}

	pathText := text
	rest := ""
	if idx := strings.IndexFunc(text, isSpaceRune); idx >= 0 {
		pathText = text[:idx]
		rest = strings.TrimSpace(text[idx:])
	}

	steps, ok := ParsePath(pathText)
	if !ok {
		return nil, NewInvalidDirectiveError(ErrMsgMalformedIf, raw, pos)
	}

	cond := &Condition{
		Negate: negate,
		Path:   pathText,
		Steps:  steps,
		Op:     OpTruthy,
	}
	if rest == "" {
		return cond, nil
	}

	opText := rest
	operandText := ""
	if idx := strings.IndexFunc(rest, isSpaceRune); idx >= 0 {
		opText = rest[:idx]
		operandText = strings.TrimSpace(rest[idx:])
	}

	op, ok := compareOps[opText]
	if !ok || operandText == "" {
		return nil, NewInvalidDirectiveError(ErrMsgMalformedIf, raw, pos)
	}

	operand, err := DecodeOperand(operandText, pos)
	if err != nil {
		return nil, err
	}

	cond.Op = op
	cond.Operand = operand
	return cond, nil
}

// DecodeOperand decodes a literal operand token once at compile time.
// Quoted substrings become strings, true/false become booleans,
// null/undefined map to nil, numeric-looking tokens become numbers, and
// any other bare token is treated as a property path resolved at render.
func DecodeOperand(token string, pos Position) (*Operand, error) {
	if len(token) >= 2 {
		first := token[0]
		last := token[len(token)-1]
		if (first == CharDoubleQuote && last == CharDoubleQuote) ||
			(first == CharSingleQuote && last == CharSingleQuote) {
			return &Operand{Literal: token[1 : len(token)-1]}, nil
		}
	}

	switch token {
	case LiteralTrue:
		return &Operand{Literal: true}, nil
	case LiteralFalse:
		return &Operand{Literal: false}, nil
	case LiteralNull, LiteralUndefined:
		return &Operand{Literal: nil}, nil
	}

	if f, err := strconv.ParseFloat(token, FloatBitSize64); err == nil {
		return &Operand{Literal: f}, nil
	}

	steps, ok := ParsePath(token)
	if !ok {
		return nil, NewInvalidDirectiveError(ErrMsgMalformedIf, token, pos)
	}
	return &Operand{IsPath: true, Path: token, Steps: steps}, nil
}

// ParseIteration decodes the raw argument text of an each directive:
// <collectionPath> as [<keyName> to] <valueName>.
func ParseIteration(raw string, pos Position) (*IterationPlan, error) {
	fields := strings.Fields(raw)

	var pathText, keyName, valueName string
	switch {
	case len(fields) == 3 && fields[1] == KeywordAs:
		pathText = fields[0]
		valueName = fields[2]
	case len(fields) == 5 && fields[1] == KeywordAs && fields[3] == KeywordTo:
		pathText = fields[0]
		keyName = fields[2]
		valueName = fields[4]
	default:
		return nil, NewInvalidDirectiveError(ErrMsgMalformedEach, raw, pos)
	}

	steps, ok := ParsePath(pathText)
	if !ok {
		return nil, NewInvalidDirectiveError(ErrMsgMalformedEach, raw, pos)
	}
	if !isIdentifier(valueName) || (keyName != "" && !isIdentifier(keyName)) {
		return nil, NewInvalidDirectiveError(ErrMsgMalformedEach, raw, pos)
	}

	return &IterationPlan{
		Path:      pathText,
		Steps:     steps,
		ValueName: valueName,
		KeyName:   keyName,
	}, nil
}

// Holds resolves and evaluates the condition against a scope.
// A miss on either side is normal control flow, never an error.
func (c *Condition) Holds(sc Scope) bool {
	left, _ := sc.ResolveSteps(c.Steps)

	if c.Op == OpTruthy {
		result := IsTruthy(left)
		if c.Negate {
			return !result
		}
		return result
	}

	var right any
	if c.Operand.IsPath {
		right, _ = sc.ResolveSteps(c.Operand.Steps)
	} else {
		right = c.Operand.Literal
	}

	return compare(c.Op, left, right)
}

// compare applies a normalized comparison operator to two resolved
// values. Decoded numeric literals compare numerically against values
// the scope stored as text.
func compare(op CompareOp, left, right any) bool {
	switch op {
	case OpEqual:
		return valuesEqual(left, right)
	case OpNotEqual:
		return !valuesEqual(left, right)
	}

	lNum, lOK := ToNumber(left)
	rNum, rOK := ToNumber(right)
	if lOK && rOK {
		switch op {
		case OpLess:
			return lNum < rNum
		case OpGreater:
			return lNum > rNum
		case OpLessEqual:
			return lNum <= rNum
		case OpGreaterEqual:
			return lNum >= rNum
		}
	}

	lStr, lIsStr := left.(string)
	rStr, rIsStr := right.(string)
	if lIsStr && rIsStr {
		switch op {
		case OpLess:
			return lStr < rStr
		case OpGreater:
			return lStr > rStr
		case OpLessEqual:
			return lStr <= rStr
		case OpGreaterEqual:
			return lStr >= rStr
		}
	}

	return false
}

// valuesEqual checks equality with the same coercion rules as compare.
func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	aNum, aOK := ToNumber(a)
	bNum, bOK := ToNumber(b)
	if aOK && bOK {
		return aNum == bNum
	}

	aStr, aIsStr := a.(string)
	bStr, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return aStr == bStr
	}

	aBool, aIsBool := a.(bool)
	bBool, bIsBool := b.(bool)
	if aIsBool && bIsBool {
		return aBool == bBool
	}

	if reflect.TypeOf(a) == reflect.TypeOf(b) && reflect.TypeOf(a).Comparable() {
		return a == b
	}
	return false
}
