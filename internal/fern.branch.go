package internal

import "strings"

// Branch is a node in the compiled template tree. The tree is immutable
// once the builder finishes: branches hold child-owning links only, and
// render never mutates them, so a compiled tree may be rendered
// concurrently against independent scopes without synchronization.
type Branch interface {
	// Kind returns the branch variant identifier
	Kind() BranchKind

	// Pos returns the source position of this branch
	Pos() Position

	render(sb *strings.Builder, sc Scope)
}

// container is a branch that owns children. Only the builder appends;
// after compilation the child lists are never modified.
type container interface {
	Branch
	appendChild(child Branch)
}

// RootBranch is the entry point of a compiled tree. Exactly one exists
// per template and it has no parent.
type RootBranch struct {
	Children []Branch
}

// Kind returns BranchKindRoot
func (b *RootBranch) Kind() BranchKind {
	return BranchKindRoot
}

// Pos returns the zero position (the root spans the whole source)
func (b *RootBranch) Pos() Position {
	return Position{Offset: 0, Line: 1, Column: 1}
}

// Render renders the whole tree against a scope: the concatenation, in
// document order, of all children.
func (b *RootBranch) Render(sc Scope) string {
	var sb strings.Builder
	b.render(&sb, sc)
	return sb.String()
}

func (b *RootBranch) render(sb *strings.Builder, sc Scope) {
	for _, child := range b.Children {
		child.render(sb, sc)
	}
}

func (b *RootBranch) appendChild(child Branch) {
	b.Children = append(b.Children, child)
}

// TextBranch is a leaf holding literal text with its placeholder
// interpolation sites pre-scanned at compile time.
type TextBranch struct {
	pos      Position
	segments []TextSegment
}

// Kind returns BranchKindText
func (b *TextBranch) Kind() BranchKind {
	return BranchKindText
}

// Pos returns the source position
func (b *TextBranch) Pos() Position {
	return b.pos
}

// NewTextBranch creates a text leaf, scanning the content for ${path}
// placeholders once.
func NewTextBranch(content string, pos Position) *TextBranch {
	return &TextBranch{
		pos:      pos,
		segments: ScanText(content),
	}
}

func (b *TextBranch) render(sb *strings.Builder, sc Scope) {
	for i := range b.segments {
		seg := &b.segments[i]
		if seg.Raw == "" {
			sb.WriteString(seg.Literal)
			continue
		}

		sb.WriteString(seg.Literal)
		val, ok := sc.ResolveSteps(seg.Steps)
		if ok {
			if text, scalar := FormatScalar(val); scalar {
				sb.WriteString(text)
				continue
			}
		}
		// Unresolved or non-scalar: the placeholder stays verbatim so
		// templates remain usable against partial data.
		sb.WriteString(seg.Raw)
	}
}

// IfBranch renders its children only when its condition holds.
type IfBranch struct {
	pos      Position
	Cond     *Condition
	Children []Branch
}

// Kind returns BranchKindIf
func (b *IfBranch) Kind() BranchKind {
	return BranchKindIf
}

// Pos returns the source position
func (b *IfBranch) Pos() Position {
	return b.pos
}

// NewIfBranch creates a conditional branch from a decoded condition
func NewIfBranch(cond *Condition, pos Position) *IfBranch {
	return &IfBranch{pos: pos, Cond: cond}
}

func (b *IfBranch) render(sb *strings.Builder, sc Scope) {
	if !b.Cond.Holds(sc) {
		return
	}
	for _, child := range b.Children {
		child.render(sb, sc)
	}
}

func (b *IfBranch) appendChild(child Branch) {
	b.Children = append(b.Children, child)
}

// EachBranch renders its children once per collection pair, against a
// scope derived for that pair.
type EachBranch struct {
	pos      Position
	Plan     *IterationPlan
	Children []Branch
}

// Kind returns BranchKindEach
func (b *EachBranch) Kind() BranchKind {
	return BranchKindEach
}

// Pos returns the source position
func (b *EachBranch) Pos() Position {
	return b.pos
}

// NewEachBranch creates an iteration branch from a decoded plan
func NewEachBranch(plan *IterationPlan, pos Position) *EachBranch {
	return &EachBranch{pos: pos, Plan: plan}
}

func (b *EachBranch) render(sb *strings.Builder, sc Scope) {
	collection, _ := sc.ResolveSteps(b.Plan.Steps)

	// Pairs outermost, children innermost: all children render against
	// one pair's derived scope before the next pair begins.
	for _, pair := range Pairs(collection) {
		bindings := map[string]any{b.Plan.ValueName: pair.Value}
		if b.Plan.KeyName != "" {
			bindings[b.Plan.KeyName] = pair.Key
		}
		derived := sc.Derive(bindings)
		for _, child := range b.Children {
			child.render(sb, derived)
		}
	}
}

func (b *EachBranch) appendChild(child Branch) {
	b.Children = append(b.Children, child)
}

// TextSegment is one pre-scanned piece of a text branch. Raw is empty
// for pure literals; for placeholders it holds the original ${path}
// text emitted verbatim when the path does not resolve to a scalar.
type TextSegment struct {
	Literal string
	Steps   []PathStep
	Raw     string
}

// ScanText splits text into literal runs and placeholder sites. The
// escape rule matches the tokenizer's: a backslash immediately before
// ${ makes the placeholder literal and the backslash is dropped. A ${#
// run is never a placeholder, and an unterminated ${ is plain text.
func ScanText(text string) []TextSegment {
	var segments []TextSegment
	var literal strings.Builder

	rest := text
	for len(rest) > 0 {
		idx := strings.Index(rest, MarkerPlaceholderOpen)
		if idx < 0 {
			literal.WriteString(rest)
			break
		}

		end := strings.IndexByte(rest[idx:], CharCloseBrace)
		if end < 0 {
			// Unterminated: everything left is literal
			literal.WriteString(rest)
			break
		}
		raw := rest[idx : idx+end+1]

		// Escaped placeholder: drop the backslash, keep the text
		if idx > 0 && rest[idx-1] == CharBackslash {
			literal.WriteString(rest[:idx-1])
			literal.WriteString(raw)
			rest = rest[idx+end+1:]
			continue
		}

		// ${# runs are leftover escaped directive markers, not placeholders
		inner := rest[idx+len(MarkerPlaceholderOpen) : idx+end]
		if strings.HasPrefix(inner, string(CharHash)) {
			literal.WriteString(rest[:idx+end+1])
			rest = rest[idx+end+1:]
			continue
		}

		steps, ok := ParsePath(strings.TrimSpace(inner))
		if !ok {
			// Not a resolvable path: leave the text as-is
			literal.WriteString(rest[:idx+end+1])
			rest = rest[idx+end+1:]
			continue
		}

		literal.WriteString(rest[:idx])
		segments = append(segments, TextSegment{
			Literal: literal.String(),
			Steps:   steps,
			Raw:     raw,
		})
		literal.Reset()
		rest = rest[idx+end+1:]
	}

	if literal.Len() > 0 || len(segments) == 0 {
		segments = append(segments, TextSegment{Literal: literal.String()})
	}
	return segments
}
