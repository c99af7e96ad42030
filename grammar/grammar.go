// Package grammar defines compiled lexical and syntactic tables shared by lexer and parser.
// Tables are produced by langdef (or loaded from a YAML cache, or generated as Go source by jlxgen)
// and are read-only afterwards.
package grammar

import "strings"

const (
	// RootNode is the index of the root node, the first defined one.
	RootNode = 0

	// DefaultMode is the index of the default lexer mode.
	DefaultMode = 0

	// NoIndex marks absent term or node references.
	NoIndex = -1
)

type TermFlags int

const (
	// LiteralTerm is a literal text ('end', '+'), it has no regexp and is matched by token text.
	LiteralTerm TermFlags = 1 << iota

	// AsideTerm is trivia: kept in the tree, skipped by rules.
	AsideTerm

	// ErrorTerm captures broken lexemes, each token of this type produces a lexical diagnostic.
	ErrorTerm

	// ReservedTerm is a reserved literal: tokens with this text never match their own term type.
	ReservedTerm

	// NoLiteralsTerm tokens never match literals.
	NoLiteralsTerm

	// NewlineTerm is significant in block context and trivia in nested context.
	NewlineTerm
)

type TermClass int

const (
	ClassNone TermClass = iota
	ClassIdentifier
	ClassKeyword
	ClassOperator
	ClassNumber
	ClassString
	ClassComment
	ClassWhitespace
	ClassNewline
	ClassEOF
	ClassError
)

var classNames = []string{"none", "identifier", "keyword", "operator", "number", "string", "comment", "whitespace", "newline", "eof", "error"}

func (c TermClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "none"
	}
	return classNames[c]
}

// ParseClass converts class name to TermClass, returns false for unknown names.
func ParseClass(name string) (TermClass, bool) {
	for i, n := range classNames {
		if n == name {
			return TermClass(i), true
		}
	}
	return ClassNone, false
}

type ModeAction int

const (
	NoAction ModeAction = iota
	PushMode
	PopMode
	SwitchMode
)

// Term is either a token type (has a regexp) or a literal.
type Term struct {
	Name   string     `yaml:"name"`
	Re     string     `yaml:"re,omitempty"`
	Flags  TermFlags  `yaml:"flags,omitempty"`
	Class  TermClass  `yaml:"class,omitempty"`
	Action ModeAction `yaml:"action,omitempty"`

	// Target is the mode index for PushMode and SwitchMode actions.
	Target int `yaml:"target,omitempty"`
}

func (t *Term) IsLiteral() bool {
	return t.Flags&LiteralTerm != 0
}

// Mode is a lexer mode: an ordered list of active terms, earlier terms win ties.
type Mode struct {
	Name  string `yaml:"name"`
	Terms []int  `yaml:"terms"`
}

type ItemKind int

const (
	TermItem ItemKind = iota
	NodeItem
	SeqItem
	ChoiceItem
	OptionalItem
	RepeatItem

	// LeftItem is the left operand placeholder `@` of suffix nodes.
	LeftItem
)

// Item is a node of a production body.
type Item struct {
	Kind ItemKind `yaml:"kind"`

	// Index is the term or node index for TermItem and NodeItem.
	Index int    `yaml:"index,omitempty"`
	Items []Item `yaml:"items,omitempty"`

	// First contains term indexes that may start this item.
	First    []int `yaml:"first,omitempty"`
	Nullable bool  `yaml:"nullable,omitempty"`
}

type NodeFlags int

const (
	// InlineNode children are spliced into the parent node.
	InlineNode NodeFlags = 1 << iota

	// NestedNode makes newlines trivia inside the node (brackets).
	NestedNode

	// BlockNode makes newlines significant inside the node.
	BlockNode

	// SuffixNode wraps the left operand of an expression: `call = @, args;`.
	SuffixNode

	// ExpressionNode is parsed by operator precedence over its operand node, it never appears in trees.
	ExpressionNode

	// OperatorNode is created for operator levels.
	OperatorNode

	// OpRefNode wraps operators used as values.
	OpRefNode
)

type Node struct {
	Name  string    `yaml:"name"`
	Flags NodeFlags `yaml:"flags,omitempty"`
	Body  Item      `yaml:"body"`

	// Operand is the operand node index of an expression node.
	Operand int `yaml:"operand,omitempty"`

	First    []int `yaml:"first,omitempty"`
	Nullable bool  `yaml:"nullable,omitempty"`
}

type Assoc int

const (
	LeftAssoc Assoc = iota
	RightAssoc
	NonAssoc
)

type OpKind int

const (
	BinaryOp OpKind = iota
	PrefixOp
	PostfixOp
	TernaryOp
)

// OpLevel is one precedence level, levels are ordered from the lowest precedence.
// A ternary level has exactly two operators: the question and the colon.
type OpLevel struct {
	Node  int    `yaml:"node"`
	Kind  OpKind `yaml:"kind"`
	Assoc Assoc  `yaml:"assoc,omitempty"`
	Ops   []int  `yaml:"ops"`
}

type Grammar struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`

	Modes  []Mode    `yaml:"modes"`
	Terms  []Term    `yaml:"terms"`
	Nodes  []Node    `yaml:"nodes"`
	Levels []OpLevel `yaml:"levels,omitempty"`

	// Suffixes lists suffix node indexes in declaration order.
	Suffixes []int `yaml:"suffixes,omitempty"`

	// Sync lists error recovery synchronization terms.
	Sync []int `yaml:"sync,omitempty"`

	// Dotted is the prefix of broadcasting operators sharing the level of their base operator.
	Dotted string `yaml:"dotted,omitempty"`

	// OpRef is the node index for operators used as values or NoIndex.
	OpRef int `yaml:"opref"`
}

// TermIndex returns the index of the term with the given name ("$name" or literal text) or NoIndex.
func (g *Grammar) TermIndex(name string) int {
	literal := !strings.HasPrefix(name, "$")
	if !literal {
		name = name[1:]
	}
	for i, t := range g.Terms {
		if t.Name == name && t.IsLiteral() == literal {
			return i
		}
	}
	return NoIndex
}

func (g *Grammar) NodeIndex(name string) int {
	for i, n := range g.Nodes {
		if n.Name == name {
			return i
		}
	}
	return NoIndex
}

// TermName returns a printable term name: "$name" for token types and quoted text for literals.
func (g *Grammar) TermName(index int) string {
	if index < 0 || index >= len(g.Terms) {
		return "end of input"
	}
	t := &g.Terms[index]
	if t.IsLiteral() {
		return "'" + t.Name + "'"
	}
	return "$" + t.Name
}

func (g *Grammar) ModeIndex(name string) int {
	for i, m := range g.Modes {
		if m.Name == name {
			return i
		}
	}
	return NoIndex
}
