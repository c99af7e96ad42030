// Package tree defines the concrete syntax tree built by parser: typed nodes with byte spans,
// token leaves, navigation, walkers and selectors.
//
// Trees are assembled bottom-up during a parse pass and sealed once the pass is complete;
// a sealed tree is never modified and may be shared between goroutines.
package tree

import (
	"github.com/ava12/jlx"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/lexer"
)

const (
	// ErrorKind is the kind of error nodes produced by error recovery.
	ErrorKind = -1

	ErrorTypeName = "error"
)

// Element is either a *Node or a *Leaf.
type Element interface {
	IsNode() bool
	TypeName() string

	// Token returns the token of a leaf or nil for nodes.
	Token() *lexer.Token
	Span() jlx.Span

	// Parent, Index, Prev and Next are available after the tree is sealed.
	Parent() *Node
	Index() int
	Prev() Element
	Next() Element
}

type Leaf struct {
	token  *lexer.Token
	parent *Node
	index  int
}

func NewLeaf(t *lexer.Token) *Leaf {
	return &Leaf{token: t}
}

func (l *Leaf) IsNode() bool {
	return false
}

func (l *Leaf) TypeName() string {
	return l.token.TypeName()
}

func (l *Leaf) Token() *lexer.Token {
	return l.token
}

func (l *Leaf) Span() jlx.Span {
	return l.token.Span()
}

func (l *Leaf) Parent() *Node {
	return l.parent
}

func (l *Leaf) Index() int {
	return l.index
}

func (l *Leaf) Prev() Element {
	return sibling(l.parent, l.index-1)
}

func (l *Leaf) Next() Element {
	return sibling(l.parent, l.index+1)
}

func sibling(p *Node, i int) Element {
	if p == nil || i < 0 || i >= len(p.children) {
		return nil
	}
	return p.children[i]
}

// NodeInfo holds node attributes set by the parser or by node hooks.
type NodeInfo struct {
	// Kind is the grammar node index or ErrorKind.
	Kind     int
	TypeName string

	// Dialect is the name of the grammar the node comes from.
	Dialect string

	// Label marks embedded subtrees, e.g. "docfmt".
	Label string
}

type Node struct {
	info     NodeInfo
	span     jlx.Span
	children []Element
	parent   *Node
	index    int
	diags    []jlx.Diagnostic
}

// NewNode creates a node. Its span is the union of children spans or a zero-width span at pos
// if there are no children. Children must be ordered and must not overlap.
func NewNode(info NodeInfo, pos int, children ...Element) *Node {
	n := &Node{info: info, span: jlx.Span{Start: pos, End: pos}, children: children}
	if len(children) > 0 {
		n.span = jlx.Span{Start: children[0].Span().Start, End: children[len(children)-1].Span().End}
	}
	return n
}

// NewErrorNode creates an error node holding diagnostics of a malformed region.
func NewErrorNode(dialect string, pos int, diags []jlx.Diagnostic, children ...Element) *Node {
	n := NewNode(NodeInfo{Kind: ErrorKind, TypeName: ErrorTypeName, Dialect: dialect}, pos, children...)
	n.diags = diags
	return n
}

func (n *Node) IsNode() bool {
	return true
}

func (n *Node) TypeName() string {
	return n.info.TypeName
}

func (n *Node) Token() *lexer.Token {
	return nil
}

func (n *Node) Kind() int {
	return n.info.Kind
}

func (n *Node) Dialect() string {
	return n.info.Dialect
}

func (n *Node) Label() string {
	return n.info.Label
}

func (n *Node) Info() NodeInfo {
	return n.info
}

func (n *Node) Span() jlx.Span {
	return n.span
}

func (n *Node) IsError() bool {
	return n.info.Kind == ErrorKind
}

// Diagnostics returns diagnostics attached to an error node.
func (n *Node) Diagnostics() []jlx.Diagnostic {
	return n.diags
}

func (n *Node) Len() int {
	return len(n.children)
}

// Child returns i-th child or nil, negative i counts from the end.
func (n *Node) Child(i int) Element {
	if i < 0 {
		i += len(n.children)
	}
	return sibling(n, i)
}

// Children returns a copy of the child list.
func (n *Node) Children() []Element {
	return append([]Element(nil), n.children...)
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Index() int {
	return n.index
}

func (n *Node) Prev() Element {
	return sibling(n.parent, n.index-1)
}

func (n *Node) Next() Element {
	return sibling(n.parent, n.index+1)
}

// Seal assigns parent and sibling indexes in the whole subtree.
// It is called once per pass on the root; calling it again has no effect on a sealed tree.
func Seal(root *Node) {
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, c := range n.children {
			switch c := c.(type) {
			case *Node:
				c.parent, c.index = n, i
				stack = append(stack, c)
			case *Leaf:
				c.parent, c.index = n, i
			}
		}
	}
}

// IsTrivia reports whether e is a whitespace, comment or newline leaf.
func IsTrivia(e Element) bool {
	if e == nil || e.IsNode() {
		return false
	}
	switch e.Token().Class() {
	case grammar.ClassWhitespace, grammar.ClassComment, grammar.ClassNewline:
		return true
	}
	return false
}
