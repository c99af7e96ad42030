// Package parser implements grammar-driven recursive descent parser with operator precedence
// expressions and error recovery. Parser is immutable, every pass keeps its state in ParseContext,
// so a single Parser may serve concurrent passes.
package parser

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/internal/bmap"
	"github.com/ava12/jlx/internal/ints"
	"github.com/ava12/jlx/lexer"
	"github.com/ava12/jlx/source"
	"github.com/ava12/jlx/tree"
)

// DefaultMaxDepth limits node nesting, deeper constructs become error nodes.
const DefaultMaxDepth = 1000

// NodeHook is called for each finished node before the node is created.
// The hook may change draft fields. Returned error aborts the pass.
type NodeHook = func(d *Draft, pc *ParseContext) error

// AnyNode key sets a hook for all nodes not having their own hooks.
const AnyNode = ""

type NodeHooks map[string]NodeHook

type Hooks struct {
	Nodes NodeHooks
}

// Draft is a finished but not yet created node.
type Draft struct {
	// Kind is the grammar node index.
	Kind     int
	TypeName string
	Label    string

	// Children must stay ordered and non-overlapping.
	Children []tree.Element

	// Pos is the offset of an empty node.
	Pos int
}

type Stats struct {
	// Tokens is the number of tokens placed into the tree, trivia included.
	Tokens int

	// Recoveries counts skipped stray regions.
	Recoveries int

	// Missing counts zero-width error nodes standing for absent items.
	Missing int

	Nodes    int
	MaxDepth int
}

type Result struct {
	Root *tree.Node

	// Diagnostics contains lexical and syntax diagnostics ordered by start offset.
	Diagnostics []jlx.Diagnostic
	Stats       Stats
}

type options struct {
	logger   zerolog.Logger
	maxDepth int
	dialect  string
	severity jlx.Severity
}

type Option func(*options)

// WithLogger sets the logger for recovery tracing, nothing is logged by default.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithDialect sets the dialect name for created nodes, grammar name is used by default.
func WithDialect(name string) Option {
	return func(o *options) {
		o.dialect = name
	}
}

// WithSeverity sets the severity of all produced diagnostics.
func WithSeverity(s jlx.Severity) Option {
	return func(o *options) {
		o.severity = s
	}
}

type Parser struct {
	grammar  *grammar.Grammar
	lexer    *lexer.Lexer
	opts     options
	literals *bmap.BMap[int]
	eof      int
	sync     *ints.Set

	// first holds FIRST sets of all body items, rest holds for each sequence
	// item FIRST sets of the sequence tails following its elements.
	first map[*grammar.Item]*ints.Set
	rest  map[*grammar.Item][]*ints.Set
	nodes []*ints.Set
	names map[string]int

	binary  map[int]int
	prefix  map[int]int
	postfix map[int]int

	// operand contains prefix operators and FIRST sets of operand nodes.
	operand map[int]*ints.Set
}

// New prepares a parser for compiled grammar g.
func New(g *grammar.Grammar, opts ...Option) (*Parser, error) {
	if len(g.Nodes) == 0 {
		return nil, badGrammarError("grammar %q defines no nodes", g.Name)
	}

	l, e := lexer.New(g)
	if e != nil {
		return nil, e
	}

	p := &Parser{
		grammar:  g,
		lexer:    l,
		opts:     options{logger: zerolog.Nop(), maxDepth: DefaultMaxDepth, dialect: g.Name},
		literals: bmap.New[int](len(g.Terms)),
		eof:      len(g.Terms),
		sync:     ints.FromSlice(g.Sync),
		first:    make(map[*grammar.Item]*ints.Set),
		rest:     make(map[*grammar.Item][]*ints.Set),
		nodes:    make([]*ints.Set, len(g.Nodes)),
		names:    make(map[string]int, len(g.Nodes)),
		binary:   make(map[int]int),
		prefix:   make(map[int]int),
		postfix:  make(map[int]int),
		operand:  make(map[int]*ints.Set),
	}
	for _, o := range opts {
		o(&p.opts)
	}

	for i, t := range g.Terms {
		if t.IsLiteral() {
			p.literals.Set([]byte(t.Name), i)
		}
	}
	for i := range g.Nodes {
		p.names[g.Nodes[i].Name] = i
		p.nodes[i] = ints.FromSlice(g.Nodes[i].First)
		p.prepare(&g.Nodes[i].Body)
	}
	for i, lv := range g.Levels {
		ops := p.binary
		levelOps := lv.Ops
		switch lv.Kind {
		case grammar.PrefixOp:
			ops = p.prefix
		case grammar.PostfixOp:
			ops = p.postfix
		case grammar.TernaryOp:
			// the colon is accepted only after the question operator
			levelOps = levelOps[:1]
		}
		for _, op := range levelOps {
			if _, has := ops[op]; !has {
				ops[op] = i
			}
		}
	}
	for i, nd := range g.Nodes {
		if nd.Flags&grammar.ExpressionNode == 0 {
			continue
		}
		s := p.nodes[nd.Operand].Copy()
		for op := range p.prefix {
			s.Add(op)
		}
		p.operand[i] = s
	}
	return p, nil
}

func (p *Parser) prepare(it *grammar.Item) {
	p.first[it] = ints.FromSlice(it.First)
	for i := range it.Items {
		p.prepare(&it.Items[i])
	}
	if it.Kind != grammar.SeqItem {
		return
	}

	rest := make([]*ints.Set, len(it.Items))
	acc := ints.NewSet()
	for i := len(it.Items) - 1; i >= 0; i-- {
		rest[i] = acc.Copy()
		if !it.Items[i].Nullable {
			acc = ints.NewSet()
		}
		acc.Union(p.first[&it.Items[i]])
	}
	p.rest[it] = rest
}

func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

func (p *Parser) Lexer() *lexer.Lexer {
	return p.lexer
}

// NodeIndex returns the index of the named grammar node or grammar.NoIndex.
func (p *Parser) NodeIndex(name string) int {
	i, has := p.names[name]
	if !has {
		return grammar.NoIndex
	}
	return i
}

func (p *Parser) Dialect() string {
	return p.opts.dialect
}

// Parse parses the whole src. Hooks may be nil.
// A cancelled pass returns no result and an error wrapping jlx.ErrCancelled.
func (p *Parser) Parse(ctx context.Context, src *source.Source, hs *Hooks) (*Result, error) {
	return p.ParseRange(ctx, src, 0, src.Len(), hs)
}

// ParseRange parses the window [start, end) of src, all spans and diagnostics use global offsets.
func (p *Parser) ParseRange(ctx context.Context, src *source.Source, start, end int, hs *Hooks) (*Result, error) {
	if hs == nil {
		hs = &Hooks{}
	}
	pc, e := newParseContext(ctx, p, src, start, end, hs)
	if e != nil {
		return nil, e
	}

	return pc.parse()
}

// match reports whether t can be accepted by an item with FIRST set s.
// EoF is represented by the index following the last term.
func (p *Parser) match(s *ints.Set, t *lexer.Token) bool {
	if t.IsEOF() {
		return s.Contains(p.eof)
	}
	return p.matchTerm(t, s.Contains)
}

func (p *Parser) matchTerm(t *lexer.Token, accepts func(int) bool) bool {
	tt := t.Type()
	if tt < 0 || t.IsError() {
		return false
	}

	if p.grammar.Terms[tt].Flags&grammar.NoLiteralsTerm == 0 {
		if li, has := p.literals.Get(t.Content()); has {
			if accepts(li) {
				return true
			}
			if p.grammar.Terms[li].Flags&grammar.ReservedTerm != 0 {
				return false
			}
		}
	}
	return accepts(tt)
}

// describe returns a human readable list of terms from s.
func (p *Parser) describe(s *ints.Set) string {
	const maxNames = 4

	items := s.ToSlice()
	if len(items) == 0 {
		return "nothing"
	}

	res := ""
	for i, ti := range items {
		if i == maxNames {
			res += fmt.Sprintf(" or one of %d more", len(items)-maxNames)
			break
		}
		if i > 0 {
			res += " or "
		}
		res += p.grammar.TermName(ti)
	}
	return res
}
