package parser

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/internal/ints"
	"github.com/ava12/jlx/lexer"
	"github.com/ava12/jlx/source"
	"github.com/ava12/jlx/tree"
)

type stopFrame struct {
	set     *ints.Set
	prev    *stopFrame
	barrier bool
}

// state is the part of ParseContext restored on node exit.
type state struct {
	newlines int
	stop     *stopFrame
	exclude  int
	rule     string
}

// ParseContext holds the state of a single parse pass.
type ParseContext struct {
	ctx     context.Context
	parser  *Parser
	grammar *grammar.Grammar
	src     *source.Source
	scanner *lexer.Scanner
	log     zerolog.Logger
	hooks   []NodeHook
	anyHook NodeHook
	eofTok  *lexer.Token

	// buf contains fetched tokens not placed into the tree yet.
	buf []*lexer.Token

	// pos is the end offset of the last token placed into the tree.
	pos   int
	taken int

	// newlines is a stack of newline contexts, true means newlines are trivia.
	newlines []bool
	stop     *stopFrame

	// exclude is the binary operator not accepted at the moment (ternary colon).
	exclude int
	rule    string
	depth   int
	diags   []jlx.Diagnostic
	stats   Stats
	err     error
}

func newParseContext(ctx context.Context, p *Parser, src *source.Source, start, end int, hs *Hooks) (*ParseContext, error) {
	if end < 0 || end > src.Len() {
		end = src.Len()
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}

	pc := &ParseContext{
		ctx:     ctx,
		parser:  p,
		grammar: p.grammar,
		src:     src,
		scanner: p.lexer.Scan(src, start, end),
		log:     p.opts.logger,
		hooks:   make([]NodeHook, len(p.grammar.Nodes)),
		eofTok:  lexer.NewToken(lexer.EofTokenType, lexer.EofTokenName, grammar.ClassEOF, nil, end, src),
		pos:     start,
		exclude: grammar.NoIndex,
	}

	for name, h := range hs.Nodes {
		if name == AnyNode {
			pc.anyHook = h
			continue
		}

		i := p.NodeIndex(name)
		if i == grammar.NoIndex {
			return nil, unknownNodeError(name)
		}
		pc.hooks[i] = h
	}
	return pc, nil
}

// Context returns the context of the pass, hooks running nested passes should use it.
func (pc *ParseContext) Context() context.Context {
	return pc.ctx
}

func (pc *ParseContext) Parser() *Parser {
	return pc.parser
}

func (pc *ParseContext) Grammar() *grammar.Grammar {
	return pc.grammar
}

func (pc *ParseContext) Source() *source.Source {
	return pc.src
}

func (pc *ParseContext) Dialect() string {
	return pc.parser.opts.dialect
}

// NodeIndex returns the index of the named grammar node or grammar.NoIndex.
func (pc *ParseContext) NodeIndex(name string) int {
	return pc.parser.NodeIndex(name)
}

// Retag changes draft type to the named grammar node.
func (pc *ParseContext) Retag(d *Draft, name string) error {
	i := pc.parser.NodeIndex(name)
	if i == grammar.NoIndex {
		return unknownNodeError(name)
	}

	d.Kind = i
	d.TypeName = name
	return nil
}

// Report adds a diagnostic to the pass result.
func (pc *ParseContext) Report(span jlx.Span, code int, msg string, params ...any) jlx.Diagnostic {
	return pc.diag(span, code, msg, params...)
}

// AddDiagnostics adds diagnostics of a nested pass, their severity is kept.
func (pc *ParseContext) AddDiagnostics(ds ...jlx.Diagnostic) {
	pc.diags = append(pc.diags, ds...)
}

func (pc *ParseContext) diag(span jlx.Span, code int, msg string, params ...any) jlx.Diagnostic {
	d := jlx.Diagnostic{
		Span:     span,
		Severity: pc.parser.opts.severity,
		Code:     code,
		Message:  fmt.Sprintf(msg, params...),
		Context:  pc.rule,
	}
	pc.diags = append(pc.diags, d)
	return d
}

func (pc *ParseContext) lexical(t *lexer.Token) jlx.Diagnostic {
	d := *t.Diagnostic()
	d.Severity = pc.parser.opts.severity
	return d
}

func (pc *ParseContext) cancel(e error) {
	if pc.err == nil {
		pc.err = fmt.Errorf("%w: %w", jlx.ErrCancelled, e)
	}
}

func (pc *ParseContext) fail(e error) {
	if pc.err == nil {
		pc.err = e
	}
}

func (pc *ParseContext) checkContext() bool {
	if pc.err == nil {
		if e := pc.ctx.Err(); e != nil {
			pc.cancel(e)
		}
	}
	return pc.err == nil
}

func (pc *ParseContext) fetch() *lexer.Token {
	if !pc.checkContext() {
		return pc.eofTok
	}
	return pc.scanner.Next()
}

func (pc *ParseContext) nested() bool {
	return len(pc.newlines) > 0 && pc.newlines[len(pc.newlines)-1]
}

func (pc *ParseContext) isNewline(t *lexer.Token) bool {
	tt := t.Type()
	return tt >= 0 && pc.grammar.Terms[tt].Flags&grammar.NewlineTerm != 0
}

func (pc *ParseContext) isTrivia(t *lexer.Token) bool {
	tt := t.Type()
	if tt < 0 || t.IsError() {
		return false
	}

	f := pc.grammar.Terms[tt].Flags
	return f&grammar.AsideTerm != 0 || (f&grammar.NewlineTerm != 0 && pc.nested())
}

func (pc *ParseContext) peek() *lexer.Token {
	return pc.peekAt(0)
}

// peekAt returns n-th significant token without consuming it.
func (pc *ParseContext) peekAt(n int) *lexer.Token {
	if pc.err != nil {
		return pc.eofTok
	}

	for i := 0; ; i++ {
		if i == len(pc.buf) {
			pc.buf = append(pc.buf, pc.fetch())
			if pc.err != nil {
				return pc.eofTok
			}
		}

		t := pc.buf[i]
		if t.IsEOF() {
			return t
		}
		if !pc.isTrivia(t) {
			if n == 0 {
				return t
			}
			n--
		}
	}
}

func (pc *ParseContext) consume() *tree.Leaf {
	t := pc.buf[0]
	pc.buf = pc.buf[1:]
	pc.pos = t.End()
	pc.taken++
	pc.stats.Tokens++
	return tree.NewLeaf(t)
}

// trivia takes trivia tokens preceding the current significant token.
func (pc *ParseContext) trivia() []tree.Element {
	pc.peek()
	var res []tree.Element
	for len(pc.buf) > 0 && !pc.buf[0].IsEOF() && pc.isTrivia(pc.buf[0]) {
		res = append(res, pc.consume())
	}
	return res
}

// take takes the current significant token with preceding trivia.
func (pc *ParseContext) take() []tree.Element {
	res := pc.trivia()
	if pc.peek().IsEOF() {
		return res
	}
	return append(res, pc.consume())
}

// skipNewlines takes trivia and newline tokens, used after binary operators.
func (pc *ParseContext) skipNewlines() []tree.Element {
	var res []tree.Element
	for {
		res = append(res, pc.trivia()...)
		if t := pc.peek(); t.IsEOF() || !pc.isNewline(t) {
			return res
		}
		res = append(res, pc.consume())
	}
}

func (pc *ParseContext) save(name string, flags grammar.NodeFlags) state {
	s := state{newlines: len(pc.newlines), stop: pc.stop, exclude: pc.exclude, rule: pc.rule}
	pc.rule = name
	switch {
	case flags&grammar.NestedNode != 0:
		pc.newlines = append(pc.newlines, true)
		pc.stop = &stopFrame{prev: pc.stop, barrier: true}
		pc.exclude = grammar.NoIndex
	case flags&grammar.BlockNode != 0:
		pc.newlines = append(pc.newlines, false)
		pc.exclude = grammar.NoIndex
	}
	return s
}

func (pc *ParseContext) restore(s state) {
	pc.newlines = pc.newlines[:s.newlines]
	pc.stop = s.stop
	pc.exclude = s.exclude
	pc.rule = s.rule
}

// enter increments nesting depth. If the limit is reached the rest of the construct
// is placed into an error node and false is returned.
func (pc *ParseContext) enter(out *[]tree.Element) bool {
	if !pc.checkContext() {
		return false
	}

	if pc.depth >= pc.parser.opts.maxDepth {
		pc.overflow(out)
		return false
	}

	pc.depth++
	if pc.depth > pc.stats.MaxDepth {
		pc.stats.MaxDepth = pc.depth
	}
	return true
}

func (pc *ParseContext) leave() {
	pc.depth--
}

func (pc *ParseContext) hook(index int) NodeHook {
	if h := pc.hooks[index]; h != nil {
		return h
	}
	return pc.anyHook
}

// finish creates the node from its children and appends it to out.
// Children of inline nodes are appended directly.
func (pc *ParseContext) finish(index, pos int, children []tree.Element, out *[]tree.Element) {
	nd := &pc.grammar.Nodes[index]
	if nd.Flags&grammar.InlineNode != 0 {
		*out = append(*out, children...)
		return
	}

	d := &Draft{Kind: index, TypeName: nd.Name, Children: children, Pos: pos}
	if h := pc.hook(index); h != nil && pc.err == nil {
		if e := h(d, pc); e != nil {
			pc.fail(e)
		}
	}

	info := tree.NodeInfo{Kind: d.Kind, TypeName: d.TypeName, Dialect: pc.parser.opts.dialect, Label: d.Label}
	*out = append(*out, tree.NewNode(info, d.Pos, d.Children...))
	pc.stats.Nodes++
}

func (pc *ParseContext) node(index int, out *[]tree.Element) {
	nd := &pc.grammar.Nodes[index]
	if nd.Flags&grammar.ExpressionNode != 0 {
		pc.expression(index, out)
		return
	}

	*out = append(*out, pc.trivia()...)
	if !pc.enter(out) {
		return
	}

	defer pc.leave()
	s := pc.save(nd.Name, nd.Flags)
	pos := pc.pos
	var children []tree.Element
	pc.item(&nd.Body, &children)
	pc.restore(s)
	pc.finish(index, pos, children, out)
}

func (pc *ParseContext) root() *tree.Node {
	nd := &pc.grammar.Nodes[grammar.RootNode]
	first := pc.parser.nodes[grammar.RootNode]
	if !pc.checkContext() {
		return nil
	}

	s := pc.save(nd.Name, nd.Flags)
	pos := pc.pos
	children := pc.trivia()
	for pc.err == nil {
		before := pc.taken
		pc.item(&nd.Body, &children)
		t := pc.peek()
		if t.IsEOF() {
			break
		}

		if pc.taken == before || !pc.parser.match(first, t) {
			pc.stray(&children, first, nd.Name)
		}
	}
	children = append(children, pc.trivia()...)
	pc.restore(s)

	var out []tree.Element
	pc.finish(grammar.RootNode, pos, children, &out)
	if pc.err != nil || len(out) != 1 {
		return nil
	}

	root, _ := out[0].(*tree.Node)
	return root
}

func (pc *ParseContext) parse() (*Result, error) {
	root := pc.root()
	if pc.err != nil {
		return nil, pc.err
	}
	if root == nil {
		return nil, badGrammarError("root node of grammar %q must not be inline", pc.grammar.Name)
	}

	tree.Seal(root)
	lds := pc.scanner.Diagnostics()
	diags := make([]jlx.Diagnostic, 0, len(lds)+len(pc.diags))
	for _, d := range lds {
		d.Severity = pc.parser.opts.severity
		diags = append(diags, d)
	}
	diags = append(diags, pc.diags...)
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Span.Start < diags[j].Span.Start
	})
	return &Result{Root: root, Diagnostics: diags, Stats: pc.stats}, nil
}
