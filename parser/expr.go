package parser

import (
	"bytes"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/lexer"
	"github.com/ava12/jlx/tree"
)

// Expressions are parsed by precedence climbing over grammar levels.
// Operator nodes are created for every applied operator, expression nodes leave no trace.

func (pc *ParseContext) expression(index int, out *[]tree.Element) {
	*out = append(*out, pc.trivia()...)
	*out = append(*out, pc.binary(index, 0)...)
}

// operator returns the level of operator token t from ops or -1.
// Operators with the dotted prefix share the level of their base operator.
func (pc *ParseContext) operator(t *lexer.Token, ops map[int]int, exclude int) int {
	if t.IsEOF() || t.Type() < 0 || t.IsError() {
		return -1
	}

	level := -1
	accepts := func(i int) bool {
		l, has := ops[i]
		if has && i != exclude {
			level = l
			return true
		}
		return false
	}
	p := pc.parser
	if p.matchTerm(t, accepts) {
		return level
	}

	dotted := pc.grammar.Dotted
	text := t.Content()
	if dotted == "" || len(text) <= len(dotted) || !bytes.HasPrefix(text, []byte(dotted)) ||
		pc.grammar.Terms[t.Type()].Flags&grammar.NoLiteralsTerm != 0 {
		return -1
	}
	if li, has := p.literals.Get(text[len(dotted):]); has && accepts(li) {
		return level
	}
	return -1
}

func (pc *ParseContext) operatorNode(level int, children []tree.Element) []tree.Element {
	var out []tree.Element
	pc.finish(pc.grammar.Levels[level].Node, pc.pos, children, &out)
	return out
}

// binary parses an expression containing operators of levels from min up.
func (pc *ParseContext) binary(ex, min int) []tree.Element {
	var lhs []tree.Element
	if !pc.enter(&lhs) {
		return lhs
	}

	defer pc.leave()
	p := pc.parser
	lhs = pc.unary(ex)
	for pc.err == nil {
		t := pc.peek()
		if l := pc.operator(t, p.postfix, grammar.NoIndex); l >= min {
			lhs = pc.operatorNode(l, append(lhs, pc.take()...))
			continue
		}

		l := pc.operator(t, p.binary, pc.exclude)
		if l < min {
			break
		}

		lv := &pc.grammar.Levels[l]
		children := append(lhs, pc.take()...)
		children = append(children, pc.skipNewlines()...)
		switch {
		case lv.Kind == grammar.TernaryOp:
			children = pc.ternary(ex, l, children)

		case lv.Assoc == grammar.NonAssoc:
			children = append(children, pc.binary(ex, l+1)...)
			for pc.err == nil && pc.operator(pc.peek(), p.binary, pc.exclude) == l {
				children = append(children, pc.take()...)
				children = append(children, pc.skipNewlines()...)
				children = append(children, pc.binary(ex, l+1)...)
			}

		case lv.Assoc == grammar.RightAssoc:
			children = append(children, pc.binary(ex, l)...)

		default:
			children = append(children, pc.binary(ex, l+1)...)
		}
		lhs = pc.operatorNode(l, children)
	}
	return lhs
}

// ternary parses the rest of `cond ? a : b` after the question operator.
func (pc *ParseContext) ternary(ex, level int, children []tree.Element) []tree.Element {
	colon := pc.grammar.Levels[level].Ops[1]
	saved := pc.exclude
	pc.exclude = colon
	children = append(children, pc.binary(ex, level+1)...)
	pc.exclude = saved

	if pc.parser.matchTerm(pc.peek(), func(i int) bool { return i == colon }) {
		children = append(children, pc.take()...)
		children = append(children, pc.skipNewlines()...)
		return append(children, pc.binary(ex, level)...)
	}

	pc.missing(&children, pc.grammar.TermName(colon))
	return children
}

func (pc *ParseContext) startsOperand(ex int, t *lexer.Token) bool {
	return pc.parser.match(pc.parser.operand[ex], t)
}

// unary parses prefix operators, operators used as values and operands with suffixes.
func (pc *ParseContext) unary(ex int) []tree.Element {
	p := pc.parser
	g := pc.grammar
	res := pc.trivia()
	t := pc.peek()
	if p.match(p.nodes[g.Nodes[ex].Operand], t) {
		return append(res, pc.primary(ex)...)
	}

	if l := pc.operator(t, p.prefix, grammar.NoIndex); l >= 0 {
		if g.OpRef == grammar.NoIndex || pc.startsOperand(ex, pc.peekAt(1)) {
			children := pc.take()
			children = append(children, pc.binary(ex, l+1)...)
			return append(res, pc.operatorNode(l, children)...)
		}
		return append(res, pc.opref()...)
	}

	if pc.operator(t, p.binary, grammar.NoIndex) < 0 {
		return append(res, pc.primary(ex)...)
	}

	if g.OpRef != grammar.NoIndex && !pc.startsOperand(ex, pc.peekAt(1)) {
		return append(res, pc.opref()...)
	}

	d := pc.diag(t.Span(), UnexpectedOperatorError, "unexpected operator %s", pc.tokenName(t))
	res = append(res, tree.NewErrorNode(pc.Dialect(), t.Start(), []jlx.Diagnostic{d}, pc.take()...))
	pc.stats.Recoveries++
	return append(res, pc.unary(ex)...)
}

func (pc *ParseContext) opref() []tree.Element {
	var out []tree.Element
	pc.finish(pc.grammar.OpRef, pc.pos, pc.take(), &out)
	return out
}

// primary parses the operand node and applies suffix nodes to it.
func (pc *ParseContext) primary(ex int) []tree.Element {
	p := pc.parser
	operand := pc.grammar.Nodes[ex].Operand
	first := p.nodes[operand]
	var res []tree.Element
	if !pc.expect(first, pc.grammar.Nodes[ex].Name, &res) {
		return res
	}

	res = append(res, pc.trivia()...)
	var children []tree.Element
	pc.node(operand, &children)
	return append(res, pc.suffixes(children)...)
}

func (pc *ParseContext) suffixes(left []tree.Element) []tree.Element {
	p := pc.parser
	for pc.err == nil && len(left) > 0 {
		t := pc.peek()
		index := grammar.NoIndex
		for _, si := range pc.grammar.Suffixes {
			if p.match(p.nodes[si], t) {
				index = si
				break
			}
		}
		if index == grammar.NoIndex {
			break
		}

		before := pc.taken
		left = pc.suffix(index, left)
		if pc.taken == before {
			break
		}
	}
	return left
}

// suffix parses suffix node index wrapping the left operand.
func (pc *ParseContext) suffix(index int, left []tree.Element) []tree.Element {
	nd := &pc.grammar.Nodes[index]
	var out []tree.Element
	if !pc.enter(&out) {
		return append(left, out...)
	}

	defer pc.leave()
	s := pc.save(nd.Name, nd.Flags)
	children := left
	pc.item(&nd.Body, &children)
	pc.restore(s)
	pc.finish(index, pc.pos, children, &out)
	return out
}
