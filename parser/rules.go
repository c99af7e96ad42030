package parser

import (
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/internal/ints"
	"github.com/ava12/jlx/lexer"
	"github.com/ava12/jlx/tree"
)

func (pc *ParseContext) item(it *grammar.Item, out *[]tree.Element) {
	if pc.err != nil {
		return
	}

	p := pc.parser
	switch it.Kind {
	case grammar.TermItem:
		if pc.expect(p.first[it], pc.grammar.TermName(it.Index), out) {
			*out = append(*out, pc.take()...)
		}

	case grammar.NodeItem:
		if it.Nullable || pc.expect(p.first[it], pc.grammar.Nodes[it.Index].Name, out) {
			pc.node(it.Index, out)
		}

	case grammar.SeqItem:
		pc.sequence(it, out)

	case grammar.ChoiceItem:
		pc.choice(it, out)

	case grammar.OptionalItem:
		if p.match(p.first[&it.Items[0]], pc.peek()) {
			pc.item(&it.Items[0], out)
		}

	case grammar.RepeatItem:
		pc.repeat(&it.Items[0], out)
	}
}

func (pc *ParseContext) sequence(it *grammar.Item, out *[]tree.Element) {
	rest := pc.parser.rest[it]
	for i := range it.Items {
		if pc.err != nil {
			return
		}
		if it.Items[i].Kind == grammar.LeftItem {
			continue
		}

		saved := pc.stop
		pc.stop = &stopFrame{set: rest[i], prev: saved}
		pc.item(&it.Items[i], out)
		pc.stop = saved
	}
}

func (pc *ParseContext) choice(it *grammar.Item, out *[]tree.Element) {
	p := pc.parser
	t := pc.peek()
	for i := range it.Items {
		if p.match(p.first[&it.Items[i]], t) {
			pc.item(&it.Items[i], out)
			return
		}
	}
	for i := range it.Items {
		if it.Items[i].Nullable {
			pc.item(&it.Items[i], out)
			return
		}
	}

	if pc.expect(p.first[it], p.describe(p.first[it]), out) {
		pc.choice(it, out)
	}
}

func (pc *ParseContext) repeat(body *grammar.Item, out *[]tree.Element) {
	p := pc.parser
	first := p.first[body]
	for pc.err == nil {
		t := pc.peek()
		if p.match(first, t) {
			before := pc.taken
			saved := pc.stop
			pc.stop = &stopFrame{set: first, prev: saved}
			pc.item(body, out)
			pc.stop = saved
			if pc.taken == before {
				return
			}
			continue
		}

		if pc.isStop(t) {
			return
		}
		pc.stray(out, first, p.describe(first))
	}
}

// isStop reports whether t may be accepted by an enclosing construct.
// Frames outside the innermost bracketed node are ignored.
func (pc *ParseContext) isStop(t *lexer.Token) bool {
	if t.IsEOF() {
		return true
	}

	p := pc.parser
	if p.match(p.sync, t) {
		return true
	}
	for f := pc.stop; f != nil && !f.barrier; f = f.prev {
		if p.match(f.set, t) {
			return true
		}
	}
	return false
}

// expect checks that the current token belongs to first. Otherwise stray tokens are skipped
// or a missing item is reported. False result means that the item must not be parsed:
// either it is missing or a lexical error token stands in its place.
func (pc *ParseContext) expect(first *ints.Set, what string, out *[]tree.Element) bool {
	p := pc.parser
	t := pc.peek()
	if p.match(first, t) {
		return true
	}

	if !pc.isStop(t) {
		if pc.stray(out, first, what) {
			return false
		}
		if p.match(first, pc.peek()) {
			return true
		}
	}

	pc.missing(out, what)
	return false
}
