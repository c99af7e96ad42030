package parser

import (
	"github.com/ava12/jlx"
	"github.com/ava12/jlx/internal/ints"
	"github.com/ava12/jlx/lexer"
	"github.com/ava12/jlx/tree"
)

func (pc *ParseContext) tokenName(t *lexer.Token) string {
	if t.IsEOF() {
		return "end of input"
	}

	p := pc.parser
	if li, has := p.literals.Get(t.Content()); has && p.matchTerm(t, func(i int) bool { return i == li }) {
		return p.grammar.TermName(li)
	}
	return "$" + t.TypeName() + " " + truncate(t.Text())
}

func truncate(text string) string {
	const maxLen = 20

	r := []rune(text)
	if len(r) > maxLen {
		return "'" + string(r[:maxLen]) + "...'"
	}
	return "'" + text + "'"
}

// stray places unexpected tokens into an error node. At least one token is consumed,
// skipping stops before a token from first or a stop token.
// Returns true if the first skipped token is a lexical error token.
func (pc *ParseContext) stray(out *[]tree.Element, first *ints.Set, what string) bool {
	*out = append(*out, pc.trivia()...)
	t := pc.peek()
	if t.IsEOF() {
		return false
	}

	start := t.Start()
	lexical := t.IsError()
	var diags []jlx.Diagnostic
	if !lexical {
		diags = append(diags, pc.diag(t.Span(), UnexpectedTokenError, "unexpected %s, expecting %s", pc.tokenName(t), what))
	}

	var children []tree.Element
	for {
		if t.IsError() {
			diags = append(diags, pc.lexical(t))
		}
		children = append(children, pc.take()...)
		t = pc.peek()
		if pc.isStop(t) || pc.parser.match(first, t) {
			break
		}
	}

	pc.stats.Recoveries++
	pc.log.Debug().
		Str("rule", pc.rule).
		Int("start", start).
		Int("end", pc.pos).
		Bool("lexical", lexical).
		Msg("skipped stray tokens")
	*out = append(*out, tree.NewErrorNode(pc.Dialect(), start, diags, children...))
	return lexical
}

// missing adds a zero-width error node standing for an absent item.
func (pc *ParseContext) missing(out *[]tree.Element, what string) {
	t := pc.peek()
	span := jlx.Span{Start: pc.pos, End: pc.pos}
	var d jlx.Diagnostic
	if t.IsEOF() {
		d = pc.diag(span, UnexpectedEofError, "unexpected end of input, expecting %s", what)
	} else {
		d = pc.diag(span, MissingError, "missing %s before %s", what, pc.tokenName(t))
	}

	pc.stats.Missing++
	pc.log.Debug().Str("rule", pc.rule).Int("pos", pc.pos).Str("expected", what).Msg("missing item")
	*out = append(*out, tree.NewErrorNode(pc.Dialect(), pc.pos, []jlx.Diagnostic{d}))
}

// overflow places tokens up to the next stop token into an error node.
func (pc *ParseContext) overflow(out *[]tree.Element) {
	*out = append(*out, pc.trivia()...)
	pos := pc.pos
	t := pc.peek()
	diags := []jlx.Diagnostic{
		pc.diag(jlx.Span{Start: t.Start(), End: t.End()}, NestingDepthError, "nesting depth exceeds %d", pc.parser.opts.maxDepth),
	}

	var children []tree.Element
	for ; !pc.isStop(t); t = pc.peek() {
		if t.IsError() {
			diags = append(diags, pc.lexical(t))
		}
		children = append(children, pc.take()...)
	}
	if len(children) > 0 {
		pc.stats.Recoveries++
	}

	pc.log.Debug().Str("rule", pc.rule).Int("pos", pos).Msg("nesting depth exceeded")
	*out = append(*out, tree.NewErrorNode(pc.Dialect(), pos, diags, children...))
}
