package julia

import (
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/parser"
	"github.com/ava12/jlx/tree"
)

func (l *Language) newHooks() *parser.Hooks {
	return &parser.Hooks{Nodes: parser.NodeHooks{
		KindToplevel.String():   l.statements,
		KindModuleDef.String():  l.statements,
		KindBlock.String():      l.statements,
		KindStatement.String():  statement,
		KindAssignment.String(): shortFunction,
		KindParen.String():      paren,
		KindArray.String():      array,
		KindField.String():      field,
		KindMacrocall.String():  l.docMacro,
	}}
}

func significant(es []tree.Element) []tree.Element {
	res := make([]tree.Element, 0, len(es))
	for _, e := range es {
		if !tree.IsTrivia(e) {
			res = append(res, e)
		}
	}
	return res
}

func isLeaf(e tree.Element, text string) bool {
	return e != nil && !e.IsNode() && e.Token().Text() == text
}

func isNewline(e tree.Element) bool {
	return e != nil && !e.IsNode() && e.Token().Class() == grammar.ClassNewline
}

// wrap places elements into a new node, leading and trailing trivia stay outside.
func wrap(kind Kind, dialect string, es []tree.Element) []tree.Element {
	first, last := 0, len(es)
	for first < last && tree.IsTrivia(es[first]) {
		first++
	}
	for last > first && tree.IsTrivia(es[last-1]) {
		last--
	}
	if first == last {
		return es
	}

	info := tree.NodeInfo{Kind: int(kind), TypeName: kind.String(), Dialect: dialect}
	res := append([]tree.Element{}, es[:first]...)
	res = append(res, tree.NewNode(info, es[first].Span().Start, es[first:last]...))
	return append(res, es[last:]...)
}

func retag(d *parser.Draft, kind Kind) {
	d.Kind = int(kind)
	d.TypeName = kind.String()
}

// statement turns `a, b` into a tuple and `a, b = c, d` into an assignment of tuples.
// Statements without commas are spliced into the parent by statements hook.
func statement(d *parser.Draft, pc *parser.ParseContext) error {
	hasComma := false
	asg := -1
	for i, c := range d.Children {
		if isLeaf(c, ",") {
			hasComma = true
		} else if asg < 0 && KindOf(c) == KindAssignment {
			asg = i
		}
	}
	if !hasComma {
		return nil
	}
	if asg < 0 {
		retag(d, KindTuple)
		return nil
	}

	n := d.Children[asg].(*tree.Node)
	cs := n.Children()
	op := -1
	for i, c := range cs {
		if i > 0 && !tree.IsTrivia(c) {
			op = i
			break
		}
	}
	if op < 0 || cs[op].IsNode() {
		return nil
	}

	dialect := pc.Dialect()
	lhs := append(append([]tree.Element{}, d.Children[:asg]...), cs[:op]...)
	if asg > 0 {
		lhs = wrap(KindTuple, dialect, lhs)
	}
	rhs := append(append([]tree.Element{}, cs[op+1:]...), d.Children[asg+1:]...)
	if asg+1 < len(d.Children) {
		rhs = wrap(KindTuple, dialect, rhs)
	}

	d.Children = append(append(lhs, cs[op]), rhs...)
	retag(d, KindAssignment)
	return nil
}

// shortFunction retags `f(x) = ...` and `f(x)::T where T = ...` as function definitions.
func shortFunction(d *parser.Draft, pc *parser.ParseContext) error {
	cs := significant(d.Children)
	if len(cs) < 3 || !isLeaf(cs[1], "=") {
		return nil
	}

	target := cs[0]
	for {
		k := KindOf(target)
		if k != KindWhereExpr && k != KindTypeDecl {
			break
		}
		target = significant(target.(*tree.Node).Children())[0]
	}
	if KindOf(target) == KindCall {
		return pc.Retag(d, KindFunctionDef.String())
	}
	return nil
}

// bracketed returns significant children between the opening and the closing brackets.
func bracketed(d *parser.Draft, closing string) []tree.Element {
	cs := significant(d.Children)
	if len(cs) == 0 {
		return nil
	}

	cs = cs[1:]
	if len(cs) > 0 && isLeaf(cs[len(cs)-1], closing) {
		cs = cs[:len(cs)-1]
	}
	return cs
}

func hasKind(es []tree.Element, k Kind) bool {
	for _, e := range es {
		if KindOf(e) == k {
			return true
		}
	}
	return false
}

func paren(d *parser.Draft, _ *parser.ParseContext) error {
	inner := bracketed(d, ")")
	switch {
	case hasKind(inner, KindForClause):
		retag(d, KindGenerator)
	case len(inner) == 0 || isLeaf(inner[0], ";"):
		retag(d, KindTuple)
	default:
		for _, e := range inner {
			if isLeaf(e, ",") {
				retag(d, KindTuple)
				break
			}
		}
	}
	return nil
}

func array(d *parser.Draft, _ *parser.ParseContext) error {
	if hasKind(bracketed(d, "]"), KindForClause) {
		retag(d, KindComprehension)
	}
	return nil
}

// field retags `f.(x)`.
func field(d *parser.Draft, _ *parser.ParseContext) error {
	for _, c := range d.Children {
		if isLeaf(c, "(") {
			retag(d, KindBroadcastCall)
			break
		}
	}
	return nil
}

// statements splices plain statements into the block and attaches docstrings to definitions.
func (l *Language) statements(d *parser.Draft, pc *parser.ParseContext) error {
	cs := make([]tree.Element, 0, len(d.Children))
	for _, c := range d.Children {
		if KindOf(c) == KindStatement {
			cs = append(cs, c.(*tree.Node).Children()...)
		} else {
			cs = append(cs, c)
		}
	}

	res := make([]tree.Element, 0, len(cs))
	for i := 0; i < len(cs); i++ {
		s := cs[i]
		if !KindOf(s).isString() {
			res = append(res, s)
			continue
		}

		j := i + 1
		newlines := 0
		for ; j < len(cs) && tree.IsTrivia(cs[j]); j++ {
			if isNewline(cs[j]) {
				newlines++
			}
		}
		if j == len(cs) || newlines > 1 || !KindOf(cs[j]).IsDefinition() {
			res = append(res, s)
			continue
		}

		doc, e := l.docstring(s.(*tree.Node), pc)
		if e != nil {
			return e
		}

		def := cs[j].(*tree.Node)
		children := append([]tree.Element{doc}, cs[i+1:j]...)
		children = append(children, def.Children()...)
		res = append(res, tree.NewNode(def.Info(), doc.Span().Start, children...))
		i = j
	}
	d.Children = res
	return nil
}

// docMacro turns the first string argument of `@doc` into a docstring.
func (l *Language) docMacro(d *parser.Draft, pc *parser.ParseContext) error {
	cs := significant(d.Children)
	if len(cs) < 2 || cs[0].IsNode() || cs[0].Token().Text() != "@doc" {
		return nil
	}

	arg := cs[1]
	if isLeaf(arg, "(") && len(cs) > 2 {
		arg = cs[2]
	}
	if !KindOf(arg).isString() {
		return nil
	}

	doc, e := l.docstring(arg.(*tree.Node), pc)
	if e != nil {
		return e
	}
	for i, c := range d.Children {
		if c == arg {
			d.Children[i] = doc
			break
		}
	}
	return nil
}

// docstring wraps a string node. Plain string content without interpolation is parsed
// as docfmt and replaces the text leaves of the string.
func (l *Language) docstring(s *tree.Node, pc *parser.ParseContext) (*tree.Node, error) {
	info := tree.NodeInfo{Kind: int(KindDocstring), TypeName: KindDocstring.String(), Dialect: pc.Dialect()}
	str, e := l.docBody(s, pc)
	if e != nil {
		return nil, e
	}

	return tree.NewNode(info, s.Span().Start, str), nil
}

func (l *Language) docBody(s *tree.Node, pc *parser.ParseContext) (*tree.Node, error) {
	k := KindOf(s)
	if k != KindString && k != KindTripleString {
		return s, nil
	}

	cs := s.Children()
	if len(cs) < 3 {
		return s, nil
	}
	for _, c := range cs {
		if c.IsNode() {
			return s, nil
		}
	}
	open, closing := cs[0], cs[len(cs)-1]
	if tt := closing.TypeName(); tt != "string-close" && tt != "triple-close" {
		return s, nil
	}

	start, end := open.Span().End, closing.Span().Start
	res, e := l.doc.ParseRange(pc.Context(), pc.Source(), start, end)
	if e != nil {
		return nil, e
	}

	pc.AddDiagnostics(res.Diagnostics...)
	return tree.NewNode(s.Info(), s.Span().Start, open, res.Root, closing), nil
}
