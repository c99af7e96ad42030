package parser_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/langdef"
	"github.com/ava12/jlx/lexer"
	"github.com/ava12/jlx/parser"
	"github.com/ava12/jlx/source"
	"github.com/ava12/jlx/tree"
)

const calcGrammar = `
$space = /[ \t]+/;
$nl = /\n/;
$comment = /#[^\n]*/;
$num = /[0-9]+/;
$name = /[a-z]+/;
$op = /\.?(?:==|[-+*\/^=<>?:!'])/;
$punct = /[(),;\[\]]/;

!aside $space $comment;
!newline $nl;
!class whitespace $space;
!class newline $nl;
!class comment $comment;
!reserved 'begin' 'end';
!sync 'end' $nl;

!expression expr operand;
!right assign '=';
!ternary cond '?' ':';
!none compare '<' '>' '==';
!left range ':';
!left binary '+' '-';
!left binary '*' '/';
!prefix unary '-' '!';
!right power '^';
!postfix adjoint "'";
!opref opref;
!dotted ".";
!suffix call index;

!nested paren call index;
!block block;
!inline operand;

program = {expr | $nl | ';'};
operand = $num | $name | paren | block;
paren = '(', [expr], ')';
block = 'begin', {expr | $nl | ';'}, 'end';
call = @, '(', [expr, {',', expr}], ')';
index = @, '[', expr, ']';
`

func newCalcParser(t *testing.T, opts ...parser.Option) *parser.Parser {
	t.Helper()
	g, e := langdef.ParseString("calc", calcGrammar)
	require.NoError(t, e)
	p, e := parser.New(g, opts...)
	require.NoError(t, e)
	return p
}

func parse(t *testing.T, p *parser.Parser, text string, hs *parser.Hooks) (*parser.Result, *source.Source) {
	t.Helper()
	src := source.New("sample", []byte(text))
	res, e := p.Parse(context.Background(), src, hs)
	require.NoError(t, e)
	require.NotNil(t, res.Root)
	require.NoError(t, tree.Validate(res.Root, src), text)
	return res, src
}

func codes(ds []jlx.Diagnostic) []int {
	var res []int
	for _, d := range ds {
		res = append(res, d.Code)
	}
	return res
}

func TestExpressions(t *testing.T) {
	samples := []struct {
		src, expected string
	}{
		{"1+2*3", `(program (binary "1" "+" (binary "2" "*" "3")))`},
		{"a-b-c", `(program (binary (binary "a" "-" "b") "-" "c"))`},
		{"a=b=c", `(program (assign "a" "=" (assign "b" "=" "c")))`},
		{"a<b<c", `(program (compare "a" "<" "b" "<" "c"))`},
		{"-a^b", `(program (unary "-" (power "a" "^" "b")))`},
		{"-a*b", `(program (binary (unary "-" "a") "*" "b"))`},
		{"!-a", `(program (unary "!" (unary "-" "a")))`},
		{"a ? b : c", `(program (cond "a" "?" "b" ":" "c"))`},
		{"a ? (1:2) : c", `(program (cond "a" "?" (paren "(" (range "1" ":" "2") ")") ":" "c"))`},
		{"1:2+3", `(program (range "1" ":" (binary "2" "+" "3")))`},
		{"f(x, y)[1]'", `(program (adjoint (index (call "f" "(" "x" "," "y" ")") "[" "1" "]") "'"))`},
		{"f()", `(program (call "f" "(" ")"))`},
		{"f(+, x)", `(program (call "f" "(" (opref "+") "," "x" ")"))`},
		{"(-)", `(program (paren "(" (opref "-") ")"))`},
		{"a .+ b .* c", `(program (binary "a" ".+" (binary "b" ".*" "c")))`},
		{"a +\n  b", `(program (binary "a" "+" "b"))`},
		{"a ?\n b :\n c", `(program (cond "a" "?" "b" ":" "c"))`},
		{"a <\n b <\n c", `(program (compare "a" "<" "b" "<" "c"))`},
		{"f(a,\nb)", `(program (call "f" "(" "a" "," "b" ")"))`},
		{"(a\n+ b)", `(program (paren "(" (binary "a" "+" "b") ")"))`},
		{"begin a\nb end", `(program (block "begin" "a" "b" "end"))`},
		{"(begin a\nb end)", `(program (paren "(" (block "begin" "a" "b" "end") ")"))`},
		{"a; b # comment\nc", `(program "a" ";" "b" "c")`},
		{"", `(program)`},
	}

	p := newCalcParser(t)
	for _, s := range samples {
		res, _ := parse(t, p, s.src, nil)
		assert.Equal(t, s.expected, tree.Dump(res.Root, 0), s.src)
		assert.Empty(t, res.Diagnostics, s.src)
	}
}

func TestTriviaIsKept(t *testing.T) {
	p := newCalcParser(t)
	res, src := parse(t, p, "  a + b # c\n", nil)
	assert.Equal(t, `(program "  " (binary "a" " " "+" " " "b") " " "# c" "\n")`, tree.Dump(res.Root, tree.DumpTrivia))
	assert.Equal(t, string(src.Content()), tree.Text(res.Root))
	assert.Equal(t, jlx.Span{Start: 0, End: src.Len()}, res.Root.Span())
	assert.Equal(t, jlx.Span{Start: 2, End: 7}, res.Root.Child(1).Span())
}

func TestRecovery(t *testing.T) {
	samples := []struct {
		src, expected string
		codes         []int
	}{
		{"f(a b)", `(program (call "f" "(" "a" (error "b") ")"))`, []int{parser.UnexpectedTokenError}},
		{"f(a", `(program (call "f" "(" "a" (error)))`, []int{parser.UnexpectedEofError}},
		{"a +", `(program (binary "a" "+" (error)))`, []int{parser.UnexpectedEofError}},
		{"begin a", `(program (block "begin" "a" (error)))`, []int{parser.UnexpectedEofError}},
		{") a", `(program (error ")") "a")`, []int{parser.UnexpectedTokenError}},
		{"a\n+b", `(program "a" (error "+") "b")`, []int{parser.UnexpectedOperatorError}},
		{"a @ b", `(program "a" (error "@") "b")`, []int{lexer.WrongCharError}},
		{"f(a ]] b)", `(program (call "f" "(" "a" (error "]" "]" "b") ")"))`, []int{parser.UnexpectedTokenError}},
		{"a ? b", `(program (cond "a" "?" "b" (error)))`, []int{parser.UnexpectedEofError}},
		{"f(a\nend", `(program (call "f" "(" "a" (error)) (error "end"))`, []int{parser.MissingError, parser.UnexpectedTokenError}},
	}

	p := newCalcParser(t)
	for _, s := range samples {
		res, _ := parse(t, p, s.src, nil)
		assert.Equal(t, s.expected, tree.Dump(res.Root, 0), s.src)
		assert.Equal(t, s.codes, codes(res.Diagnostics), s.src)
		assert.LessOrEqual(t, res.Stats.Recoveries, res.Stats.Tokens, s.src)
	}
}

func TestErrorNodeDiagnostics(t *testing.T) {
	p := newCalcParser(t)
	res, _ := parse(t, p, "f(a b)", nil)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, jlx.Span{Start: 4, End: 5}, d.Span)
	assert.Equal(t, jlx.SeverityError, d.Severity)
	assert.Equal(t, "unexpected $name 'b', expecting ','", d.Message)
	assert.Equal(t, "call", d.Context)

	en := tree.NewSelector().DeepSearch(func(e tree.Element) bool {
		n, ok := e.(*tree.Node)
		return ok && n.IsError()
	}).Apply(res.Root)
	require.Len(t, en, 1)
	assert.Equal(t, []jlx.Diagnostic{d}, en[0].(*tree.Node).Diagnostics())
	assert.Equal(t, tree.ErrorKind, en[0].(*tree.Node).Kind())
}

func TestDiagnosticsAreOrdered(t *testing.T) {
	p := newCalcParser(t)
	res, _ := parse(t, p, "a @ b\nf(c d\n) $ ) e", nil)
	require.NotEmpty(t, res.Diagnostics)
	for i := 1; i < len(res.Diagnostics); i++ {
		assert.LessOrEqual(t, res.Diagnostics[i-1].Span.Start, res.Diagnostics[i].Span.Start)
	}
	assert.LessOrEqual(t, res.Stats.Recoveries, res.Stats.Tokens)
}

func TestGarbageInput(t *testing.T) {
	p := newCalcParser(t)
	inputs := []string{
		")))]]]",
		"((((",
		"begin begin end end end",
		"a ? ? : : b",
		"f(a, , b,)",
		"= = =",
		"'''",
		"1 2 3 ) 4 ( 5",
	}
	for _, text := range inputs {
		res, src := parse(t, p, text, nil)
		assert.Equal(t, text, tree.Text(res.Root))
		assert.Equal(t, src.Len(), res.Root.Span().End)
		assert.LessOrEqual(t, res.Stats.Recoveries, res.Stats.Tokens, text)
	}
}

func TestNestingDepth(t *testing.T) {
	p := newCalcParser(t, parser.WithMaxDepth(20))
	text := strings.Repeat("(", 50) + "a" + strings.Repeat(")", 50)
	res, _ := parse(t, p, text, nil)
	assert.Contains(t, codes(res.Diagnostics), parser.NestingDepthError)
	assert.Equal(t, text, tree.Text(res.Root))
	assert.LessOrEqual(t, res.Stats.MaxDepth, 20)
}

func TestHooks(t *testing.T) {
	p := newCalcParser(t)
	nodes := 0
	hs := &parser.Hooks{Nodes: parser.NodeHooks{
		parser.AnyNode: func(d *parser.Draft, pc *parser.ParseContext) error {
			nodes++
			return nil
		},
		"call": func(d *parser.Draft, pc *parser.ParseContext) error {
			d.Label = tree.Text(d.Children[0])
			return nil
		},
		"paren": func(d *parser.Draft, pc *parser.ParseContext) error {
			return pc.Retag(d, "block")
		},
	}}

	res, _ := parse(t, p, "f(x) + (y)", hs)
	assert.Equal(t, `(program (binary (call #f "f" "(" "x" ")") "+" (block "(" "y" ")")))`, tree.Dump(res.Root, 0))
	assert.Equal(t, 2, nodes)
	assert.Equal(t, 4, res.Stats.Nodes)

	block := res.Root.Child(0).(*tree.Node).Child(-1).(*tree.Node)
	assert.Equal(t, p.NodeIndex("block"), block.Kind())
	assert.Equal(t, "calc", block.Dialect())
}

func TestHookErrors(t *testing.T) {
	p := newCalcParser(t)
	src := source.New("sample", []byte("f(x)"))

	_, e := p.Parse(context.Background(), src, &parser.Hooks{Nodes: parser.NodeHooks{"nothing": nil}})
	var je *jlx.Error
	require.ErrorAs(t, e, &je)
	assert.Equal(t, parser.UnknownNodeError, je.Code)

	failure := errors.New("hook failure")
	res, e := p.Parse(context.Background(), src, &parser.Hooks{Nodes: parser.NodeHooks{
		"call": func(d *parser.Draft, pc *parser.ParseContext) error {
			return failure
		},
	}})
	assert.Nil(t, res)
	assert.ErrorIs(t, e, failure)
}

func TestReport(t *testing.T) {
	p := newCalcParser(t)
	res, _ := parse(t, p, "f(x)", &parser.Hooks{Nodes: parser.NodeHooks{
		"call": func(d *parser.Draft, pc *parser.ParseContext) error {
			pc.Report(d.Children[0].Span(), 999, "calling %s", tree.Text(d.Children[0]))
			return nil
		},
	}})
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "calling f", res.Diagnostics[0].Message)
	assert.Equal(t, jlx.Span{Start: 0, End: 1}, res.Diagnostics[0].Span)
}

func TestCancellation(t *testing.T) {
	p := newCalcParser(t)
	src := source.New("sample", []byte("a + b\nf(c)\nd"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, e := p.Parse(ctx, src, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, e, jlx.ErrCancelled)
	assert.ErrorIs(t, e, context.Canceled)

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	res, e = p.Parse(ctx, src, &parser.Hooks{Nodes: parser.NodeHooks{
		"call": func(d *parser.Draft, pc *parser.ParseContext) error {
			cancel()
			return nil
		},
	}})
	assert.Nil(t, res)
	assert.ErrorIs(t, e, jlx.ErrCancelled)
}

func TestSeverity(t *testing.T) {
	p := newCalcParser(t, parser.WithSeverity(jlx.SeverityWarning), parser.WithDialect("doc"))
	res, _ := parse(t, p, "a @ (b", nil)
	require.Len(t, res.Diagnostics, 2)
	for _, d := range res.Diagnostics {
		assert.Equal(t, jlx.SeverityWarning, d.Severity)
	}
	assert.Equal(t, "doc", res.Root.Dialect())
}

func TestParseRange(t *testing.T) {
	p := newCalcParser(t)
	src := source.New("sample", []byte("xx f(a) yy"))
	res, e := p.ParseRange(context.Background(), src, 3, 7, nil)
	require.NoError(t, e)
	assert.Equal(t, `(program (call "f" "(" "a" ")"))`, tree.Dump(res.Root, 0))
	assert.Equal(t, jlx.Span{Start: 3, End: 7}, res.Root.Span())

	res, e = p.ParseRange(context.Background(), src, 5, 5, nil)
	require.NoError(t, e)
	assert.Equal(t, jlx.Span{Start: 5, End: 5}, res.Root.Span())
	assert.Equal(t, 0, res.Root.Len())
}

func TestConcurrentPasses(t *testing.T) {
	p := newCalcParser(t)
	text := "f(a, b) + c * (d - e)\nbegin x ? y : z end\ng(h) @ ]"
	src := source.New("sample", []byte(text))
	expected, e := p.Parse(context.Background(), src, nil)
	require.NoError(t, e)
	dump := tree.Dump(expected.Root, tree.DumpTrivia|tree.DumpSpans|tree.DumpTypes)

	var g errgroup.Group
	results := make([]string, 8)
	for i := range results {
		i := i
		g.Go(func() error {
			res, e := p.Parse(context.Background(), source.New("sample", []byte(text)), nil)
			if e != nil {
				return e
			}
			results[i] = tree.Dump(res.Root, tree.DumpTrivia|tree.DumpSpans|tree.DumpTypes)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for _, r := range results {
		assert.Equal(t, dump, r)
	}
}
