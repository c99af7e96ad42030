package julia

import (
	"sort"
	"strings"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/tree"
)

// Style diagnostic codes:
const (
	NoFinalNewlineWarning = jlx.StyleErrors + iota
	TabWarning
	TrailingSpaceWarning
	SpacingWarning
	IndentWarning
)

const (
	ErrNoEofNl    = "no newline at file end"
	ErrTab        = "no tabs allowed in indentation"
	ErrTrailSpace = "trailing spaces are not allowed"
	ErrNoSpace    = "missing space after ','"
	ErrWrongSpace = "excess space before ','"
	ErrIndent     = "inconsistent indentation"
)

const tabWidth = 8

type reports struct {
	diags []jlx.Diagnostic
}

func (rs *reports) report(span jlx.Span, code int, msg string) {
	rs.diags = append(rs.diags, jlx.Diagnostic{
		Span:     span,
		Severity: jlx.SeverityWarning,
		Code:     code,
		Message:  msg,
		Context:  "style",
	})
}

// Style checks layout conventions of a Julia tree. All diagnostics are warnings ordered by offset,
// docstring contents are not checked.
func Style(root *tree.Node) []jlx.Diagnostic {
	rs := &reports{}
	checks := []func(*tree.Node, *reports){
		reportNoFinalNl,
		reportTabs,
		reportTrailingSpaces,
		reportCommaSpaces,
		reportIndents,
	}
	for _, check := range checks {
		check(root, rs)
	}

	sort.SliceStable(rs.diags, func(i, j int) bool {
		return rs.diags[i].Span.Start < rs.diags[j].Span.Start
	})
	return rs.diags
}

func isCode(e tree.Element) bool {
	p := e.Parent()
	return p != nil && p.Dialect() == Dialect
}

func isSpace(e tree.Element) bool {
	return !e.IsNode() && e.Token().Class() == grammar.ClassWhitespace
}

func atLineStart(e tree.Element) bool {
	p := tree.PrevLeaf(e)
	return p == nil || isNewline(p)
}

func isIndent(e tree.Element) bool {
	return isSpace(e) && isCode(e) && atLineStart(e)
}

func reportNoFinalNl(root *tree.Node, rs *reports) {
	last := tree.LastLeaf(root)
	if last != nil && !isNewline(last) {
		end := last.Span().End
		rs.report(jlx.Span{Start: end, End: end}, NoFinalNewlineWarning, ErrNoEofNl)
	}
}

func reportTabs(root *tree.Node, rs *reports) {
	hasTab := func(e tree.Element) bool {
		return strings.ContainsRune(e.Token().Text(), '\t')
	}
	sel := tree.NewSelector().DeepSearch(isIndent).Filter(hasTab)
	for _, e := range sel.Apply(root) {
		rs.report(e.Span(), TabWarning, ErrTab)
	}
}

func reportTrailingSpaces(root *tree.Node, rs *reports) {
	newlineFollows := func(e tree.Element) bool {
		n := tree.NextLeaf(e)
		return n == nil || isNewline(n)
	}
	sel := tree.NewSelector().DeepSearch(tree.IsAll(isSpace, isCode)).Filter(newlineFollows)
	for _, e := range sel.Apply(root) {
		rs.report(e.Span(), TrailingSpaceWarning, ErrTrailSpace)
	}
}

func reportCommaSpaces(root *tree.Node, rs *reports) {
	commas := tree.NewSelector().DeepSearch(tree.IsAll(tree.IsALiteral(","), isCode)).Apply(root)
	for _, c := range commas {
		if prev := tree.PrevLeaf(c); prev != nil && isSpace(prev) && !atLineStart(prev) {
			rs.report(prev.Span(), SpacingWarning, ErrWrongSpace)
		}

		next := tree.NextLeaf(c)
		if next != nil && !isSpace(next) && !isNewline(next) && !tree.IsALiteral(")", "]", "}")(next) {
			rs.report(c.Span(), SpacingWarning, ErrNoSpace)
		}
	}
}

// indentOf returns the indentation width of the line starting with e or -1 if e does not start a line.
func indentOf(e tree.Element) int {
	first := tree.FirstLeaf(e)
	if first == nil {
		return -1
	}

	p := tree.PrevLeaf(first)
	if p == nil || isNewline(p) {
		return 0
	}
	if !isSpace(p) || !atLineStart(p) {
		return -1
	}

	size := 0
	for _, c := range p.Token().Text() {
		if c == '\t' {
			size = (size/tabWidth + 1) * tabWidth
		} else {
			size++
		}
	}
	return size
}

func reportIndents(root *tree.Node, rs *reports) {
	blocks := tree.NewSelector().DeepSearch(tree.IsAll(tree.IsA(KindBlock.String()), isCodeNode)).Apply(root)
	for _, b := range blocks {
		expected := -1
		for _, c := range b.(*tree.Node).Children() {
			if tree.IsTrivia(c) {
				continue
			}

			indent := indentOf(c)
			if indent < 0 {
				continue
			}
			if expected < 0 {
				expected = indent
				continue
			}
			if indent != expected {
				rs.report(tree.FirstLeaf(c).Span(), IndentWarning, ErrIndent)
				break
			}
		}
	}
}

func isCodeNode(e tree.Element) bool {
	n, is := e.(*tree.Node)
	return is && n.Dialect() == Dialect
}
