package main

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/source"
	"github.com/ava12/jlx/tree"
)

func isTerminalFd(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// palette colors output only when it goes to a terminal.
type palette struct {
	err, warn, info, name, leaf *color.Color
}

func newPalette(w io.Writer, noColor bool) *palette {
	p := &palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow),
		info: color.New(color.FgCyan),
		name: color.New(color.FgBlue),
		leaf: color.New(color.FgGreen),
	}
	enable := !noColor && isTerminal(w)
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.name, p.leaf} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) failure(msg string) string {
	return p.err.Sprint(msg)
}

func (p *palette) severity(s jlx.Severity) string {
	switch s {
	case jlx.SeverityError:
		return p.err.Sprint(s.String())
	case jlx.SeverityWarning:
		return p.warn.Sprint(s.String())
	default:
		return p.info.Sprint(s.String())
	}
}

// diagnostic formats d as "name:line:col: severity: message [code]".
func (p *palette) diagnostic(src *source.Source, d jlx.Diagnostic) string {
	line, col := src.LineCol(d.Span.Start)
	return fmt.Sprintf("%s:%d:%d: %s: %s [%d]", src.Name(), line, col, p.severity(d.Severity), d.Message, d.Code)
}

func countErrors(ds []jlx.Diagnostic, strict bool) int {
	res := 0
	for _, d := range ds {
		if d.Severity == jlx.SeverityError || strict && d.Severity == jlx.SeverityWarning {
			res++
		}
	}
	return res
}

const (
	maxLineLength = 78
	maxLeafLength = 40
	indentSize    = 2
)

// printTree prints a tree in a wrapped block form, chains of single-child nodes are joined with ':'.
func printTree(w io.Writer, root *tree.Node, colors *palette, width int) {
	pr := newPrinter(w, indentSize, width)
	printTreeNode(root, pr, colors)
	pr.Newline()
}

func printTreeNode(n *tree.Node, p *printer, colors *palette) {
	label := n.TypeName()
	children := significantChildren(n)
	for len(children) == 1 && children[0].IsNode() {
		n = children[0].(*tree.Node)
		children = significantChildren(n)
		label = label + ":" + n.TypeName()
	}
	if n.Label() != "" {
		label += "#" + n.Label()
	}
	p.Print(colors.name.Sprint(label), utf8.RuneCountInString(label)).Print("{", 1).Newline().Indent()

	for _, child := range children {
		if child.IsNode() {
			printTreeNode(child.(*tree.Node), p, colors)
		} else {
			printTreeLeaf(child, p, colors)
		}
	}

	p.Newline().Dedent().Print("}", 1)
}

func significantChildren(n *tree.Node) []tree.Element {
	var res []tree.Element
	for _, c := range n.Children() {
		if !tree.IsTrivia(c) {
			res = append(res, c)
		}
	}
	return res
}

func printTreeLeaf(e tree.Element, p *printer, colors *palette) {
	content := e.Token().Text()
	if utf8.RuneCountInString(content) > maxLeafLength {
		tail := 0
		for i := maxLeafLength - 3; i > 0; i-- {
			_, size := utf8.DecodeRuneInString(content[tail:])
			tail += size
		}
		content = content[:tail] + "..."
	}
	text := fmt.Sprintf("%s(%q)", e.TypeName(), content)
	p.Print(colors.leaf.Sprint(text), utf8.RuneCountInString(text))
}

type printer struct {
	w                        io.Writer
	indentSize, maxCol       int
	indentLevel, col         int
	indent, indentTpl, space string
	printed                  bool
}

func newPrinter(w io.Writer, indentSize, maxLineLength int) *printer {
	return &printer{
		w:          w,
		indentSize: indentSize,
		maxCol:     maxLineLength - 1,
		indentTpl:  "        ",
	}
}

// Print outputs s taking width runes, colored strings are wider than they look.
func (p *printer) Print(s string, width int) *printer {
	if p.printed && width+p.col+1 > p.maxCol {
		p.Newline()
	}
	fmt.Fprintf(p.w, "%s%s", p.space, s)
	p.col += len(p.space) + width
	p.space = " "
	p.printed = true
	return p
}

func (p *printer) Newline() *printer {
	if !p.printed {
		return p
	}

	fmt.Fprintln(p.w)
	p.space = p.indent
	p.printed = false
	p.col = 0
	return p
}

func (p *printer) Indent() *printer {
	p.indentLevel++
	size := p.indentLevel * p.indentSize
	for len(p.indentTpl) < size {
		p.indentTpl = p.indentTpl + p.indentTpl
	}
	p.indent = p.indentTpl[0:size]
	if !p.printed {
		p.space = p.indent
	}
	return p
}

func (p *printer) Dedent() *printer {
	p.indentLevel--
	p.indent = p.indentTpl[0 : p.indentLevel*p.indentSize]
	if !p.printed {
		p.space = p.indent
	}
	return p
}
