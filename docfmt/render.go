package docfmt

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"

	"github.com/ava12/jlx/tree"
)

// RefName returns the name a cross reference points to: link text without brackets and backticks.
func RefName(n *tree.Node) string {
	if KindOf(n) != KindCrossRef {
		return ""
	}

	var b strings.Builder
	for _, c := range n.Children() {
		if KindOf(c) == KindTarget {
			break
		}
		if c.IsNode() || (c.TypeName() != "lbracket" && c.TypeName() != "rbracket") {
			b.WriteString(tree.Text(c))
		}
	}
	return strings.Trim(strings.TrimSpace(b.String()), "`")
}

// Anchor converts a referenced name to an HTML anchor.
func Anchor(name string) string {
	return "#" + strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '(', ')', '[', ']':
			return '-'
		}
		return r
	}, name)
}

// Markdown returns the markup text of a docfmt subtree with common indentation removed
// and cross reference targets replaced by anchors.
func Markdown(root *tree.Node) string {
	var b strings.Builder
	tree.Walk(root, tree.WalkLtr, func(stat tree.WalkStat) tree.WalkerFlags {
		if n, is := stat.Element.(*tree.Node); is {
			if KindOf(n) == KindTarget && KindOf(n.Parent()) == KindCrossRef {
				b.WriteString("(" + Anchor(RefName(n.Parent())) + ")")
				return tree.WalkerSkipChildren
			}
			return 0
		}

		b.WriteString(stat.Element.Token().Text())
		return 0
	})
	return dedent(b.String())
}

// HTML renders a docfmt subtree.
func HTML(root *tree.Node) []byte {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions | mdparser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Markdown(root)), p, r)
}

func dedent(text string) string {
	lines := strings.SplitAfter(text, "\n")
	indent := -1
	for _, l := range lines {
		body := strings.TrimLeft(l, " \t")
		if strings.TrimSpace(body) == "" {
			continue
		}
		if w := len(l) - len(body); indent < 0 || w < indent {
			indent = w
		}
	}
	if indent <= 0 {
		return text
	}

	var b strings.Builder
	for _, l := range lines {
		if len(l) >= indent && strings.TrimLeft(l[:indent], " \t") == "" {
			l = l[indent:]
		} else {
			l = strings.TrimLeft(l, " \t")
		}
		b.WriteString(l)
	}
	return b.String()
}
