package docfmt

import (
	"fmt"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/parser"
	"github.com/ava12/jlx/tree"
)

// Kind is the type of docfmt nodes. Values below KindCrossRef are grammar node indexes.
type Kind int

const (
	KindDoc Kind = iota
	KindHeader
	KindParagraph
	KindBulletList
	KindBulletItem
	KindOrderedList
	KindOrderedItem
	KindFencedCode
	KindCodeBlock
	KindCodeLine
	KindAdmonition
	KindBlockquote
	KindRule
	KindInline
	KindCode
	KindEmphasis
	KindStrong
	KindLink
	KindImage
	KindTarget

	// KindCrossRef is a link targeting (@ref), assigned by the link hook.
	KindCrossRef

	KindError Kind = tree.ErrorKind
)

var kindNames = [...]string{
	"doc", "header", "paragraph", "bullet-list", "bullet-item", "ordered-list", "ordered-item",
	"fenced-code", "code-block", "code-line", "admonition", "blockquote", "rule",
	"inline", "code", "emphasis", "strong", "link", "image", "target",
	"cross-ref",
}

func (k Kind) String() string {
	switch {
	case k == KindError:
		return tree.ErrorTypeName
	case k >= 0 && int(k) < len(kindNames):
		return kindNames[k]
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindOf returns the kind of a docfmt node or KindError for other elements.
func KindOf(e tree.Element) Kind {
	n, is := e.(*tree.Node)
	if !is || n == nil || n.Dialect() != Dialect {
		return KindError
	}
	return Kind(n.Kind())
}

// checkKinds verifies that grammar nodes match Kind values.
func checkKinds(g *grammar.Grammar) error {
	if len(g.Nodes) != int(KindCrossRef) {
		return jlx.FormatError(parser.BadGrammarError, "grammar %q defines %d nodes, expecting %d", g.Name, len(g.Nodes), int(KindCrossRef))
	}

	for i, nd := range g.Nodes {
		if nd.Name != kindNames[i] {
			return jlx.FormatError(parser.BadGrammarError, "grammar %q: node #%d is %q, expecting %q", g.Name, i, nd.Name, kindNames[i])
		}
	}
	return nil
}
