package julia

import (
	"golang.org/x/text/unicode/norm"

	"github.com/ava12/jlx/docfmt"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/tree"
)

// Docstring is an attached docstring.
type Docstring struct {
	// Name is the documented name, empty if it cannot be determined.
	Name string
	Node *tree.Node

	// Body is the docfmt subtree, nil for interpolated strings and string macros.
	Body *tree.Node
}

// Docstrings lists docstrings of the tree in source order, nested modules included.
func Docstrings(root *tree.Node) []Docstring {
	var res []Docstring
	sel := tree.NewSelector().DeepSearch(tree.IsAll(tree.IsA(KindDocstring.String()), isCodeNode))
	for _, e := range sel.Apply(root) {
		n := e.(*tree.Node)
		ds := Docstring{Node: n, Body: docBodyOf(n)}
		p := n.Parent()
		if KindOf(p) == KindMacrocall {
			ds.Name = docTarget(n)
		} else if p != nil {
			ds.Name = DefinitionName(p)
		}
		res = append(res, ds)
	}
	return res
}

func docBodyOf(n *tree.Node) *tree.Node {
	str, is := n.Child(0).(*tree.Node)
	if !is {
		return nil
	}
	for _, c := range str.Children() {
		if cn, is := c.(*tree.Node); is && cn.Label() == docfmt.Label {
			return cn
		}
	}
	return nil
}

// docTarget returns the name documented by `@doc "text" target`.
func docTarget(doc *tree.Node) string {
	for e := doc.Next(); e != nil; e = e.Next() {
		if tree.IsTrivia(e) {
			continue
		}

		if n, is := e.(*tree.Node); is {
			if KindOf(n).IsDefinition() {
				return DefinitionName(n)
			}
			return norm.NFC.String(nameOf(n, false))
		}
		if e.Token().Class() == grammar.ClassIdentifier {
			return norm.NFC.String(e.Token().Text())
		}
	}
	return ""
}
