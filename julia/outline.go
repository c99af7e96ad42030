package julia

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/tree"
)

// Symbol is an outline entry. Only module entries have children.
type Symbol struct {
	Kind     Kind
	Name     string
	Span     jlx.Span
	Children []Symbol
}

// contextual words are identifiers acting as keywords inside nodes of listed kinds.
var contextual = map[string][]Kind{
	"where":     {KindWhereExpr},
	"in":        {KindComparison},
	"isa":       {KindComparison},
	"as":        {KindImportPath},
	"mutable":   {KindStructDef},
	"abstract":  {KindAbstractDef},
	"primitive": {KindPrimitiveDef},
	"type":      {KindAbstractDef, KindPrimitiveDef},
}

func isContextual(l *tree.Leaf) bool {
	k := KindOf(l.Parent())
	for _, pk := range contextual[l.Token().Text()] {
		if pk == k {
			return true
		}
	}
	return false
}

// TokenClass returns the class of a leaf, contextual words used as keywords get keyword class.
func TokenClass(l *tree.Leaf) grammar.TermClass {
	c := l.Token().Class()
	if c == grammar.ClassIdentifier && isContextual(l) {
		return grammar.ClassKeyword
	}
	return c
}

// Outline lists definitions of the tree: modules, functions, macros, types and constants.
// Definitions wrapped in macro calls are listed too, definition bodies are not searched.
func Outline(root *tree.Node) []Symbol {
	var res []Symbol
	for _, c := range root.Children() {
		n, is := c.(*tree.Node)
		if !is {
			continue
		}

		switch k := KindOf(n); k {
		case KindModuleDef:
			res = append(res, Symbol{Kind: k, Name: DefinitionName(n), Span: n.Span(), Children: Outline(n)})
		case KindFunctionDef, KindMacroDef, KindStructDef, KindAbstractDef, KindPrimitiveDef, KindConstStmt:
			res = append(res, Symbol{Kind: k, Name: DefinitionName(n), Span: n.Span()})
		case KindMacrocall:
			res = append(res, Outline(n)...)
		}
	}
	return res
}

// DefinitionName returns the NFC normalized name defined by n or an empty string.
func DefinitionName(n *tree.Node) string {
	for _, c := range n.Children() {
		if tree.IsTrivia(c) || KindOf(c) == KindDocstring {
			continue
		}
		if l, is := c.(*tree.Leaf); is && (l.Token().Class() == grammar.ClassKeyword || isContextual(l)) {
			continue
		}

		return norm.NFC.String(nameOf(c, false))
	}
	return ""
}

func nameOf(e tree.Element, callee bool) string {
	if !e.IsNode() {
		if e.Token().Class() == grammar.ClassIdentifier || e.Token().Class() == grammar.ClassOperator {
			return e.Token().Text()
		}
		return ""
	}

	n := e.(*tree.Node)
	cs := significant(n.Children())
	if len(cs) == 0 {
		return ""
	}

	switch KindOf(n) {
	case KindCall:
		return nameOf(cs[0], true)
	case KindCurly, KindWhereExpr, KindTypeDecl, KindComparison, KindAssignment, KindFunctionDef:
		return nameOf(cs[0], callee)
	case KindParen:
		if callee && len(cs) == 3 {
			return nameOf(cs[1], false)
		}
	case KindField:
		var b strings.Builder
		for _, l := range tree.Leaves(n) {
			if !tree.IsTrivia(l) {
				b.WriteString(l.Token().Text())
			}
		}
		return b.String()
	case KindOperator:
		return tree.Text(cs[0])
	}
	return ""
}
