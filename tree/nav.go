package tree

import (
	"sort"
)

// Ancestor returns the ancestor of e at the given level: 0 is the parent, 1 is the grandparent, etc.
func Ancestor(e Element, level int) *Node {
	if e == nil {
		return nil
	}

	n := e.Parent()
	for n != nil && level > 0 {
		n = n.parent
		level--
	}
	return n
}

// NodeLevel returns the number of ancestors of e.
func NodeLevel(e Element) (l int) {
	if e == nil {
		return
	}

	for p := e.Parent(); p != nil; p = p.parent {
		l++
	}
	return
}

// NthChild returns i-th child of e, negative i counts from the last child.
func NthChild(e Element, i int) Element {
	n, is := e.(*Node)
	if !is || n == nil {
		return nil
	}
	return n.Child(i)
}

// NthSibling returns the sibling i positions after (or before, if i < 0) e.
func NthSibling(e Element, i int) Element {
	if e == nil {
		return nil
	}
	if i == 0 {
		return e
	}
	return sibling(e.Parent(), e.Index()+i)
}

const AllLevels = -1

// NumOfChildren counts children of e and, if levels is not zero, their descendants up to levels deep.
func NumOfChildren(e Element, levels int) int {
	n, is := e.(*Node)
	if !is || n == nil {
		return 0
	}

	result := 0
	for _, c := range n.children {
		result++
		if levels != 0 {
			result += NumOfChildren(c, levels-1)
		}
	}
	return result
}

func Children(e Element) []Element {
	n, is := e.(*Node)
	if !is || n == nil {
		return nil
	}
	return n.Children()
}

// FirstLeaf returns the first leaf of the subtree or nil if the subtree contains no leaves.
func FirstLeaf(e Element) *Leaf {
	switch e := e.(type) {
	case *Leaf:
		return e
	case *Node:
		if e == nil {
			return nil
		}
		for _, c := range e.children {
			if l := FirstLeaf(c); l != nil {
				return l
			}
		}
	}
	return nil
}

// LastLeaf returns the last leaf of the subtree or nil if the subtree contains no leaves.
func LastLeaf(e Element) *Leaf {
	switch e := e.(type) {
	case *Leaf:
		return e
	case *Node:
		if e == nil {
			return nil
		}
		for i := len(e.children) - 1; i >= 0; i-- {
			if l := LastLeaf(e.children[i]); l != nil {
				return l
			}
		}
	}
	return nil
}

// NextLeaf returns the first leaf following the subtree of e.
func NextLeaf(e Element) *Leaf {
	for e != nil {
		for s := e.Next(); s != nil; s = s.Next() {
			if l := FirstLeaf(s); l != nil {
				return l
			}
		}
		p := e.Parent()
		if p == nil {
			break
		}
		e = p
	}
	return nil
}

// PrevLeaf returns the last leaf preceding the subtree of e.
func PrevLeaf(e Element) *Leaf {
	for e != nil {
		for s := e.Prev(); s != nil; s = s.Prev() {
			if l := LastLeaf(s); l != nil {
				return l
			}
		}
		p := e.Parent()
		if p == nil {
			break
		}
		e = p
	}
	return nil
}

// Leaves returns all leaves of the subtree in source order.
func Leaves(e Element) []*Leaf {
	var result []*Leaf
	var collect func(e Element)
	collect = func(e Element) {
		switch e := e.(type) {
		case *Leaf:
			result = append(result, e)
		case *Node:
			for _, c := range e.children {
				collect(c)
			}
		}
	}
	collect(e)
	return result
}

// childAt returns the non-empty child containing offset.
func (n *Node) childAt(offset int) Element {
	ch := n.children
	i := sort.Search(len(ch), func(i int) bool {
		return ch[i].Span().End > offset
	})
	if i < len(ch) && ch[i].Span().Start <= offset {
		return ch[i]
	}
	return nil
}

// ElementAt returns the deepest element containing offset, usually a leaf.
// Returns nil if offset lies outside the root span or inside a gap not covered by children.
func ElementAt(root *Node, offset int) Element {
	if root == nil || offset < root.span.Start || offset >= root.span.End {
		return nil
	}

	var result Element = root
	for n := root; n != nil; {
		c := n.childAt(offset)
		if c == nil {
			break
		}
		result = c
		n, _ = c.(*Node)
	}
	return result
}

// NodeAt returns the deepest node containing offset.
// The end offset of the root span belongs to the root.
func NodeAt(root *Node, offset int) *Node {
	if root == nil || offset < root.span.Start || offset > root.span.End {
		return nil
	}

	result := root
	for {
		c, is := result.childAt(offset).(*Node)
		if !is || c == nil {
			return result
		}
		result = c
	}
}

// Covering returns the smallest node whose span contains the range [start, end).
func Covering(root *Node, start, end int) *Node {
	if root == nil || start > end || start < root.span.Start || end > root.span.End {
		return nil
	}

	result := root
	for {
		ch := result.children
		i := sort.Search(len(ch), func(i int) bool {
			return ch[i].Span().End >= end
		})
		var next *Node
		for ; i < len(ch); i++ {
			sp := ch[i].Span()
			if sp.Start > start {
				break
			}
			if n, is := ch[i].(*Node); is && sp.Start <= start && end <= sp.End && (sp.Len() > 0 || start == end) {
				next = n
				break
			}
		}
		if next == nil {
			return result
		}
		result = next
	}
}
