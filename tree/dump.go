package tree

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/ava12/jlx/source"
)

type DumpFlags int

const (
	// DumpTrivia includes whitespace, comment and newline leaves.
	DumpTrivia DumpFlags = 1 << iota

	// DumpSpans appends spans to node names.
	DumpSpans

	// DumpTypes prefixes leaf texts with term names.
	DumpTypes
)

// Dump renders the subtree as an S-expression: (type-name child...), leaves are quoted texts.
func Dump(e Element, flags DumpFlags) string {
	b := &strings.Builder{}
	dump(b, e, flags)
	return b.String()
}

func dump(b *strings.Builder, e Element, flags DumpFlags) {
	switch e := e.(type) {
	case *Leaf:
		if flags&DumpTypes != 0 {
			b.WriteString(e.TypeName())
			b.WriteByte(':')
		}
		b.WriteString(strconv.Quote(e.token.Text()))

	case *Node:
		b.WriteByte('(')
		b.WriteString(e.info.TypeName)
		if e.info.Label != "" {
			b.WriteString(" #" + e.info.Label)
		}
		if flags&DumpSpans != 0 {
			b.WriteString(" @" + e.span.String())
		}
		for _, c := range e.children {
			if flags&DumpTrivia == 0 && IsTrivia(c) {
				continue
			}
			b.WriteByte(' ')
			dump(b, c, flags)
		}
		b.WriteByte(')')
	}
}

// Text returns the source text of the subtree.
func Text(e Element) string {
	if e == nil {
		return ""
	}
	if !e.IsNode() {
		return e.Token().Text()
	}

	b := &bytes.Buffer{}
	for _, l := range Leaves(e) {
		b.Write(l.token.Content())
	}
	return b.String()
}

// Validate checks tree invariants: ordered non-overlapping children, node spans equal to
// children unions, consistent parent links (the tree must be sealed). If src is not nil leaves must cover the source exactly.
func Validate(root *Node, src *source.Source) error {
	var errs *multierror.Error
	fail := func(msg string, params ...any) {
		errs = multierror.Append(errs, fmt.Errorf(msg, params...))
	}

	Walk(root, WalkLtr, func(stat WalkStat) WalkerFlags {
		n, is := stat.Element.(*Node)
		if !is {
			return 0
		}

		if n.span.End < n.span.Start {
			fail("%s node has inverted span %s", n.info.TypeName, n.span)
		}
		if len(n.children) > 0 {
			first, last := n.children[0].Span(), n.children[len(n.children)-1].Span()
			if n.span.Start != first.Start || n.span.End != last.End {
				fail("%s node span %s differs from children union %d:%d", n.info.TypeName, n.span, first.Start, last.End)
			}
		}

		prevEnd := n.span.Start
		for i, c := range n.children {
			sp := c.Span()
			if sp.Start < prevEnd {
				fail("%s child #%d (%s) at %s overlaps previous child", n.info.TypeName, i, c.TypeName(), sp)
			}
			prevEnd = sp.End
			if c.Parent() != n || c.Index() != i {
				fail("%s child #%d (%s) has broken parent link", n.info.TypeName, i, c.TypeName())
			}
		}
		return 0
	})

	if src != nil {
		pos := 0
		for _, l := range Leaves(root) {
			sp := l.Span()
			if sp.Start != pos {
				fail("leaf %s at %s does not start at %d", l.TypeName(), sp, pos)
			}
			pos = sp.End
		}
		if pos != src.Len() {
			fail("leaves cover %d bytes of %d", pos, src.Len())
		}
		if Text(root) != string(src.Content()) {
			fail("tree text differs from source text")
		}
	}

	return errs.ErrorOrNil()
}
