package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/lexer"
)

// buildTree converts "(foo bar (baz qux))" to a sealed tree: the first word after a parenthesis
// is the node name, other words are leaves. Spans are offsets in the description.
// The index maps node names and leaf texts to elements.
func buildTree(t *testing.T, src string) (*Node, map[string]Element) {
	t.Helper()
	content := []byte(src)
	index := make(map[string]Element)
	pos := 0

	word := func() (string, int) {
		start := pos
		for pos < len(src) && !strings.ContainsRune(" ()", rune(src[pos])) {
			pos++
		}
		return src[start:pos], start
	}
	skipSpace := func() {
		for pos < len(src) && src[pos] == ' ' {
			pos++
		}
	}

	var parseNode func(name string, at int, root bool) *Node
	parseNode = func(name string, at int, root bool) *Node {
		var children []Element
		for {
			skipSpace()
			if root && pos >= len(src) {
				return NewNode(NodeInfo{}, 0, children...)
			}
			require.Less(t, pos, len(src), "unbalanced tree description")
			switch src[pos] {
			case ')':
				pos++
				n := NewNode(NodeInfo{TypeName: name}, at, children...)
				index[name] = n
				return n
			case '(':
				pos++
				name, at := word()
				children = append(children, parseNode(name, at, false))
			default:
				text, start := word()
				l := NewLeaf(lexer.NewToken(0, "word", grammar.ClassIdentifier, content[start:pos], start, nil))
				index[text] = l
				children = append(children, l)
			}
		}
	}

	root := parseNode("", 0, true)
	Seal(root)
	return root, index
}

func names(es ...Element) string {
	result := make([]string, 0, len(es))
	for _, e := range es {
		if e.IsNode() {
			result = append(result, "("+e.TypeName()+")")
		} else {
			result = append(result, e.Token().Text())
		}
	}
	return strings.Join(result, " ")
}

func TestBuildTree(t *testing.T) {
	src := "(foo bar (baz qux)) (x)"
	root, i := buildTree(t, src)
	require.NoError(t, Validate(root, nil))
	assert.Equal(t, `( (foo "bar" (baz "qux")) (x))`, Dump(root, 0))
	assert.Equal(t, "barqux", Text(i["foo"]))
	assert.Equal(t, strings.Index(src, "(x)")+1, i["x"].Span().Start)
}

func TestNavigation(t *testing.T) {
	root, i := buildTree(t, "(1st) (2nd leaf other) (3rd (nested foo bar) baz)")

	assert.Nil(t, root.Parent())
	assert.Same(t, root, i["2nd"].Parent())
	assert.Same(t, i["2nd"].(*Node), i["leaf"].Parent())
	assert.Equal(t, 1, i["other"].Index())
	assert.Same(t, i["1st"], i["2nd"].Prev())
	assert.Same(t, i["3rd"], i["2nd"].Next())
	assert.Nil(t, i["1st"].Prev())
	assert.Nil(t, i["3rd"].Next())

	assert.Same(t, root, Ancestor(i["foo"], 2))
	assert.Same(t, i["3rd"].(*Node), Ancestor(i["foo"], 1))
	assert.Nil(t, Ancestor(i["foo"], 3))
	assert.Equal(t, 3, NodeLevel(i["foo"]))
	assert.Equal(t, 0, NodeLevel(root))

	assert.Same(t, i["baz"], NthChild(i["3rd"], -1))
	assert.Same(t, i["nested"], NthChild(i["3rd"], 0))
	assert.Nil(t, NthChild(i["3rd"], 2))
	assert.Nil(t, NthChild(i["leaf"], 0))
	assert.Same(t, i["3rd"], NthSibling(i["1st"], 2))
	assert.Same(t, i["1st"], NthSibling(i["3rd"], -2))
	assert.Nil(t, NthSibling(i["1st"], -1))

	assert.Equal(t, 3, NumOfChildren(root, 0))
	assert.Equal(t, 9, NumOfChildren(root, AllLevels))
	assert.Equal(t, "(nested) baz", names(Children(i["3rd"])...))
	assert.Empty(t, Children(i["leaf"]))
}

func TestLeaves(t *testing.T) {
	root, i := buildTree(t, "(1st) (2nd leaf other) (3rd (nested foo bar) baz) (4th)")

	assert.Nil(t, FirstLeaf(nil))
	assert.Same(t, i["leaf"], Element(FirstLeaf(root)))
	assert.Nil(t, FirstLeaf(i["1st"]))
	assert.Same(t, i["foo"], Element(FirstLeaf(i["3rd"])))
	assert.Same(t, i["baz"], Element(LastLeaf(root)))
	assert.Nil(t, LastLeaf(i["4th"]))

	assert.Same(t, i["leaf"], Element(NextLeaf(i["1st"])))
	assert.Same(t, i["foo"], Element(NextLeaf(i["other"])))
	assert.Same(t, i["baz"], Element(NextLeaf(i["nested"])))
	assert.Nil(t, NextLeaf(i["baz"]))
	assert.Nil(t, NextLeaf(root))

	assert.Same(t, i["bar"], Element(PrevLeaf(i["baz"])))
	assert.Same(t, i["other"], Element(PrevLeaf(i["foo"])))
	assert.Same(t, i["baz"], Element(PrevLeaf(i["4th"])))
	assert.Nil(t, PrevLeaf(i["leaf"]))

	assert.Equal(t, "leaf other foo bar baz", names(leafElements(Leaves(root))...))
}

func leafElements(ls []*Leaf) []Element {
	result := make([]Element, len(ls))
	for i, l := range ls {
		result[i] = l
	}
	return result
}

func TestRangeQueries(t *testing.T) {
	src := "(a (bb ccc dd) (e f))"
	root, i := buildTree(t, src)
	ccc := strings.Index(src, "ccc")

	assert.Same(t, i["ccc"], ElementAt(root, ccc+1))
	assert.Same(t, i["bb"].(*Node), NodeAt(root, ccc+1))
	assert.Same(t, i["bb"].(*Node), NodeAt(root, ccc+3), "gap between leaves belongs to the parent")
	assert.Nil(t, ElementAt(root, len(src)+1))
	assert.Same(t, root, NodeAt(root, root.Span().End))

	assert.Same(t, i["bb"].(*Node), Covering(root, ccc, ccc+3))
	assert.Same(t, i["bb"].(*Node), Covering(root, ccc, strings.Index(src, "dd")+2))
	assert.Same(t, i["a"].(*Node), Covering(root, ccc, strings.Index(src, "f")+1))
	assert.Nil(t, Covering(root, 5, 2))
}

func TestWalk(t *testing.T) {
	root, _ := buildTree(t, "(foo f0 (f1 (f11 f111)) f2) (bar b1) (baz)")
	samples := []struct {
		stopAt string
		flags  WalkerFlags
		ltr    string
		rtl    string
	}{
		{"", 0, "() (foo) f0 (f1) (f11) f111 f2 (bar) b1 (baz)", "() (baz) (bar) b1 (foo) f2 (f1) (f11) f111 f0"},
		{"f1", WalkerSkipChildren, "() (foo) f0 (f1) f2 (bar) b1 (baz)", "() (baz) (bar) b1 (foo) f2 (f1) f0"},
		{"f1", WalkerSkipSiblings, "() (foo) f0 (f1) (f11) f111 (bar) b1 (baz)", "() (baz) (bar) b1 (foo) f2 (f1) (f11) f111"},
		{"f1", WalkerStop, "() (foo) f0 (f1)", "() (baz) (bar) b1 (foo) f2 (f1)"},
	}

	for _, s := range samples {
		for _, mode := range []WalkMode{WalkLtr, WalkRtl} {
			var got []Element
			Walk(root, mode, func(stat WalkStat) WalkerFlags {
				got = append(got, stat.Element)
				if stat.Element.IsNode() && stat.Element.TypeName() == s.stopAt {
					return s.flags
				}
				return 0
			})
			expected := s.ltr
			if mode == WalkRtl {
				expected = s.rtl
			}
			assert.Equal(t, expected, names(got...), "flags %d, mode %d", s.flags, mode)
		}
	}
}

func TestWalkLevel(t *testing.T) {
	root, _ := buildTree(t, "(foo (bar baz))")
	var levels []int
	Walk(root, WalkLtr, func(stat WalkStat) WalkerFlags {
		levels = append(levels, stat.Level)
		return 0
	})
	assert.Equal(t, []int{0, 1, 2, 3}, levels)
}

func TestIterator(t *testing.T) {
	it := NewIterator(nil, WalkLtr)
	assert.Nil(t, it.Next())

	root, i := buildTree(t, "(foo (f1 (f11 f111 f112)) f2) (bar b1) (baz)")

	it = NewIterator(root, WalkLtr)
	assert.Nil(t, it.Step(WalkerStop))
	assert.Nil(t, it.Next())

	it = NewIterator(root, WalkLtr)
	assert.Same(t, root, it.Next())
	assert.Same(t, i["foo"], it.Next())
	assert.Same(t, i["f1"], it.Next())
	assert.Same(t, i["f11"], it.Next())
	assert.Same(t, i["f111"], it.Next())
	assert.Same(t, i["f2"], it.Step(WalkerSkipSiblings))
	assert.Same(t, i["bar"], it.Next())
	assert.Same(t, i["baz"], it.Step(WalkerSkipChildren))
	assert.Nil(t, it.Next())
	assert.Nil(t, it.Next())

	it.Reset()
	assert.Same(t, root, it.Next())

	it = NewIterator(root, WalkRtl)
	assert.Same(t, root, it.Next())
	assert.Same(t, i["baz"], it.Next())
	assert.Same(t, i["bar"], it.Next())
	assert.Same(t, i["foo"], it.Step(WalkerSkipChildren))
	assert.Same(t, i["f2"], it.Next())
	assert.Same(t, i["f1"], it.Next())
	assert.Same(t, i["f11"], it.Next())
	assert.Same(t, i["f112"], it.Step(WalkerSkipSiblings))
	assert.Nil(t, it.Step(WalkerSkipSiblings))
}

func TestPostOrderIterator(t *testing.T) {
	root, i := buildTree(t, "(foo (f1 f11) f2) (bar)")

	collect := func(it *Iterator) string {
		var got []Element
		for e := it.Next(); e != nil; e = it.Next() {
			got = append(got, e)
		}
		return names(got...)
	}

	it := NewIterator(root, WalkLtr|WalkPostOrder)
	assert.Equal(t, "f11 (f1) f2 (foo) (bar) ()", collect(it))
	it.Reset()
	assert.Equal(t, "f11 (f1) f2 (foo) (bar) ()", collect(it), "iterator is restartable")

	it = NewIterator(root, WalkRtl|WalkPostOrder)
	assert.Equal(t, "(bar) f2 f11 (f1) (foo) ()", collect(it))

	it = NewIterator(i["f1"], WalkPostOrder)
	assert.Equal(t, "f11 (f1)", collect(it), "subtree iteration stops at its root")
}

func TestValidate(t *testing.T) {
	root, i := buildTree(t, "(foo bar) (baz qux)")
	require.NoError(t, Validate(root, nil))

	broken := NewNode(NodeInfo{TypeName: "broken"}, 0, i["baz"], i["foo"])
	Seal(broken)
	assert.Error(t, Validate(broken, nil))

	unsealed := NewNode(NodeInfo{TypeName: "unsealed"}, 0, NewLeaf(i["bar"].Token()))
	assert.Error(t, Validate(unsealed, nil))
}

func TestErrorNode(t *testing.T) {
	n := NewErrorNode("test", 7, nil)
	assert.True(t, n.IsError())
	assert.Equal(t, ErrorTypeName, n.TypeName())
	assert.Equal(t, 7, n.Span().Start)
	assert.True(t, n.Span().IsEmpty())
	assert.Equal(t, "test", n.Dialect())
}
