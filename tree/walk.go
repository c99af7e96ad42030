package tree

type WalkMode int

const (
	WalkLtr WalkMode = 0
	WalkRtl WalkMode = 1

	// WalkPostOrder makes Iterator return nodes after their children.
	WalkPostOrder WalkMode = 2
)

type WalkerFlags int

const (
	WalkerSkipChildren WalkerFlags = 1 << iota
	WalkerSkipSiblings
	WalkerStop
)

// WalkStat is passed to walker function, Level is 0 for the walk root.
type WalkStat struct {
	Element Element
	Level   int
}

type Visitor func(stat WalkStat) WalkerFlags

// Walk visits the subtree of e in pre-order.
func Walk(e Element, mode WalkMode, visitor Visitor) {
	if e != nil {
		visit(e, 0, visitor, mode&WalkRtl != 0)
	}
}

func visit(e Element, level int, v Visitor, rtl bool) WalkerFlags {
	flags := v(WalkStat{e, level})
	if flags&(WalkerSkipChildren|WalkerStop) != 0 {
		return flags
	}

	n, is := e.(*Node)
	if !is {
		return flags
	}

	l := len(n.children)
	for i := 0; i < l; i++ {
		c := n.children[i]
		if rtl {
			c = n.children[l-i-1]
		}
		cf := visit(c, level+1, v, rtl)
		if cf&WalkerStop != 0 {
			return flags | WalkerStop
		}
		if cf&WalkerSkipSiblings != 0 {
			break
		}
	}
	return flags
}

// Iterator is a lazy restartable traversal of a sealed subtree.
type Iterator struct {
	root    Element
	mode    WalkMode
	current Element
	started bool
}

func NewIterator(root Element, mode WalkMode) *Iterator {
	return &Iterator{root: root, mode: mode}
}

// Reset restarts the traversal.
func (it *Iterator) Reset() {
	it.current = nil
	it.started = false
}

// Next returns the next element or nil when the traversal is complete.
func (it *Iterator) Next() Element {
	return it.Step(0)
}

// Step returns the next element, flags apply to the element returned by the previous call.
// WalkerSkipChildren and WalkerSkipSiblings have no effect in post-order mode.
func (it *Iterator) Step(flags WalkerFlags) Element {
	if it.root == nil {
		return nil
	}

	if !it.started {
		it.started = true
		if flags&WalkerStop == 0 {
			it.current = it.root
			if it.mode&WalkPostOrder != 0 {
				it.current = it.deepest(it.root)
			}
		}
		return it.current
	}

	if it.current == nil || flags&WalkerStop != 0 {
		it.current = nil
		return nil
	}

	if it.mode&WalkPostOrder != 0 {
		it.current = it.nextPost(it.current)
	} else {
		it.current = it.nextPre(it.current, flags)
	}
	return it.current
}

func (it *Iterator) rtl() bool {
	return it.mode&WalkRtl != 0
}

func (it *Iterator) first(n *Node) Element {
	if it.rtl() {
		return n.Child(-1)
	}
	return n.Child(0)
}

func (it *Iterator) sibling(e Element) Element {
	if it.rtl() {
		return e.Prev()
	}
	return e.Next()
}

func (it *Iterator) nextPre(e Element, flags WalkerFlags) Element {
	if n, is := e.(*Node); is && flags&WalkerSkipChildren == 0 && len(n.children) > 0 {
		return it.first(n)
	}

	skip := flags&WalkerSkipSiblings != 0
	for e != it.root {
		if !skip {
			if s := it.sibling(e); s != nil {
				return s
			}
		}
		skip = false
		p := e.Parent()
		if p == nil {
			return nil
		}
		e = p
	}
	return nil
}

func (it *Iterator) deepest(e Element) Element {
	for {
		n, is := e.(*Node)
		if !is || len(n.children) == 0 {
			return e
		}
		e = it.first(n)
	}
}

func (it *Iterator) nextPost(e Element) Element {
	if e == it.root {
		return nil
	}

	if s := it.sibling(e); s != nil {
		return it.deepest(s)
	}

	p := e.Parent()
	if p == nil {
		return nil
	}
	return p
}
