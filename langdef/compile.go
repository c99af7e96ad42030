package langdef

import (
	"regexp"

	"github.com/hashicorp/go-multierror"

	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/internal/ints"
	"github.com/ava12/jlx/internal/queue"
)

func checkRegexp(re string) error {
	_, e := regexp.Compile(re)
	return e
}

type compiler struct {
	d    *description
	g    *grammar.Grammar
	errs *multierror.Error

	termIdx    map[string]int
	literalIdx map[string]int
	modeIdx    map[string]int
	nodeIdx    map[string]int
	nodes      []*nodeDef

	first    []*ints.Set
	nullable []bool
	prefixes *ints.Set
	allOps   *ints.Set
}

func (c *compiler) fail(e error) {
	c.errs = multierror.Append(c.errs, e)
}

func (c *compiler) failed() bool {
	return c.errs != nil && len(c.errs.Errors) > 0
}

// result returns either the only error or the whole list.
func (c *compiler) result() (*grammar.Grammar, error) {
	if !c.failed() {
		return c.g, nil
	}
	if len(c.errs.Errors) == 1 {
		return nil, c.errs.Errors[0]
	}
	return nil, c.errs
}

func compile(d *description) (*grammar.Grammar, error) {
	c := &compiler{
		d:          d,
		g:          &grammar.Grammar{Name: d.name, Version: d.version, OpRef: grammar.NoIndex, Dotted: d.dotted},
		termIdx:    make(map[string]int),
		literalIdx: make(map[string]int),
		modeIdx:    make(map[string]int),
		nodeIdx:    make(map[string]int),
	}

	c.buildTerms()
	c.buildModes()
	c.checkLiterals()
	c.buildNodes()
	if c.failed() {
		return c.result()
	}

	c.findUnused()
	c.computeFirst()
	c.findUnresolved()
	c.findRecursions()
	if c.failed() {
		return c.result()
	}

	c.buildItems()
	return c.result()
}

func (c *compiler) buildTerms() {
	d := c.d
	for _, t := range d.mentioned {
		if d.termIndex[t.Text()[1:]] == nil {
			c.fail(undefinedTokenError(t.Text()[1:]))
		}
	}
	for _, m := range d.termMarks {
		if td := d.termIndex[m.name]; td != nil {
			m.apply(td)
		}
	}

	literalTypes := make(map[string]bool)
	for _, name := range d.literalTypes {
		literalTypes[name] = true
	}
	for i, td := range d.terms {
		flags := td.flags
		if td.flags&grammar.AsideTerm != 0 || len(literalTypes) > 0 && !literalTypes[td.name] {
			flags |= grammar.NoLiteralsTerm
		}
		c.g.Terms = append(c.g.Terms, grammar.Term{Name: td.name, Re: td.re, Flags: flags, Class: td.class, Action: td.action})
		c.termIdx[td.name] = i
	}
	for _, text := range d.literals {
		flags := grammar.LiteralTerm
		class := grammar.ClassOperator
		if d.reserved[text] {
			flags |= grammar.ReservedTerm
			class = grammar.ClassKeyword
		}
		c.literalIdx[text] = len(c.g.Terms)
		c.g.Terms = append(c.g.Terms, grammar.Term{Name: text, Flags: flags, Class: class})
	}
}

func (c *compiler) buildModes() {
	d := c.d
	for i, m := range d.modes {
		c.modeIdx[m.name] = i
	}
	for _, m := range d.modes {
		if m.base != "" {
			if _, has := c.modeIdx[m.base]; !has {
				c.fail(unknownModeError(m.base))
				m.base = ""
			}
		}
	}

	for _, m := range d.modes {
		var terms []int
		seen := make(map[string]bool)
		visited := make(map[string]bool)
		for md := m; md != nil && !visited[md.name]; md = d.modeIndex[md.base] {
			visited[md.name] = true
			for _, name := range md.terms {
				if _, has := c.termIdx[name]; has && !seen[name] {
					seen[name] = true
					terms = append(terms, c.termIdx[name])
				}
			}
			if md.base == "" {
				break
			}
		}
		c.g.Modes = append(c.g.Modes, grammar.Mode{Name: m.name, Terms: terms})
	}

	for i, td := range d.terms {
		if td.action == grammar.PushMode || td.action == grammar.SwitchMode {
			mi, has := c.modeIdx[td.target]
			if !has {
				c.fail(unknownModeError(td.target))
				continue
			}
			c.g.Terms[i].Target = mi
		}
	}
}

// checkLiterals makes sure every literal can be produced by some token type.
func (c *compiler) checkLiterals() {
	var res []*regexp.Regexp
	for _, t := range c.g.Terms {
		if t.IsLiteral() || t.Flags&grammar.NoLiteralsTerm != 0 {
			continue
		}
		re, e := regexp.Compile("^(?:" + t.Re + ")")
		if e != nil {
			c.fail(regexpError(c.d.termIndex[t.Name].tok, e))
			continue
		}
		res = append(res, re)
	}

	for _, text := range c.d.literals {
		found := false
		for _, re := range res {
			m := re.FindStringSubmatchIndex(text)
			if m == nil {
				continue
			}
			n := m[1]
			if len(m) > 2 && m[2] == 0 {
				n = m[3]
			}
			if n == len(text) {
				found = true
				break
			}
		}
		if !found {
			c.fail(unknownLiteralError(text))
		}
	}
}

func (c *compiler) term(it *itemDef) (int, bool) {
	if it.literal {
		i, has := c.literalIdx[it.name]
		return i, has
	}
	i, has := c.termIdx[it.name]
	return i, has
}

func (c *compiler) buildNodes() {
	d := c.d
	for _, nd := range d.defs {
		c.nodeIdx[nd.name] = len(c.nodes)
		c.nodes = append(c.nodes, nd)
	}
	for _, nd := range d.synth {
		c.nodeIdx[nd.name] = len(c.nodes)
		c.nodes = append(c.nodes, nd)
	}

	for _, m := range d.nodeMarks {
		nd := d.nodeIndex[m.name]
		if nd == nil || nd.synth {
			c.fail(wrongDirectiveError(m.tok, "%q must be a defined node", m.name))
			continue
		}
		nd.flags |= m.flag
	}

	var undefined []string
	seen := make(map[string]bool)
	for _, nd := range d.defs {
		c.checkItem(nd, nd.body, true, func(name string) {
			if !seen[name] {
				seen[name] = true
				undefined = append(undefined, name)
			}
		})
		if nd.flags&grammar.SuffixNode != 0 && !startsWithLeft(nd.body) {
			c.fail(misplacedError("suffix node %q must start with @", nd.name))
		}
	}
	for _, nd := range d.synth {
		if nd.flags == grammar.ExpressionNode {
			op := d.nodeIndex[nd.operand]
			if op == nil || op.synth {
				c.fail(misplacedError("operand of %q must be a defined node, got %q", nd.name, nd.operand))
			}
		}
	}
	if len(undefined) > 0 {
		c.fail(unknownNodeError(undefined))
	}

	for _, it := range d.sync {
		if i, has := c.term(it); has {
			c.g.Sync = append(c.g.Sync, i)
		}
	}
	for _, l := range d.levels {
		level := grammar.OpLevel{Node: c.nodeIdx[l.node], Kind: l.kind, Assoc: l.assoc}
		for _, op := range l.ops {
			level.Ops = append(level.Ops, c.literalIdx[op])
		}
		c.g.Levels = append(c.g.Levels, level)
	}
	for _, name := range d.suffixes {
		if i, has := c.nodeIdx[name]; has {
			c.g.Suffixes = append(c.g.Suffixes, i)
		}
	}
	if d.opref != "" {
		c.g.OpRef = c.nodeIdx[d.opref]
	}
	if len(d.levels) > 0 && !c.hasExpression() {
		c.fail(misplacedError("operator levels defined without !expression"))
	}
	if len(d.suffixes) > 0 && !c.hasExpression() {
		c.fail(misplacedError("suffix nodes defined without !expression"))
	}
}

func (c *compiler) hasExpression() bool {
	for _, nd := range c.d.synth {
		if nd.flags == grammar.ExpressionNode {
			return true
		}
	}
	return false
}

func startsWithLeft(it *itemDef) bool {
	return it.kind == grammar.SeqItem && len(it.items) > 1 && it.items[0].kind == grammar.LeftItem
}

// checkItem validates references of a node body.
func (c *compiler) checkItem(nd *nodeDef, it *itemDef, top bool, undefined func(string)) {
	switch it.kind {
	case grammar.TermItem:
		i, has := c.term(it)
		if !has {
			return
		}
		if c.g.Terms[i].Flags&(grammar.AsideTerm|grammar.ErrorTerm) != 0 {
			c.fail(wrongTokenError(it.tok))
		}

	case grammar.NodeItem:
		ref := c.d.nodeIndex[it.name]
		switch {
		case ref == nil:
			undefined(it.name)
		case ref.flags&grammar.SuffixNode != 0:
			c.fail(misplacedError("suffix node %q cannot be referenced in %q", it.name, nd.name))
		case ref.synth && ref.flags != grammar.ExpressionNode:
			c.fail(misplacedError("operator node %q cannot be referenced in %q", it.name, nd.name))
		}

	case grammar.LeftItem:
		c.fail(misplacedError("misplaced @ in %q", nd.name))

	case grammar.SeqItem:
		for i, sub := range it.items {
			if top && i == 0 && sub.kind == grammar.LeftItem && nd.flags&grammar.SuffixNode != 0 {
				continue
			}
			c.checkItem(nd, sub, false, undefined)
		}

	default:
		for _, sub := range it.items {
			c.checkItem(nd, sub, false, undefined)
		}
	}
}

// deps returns indexes of nodes a node refers to; an expression node refers to its operand,
// operator nodes, the operator reference node and all suffix nodes.
func (c *compiler) deps(i int) []int {
	nd := c.nodes[i]
	if nd.synth {
		if nd.flags != grammar.ExpressionNode {
			return nil
		}
		result := []int{c.nodeIdx[nd.operand]}
		for _, l := range c.g.Levels {
			result = append(result, l.Node)
		}
		if c.g.OpRef >= 0 {
			result = append(result, c.g.OpRef)
		}
		return append(result, c.g.Suffixes...)
	}

	var result []int
	var walk func(it *itemDef)
	walk = func(it *itemDef) {
		if it.kind == grammar.NodeItem {
			result = append(result, c.nodeIdx[it.name])
		}
		for _, sub := range it.items {
			walk(sub)
		}
	}
	walk(nd.body)
	return result
}

func (c *compiler) findUnused() {
	unreached := ints.NewSet()
	for i := range c.nodes {
		unreached.Add(i)
	}
	searchQueue := queue.New[int](grammar.RootNode)
	for {
		index, fetched := searchQueue.First()
		if !fetched {
			break
		}

		if !unreached.Contains(index) {
			continue
		}

		unreached.Remove(index)
		for _, i := range c.deps(index) {
			searchQueue.Append(i)
		}
	}

	if !unreached.IsEmpty() {
		c.fail(unusedNodeError(c.nodeNames(unreached)))
	}
}

func (c *compiler) nodeNames(s *ints.Set) []string {
	indexes := s.ToSlice()
	names := make([]string, len(indexes))
	for i, index := range indexes {
		names[i] = c.nodes[index].name
	}
	return names
}

func (c *compiler) computeFirst() {
	n := len(c.nodes)
	c.first = make([]*ints.Set, n)
	c.nullable = make([]bool, n)
	for i := range c.first {
		c.first[i] = ints.NewSet()
	}
	c.prefixes = ints.NewSet()
	c.allOps = ints.NewSet()
	for _, l := range c.g.Levels {
		c.allOps.Add(l.Ops...)
		if l.Kind == grammar.PrefixOp {
			c.prefixes.Add(l.Ops...)
		}
	}

	for changed := true; changed; {
		changed = false
		for i, nd := range c.nodes {
			first, nullable := c.nodeFirst(i, nd)
			if nullable != c.nullable[i] || !first.IsEqual(c.first[i]) {
				c.first[i] = first
				c.nullable[i] = nullable
				changed = true
			}
		}
	}
}

func (c *compiler) nodeFirst(i int, nd *nodeDef) (*ints.Set, bool) {
	if !nd.synth {
		return c.itemFirst(nd.body)
	}
	if nd.flags != grammar.ExpressionNode {
		return ints.NewSet(), false
	}

	result := c.first[c.nodeIdx[nd.operand]].Copy().Union(c.prefixes)
	if c.g.OpRef >= 0 {
		result.Union(c.allOps)
	}
	return result, false
}

func (c *compiler) itemFirst(it *itemDef) (*ints.Set, bool) {
	switch it.kind {
	case grammar.TermItem:
		i, _ := c.term(it)
		return ints.NewSet(i), false

	case grammar.NodeItem:
		i := c.nodeIdx[it.name]
		return c.first[i].Copy(), c.nullable[i]

	case grammar.LeftItem:
		return ints.NewSet(), true

	case grammar.SeqItem:
		result := ints.NewSet()
		for _, sub := range it.items {
			f, nullable := c.itemFirst(sub)
			result.Union(f)
			if !nullable {
				return result, false
			}
		}
		return result, true

	case grammar.ChoiceItem:
		result := ints.NewSet()
		nullable := false
		for _, sub := range it.items {
			f, n := c.itemFirst(sub)
			result.Union(f)
			nullable = nullable || n
		}
		return result, nullable

	default:
		f, _ := c.itemFirst(it.items[0])
		return f, true
	}
}

func (c *compiler) findUnresolved() {
	unresolved := ints.NewSet()
	for i, nd := range c.nodes {
		if !nd.synth && !c.nullable[i] && c.first[i].IsEmpty() {
			unresolved.Add(i)
		}
	}
	if !unresolved.IsEmpty() {
		c.fail(unresolvedError(c.nodeNames(unresolved)))
	}
}

// leftRefs returns nodes that may be entered before any token of node i is consumed.
func (c *compiler) leftRefs(i int) []int {
	nd := c.nodes[i]
	if nd.synth {
		if nd.flags == grammar.ExpressionNode {
			return []int{c.nodeIdx[nd.operand]}
		}
		return nil
	}

	var result []int
	var walk func(it *itemDef) bool
	walk = func(it *itemDef) bool {
		switch it.kind {
		case grammar.TermItem:
			return false
		case grammar.NodeItem:
			j := c.nodeIdx[it.name]
			result = append(result, j)
			return c.nullable[j]
		case grammar.LeftItem:
			return true
		case grammar.SeqItem:
			for _, sub := range it.items {
				if !walk(sub) {
					return false
				}
			}
			return true
		case grammar.ChoiceItem:
			nullable := false
			for _, sub := range it.items {
				nullable = walk(sub) || nullable
			}
			return nullable
		default:
			walk(it.items[0])
			return true
		}
	}
	walk(nd.body)
	return result
}

func (c *compiler) findRecursions() {
	refs := make([][]int, len(c.nodes))
	for i := range c.nodes {
		refs[i] = c.leftRefs(i)
	}

	recursive := ints.NewSet()
	for i := range c.nodes {
		visited := ints.NewSet()
		stack := append([]int(nil), refs[i]...)
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if j == i {
				recursive.Add(i)
				break
			}
			if visited.Contains(j) {
				continue
			}
			visited.Add(j)
			stack = append(stack, refs[j]...)
		}
	}

	if !recursive.IsEmpty() {
		c.fail(recursionError(c.nodeNames(recursive)))
	}
}

func (c *compiler) buildItems() {
	for i, nd := range c.nodes {
		node := grammar.Node{
			Name:     nd.name,
			Flags:    nd.flags,
			Operand:  grammar.NoIndex,
			First:    c.first[i].ToSlice(),
			Nullable: c.nullable[i],
		}
		if nd.body != nil {
			node.Body = c.buildItem(nd.body)
		}
		if nd.flags == grammar.ExpressionNode {
			node.Operand = c.nodeIdx[nd.operand]
		}
		c.g.Nodes = append(c.g.Nodes, node)
	}
}

func (c *compiler) buildItem(it *itemDef) grammar.Item {
	f, nullable := c.itemFirst(it)
	result := grammar.Item{Kind: it.kind, First: f.ToSlice(), Nullable: nullable}
	switch it.kind {
	case grammar.TermItem:
		result.Index, _ = c.term(it)
	case grammar.NodeItem:
		result.Index = c.nodeIdx[it.name]
	}
	for _, sub := range it.items {
		result.Items = append(result.Items, c.buildItem(sub))
	}
	return result
}
