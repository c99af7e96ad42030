package tree

type NodeFilter func(e Element) bool
type NodeExtractor func(e Element) []Element

// Selector is a pipeline of extractors applied to a list of elements.
type Selector struct {
	extractors []NodeExtractor
}

func NewSelector() *Selector {
	return &Selector{}
}

// Apply runs the pipeline, the result contains no duplicates and no nil elements.
func (s *Selector) Apply(input ...Element) []Element {
	var result []Element
	index := make(map[Element]bool)

	for i, e := range input {
		if e == nil {
			continue
		}

		es := input[i : i+1]
		if len(s.extractors) > 0 {
			es = extract(es, s.extractors)
		}

		for _, x := range es {
			if x != nil && !index[x] {
				index[x] = true
				result = append(result, x)
			}
		}
	}

	return result
}

func extract(es []Element, nes []NodeExtractor) []Element {
	var result []Element
	ne := nes[0]
	for _, e := range es {
		result = append(result, ne(e)...)
	}
	if len(nes) > 1 {
		return extract(result, nes[1:])
	}
	return result
}

func (s *Selector) Use(ne NodeExtractor) *Selector {
	if ne != nil {
		s.extractors = append(s.extractors, ne)
	}
	return s
}

func (s *Selector) Filter(nf NodeFilter) *Selector {
	return s.Use(func(e Element) []Element {
		if nf(e) {
			return []Element{e}
		}
		return nil
	})
}

// Extract is the same as Use.
func (s *Selector) Extract(ne NodeExtractor) *Selector {
	return s.Use(ne)
}

// Search selects matching descendants of each element, skipping subtrees of matched ones.
func (s *Selector) Search(nf NodeFilter) *Selector {
	return s.Use(searcher(nf, false))
}

// DeepSearch selects all matching descendants of each element.
func (s *Selector) DeepSearch(nf NodeFilter) *Selector {
	return s.Use(searcher(nf, true))
}

func searcher(nf NodeFilter, deep bool) NodeExtractor {
	return func(e Element) []Element {
		var result []Element
		for _, c := range Children(e) {
			Walk(c, WalkLtr, func(stat WalkStat) WalkerFlags {
				if nf(stat.Element) {
					result = append(result, stat.Element)
					if !deep {
						return WalkerSkipChildren
					}
				}
				return 0
			})
		}
		return result
	}
}

func IsNot(f NodeFilter) NodeFilter {
	return func(e Element) bool {
		return !f(e)
	}
}

func IsAny(fs ...NodeFilter) NodeFilter {
	return func(e Element) bool {
		for _, f := range fs {
			if f(e) {
				return true
			}
		}
		return false
	}
}

func IsAll(fs ...NodeFilter) NodeFilter {
	return func(e Element) bool {
		for _, f := range fs {
			if !f(e) {
				return false
			}
		}
		return true
	}
}

// IsA matches elements by type name: node names for nodes, term names for leaves.
func IsA(names ...string) NodeFilter {
	return func(e Element) bool {
		tn := e.TypeName()
		for _, name := range names {
			if tn == name {
				return true
			}
		}
		return false
	}
}

// IsALiteral matches leaves by text.
func IsALiteral(texts ...string) NodeFilter {
	return func(e Element) bool {
		if e.IsNode() {
			return false
		}

		t := e.Token().Text()
		for _, text := range texts {
			if text == t {
				return true
			}
		}
		return false
	}
}

// Has matches elements having extracted elements that pass the filter.
// nil extractor means the element itself, nil filter accepts any element.
func Has(ne NodeExtractor, nf NodeFilter) NodeFilter {
	return func(e Element) bool {
		es := []Element{e}
		if ne != nil {
			es = ne(e)
		}
		for _, x := range es {
			if nf == nil || nf(x) {
				return true
			}
		}
		return false
	}
}

// Any returns the result of the first extractor giving a non-empty list.
func Any(nes ...NodeExtractor) NodeExtractor {
	return func(e Element) (result []Element) {
		for _, ne := range nes {
			result = ne(e)
			if len(result) > 0 {
				break
			}
		}
		return
	}
}

func All(nes ...NodeExtractor) NodeExtractor {
	return func(e Element) (result []Element) {
		for _, ne := range nes {
			result = append(result, ne(e)...)
		}
		return
	}
}

func Ancestors(levels ...int) NodeExtractor {
	return func(e Element) []Element {
		var result []Element
		for _, i := range levels {
			if a := Ancestor(e, i); a != nil {
				result = append(result, a)
			}
		}
		return result
	}
}

func NthChildren(indexes ...int) NodeExtractor {
	return func(e Element) []Element {
		var result []Element
		for _, i := range indexes {
			if c := NthChild(e, i); c != nil {
				result = append(result, c)
			}
		}
		return result
	}
}

func NthSiblings(indexes ...int) NodeExtractor {
	return func(e Element) []Element {
		var result []Element
		for _, i := range indexes {
			if s := NthSibling(e, i); s != nil {
				result = append(result, s)
			}
		}
		return result
	}
}
