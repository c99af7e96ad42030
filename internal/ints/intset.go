// Package ints implements bit sets of small non-negative integers: term and node indexes
// in FIRST sets, sync sets and reachability checks.
package ints

import "math/bits"

const wordBits = bits.UintSize

// Set grows on demand. Negative items are never members.
type Set struct {
	words []uint
}

func NewSet(items ...int) *Set {
	return FromSlice(items)
}

func FromSlice(items []int) *Set {
	s := &Set{}
	return s.Add(items...)
}

func (s *Set) Len() int {
	res := 0
	for _, w := range s.words {
		res += bits.OnesCount(w)
	}
	return res
}

// ToSlice returns members in ascending order.
func (s *Set) ToSlice() []int {
	res := make([]int, 0, s.Len())
	for i, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros(w)
			res = append(res, i*wordBits+b)
			w &= w - 1
		}
	}
	return res
}

func (s *Set) grow(item int) {
	if n := item/wordBits + 1; n > len(s.words) {
		s.words = append(s.words, make([]uint, n-len(s.words))...)
	}
}

func (s *Set) Add(items ...int) *Set {
	for _, item := range items {
		if item < 0 {
			continue
		}
		s.grow(item)
		s.words[item/wordBits] |= 1 << (item % wordBits)
	}
	return s
}

func (s *Set) Remove(items ...int) *Set {
	for _, item := range items {
		if s.Contains(item) {
			s.words[item/wordBits] &^= 1 << (item % wordBits)
		}
	}
	return s
}

func (s *Set) Contains(item int) bool {
	i := item / wordBits
	return item >= 0 && i < len(s.words) && s.words[i]&(1<<(item%wordBits)) != 0
}

func (s *Set) Copy() *Set {
	return &Set{words: append([]uint(nil), s.words...)}
}

func (s *Set) IsEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// IsEqual compares members, trailing empty words do not matter.
func (s *Set) IsEqual(t *Set) bool {
	short, long := s.words, t.words
	if len(short) > len(long) {
		short, long = long, short
	}
	for i, w := range short {
		if w != long[i] {
			return false
		}
	}
	for _, w := range long[len(short):] {
		if w != 0 {
			return false
		}
	}
	return true
}

// Union adds members of t to s and returns s.
func (s *Set) Union(t *Set) *Set {
	if len(t.words) > len(s.words) {
		s.grow(len(t.words)*wordBits - 1)
	}
	for i, w := range t.words {
		s.words[i] |= w
	}
	return s
}
