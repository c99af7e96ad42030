package ints

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmpty(t *testing.T) {
	s := NewSet()
	assert.True(t, s.IsEmpty())
	s.Add(1)
	assert.False(t, s.IsEmpty())
	s.Add(200)
	s.Remove(1)
	assert.False(t, s.IsEmpty())
	s.Remove(200)
	assert.True(t, s.IsEmpty())
	assert.Zero(t, s.Len())
	assert.Equal(t, []int{}, s.ToSlice())
}

func TestContains(t *testing.T) {
	s := FromSlice([]int{0, 63, 64, 130})
	for i := -2; i <= 200; i++ {
		assert.Equal(t, i == 0 || i == 63 || i == 64 || i == 130, s.Contains(i), "item %d", i)
	}
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []int{0, 63, 64, 130}, s.ToSlice())
}

func TestNegative(t *testing.T) {
	s := NewSet(-1, 3)
	assert.Equal(t, []int{3}, s.ToSlice())
	assert.False(t, s.Contains(-1))
	s.Remove(-1)
	assert.Equal(t, 1, s.Len())
}

func TestEqual(t *testing.T) {
	s := NewSet(5, 100)
	s2 := s.Copy()
	assert.True(t, s.IsEqual(s2))
	s.Remove(100)
	assert.False(t, s.IsEqual(s2))
	assert.False(t, s2.IsEqual(s))

	s2.Remove(100)
	assert.True(t, s.IsEqual(s2), "trailing empty words")
	assert.True(t, NewSet(5).IsEqual(s2))
}

func TestCopy(t *testing.T) {
	s := NewSet(1, 2)
	c := s.Copy()
	c.Add(300)
	assert.Equal(t, []int{1, 2}, s.ToSlice())
	assert.Equal(t, []int{1, 2, 300}, c.ToSlice())
}

func TestUnion(t *testing.T) {
	s := NewSet(1)
	t2 := NewSet(2, 150)
	assert.Same(t, s, s.Union(t2))
	assert.Equal(t, []int{1, 2, 150}, s.ToSlice())
	assert.Equal(t, []int{2, 150}, t2.ToSlice())

	assert.Equal(t, []int{1, 2, 150}, NewSet(150).Union(NewSet(1, 2)).ToSlice())
}
