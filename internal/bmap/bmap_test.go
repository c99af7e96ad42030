package bmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyMap(t *testing.T) {
	m := New[int](1)

	v, found := m.Get([]byte{})
	assert.Zero(t, v)
	assert.False(t, found)

	v, found = m.Get([]byte{1, 2, 3})
	assert.Zero(t, v)
	assert.False(t, found)
	assert.Zero(t, m.Len())
}

func TestEmptyKey(t *testing.T) {
	m := New[int](1)
	empty := []byte{}

	m.Set([]byte("foo"), 123)
	v, found := m.Get(empty)
	assert.Zero(t, v)
	assert.False(t, found)

	m.Set(empty, 345)
	v, found = m.Get(empty)
	assert.Equal(t, 345, v)
	assert.True(t, found)
}

func TestKeyIsCopied(t *testing.T) {
	m := New[int](2)
	key := []byte{1, 2, 3}
	key2 := []byte{1, 2}

	m.Set(key, 111)
	m.Set(key2, 222)
	key[0] = 9

	v, found := m.Get([]byte{1, 2, 3})
	assert.Equal(t, 111, v)
	assert.True(t, found)

	v, found = m.Get(key[1:])
	assert.Zero(t, v)
	assert.False(t, found)

	v, found = m.Get(key2)
	assert.Equal(t, 222, v)
	assert.True(t, found)
}

func TestKeys(t *testing.T) {
	m := New[bool](3)
	m.Set([]byte("end"), true)
	m.Set([]byte("begin"), true)
	m.Set([]byte("end"), false)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"end", "begin"}, m.Keys())
	v, _ := m.Get([]byte("end"))
	assert.False(t, v)
}
