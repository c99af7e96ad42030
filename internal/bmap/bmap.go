// Package bmap implements basic map with []byte key type.
package bmap

import (
	"unsafe"
)

// BMap is a hashmap with []byte keys intended for a small fixed set of keys, e.g. reserved words.
// Keys cannot be deleted. Added keys are copied into an internal byte slice,
// lookups by a []byte do not allocate.
type BMap[T any] struct {
	keys  []byte
	order []string
	smap  map[string]T
}

// New creates bytes map, size is a capacity hint.
func New[T any](size int) *BMap[T] {
	return &BMap[T]{
		smap: make(map[string]T, size),
	}
}

func toString(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	return unsafe.String(&key[0], len(key))
}

// Get returns stored value by key and a flag telling whether this key is stored in the map.
func (m *BMap[T]) Get(key []byte) (T, bool) {
	result, has := m.smap[toString(key)]
	return result, has
}

// Set adds or rewrites value for given key.
func (m *BMap[T]) Set(key []byte, value T) {
	skey := toString(key)
	if _, has := m.smap[skey]; !has {
		if len(key) != 0 {
			ofs := len(m.keys)
			m.keys = append(m.keys, key...)
			skey = toString(m.keys[ofs : ofs+len(key)])
		}
		m.order = append(m.order, skey)
	}
	m.smap[skey] = value
}

func (m *BMap[T]) Len() int {
	return len(m.smap)
}

// Keys returns stored keys in insertion order.
func (m *BMap[T]) Keys() []string {
	return append([]string(nil), m.order...)
}
