// Package queue implements a growable ring buffer used for token lookahead and BFS walks.
package queue

const minSize = 3

// Queue is a FIFO queue. Zero value is not usable, use New.
type Queue[T any] struct {
	items      []T
	mask       int
	head, tail int
}

func New[T any](items ...T) *Queue[T] {
	l := len(items)
	mask := computeMask(l)
	q := &Queue[T]{items: make([]T, mask+1), mask: mask, tail: l}
	copy(q.items, items)
	return q
}

func (q *Queue[T]) Append(item T) *Queue[T] {
	q.items[q.tail] = item
	q.tail = (q.tail + 1) & q.mask
	if q.tail == q.head {
		q.grow()
	}
	return q
}

// First removes and returns the head item.
func (q *Queue[T]) First() (result T, ok bool) {
	if q.head == q.tail {
		return
	}

	var zero T
	result = q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) & q.mask
	if q.head == q.tail {
		q.Clear()
	}
	return result, true
}

// Clear drops all items, shrinking the buffer to the minimal size.
func (q *Queue[T]) Clear() {
	if q.mask > minSize {
		q.items = make([]T, minSize+1)
		q.mask = minSize
	} else {
		clear(q.items)
	}
	q.head, q.tail = 0, 0
}

// computeMask returns the smallest 2^n - 1 not less than length and minSize.
func computeMask(length int) int {
	if length <= minSize {
		return minSize
	}

	length |= length >> 1
	length |= length >> 2
	length |= length >> 4
	length |= length >> 8
	length |= length >> 16
	return length
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.mask+1)<<1)
	n := copy(items, q.items[q.head:])
	copy(items[n:], q.items[:q.head])
	q.head = 0
	q.tail = q.mask + 1
	q.mask = (q.mask << 1) | 1
	q.items = items
}
