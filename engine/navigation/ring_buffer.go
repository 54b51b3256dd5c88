package navigation

import "iter"

// RingBuffer is a fixed-capacity FIFO. Once full, Push overwrites the oldest entry.
type RingBuffer[T any] struct {
	data []T
	pos  int
	full bool
}

// NewRingBuffer creates a RingBuffer holding at most capacity entries.
// A capacity below 1 is treated as 1.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	return &RingBuffer[T]{
		data: make([]T, max(capacity, 1)),
	}
}

// Push appends v, evicting the oldest entry when the buffer is full.
func (r *RingBuffer[T]) Push(v T) {
	r.data[r.pos] = v
	r.pos++
	if r.pos >= len(r.data) {
		r.pos = 0
		r.full = true
	}
}

// Clear empties the buffer.
func (r *RingBuffer[T]) Clear() {
	clear(r.data)
	r.pos = 0
	r.full = false
}

// Cap returns the capacity.
func (r *RingBuffer[T]) Cap() int {
	return len(r.data)
}

// Len returns the number of entries.
func (r *RingBuffer[T]) Len() int {
	if r.full {
		return len(r.data)
	}
	return r.pos
}

// At returns the i-th entry counting from the oldest.
func (r *RingBuffer[T]) At(i int) T {
	if i < 0 || i >= r.Len() {
		panic("navigation: ring buffer index out of range")
	}
	if !r.full {
		return r.data[i]
	}
	return r.data[(r.pos+i)%len(r.data)]
}

// Last returns the newest entry and false if the buffer is empty.
func (r *RingBuffer[T]) Last() (T, bool) {
	n := r.Len()
	if n == 0 {
		var zero T
		return zero, false
	}
	return r.At(n - 1), true
}

// All iterates from the oldest entry to the newest.
func (r *RingBuffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range r.Len() {
			if !yield(i, r.At(i)) {
				return
			}
		}
	}
}

// Slice returns a copy of the contents in insertion order.
func (r *RingBuffer[T]) Slice() []T {
	n := r.Len()
	out := make([]T, n)
	if r.full {
		copy(out, r.data[r.pos:])
		copy(out[len(r.data)-r.pos:], r.data[:r.pos])
	} else {
		copy(out, r.data[:r.pos])
	}
	return out
}
