/*
Package array implements a growable typed buffer.

Arrays are the storage primitive for every list in this module whose length
changes over time: catalog paths, the master hash table, and the scratch
buffers for outline vertices and contours. In contrast to a bare slice,
an Array keeps its backing store across Reset, so scratch buffers re-used
for every glyph do not allocate in steady state.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package array

import "sort"

// Array is a growable buffer of elements of type T. The zero value is an
// empty array ready to use.
type Array[T any] struct {
	data []T
}

// New creates an empty array with an initial capacity.
func New[T any](capacity int) *Array[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Array[T]{data: make([]T, 0, capacity)}
}

// Len returns the number of elements.
func (a *Array[T]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.data)
}

// Cap returns the capacity of the backing store.
func (a *Array[T]) Cap() int {
	if a == nil {
		return 0
	}
	return cap(a.data)
}

// At returns the element at position i. It panics if i is out of range.
func (a *Array[T]) At(i int) T {
	return a.data[i]
}

// Set overwrites the element at position i.
func (a *Array[T]) Set(i int, v T) {
	a.data[i] = v
}

// Last returns the last element and true, or the zero value and false for an
// empty array.
func (a *Array[T]) Last() (T, bool) {
	var zero T
	if a.Len() == 0 {
		return zero, false
	}
	return a.data[len(a.data)-1], true
}

// Append appends elements at the end.
func (a *Array[T]) Append(v ...T) {
	a.data = append(a.data, v...)
}

// Prepend inserts an element at the front.
func (a *Array[T]) Prepend(v T) {
	a.Insert(0, v)
}

// Insert inserts v at position i, shifting subsequent elements up.
// i may equal Len(), which appends.
func (a *Array[T]) Insert(i int, v T) {
	var zero T
	a.data = append(a.data, zero)
	copy(a.data[i+1:], a.data[i:])
	a.data[i] = v
}

// Remove deletes the element at position i, shifting subsequent elements down.
func (a *Array[T]) Remove(i int) {
	var zero T
	copy(a.data[i:], a.data[i+1:])
	a.data[len(a.data)-1] = zero
	a.data = a.data[:len(a.data)-1]
}

// Reset sets the length to zero but keeps the backing store.
func (a *Array[T]) Reset() {
	var zero T
	for i := range a.data {
		a.data[i] = zero
	}
	a.data = a.data[:0]
}

// Duplicate returns a copy of the array with its own backing store.
func (a *Array[T]) Duplicate() *Array[T] {
	if a == nil {
		return New[T](0)
	}
	d := New[T](len(a.data))
	d.data = append(d.data, a.data...)
	return d
}

// Index returns the position of the first element satisfying pred, or -1.
func (a *Array[T]) Index(pred func(T) bool) int {
	for i := 0; i < a.Len(); i++ {
		if pred(a.data[i]) {
			return i
		}
	}
	return -1
}

// Search does a binary search over an array sorted with respect to cmp.
// cmp(x) must return <0 if x sorts before the target, 0 on a hit, and >0 if
// x sorts after it. Search returns the position of a hit, or the position
// where the target would have to be inserted, together with a hit flag.
func (a *Array[T]) Search(cmp func(T) int) (int, bool) {
	n := a.Len()
	i := sort.Search(n, func(k int) bool { return cmp(a.data[k]) >= 0 })
	return i, i < n && cmp(a.data[i]) == 0
}

// Slice returns a view of the elements. The view is invalidated by the next
// mutating call.
func (a *Array[T]) Slice() []T {
	if a == nil {
		return nil
	}
	return a.data
}
