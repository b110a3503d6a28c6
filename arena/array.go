package arena

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/joshuapare/vmemkit/vmem"
)

// Array is a growable array of T backed by an Arena. Elements never move:
// growth commits more pages of the same reservation, so element pointers and
// the Items view stay valid across appends.
//
// All index-taking operations are bounds-checked and report a miss through
// their return value; none of them can fault.
type Array[T any] struct {
	a        *Arena
	elemSize int
}

// NewArray reserves room for maxElems elements of T.
func NewArray[T any](maxElems int) (*Array[T], error) {
	return NewArrayWithOptions[T](maxElems, Options{})
}

// NewArrayWithOptions is NewArray with an explicit provider and protection.
func NewArrayWithOptions[T any](maxElems int, opts Options) (*Array[T], error) {
	if maxElems <= 0 {
		return nil, vmem.Fail(fmt.Errorf("arena: new array with %d elements: %w", maxElems, ErrInvalidCapacity))
	}
	size := int(unsafe.Sizeof(*new(T)))
	if size == 0 {
		size = 1
	}
	if maxElems > math.MaxInt/size {
		return nil, vmem.Fail(fmt.Errorf("arena: new array with %d elements of %d bytes overflows: %w",
			maxElems, size, ErrInvalidCapacity))
	}
	a, err := NewWithOptions(maxElems*size, opts)
	if err != nil {
		return nil, err
	}
	return &Array[T]{a: a, elemSize: size}, nil
}

// Len returns the number of live elements.
func (ar *Array[T]) Len() int { return ar.a.Len() / ar.elemSize }

// Cap returns the maximum number of elements the reservation can hold.
func (ar *Array[T]) Cap() int { return ar.a.Cap() / ar.elemSize }

// Get returns the element at index i, or the zero value when i is out of
// bounds.
func (ar *Array[T]) Get(i int) T {
	v, _ := ar.TryGet(i)
	return v
}

// TryGet returns the element at index i and whether i was in bounds.
func (ar *Array[T]) TryGet(i int) (T, bool) {
	if i < 0 || i >= ar.Len() {
		var zero T
		return zero, false
	}
	return ar.items(ar.Len())[i], true
}

// Set overwrites the element at index i. It reports whether i was in bounds.
func (ar *Array[T]) Set(i int, v T) bool {
	if i < 0 || i >= ar.Len() {
		return false
	}
	ar.items(ar.Len())[i] = v
	return true
}

// Append adds v at the end, growing the committed region when the element
// crosses into a new page, and returns its index.
func (ar *Array[T]) Append(v T) (int, error) {
	idx := ar.Len()
	if err := ar.a.SetUsed((idx + 1) * ar.elemSize); err != nil {
		return 0, err
	}
	ar.items(idx + 1)[idx] = v
	return idx, nil
}

// SwapRemove removes the element at index i by moving the last element into
// its place and shrinking the length by one. O(1), does not preserve order.
// It reports whether i was in bounds.
func (ar *Array[T]) SwapRemove(i int) bool {
	n := ar.Len()
	if i < 0 || i >= n {
		return false
	}
	items := ar.items(n)
	items[i] = items[n-1]
	// Shrinking by one never grows; the length always updates even if the
	// tail-page decommit fails.
	_ = ar.a.SetUsed((n - 1) * ar.elemSize)
	return true
}

// Truncate shrinks the array to n elements, decommitting the pages above the
// new length.
func (ar *Array[T]) Truncate(n int) error {
	if n < 0 || n > ar.Len() {
		return vmem.Fail(fmt.Errorf("arena: truncate to %d with length %d: %w", n, ar.Len(), ErrOutOfRange))
	}
	return ar.a.SetUsed(n * ar.elemSize)
}

// Items returns the live elements as a slice view into the reservation.
// The view is invalidated by Truncate, SwapRemove and Close, but not by
// Append.
func (ar *Array[T]) Items() []T {
	return ar.items(ar.Len())
}

// Valid reports whether the backing arena holds a live reservation.
func (ar *Array[T]) Valid() bool { return ar.a.Valid() }

// Close releases the backing reservation.
func (ar *Array[T]) Close() error { return ar.a.Close() }

func (ar *Array[T]) items(n int) []T {
	return unsafe.Slice((*T)(ar.a.base()), n)
}
