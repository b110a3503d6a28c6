package pool

import (
	"unsafe"
)

// Pool is a typed view over a SlotPool: each slot holds one T, and Alloc
// hands out stable *T pointers. Freeing a slot never moves or disturbs the
// others.
type Pool[T any] struct {
	p *SlotPool
}

// NewTyped reserves room for maxItems values of T. Types smaller than a
// slot index get 4-byte slots, since a freed slot must hold its free-list
// link.
func NewTyped[T any](maxItems int) (*Pool[T], error) {
	return NewTypedWithOptions[T](maxItems, Options{})
}

// NewTypedWithOptions is NewTyped with an explicit provider and protection.
func NewTypedWithOptions[T any](maxItems int, opts Options) (*Pool[T], error) {
	size := int(unsafe.Sizeof(*new(T)))
	if size < slotIndexSize {
		size = slotIndexSize
	}
	p, err := NewWithOptions(maxItems, size, opts)
	if err != nil {
		return nil, err
	}
	return &Pool[T]{p: p}, nil
}

// Alloc returns a zeroed T in a fresh or reused slot, with its index for
// later Free. The pointer is stable until Free(idx), ClearAndDecommit or
// Close.
func (tp *Pool[T]) Alloc() (*T, SlotIndex, error) {
	idx, err := tp.p.AllocSlot()
	if err != nil {
		return nil, InvalidSlot, err
	}
	ptr := tp.at(idx)
	var zero T
	*ptr = zero
	return ptr, idx, nil
}

// Get returns the T in slot i, or nil when i was never allocated.
func (tp *Pool[T]) Get(i SlotIndex) *T {
	if tp.p.At(i) == nil {
		return nil
	}
	return tp.at(i)
}

// Free returns slot i to the pool. The T it held must not be used again.
func (tp *Pool[T]) Free(i SlotIndex) error {
	return tp.p.FreeSlot(i)
}

// Live returns the number of values handed out and not yet freed.
func (tp *Pool[T]) Live() int { return tp.p.Live() }

// Raw returns the underlying SlotPool for byte-level or bulk operations
// such as ClearAndDecommit.
func (tp *Pool[T]) Raw() *SlotPool { return tp.p }

// Valid reports whether the backing pool holds a live reservation.
func (tp *Pool[T]) Valid() bool { return tp.p.Valid() }

// Close releases the backing reservation.
func (tp *Pool[T]) Close() error { return tp.p.Close() }

func (tp *Pool[T]) at(i SlotIndex) *T {
	return (*T)(unsafe.Pointer(unsafe.SliceData(tp.p.slot(i))))
}
