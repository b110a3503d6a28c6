package arena

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/vmemkit/internal/align"
	"github.com/joshuapare/vmemkit/vmem"
)

// Options configures arena construction. The zero value selects the real OS
// provider and read-write protection.
type Options struct {
	// Provider supplies virtual memory. Nil means vmem.Sys.
	Provider vmem.Provider

	// Protection is applied when committing pages. Zero means vmem.ReadWrite.
	Protection vmem.Protection
}

func (o Options) withDefaults() Options {
	if o.Provider == nil {
		o.Provider = vmem.Sys
	}
	if o.Protection == 0 {
		o.Protection = vmem.ReadWrite
	}
	return o
}

// Arena is a linear allocator over a single virtual-memory reservation.
// Data never moves: growing commits more pages of the same reservation, so
// slices handed out by Alloc stay valid until the arena shrinks below them
// or is closed.
//
// An Arena is exclusively owned by one caller context. It performs no
// internal locking; concurrent mutation is the caller's bug.
type Arena struct {
	mem       []byte // whole reservation, page-rounded
	capacity  int    // caller-requested capacity; growth past it fails
	committed int    // committed byte count, a page multiple unless clamped to a wrapped buffer's end
	used      int    // logical length
	owned     bool   // whether Close releases the reservation
	prov      vmem.Provider
	prot      vmem.Protection
}

// New reserves capacityBytes of address space and returns an empty arena.
// No memory is committed until the first growth.
func New(capacityBytes int) (*Arena, error) {
	return NewWithOptions(capacityBytes, Options{})
}

// NewWithOptions is New with an explicit provider and protection.
func NewWithOptions(capacityBytes int, opts Options) (*Arena, error) {
	opts = opts.withDefaults()
	if capacityBytes <= 0 {
		return nil, vmem.Fail(fmt.Errorf("arena: new with %d bytes: %w", capacityBytes, ErrInvalidCapacity))
	}
	mem, err := opts.Provider.Reserve(capacityBytes)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve: %w", err)
	}
	return &Arena{
		mem:      mem,
		capacity: capacityBytes,
		owned:    true,
		prov:     opts.Provider,
		prot:     opts.Protection,
	}, nil
}

// FromExisting wraps caller-managed memory, typically a sub-range of a
// larger reservation, without taking ownership: Close resets the handle but
// never releases the memory. The base of buf must be page-aligned.
func FromExisting(buf []byte, opts Options) (*Arena, error) {
	opts = opts.withDefaults()
	if len(buf) == 0 {
		return nil, vmem.Fail(fmt.Errorf("arena: wrap empty buffer: %w", ErrInvalidCapacity))
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	if !align.IsAligned(int(addr), opts.Provider.PageSize()) {
		return nil, vmem.Fail(fmt.Errorf("arena: wrap buffer at %#x: %w", addr, ErrMisalignedBase))
	}
	return &Arena{
		mem:      buf,
		capacity: len(buf),
		owned:    false,
		prov:     opts.Provider,
		prot:     opts.Protection,
	}, nil
}

// SetUsed resizes the logical length to numBytes, committing or decommitting
// pages so the committed region is the minimal page-aligned cover of the new
// length, clamped to the reservation when wrapped memory ends mid-page.
// Calls that stay within the same page footprint do no OS work, which makes
// many small resizes cheap.
//
// Growth past the reserved capacity fails with ErrCapacityExceeded and
// leaves the arena unchanged. A shrink updates the length first and then
// decommits the tail, so on the (rare) decommit failure the length is
// already updated and the surplus pages simply stay committed.
func (a *Arena) SetUsed(numBytes int) error {
	if !a.Valid() {
		return vmem.Fail(fmt.Errorf("arena: set used: %w", ErrClosed))
	}
	if numBytes < 0 {
		return vmem.Fail(fmt.Errorf("arena: set used to %d: %w", numBytes, ErrInvalidLength))
	}
	if numBytes > a.capacity {
		return vmem.Fail(fmt.Errorf("arena: grow to %d bytes with capacity %d: %w",
			numBytes, a.capacity, ErrCapacityExceeded))
	}

	newCommitted := align.Forward(numBytes, a.prov.PageSize())
	if newCommitted > len(a.mem) {
		// A wrapped buffer can end mid-page; the provider widens commit
		// and decommit to whole pages, so the short range still works.
		newCommitted = len(a.mem)
	}
	oldCommitted := a.committed
	switch {
	case newCommitted == oldCommitted:
		// Same page footprint: pure bookkeeping, no syscall.
	case newCommitted < oldCommitted:
		a.used = numBytes
		if err := a.prov.Decommit(a.mem[newCommitted:oldCommitted]); err != nil {
			return fmt.Errorf("arena: shrink to %d bytes: %w", numBytes, err)
		}
		a.committed = newCommitted
		return nil
	default:
		// Committing from the base is safe: commit on already-committed
		// pages is a no-op on every backend.
		if err := a.prov.Commit(a.mem[:newCommitted], a.prot); err != nil {
			return fmt.Errorf("arena: grow to %d bytes: %w", numBytes, err)
		}
		a.committed = newCommitted
	}
	a.used = numBytes
	return nil
}

// Alloc bump-allocates numBytes at the end of the arena and returns the new
// region. The returned slice aliases the reservation and stays valid until
// the arena shrinks below it or is closed.
func (a *Arena) Alloc(numBytes int) ([]byte, error) {
	if numBytes < 0 {
		return nil, vmem.Fail(fmt.Errorf("arena: alloc %d bytes: %w", numBytes, ErrInvalidLength))
	}
	start := a.used
	if err := a.SetUsed(start + numBytes); err != nil {
		return nil, err
	}
	return a.mem[start : start+numBytes : start+numBytes], nil
}

// Reset shrinks the arena to zero length, decommitting everything. The
// reservation is kept, so the arena is immediately reusable.
func (a *Arena) Reset() {
	// Shrinking to zero cannot hit the capacity check; a decommit failure
	// only leaves surplus pages committed.
	_ = a.SetUsed(0)
}

// Len returns the logical length in bytes.
func (a *Arena) Len() int { return a.used }

// Cap returns the reserved capacity in bytes.
func (a *Arena) Cap() int { return a.capacity }

// Committed returns the committed byte count. It is a page multiple except
// when a wrapped buffer ends mid-page and the commit is clamped to its end.
func (a *Arena) Committed() int { return a.committed }

// Valid reports whether the arena holds a live reservation.
func (a *Arena) Valid() bool {
	return a != nil && a.mem != nil && a.capacity > 0
}

// Bytes returns the live prefix [0, Len) of the arena.
func (a *Arena) Bytes() []byte {
	if !a.Valid() {
		return nil
	}
	return a.mem[:a.used:a.used]
}

// Close releases the reservation when the arena owns it and zeroes the
// handle. Closing twice is a no-op. Memory previously handed out by Alloc
// must not be touched afterwards.
func (a *Arena) Close() error {
	if !a.Valid() {
		return nil
	}
	var err error
	if a.owned {
		if rerr := a.prov.Release(a.mem); rerr != nil {
			err = fmt.Errorf("arena: close: %w", rerr)
		}
	}
	a.mem = nil
	a.capacity = 0
	a.committed = 0
	a.used = 0
	return err
}

// base returns the reservation start for typed views.
func (a *Arena) base() unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(a.mem))
}
