package pool

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/joshuapare/vmemkit/internal/align"
	"github.com/joshuapare/vmemkit/vmem"
)

// SlotIndex identifies a slot within a SlotPool.
type SlotIndex uint32

// InvalidSlot is the sentinel for "no slot", used as the free-list
// terminator and returned by failed allocations.
const InvalidSlot = ^SlotIndex(0)

// slotIndexSize is the storage a freed slot needs for its free-list link.
const slotIndexSize = 4

// Options configures pool construction. The zero value selects the real OS
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

// SlotPool hands out fixed-size slots from a single virtual-memory
// reservation. Slots never move. Freed slots are reused most-recently-freed
// first: the free list is threaded through the freed slots' own bytes, so
// the pool carries no side tables.
//
// headSlot is the high-water mark of slots ever handed out; it only grows,
// and only when an allocation finds the free list empty. Committed pages
// cover exactly the slots below the high-water mark, page-rounded.
//
// A SlotPool is exclusively owned by one caller context and does no internal
// locking.
type SlotPool struct {
	mem        []byte // whole reservation, page-rounded
	totalSlots int
	slotSize   int
	committed  int // committed byte count, always a page multiple
	headSlot   SlotIndex
	firstFree  SlotIndex // top of the free list, InvalidSlot when empty
	live       int       // slots handed out and not freed
	prov       vmem.Provider
	prot       vmem.Protection
}

// New reserves totalSlots*slotSizeBytes of address space and returns an
// empty pool. slotSizeBytes must be at least 4 so a freed slot can hold its
// free-list link.
func New(totalSlots, slotSizeBytes int) (*SlotPool, error) {
	return NewWithOptions(totalSlots, slotSizeBytes, Options{})
}

// NewWithOptions is New with an explicit provider and protection.
func NewWithOptions(totalSlots, slotSizeBytes int, opts Options) (*SlotPool, error) {
	opts = opts.withDefaults()
	if totalSlots <= 0 {
		return nil, vmem.Fail(fmt.Errorf("pool: new with %d slots: %w", totalSlots, ErrInvalidSlotCount))
	}
	if slotSizeBytes < slotIndexSize {
		return nil, vmem.Fail(fmt.Errorf("pool: new with %d-byte slots: %w", slotSizeBytes, ErrSlotTooSmall))
	}
	if totalSlots > math.MaxInt/slotSizeBytes {
		return nil, vmem.Fail(fmt.Errorf("pool: new with %d slots of %d bytes overflows: %w",
			totalSlots, slotSizeBytes, ErrInvalidSlotCount))
	}
	mem, err := opts.Provider.Reserve(totalSlots * slotSizeBytes)
	if err != nil {
		return nil, fmt.Errorf("pool: reserve: %w", err)
	}
	return &SlotPool{
		mem:        mem,
		totalSlots: totalSlots,
		slotSize:   slotSizeBytes,
		firstFree:  InvalidSlot,
		prov:       opts.Provider,
		prot:       opts.Protection,
	}, nil
}

// NewPagePool returns a pool whose slots are whole pages, so every slot can
// be protected, locked or decommitted independently.
func NewPagePool(totalPages int) (*SlotPool, error) {
	return NewPagePoolWithOptions(totalPages, Options{})
}

// NewPagePoolWithOptions is NewPagePool with an explicit provider and
// protection.
func NewPagePoolWithOptions(totalPages int, opts Options) (*SlotPool, error) {
	opts = opts.withDefaults()
	return NewWithOptions(totalPages, opts.Provider.PageSize(), opts)
}

// AllocSlot returns a free slot index in O(1). It pops the free list when
// one is available (most-recently-freed first, already committed) and
// otherwise advances the high-water mark, committing new pages as needed.
// When every slot is live it fails with ErrPoolExhausted.
//
// The slot's contents are unspecified: a reused slot still holds its old
// bytes, except the first four, which carried the free-list link.
func (p *SlotPool) AllocSlot() (SlotIndex, error) {
	if !p.Valid() {
		return InvalidSlot, vmem.Fail(fmt.Errorf("pool: alloc: %w", ErrClosed))
	}
	if p.firstFree != InvalidSlot {
		idx := p.firstFree
		p.firstFree = SlotIndex(binary.LittleEndian.Uint32(p.slot(idx)))
		p.live++
		return idx, nil
	}
	if int(p.headSlot) == p.totalSlots {
		return InvalidSlot, vmem.Fail(fmt.Errorf("pool: alloc with all %d slots in use: %w",
			p.totalSlots, ErrPoolExhausted))
	}
	if err := p.ensureCommitted(int(p.headSlot) + 1); err != nil {
		return InvalidSlot, err
	}
	idx := p.headSlot
	p.headSlot++
	p.live++
	return idx, nil
}

// Alloc is AllocSlot plus the slot's byte view.
func (p *SlotPool) Alloc() ([]byte, SlotIndex, error) {
	idx, err := p.AllocSlot()
	if err != nil {
		return nil, InvalidSlot, err
	}
	return p.slot(idx), idx, nil
}

// FreeSlot returns slot i to the pool in O(1) by pushing it onto the free
// list. The previous list head is written into the slot's first four bytes.
//
// Freeing a slot that is already on the free list corrupts the list
// silently; the pool cannot detect a double free.
func (p *SlotPool) FreeSlot(i SlotIndex) error {
	if !p.Valid() {
		return vmem.Fail(fmt.Errorf("pool: free: %w", ErrClosed))
	}
	if i >= p.headSlot {
		return vmem.Fail(fmt.Errorf("pool: free slot %d with high-water mark %d: %w",
			i, p.headSlot, ErrBadSlot))
	}
	binary.LittleEndian.PutUint32(p.slot(i), uint32(p.firstFree))
	p.firstFree = i
	p.live--
	return nil
}

// At returns the byte view of slot i, or nil when i was never allocated.
// The view stays valid until ClearAndDecommit or Close.
func (p *SlotPool) At(i SlotIndex) []byte {
	if !p.Valid() || i >= p.headSlot {
		return nil
	}
	return p.slot(i)
}

// ClearAndDecommit frees every slot at once: all committed pages are
// decommitted, the high-water mark resets to zero and the free list empties.
// The reservation is kept, so the pool is immediately reusable.
func (p *SlotPool) ClearAndDecommit() error {
	if !p.Valid() {
		return vmem.Fail(fmt.Errorf("pool: clear: %w", ErrClosed))
	}
	if p.committed > 0 {
		if err := p.prov.Decommit(p.mem[:p.committed]); err != nil {
			return fmt.Errorf("pool: clear: %w", err)
		}
		p.committed = 0
	}
	p.headSlot = 0
	p.firstFree = InvalidSlot
	p.live = 0
	return nil
}

// Live returns the number of slots handed out and not yet freed.
func (p *SlotPool) Live() int { return p.live }

// TotalSlots returns the fixed slot capacity.
func (p *SlotPool) TotalSlots() int { return p.totalSlots }

// SlotSize returns the slot size in bytes.
func (p *SlotPool) SlotSize() int { return p.slotSize }

// Committed returns the committed byte count, always a page multiple.
func (p *SlotPool) Committed() int { return p.committed }

// Valid reports whether the pool holds a live reservation.
func (p *SlotPool) Valid() bool {
	return p != nil && p.mem != nil && p.totalSlots > 0 && p.slotSize >= slotIndexSize
}

// Close releases the reservation and zeroes the handle. Closing twice is a
// no-op. Slot views handed out earlier must not be touched afterwards.
func (p *SlotPool) Close() error {
	if !p.Valid() {
		return nil
	}
	var err error
	if rerr := p.prov.Release(p.mem); rerr != nil {
		err = fmt.Errorf("pool: close: %w", rerr)
	}
	p.mem = nil
	p.totalSlots = 0
	p.slotSize = 0
	p.committed = 0
	p.headSlot = 0
	p.firstFree = InvalidSlot
	p.live = 0
	return err
}

// ensureCommitted grows the committed region to cover the first n slots.
func (p *SlotPool) ensureCommitted(n int) error {
	newCommitted := align.Forward(n*p.slotSize, p.prov.PageSize())
	if newCommitted <= p.committed {
		return nil
	}
	// Committing from the base is a no-op on already-committed pages.
	if err := p.prov.Commit(p.mem[:newCommitted], p.prot); err != nil {
		return fmt.Errorf("pool: commit %d slots: %w", n, err)
	}
	p.committed = newCommitted
	return nil
}

func (p *SlotPool) slot(i SlotIndex) []byte {
	off := int(i) * p.slotSize
	return p.mem[off : off+p.slotSize : off+p.slotSize]
}
