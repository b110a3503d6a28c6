// Package pool implements a fixed-size slot allocator backed by a
// virtual-memory reservation, with O(1) allocate and free.
//
// # Overview
//
// A SlotPool divides one reservation into equal slots. Allocation either
// pops the free list or advances a high-water mark, committing pages only as
// the mark advances; freeing pushes the slot onto the free list. The free
// list lives inside the freed slots themselves (the first four bytes of a
// freed slot hold the index of the next free slot), so the pool needs no
// side tables and its bookkeeping is a handful of integers.
//
//	p, err := pool.New(1024, 64) // 1024 slots of 64 bytes
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	buf, idx, err := p.Alloc()
//	// ... use buf ...
//	p.FreeSlot(idx)
//
// Reuse is LIFO: the most-recently-freed slot is handed out first, which
// keeps hot slots in cache. This ordering is part of the contract, not an
// accident of the implementation.
//
// # Typed Pools
//
// Pool[T] gives each slot the size of a T and hands out stable pointers:
//
//	objs, _ := pool.NewTyped[Enemy](4096)
//	defer objs.Close()
//	e, idx, _ := objs.Alloc() // *Enemy, zeroed
//	objs.Free(idx)
//
// NewPagePool sizes slots to whole pages for callers that want per-slot
// protection or decommit.
//
// # Hazards
//
// Double-freeing a slot corrupts the free list silently, and writing to a
// slot after freeing it clobbers the free-list link. The pool validates that
// a freed index was ever allocated, nothing more.
//
// # Thread Safety
//
// Pools are single-owner and do no internal locking.
package pool
