// Package arena implements a linear bump arena backed by a virtual-memory
// reservation, plus a generic Array container on top of it.
//
// # Overview
//
// A conventional growable buffer reallocates and copies when it outgrows its
// capacity, invalidating every pointer into it. An Arena instead reserves
// its maximum capacity as address space up front and commits physical pages
// only as the logical length grows. Growth is an mprotect/VirtualAlloc away,
// the data never moves, and a 100 GiB arena that uses 1 MiB costs 1 MiB.
//
//	a, err := arena.New(1 << 30)
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	buf, err := a.Alloc(4096) // stable for the arena's lifetime
//
// # Resizing
//
// SetUsed is the core primitive: it moves the logical length and keeps the
// committed region equal to the minimal page-aligned cover of that length.
// Consecutive calls that land in the same page footprint cost nothing, so
// byte-at-a-time growth is fine. Shrinking decommits the tail pages and
// returns their physical memory to the OS.
//
// Growing past the reserved capacity is the one hard failure
// (ErrCapacityExceeded): it means the arena was under-sized, and the caller
// must either reserve more up front or fail the higher-level operation.
//
// # Typed Arrays
//
// Array[T] layers element accounting over an Arena:
//
//	xs, _ := arena.NewArray[float64](1 << 20)
//	defer xs.Close()
//	xs.Append(1.0)
//	xs.Append(1.5)
//	xs.Append(2.0)
//	xs.SwapRemove(1) // [1.0, 2.0], order not preserved
//
// # Thread Safety
//
// Arenas are single-owner. Nothing here locks; share an arena across
// goroutines only behind your own synchronization.
package arena
