// Package vmem provides a cross-platform surface over OS virtual-memory
// management: reserving address space, committing and decommitting physical
// backing at page granularity, changing page protection, and pinning pages.
//
// # Overview
//
// Virtual memory lets a process claim a large contiguous address range
// without paying for physical memory up front. This package splits the two
// steps apart:
//
//   - Reserve claims address space. The returned memory is NOT accessible.
//   - Commit maps a sub-range of a reservation to physical pages, making it
//     readable/writable under the requested protection.
//   - Decommit unmaps physical pages while keeping the address range
//     reserved, so the same addresses can be committed again later.
//   - Release returns the whole reservation to the OS.
//
// The higher-level arena and pool packages build growable, never-relocating
// containers on top of this split.
//
// # Provider Interface
//
// All operations are expressed through the Provider interface so callers can
// substitute a recording or in-process implementation in tests. The Sys
// variable is the real OS-backed Provider and is the default everywhere.
//
//	mem, err := vmem.Sys.Reserve(1 << 30) // 1 GiB of address space, no RAM
//	if err != nil {
//	    return err
//	}
//	defer vmem.Sys.Release(mem)
//
//	// Make the first 64 KiB usable.
//	if err := vmem.Sys.Commit(mem[:64<<10], vmem.ReadWrite); err != nil {
//	    return err
//	}
//	mem[0] = 42
//
// # Platform Backends
//
// On unix systems reservations are anonymous private PROT_NONE mappings;
// commit and decommit are mprotect transitions (decommit additionally
// releases backing with madvise). On Windows the backend is
// VirtualAlloc/VirtualFree with MEM_RESERVE, MEM_COMMIT, MEM_DECOMMIT and
// MEM_RELEASE. Other platforms get a stub that reports ErrUnsupported.
//
// Reservations are rounded up to a whole number of pages; the returned slice
// covers the rounded size. Commit, Decommit and Protect operate on pages, so
// a range that does not start or end on a page boundary affects every page
// that overlaps it.
//
// # Failure Policy
//
// Every fallible operation returns an error; nothing panics on its own.
// Argument errors wrap the ErrInvalid* sentinels and OS errors wrap the
// underlying syscall error, so both are matchable with errors.Is. A process
// can opt into a louder posture with SetFailureHandler, which observes every
// failure constructed by vmem, arena and pool before it is returned. A
// handler that panics turns any ignored allocation failure into a crash at
// the failure site, which is the recommended mode during development.
//
// # Thread Safety
//
// Sys is stateless apart from the page size, which is resolved once at
// package load. Concurrent use of Sys itself is safe; coordinating access to
// the memory it hands out is the caller's job.
//
// # Related Packages
//
//   - github.com/joshuapare/vmemkit/arena: linear bump arena with stable addresses
//   - github.com/joshuapare/vmemkit/pool: fixed-size slot pool with free-list reuse
package vmem
