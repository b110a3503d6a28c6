package vmem

import (
	"fmt"
	"os"

	"github.com/joshuapare/vmemkit/internal/align"
)

// Protection describes the access rights of a committed page range.
// The zero value is invalid so an uninitialized Protection is caught early.
type Protection uint8

const (
	NoAccess Protection = iota + 1
	Read
	ReadWrite
	Execute
	ExecuteRead
	ExecuteReadWrite
)

func (p Protection) valid() bool {
	return p >= NoAccess && p <= ExecuteReadWrite
}

// String returns a short human-readable form, e.g. "rw-" or "r-x".
func (p Protection) String() string {
	switch p {
	case NoAccess:
		return "---"
	case Read:
		return "r--"
	case ReadWrite:
		return "rw-"
	case Execute:
		return "--x"
	case ExecuteRead:
		return "r-x"
	case ExecuteReadWrite:
		return "rwx"
	default:
		return fmt.Sprintf("Protection(%d)", uint8(p))
	}
}

// Provider is the virtual-memory capability consumed by the arena and pool
// packages. Sys is the OS-backed implementation; tests substitute recording
// or in-process providers.
//
// Ranges passed to Commit, Decommit, Protect, Lock and Unlock must lie
// within a slice previously returned by Reserve. Operations act on whole
// pages: every page overlapping the range is affected.
type Provider interface {
	// Reserve claims numBytes of address space, rounded up to whole pages.
	// The returned slice covers the rounded size and is NOT accessible
	// until committed.
	Reserve(numBytes int) ([]byte, error)

	// Release returns a reservation to the OS. Pass the exact slice
	// Reserve returned; the reservation size is recovered from its length.
	Release(mem []byte) error

	// Commit maps the pages overlapping mem to physical memory with the
	// given protection. Committing an already-committed sub-range is a no-op.
	Commit(mem []byte, prot Protection) error

	// Decommit releases the physical backing of the pages overlapping mem.
	// Accessing the range before a later Commit faults.
	Decommit(mem []byte) error

	// Protect changes the protection of an already-committed range.
	Protect(mem []byte, prot Protection) error

	// Lock pins the pages overlapping mem into physical memory.
	Lock(mem []byte) error

	// Unlock undoes Lock.
	Unlock(mem []byte) error

	// PageSize returns the commit granularity in bytes. Never fails.
	PageSize() int
}

// System is the OS-backed Provider. It is stateless; use the package-level
// Sys value rather than constructing one.
type System struct{}

// Sys is the process-wide OS-backed Provider.
var Sys Provider = System{}

// pageSize is resolved once at package load and read-only afterwards.
var pageSize = os.Getpagesize()

func (System) PageSize() int { return pageSize }

func (System) Reserve(numBytes int) ([]byte, error) {
	if numBytes <= 0 {
		return nil, Fail(fmt.Errorf("reserve %d bytes: %w", numBytes, ErrInvalidSize))
	}
	mem, err := sysReserve(align.Forward(numBytes, pageSize))
	if err != nil {
		return nil, Fail(fmt.Errorf("vmem: reserve %d bytes: %w", numBytes, err))
	}
	return mem, nil
}

func (System) Release(mem []byte) error {
	if len(mem) == 0 {
		return Fail(fmt.Errorf("release: %w", ErrInvalidPointer))
	}
	if err := sysRelease(mem); err != nil {
		return Fail(fmt.Errorf("vmem: release %d bytes: %w", len(mem), err))
	}
	return nil
}

func (System) Commit(mem []byte, prot Protection) error {
	if len(mem) == 0 {
		return Fail(fmt.Errorf("commit: %w", ErrInvalidPointer))
	}
	if !prot.valid() {
		return Fail(fmt.Errorf("commit: %w: %d", ErrInvalidProtection, uint8(prot)))
	}
	if err := sysCommit(mem, prot); err != nil {
		return Fail(fmt.Errorf("vmem: commit %d bytes: %w", len(mem), err))
	}
	return nil
}

func (System) Decommit(mem []byte) error {
	if len(mem) == 0 {
		return Fail(fmt.Errorf("decommit: %w", ErrInvalidPointer))
	}
	if err := sysDecommit(mem); err != nil {
		return Fail(fmt.Errorf("vmem: decommit %d bytes: %w", len(mem), err))
	}
	return nil
}

func (System) Protect(mem []byte, prot Protection) error {
	if len(mem) == 0 {
		return Fail(fmt.Errorf("protect: %w", ErrInvalidPointer))
	}
	if !prot.valid() {
		return Fail(fmt.Errorf("protect: %w: %d", ErrInvalidProtection, uint8(prot)))
	}
	if err := sysProtect(mem, prot); err != nil {
		return Fail(fmt.Errorf("vmem: protect %d bytes as %s: %w", len(mem), prot, err))
	}
	return nil
}

func (System) Lock(mem []byte) error {
	if len(mem) == 0 {
		return Fail(fmt.Errorf("lock: %w", ErrInvalidPointer))
	}
	if err := sysLock(mem); err != nil {
		return Fail(fmt.Errorf("vmem: lock %d bytes: %w", len(mem), err))
	}
	return nil
}

func (System) Unlock(mem []byte) error {
	if len(mem) == 0 {
		return Fail(fmt.Errorf("unlock: %w", ErrInvalidPointer))
	}
	if err := sysUnlock(mem); err != nil {
		return Fail(fmt.Errorf("vmem: unlock %d bytes: %w", len(mem), err))
	}
	return nil
}

// Alloc reserves and commits numBytes of read-write memory in one step.
// Release the result with Dealloc.
func Alloc(numBytes int) ([]byte, error) {
	return AllocProtect(numBytes, ReadWrite)
}

// AllocProtect reserves and commits numBytes with the given protection.
func AllocProtect(numBytes int, prot Protection) ([]byte, error) {
	if !prot.valid() {
		return nil, Fail(fmt.Errorf("alloc: %w: %d", ErrInvalidProtection, uint8(prot)))
	}
	mem, err := Sys.Reserve(numBytes)
	if err != nil {
		return nil, err
	}
	if err := Sys.Commit(mem, prot); err != nil {
		// Best effort; the commit error is the one worth reporting.
		_ = Sys.Release(mem)
		return nil, err
	}
	return mem, nil
}

// Dealloc releases memory obtained from Alloc or AllocProtect.
func Dealloc(mem []byte) error {
	return Sys.Release(mem)
}
