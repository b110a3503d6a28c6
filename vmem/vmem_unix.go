//go:build unix

package vmem

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Reservations are anonymous private PROT_NONE mappings. Commit is an
// mprotect transition to the requested protection; decommit drops back to
// PROT_NONE and releases the backing pages with madvise. The mmap flags and
// madvise advice differ per platform (see vmem_linux.go and friends).

func sysReserve(numBytes int) ([]byte, error) {
	return unix.Mmap(-1, 0, numBytes, unix.PROT_NONE, reserveFlags)
}

func sysRelease(mem []byte) error {
	return unix.Munmap(mem)
}

func sysCommit(mem []byte, prot Protection) error {
	return unix.Mprotect(pageSpan(mem), unixProt(prot))
}

func sysDecommit(mem []byte) error {
	span := pageSpan(mem)
	if err := unix.Mprotect(span, unix.PROT_NONE); err != nil {
		return err
	}
	// The next commit re-faults the pages zero-filled.
	return unix.Madvise(span, decommitAdvice)
}

func sysProtect(mem []byte, prot Protection) error {
	return unix.Mprotect(pageSpan(mem), unixProt(prot))
}

func sysLock(mem []byte) error {
	return unix.Mlock(pageSpan(mem))
}

func sysUnlock(mem []byte) error {
	return unix.Munlock(pageSpan(mem))
}

func unixProt(p Protection) int {
	switch p {
	case NoAccess:
		return unix.PROT_NONE
	case Read:
		return unix.PROT_READ
	case ReadWrite:
		return unix.PROT_READ | unix.PROT_WRITE
	case Execute:
		return unix.PROT_EXEC
	case ExecuteRead:
		return unix.PROT_READ | unix.PROT_EXEC
	case ExecuteReadWrite:
		return unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC
	}
	return unix.PROT_NONE
}

// pageSpan widens mem to the full pages it overlaps. mprotect and madvise
// require a page-aligned start address.
func pageSpan(mem []byte) []byte {
	ps := uintptr(pageSize)
	base := unsafe.Pointer(unsafe.SliceData(mem))
	addr := uintptr(base)
	start := addr &^ (ps - 1)
	end := (addr + uintptr(len(mem)) + ps - 1) &^ (ps - 1)
	return unsafe.Slice((*byte)(unsafe.Add(base, -int(addr-start))), end-start)
}
