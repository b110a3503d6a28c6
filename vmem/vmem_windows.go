//go:build windows

package vmem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func sysReserve(numBytes int) ([]byte, error) {
	base, err := windows.VirtualAlloc(0, uintptr(numBytes), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(base)), numBytes), nil
}

func sysRelease(mem []byte) error {
	// MEM_RELEASE requires size 0: the kernel tracks the reservation size.
	return windows.VirtualFree(baseAddr(mem), 0, windows.MEM_RELEASE)
}

func sysCommit(mem []byte, prot Protection) error {
	// VirtualAlloc rounds the range to the pages it overlaps and is a no-op
	// on already-committed pages.
	_, err := windows.VirtualAlloc(baseAddr(mem), uintptr(len(mem)), windows.MEM_COMMIT, winProt(prot))
	return err
}

func sysDecommit(mem []byte) error {
	return windows.VirtualFree(baseAddr(mem), uintptr(len(mem)), windows.MEM_DECOMMIT)
}

func sysProtect(mem []byte, prot Protection) error {
	var old uint32
	return windows.VirtualProtect(baseAddr(mem), uintptr(len(mem)), winProt(prot), &old)
}

func sysLock(mem []byte) error {
	return windows.VirtualLock(baseAddr(mem), uintptr(len(mem)))
}

func sysUnlock(mem []byte) error {
	return windows.VirtualUnlock(baseAddr(mem), uintptr(len(mem)))
}

func baseAddr(mem []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
}

func winProt(p Protection) uint32 {
	switch p {
	case NoAccess:
		return windows.PAGE_NOACCESS
	case Read:
		return windows.PAGE_READONLY
	case ReadWrite:
		return windows.PAGE_READWRITE
	case Execute:
		return windows.PAGE_EXECUTE
	case ExecuteRead:
		return windows.PAGE_EXECUTE_READ
	case ExecuteReadWrite:
		return windows.PAGE_EXECUTE_READWRITE
	}
	return windows.PAGE_NOACCESS
}
