//go:build darwin

package vmem

import "golang.org/x/sys/unix"

// macOS has no MAP_NORESERVE; anonymous mappings are lazily backed anyway.
const reserveFlags = unix.MAP_PRIVATE | unix.MAP_ANON

// On Darwin MADV_FREE is the advice that actually returns pages to the
// system; MADV_DONTNEED is a weaker hint there.
const decommitAdvice = unix.MADV_FREE
