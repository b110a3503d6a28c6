//go:build linux

package vmem

import "golang.org/x/sys/unix"

// MAP_NORESERVE keeps huge reservations from counting against overcommit
// accounting; pages only cost memory once committed and touched.
const reserveFlags = unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_NORESERVE

// MADV_DONTNEED drops the backing pages immediately on Linux.
const decommitAdvice = unix.MADV_DONTNEED
