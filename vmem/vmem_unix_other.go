//go:build unix && !linux && !darwin

package vmem

import "golang.org/x/sys/unix"

const reserveFlags = unix.MAP_PRIVATE | unix.MAP_ANON

const decommitAdvice = unix.MADV_DONTNEED
