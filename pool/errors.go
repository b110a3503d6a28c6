package pool

import "errors"

var (
	// ErrInvalidSlotCount indicates a zero or negative slot count.
	ErrInvalidSlotCount = errors.New("pool: slot count must be positive")

	// ErrSlotTooSmall indicates a slot size smaller than a slot index.
	// Freed slots store the free-list link in their own bytes, so a slot
	// must be at least 4 bytes.
	ErrSlotTooSmall = errors.New("pool: slot size must hold a slot index")

	// ErrPoolExhausted indicates every slot is live and the fixed
	// reservation cannot grow. The failed allocation left the pool
	// unchanged.
	ErrPoolExhausted = errors.New("pool: all slots in use")

	// ErrBadSlot indicates a slot index that was never allocated.
	ErrBadSlot = errors.New("pool: bad slot index")

	// ErrClosed indicates use of a pool after Close.
	ErrClosed = errors.New("pool: use after close")
)
