package arena

import "errors"

var (
	// ErrInvalidCapacity indicates a zero or negative capacity request.
	ErrInvalidCapacity = errors.New("arena: capacity must be positive")

	// ErrInvalidLength indicates a negative logical length.
	ErrInvalidLength = errors.New("arena: length must not be negative")

	// ErrMisalignedBase indicates a wrapped base pointer that is not
	// page-aligned.
	ErrMisalignedBase = errors.New("arena: base pointer must be page-aligned")

	// ErrCapacityExceeded indicates growth past the fixed reservation size.
	// The arena was under-sized for the workload; the failed operation left
	// the arena unchanged.
	ErrCapacityExceeded = errors.New("arena: capacity exceeded")

	// ErrOutOfRange indicates an element index outside the live range.
	ErrOutOfRange = errors.New("arena: index out of range")

	// ErrClosed indicates use of an arena after Close.
	ErrClosed = errors.New("arena: use after close")
)
