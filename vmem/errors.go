package vmem

import "errors"

var (
	// ErrInvalidSize indicates a zero or negative byte count where a positive
	// one is required.
	ErrInvalidSize = errors.New("vmem: size must be positive")

	// ErrInvalidPointer indicates a nil or empty memory range where a real
	// one is required.
	ErrInvalidPointer = errors.New("vmem: nil memory range")

	// ErrInvalidProtection indicates a Protection value outside the defined set.
	ErrInvalidProtection = errors.New("vmem: invalid protection")

	// ErrUnsupported indicates the current platform has no virtual-memory
	// backend.
	ErrUnsupported = errors.New("vmem: virtual memory not supported on this platform")
)
