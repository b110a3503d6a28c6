package align

// Alignment arithmetic for page-granular memory management.
// Callers are expected to pass power-of-two alignments; the public vmem
// wrappers validate before reaching this package.

// Forward returns n rounded up to the next (or current) multiple of a.
//
// Example:
//
//	Forward(1, 4096)    = 4096
//	Forward(4096, 4096) = 4096
//	Forward(4097, 4096) = 8192
func Forward(n, a int) int {
	mask := a - 1
	return (n + mask) &^ mask
}

// Backward returns n rounded down to the previous (or current) multiple of a.
func Backward(n, a int) int {
	return n &^ (a - 1)
}

// IsAligned reports whether n is a multiple of a.
func IsAligned(n, a int) bool {
	return n&(a-1) == 0
}

// IsPow2 reports whether a is a power of two greater than zero.
func IsPow2(a int) bool {
	return a > 0 && a&(a-1) == 0
}
