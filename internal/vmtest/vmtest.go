// Package vmtest provides an in-process vmem.Provider for tests. It backs
// reservations with ordinary heap slices and counts every call, so container
// tests can assert exactly how many commit/decommit operations a sequence
// would have issued without touching the OS.
package vmtest

import (
	"github.com/joshuapare/vmemkit/internal/align"
	"github.com/joshuapare/vmemkit/vmem"
)

// Provider is a recording vmem.Provider. The zero value is usable and
// reports a 4 KiB page size.
type Provider struct {
	// PageSz is the page size reported by PageSize. Zero means 4096.
	PageSz int

	// Call counters, incremented on every call whether or not it fails.
	Reserves  int
	Releases  int
	Commits   int
	Decommits int
	Protects  int
	Locks     int
	Unlocks   int

	// Injected failures. When non-nil the matching call returns the error.
	FailReserve  error
	FailCommit   error
	FailDecommit error
}

// New returns a fresh recording provider.
func New() *Provider {
	return &Provider{PageSz: 4096}
}

func (p *Provider) PageSize() int {
	if p.PageSz == 0 {
		return 4096
	}
	return p.PageSz
}

func (p *Provider) Reserve(numBytes int) ([]byte, error) {
	p.Reserves++
	if p.FailReserve != nil {
		return nil, p.FailReserve
	}
	if numBytes <= 0 {
		return nil, vmem.ErrInvalidSize
	}
	return make([]byte, align.Forward(numBytes, p.PageSize())), nil
}

func (p *Provider) Release(mem []byte) error {
	p.Releases++
	if len(mem) == 0 {
		return vmem.ErrInvalidPointer
	}
	return nil
}

func (p *Provider) Commit(mem []byte, prot vmem.Protection) error {
	p.Commits++
	if p.FailCommit != nil {
		return p.FailCommit
	}
	return nil
}

func (p *Provider) Decommit(mem []byte) error {
	p.Decommits++
	if p.FailDecommit != nil {
		return p.FailDecommit
	}
	// Decommitted pages read back zero-filled after a later commit.
	clear(mem)
	return nil
}

func (p *Provider) Protect(mem []byte, prot vmem.Protection) error {
	p.Protects++
	return nil
}

func (p *Provider) Lock(mem []byte) error {
	p.Locks++
	return nil
}

func (p *Provider) Unlock(mem []byte) error {
	p.Unlocks++
	return nil
}

// ResetCounters zeroes the call counters, keeping injected failures.
func (p *Provider) ResetCounters() {
	p.Reserves, p.Releases = 0, 0
	p.Commits, p.Decommits = 0, 0
	p.Protects, p.Locks, p.Unlocks = 0, 0, 0
}

// Compile-time interface check
var _ vmem.Provider = (*Provider)(nil)
