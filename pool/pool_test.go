package pool

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/vmemkit/internal/vmtest"
)

func newTestPool(t *testing.T, totalSlots, slotSize int) (*SlotPool, *vmtest.Provider) {
	t.Helper()
	pv := vmtest.New()
	p, err := NewWithOptions(totalSlots, slotSize, Options{Provider: pv})
	require.NoError(t, err, "NewWithOptions should succeed")
	t.Cleanup(func() { _ = p.Close() })
	return p, pv
}

func TestSlotPool_New_Validation(t *testing.T) {
	pv := vmtest.New()

	_, err := NewWithOptions(0, 64, Options{Provider: pv})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSlotCount)

	_, err = NewWithOptions(-1, 64, Options{Provider: pv})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSlotCount)

	// A freed slot stores a 4-byte free-list link in its own bytes.
	_, err = NewWithOptions(16, 3, Options{Provider: pv})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotTooSmall)

	// A slot count whose byte size overflows int must not reach the
	// provider as a wrapped-around reservation size.
	_, err = NewWithOptions(math.MaxInt/2, 64, Options{Provider: pv})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSlotCount)

	p, err := NewWithOptions(16, 4, Options{Provider: pv})
	require.NoError(t, err, "4-byte slots are the minimum and must be accepted")
	_ = p.Close()
}

func TestSlotPool_AllocAdvancesHighWater(t *testing.T) {
	p, _ := newTestPool(t, 16, 64)

	a, err := p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, SlotIndex(0), a)
	assert.Equal(t, SlotIndex(1), p.headSlot)

	b, err := p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, SlotIndex(1), b)
	assert.Equal(t, SlotIndex(2), p.headSlot)
	assert.Equal(t, 2, p.Live())
}

func TestSlotPool_LIFOReuse(t *testing.T) {
	p, _ := newTestPool(t, 16, 64)

	a, err := p.AllocSlot()
	require.NoError(t, err)
	b, err := p.AllocSlot()
	require.NoError(t, err)

	require.NoError(t, p.FreeSlot(a))
	require.NoError(t, p.FreeSlot(b))

	// Most-recently-freed first: b then a.
	got, err := p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, b, got, "first reuse should return the most recently freed slot")

	got, err = p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, a, got, "second reuse should return the earlier freed slot")

	assert.Equal(t, SlotIndex(2), p.headSlot, "reuse must not advance the high-water mark")
}

func TestSlotPool_FreeReallocIdentity(t *testing.T) {
	p, _ := newTestPool(t, 16, 64)

	idx, err := p.AllocSlot()
	require.NoError(t, err)
	require.NoError(t, p.FreeSlot(idx))

	again, err := p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, idx, again, "free then alloc with nothing in between returns the same slot")
}

func TestSlotPool_EndToEnd(t *testing.T) {
	p, _ := newTestPool(t, 1024, 64)

	s0, err := p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, SlotIndex(0), s0)

	s1, err := p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, SlotIndex(1), s1)
	assert.Equal(t, SlotIndex(2), p.headSlot)

	require.NoError(t, p.FreeSlot(s1))
	assert.Equal(t, SlotIndex(1), p.firstFree)
	assert.Equal(t, SlotIndex(2), p.headSlot, "free must not move the high-water mark")

	again, err := p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, SlotIndex(1), again)
	assert.Equal(t, SlotIndex(2), p.headSlot)
	assert.Equal(t, InvalidSlot, p.firstFree, "free list should be empty again")
}

func TestSlotPool_FreeListThreadedThroughSlots(t *testing.T) {
	p, _ := newTestPool(t, 16, 64)

	var idx [3]SlotIndex
	for i := range idx {
		s, err := p.AllocSlot()
		require.NoError(t, err)
		idx[i] = s
	}

	// Free 0, 1, 2: list is 2 -> 1 -> 0 -> invalid, links in slot bytes.
	for _, s := range idx {
		require.NoError(t, p.FreeSlot(s))
	}

	order := make([]SlotIndex, 0, 3)
	for range idx {
		s, err := p.AllocSlot()
		require.NoError(t, err)
		order = append(order, s)
	}
	assert.Equal(t, []SlotIndex{2, 1, 0}, order)
}

func TestSlotPool_Exhausted(t *testing.T) {
	p, _ := newTestPool(t, 4, 64)

	for i := 0; i < 4; i++ {
		_, err := p.AllocSlot()
		require.NoError(t, err, "alloc %d is within the slot count", i)
	}

	_, err := p.AllocSlot()
	require.Error(t, err, "fifth alloc must fail")
	assert.ErrorIs(t, err, ErrPoolExhausted)
	assert.Equal(t, SlotIndex(4), p.headSlot, "failed alloc must not change state")
	assert.Equal(t, 4, p.Live())

	// Freeing any slot makes allocation possible again.
	require.NoError(t, p.FreeSlot(2))
	got, err := p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, SlotIndex(2), got)
}

func TestSlotPool_CommitGranularity(t *testing.T) {
	// 64-byte slots, 4096-byte pages: 64 slots per page.
	p, pv := newTestPool(t, 256, 64)

	for i := 0; i < 64; i++ {
		_, err := p.AllocSlot()
		require.NoError(t, err)
	}
	assert.Equal(t, 1, pv.Commits, "first 64 slots fit in one page")

	_, err := p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, 2, pv.Commits, "slot 65 crosses into the second page")

	// Reuse of a freed slot never needs a commit.
	require.NoError(t, p.FreeSlot(0))
	_, err = p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, 2, pv.Commits, "free-list reuse must not commit")
}

func TestSlotPool_FreeBadSlot(t *testing.T) {
	p, _ := newTestPool(t, 16, 64)

	err := p.FreeSlot(0)
	require.Error(t, err, "slot 0 was never allocated")
	assert.ErrorIs(t, err, ErrBadSlot)

	_, err = p.AllocSlot()
	require.NoError(t, err)

	err = p.FreeSlot(1)
	require.Error(t, err, "slot 1 is above the high-water mark")
	assert.ErrorIs(t, err, ErrBadSlot)
}

func TestSlotPool_At(t *testing.T) {
	p, _ := newTestPool(t, 16, 64)

	assert.Nil(t, p.At(0), "At before any allocation")

	idx, err := p.AllocSlot()
	require.NoError(t, err)

	buf := p.At(idx)
	require.Len(t, buf, 64)
	buf[63] = 0x7f
	assert.Equal(t, byte(0x7f), p.At(idx)[63], "At must return the same storage")

	assert.Nil(t, p.At(5), "At above the high-water mark")
}

func TestSlotPool_ClearAndDecommit(t *testing.T) {
	p, pv := newTestPool(t, 256, 64)

	for i := 0; i < 100; i++ {
		_, err := p.AllocSlot()
		require.NoError(t, err)
	}
	require.NoError(t, p.FreeSlot(3))

	require.NoError(t, p.ClearAndDecommit())
	assert.Greater(t, pv.Decommits, 0, "clear should decommit the committed pages")
	assert.Equal(t, SlotIndex(0), p.headSlot)
	assert.Equal(t, InvalidSlot, p.firstFree)
	assert.Equal(t, 0, p.Live())
	assert.Equal(t, 0, p.Committed())
	assert.Nil(t, p.At(0), "previously live slots are gone after clear")

	// The reservation survives: the pool is reusable from slot 0.
	idx, err := p.AllocSlot()
	require.NoError(t, err)
	assert.Equal(t, SlotIndex(0), idx)
}

func TestSlotPool_ClearAndDecommit_Failure(t *testing.T) {
	p, pv := newTestPool(t, 16, 64)

	_, err := p.AllocSlot()
	require.NoError(t, err)

	osErr := errors.New("simulated decommit failure")
	pv.FailDecommit = osErr

	err = p.ClearAndDecommit()
	require.Error(t, err)
	assert.ErrorIs(t, err, osErr, "the provider error should be wrapped, not swallowed")
	assert.Equal(t, SlotIndex(1), p.headSlot, "failed clear must leave the pool intact")
}

func TestSlotPool_CloseRoundTrip(t *testing.T) {
	pv := vmtest.New()
	p, err := NewWithOptions(16, 64, Options{Provider: pv})
	require.NoError(t, err)
	require.True(t, p.Valid())

	require.NoError(t, p.Close())
	assert.False(t, p.Valid())
	assert.Equal(t, 1, pv.Releases)

	// Double close must not double-release.
	require.NoError(t, p.Close())
	assert.Equal(t, 1, pv.Releases)

	_, err = p.AllocSlot()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClosed)

	err = p.FreeSlot(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNewPagePool(t *testing.T) {
	pv := vmtest.New()
	p, err := NewPagePoolWithOptions(8, Options{Provider: pv})
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, pv.PageSize(), p.SlotSize(), "page pool slots are whole pages")

	buf, idx, err := p.Alloc()
	require.NoError(t, err)
	assert.Equal(t, SlotIndex(0), idx)
	assert.Len(t, buf, pv.PageSize())
	assert.Equal(t, pv.PageSize(), p.Committed(), "one slot commits exactly one page")
}
