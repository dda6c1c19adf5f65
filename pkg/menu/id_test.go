package menu

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detachedItem(text string) *MenuItem {
	it := &MenuItem{}
	it.entry = newEntry(it, KindNormal, text, true, nil)
	return it
}

func TestNextIDSkipsLiveAndReserved(t *testing.T) {
	a := NewAllocator()
	keep := detachedItem("two")
	require.NoError(t, a.Register(2, keep))

	assert.Equal(t, ID(1), a.NextID())
	assert.Equal(t, ID(3), a.NextID())

	a.next = ReservedFirst - 1
	assert.Equal(t, ReservedFirst-1, a.NextID())
	assert.Equal(t, ReservedLast+1, a.NextID())

	a.next = MaxID
	assert.Equal(t, MaxID, a.NextID())
	assert.Equal(t, ID(1), a.NextID(), "wraps to the bottom of the range")
	assert.Equal(t, ID(3), a.NextID())

	runtime.KeepAlive(keep)
}

func TestClaimedIDsAreUnique(t *testing.T) {
	a := NewAllocator()
	items := make([]*MenuItem, 0, 100)
	seen := make(map[ID]bool)
	for range 100 {
		it := detachedItem("x")
		a.claim(it.entry)
		require.NotZero(t, it.ID())
		require.False(t, seen[it.ID()], "id %d issued twice", it.ID())
		seen[it.ID()] = true
		items = append(items, it)
	}

	got, ok := a.Resolve(items[10].ID())
	require.True(t, ok)
	assert.Same(t, items[10], got)
}

func TestRegisterDuplicate(t *testing.T) {
	a := NewAllocator()
	first := detachedItem("first")
	require.NoError(t, a.Register(42, first))

	second := detachedItem("second")
	assert.ErrorIs(t, a.Register(42, second), ErrDuplicateID)

	a.Release(42)
	assert.NoError(t, a.Register(42, second))

	_, ok := a.Resolve(7)
	assert.False(t, ok)
	assert.ErrorIs(t, a.Register(0, second), ErrInvalidItem)
	assert.ErrorIs(t, a.Register(5, nil), ErrInvalidItem)
}

func TestReservedRangePolicies(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		a := NewAllocator()
		assert.ErrorIs(t, a.Register(ReservedFirst, detachedItem("x")), ErrReservedID)
		assert.ErrorIs(t, a.Register(ReservedLast, detachedItem("x")), ErrReservedID)
		assert.NoError(t, a.Register(ReservedLast+1, detachedItem("x")))
	})

	t.Run("lenient", func(t *testing.T) {
		a := NewAllocator(WithStrictReservedRange(false))
		explicit := detachedItem("explicit")
		require.NoError(t, a.Register(ReservedFirst, explicit))
		assert.ErrorIs(t, a.Register(ReservedFirst, detachedItem("again")), ErrDuplicateID)

		// bare predefined items skip the id taken explicitly
		p := newPredefined(0, "")
		a.claimReserved(p.entry)
		assert.Equal(t, uint32(ReservedFirst+1), p.cmd)
		assert.Zero(t, p.ID())

		runtime.KeepAlive(explicit)
	})
}

func TestReservedIDsAreRecycled(t *testing.T) {
	a := NewAllocator()
	p := newPredefined(0, "")
	a.claimReserved(p.entry)
	first := p.cmd
	assert.Equal(t, uint32(ReservedFirst), first)

	_, ok := a.Resolve(ID(first))
	assert.False(t, ok, "reserved ids do not resolve")
	e, ok := a.lookup(ID(first))
	require.True(t, ok)
	assert.Same(t, p.entry, e)

	a.Release(ID(first))
	q := newPredefined(0, "")
	a.claimReserved(q.entry)
	assert.Equal(t, first, q.cmd)
}

func TestIDReleasedWhenItemIsCollected(t *testing.T) {
	a := NewAllocator()
	var id ID
	func() {
		it := detachedItem("short lived")
		a.claim(it.entry)
		id = it.ID()
	}()
	require.NotZero(t, id)

	require.Eventually(t, func() bool {
		runtime.GC()
		return a.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)

	_, ok := a.Resolve(id)
	assert.False(t, ok)
}

func TestIDsExhausted(t *testing.T) {
	b := setup(t)
	live := make([]*MenuItem, 0, int(MaxID))
	for {
		it := detachedItem("x")
		defaultAllocator.claim(it.entry)
		if it.ID() == 0 {
			break
		}
		live = append(live, it)
	}
	assert.Len(t, live, int(MaxID)-int(ReservedLast-ReservedFirst+1))
	assert.Zero(t, defaultAllocator.NextID())

	orphan := NewMenuItem("no id", true, nil)
	assert.Zero(t, orphan.ID())

	m := New(WithBackend(b))
	assert.ErrorIs(t, m.Append(orphan), ErrIDsExhausted)
	assert.NoError(t, m.Append(NewSeparator()))

	runtime.KeepAlive(live)
}
