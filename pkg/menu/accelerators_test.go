package menu

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/menusync/pkg/native"
)

func TestAcceleratorConflictFirstWins(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})

	first := NewMenuItem("Duplicate", true, accel("Alt+D"))
	second := NewMenuItem("Delete", true, accel("Alt+D"))
	edit, err := NewSubmenuWithItems("Edit", true, first)
	require.NoError(t, err)
	m := newMenu(t, b, edit, second)

	tbl := BuildAcceleratorTable(m.Items())
	require.Len(t, tbl.Entries, 1)
	assert.Equal(t, uint32(first.ID()), tbl.Entries[0].Command)
	require.Len(t, tbl.Conflicts, 1)
	c := tbl.Conflicts[0]
	assert.Same(t, first, c.Kept)
	assert.Same(t, second, c.Dropped)
	assert.Equal(t, "Alt+D", c.Accelerator.String())
	assert.ErrorIs(t, c, ErrAcceleratorConflict)
	assert.Contains(t, c.Error(), "Duplicate")

	require.NoError(t, m.InitForWindow(w))
	h, ok := m.AcceleratorTable(w)
	require.True(t, ok)
	entries, ok := b.AcceleratorTable(native.AccelTable(h))
	require.True(t, ok)
	assert.Equal(t, tbl.Entries, entries)
	assert.Len(t, m.AcceleratorConflicts(w), 1)

	// the label of the dropped item still shows its accelerator
	assert.Equal(t, "Delete\tAlt+D", b.Labels(windowBar(t, b, w))[1])
}

func TestAcceleratorTableFollowsChanges(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})
	save := leaf("Save")
	m := newMenu(t, b, save)
	require.NoError(t, m.InitForWindow(w))

	_, ok := m.AcceleratorTable(w)
	assert.False(t, ok, "no accelerators, no table")

	require.NoError(t, save.SetAccelerator(accel("Ctrl+S")))
	first, ok := m.AcceleratorTable(w)
	require.True(t, ok)

	require.NoError(t, m.Append(NewMenuItem("Open", true, accel("Ctrl+O"))))
	second, ok := m.AcceleratorTable(w)
	require.True(t, ok)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, b.AcceleratorTableCount(), "old table is destroyed")

	entries, _ := b.AcceleratorTable(second)
	assert.Len(t, entries, 2)

	require.NoError(t, save.SetAccelerator(nil))
	third, _ := m.AcceleratorTable(w)
	entries, _ = b.AcceleratorTable(third)
	assert.Len(t, entries, 1)
	assert.Equal(t, "Save", b.Labels(windowBar(t, b, w))[0])
}

func TestPredefinedDefaultAccelerators(t *testing.T) {
	setup(t)
	tests := []struct {
		action native.Action
		want   string
	}{
		{native.ActionCopy, "Ctrl+C"},
		{native.ActionCut, "Ctrl+X"},
		{native.ActionPaste, "Ctrl+V"},
		{native.ActionSelectAll, "Ctrl+A"},
		{native.ActionUndo, "Ctrl+Z"},
		{native.ActionRedo, "Ctrl+Y"},
		{native.ActionCloseWindow, "Alt+F4"},
	}
	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			p := NewPredefined(tt.action)
			require.NotNil(t, p.Accelerator())
			assert.Equal(t, tt.want, p.Accelerator().String())
		})
	}
	assert.Nil(t, NewPredefined(native.ActionQuit).Accelerator())
	assert.Equal(t, "&Exit", NewPredefined(native.ActionQuit).Text())
}

func TestPredefinedAcceleratorUsesReservedCommand(t *testing.T) {
	setup(t)
	cp := NewPredefined(native.ActionCopy)
	tbl := BuildAcceleratorTable(slices.Values([]Item{cp}))
	require.Len(t, tbl.Entries, 1)
	assert.True(t, ID(tbl.Entries[0].Command).IsReserved())
	assert.Zero(t, cp.ID())
	assert.Equal(t, tbl.Entries[0].Command, NativeCommand(cp))

	open := leaf("Open")
	assert.Equal(t, uint32(open.ID()), NativeCommand(open))
	assert.Zero(t, NativeCommand(NewSeparator()))
	assert.Zero(t, NativeCommand(nil))
}

func TestSharedSubmenuIsNotASelfConflict(t *testing.T) {
	setup(t)
	shared, err := NewSubmenuWithItems("Recent", true, NewMenuItem("Reopen", true, accel("Ctrl+Shift+T")))
	require.NoError(t, err)
	file, err := NewSubmenuWithItems("File", true, shared)
	require.NoError(t, err)
	window, err := NewSubmenuWithItems("Window", true, shared)
	require.NoError(t, err)

	tbl := BuildAcceleratorTable(slices.Values([]Item{file, window}))
	assert.Empty(t, tbl.Conflicts)
	assert.Len(t, tbl.Entries, 1)
}
