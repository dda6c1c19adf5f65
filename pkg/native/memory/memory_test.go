package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/menusync/pkg/native"
)

func TestEntriesArePositional(t *testing.T) {
	b := New()
	h, err := b.CreatePopupMenu()
	require.NoError(t, err)

	require.NoError(t, b.InsertEntry(h, 0, native.Entry{Text: "b"}))
	require.NoError(t, b.InsertEntry(h, 0, native.Entry{Text: "a"}))
	require.NoError(t, b.InsertEntry(h, 2, native.Entry{Separator: true}))
	assert.Equal(t, []string{"a", "b", "-"}, b.Labels(h))

	require.NoError(t, b.ModifyEntry(h, 1, native.Entry{Text: "B"}))
	require.NoError(t, b.RemoveEntry(h, 0))
	assert.Equal(t, []string{"B", "-"}, b.Labels(h))

	assert.ErrorIs(t, b.InsertEntry(h, 5, native.Entry{}), native.ErrInvalidPosition)
	assert.ErrorIs(t, b.RemoveEntry(h, 2), native.ErrInvalidPosition)
	assert.ErrorIs(t, b.ModifyEntry(0xdead, 0, native.Entry{}), native.ErrInvalidHandle)
}

func TestDestroyMenuIsRecursive(t *testing.T) {
	b := New()
	bar, _ := b.CreateMenuBar()
	sub, _ := b.CreatePopupMenu()
	inner, _ := b.CreatePopupMenu()
	require.NoError(t, b.InsertEntry(sub, 0, native.Entry{Text: "inner", Submenu: inner}))
	require.NoError(t, b.InsertEntry(bar, 0, native.Entry{Text: "sub", Submenu: sub}))

	w := b.NewWindow(native.Point{})
	require.NoError(t, b.SetWindowMenu(w, bar))
	require.Equal(t, 3, b.MenuCount())

	require.NoError(t, b.DestroyMenu(bar))
	assert.Equal(t, 0, b.MenuCount())
	got, err := b.WindowMenu(w)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestRemoveEntryUnlinksSubmenu(t *testing.T) {
	b := New()
	parent, _ := b.CreatePopupMenu()
	child, _ := b.CreatePopupMenu()
	require.NoError(t, b.InsertEntry(parent, 0, native.Entry{Submenu: child}))
	require.NoError(t, b.RemoveEntry(parent, 0))
	require.NoError(t, b.DestroyMenu(parent))
	assert.True(t, b.IsMenu(child))
}

func TestFailNext(t *testing.T) {
	b := New()
	boom := errors.New("out of handles")
	b.FailNext(OpCreatePopupMenu, boom)

	_, err := b.CreatePopupMenu()
	assert.ErrorIs(t, err, boom)

	_, err = b.CreatePopupMenu()
	assert.NoError(t, err)

	// a nil entry lets one call through
	b.FailNext(OpCreatePopupMenu, nil)
	b.FailNext(OpCreatePopupMenu, boom)
	_, err = b.CreatePopupMenu()
	assert.NoError(t, err)
	_, err = b.CreatePopupMenu()
	assert.ErrorIs(t, err, boom)
}

func TestActivateAndTrack(t *testing.T) {
	b := New()
	w := b.NewWindow(native.Point{X: 100, Y: 50})

	assert.False(t, b.Activate(w, 7))

	var got []uint32
	require.NoError(t, b.Subscribe(w, func(cmd uint32) { got = append(got, cmd) }))
	assert.True(t, b.Activate(w, 7))
	assert.True(t, b.Activate(w, 8))
	assert.Equal(t, []uint32{7, 8}, got)

	require.NoError(t, b.Unsubscribe(w))
	assert.False(t, b.Activate(w, 9))

	p, err := b.ClientToScreen(w, native.Point{X: 5, Y: 5})
	require.NoError(t, err)
	assert.Equal(t, native.Point{X: 105, Y: 55}, p)

	h, _ := b.CreatePopupMenu()
	require.NoError(t, b.InsertEntry(h, 0, native.Entry{Command: 42, Text: "Open"}))
	b.SetChooser(func(_ *Backend, p Popup) uint32 { return p.Entries[0].Command })
	cmd, err := b.TrackPopupMenu(w, h, p)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), cmd)
	require.Len(t, b.Popups(), 1)
	assert.Equal(t, p, b.Popups()[0].At)
}

func TestAcceleratorTables(t *testing.T) {
	b := New()
	tbl, err := b.CreateAcceleratorTable([]native.Accel{{Command: 1}})
	require.NoError(t, err)
	entries, ok := b.AcceleratorTable(tbl)
	require.True(t, ok)
	assert.Len(t, entries, 1)

	require.NoError(t, b.DestroyAcceleratorTable(tbl))
	assert.Equal(t, 0, b.AcceleratorTableCount())
	assert.ErrorIs(t, b.DestroyAcceleratorTable(tbl), native.ErrInvalidHandle)
}

func TestMenuBarTheme(t *testing.T) {
	b := New()
	w := b.NewWindow(native.Point{})
	assert.Equal(t, native.ThemeLight, b.Theme(w))

	require.NoError(t, b.SetMenuBarTheme(w, native.ThemeDark))
	assert.Equal(t, native.ThemeDark, b.Theme(w))

	assert.ErrorIs(t, b.SetMenuBarTheme(w+1, native.ThemeDark), native.ErrInvalidWindow)
}
