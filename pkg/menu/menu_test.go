package menu

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/menusync/pkg/accelerator"
	"github.com/mchmarny/menusync/pkg/native"
	"github.com/mchmarny/menusync/pkg/native/memory"
)

// setup isolates a test from the process-wide allocator and event queue
// and returns a fresh backend.
func setup(t *testing.T) *memory.Backend {
	t.Helper()
	prev := defaultAllocator
	defaultAllocator = NewAllocator()
	resetEvents()
	t.Cleanup(func() {
		defaultAllocator = prev
		resetEvents()
	})
	return memory.New()
}

func newMenu(t *testing.T, b native.Backend, items ...Item) *Menu {
	t.Helper()
	m, err := NewWithItems(items, WithBackend(b), WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	return m
}

func leaf(text string) *MenuItem {
	return NewMenuItem(text, true, nil)
}

func accel(s string) *accelerator.Accelerator {
	a := accelerator.MustParse(s)
	return &a
}

func texts(seq iter.Seq[Item]) []string {
	var out []string
	for it := range seq {
		out = append(out, it.node().text)
	}
	return out
}

// render prints the native tree under h, one entry per line, children
// indented, so two renderings can be compared regardless of handle values.
func render(b *memory.Backend, h native.Handle) string {
	var sb strings.Builder
	var walk func(native.Handle, string)
	walk = func(h native.Handle, indent string) {
		entries, _ := b.Entries(h)
		for _, e := range entries {
			if e.Separator {
				sb.WriteString(indent + "-\n")
				continue
			}
			fmt.Fprintf(&sb, "%s%s cmd=%d enabled=%t checked=%t radio=%t\n",
				indent, e.Text, e.Command, e.Enabled, e.Checked, e.Radio)
			if e.Submenu != 0 {
				walk(e.Submenu, indent+"  ")
			}
		}
	}
	walk(h, "")
	return sb.String()
}

func windowBar(t *testing.T, b *memory.Backend, w native.Window) native.Handle {
	t.Helper()
	bar, err := b.WindowMenu(w)
	require.NoError(t, err)
	require.NotZero(t, bar)
	return bar
}

func submenuHandle(t *testing.T, b *memory.Backend, parent native.Handle, pos int) native.Handle {
	t.Helper()
	entries, ok := b.Entries(parent)
	require.True(t, ok)
	require.Greater(t, len(entries), pos)
	require.NotZero(t, entries[pos].Submenu)
	return entries[pos].Submenu
}

func TestChildOrderFollowsOperations(t *testing.T) {
	b := setup(t)
	m := newMenu(t, b)
	a, bb, c, d, e := leaf("a"), leaf("b"), leaf("c"), leaf("d"), leaf("e")

	steps := []struct {
		name string
		op   func() error
		want []string
	}{
		{"append", func() error { return m.Append(a) }, []string{"a"}},
		{"append", func() error { return m.Append(bb) }, []string{"a", "b"}},
		{"prepend", func() error { return m.Prepend(c) }, []string{"c", "a", "b"}},
		{"insert", func() error { return m.Insert(d, 1) }, []string{"c", "d", "a", "b"}},
		{"remove", func() error { return m.Remove(a) }, []string{"c", "d", "b"}},
		{"insert past end", func() error { return m.Insert(a, 99) }, []string{"c", "d", "b", "a"}},
		{"insert negative", func() error { return m.Insert(e, -1) }, []string{"c", "d", "b", "a", "e"}},
		{"remove at", func() error { _, err := m.RemoveAt(0); return err }, []string{"d", "b", "a", "e"}},
		{"prepend items", func() error { return m.PrependItems(c) }, []string{"c", "d", "b", "a", "e"}},
	}
	for _, s := range steps {
		require.NoError(t, s.op(), s.name)
		assert.Equal(t, s.want, texts(m.Items()), s.name)
	}
	assert.Equal(t, 5, m.Len())
}

func TestInsertItemsKeepsOrder(t *testing.T) {
	b := setup(t)
	m := newMenu(t, b, leaf("a"), leaf("d"))
	require.NoError(t, m.InsertItems([]Item{leaf("b"), leaf("c")}, 1))
	assert.Equal(t, []string{"a", "b", "c", "d"}, texts(m.Items()))

	sub, err := NewSubmenuWithItems("S", true, leaf("y"))
	require.NoError(t, err)
	require.NoError(t, sub.PrependItems(leaf("w"), leaf("x")))
	assert.Equal(t, []string{"w", "x", "y"}, texts(sub.Items()))
}

func TestRejectedBatchLeavesTreeUnchanged(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})
	a, x := leaf("a"), leaf("x")
	m := newMenu(t, b, a)
	require.NoError(t, m.InitForWindow(w))
	bar := windowBar(t, b, w)

	tests := []struct {
		name  string
		op    func() error
		isErr error
	}{
		{"existing child last", func() error { return m.AppendItems(x, a) }, ErrAlreadyChild},
		{"duplicate in batch", func() error { return m.InsertItems([]Item{x, x}, 0) }, ErrAlreadyChild},
		{"nil in batch", func() error { return m.PrependItems(x, nil) }, ErrInvalidItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.op(), tt.isErr)
			assert.Equal(t, []string{"a"}, texts(m.Items()))
			assert.Equal(t, []string{"a"}, b.Labels(bar))
			assert.Empty(t, x.parents)
		})
	}

	s, err := NewSubmenuWithItems("S", true, x, x)
	require.ErrorIs(t, err, ErrAlreadyChild)
	assert.Nil(t, s)
	assert.Empty(t, x.parents, "a rejected submenu is not recorded as a parent")

	_, err = NewWithItems([]Item{x, a, x}, WithBackend(b))
	require.ErrorIs(t, err, ErrAlreadyChild)
	assert.Empty(t, x.parents)
	assert.Len(t, a.parents, 1)
}

func TestItemsIsASnapshot(t *testing.T) {
	b := setup(t)
	m := newMenu(t, b, leaf("a"), leaf("b"))
	seq := m.Items()
	require.NoError(t, m.Append(leaf("c")))
	assert.Equal(t, []string{"a", "b"}, texts(seq))
	assert.Equal(t, []string{"a", "b"}, texts(seq), "restartable")
}

func TestTreeValidation(t *testing.T) {
	b := setup(t)
	a := leaf("a")
	m := newMenu(t, b, a)

	assert.ErrorIs(t, m.Append(a), ErrAlreadyChild)
	assert.ErrorIs(t, m.Remove(leaf("stranger")), ErrNotFound)
	_, err := m.RemoveAt(3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Append(nil), ErrInvalidItem)
	assert.ErrorIs(t, m.Append(&MenuItem{}), ErrInvalidItem)
	assert.Equal(t, []string{"a"}, texts(m.Items()), "failed calls change nothing")

	outer := NewSubmenu("outer", true)
	inner := NewSubmenu("inner", true)
	require.NoError(t, outer.Append(inner))
	assert.ErrorIs(t, outer.Append(outer), ErrCycle)
	assert.ErrorIs(t, inner.Append(outer), ErrCycle)
	assert.Equal(t, 0, inner.Len())
}

func TestSharedLeafInSeveralMenus(t *testing.T) {
	setup(t)
	shared := leaf("recent.txt")
	one := NewSubmenu("One", true)
	two := NewSubmenu("Two", true)
	require.NoError(t, one.Append(shared))
	require.NoError(t, two.Append(shared))

	require.NoError(t, one.Remove(shared))
	assert.Equal(t, 0, one.Len())
	assert.Equal(t, []string{"recent.txt"}, texts(two.Items()))
}

func TestItemAccessors(t *testing.T) {
	setup(t)
	it := NewMenuItem("Save", false, accel("Ctrl+S"))
	assert.Equal(t, KindNormal, it.Kind())
	assert.Equal(t, "Save", it.Text())
	assert.False(t, it.IsEnabled())
	assert.Equal(t, "Ctrl+S", it.Accelerator().String())

	got := it.Accelerator()
	got.Key = accelerator.KeyQ
	assert.Equal(t, "Ctrl+S", it.Accelerator().String(), "accelerator is copied")

	check := NewCheckMenuItem("Wrap", true, true, nil)
	assert.Equal(t, KindCheck, check.Kind())
	assert.True(t, check.IsChecked())

	radio := NewRadioMenuItem("Small", "size", true, false, nil)
	assert.Equal(t, "size", radio.Group())

	sep := NewSeparator()
	assert.Equal(t, KindSeparator, sep.Kind())
	assert.Zero(t, sep.ID())

	sub := NewSubmenu("File", true)
	assert.Equal(t, KindSubmenu, sub.Kind())
	assert.NotZero(t, sub.ID())

	_, err := NewMenuItemWithID(it.ID(), "dup", true, nil)
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, err = NewSubmenuWithID(sub.ID(), "dup", true)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestKindText(t *testing.T) {
	for k := KindNormal; k <= KindSeparator; k++ {
		b, err := k.MarshalText()
		require.NoError(t, err)
		var got Kind
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, k, got)
	}
	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("bogus")))
	assert.Equal(t, "kind(99)", Kind(99).String())
}
