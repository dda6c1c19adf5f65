package menu

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/menusync/pkg/about"
	"github.com/mchmarny/menusync/pkg/metric"
	"github.com/mchmarny/menusync/pkg/native"
	"github.com/mchmarny/menusync/pkg/native/memory"
)

func drain(q *EventQueue) []Event {
	var out []Event
	for {
		ev, ok := q.TryRecv()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func counter(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestFileMenuActivation(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})

	open, err := NewMenuItemWithID(42, "Open", true, accel("Ctrl+O"))
	require.NoError(t, err)
	quit := NewPredefined(native.ActionQuit)
	file, err := NewSubmenuWithItems("File", true, open, NewSeparator(), quit)
	require.NoError(t, err)
	m := newMenu(t, b, file)
	require.NoError(t, m.InitForWindow(w))

	entries, _ := b.Entries(submenuHandle(t, b, windowBar(t, b, w), 0))
	require.Len(t, entries, 3)
	quitCmd := entries[2].Command
	assert.True(t, ID(quitCmd).IsReserved())

	require.True(t, b.Activate(w, 42))
	assert.Equal(t, []Event{{ID: 42}}, drain(Events()))

	require.True(t, b.Activate(w, quitCmd))
	assert.Empty(t, drain(Events()), "bare predefined items publish nothing")
	assert.Equal(t, []memory.Performed{{Window: w, Action: native.ActionQuit}}, b.PerformedActions())
}

func TestEventsKeepActivationOrder(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})
	x, y := leaf("x"), leaf("y")
	m := newMenu(t, b, x, y)
	require.NoError(t, m.InitForWindow(w))

	b.Activate(w, uint32(x.ID()))
	b.Activate(w, uint32(y.ID()))
	assert.Equal(t, 2, Events().Len())
	assert.Equal(t, []Event{{ID: x.ID()}, {ID: y.ID()}}, drain(Events()))
}

func TestCheckItemToggles(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})
	wrap := NewCheckMenuItem("Wrap", true, false, nil)
	m := newMenu(t, b, wrap)
	require.NoError(t, m.InitForWindow(w))

	b.Activate(w, uint32(wrap.ID()))
	assert.True(t, wrap.IsChecked())
	entries, _ := b.Entries(windowBar(t, b, w))
	assert.True(t, entries[0].Checked)

	b.Activate(w, uint32(wrap.ID()))
	assert.False(t, wrap.IsChecked())
	assert.Len(t, drain(Events()), 2)
}

func TestRadioActivation(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})
	small := NewRadioMenuItem("Small", "size", true, true, nil)
	large := NewRadioMenuItem("Large", "size", true, false, nil)
	m := newMenu(t, b, small, large)
	require.NoError(t, m.InitForWindow(w))

	b.Activate(w, uint32(large.ID()))
	assert.False(t, small.IsChecked())
	assert.True(t, large.IsChecked())

	// activating the checked item keeps it checked
	b.Activate(w, uint32(large.ID()))
	assert.True(t, large.IsChecked())
	assert.Equal(t, []Event{{ID: large.ID()}, {ID: large.ID()}}, drain(Events()))
}

func TestExplicitPredefinedPublishes(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})
	quit, err := NewPredefinedWithID(900, native.ActionQuit, "")
	require.NoError(t, err)
	assert.Equal(t, "&Exit", quit.Text())
	m := newMenu(t, b, quit)
	require.NoError(t, m.InitForWindow(w))

	b.Activate(w, 900)
	assert.Equal(t, []Event{{ID: 900}}, drain(Events()))
	assert.Empty(t, b.PerformedActions(), "the host runs the action")
}

func TestAboutCarriesMetadata(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})
	md := &about.Metadata{Name: "Notes", Version: "1.2.0"}
	item := NewAbout("", md)
	assert.Equal(t, "&About Notes", item.Text())
	m := newMenu(t, b, item)
	require.NoError(t, m.InitForWindow(w))

	entries, _ := b.Entries(windowBar(t, b, w))
	b.Activate(w, entries[0].Command)
	got := b.PerformedActions()
	require.Len(t, got, 1)
	assert.Equal(t, native.ActionAbout, got[0].Action)
	assert.Same(t, md, got[0].About)
}

func TestAboutWithIDPublishes(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})
	md := &about.Metadata{Name: "Notes"}
	item, err := NewAboutWithID(901, "", md)
	require.NoError(t, err)
	assert.Equal(t, "&About Notes", item.Text())
	assert.Same(t, md, item.AboutMetadata())
	m := newMenu(t, b, item)
	require.NoError(t, m.InitForWindow(w))

	require.True(t, b.Activate(w, 901))
	assert.Empty(t, b.PerformedActions())
	assert.Equal(t, []Event{{ID: 901}}, drain(Events()))

	_, err = NewAboutWithID(901, "", md)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, ID(901), item.ID())
}

func TestDroppedCommands(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})
	reg := prometheus.NewRegistry()
	disabled := NewMenuItem("Disabled", false, nil)
	sub := NewSubmenu("Sub", true)
	m, err := NewWithItems([]Item{disabled, sub},
		WithBackend(b),
		WithLogger(slog.New(slog.DiscardHandler)),
		WithRecorder(metric.NewRecorder(reg)),
	)
	require.NoError(t, err)
	require.NoError(t, m.InitForWindow(w))

	assert.False(t, m.HandleCommand(w, 31337))
	assert.False(t, m.HandleCommand(w, uint32(disabled.ID())))
	assert.False(t, m.HandleCommand(w, uint32(sub.ID())))
	assert.Zero(t, Events().Len())

	assert.Equal(t, 1.0, counter(t, reg, metric.CommandsDroppedTotal, "reason", "unknown"))
	assert.Equal(t, 1.0, counter(t, reg, metric.CommandsDroppedTotal, "reason", "disabled"))
	assert.Equal(t, 1.0, counter(t, reg, metric.CommandsDroppedTotal, "reason", "inactive"))

	require.NoError(t, disabled.SetEnabled(true))
	assert.True(t, m.HandleCommand(w, uint32(disabled.ID())))
	assert.Equal(t, 1.0, counter(t, reg, metric.EventsTotal, "kind", "normal"))
}

func TestPackageHandleCommand(t *testing.T) {
	b := setup(t)
	it := leaf("free standing")
	assert.True(t, HandleCommand(b, 0, uint32(it.ID())))
	ev, ok := Events().TryRecv()
	require.True(t, ok)
	assert.Equal(t, it.ID(), ev.ID)
}

func TestEventHandlerPush(t *testing.T) {
	b := setup(t)
	w := b.NewWindow(native.Point{})
	before, after := leaf("before"), leaf("after")
	m := newMenu(t, b, before, after)
	require.NoError(t, m.InitForWindow(w))

	b.Activate(w, uint32(before.ID()))

	var (
		mu  sync.Mutex
		got []Event
	)
	prev := Events().SetEventHandler(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
	})
	assert.Nil(t, prev)

	b.Activate(w, uint32(after.ID()))
	mu.Lock()
	assert.Equal(t, []Event{{ID: after.ID()}}, got)
	mu.Unlock()
	assert.Equal(t, 1, Events().Len(), "buffered events stay queued")

	assert.NotNil(t, Events().SetEventHandler(nil))
	b.Activate(w, uint32(after.ID()))
	assert.Equal(t, []Event{{ID: before.ID()}, {ID: after.ID()}}, drain(Events()))
}

func TestRecv(t *testing.T) {
	b := setup(t)
	it := leaf("async")
	q := Events()

	done := make(chan Event, 1)
	go func() {
		ev, err := q.Recv(context.Background())
		if err == nil {
			done <- ev
		}
	}()

	// the receiver may start before or after the publish
	time.Sleep(10 * time.Millisecond)
	HandleCommand(b, 0, uint32(it.ID()))

	select {
	case ev := <-done:
		assert.Equal(t, it.ID(), ev.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("Recv did not return")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := q.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
