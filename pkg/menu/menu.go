package menu

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mchmarny/menusync/pkg/dpi"
	"github.com/mchmarny/menusync/pkg/metric"
	"github.com/mchmarny/menusync/pkg/native"
	"github.com/mchmarny/menusync/pkg/native/platform"
)

// Menu is a root menu. It can be the menu bar of several windows and be
// shown as a context menu; every rendering follows the logical tree.
//
// A Menu and its items belong to the thread that owns its windows.
type Menu struct {
	container

	backend native.Backend
	log     *slog.Logger
	rec     *metric.Recorder
	windows []*attachPoint
}

// Option configures a Menu.
type Option func(*Menu)

// WithBackend sets the native backend. Defaults to the platform backend.
func WithBackend(b native.Backend) Option {
	return func(m *Menu) { m.backend = b }
}

// WithLogger sets the logger used for native failures, dropped commands and
// accelerator conflicts. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Menu) { m.log = l }
}

// WithRecorder enables metrics.
func WithRecorder(r *metric.Recorder) Option {
	return func(m *Menu) { m.rec = r }
}

// New creates an empty root menu.
func New(opts ...Option) *Menu {
	m := &Menu{}
	for _, opt := range opts {
		opt(m)
	}
	if m.backend == nil {
		m.backend = platform.Default()
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	return m
}

// NewWithItems creates a root menu holding items.
func NewWithItems(items []Item, opts ...Option) (*Menu, error) {
	m := New(opts...)
	if err := m.AppendItems(items...); err != nil {
		return nil, err
	}
	return m, nil
}

// Backend returns the native backend the menu renders into.
func (m *Menu) Backend() native.Backend { return m.backend }

func (m *Menu) contextRoot() *container { return &m.container }

func (m *Menu) point(w native.Window) *attachPoint {
	i := slices.IndexFunc(m.windows, func(p *attachPoint) bool { return p.window == w })
	if i < 0 {
		return nil
	}
	return m.windows[i]
}

// Windows returns the windows the menu is attached to.
func (m *Menu) Windows() []native.Window {
	out := make([]native.Window, 0, len(m.windows))
	for _, p := range m.windows {
		out = append(out, p.window)
	}
	return out
}

// InitForWindow makes the menu the menu bar of w and routes w's menu
// commands to HandleCommand. It fails with ErrAlreadyAttached if w already
// has a menu. Entries that fail to materialize are reported, but the menu
// stays attached; Resync retries them.
func (m *Menu) InitForWindow(w native.Window) error {
	return m.InitForWindowWithTheme(w, native.ThemeLight)
}

// InitForWindowWithTheme is InitForWindow with the menu bar drawn in theme.
// The theme only affects the bar, not submenus or context menus. A theme
// the backend rejects is reported, but the menu stays attached.
func (m *Menu) InitForWindowWithTheme(w native.Window, theme native.Theme) error {
	if m.point(w) != nil {
		return fmt.Errorf("%w: %#x", ErrAlreadyAttached, w)
	}
	cur, err := m.backend.WindowMenu(w)
	if err != nil {
		return nativeErr("window menu", err)
	}
	if cur != 0 {
		return fmt.Errorf("%w: %#x", ErrAlreadyAttached, w)
	}

	bar, err := m.backend.CreateMenuBar()
	if err != nil {
		m.rec.NativeError("create menu bar")
		return nativeErr("create menu bar", err)
	}
	p := &attachPoint{
		backend: m.backend,
		window:  w,
		root:    bar,
		menu:    m,
		visible: true,
		log:     m.log,
		rec:     m.rec,
	}
	b := binding{handle: bar, point: p}
	m.bindings = append(m.bindings, b)
	partial := materializeChildren(&m.container, b)

	if err := m.backend.SetWindowMenu(w, bar); err != nil {
		err = p.fail("set window menu", err)
		forgetChildren(&m.container, bar)
		if derr := m.backend.DestroyMenu(bar); derr != nil {
			err = errors.Join(err, p.fail("destroy menu", derr))
		}
		return err
	}
	if err := m.backend.Subscribe(w, func(cmd uint32) { m.HandleCommand(w, cmd) }); err != nil {
		err = p.fail("subscribe", err)
		forgetChildren(&m.container, bar)
		return errors.Join(err, m.backend.SetWindowMenu(w, 0), m.backend.DestroyMenu(bar))
	}
	m.windows = append(m.windows, p)

	var themed error
	if theme != native.ThemeLight {
		themed = p.applyTheme(theme)
	}

	m.log.Debug("menu attached", "window", uint64(w), "items", len(m.children), "theme", theme.String())
	return errors.Join(partial, themed, p.rebuildAccelerators(), p.redraw())
}

// SetThemeForWindow changes how w's menu bar is drawn.
func (m *Menu) SetThemeForWindow(w native.Window, theme native.Theme) error {
	p := m.point(w)
	if p == nil {
		return fmt.Errorf("%w: %#x", ErrNotAttached, w)
	}
	if err := p.applyTheme(theme); err != nil {
		return err
	}
	return p.redraw()
}

// ThemeForWindow returns the menu bar theme of w.
func (m *Menu) ThemeForWindow(w native.Window) (native.Theme, bool) {
	p := m.point(w)
	if p == nil {
		return native.ThemeLight, false
	}
	return p.theme, true
}

// RemoveForWindow detaches the menu from w and releases the native handles
// rooted at w. Submenus shared with other windows keep their other handles.
func (m *Menu) RemoveForWindow(w native.Window) error {
	p := m.point(w)
	if p == nil {
		return fmt.Errorf("%w: %#x", ErrNotAttached, w)
	}
	return m.release(p)
}

func (m *Menu) release(p *attachPoint) error {
	var errs []error
	if err := m.backend.Unsubscribe(p.window); err != nil {
		errs = append(errs, p.fail("unsubscribe", err))
	}
	if cur, err := m.backend.WindowMenu(p.window); err == nil && cur == p.root {
		if err := m.backend.SetWindowMenu(p.window, 0); err != nil {
			errs = append(errs, p.fail("set window menu", err))
		}
	}
	forgetChildren(&m.container, p.root)
	if err := m.backend.DestroyMenu(p.root); err != nil {
		errs = append(errs, p.fail("destroy menu", err))
	}
	errs = append(errs, p.releaseAccelerators())
	m.windows = slices.DeleteFunc(m.windows, func(q *attachPoint) bool { return q == p })

	m.log.Debug("menu detached", "window", uint64(p.window))
	return errors.Join(errs...)
}

// ForgetWindow drops the bookkeeping for w after the window was destroyed,
// which also destroyed its menu bar. Only the accelerator table is released.
func (m *Menu) ForgetWindow(w native.Window) error {
	p := m.point(w)
	if p == nil {
		return fmt.Errorf("%w: %#x", ErrNotAttached, w)
	}
	forgetChildren(&m.container, p.root)
	m.windows = slices.DeleteFunc(m.windows, func(q *attachPoint) bool { return q == p })
	return p.releaseAccelerators()
}

// Resync rebuilds w's native menu from the logical tree, keeping its
// visibility and theme. It is the retry path after a native failure.
func (m *Menu) Resync(w native.Window) error {
	p := m.point(w)
	if p == nil {
		return fmt.Errorf("%w: %#x", ErrNotAttached, w)
	}
	visible, theme := p.visible, p.theme
	errs := []error{m.release(p), m.InitForWindowWithTheme(w, theme)}
	if !visible && m.point(w) != nil {
		errs = append(errs, m.HideForWindow(w))
	}
	return errors.Join(errs...)
}

// HideForWindow removes the menu bar from w without releasing it.
func (m *Menu) HideForWindow(w native.Window) error {
	p := m.point(w)
	if p == nil {
		return fmt.Errorf("%w: %#x", ErrNotAttached, w)
	}
	if !p.visible {
		return nil
	}
	if err := m.backend.SetWindowMenu(w, 0); err != nil {
		return p.fail("set window menu", err)
	}
	p.visible = false
	return nil
}

// ShowForWindow restores a hidden menu bar on w.
func (m *Menu) ShowForWindow(w native.Window) error {
	p := m.point(w)
	if p == nil {
		return fmt.Errorf("%w: %#x", ErrNotAttached, w)
	}
	if p.visible {
		return nil
	}
	if err := m.backend.SetWindowMenu(w, p.root); err != nil {
		return p.fail("set window menu", err)
	}
	p.visible = true
	return p.redraw()
}

// IsVisibleOnWindow reports whether the menu is attached to w and shown.
func (m *Menu) IsVisibleOnWindow(w native.Window) bool {
	p := m.point(w)
	return p != nil && p.visible
}

// AcceleratorTable returns the native accelerator table of w for the host
// message loop to translate keys with. ok is false when the menu is not
// attached to w or has no accelerators.
func (m *Menu) AcceleratorTable(w native.Window) (t native.AccelTable, ok bool) {
	p := m.point(w)
	if p == nil || p.accel == 0 {
		return 0, false
	}
	return p.accel, true
}

// AcceleratorConflicts returns the conflicts found when w's table was last built.
func (m *Menu) AcceleratorConflicts(w native.Window) []*AcceleratorConflict {
	if p := m.point(w); p != nil {
		return slices.Clone(p.conflicts)
	}
	return nil
}

// HandleCommand routes a native command received by w, like the package
// level HandleCommand, using the menu's backend, logger and recorder.
func (m *Menu) HandleCommand(w native.Window, cmd uint32) bool {
	return dispatch(m.backend, w, cmd, m.log, m.rec)
}

// ShowContextMenu shows the menu as a popup on w. See ShowContextMenu.
func (m *Menu) ShowContextMenu(w native.Window, pos *dpi.Position) (bool, error) {
	return showContextMenu(m.backend, &m.container, m, w, pos, m.log, m.rec)
}
