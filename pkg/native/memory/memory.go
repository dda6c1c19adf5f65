// Package memory is an in-process implementation of native.Backend.
//
// It keeps menus, windows and accelerator tables in maps and follows the
// Win32 semantics the menu model relies on: recursive DestroyMenu, positional
// entries, one menu bar per window. It is used by headless hosts and tests,
// and supports failure injection and simulated activations. All methods are
// safe for concurrent use.
package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mchmarny/menusync/pkg/about"
	"github.com/mchmarny/menusync/pkg/native"
)

// Operation names accepted by FailNext.
const (
	OpCreateMenuBar          = "CreateMenuBar"
	OpCreatePopupMenu        = "CreatePopupMenu"
	OpDestroyMenu            = "DestroyMenu"
	OpInsertEntry            = "InsertEntry"
	OpModifyEntry            = "ModifyEntry"
	OpRemoveEntry            = "RemoveEntry"
	OpSetWindowMenu          = "SetWindowMenu"
	OpSetMenuBarTheme        = "SetMenuBarTheme"
	OpDrawMenuBar            = "DrawMenuBar"
	OpCreateAcceleratorTable = "CreateAcceleratorTable"
	OpTrackPopupMenu         = "TrackPopupMenu"
	OpPerform                = "Perform"
)

// Performed records one call to Perform.
type Performed struct {
	Window native.Window
	Action native.Action
	About  *about.Metadata
}

// Popup records one call to TrackPopupMenu.
type Popup struct {
	Window  native.Window
	Menu    native.Handle
	At      native.Point
	Entries []native.Entry
}

// Chooser picks the command returned by TrackPopupMenu. Zero means dismissed.
type Chooser func(b *Backend, p Popup) uint32

type menuState struct {
	bar     bool
	entries []native.Entry
}

type windowState struct {
	menu    native.Handle
	origin  native.Point
	scale   float64
	handler func(cmd uint32)
	theme   native.Theme
	redraws int
}

// Backend is the in-memory native backend.
type Backend struct {
	mu         sync.Mutex
	nextHandle uintptr
	menus      map[native.Handle]*menuState
	windows    map[native.Window]*windowState
	accels     map[native.AccelTable][]native.Accel
	failures   map[string][]error
	cursor     native.Point
	chooser    Chooser
	performed  []Performed
	popups     []Popup
}

var _ native.Backend = (*Backend)(nil)

// New returns an empty backend.
func New() *Backend {
	return &Backend{
		nextHandle: 0x100,
		menus:      make(map[native.Handle]*menuState),
		windows:    make(map[native.Window]*windowState),
		accels:     make(map[native.AccelTable][]native.Accel),
		failures:   make(map[string][]error),
	}
}

func (b *Backend) alloc() uintptr {
	b.nextHandle++
	return b.nextHandle
}

// fail pops an injected failure for op. Callers hold b.mu.
func (b *Backend) fail(op string) error {
	queue := b.failures[op]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	b.failures[op] = queue[1:]
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// FailNext makes the next call of op return err. Calls queue up; a nil err
// lets its call through, so a later call can be targeted.
func (b *Backend) FailNext(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[op] = append(b.failures[op], err)
}

// NewWindow creates a window with its client area at origin and a scale factor of 1.
func (b *Backend) NewWindow(origin native.Point) native.Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := native.Window(b.alloc())
	b.windows[w] = &windowState{origin: origin, scale: 1}
	return w
}

// DestroyWindow destroys w and, as Win32 does, the menu bar attached to it.
func (b *Backend) DestroyWindow(w native.Window) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ws, ok := b.windows[w]
	if !ok {
		return native.ErrInvalidWindow
	}
	if ws.menu != 0 {
		b.destroy(ws.menu)
	}
	delete(b.windows, w)
	return nil
}

// SetScaleFactor changes the DPI scale reported for w.
func (b *Backend) SetScaleFactor(w native.Window, scale float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ws, ok := b.windows[w]; ok {
		ws.scale = scale
	}
}

// SetCursor sets the position returned by CursorPosition.
func (b *Backend) SetCursor(p native.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = p
}

// SetChooser installs the function that decides popup selections.
func (b *Backend) SetChooser(fn Chooser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chooser = fn
}

// Activate simulates the user choosing cmd in w's menu bar or pressing its
// accelerator. It reports whether a subscriber received the command.
func (b *Backend) Activate(w native.Window, cmd uint32) bool {
	b.mu.Lock()
	ws, ok := b.windows[w]
	var fn func(uint32)
	if ok {
		fn = ws.handler
	}
	b.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(cmd)
	return true
}

func (b *Backend) CreateMenuBar() (native.Handle, error) {
	return b.create(OpCreateMenuBar, true)
}

func (b *Backend) CreatePopupMenu() (native.Handle, error) {
	return b.create(OpCreatePopupMenu, false)
}

func (b *Backend) create(op string, bar bool) (native.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(op); err != nil {
		return 0, err
	}
	h := native.Handle(b.alloc())
	b.menus[h] = &menuState{bar: bar}
	return h, nil
}

func (b *Backend) DestroyMenu(menu native.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(OpDestroyMenu); err != nil {
		return err
	}
	if _, ok := b.menus[menu]; !ok {
		return fmt.Errorf("%w: %#x", native.ErrInvalidHandle, menu)
	}
	b.destroy(menu)
	return nil
}

func (b *Backend) destroy(menu native.Handle) {
	st, ok := b.menus[menu]
	if !ok {
		return
	}
	delete(b.menus, menu)
	for _, e := range st.entries {
		if e.Submenu != 0 {
			b.destroy(e.Submenu)
		}
	}
	for _, ws := range b.windows {
		if ws.menu == menu {
			ws.menu = 0
		}
	}
}

func (b *Backend) menu(h native.Handle) (*menuState, error) {
	st, ok := b.menus[h]
	if !ok {
		return nil, fmt.Errorf("%w: %#x", native.ErrInvalidHandle, h)
	}
	return st, nil
}

func (b *Backend) InsertEntry(menu native.Handle, pos int, e native.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(OpInsertEntry); err != nil {
		return err
	}
	st, err := b.menu(menu)
	if err != nil {
		return err
	}
	if pos < 0 || pos > len(st.entries) {
		return fmt.Errorf("%w: %d of %d", native.ErrInvalidPosition, pos, len(st.entries))
	}
	if e.Submenu != 0 {
		if _, err := b.menu(e.Submenu); err != nil {
			return err
		}
	}
	st.entries = slices.Insert(st.entries, pos, e)
	return nil
}

func (b *Backend) ModifyEntry(menu native.Handle, pos int, e native.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(OpModifyEntry); err != nil {
		return err
	}
	st, err := b.menu(menu)
	if err != nil {
		return err
	}
	if pos < 0 || pos >= len(st.entries) {
		return fmt.Errorf("%w: %d of %d", native.ErrInvalidPosition, pos, len(st.entries))
	}
	st.entries[pos] = e
	return nil
}

func (b *Backend) RemoveEntry(menu native.Handle, pos int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(OpRemoveEntry); err != nil {
		return err
	}
	st, err := b.menu(menu)
	if err != nil {
		return err
	}
	if pos < 0 || pos >= len(st.entries) {
		return fmt.Errorf("%w: %d of %d", native.ErrInvalidPosition, pos, len(st.entries))
	}
	st.entries = slices.Delete(st.entries, pos, pos+1)
	return nil
}

func (b *Backend) window(w native.Window) (*windowState, error) {
	ws, ok := b.windows[w]
	if !ok {
		return nil, fmt.Errorf("%w: %#x", native.ErrInvalidWindow, w)
	}
	return ws, nil
}

func (b *Backend) SetWindowMenu(w native.Window, menu native.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(OpSetWindowMenu); err != nil {
		return err
	}
	ws, err := b.window(w)
	if err != nil {
		return err
	}
	if menu != 0 {
		if _, err := b.menu(menu); err != nil {
			return err
		}
	}
	ws.menu = menu
	return nil
}

func (b *Backend) WindowMenu(w native.Window) (native.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ws, err := b.window(w)
	if err != nil {
		return 0, err
	}
	return ws.menu, nil
}

func (b *Backend) SetMenuBarTheme(w native.Window, t native.Theme) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(OpSetMenuBarTheme); err != nil {
		return err
	}
	ws, err := b.window(w)
	if err != nil {
		return err
	}
	ws.theme = t
	return nil
}

func (b *Backend) DrawMenuBar(w native.Window) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(OpDrawMenuBar); err != nil {
		return err
	}
	ws, err := b.window(w)
	if err != nil {
		return err
	}
	ws.redraws++
	return nil
}

func (b *Backend) CreateAcceleratorTable(entries []native.Accel) (native.AccelTable, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(OpCreateAcceleratorTable); err != nil {
		return 0, err
	}
	t := native.AccelTable(b.alloc())
	b.accels[t] = slices.Clone(entries)
	return t, nil
}

func (b *Backend) DestroyAcceleratorTable(t native.AccelTable) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.accels[t]; !ok {
		return fmt.Errorf("%w: accelerator table %#x", native.ErrInvalidHandle, t)
	}
	delete(b.accels, t)
	return nil
}

func (b *Backend) TrackPopupMenu(w native.Window, menu native.Handle, at native.Point) (uint32, error) {
	b.mu.Lock()
	if err := b.fail(OpTrackPopupMenu); err != nil {
		b.mu.Unlock()
		return 0, err
	}
	if _, err := b.window(w); err != nil {
		b.mu.Unlock()
		return 0, err
	}
	st, err := b.menu(menu)
	if err != nil {
		b.mu.Unlock()
		return 0, err
	}
	p := Popup{Window: w, Menu: menu, At: at, Entries: slices.Clone(st.entries)}
	b.popups = append(b.popups, p)
	chooser := b.chooser
	b.mu.Unlock()

	// the chooser may inspect the backend, so it runs unlocked
	if chooser == nil {
		return 0, nil
	}
	return chooser(b, p), nil
}

func (b *Backend) CursorPosition() (native.Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor, nil
}

func (b *Backend) ClientToScreen(w native.Window, p native.Point) (native.Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ws, err := b.window(w)
	if err != nil {
		return native.Point{}, err
	}
	return native.Point{X: ws.origin.X + p.X, Y: ws.origin.Y + p.Y}, nil
}

func (b *Backend) ScaleFactor(w native.Window) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ws, err := b.window(w)
	if err != nil {
		return 0, err
	}
	return ws.scale, nil
}

func (b *Backend) Subscribe(w native.Window, fn func(cmd uint32)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ws, err := b.window(w)
	if err != nil {
		return err
	}
	ws.handler = fn
	return nil
}

func (b *Backend) Unsubscribe(w native.Window) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ws, err := b.window(w)
	if err != nil {
		return err
	}
	ws.handler = nil
	return nil
}

func (b *Backend) Perform(w native.Window, action native.Action, md *about.Metadata) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail(OpPerform); err != nil {
		return err
	}
	b.performed = append(b.performed, Performed{Window: w, Action: action, About: md})
	return nil
}

// Entries returns a copy of the entries of menu.
func (b *Backend) Entries(menu native.Handle) ([]native.Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.menus[menu]
	if !ok {
		return nil, false
	}
	return slices.Clone(st.entries), true
}

// Labels returns the entry texts of menu, "-" for separators.
func (b *Backend) Labels(menu native.Handle) []string {
	entries, _ := b.Entries(menu)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Separator {
			out = append(out, "-")
			continue
		}
		out = append(out, e.Text)
	}
	return out
}

// IsMenu reports whether menu is a live handle.
func (b *Backend) IsMenu(menu native.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.menus[menu]
	return ok
}

// MenuCount returns the number of live menu handles.
func (b *Backend) MenuCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.menus)
}

// AcceleratorTable returns the entries of a live table.
func (b *Backend) AcceleratorTable(t native.AccelTable) ([]native.Accel, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, ok := b.accels[t]
	return slices.Clone(entries), ok
}

// AcceleratorTableCount returns the number of live accelerator tables.
func (b *Backend) AcceleratorTableCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.accels)
}

// Theme returns the menu bar theme last set for w.
func (b *Backend) Theme(w native.Window) native.Theme {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ws, ok := b.windows[w]; ok {
		return ws.theme
	}
	return native.ThemeLight
}

// Redraws returns how often DrawMenuBar was called for w.
func (b *Backend) Redraws(w native.Window) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ws, ok := b.windows[w]; ok {
		return ws.redraws
	}
	return 0
}

// PerformedActions returns the recorded Perform calls in order.
func (b *Backend) PerformedActions() []Performed {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.performed)
}

// Popups returns the recorded TrackPopupMenu calls in order.
func (b *Backend) Popups() []Popup {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.popups)
}
