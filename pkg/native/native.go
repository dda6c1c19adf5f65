// Package native defines the contract between the menu model and a platform
// menu API. The shape follows Win32: menus are opaque handles holding ordered
// entries, a window owns at most one menu bar, accelerator tables are
// immutable once created, and popup menus are tracked modally.
//
// Backends are not safe for concurrent use unless stated otherwise; calls are
// expected on the thread that owns the window.
package native

import (
	"errors"

	"github.com/mchmarny/menusync/pkg/about"
	"github.com/mchmarny/menusync/pkg/accelerator"
	"github.com/mchmarny/menusync/pkg/icon"
)

var (
	// ErrInvalidHandle is returned for unknown or destroyed menu handles.
	ErrInvalidHandle = errors.New("invalid menu handle")

	// ErrInvalidWindow is returned for unknown or destroyed windows.
	ErrInvalidWindow = errors.New("invalid window")

	// ErrInvalidPosition is returned when an entry position is out of range.
	ErrInvalidPosition = errors.New("invalid entry position")
)

// Handle is an opaque native menu handle (HMENU). Zero is never a valid handle.
type Handle uintptr

// Window is an opaque native window handle (HWND).
type Window uintptr

// AccelTable is an opaque native accelerator table handle (HACCEL).
type AccelTable uintptr

// Point is a screen or client coordinate in device pixels.
type Point struct {
	X int32
	Y int32
}

// Entry is the state of one native menu entry.
type Entry struct {
	// Command is reported back when the entry is activated. Zero for separators.
	Command uint32

	// Text is the label. Accelerators are shown after a tab character.
	Text string

	Enabled   bool
	Checked   bool
	Radio     bool // draw the check mark as a radio bullet
	Separator bool

	// Icon is drawn in the check-mark column when set.
	Icon *icon.Icon

	// Submenu links a popup menu under this entry when non-zero.
	Submenu Handle
}

// Accel binds a key combination to a command in an accelerator table.
type Accel struct {
	Accelerator accelerator.Accelerator
	Command     uint32
}

// Backend is a platform menu API.
type Backend interface {
	// CreateMenuBar creates an empty menu suitable for a window menu bar.
	CreateMenuBar() (Handle, error)

	// CreatePopupMenu creates an empty popup menu, used for submenus and context menus.
	CreatePopupMenu() (Handle, error)

	// DestroyMenu destroys the menu and every popup menu linked into it.
	DestroyMenu(menu Handle) error

	// InsertEntry inserts e before position pos; pos equal to the entry count appends.
	InsertEntry(menu Handle, pos int, e Entry) error

	// ModifyEntry replaces the entry at pos.
	ModifyEntry(menu Handle, pos int, e Entry) error

	// RemoveEntry removes the entry at pos. A linked popup menu is unlinked, not destroyed.
	RemoveEntry(menu Handle, pos int) error

	// SetWindowMenu sets the menu bar of w. Zero removes the current bar.
	SetWindowMenu(w Window, menu Handle) error

	// WindowMenu returns the current menu bar of w, zero when there is none.
	WindowMenu(w Window) (Handle, error)

	// SetMenuBarTheme sets how w's menu bar is drawn. It takes effect on the
	// next DrawMenuBar.
	SetMenuBarTheme(w Window, t Theme) error

	// DrawMenuBar repaints the menu bar of w after its top-level entries changed.
	DrawMenuBar(w Window) error

	// CreateAcceleratorTable compiles the entries into a native table.
	CreateAcceleratorTable(entries []Accel) (AccelTable, error)

	// DestroyAcceleratorTable releases a table created by CreateAcceleratorTable.
	DestroyAcceleratorTable(t AccelTable) error

	// TrackPopupMenu shows menu at a screen position and blocks until it is
	// dismissed. It returns the command of the selected entry, or zero.
	TrackPopupMenu(w Window, menu Handle, at Point) (uint32, error)

	// CursorPosition returns the cursor position in screen coordinates.
	CursorPosition() (Point, error)

	// ClientToScreen converts a point relative to w's top-left corner.
	ClientToScreen(w Window, p Point) (Point, error)

	// ScaleFactor returns w's DPI scale, 1.0 at 96 DPI.
	ScaleFactor(w Window) (float64, error)

	// Subscribe routes menu commands and translated accelerators received by w to fn.
	// fn runs on the thread that dispatches w's messages.
	Subscribe(w Window, fn func(cmd uint32)) error

	// Unsubscribe stops routing commands for w.
	Unsubscribe(w Window) error

	// Perform runs a built-in action against w. md is only used by ActionAbout.
	Perform(w Window, action Action, md *about.Metadata) error
}
