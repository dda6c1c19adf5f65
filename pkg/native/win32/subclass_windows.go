//go:build windows

package win32

import (
	"sync"

	"golang.org/x/sys/windows"

	"github.com/mchmarny/menusync/pkg/native"
)

const (
	subclassID  = 0x6d656e75 // "menu"
	wmNCDestroy = 0x0082
	sourceMenu  = 0
	sourceAccel = 1
)

// subclassState is what the subclass procedure knows about one window.
type subclassState struct {
	fn    func(cmd uint32)
	theme native.Theme
	dark  bool // theme resolved against the app mode setting
}

var (
	statesMu sync.Mutex
	states   = make(map[native.Window]*subclassState)

	// one callback for every window: NewCallback slots are never freed
	subclassProc uintptr
)

// assigned in init because subclass refers back to subclassProc
func init() {
	subclassProc = windows.NewCallback(subclass)
}

func lookup(w native.Window) (fn func(cmd uint32), dark bool, theme native.Theme) {
	statesMu.Lock()
	defer statesMu.Unlock()
	if st, ok := states[w]; ok {
		return st.fn, st.dark, st.theme
	}
	return nil, false, native.ThemeLight
}

func subclass(hwnd, msg, wparam, lparam, _, _ uintptr) uintptr {
	w := native.Window(hwnd)
	fn, dark, theme := lookup(w)
	switch uint32(msg) {
	case wmCommand:
		source := (wparam >> 16) & 0xFFFF
		if fn != nil && lparam == 0 && (source == sourceMenu || source == sourceAccel) {
			fn(uint32(wparam & 0xFFFF))
			return 0
		}
	case wmUAHDrawMenu:
		if dark {
			drawMenuBarBackground(hwnd, lparam)
			return 0
		}
	case wmUAHDrawMenuItem:
		if dark {
			drawMenuBarItem(lparam)
			return 0
		}
	case wmNCPaint, wmNCActivate:
		if dark {
			r, _, _ := procDefSubclassProc.Call(hwnd, msg, wparam, lparam)
			coverMenuBarLine(hwnd)
			return r
		}
	case wmSettingChange:
		if theme == native.ThemeAuto {
			statesMu.Lock()
			if st, ok := states[w]; ok {
				st.dark = resolveDark(theme)
			}
			statesMu.Unlock()
			_, _, _ = procDrawMenuBar.Call(hwnd)
		}
	case wmNCDestroy:
		statesMu.Lock()
		delete(states, w)
		statesMu.Unlock()
		_, _, _ = procRemoveWindowSubclass.Call(hwnd, subclassProc, subclassID)
	}
	r, _, _ := procDefSubclassProc.Call(hwnd, msg, wparam, lparam)
	return r
}

// update applies fn to w's state, installing the subclass on first use.
func update(w native.Window, fn func(st *subclassState)) error {
	statesMu.Lock()
	st, installed := states[w]
	if !installed {
		st = &subclassState{}
		states[w] = st
	}
	fn(st)
	statesMu.Unlock()
	if installed {
		return nil
	}
	if _, err := call(procSetWindowSubclass, uintptr(w), subclassProc, subclassID, 0); err != nil {
		statesMu.Lock()
		delete(states, w)
		statesMu.Unlock()
		return err
	}
	return nil
}

func subscribe(w native.Window, fn func(cmd uint32)) error {
	return update(w, func(st *subclassState) { st.fn = fn })
}

func setTheme(w native.Window, theme native.Theme) error {
	dark := resolveDark(theme)
	return update(w, func(st *subclassState) {
		st.theme = theme
		st.dark = dark
	})
}

// unsubscribe drops the command route and the theme of w.
func unsubscribe(w native.Window) error {
	statesMu.Lock()
	_, installed := states[w]
	delete(states, w)
	statesMu.Unlock()
	if !installed {
		return nil
	}
	_, err := call(procRemoveWindowSubclass, uintptr(w), subclassProc, subclassID)
	return err
}
