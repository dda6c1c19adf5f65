//go:build windows

package win32

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/mchmarny/menusync/pkg/about"
	"github.com/mchmarny/menusync/pkg/native"
)

var (
	procGetMenuItemCount = user32.NewProc("GetMenuItemCount")
	procGetSubMenu       = user32.NewProc("GetSubMenu")
	procGetMenuItemID    = user32.NewProc("GetMenuItemID")
)

type bitmapKey struct {
	menu native.Handle
	cmd  uint32
}

type placement struct {
	style uintptr
	rect  rect
}

// Backend is the Win32 menu backend. Calls must be made on the thread that
// owns the windows involved.
type Backend struct {
	mu         sync.Mutex
	bitmaps    map[bitmapKey]uintptr
	fullscreen map[native.Window]placement
}

var _ native.Backend = (*Backend)(nil)

// New returns a Win32 backend.
func New() *Backend {
	return &Backend{
		bitmaps:    make(map[bitmapKey]uintptr),
		fullscreen: make(map[native.Window]placement),
	}
}

func (b *Backend) CreateMenuBar() (native.Handle, error) {
	h, err := call(procCreateMenu)
	return native.Handle(h), err
}

func (b *Backend) CreatePopupMenu() (native.Handle, error) {
	h, err := call(procCreatePopupMenu)
	return native.Handle(h), err
}

func (b *Backend) DestroyMenu(menu native.Handle) error {
	handles := b.collect(menu, nil)
	if _, err := call(procDestroyMenu, uintptr(menu)); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, bmp := range b.bitmaps {
		for _, h := range handles {
			if k.menu == h {
				deleteObject(bmp)
				delete(b.bitmaps, k)
			}
		}
	}
	return nil
}

// collect returns menu and every popup linked below it.
func (b *Backend) collect(menu native.Handle, acc []native.Handle) []native.Handle {
	acc = append(acc, menu)
	n, _, _ := procGetMenuItemCount.Call(uintptr(menu))
	count := int32(n)
	for i := int32(0); i < count; i++ {
		sub, _, _ := procGetSubMenu.Call(uintptr(menu), uintptr(i))
		if sub != 0 {
			acc = b.collect(native.Handle(sub), acc)
		}
	}
	return acc
}

func (b *Backend) InsertEntry(menu native.Handle, pos int, e native.Entry) error {
	mii, err := b.itemInfo(menu, e)
	if err != nil {
		return err
	}
	_, err = call(procInsertMenuItemW, uintptr(menu), uintptr(pos), 1, uintptr(unsafe.Pointer(mii)))
	return err
}

func (b *Backend) ModifyEntry(menu native.Handle, pos int, e native.Entry) error {
	mii, err := b.itemInfo(menu, e)
	if err != nil {
		return err
	}
	_, err = call(procSetMenuItemInfoW, uintptr(menu), uintptr(pos), 1, uintptr(unsafe.Pointer(mii)))
	return err
}

func (b *Backend) RemoveEntry(menu native.Handle, pos int) error {
	id, _, _ := procGetMenuItemID.Call(uintptr(menu), uintptr(pos))
	if _, err := call(procRemoveMenu, uintptr(menu), uintptr(pos), mfByPosition); err != nil {
		return err
	}
	b.dropBitmap(bitmapKey{menu: menu, cmd: uint32(id)})
	return nil
}

// itemInfo builds the MENUITEMINFOW for e. An icon entry replaces the
// bitmap previously created for the same command in menu.
func (b *Backend) itemInfo(menu native.Handle, e native.Entry) (*menuItemInfo, error) {
	mii := &menuItemInfo{}
	mii.size = uint32(unsafe.Sizeof(*mii))
	if e.Separator {
		mii.mask = miimFType
		mii.ftype = mftSeparator
		return mii, nil
	}

	text, err := windows.UTF16PtrFromString(e.Text)
	if err != nil {
		return nil, fmt.Errorf("menu text %q: %w", e.Text, err)
	}
	mii.mask = miimFType | miimState | miimID | miimString | miimSub | miimBitmap
	mii.ftype = mftString
	if e.Radio {
		mii.ftype |= mftRadioCheck
	}
	if !e.Enabled {
		mii.state |= mfsDisabled
	}
	if e.Checked {
		mii.state |= mfsChecked
	}
	mii.id = e.Command
	mii.subMenu = uintptr(e.Submenu)
	mii.typeData = text

	key := bitmapKey{menu: menu, cmd: e.Command}
	b.dropBitmap(key)
	if e.Icon != nil {
		bmp, err := createBitmap(e.Icon)
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		b.bitmaps[key] = bmp
		b.mu.Unlock()
		mii.bitmap = bmp
	}
	return mii, nil
}

func (b *Backend) dropBitmap(key bitmapKey) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bmp, ok := b.bitmaps[key]; ok {
		deleteObject(bmp)
		delete(b.bitmaps, key)
	}
}

func (b *Backend) SetWindowMenu(w native.Window, menu native.Handle) error {
	_, err := call(procSetMenu, uintptr(w), uintptr(menu))
	return err
}

func (b *Backend) WindowMenu(w native.Window) (native.Handle, error) {
	h, _, _ := procGetMenu.Call(uintptr(w))
	return native.Handle(h), nil
}

func (b *Backend) DrawMenuBar(w native.Window) error {
	_, err := call(procDrawMenuBar, uintptr(w))
	return err
}

func (b *Backend) CreateAcceleratorTable(entries []native.Accel) (native.AccelTable, error) {
	accels, err := toAccels(entries)
	if err != nil {
		return 0, err
	}
	if len(accels) == 0 {
		return 0, fmt.Errorf("%s: empty table", procCreateAcceleratorTableW.Name)
	}
	h, err := call(procCreateAcceleratorTableW, uintptr(unsafe.Pointer(&accels[0])), uintptr(len(accels)))
	return native.AccelTable(h), err
}

func (b *Backend) DestroyAcceleratorTable(t native.AccelTable) error {
	_, err := call(procDestroyAcceleratorTable, uintptr(t))
	return err
}

func (b *Backend) TrackPopupMenu(w native.Window, menu native.Handle, at native.Point) (uint32, error) {
	// the popup only closes on an outside click when the window is in the
	// foreground, and WM_NULL must follow
	_, _, _ = procSetForegroundWindow.Call(uintptr(w))
	cmd, _, _ := procTrackPopupMenu.Call(
		uintptr(menu),
		tpmReturnCmd|tpmNoNotify|tpmRightButton,
		uintptr(at.X), uintptr(at.Y),
		0, uintptr(w), 0,
	)
	_, _, _ = procPostMessageW.Call(uintptr(w), wmNull, 0, 0)
	return uint32(cmd), nil
}

func (b *Backend) CursorPosition() (native.Point, error) {
	var p point
	if _, err := call(procGetCursorPos, uintptr(unsafe.Pointer(&p))); err != nil {
		return native.Point{}, err
	}
	return native.Point{X: p.x, Y: p.y}, nil
}

func (b *Backend) ClientToScreen(w native.Window, p native.Point) (native.Point, error) {
	pt := point{x: p.X, y: p.Y}
	if _, err := call(procClientToScreen, uintptr(w), uintptr(unsafe.Pointer(&pt))); err != nil {
		return native.Point{}, err
	}
	return native.Point{X: pt.x, Y: pt.y}, nil
}

func (b *Backend) ScaleFactor(w native.Window) (float64, error) {
	// GetDpiForWindow needs Windows 10 1607
	if procGetDpiForWindow.Find() != nil {
		return 1, nil
	}
	dpi, _, _ := procGetDpiForWindow.Call(uintptr(w))
	if dpi == 0 {
		return 0, fmt.Errorf("%w: %#x", native.ErrInvalidWindow, w)
	}
	return float64(dpi) / defaultDPI, nil
}

func (b *Backend) Subscribe(w native.Window, fn func(cmd uint32)) error {
	return subscribe(w, fn)
}

func (b *Backend) Unsubscribe(w native.Window) error {
	return unsubscribe(w)
}

func (b *Backend) Perform(w native.Window, action native.Action, md *about.Metadata) error {
	switch action {
	case native.ActionCopy:
		sendToFocus(wmCopy, 0, 0)
	case native.ActionCut:
		sendToFocus(wmCut, 0, 0)
	case native.ActionPaste:
		sendToFocus(wmPaste, 0, 0)
	case native.ActionUndo:
		sendToFocus(wmUndo, 0, 0)
	case native.ActionRedo:
		sendToFocus(emRedo, 0, 0)
	case native.ActionSelectAll:
		sendToFocus(emSetSel, 0, ^uintptr(0))
	case native.ActionMinimize:
		_, _, _ = procShowWindow.Call(uintptr(w), swMinimize)
	case native.ActionMaximize:
		if zoomed, _, _ := procIsZoomed.Call(uintptr(w)); zoomed != 0 {
			_, _, _ = procShowWindow.Call(uintptr(w), swRestore)
		} else {
			_, _, _ = procShowWindow.Call(uintptr(w), swMaximize)
		}
	case native.ActionFullscreen:
		return b.toggleFullscreen(w)
	case native.ActionHide:
		_, _, _ = procShowWindow.Call(uintptr(w), swHide)
	case native.ActionCloseWindow:
		_, err := call(procPostMessageW, uintptr(w), wmClose, 0, 0)
		return err
	case native.ActionQuit:
		_, _, _ = procPostQuitMessage.Call(0)
	case native.ActionAbout:
		return showAbout(w, md)
	case native.ActionNone:
	}
	return nil
}

func sendToFocus(msg uint32, wparam, lparam uintptr) {
	focus, _, _ := procGetFocus.Call()
	if focus != 0 {
		_, _, _ = procSendMessageW.Call(focus, uintptr(msg), wparam, lparam)
	}
}

func showAbout(w native.Window, md *about.Metadata) error {
	if md == nil {
		md = &about.Metadata{}
	}
	text, err := windows.UTF16PtrFromString(md.Text())
	if err != nil {
		return err
	}
	title, err := windows.UTF16PtrFromString(md.Title())
	if err != nil {
		return err
	}
	_, err = windows.MessageBox(windows.HWND(w), text, title, windows.MB_OK|windows.MB_ICONINFORMATION)
	return err
}

func (b *Backend) toggleFullscreen(w native.Window) error {
	idx := gwlStyle

	b.mu.Lock()
	prev, ok := b.fullscreen[w]
	if ok {
		delete(b.fullscreen, w)
	}
	b.mu.Unlock()

	if ok {
		_, _, _ = procSetWindowLongPtrW.Call(uintptr(w), uintptr(idx), prev.style)
		r := prev.rect
		_, err := call(procSetWindowPos, uintptr(w), 0,
			uintptr(r.left), uintptr(r.top), uintptr(r.right-r.left), uintptr(r.bottom-r.top),
			swpNoZOrder|swpNoOwnerZOrder|swpFrameChanged)
		return err
	}

	style, _, _ := procGetWindowLongPtrW.Call(uintptr(w), uintptr(idx))
	var p placement
	p.style = style
	if _, err := call(procGetWindowRect, uintptr(w), uintptr(unsafe.Pointer(&p.rect))); err != nil {
		return err
	}
	mon, _, _ := procMonitorFromWindow.Call(uintptr(w), monitorDefaultToNearest)
	mi := monitorInfo{}
	mi.size = uint32(unsafe.Sizeof(mi))
	if _, err := call(procGetMonitorInfoW, mon, uintptr(unsafe.Pointer(&mi))); err != nil {
		return err
	}

	b.mu.Lock()
	b.fullscreen[w] = p
	b.mu.Unlock()

	_, _, _ = procSetWindowLongPtrW.Call(uintptr(w), uintptr(idx), (style&^wsOverlappedWindow)|wsPopup)
	m := mi.monitor
	_, err := call(procSetWindowPos, uintptr(w), 0,
		uintptr(m.left), uintptr(m.top), uintptr(m.right-m.left), uintptr(m.bottom-m.top),
		swpNoZOrder|swpNoOwnerZOrder|swpFrameChanged)
	return err
}
