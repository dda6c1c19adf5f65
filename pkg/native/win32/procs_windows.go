//go:build windows

package win32

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	comctl32 = windows.NewLazySystemDLL("comctl32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")

	procCreateMenu              = user32.NewProc("CreateMenu")
	procCreatePopupMenu         = user32.NewProc("CreatePopupMenu")
	procDestroyMenu             = user32.NewProc("DestroyMenu")
	procInsertMenuItemW         = user32.NewProc("InsertMenuItemW")
	procSetMenuItemInfoW        = user32.NewProc("SetMenuItemInfoW")
	procRemoveMenu              = user32.NewProc("RemoveMenu")
	procSetMenu                 = user32.NewProc("SetMenu")
	procGetMenu                 = user32.NewProc("GetMenu")
	procDrawMenuBar             = user32.NewProc("DrawMenuBar")
	procCreateAcceleratorTableW = user32.NewProc("CreateAcceleratorTableW")
	procDestroyAcceleratorTable = user32.NewProc("DestroyAcceleratorTable")
	procTrackPopupMenu          = user32.NewProc("TrackPopupMenu")
	procGetCursorPos            = user32.NewProc("GetCursorPos")
	procClientToScreen          = user32.NewProc("ClientToScreen")
	procGetDpiForWindow         = user32.NewProc("GetDpiForWindow")
	procSetForegroundWindow     = user32.NewProc("SetForegroundWindow")
	procGetFocus                = user32.NewProc("GetFocus")
	procSendMessageW            = user32.NewProc("SendMessageW")
	procPostMessageW            = user32.NewProc("PostMessageW")
	procShowWindow              = user32.NewProc("ShowWindow")
	procIsZoomed                = user32.NewProc("IsZoomed")
	procGetWindowLongPtrW       = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW       = user32.NewProc("SetWindowLongPtrW")
	procGetWindowRect           = user32.NewProc("GetWindowRect")
	procSetWindowPos            = user32.NewProc("SetWindowPos")
	procMonitorFromWindow       = user32.NewProc("MonitorFromWindow")
	procGetMonitorInfoW         = user32.NewProc("GetMonitorInfoW")
	procPostQuitMessage         = user32.NewProc("PostQuitMessage")
	procGetSystemMetrics        = user32.NewProc("GetSystemMetrics")

	procSetWindowSubclass    = comctl32.NewProc("SetWindowSubclass")
	procRemoveWindowSubclass = comctl32.NewProc("RemoveWindowSubclass")
	procDefSubclassProc      = comctl32.NewProc("DefSubclassProc")

	procCreateDIBSection = gdi32.NewProc("CreateDIBSection")
	procDeleteObject     = gdi32.NewProc("DeleteObject")
)

const (
	miimState  = 0x0001
	miimID     = 0x0002
	miimSub    = 0x0004
	miimString = 0x0040
	miimBitmap = 0x0080
	miimFType  = 0x0100

	mftString     = 0x0000
	mftRadioCheck = 0x0200
	mftSeparator  = 0x0800

	mfsDisabled = 0x0003
	mfsChecked  = 0x0008

	mfByPosition = 0x0400

	tpmReturnCmd   = 0x0100
	tpmNoNotify    = 0x0080
	tpmRightButton = 0x0002

	wmNull    = 0x0000
	wmClose   = 0x0010
	wmCut     = 0x0300
	wmCopy    = 0x0301
	wmPaste   = 0x0302
	wmUndo    = 0x0304
	wmCommand = 0x0111
	emSetSel  = 0x00B1
	emRedo    = 0x0454

	swHide     = 0
	swMaximize = 3
	swMinimize = 6
	swRestore  = 9

	smCxMenuCheck = 71
	smCyMenuCheck = 72

	gwlStyle = -16

	wsOverlappedWindow = 0x00CF0000
	wsPopup            = 0x80000000

	swpNoZOrder      = 0x0004
	swpFrameChanged  = 0x0020
	swpNoOwnerZOrder = 0x0200

	monitorDefaultToNearest = 2

	defaultDPI = 96
)

// menuItemInfo mirrors MENUITEMINFOW.
type menuItemInfo struct {
	size         uint32
	mask         uint32
	ftype        uint32
	state        uint32
	id           uint32
	subMenu      uintptr
	checkedBmp   uintptr
	uncheckedBmp uintptr
	itemData     uintptr
	typeData     *uint16
	cch          uint32
	bitmap       uintptr
}

type point struct {
	x, y int32
}

type rect struct {
	left, top, right, bottom int32
}

type monitorInfo struct {
	size    uint32
	monitor rect
	work    rect
	flags   uint32
}

// call invokes p and treats a zero result as failure.
func call(p *windows.LazyProc, args ...uintptr) (uintptr, error) {
	r, _, err := p.Call(args...)
	if r != 0 {
		return r, nil
	}
	var errno windows.Errno
	if errors.As(err, &errno) && errno != 0 {
		return 0, fmt.Errorf("%s: %w", p.Name, errno)
	}
	return 0, fmt.Errorf("%s failed", p.Name)
}
