//go:build windows

package win32

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/mchmarny/menusync/pkg/native"
)

// Undocumented messages uxtheme sends to let a window paint its own menu bar.
const (
	wmUAHDrawMenu     = 0x0091
	wmUAHDrawMenuItem = 0x0092
	wmNCPaint         = 0x0085
	wmNCActivate      = 0x0086
	wmSettingChange   = 0x001A

	objIDMenu = 0xFFFFFFFD // OBJID_MENU

	odsSelected   = 0x0001
	odsGrayed     = 0x0002
	odsDisabled   = 0x0004
	odsHotLight   = 0x0040
	odsNoAccel    = 0x0100
	dtCenter      = 0x0001
	dtVCenter     = 0x0004
	dtSingleLine  = 0x0020
	dtHidePrefix  = 0x00100000
	bkTransparent = 1

	personalizeKey = `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`
)

// colors are COLORREF, 0x00BBGGRR
const (
	darkBackground = 0x002B2B2B
	darkHot        = 0x003D3D3D
	darkText       = 0x00FFFFFF
	darkGrayed     = 0x006D6D6D
)

var (
	procGetMenuBarInfo   = user32.NewProc("GetMenuBarInfo")
	procGetMenuStringW   = user32.NewProc("GetMenuStringW")
	procFillRect         = user32.NewProc("FillRect")
	procDrawTextW        = user32.NewProc("DrawTextW")
	procGetWindowDC      = user32.NewProc("GetWindowDC")
	procReleaseDC        = user32.NewProc("ReleaseDC")
	procCreateSolidBrush = gdi32.NewProc("CreateSolidBrush")
	procSetTextColor     = gdi32.NewProc("SetTextColor")
	procSetBkMode        = gdi32.NewProc("SetBkMode")
)

type uahMenu struct {
	menu  uintptr
	hdc   uintptr
	flags uint32
}

type drawItem struct {
	ctlType    uint32
	ctlID      uint32
	itemID     uint32
	itemAction uint32
	itemState  uint32
	hwndItem   uintptr
	hdc        uintptr
	rcItem     rect
	itemData   uintptr
}

type uahMenuItem struct {
	position int32
	metrics  [8]uint32 // UAHMENUITEMMETRICS
	popup    [5]uint32 // UAHMENUPOPUPMETRICS
}

type uahDrawMenuItem struct {
	dis drawItem
	um  uahMenu
	umi uahMenuItem
}

type menuBarInfo struct {
	size     uint32
	bar      rect
	menu     uintptr
	hwndMenu uintptr
	flags    uint32
}

type brushes struct {
	background uintptr
	hot        uintptr
}

// brushes live as long as the process, like the system ones
var darkBrushes = sync.OnceValue(func() brushes {
	bg, _, _ := procCreateSolidBrush.Call(darkBackground)
	hot, _, _ := procCreateSolidBrush.Call(darkHot)
	return brushes{background: bg, hot: hot}
})

// resolveDark reports whether theme draws dark. Auto reads the user's app
// mode and falls back to light when the setting is missing.
func resolveDark(theme native.Theme) bool {
	switch theme {
	case native.ThemeDark:
		return true
	case native.ThemeAuto:
		k, err := registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.QUERY_VALUE)
		if err != nil {
			return false
		}
		defer k.Close()
		v, _, err := k.GetIntegerValue("AppsUseLightTheme")
		return err == nil && v == 0
	case native.ThemeLight:
	}
	return false
}

// menuBarRect returns hwnd's menu bar in window coordinates.
func menuBarRect(hwnd uintptr) (rect, bool) {
	mbi := menuBarInfo{}
	mbi.size = uint32(unsafe.Sizeof(mbi))
	if r, _, _ := procGetMenuBarInfo.Call(hwnd, objIDMenu, 0, uintptr(unsafe.Pointer(&mbi))); r == 0 {
		return rect{}, false
	}
	var wr rect
	if r, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&wr))); r == 0 {
		return rect{}, false
	}
	bar := mbi.bar
	bar.left -= wr.left
	bar.right -= wr.left
	bar.top -= wr.top
	bar.bottom -= wr.top
	return bar, true
}

func drawMenuBarBackground(hwnd, lparam uintptr) {
	um := (*uahMenu)(unsafe.Pointer(lparam))
	bar, ok := menuBarRect(hwnd)
	if !ok {
		return
	}
	_, _, _ = procFillRect.Call(um.hdc, uintptr(unsafe.Pointer(&bar)), darkBrushes().background)
}

func drawMenuBarItem(lparam uintptr) {
	di := (*uahDrawMenuItem)(unsafe.Pointer(lparam))
	hdc := di.um.hdc

	var buf [256]uint16
	n, _, _ := procGetMenuStringW.Call(di.um.menu, uintptr(di.umi.position),
		uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)), mfByPosition)

	state := di.dis.itemState
	brush := darkBrushes().background
	if state&(odsHotLight|odsSelected) != 0 {
		brush = darkBrushes().hot
	}
	color := uintptr(darkText)
	if state&(odsGrayed|odsDisabled) != 0 {
		color = darkGrayed
	}
	format := uintptr(dtCenter | dtSingleLine | dtVCenter)
	if state&odsNoAccel != 0 {
		format |= dtHidePrefix
	}

	rc := di.dis.rcItem
	_, _, _ = procFillRect.Call(hdc, uintptr(unsafe.Pointer(&rc)), brush)
	_, _, _ = procSetBkMode.Call(hdc, bkTransparent)
	_, _, _ = procSetTextColor.Call(hdc, color)
	_, _, _ = procDrawTextW.Call(hdc, uintptr(unsafe.Pointer(&buf[0])), n,
		uintptr(unsafe.Pointer(&rc)), format)
}

// coverMenuBarLine paints over the light line the frame draws under the bar.
func coverMenuBarLine(hwnd uintptr) {
	bar, ok := menuBarRect(hwnd)
	if !ok {
		return
	}
	line := rect{left: bar.left, top: bar.bottom, right: bar.right, bottom: bar.bottom + 1}
	hdc, _, _ := procGetWindowDC.Call(hwnd)
	if hdc == 0 {
		return
	}
	_, _, _ = procFillRect.Call(hdc, uintptr(unsafe.Pointer(&line)), darkBrushes().background)
	_, _, _ = procReleaseDC.Call(hwnd, hdc)
}

func (b *Backend) SetMenuBarTheme(w native.Window, t native.Theme) error {
	if !windows.IsWindow(windows.HWND(w)) {
		return native.ErrInvalidWindow
	}
	return setTheme(w, t)
}
