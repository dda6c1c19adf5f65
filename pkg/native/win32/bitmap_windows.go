//go:build windows

package win32

import (
	"unsafe"

	"github.com/mchmarny/menusync/pkg/icon"
)

// bitmapInfoHeader mirrors BITMAPINFOHEADER.
type bitmapInfoHeader struct {
	size          uint32
	width         int32
	height        int32
	planes        uint16
	bitCount      uint16
	compression   uint32
	sizeImage     uint32
	xPelsPerMeter int32
	yPelsPerMeter int32
	clrUsed       uint32
	clrImportant  uint32
}

// createBitmap renders ic into a 32-bit DIB sized to the menu check-mark
// metric. The caller owns the returned HBITMAP.
func createBitmap(ic *icon.Icon) (uintptr, error) {
	cx, _, _ := procGetSystemMetrics.Call(smCxMenuCheck)
	cy, _, _ := procGetSystemMetrics.Call(smCyMenuCheck)
	w, h := int(cx), int(cy)
	if w <= 0 || h <= 0 {
		w, h = 16, 16
	}
	px, err := premultipliedBGRA(ic, w, h)
	if err != nil {
		return 0, err
	}

	hdr := bitmapInfoHeader{
		width:    int32(w),
		height:   -int32(h), // top-down
		planes:   1,
		bitCount: 32,
	}
	hdr.size = uint32(unsafe.Sizeof(hdr))

	var bits unsafe.Pointer
	bmp, err := call(procCreateDIBSection, 0, uintptr(unsafe.Pointer(&hdr)), 0, uintptr(unsafe.Pointer(&bits)), 0, 0)
	if err != nil {
		return 0, err
	}
	copy(unsafe.Slice((*byte)(bits), len(px)), px)
	return bmp, nil
}

func deleteObject(h uintptr) {
	_, _, _ = procDeleteObject.Call(h)
}
