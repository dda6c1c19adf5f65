package win32

import "github.com/mchmarny/menusync/pkg/icon"

// premultipliedBGRA scales ic to w by h and returns its pixels in the
// top-down, premultiplied BGRA layout of a 32-bit DIB section.
func premultipliedBGRA(ic *icon.Icon, w, h int) ([]byte, error) {
	scaled, err := ic.Resize(w, h)
	if err != nil {
		return nil, err
	}
	px := scaled.RGBA()
	out := make([]byte, len(px))
	for i := 0; i+3 < len(px); i += 4 {
		a := uint32(px[i+3])
		out[i+0] = byte(uint32(px[i+2]) * a / 0xFF)
		out[i+1] = byte(uint32(px[i+1]) * a / 0xFF)
		out[i+2] = byte(uint32(px[i+0]) * a / 0xFF)
		out[i+3] = byte(a)
	}
	return out, nil
}
