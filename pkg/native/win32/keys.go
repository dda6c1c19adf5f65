package win32

import (
	"fmt"

	"github.com/mchmarny/menusync/pkg/accelerator"
	"github.com/mchmarny/menusync/pkg/native"
)

// ACCEL flags.
const (
	fVirtKey = 0x01
	fShift   = 0x04
	fControl = 0x08
	fAlt     = 0x10
)

// accel mirrors the Win32 ACCEL structure.
type accel struct {
	virt uint8
	key  uint16
	cmd  uint16
}

var virtualKeys = map[accelerator.Code]uint16{
	accelerator.Backspace:          0x08,
	accelerator.Tab:                0x09,
	accelerator.Enter:              0x0D,
	accelerator.Pause:              0x13,
	accelerator.CapsLock:           0x14,
	accelerator.Escape:             0x1B,
	accelerator.Space:              0x20,
	accelerator.PageUp:             0x21,
	accelerator.PageDown:           0x22,
	accelerator.End:                0x23,
	accelerator.Home:               0x24,
	accelerator.ArrowLeft:          0x25,
	accelerator.ArrowUp:            0x26,
	accelerator.ArrowRight:         0x27,
	accelerator.ArrowDown:          0x28,
	accelerator.PrintScreen:        0x2C,
	accelerator.Insert:             0x2D,
	accelerator.Delete:             0x2E,
	accelerator.NumpadMultiply:     0x6A,
	accelerator.NumpadAdd:          0x6B,
	accelerator.NumpadSubtract:     0x6D,
	accelerator.NumpadDecimal:      0x6E,
	accelerator.NumpadDivide:       0x6F,
	accelerator.NumLock:            0x90,
	accelerator.ScrollLock:         0x91,
	accelerator.AudioVolumeMute:    0xAD,
	accelerator.AudioVolumeDown:    0xAE,
	accelerator.AudioVolumeUp:      0xAF,
	accelerator.MediaTrackNext:     0xB0,
	accelerator.MediaTrackPrevious: 0xB1,
	accelerator.MediaStop:          0xB2,
	accelerator.MediaPlayPause:     0xB3,
	accelerator.Semicolon:          0xBA,
	accelerator.Equal:              0xBB,
	accelerator.Comma:              0xBC,
	accelerator.Minus:              0xBD,
	accelerator.Period:             0xBE,
	accelerator.Slash:              0xBF,
	accelerator.Backquote:          0xC0,
	accelerator.BracketLeft:        0xDB,
	accelerator.Backslash:          0xDC,
	accelerator.BracketRight:       0xDD,
	accelerator.Quote:              0xDE,
}

// VirtualKey returns the Win32 virtual-key code for c.
func VirtualKey(c accelerator.Code) (uint16, bool) {
	switch {
	case c >= accelerator.KeyA && c <= accelerator.KeyZ:
		return 'A' + uint16(c-accelerator.KeyA), true
	case c >= accelerator.Digit0 && c <= accelerator.Digit9:
		return '0' + uint16(c-accelerator.Digit0), true
	case c >= accelerator.F1 && c <= accelerator.F24:
		return 0x70 + uint16(c-accelerator.F1), true
	case c >= accelerator.Numpad0 && c <= accelerator.Numpad9:
		return 0x60 + uint16(c-accelerator.Numpad0), true
	}
	vk, ok := virtualKeys[c]
	return vk, ok
}

// toAccels converts table entries to ACCEL records. Win32 tables cannot
// express the Windows key, and commands are 16 bits wide.
func toAccels(entries []native.Accel) ([]accel, error) {
	out := make([]accel, 0, len(entries))
	for _, e := range entries {
		if e.Accelerator.Mods.Has(accelerator.Super) {
			return nil, fmt.Errorf("accelerator %s: the Win modifier is not supported", e.Accelerator)
		}
		if e.Command > 0xFFFF {
			return nil, fmt.Errorf("accelerator %s: command %d does not fit in 16 bits", e.Accelerator, e.Command)
		}
		vk, ok := VirtualKey(e.Accelerator.Key)
		if !ok {
			return nil, fmt.Errorf("accelerator %s: no virtual key for %s", e.Accelerator, e.Accelerator.Key)
		}
		a := accel{virt: fVirtKey, key: vk, cmd: uint16(e.Command)}
		if e.Accelerator.Mods.Has(accelerator.Shift) {
			a.virt |= fShift
		}
		if e.Accelerator.Mods.Has(accelerator.Control) {
			a.virt |= fControl
		}
		if e.Accelerator.Mods.Has(accelerator.Alt) {
			a.virt |= fAlt
		}
		out = append(out, a)
	}
	return out, nil
}
