package accelerator

import (
	"fmt"
	"strings"
)

// Code identifies a physical key, named after the W3C UI Events KeyboardEvent code values.
type Code uint8

const (
	CodeUnknown Code = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Digit0
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	F21
	F22
	F23
	F24
	Backquote
	Backslash
	BracketLeft
	BracketRight
	Comma
	Equal
	Minus
	Period
	Quote
	Semicolon
	Slash
	Backspace
	CapsLock
	Enter
	Space
	Tab
	Delete
	End
	Home
	Insert
	PageDown
	PageUp
	ArrowDown
	ArrowLeft
	ArrowRight
	ArrowUp
	Escape
	PrintScreen
	ScrollLock
	Pause
	NumLock
	Numpad0
	Numpad1
	Numpad2
	Numpad3
	Numpad4
	Numpad5
	Numpad6
	Numpad7
	Numpad8
	Numpad9
	NumpadAdd
	NumpadDecimal
	NumpadDivide
	NumpadMultiply
	NumpadSubtract
	AudioVolumeDown
	AudioVolumeUp
	AudioVolumeMute
	MediaPlayPause
	MediaStop
	MediaTrackNext
	MediaTrackPrevious

	codeCount
)

var codeNames = [codeCount]string{
	CodeUnknown:        "Unknown",
	KeyA:               "KeyA",
	KeyB:               "KeyB",
	KeyC:               "KeyC",
	KeyD:               "KeyD",
	KeyE:               "KeyE",
	KeyF:               "KeyF",
	KeyG:               "KeyG",
	KeyH:               "KeyH",
	KeyI:               "KeyI",
	KeyJ:               "KeyJ",
	KeyK:               "KeyK",
	KeyL:               "KeyL",
	KeyM:               "KeyM",
	KeyN:               "KeyN",
	KeyO:               "KeyO",
	KeyP:               "KeyP",
	KeyQ:               "KeyQ",
	KeyR:               "KeyR",
	KeyS:               "KeyS",
	KeyT:               "KeyT",
	KeyU:               "KeyU",
	KeyV:               "KeyV",
	KeyW:               "KeyW",
	KeyX:               "KeyX",
	KeyY:               "KeyY",
	KeyZ:               "KeyZ",
	Digit0:             "Digit0",
	Digit1:             "Digit1",
	Digit2:             "Digit2",
	Digit3:             "Digit3",
	Digit4:             "Digit4",
	Digit5:             "Digit5",
	Digit6:             "Digit6",
	Digit7:             "Digit7",
	Digit8:             "Digit8",
	Digit9:             "Digit9",
	F1:                 "F1",
	F2:                 "F2",
	F3:                 "F3",
	F4:                 "F4",
	F5:                 "F5",
	F6:                 "F6",
	F7:                 "F7",
	F8:                 "F8",
	F9:                 "F9",
	F10:                "F10",
	F11:                "F11",
	F12:                "F12",
	F13:                "F13",
	F14:                "F14",
	F15:                "F15",
	F16:                "F16",
	F17:                "F17",
	F18:                "F18",
	F19:                "F19",
	F20:                "F20",
	F21:                "F21",
	F22:                "F22",
	F23:                "F23",
	F24:                "F24",
	Backquote:          "Backquote",
	Backslash:          "Backslash",
	BracketLeft:        "BracketLeft",
	BracketRight:       "BracketRight",
	Comma:              "Comma",
	Equal:              "Equal",
	Minus:              "Minus",
	Period:             "Period",
	Quote:              "Quote",
	Semicolon:          "Semicolon",
	Slash:              "Slash",
	Backspace:          "Backspace",
	CapsLock:           "CapsLock",
	Enter:              "Enter",
	Space:              "Space",
	Tab:                "Tab",
	Delete:             "Delete",
	End:                "End",
	Home:               "Home",
	Insert:             "Insert",
	PageDown:           "PageDown",
	PageUp:             "PageUp",
	ArrowDown:          "ArrowDown",
	ArrowLeft:          "ArrowLeft",
	ArrowRight:         "ArrowRight",
	ArrowUp:            "ArrowUp",
	Escape:             "Escape",
	PrintScreen:        "PrintScreen",
	ScrollLock:         "ScrollLock",
	Pause:              "Pause",
	NumLock:            "NumLock",
	Numpad0:            "Numpad0",
	Numpad1:            "Numpad1",
	Numpad2:            "Numpad2",
	Numpad3:            "Numpad3",
	Numpad4:            "Numpad4",
	Numpad5:            "Numpad5",
	Numpad6:            "Numpad6",
	Numpad7:            "Numpad7",
	Numpad8:            "Numpad8",
	Numpad9:            "Numpad9",
	NumpadAdd:          "NumpadAdd",
	NumpadDecimal:      "NumpadDecimal",
	NumpadDivide:       "NumpadDivide",
	NumpadMultiply:     "NumpadMultiply",
	NumpadSubtract:     "NumpadSubtract",
	AudioVolumeDown:    "AudioVolumeDown",
	AudioVolumeUp:      "AudioVolumeUp",
	AudioVolumeMute:    "AudioVolumeMute",
	MediaPlayPause:     "MediaPlayPause",
	MediaStop:          "MediaStop",
	MediaTrackNext:     "MediaTrackNext",
	MediaTrackPrevious: "MediaTrackPrevious",
}

// shorthand spellings accepted by ParseCode, keyed by upper-case text
var codeAliases = map[string]Code{
	"`":          Backquote,
	"\\":         Backslash,
	"[":          BracketLeft,
	"]":          BracketRight,
	",":          Comma,
	"=":          Equal,
	"-":          Minus,
	".":          Period,
	"'":          Quote,
	";":          Semicolon,
	"/":          Slash,
	"+":          NumpadAdd,
	"PLUS":       NumpadAdd,
	"RETURN":     Enter,
	"ESC":        Escape,
	"DEL":        Delete,
	"INS":        Insert,
	"PGUP":       PageUp,
	"PGDN":       PageDown,
	"UP":         ArrowUp,
	"DOWN":       ArrowDown,
	"LEFT":       ArrowLeft,
	"RIGHT":      ArrowRight,
	"PRTSC":      PrintScreen,
	"VOLUMEUP":   AudioVolumeUp,
	"VOLUMEDOWN": AudioVolumeDown,
	"MUTE":       AudioVolumeMute,
}

var codesByName = func() map[string]Code {
	m := make(map[string]Code, len(codeNames)*2)
	for c := KeyA; c < codeCount; c++ {
		name := strings.ToUpper(codeNames[c])
		m[name] = c
		switch {
		case strings.HasPrefix(name, "KEY"):
			m[strings.TrimPrefix(name, "KEY")] = c
		case strings.HasPrefix(name, "DIGIT"):
			m[strings.TrimPrefix(name, "DIGIT")] = c
		}
	}
	for alias, c := range codeAliases {
		m[alias] = c
	}
	return m
}()

// ParseCode resolves a key name such as "KeyA", "a", "5", "F4" or "PageUp".
func ParseCode(s string) (Code, error) {
	if c, ok := codesByName[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return CodeUnknown, fmt.Errorf("unknown key %q", s)
}

// String returns the W3C code name.
func (c Code) String() string {
	if c >= codeCount {
		return codeNames[CodeUnknown]
	}
	return codeNames[c]
}

// Label returns the short form shown in menus: "A" for KeyA, "5" for Digit5.
func (c Code) Label() string {
	name := c.String()
	switch {
	case c >= KeyA && c <= KeyZ:
		return strings.TrimPrefix(name, "Key")
	case c >= Digit0 && c <= Digit9:
		return strings.TrimPrefix(name, "Digit")
	}
	switch c {
	case Equal:
		return "="
	case Minus:
		return "-"
	case Comma:
		return ","
	case Period:
		return "."
	case Slash:
		return "/"
	}
	return name
}
