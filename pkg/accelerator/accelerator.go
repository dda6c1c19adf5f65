// Package accelerator describes keyboard shortcuts attached to menu items.
package accelerator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is returned when an accelerator string cannot be parsed.
var ErrParse = errors.New("invalid accelerator")

// Modifiers is a bit set of modifier keys.
type Modifiers uint8

const (
	Shift Modifiers = 1 << iota
	Control
	Alt
	Super
)

// Has reports whether all modifiers in o are set in m.
func (m Modifiers) Has(o Modifiers) bool {
	return m&o == o
}

// String renders the modifiers in the order Windows displays them.
func (m Modifiers) String() string {
	parts := make([]string, 0, 4)
	if m.Has(Control) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(Alt) {
		parts = append(parts, "Alt")
	}
	if m.Has(Shift) {
		parts = append(parts, "Shift")
	}
	if m.Has(Super) {
		parts = append(parts, "Win")
	}
	return strings.Join(parts, "+")
}

// Accelerator is a key combined with zero or more modifiers.
type Accelerator struct {
	Mods Modifiers
	Key  Code
}

// New returns an accelerator for the key with the given modifiers.
func New(mods Modifiers, key Code) Accelerator {
	return Accelerator{Mods: mods, Key: key}
}

// MustParse is like Parse but panics on error. Intended for literals.
func MustParse(s string) Accelerator {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Parse reads accelerators such as "Ctrl+Shift+S", "Alt+D" or "CmdOrCtrl+Q".
// Modifier and key names are case-insensitive.
func Parse(s string) (Accelerator, error) {
	var (
		a      Accelerator
		hasKey bool
	)

	tokens := strings.Split(s, "+")
	for i, raw := range tokens {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			// "Ctrl++" binds the plus key.
			if i == len(tokens)-1 && i > 0 && strings.TrimSpace(tokens[i-1]) == "" {
				tok = "+"
			} else {
				continue
			}
		}

		if mod, ok := parseModifier(tok); ok && i < len(tokens)-1 {
			a.Mods |= mod
			continue
		}

		if hasKey {
			return Accelerator{}, fmt.Errorf("%w %q: more than one key", ErrParse, s)
		}
		code, err := ParseCode(tok)
		if err != nil {
			return Accelerator{}, fmt.Errorf("%w %q: %w", ErrParse, s, err)
		}
		a.Key = code
		hasKey = true
	}

	if !hasKey {
		return Accelerator{}, fmt.Errorf("%w %q: missing key", ErrParse, s)
	}
	return a, nil
}

func parseModifier(tok string) (Modifiers, bool) {
	switch strings.ToUpper(tok) {
	case "SHIFT":
		return Shift, true
	case "CONTROL", "CTRL":
		return Control, true
	case "ALT", "OPTION":
		return Alt, true
	case "SUPER", "CMD", "COMMAND", "WIN", "META":
		return Super, true
	case "COMMANDORCONTROL", "COMMANDORCTRL", "CMDORCTRL", "CMDORCONTROL":
		// menus target Win32, where the primary modifier is Control
		return Control, true
	}
	return 0, false
}

// String renders the accelerator as shown next to a menu entry, e.g. "Ctrl+Shift+S".
func (a Accelerator) String() string {
	key := a.Key.Label()
	if a.Mods == 0 {
		return key
	}
	return a.Mods.String() + "+" + key
}

// MarshalText implements encoding.TextMarshaler.
func (a Accelerator) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Accelerator) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
