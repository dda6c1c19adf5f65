package native

import "fmt"

// Theme selects how a window's menu bar is drawn. Submenus and context
// menus always use the system look.
type Theme uint8

const (
	// ThemeLight is the system menu bar.
	ThemeLight Theme = iota
	// ThemeDark draws the bar in dark colors.
	ThemeDark
	// ThemeAuto follows the user's app mode setting.
	ThemeAuto
)

var themeNames = [...]string{
	ThemeLight: "light",
	ThemeDark:  "dark",
	ThemeAuto:  "auto",
}

func (t Theme) String() string {
	if int(t) < len(themeNames) {
		return themeNames[t]
	}
	return "unknown"
}

// ParseTheme is the inverse of String.
func ParseTheme(s string) (Theme, error) {
	for i, name := range themeNames {
		if name == s {
			return Theme(i), nil
		}
	}
	return ThemeLight, fmt.Errorf("unknown menu theme %q", s)
}

func (t Theme) MarshalText() ([]byte, error) {
	if int(t) >= len(themeNames) {
		return nil, fmt.Errorf("unknown menu theme %d", t)
	}
	return []byte(t.String()), nil
}

func (t *Theme) UnmarshalText(b []byte) error {
	v, err := ParseTheme(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
