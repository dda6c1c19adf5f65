package menu

import "fmt"

// Kind is the closed set of item variants.
type Kind uint8

const (
	KindNormal Kind = iota
	KindCheck
	KindRadio
	KindIcon
	KindSubmenu
	KindPredefined
	KindSeparator
)

var kindNames = [...]string{
	KindNormal:     "normal",
	KindCheck:      "check",
	KindRadio:      "radio",
	KindIcon:       "icon",
	KindSubmenu:    "submenu",
	KindPredefined: "predefined",
	KindSeparator:  "separator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown menu item kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown menu item kind %q", b)
}
