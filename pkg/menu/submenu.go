package menu

// Submenu is a labeled container. A submenu can be a child of several menus
// at once; each placement gets its own native popup handle.
type Submenu struct {
	*entry
	*container
}

// NewSubmenu creates an empty submenu with a freshly allocated id.
func NewSubmenu(text string, enabled bool) *Submenu {
	s := newSubmenu(text, enabled)
	defaultAllocator.claim(s.entry)
	return s
}

// NewSubmenuWithID creates an empty submenu with a caller-chosen id.
func NewSubmenuWithID(id ID, text string, enabled bool) (*Submenu, error) {
	s := newSubmenu(text, enabled)
	if err := defaultAllocator.claimExplicit(s.entry, id); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSubmenuWithItems creates a submenu holding items.
func NewSubmenuWithItems(text string, enabled bool, items ...Item) (*Submenu, error) {
	s := NewSubmenu(text, enabled)
	if err := s.AppendItems(items...); err != nil {
		return nil, err
	}
	return s, nil
}

func newSubmenu(text string, enabled bool) *Submenu {
	s := &Submenu{}
	s.entry = newEntry(s, KindSubmenu, text, enabled, nil)
	s.container = &container{owner: s.entry}
	s.sub = s.container
	return s
}

// Text returns the label.
func (s *Submenu) Text() string { return s.text }

// SetText changes the label everywhere the submenu is shown.
func (s *Submenu) SetText(text string) error { return s.setText(text) }

// IsEnabled reports whether the submenu can be opened.
func (s *Submenu) IsEnabled() bool { return s.enabled }

// SetEnabled enables or disables the submenu everywhere it is shown.
func (s *Submenu) SetEnabled(enabled bool) error { return s.setEnabled(enabled) }

func (s *Submenu) contextRoot() *container { return s.container }
