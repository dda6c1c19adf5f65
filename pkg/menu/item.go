package menu

import (
	"errors"
	"slices"

	"github.com/mchmarny/menusync/pkg/about"
	"github.com/mchmarny/menusync/pkg/accelerator"
	"github.com/mchmarny/menusync/pkg/icon"
	"github.com/mchmarny/menusync/pkg/native"
)

// Item is a menu entry. The set of implementations is closed: *MenuItem,
// *CheckMenuItem, *RadioMenuItem, *IconMenuItem, *Submenu,
// *PredefinedMenuItem and *Separator.
//
// Items are handles onto shared state. Appending the same item to several
// menus shows it in each, and every change is mirrored everywhere it is shown.
type Item interface {
	// ID returns the item id, zero for separators and predefined items
	// created without one.
	ID() ID

	// Kind returns the item variant.
	Kind() Kind

	node() *entry
}

// entry is the state shared by every handle onto one item.
type entry struct {
	self Item
	kind Kind

	id       ID
	cmd      uint32 // native command, the id or a reserved value
	explicit bool   // id was chosen by the caller

	text    string
	enabled bool
	checked bool
	group   string
	accel   *accelerator.Accelerator
	icon    *icon.Icon

	action native.Action
	about  *about.Metadata

	sub *container // submenus only

	parents     []*container
	attachments []attachment
}

func (e *entry) ID() ID     { return e.id }
func (e *entry) Kind() Kind { return e.kind }

func (e *entry) node() *entry { return e }

// NativeCommand returns the command id item's native entries report when
// chosen. It equals ID for most items; predefined items created without an
// id use a reserved command. Separators and invalid items return zero.
func NativeCommand(item Item) uint32 {
	if item == nil || item.node() == nil {
		return 0
	}
	return item.node().cmd
}

// label is the native entry text, with the accelerator after a tab.
func (e *entry) label() string {
	if e.accel == nil {
		return e.text
	}
	return e.text + "\t" + e.accel.String()
}

func (e *entry) nativeEntry(own native.Handle) native.Entry {
	switch e.kind {
	case KindSeparator:
		return native.Entry{Separator: true}
	case KindSubmenu:
		return native.Entry{Command: e.cmd, Text: e.text, Enabled: e.enabled, Submenu: own}
	case KindIcon:
		return native.Entry{Command: e.cmd, Text: e.label(), Enabled: e.enabled, Icon: e.icon}
	case KindNormal, KindCheck, KindRadio, KindPredefined:
		return native.Entry{
			Command: e.cmd,
			Text:    e.label(),
			Enabled: e.enabled,
			Checked: e.checked,
			Radio:   e.kind == KindRadio,
		}
	}
	return native.Entry{}
}

// hasAccelerators reports whether adding or removing the item changes any
// accelerator table.
func (e *entry) hasAccelerators() bool {
	if e.accel != nil {
		return true
	}
	if e.sub == nil {
		return false
	}
	return slices.ContainsFunc(e.sub.children, func(c Item) bool {
		return c.node().hasAccelerators()
	})
}

func (e *entry) setText(text string) error {
	e.text = text
	return e.refresh()
}

func (e *entry) setEnabled(enabled bool) error {
	e.enabled = enabled
	return e.refresh()
}

func (e *entry) setAccelerator(a *accelerator.Accelerator) error {
	e.accel = cloneAccel(a)
	return errors.Join(e.refresh(), e.rebuildAccelerators())
}

// setChecked updates the check state. Checking a radio item unchecks the
// checked radio items of the same group in every menu that contains it.
func (e *entry) setChecked(checked bool) error {
	var errs []error
	if e.kind == KindRadio && checked {
		for _, p := range e.parents {
			for _, c := range p.children {
				s := c.node()
				if s != e && s.kind == KindRadio && s.group == e.group && s.checked {
					s.checked = false
					errs = append(errs, s.refresh())
				}
			}
		}
	}
	e.checked = checked
	errs = append(errs, e.refresh())
	return errors.Join(errs...)
}

func newEntry(self Item, kind Kind, text string, enabled bool, accel *accelerator.Accelerator) *entry {
	return &entry{self: self, kind: kind, text: text, enabled: enabled, accel: cloneAccel(accel)}
}

func cloneAccel(a *accelerator.Accelerator) *accelerator.Accelerator {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// textItem carries the accessors shared by the labeled leaf items.
type textItem struct {
	*entry
}

// Text returns the label.
func (t textItem) Text() string { return t.text }

// SetText changes the label everywhere the item is shown.
func (t textItem) SetText(text string) error { return t.setText(text) }

// IsEnabled reports whether the item can be activated.
func (t textItem) IsEnabled() bool { return t.enabled }

// SetEnabled enables or disables the item everywhere it is shown.
func (t textItem) SetEnabled(enabled bool) error { return t.setEnabled(enabled) }

// Accelerator returns a copy of the keyboard shortcut, nil when there is none.
func (t textItem) Accelerator() *accelerator.Accelerator {
	return cloneAccel(t.accel)
}

// SetAccelerator changes the keyboard shortcut; nil removes it.
func (t textItem) SetAccelerator(a *accelerator.Accelerator) error { return t.setAccelerator(a) }

// MenuItem is a plain activatable entry.
type MenuItem struct {
	textItem
}

// NewMenuItem creates an item with a freshly allocated id.
func NewMenuItem(text string, enabled bool, accel *accelerator.Accelerator) *MenuItem {
	it := &MenuItem{}
	it.entry = newEntry(it, KindNormal, text, enabled, accel)
	defaultAllocator.claim(it.entry)
	return it
}

// NewMenuItemWithID creates an item with a caller-chosen id.
func NewMenuItemWithID(id ID, text string, enabled bool, accel *accelerator.Accelerator) (*MenuItem, error) {
	it := &MenuItem{}
	it.entry = newEntry(it, KindNormal, text, enabled, accel)
	if err := defaultAllocator.claimExplicit(it.entry, id); err != nil {
		return nil, err
	}
	return it, nil
}

// CheckMenuItem is an entry with an independent check mark toggled on activation.
type CheckMenuItem struct {
	textItem
}

// NewCheckMenuItem creates a check item with a freshly allocated id.
func NewCheckMenuItem(text string, enabled, checked bool, accel *accelerator.Accelerator) *CheckMenuItem {
	it := &CheckMenuItem{}
	it.entry = newEntry(it, KindCheck, text, enabled, accel)
	it.checked = checked
	defaultAllocator.claim(it.entry)
	return it
}

// NewCheckMenuItemWithID creates a check item with a caller-chosen id.
func NewCheckMenuItemWithID(id ID, text string, enabled, checked bool, accel *accelerator.Accelerator) (*CheckMenuItem, error) {
	it := &CheckMenuItem{}
	it.entry = newEntry(it, KindCheck, text, enabled, accel)
	it.checked = checked
	if err := defaultAllocator.claimExplicit(it.entry, id); err != nil {
		return nil, err
	}
	return it, nil
}

// IsChecked reports the check state.
func (c *CheckMenuItem) IsChecked() bool { return c.checked }

// SetChecked changes the check state everywhere the item is shown.
func (c *CheckMenuItem) SetChecked(checked bool) error { return c.setChecked(checked) }

// RadioMenuItem is a check item that is mutually exclusive with the radio
// items of the same group sharing a parent.
type RadioMenuItem struct {
	textItem
}

// NewRadioMenuItem creates a radio item with a freshly allocated id.
func NewRadioMenuItem(text, group string, enabled, checked bool, accel *accelerator.Accelerator) *RadioMenuItem {
	it := &RadioMenuItem{}
	it.entry = newEntry(it, KindRadio, text, enabled, accel)
	it.group = group
	it.checked = checked
	defaultAllocator.claim(it.entry)
	return it
}

// NewRadioMenuItemWithID creates a radio item with a caller-chosen id.
func NewRadioMenuItemWithID(id ID, text, group string, enabled, checked bool, accel *accelerator.Accelerator) (*RadioMenuItem, error) {
	it := &RadioMenuItem{}
	it.entry = newEntry(it, KindRadio, text, enabled, accel)
	it.group = group
	it.checked = checked
	if err := defaultAllocator.claimExplicit(it.entry, id); err != nil {
		return nil, err
	}
	return it, nil
}

// Group returns the radio group name.
func (r *RadioMenuItem) Group() string { return r.group }

// IsChecked reports the check state.
func (r *RadioMenuItem) IsChecked() bool { return r.checked }

// SetChecked changes the check state. Checking the item unchecks its group siblings.
func (r *RadioMenuItem) SetChecked(checked bool) error { return r.setChecked(checked) }

// IconMenuItem is an entry drawn with a bitmap.
type IconMenuItem struct {
	textItem
}

// NewIconMenuItem creates an icon item with a freshly allocated id.
func NewIconMenuItem(text string, enabled bool, ic *icon.Icon, accel *accelerator.Accelerator) *IconMenuItem {
	it := &IconMenuItem{}
	it.entry = newEntry(it, KindIcon, text, enabled, accel)
	it.icon = ic
	defaultAllocator.claim(it.entry)
	return it
}

// NewIconMenuItemWithID creates an icon item with a caller-chosen id.
func NewIconMenuItemWithID(id ID, text string, enabled bool, ic *icon.Icon, accel *accelerator.Accelerator) (*IconMenuItem, error) {
	it := &IconMenuItem{}
	it.entry = newEntry(it, KindIcon, text, enabled, accel)
	it.icon = ic
	if err := defaultAllocator.claimExplicit(it.entry, id); err != nil {
		return nil, err
	}
	return it, nil
}

// Icon returns the bitmap, nil when there is none.
func (i *IconMenuItem) Icon() *icon.Icon { return i.icon }

// SetIcon replaces the bitmap everywhere the item is shown; nil removes it.
func (i *IconMenuItem) SetIcon(ic *icon.Icon) error {
	i.icon = ic
	return i.refresh()
}

// Separator draws a divider line. Separators have no id and never fire.
type Separator struct {
	*entry
}

// NewSeparator creates a separator.
func NewSeparator() *Separator {
	s := &Separator{}
	s.entry = &entry{self: s, kind: KindSeparator}
	return s
}
