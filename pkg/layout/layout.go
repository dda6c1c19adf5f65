// Package layout builds menus from TOML documents.
//
// A layout lists the items of a root menu. Items nest through "items", and
// an item with a "name" can be placed again elsewhere with "ref", which
// shares it between parents:
//
//	[[items]]
//	kind = "submenu"
//	text = "&File"
//
//	  [[items.items]]
//	  text = "&Open"
//	  id = 42
//	  accelerator = "Ctrl+O"
//
//	  [[items.items]]
//	  kind = "submenu"
//	  name = "recent"
//	  text = "Open &Recent"
//
//	  [[items.items]]
//	  kind = "predefined"
//	  action = "quit"
//
//	[[items]]
//	ref = "recent"
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/mchmarny/menusync/pkg/about"
	"github.com/mchmarny/menusync/pkg/accelerator"
	"github.com/mchmarny/menusync/pkg/icon"
	"github.com/mchmarny/menusync/pkg/menu"
	"github.com/mchmarny/menusync/pkg/native"
)

// ErrInvalid is returned for layouts that decode but do not describe a valid menu.
var ErrInvalid = errors.New("invalid menu layout")

// Layout is a decoded layout document.
type Layout struct {
	// About is shown by predefined "about" items.
	About *about.Metadata `toml:"about,omitempty"`

	Items []Item `toml:"items"`

	dir string
}

// Item describes one menu item. Kind defaults to "submenu" when Items is
// set and to "normal" otherwise.
type Item struct {
	Kind        string                   `toml:"kind,omitempty"`
	Name        string                   `toml:"name,omitempty"`
	Ref         string                   `toml:"ref,omitempty"`
	ID          uint32                   `toml:"id,omitempty"`
	Text        string                   `toml:"text,omitempty"`
	Enabled     *bool                    `toml:"enabled,omitempty"`
	Checked     bool                     `toml:"checked,omitempty"`
	Group       string                   `toml:"group,omitempty"`
	Accelerator *accelerator.Accelerator `toml:"accelerator,omitempty"`
	Action      string                   `toml:"action,omitempty"`
	Icon        string                   `toml:"icon,omitempty"`
	Items       []Item                   `toml:"items,omitempty"`
}

// Parse decodes a layout. Unknown keys are rejected.
func Parse(data []byte) (*Layout, error) {
	return decode(bytes.NewReader(data))
}

// Load reads the layout at path. Icon paths are resolved relative to it.
func Load(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout: %w", err)
	}
	defer f.Close()

	l, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.dir = filepath.Dir(path)
	return l, nil
}

func decode(r io.Reader) (*Layout, error) {
	var l Layout
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&l); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %w", ErrInvalid, row, col, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &l, nil
}

// Marshal encodes the layout back to TOML.
func (l *Layout) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf).SetIndentTables(true)
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}
	return buf.Bytes(), nil
}

// Build creates the menu described by the layout. It returns the root menu
// and the named items by name.
func (l *Layout) Build(opts ...menu.Option) (*menu.Menu, map[string]menu.Item, error) {
	b := &builder{
		layout: l,
		defs:   make(map[string]*Item),
		built:  make(map[string]menu.Item),
	}
	if err := b.collect(l.Items, "items"); err != nil {
		return nil, nil, err
	}

	m := menu.New(opts...)
	if err := b.fill(m, l.Items, "items"); err != nil {
		return nil, nil, err
	}
	return m, b.built, nil
}

type appender interface {
	Append(menu.Item) error
}

type builder struct {
	layout *Layout
	defs   map[string]*Item
	built  map[string]menu.Item
}

// collect indexes named items so refs may point forward.
func (b *builder) collect(items []Item, path string) error {
	for i := range items {
		it := &items[i]
		p := fmt.Sprintf("%s[%d]", path, i)
		if it.Name != "" {
			if it.Ref != "" {
				return fmt.Errorf("%w: %s: name and ref are exclusive", ErrInvalid, p)
			}
			if _, dup := b.defs[it.Name]; dup {
				return fmt.Errorf("%w: %s: name %q defined twice", ErrInvalid, p, it.Name)
			}
			b.defs[it.Name] = it
		}
		if err := b.collect(it.Items, p+".items"); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) fill(parent appender, items []Item, path string) error {
	for i := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		child, err := b.item(&items[i], p)
		if err != nil {
			return err
		}
		if err := parent.Append(child); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (b *builder) item(it *Item, path string) (menu.Item, error) {
	if it.Ref != "" {
		def, ok := b.defs[it.Ref]
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown ref %q", ErrInvalid, path, it.Ref)
		}
		if built, ok := b.built[it.Ref]; ok {
			return built, nil
		}
		return b.item(def, path)
	}
	if it.Name != "" {
		if built, ok := b.built[it.Name]; ok {
			return built, nil
		}
	}

	kind, err := it.kind()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}
	if kind != menu.KindSubmenu && len(it.Items) > 0 {
		return nil, fmt.Errorf("%w: %s: %s items cannot have children", ErrInvalid, path, kind)
	}

	built, err := b.create(it, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// registered before the children are built, so a ref to an enclosing
	// submenu reaches it and fails as a cycle
	if it.Name != "" {
		b.built[it.Name] = built
	}
	if sub, ok := built.(*menu.Submenu); ok {
		if err := b.fill(sub, it.Items, path+".items"); err != nil {
			return nil, err
		}
	}
	return built, nil
}

func (it *Item) kind() (menu.Kind, error) {
	if it.Kind == "" {
		if len(it.Items) > 0 {
			return menu.KindSubmenu, nil
		}
		return menu.KindNormal, nil
	}
	var k menu.Kind
	if err := k.UnmarshalText([]byte(it.Kind)); err != nil {
		return 0, err
	}
	return k, nil
}

func (it *Item) enabled() bool {
	return it.Enabled == nil || *it.Enabled
}

func (b *builder) create(it *Item, kind menu.Kind) (menu.Item, error) {
	id := menu.ID(it.ID)
	switch kind {
	case menu.KindNormal:
		if id != 0 {
			return menu.NewMenuItemWithID(id, it.Text, it.enabled(), it.Accelerator)
		}
		return menu.NewMenuItem(it.Text, it.enabled(), it.Accelerator), nil
	case menu.KindCheck:
		if id != 0 {
			return menu.NewCheckMenuItemWithID(id, it.Text, it.enabled(), it.Checked, it.Accelerator)
		}
		return menu.NewCheckMenuItem(it.Text, it.enabled(), it.Checked, it.Accelerator), nil
	case menu.KindRadio:
		if id != 0 {
			return menu.NewRadioMenuItemWithID(id, it.Text, it.Group, it.enabled(), it.Checked, it.Accelerator)
		}
		return menu.NewRadioMenuItem(it.Text, it.Group, it.enabled(), it.Checked, it.Accelerator), nil
	case menu.KindIcon:
		ic, err := b.icon(it.Icon)
		if err != nil {
			return nil, err
		}
		if id != 0 {
			return menu.NewIconMenuItemWithID(id, it.Text, it.enabled(), ic, it.Accelerator)
		}
		return menu.NewIconMenuItem(it.Text, it.enabled(), ic, it.Accelerator), nil
	case menu.KindSubmenu:
		if id != 0 {
			return menu.NewSubmenuWithID(id, it.Text, it.enabled())
		}
		return menu.NewSubmenu(it.Text, it.enabled()), nil
	case menu.KindPredefined:
		action, ok := native.ParseAction(it.Action)
		if !ok {
			return nil, fmt.Errorf("%w: unknown action %q", ErrInvalid, it.Action)
		}
		if action == native.ActionAbout {
			if id != 0 {
				return menu.NewAboutWithID(id, it.Text, b.layout.About)
			}
			return menu.NewAbout(it.Text, b.layout.About), nil
		}
		if id != 0 {
			return menu.NewPredefinedWithID(id, action, it.Text)
		}
		return menu.NewPredefinedWithText(action, it.Text), nil
	case menu.KindSeparator:
		return menu.NewSeparator(), nil
	}
	return nil, fmt.Errorf("%w: unsupported kind %s", ErrInvalid, kind)
}

func (b *builder) icon(path string) (*icon.Icon, error) {
	if path == "" {
		return nil, nil
	}
	if !filepath.IsAbs(path) && b.layout.dir != "" {
		path = filepath.Join(b.layout.dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open icon: %w", err)
	}
	defer f.Close()
	return icon.Decode(f)
}
