package menu

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/mchmarny/menusync/pkg/native"
)

// container is an ordered child list plus the native handles it is
// materialized in. Menus and submenus both embed one.
type container struct {
	owner    *entry // nil for a root menu
	children []Item
	bindings []binding
}

// Append adds item at the end.
func (c *container) Append(item Item) error {
	return c.insert(item, len(c.children))
}

// AppendItems adds items at the end in order. If any item is rejected none
// is added.
func (c *container) AppendItems(items ...Item) error {
	return c.InsertItems(items, len(c.children))
}

// Prepend adds item at the front.
func (c *container) Prepend(item Item) error {
	return c.insert(item, 0)
}

// PrependItems adds items at the front keeping their order.
func (c *container) PrependItems(items ...Item) error {
	return c.InsertItems(items, 0)
}

// Insert adds item at pos. Positions outside [0, Len] append.
func (c *container) Insert(item Item, pos int) error {
	return c.insert(item, pos)
}

// InsertItems inserts items starting at pos keeping their order. If any
// item is rejected none is inserted. Native failures are reported for the
// whole batch.
func (c *container) InsertItems(items []Item, pos int) error {
	if err := c.validateBatch(items); err != nil {
		return err
	}
	if pos < 0 || pos > len(c.children) {
		pos = len(c.children)
	}
	var errs []error
	for i, it := range items {
		errs = append(errs, c.insert(it, pos+i))
	}
	return errors.Join(errs...)
}

// Remove detaches item from this container and from every native handle it
// was materialized in through this container.
func (c *container) Remove(item Item) error {
	if item == nil || item.node() == nil {
		return ErrInvalidItem
	}
	idx := c.indexOf(item.node())
	if idx < 0 {
		return fmt.Errorf("%w: item %d", ErrNotFound, item.ID())
	}
	return c.removeAt(idx)
}

// RemoveAt removes and returns the child at pos.
func (c *container) RemoveAt(pos int) (Item, error) {
	if pos < 0 || pos >= len(c.children) {
		return nil, fmt.Errorf("%w: position %d of %d", ErrNotFound, pos, len(c.children))
	}
	item := c.children[pos]
	return item, c.removeAt(pos)
}

// Items yields a snapshot of the children taken when Items is called.
func (c *container) Items() iter.Seq[Item] {
	snapshot := slices.Clone(c.children)
	return func(yield func(Item) bool) {
		for _, it := range snapshot {
			if !yield(it) {
				return
			}
		}
	}
}

// Len returns the number of children.
func (c *container) Len() int {
	return len(c.children)
}

func (c *container) indexOf(e *entry) int {
	return slices.IndexFunc(c.children, func(it Item) bool { return it.node() == e })
}

// contains reports whether target is c or nested anywhere below it.
func (c *container) contains(target *container) bool {
	if c == target {
		return true
	}
	for _, it := range c.children {
		if sub := it.node().sub; sub != nil && sub.contains(target) {
			return true
		}
	}
	return false
}

func (c *container) validate(e *entry) error {
	if e.kind != KindSeparator && e.cmd == 0 {
		return ErrIDsExhausted
	}
	if c.indexOf(e) >= 0 {
		return fmt.Errorf("%w: item %d", ErrAlreadyChild, e.id)
	}
	if e.sub != nil && e.sub.contains(c) {
		return fmt.Errorf("%w: submenu %d", ErrCycle, e.id)
	}
	return nil
}

// validateBatch checks items as if each were inserted after the ones
// before it.
func (c *container) validateBatch(items []Item) error {
	seen := make(map[*entry]struct{}, len(items))
	for _, it := range items {
		if it == nil || it.node() == nil {
			return ErrInvalidItem
		}
		e := it.node()
		if err := c.validate(e); err != nil {
			return err
		}
		if _, dup := seen[e]; dup {
			return fmt.Errorf("%w: item %d", ErrAlreadyChild, e.id)
		}
		seen[e] = struct{}{}
	}
	return nil
}

func (c *container) insert(item Item, pos int) error {
	if item == nil || item.node() == nil {
		return ErrInvalidItem
	}
	e := item.node()
	if err := c.validate(e); err != nil {
		return err
	}
	if pos < 0 || pos > len(c.children) {
		pos = len(c.children)
	}

	c.children = slices.Insert(c.children, pos, item)
	e.parents = append(e.parents, c)

	var errs []error
	for _, b := range slices.Clone(c.bindings) {
		errs = append(errs, materialize(item, c, b, c.nativePos(b.handle, pos)))
	}
	errs = append(errs, c.changed(e.hasAccelerators()))

	if e.kind == KindRadio && e.checked {
		errs = append(errs, e.setChecked(true))
	}
	return errors.Join(errs...)
}

func (c *container) removeAt(idx int) error {
	item := c.children[idx]
	e := item.node()

	var errs []error
	for _, b := range slices.Clone(c.bindings) {
		i := e.attachmentIndex(c, b.handle)
		if i < 0 {
			continue
		}
		p := b.point
		if err := p.backend.RemoveEntry(b.handle, c.nativePos(b.handle, idx)); err != nil {
			// the entry stays linked natively, so its popup is left for the
			// parent handle to destroy
			errs = append(errs, p.fail("remove entry", err))
			forget(item, c, b.handle)
			continue
		}
		if own := forget(item, c, b.handle); own != 0 {
			if err := p.backend.DestroyMenu(own); err != nil {
				errs = append(errs, p.fail("destroy menu", err))
			}
		}
	}

	c.children = slices.Delete(c.children, idx, idx+1)
	if i := slices.Index(e.parents, c); i >= 0 {
		e.parents = slices.Delete(e.parents, i, i+1)
	}
	errs = append(errs, c.changed(e.hasAccelerators()))
	return errors.Join(errs...)
}

// nativePos maps a logical index to the entry position in handle h by
// counting the preceding siblings materialized there.
func (c *container) nativePos(h native.Handle, upto int) int {
	n := 0
	for _, it := range c.children[:upto] {
		if it.node().attachmentIndex(c, h) >= 0 {
			n++
		}
	}
	return n
}

func (c *container) unbind(h native.Handle) {
	c.bindings = slices.DeleteFunc(c.bindings, func(b binding) bool { return b.handle == h })
}

// points returns the distinct attachment points c is materialized under.
func (c *container) points() []*attachPoint {
	var out []*attachPoint
	for _, b := range c.bindings {
		if !slices.Contains(out, b.point) {
			out = append(out, b.point)
		}
	}
	return out
}

// changed redraws window bars whose top level is c and, when accels is set,
// rebuilds the accelerator tables of the affected windows.
func (c *container) changed(accels bool) error {
	var errs []error
	for _, b := range c.bindings {
		if b.handle == b.point.root {
			errs = append(errs, b.point.redraw())
		}
	}
	if accels {
		for _, p := range c.points() {
			errs = append(errs, p.rebuildAccelerators())
		}
	}
	return errors.Join(errs...)
}
