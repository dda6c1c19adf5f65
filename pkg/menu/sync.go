package menu

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/mchmarny/menusync/pkg/metric"
	"github.com/mchmarny/menusync/pkg/native"
)

// attachPoint is one native rendering of a root: a window menu bar, or the
// transient popup of a context menu.
type attachPoint struct {
	backend native.Backend
	window  native.Window
	root    native.Handle
	menu    *Menu // nil for a submenu shown as a context menu
	popup   bool
	visible bool
	theme   native.Theme

	accel     native.AccelTable
	conflicts []*AcceleratorConflict

	log *slog.Logger
	rec *metric.Recorder
}

// binding is a native handle a container is materialized in.
type binding struct {
	handle native.Handle
	point  *attachPoint
}

// attachment records that an item has an entry in handle, placed there
// through parent. own is the popup created for a submenu, zero otherwise.
type attachment struct {
	parent *container
	handle native.Handle
	own    native.Handle
	point  *attachPoint
}

func (p *attachPoint) fail(op string, err error) error {
	p.log.Error("native menu operation failed",
		"op", op,
		"window", uint64(p.window),
		"error", err,
	)
	p.rec.NativeError(op)
	return nativeErr(op, err)
}

func (p *attachPoint) redraw() error {
	if p.popup || !p.visible {
		return nil
	}
	if err := p.backend.DrawMenuBar(p.window); err != nil {
		return p.fail("draw menu bar", err)
	}
	return nil
}

// applyTheme records theme once the backend accepted it.
func (p *attachPoint) applyTheme(theme native.Theme) error {
	if err := p.backend.SetMenuBarTheme(p.window, theme); err != nil {
		return p.fail("set menu bar theme", err)
	}
	p.theme = theme
	return nil
}

// rebuildAccelerators replaces the window's accelerator table with one
// built from the current tree. The old table survives a failed rebuild.
func (p *attachPoint) rebuildAccelerators() error {
	if p.popup || p.menu == nil {
		return nil
	}
	tbl := BuildAcceleratorTable(p.menu.Items())
	for _, c := range tbl.Conflicts {
		p.log.Warn("accelerator conflict",
			"accelerator", c.Accelerator.String(),
			"kept", c.Kept.ID().String(),
			"dropped", c.Dropped.ID().String(),
			"window", uint64(p.window),
		)
		p.rec.AcceleratorConflict()
	}
	p.conflicts = tbl.Conflicts

	var next native.AccelTable
	if len(tbl.Entries) > 0 {
		t, err := p.backend.CreateAcceleratorTable(tbl.Entries)
		if err != nil {
			return p.fail("create accelerator table", err)
		}
		next = t
	}
	var err error
	if p.accel != 0 {
		if derr := p.backend.DestroyAcceleratorTable(p.accel); derr != nil {
			err = p.fail("destroy accelerator table", derr)
		}
	}
	p.accel = next
	return err
}

func (p *attachPoint) releaseAccelerators() error {
	if p.accel == 0 {
		return nil
	}
	t := p.accel
	p.accel = 0
	p.conflicts = nil
	if err := p.backend.DestroyAcceleratorTable(t); err != nil {
		return p.fail("destroy accelerator table", err)
	}
	return nil
}

func (e *entry) attachmentIndex(parent *container, h native.Handle) int {
	return slices.IndexFunc(e.attachments, func(a attachment) bool {
		return a.parent == parent && a.handle == h
	})
}

// materialize creates the native entry for item at pos in b.handle, and the
// popup subtree when item is a submenu. A subtree entry that fails is
// skipped; the rest is still built.
func materialize(item Item, parent *container, b binding, pos int) error {
	e := item.node()
	p := b.point

	var (
		own  native.Handle
		errs []error
	)
	if e.sub != nil {
		h, err := p.backend.CreatePopupMenu()
		if err != nil {
			return p.fail("create popup menu", err)
		}
		own = h
		ob := binding{handle: own, point: p}
		e.sub.bindings = append(e.sub.bindings, ob)
		n := 0
		for _, child := range e.sub.children {
			if err := materialize(child, e.sub, ob, n); err != nil {
				errs = append(errs, err)
				continue
			}
			n++
		}
	}

	if err := p.backend.InsertEntry(b.handle, pos, e.nativeEntry(own)); err != nil {
		errs = append(errs, p.fail("insert entry", err))
		if own != 0 {
			for _, child := range e.sub.children {
				forget(child, e.sub, own)
			}
			e.sub.unbind(own)
			if derr := p.backend.DestroyMenu(own); derr != nil {
				errs = append(errs, p.fail("destroy menu", derr))
			}
		}
		return errors.Join(errs...)
	}

	e.attachments = append(e.attachments, attachment{parent: parent, handle: b.handle, own: own, point: p})
	return errors.Join(errs...)
}

// materializeChildren fills an empty handle with the children of c.
func materializeChildren(c *container, b binding) error {
	var errs []error
	n := 0
	for _, child := range c.children {
		if err := materialize(child, c, b, n); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return errors.Join(errs...)
}

// forget drops the records of item's entry in h, recursively, and returns
// the popup handle that entry owned. No native call is made: destroying the
// returned handle destroys the whole subtree.
func forget(item Item, parent *container, h native.Handle) native.Handle {
	e := item.node()
	i := e.attachmentIndex(parent, h)
	if i < 0 {
		return 0
	}
	own := e.attachments[i].own
	e.attachments = slices.Delete(e.attachments, i, i+1)
	if own != 0 {
		for _, child := range e.sub.children {
			forget(child, e.sub, own)
		}
		e.sub.unbind(own)
	}
	return own
}

// forgetChildren drops the records of every child of c in h and unbinds h.
func forgetChildren(c *container, h native.Handle) {
	for _, child := range c.children {
		forget(child, c, h)
	}
	c.unbind(h)
}

// refresh rewrites the item's native entry in every handle it is shown in.
func (e *entry) refresh() error {
	var errs []error
	for _, a := range slices.Clone(e.attachments) {
		pos := a.parent.nativePos(a.handle, a.parent.indexOf(e))
		if err := a.point.backend.ModifyEntry(a.handle, pos, e.nativeEntry(a.own)); err != nil {
			errs = append(errs, a.point.fail("modify entry", err))
			continue
		}
		if a.handle == a.point.root {
			errs = append(errs, a.point.redraw())
		}
	}
	return errors.Join(errs...)
}

// rebuildAccelerators rebuilds the table of every window the item is shown in.
func (e *entry) rebuildAccelerators() error {
	var (
		points []*attachPoint
		errs   []error
	)
	for _, a := range e.attachments {
		if !slices.Contains(points, a.point) {
			points = append(points, a.point)
		}
	}
	for _, p := range points {
		errs = append(errs, p.rebuildAccelerators())
	}
	return errors.Join(errs...)
}
