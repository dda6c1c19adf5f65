package menu

import (
	"errors"
	"log/slog"

	"github.com/mchmarny/menusync/pkg/dpi"
	"github.com/mchmarny/menusync/pkg/metric"
	"github.com/mchmarny/menusync/pkg/native"
)

// ContextMenu is a container that can be shown as a popup: *Menu or *Submenu.
type ContextMenu interface {
	contextRoot() *container
}

var (
	_ ContextMenu = (*Menu)(nil)
	_ ContextMenu = (*Submenu)(nil)
)

// ShowContextMenu shows cm as a popup on w and blocks until it is dismissed.
// pos is relative to the top-left of w's client area; nil shows the popup at
// the cursor. A selected item is dispatched like a menu bar command before
// ShowContextMenu returns true. The popup's native handles are released on
// return.
func ShowContextMenu(b native.Backend, cm ContextMenu, w native.Window, pos *dpi.Position) (bool, error) {
	if m, ok := cm.(*Menu); ok {
		return showContextMenu(b, &m.container, m, w, pos, m.log, m.rec)
	}
	return showContextMenu(b, cm.contextRoot(), nil, w, pos, slog.Default(), nil)
}

func showContextMenu(b native.Backend, c *container, m *Menu, w native.Window, pos *dpi.Position, log *slog.Logger, rec *metric.Recorder) (bool, error) {
	at, err := popupPoint(b, w, pos)
	if err != nil {
		rec.NativeError("popup position")
		return false, nativeErr("popup position", err)
	}

	h, err := b.CreatePopupMenu()
	if err != nil {
		rec.NativeError("create popup menu")
		return false, nativeErr("create popup menu", err)
	}
	p := &attachPoint{
		backend: b,
		window:  w,
		root:    h,
		menu:    m,
		popup:   true,
		visible: true,
		log:     log,
		rec:     rec,
	}
	bnd := binding{handle: h, point: p}
	c.bindings = append(c.bindings, bnd)
	partial := materializeChildren(c, bnd)

	cmd, terr := b.TrackPopupMenu(w, h, at)

	forgetChildren(c, h)
	errs := []error{partial}
	if err := b.DestroyMenu(h); err != nil {
		errs = append(errs, p.fail("destroy menu", err))
	}
	if terr != nil {
		errs = append(errs, p.fail("track popup menu", terr))
		return false, errors.Join(errs...)
	}
	if cmd == 0 {
		return false, errors.Join(errs...)
	}

	dispatch(b, w, cmd, log, rec)
	return true, errors.Join(errs...)
}

// popupPoint converts pos to screen coordinates.
func popupPoint(b native.Backend, w native.Window, pos *dpi.Position) (native.Point, error) {
	if pos == nil {
		return b.CursorPosition()
	}
	scale, err := b.ScaleFactor(w)
	if err != nil {
		return native.Point{}, err
	}
	phys, err := pos.ToPhysical(scale)
	if err != nil {
		return native.Point{}, err
	}
	return b.ClientToScreen(w, native.Point{X: phys.X, Y: phys.Y})
}
