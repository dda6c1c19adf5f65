package menu

import (
	"fmt"
	"iter"

	"github.com/mchmarny/menusync/pkg/accelerator"
	"github.com/mchmarny/menusync/pkg/native"
)

// AcceleratorConflict reports an accelerator claimed by two items. The item
// met first in depth-first order keeps the binding.
type AcceleratorConflict struct {
	Accelerator accelerator.Accelerator
	Kept        Item
	Dropped     Item
}

func (c *AcceleratorConflict) Error() string {
	return fmt.Sprintf("accelerator %s already bound to %q, ignored for %q",
		c.Accelerator, c.Kept.node().text, c.Dropped.node().text)
}

// Is makes every conflict match ErrAcceleratorConflict.
func (c *AcceleratorConflict) Is(target error) bool {
	return target == ErrAcceleratorConflict
}

// AcceleratorTable is the compiled set of key bindings for one window.
type AcceleratorTable struct {
	Entries   []native.Accel
	Conflicts []*AcceleratorConflict
}

// BuildAcceleratorTable walks items depth first and collects one entry per
// distinct accelerator. An item reached twice through a shared submenu is
// not a conflict with itself.
func BuildAcceleratorTable(items iter.Seq[Item]) AcceleratorTable {
	var (
		tbl   AcceleratorTable
		owner = make(map[accelerator.Accelerator]Item)
	)
	var walk func(iter.Seq[Item])
	walk = func(seq iter.Seq[Item]) {
		for it := range seq {
			e := it.node()
			switch e.kind {
			case KindSubmenu:
				walk(e.sub.Items())
				continue
			case KindSeparator:
				continue
			case KindNormal, KindCheck, KindRadio, KindIcon, KindPredefined:
			}
			if e.accel == nil {
				continue
			}
			kept, taken := owner[*e.accel]
			if !taken {
				owner[*e.accel] = it
				tbl.Entries = append(tbl.Entries, native.Accel{Accelerator: *e.accel, Command: e.cmd})
				continue
			}
			if kept.node() != e {
				tbl.Conflicts = append(tbl.Conflicts, &AcceleratorConflict{
					Accelerator: *e.accel,
					Kept:        kept,
					Dropped:     it,
				})
			}
		}
	}
	walk(items)
	return tbl
}
