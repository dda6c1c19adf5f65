package menu

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when an explicit id is already used by a live item.
	ErrDuplicateID = errors.New("menu item id already in use")

	// ErrReservedID is returned when an explicit id falls in the predefined-action range.
	ErrReservedID = errors.New("menu item id is reserved for predefined actions")

	// ErrIDsExhausted is returned when an item without an id is added to a menu.
	ErrIDsExhausted = errors.New("no menu item ids available")

	// ErrNotFound is returned when an item is not a child of the menu or submenu.
	ErrNotFound = errors.New("menu item is not a child of this menu")

	// ErrAlreadyChild is returned when an item is added twice to the same menu or submenu.
	ErrAlreadyChild = errors.New("menu item is already a child of this menu")

	// ErrCycle is returned when a submenu would end up inside itself.
	ErrCycle = errors.New("submenu cannot contain itself")

	// ErrInvalidItem is returned for nil or zero-value items.
	ErrInvalidItem = errors.New("invalid menu item")

	// ErrNativeResource wraps every failure reported by the native backend.
	ErrNativeResource = errors.New("native menu operation failed")

	// ErrAlreadyAttached is returned when a window already has a menu.
	ErrAlreadyAttached = errors.New("window already has a menu")

	// ErrNotAttached is returned when the menu is not attached to the window.
	ErrNotAttached = errors.New("menu is not attached to this window")

	// ErrAcceleratorConflict matches every *AcceleratorConflict. Conflicts are
	// warnings: they never fail an operation.
	ErrAcceleratorConflict = errors.New("accelerator already bound")
)

func nativeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrNativeResource, op, err)
}
