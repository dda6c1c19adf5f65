package menu

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"weak"
)

// ID identifies a menu item for its whole lifetime. Zero means "no id".
//
// IDs double as native command identifiers, so they stay within the 16-bit
// range Win32 reports in WM_COMMAND.
type ID uint32

const (
	// ReservedFirst and ReservedLast bound the ids handed to predefined items
	// that were created without an explicit id.
	ReservedFirst ID = 0xE000
	ReservedLast  ID = 0xEFFF

	// MaxID is the largest id the allocator issues.
	MaxID ID = 0xFFFF
)

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IsReserved reports whether id is in the predefined-action range.
func (id ID) IsReserved() bool {
	return id >= ReservedFirst && id <= ReservedLast
}

// Allocator issues item ids and maps them back to their items. Items are
// held weakly: once an item is unreachable its id is released.
//
// All methods are safe for concurrent use.
type Allocator struct {
	mu           sync.Mutex
	next         ID
	nextReserved ID
	reservedFree []ID
	live         map[ID]weak.Pointer[entry]
	strict       bool
}

// AllocatorOption configures an Allocator.
type AllocatorOption func(*Allocator)

// WithStrictReservedRange controls whether explicit ids inside the reserved
// range are rejected (true, the default) or only checked against live ids.
func WithStrictReservedRange(strict bool) AllocatorOption {
	return func(a *Allocator) { a.strict = strict }
}

// NewAllocator returns an allocator that starts issuing ids at 1.
func NewAllocator(opts ...AllocatorOption) *Allocator {
	a := &Allocator{
		next:         1,
		nextReserved: ReservedFirst,
		live:         make(map[ID]weak.Pointer[entry]),
		strict:       true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAllocator = NewAllocator()

// DefaultAllocator returns the process-wide allocator used by the item constructors.
func DefaultAllocator() *Allocator {
	return defaultAllocator
}

// NextID returns the next free regular id without claiming it, or zero when
// every id is in use.
func (a *Allocator) NextID() ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nextLocked()
}

func (a *Allocator) nextLocked() ID {
	for range int(MaxID) {
		id := a.next
		a.advance()
		if id.IsReserved() || a.isLive(id) {
			continue
		}
		return id
	}
	return 0
}

func (a *Allocator) advance() {
	a.next++
	if a.next.IsReserved() {
		a.next = ReservedLast + 1
	}
	if a.next > MaxID {
		a.next = 1
	}
}

// isLive reports whether id belongs to a reachable item. Callers hold a.mu.
func (a *Allocator) isLive(id ID) bool {
	p, ok := a.live[id]
	if !ok {
		return false
	}
	if p.Value() == nil {
		a.releaseLocked(id)
		return false
	}
	return true
}

// Register claims id for item. It fails with ErrDuplicateID if id is live,
// and with ErrReservedID for reserved ids when the allocator is strict.
func (a *Allocator) Register(id ID, item Item) error {
	if item == nil || item.node() == nil {
		return ErrInvalidItem
	}
	return a.claimExplicit(item.node(), id)
}

// Resolve returns the live item registered under id. Reserved ids do not
// resolve: they belong to predefined items that carry no id.
func (a *Allocator) Resolve(id ID) (Item, bool) {
	if id.IsReserved() {
		return nil, false
	}
	e, ok := a.lookup(id)
	if !ok {
		return nil, false
	}
	return e.self, true
}

// Release forgets id so it can be issued again.
func (a *Allocator) Release(id ID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked(id)
}

func (a *Allocator) releaseLocked(id ID) {
	if _, ok := a.live[id]; !ok {
		return
	}
	delete(a.live, id)
	if id.IsReserved() {
		a.reservedFree = append(a.reservedFree, id)
	}
}

// releaseStale runs from the cleanup of a collected item. The id may have
// been released and claimed again since, so only a dead pointer is dropped.
func (a *Allocator) releaseStale(id ID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.live[id]; ok && p.Value() == nil {
		a.releaseLocked(id)
	}
}

// Len returns the number of registered ids, reserved ones included.
func (a *Allocator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

func (a *Allocator) lookup(id ID) (*entry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.live[id]
	if !ok {
		return nil, false
	}
	e := p.Value()
	if e == nil {
		a.releaseLocked(id)
		return nil, false
	}
	return e, true
}

// claim issues a fresh regular id for e. e.id stays zero when ids are exhausted.
func (a *Allocator) claim(e *entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextLocked()
	if id == 0 {
		return
	}
	a.bindLocked(e, id)
	e.id = id
	e.cmd = uint32(id)
}

// claimReserved issues a command from the reserved range for a predefined
// item without an id.
func (a *Allocator) claimReserved(e *entry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for {
		var id ID
		if n := len(a.reservedFree); n > 0 {
			id = a.reservedFree[n-1]
			a.reservedFree = a.reservedFree[:n-1]
		} else if a.nextReserved <= ReservedLast {
			id = a.nextReserved
			a.nextReserved++
		} else {
			return
		}
		// a lenient allocator lets explicit ids into the range
		if a.isLive(id) {
			continue
		}
		a.bindLocked(e, id)
		e.cmd = uint32(id)
		return
	}
}

func (a *Allocator) claimExplicit(e *entry, id ID) error {
	if id == 0 || id > MaxID {
		return fmt.Errorf("%w: %d is outside 1..%d", ErrInvalidItem, id, MaxID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.strict && id.IsReserved() {
		return fmt.Errorf("%w: %d", ErrReservedID, id)
	}
	if a.isLive(id) {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	if e.cmd != 0 {
		a.releaseLocked(ID(e.cmd))
	}
	a.bindLocked(e, id)
	e.id = id
	e.cmd = uint32(id)
	e.explicit = true
	return nil
}

// bindLocked records the weak mapping and arranges for the id to be
// released when e is collected. Callers hold a.mu.
func (a *Allocator) bindLocked(e *entry, id ID) {
	a.live[id] = weak.Make(e)
	runtime.AddCleanup(e, a.releaseStale, id)
}
