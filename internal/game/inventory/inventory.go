// Package inventory manages a fixed-capacity array of slots, each holding an
// attribute-bag Item, with flat-text persistence and keyword sorting.
//
// An Inventory is not safe for concurrent use; callers must serialize access.
package inventory

import (
	"cmp"
	"fmt"
	"iter"
	"strings"
)

// NotFound is returned by the Find family when no slot matches.
const NotFound = -1

// Inventory is an ordered, fixed-length sequence of slots.
//
// Invariant: len(slots) == Size() and count == number of non-empty slots.
type Inventory struct {
	slots []Item
	count int
}

// New returns an Inventory with size empty slots.
//
// Precondition: size >= 0.
// Postcondition: Size() == size and Count() == 0, or ErrInvalidCapacity.
func New(size int) (*Inventory, error) {
	if size < 0 {
		return nil, fmt.Errorf("inventory: New: capacity %d: %w", size, ErrInvalidCapacity)
	}
	return &Inventory{slots: make([]Item, size)}, nil
}

// Size returns the slot capacity.
func (inv *Inventory) Size() int {
	return len(inv.slots)
}

// Count returns the number of non-empty slots.
func (inv *Inventory) Count() int {
	return inv.count
}

// EmptyCount returns the number of empty slots.
func (inv *Inventory) EmptyCount() int {
	return len(inv.slots) - inv.count
}

// HasSpace reports whether at least one slot is empty.
func (inv *Inventory) HasSpace() bool {
	return inv.count != len(inv.slots)
}

// IsFull reports whether every slot holds an item. A zero-capacity
// Inventory is both full and empty.
func (inv *Inventory) IsFull() bool {
	return inv.count == len(inv.slots)
}

// IsEmpty reports whether no slot holds an item.
func (inv *Inventory) IsEmpty() bool {
	return inv.count == 0
}

func (inv *Inventory) checkSlot(op string, slot int) error {
	if slot < 0 || slot >= len(inv.slots) {
		return fmt.Errorf("inventory: %s: slot %d not in [0, %d): %w", op, slot, len(inv.slots), ErrOutOfRange)
	}
	return nil
}

// Get returns a copy of the item in slot. ok is false when the slot is empty.
//
// Postcondition: returns ErrOutOfRange iff slot is outside [0, Size()).
func (inv *Inventory) Get(slot int) (item Item, ok bool, err error) {
	if err := inv.checkSlot("Get", slot); err != nil {
		return Item{}, false, err
	}
	if inv.slots[slot].IsEmpty() {
		return Item{}, false, nil
	}
	return inv.slots[slot].Clone(), true, nil
}

// Set replaces the contents of slot with a copy of item.
//
// Postcondition: on success Get(slot) is Equal to item and Count() reflects
// any empty/non-empty transition; on error (ErrOutOfRange, ErrInvalidText)
// state is unchanged.
func (inv *Inventory) Set(slot int, item Item) error {
	if err := inv.checkSlot("Set", slot); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("inventory: Set: slot %d: %w", slot, err)
	}
	inv.put(slot, item.Clone())
	return nil
}

// put stores item in slot and adjusts the cached count.
func (inv *Inventory) put(slot int, item Item) {
	wasEmpty := inv.slots[slot].IsEmpty()
	inv.slots[slot] = item
	switch {
	case wasEmpty && !item.IsEmpty():
		inv.count++
	case !wasEmpty && item.IsEmpty():
		inv.count--
	}
}

// Add stores a copy of item in the first empty slot and returns that slot.
//
// Postcondition: returns ErrFull or ErrInvalidText without modifying state.
func (inv *Inventory) Add(item Item) (int, error) {
	if err := item.Validate(); err != nil {
		return NotFound, fmt.Errorf("inventory: Add: %w", err)
	}
	slot := inv.FindFirstEmpty()
	if slot == NotFound {
		return NotFound, fmt.Errorf("inventory: Add: %d of %d slots used: %w", inv.count, len(inv.slots), ErrFull)
	}
	inv.put(slot, item.Clone())
	return slot, nil
}

// RemoveFrom empties slot and returns the item it held.
//
// Postcondition: returns ErrOutOfRange or ErrSlotEmpty without modifying state.
func (inv *Inventory) RemoveFrom(slot int) (Item, error) {
	if err := inv.checkSlot("RemoveFrom", slot); err != nil {
		return Item{}, err
	}
	if inv.slots[slot].IsEmpty() {
		return Item{}, fmt.Errorf("inventory: RemoveFrom: slot %d: %w", slot, ErrSlotEmpty)
	}
	removed := inv.slots[slot]
	inv.put(slot, Item{})
	return removed, nil
}

// Remove empties the first slot holding an item Equal to item and returns
// that slot.
//
// Postcondition: returns ErrNoSuchItem without modifying state when no slot matches.
func (inv *Inventory) Remove(item Item) (int, error) {
	slot := inv.Find(item)
	if slot == NotFound {
		return NotFound, fmt.Errorf("inventory: Remove: %s: %w", item, ErrNoSuchItem)
	}
	if _, err := inv.RemoveFrom(slot); err != nil {
		return NotFound, err
	}
	return slot, nil
}

// RemoveAll empties every slot and returns the removed items in slot order.
//
// Postcondition: Count() == 0 and Size() is unchanged.
func (inv *Inventory) RemoveAll() []Item {
	out := make([]Item, 0, inv.count)
	for i := range inv.slots {
		if !inv.slots[i].IsEmpty() {
			out = append(out, inv.slots[i])
			inv.slots[i] = Item{}
		}
	}
	inv.count = 0
	return out
}

// Find returns the first slot whose item is Equal to item, or NotFound.
func (inv *Inventory) Find(item Item) int {
	return inv.FindFunc(item.Equal)
}

// FindFunc returns the first slot whose item satisfies match, or NotFound.
// Empty slots are offered to match as empty Items.
func (inv *Inventory) FindFunc(match func(Item) bool) int {
	for i := range inv.slots {
		if match(inv.slots[i]) {
			return i
		}
	}
	return NotFound
}

// FindFirstItem returns the first non-empty slot, or NotFound.
func (inv *Inventory) FindFirstItem() int {
	if inv.count == 0 {
		return NotFound
	}
	return inv.FindFunc(func(it Item) bool { return !it.IsEmpty() })
}

// FindFirstEmpty returns the first empty slot, or NotFound.
func (inv *Inventory) FindFirstEmpty() int {
	if !inv.HasSpace() {
		return NotFound
	}
	return inv.FindFunc(Item.IsEmpty)
}

// All yields every slot index with a copy of its item, empty slots included,
// in ascending slot order. Each call starts a fresh pass.
func (inv *Inventory) All() iter.Seq2[int, Item] {
	return func(yield func(int, Item) bool) {
		for i := range inv.slots {
			if !yield(i, inv.slots[i].Clone()) {
				return
			}
		}
	}
}

// Items returns copies of all non-empty items in ascending slot order.
func (inv *Inventory) Items() []Item {
	return inv.collect(func(it Item) bool { return !it.IsEmpty() })
}

// ItemsWithAttribute returns copies of the items that hold key, in slot order.
func (inv *Inventory) ItemsWithAttribute(key string) []Item {
	return inv.collect(func(it Item) bool { return it.Has(key) })
}

// ItemsWithAttributeValue returns copies of the items whose key equals value,
// in slot order.
func (inv *Inventory) ItemsWithAttributeValue(key, value string) []Item {
	return inv.collect(func(it Item) bool {
		v, ok := it.Get(key)
		return ok && v == value
	})
}

func (inv *Inventory) collect(match func(Item) bool) []Item {
	var out []Item
	for i := range inv.slots {
		if match(inv.slots[i]) {
			out = append(out, inv.slots[i].Clone())
		}
	}
	return out
}

// Resize changes the capacity to size, truncating trailing slots or padding
// with empty slots.
//
// Precondition: size >= 0.
// Postcondition: Size() == size, slots below min(old, new) are unchanged and
// Count() is recomputed.
func (inv *Inventory) Resize(size int) error {
	if size < 0 {
		return fmt.Errorf("inventory: Resize: capacity %d: %w", size, ErrInvalidCapacity)
	}
	inv.slots = conform(inv.slots, size)
	inv.recount()
	return nil
}

// conform truncates or pads slots to exactly size entries.
func conform(slots []Item, size int) []Item {
	if len(slots) >= size {
		clear(slots[size:])
		return slots[:size:size]
	}
	out := make([]Item, size)
	copy(out, slots)
	return out
}

func (inv *Inventory) recount() {
	n := 0
	for i := range inv.slots {
		if !inv.slots[i].IsEmpty() {
			n++
		}
	}
	inv.count = n
}

// Equal reports whether both inventories have the same size and each slot
// holds an Equal item.
func (inv *Inventory) Equal(other *Inventory) bool {
	if len(inv.slots) != len(other.slots) {
		return false
	}
	for i := range inv.slots {
		if !inv.slots[i].Equal(other.slots[i]) {
			return false
		}
	}
	return true
}

// Compare orders inventories by Count. It is suitable for slices.SortFunc.
func Compare(a, b *Inventory) int {
	return cmp.Compare(a.count, b.count)
}

// Clone returns a deep copy of inv.
func (inv *Inventory) Clone() *Inventory {
	out := &Inventory{slots: make([]Item, len(inv.slots)), count: inv.count}
	for i := range inv.slots {
		out.slots[i] = inv.slots[i].Clone()
	}
	return out
}

// String returns a debug form listing every slot, e.g. [ {"name": "potion"}, , ].
func (inv *Inventory) String() string {
	var b strings.Builder
	b.WriteString("[ ")
	for i := range inv.slots {
		b.WriteString(inv.slots[i].String())
		b.WriteString(", ")
	}
	b.WriteString("]")
	return b.String()
}
