package inventory

import (
	"fmt"
	"slices"
	"strings"
)

// Compact moves every non-empty item ahead of every empty slot, keeping the
// relative order within each group.
//
// Postcondition: for all i < j, slot j non-empty implies slot i non-empty;
// Size() and Count() are unchanged.
func (inv *Inventory) Compact() {
	out := make([]Item, 0, len(inv.slots))
	for i := range inv.slots {
		if !inv.slots[i].IsEmpty() {
			out = append(out, inv.slots[i])
		}
	}
	out = out[:len(inv.slots)]
	inv.slots = out
	inv.recount()
}

// SortBy compacts the inventory and then stably orders the non-empty items
// by the value of key:
//   - items holding key come before items lacking it
//   - two non-negative integer values compare numerically
//   - any other two values compare byte-wise, a strict prefix first
//
// Postcondition: returns ErrIncomparableTypes without modifying state when
// key holds an integer value on one item and a non-integer value on another.
func (inv *Inventory) SortBy(key string) error {
	if err := inv.checkComparable(key); err != nil {
		return err
	}
	inv.Compact()
	slices.SortStableFunc(inv.slots[:inv.count], compareByKey(key))
	inv.recount()
	return nil
}

func (inv *Inventory) checkComparable(key string) error {
	var numeric, text string
	var sawNumeric, sawText bool
	for i := range inv.slots {
		v, ok := inv.slots[i].Get(key)
		if !ok {
			continue
		}
		if isInteger(v) {
			numeric, sawNumeric = v, true
		} else {
			text, sawText = v, true
		}
		if sawNumeric && sawText {
			return fmt.Errorf("inventory: SortBy %q: %q vs %q: %w", key, numeric, text, ErrIncomparableTypes)
		}
	}
	return nil
}

func compareByKey(key string) func(a, b Item) int {
	return func(a, b Item) int {
		av, aok := a.Get(key)
		bv, bok := b.Get(key)
		switch {
		case !aok && !bok:
			return 0
		case !bok:
			return -1
		case !aok:
			return 1
		}
		if isInteger(av) && isInteger(bv) {
			return compareIntegers(av, bv)
		}
		return strings.Compare(av, bv)
	}
}

// isInteger reports whether s is a non-empty run of ASCII digits.
func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// compareIntegers compares two digit strings numerically without overflow.
func compareIntegers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
