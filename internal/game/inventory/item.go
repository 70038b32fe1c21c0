package inventory

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"unicode/utf8"
)

// Attr is a single key/value attribute used to build an Item.
type Attr struct {
	Key   string
	Value string
}

// Item is an open attribute bag mapping string keys to string values.
// An Item with no attributes is the empty placeholder held by vacant slots.
//
// Keys keep their insertion order; overwriting a key keeps its position.
// The zero value is an empty Item ready for use. Copies made by assignment
// are independent: Set never writes to storage another copy can see.
type Item struct {
	keys   []string
	values map[string]string
}

// NewItem returns an Item holding attrs in the given order.
//
// Postcondition: later duplicates of a key overwrite the earlier value in place.
func NewItem(attrs ...Attr) Item {
	var it Item
	for _, a := range attrs {
		it.Set(a.Key, a.Value)
	}
	return it
}

// Get returns the value stored under key and whether it was present.
func (it Item) Get(key string) (string, bool) {
	v, ok := it.values[key]
	return v, ok
}

// Set inserts or overwrites the value for key.
//
// Postcondition: Get(key) returns (value, true); copies of it taken before
// the call are unchanged.
func (it *Item) Set(key, value string) {
	values := make(map[string]string, len(it.values)+1)
	maps.Copy(values, it.values)
	if _, exists := values[key]; !exists {
		it.keys = append(slices.Clip(it.keys), key)
	}
	values[key] = value
	it.values = values
}

// Has reports whether key is present.
func (it Item) Has(key string) bool {
	_, ok := it.values[key]
	return ok
}

// IsEmpty reports whether the Item has no attributes.
func (it Item) IsEmpty() bool {
	return len(it.keys) == 0
}

// Len returns the number of attributes.
func (it Item) Len() int {
	return len(it.keys)
}

// Keys returns a copy of the attribute keys in insertion order.
func (it Item) Keys() []string {
	out := make([]string, len(it.keys))
	copy(out, it.keys)
	return out
}

// All yields the attributes in insertion order.
func (it Item) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range it.keys {
			if !yield(k, it.values[k]) {
				return
			}
		}
	}
}

// Equal reports whether it and other hold the same key/value mapping.
// Insertion order is not considered.
func (it Item) Equal(other Item) bool {
	return maps.Equal(it.values, other.values)
}

// Validate reports whether every key and value is valid UTF-8, which the
// canonical text form requires to round-trip.
//
// Postcondition: returns nil or an error wrapping ErrInvalidText.
func (it Item) Validate() error {
	for _, k := range it.keys {
		if !utf8.ValidString(k) {
			return fmt.Errorf("key %q: %w", k, ErrInvalidText)
		}
		if v := it.values[k]; !utf8.ValidString(v) {
			return fmt.Errorf("value of %q: %w", k, ErrInvalidText)
		}
	}
	return nil
}

// Clone returns a deep copy that shares no state with it.
func (it Item) Clone() Item {
	if it.IsEmpty() {
		return Item{}
	}
	out := Item{
		keys:   make([]string, len(it.keys)),
		values: make(map[string]string, len(it.values)),
	}
	copy(out.keys, it.keys)
	maps.Copy(out.values, it.values)
	return out
}
