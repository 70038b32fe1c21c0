package inventory

import (
	"errors"
	"fmt"
)

// Error kinds reported by Inventory operations. Match them with errors.Is.
var (
	// ErrOutOfRange is returned when a slot index is outside [0, Size()).
	ErrOutOfRange = errors.New("slot out of range")
	// ErrFull is returned when an item is added and no slot is empty.
	ErrFull = errors.New("inventory is full")
	// ErrSlotEmpty is returned when removing from a slot that holds no item.
	ErrSlotEmpty = errors.New("slot is empty")
	// ErrNoSuchItem is returned when removing an item by value that is not held.
	ErrNoSuchItem = errors.New("no such item")
	// ErrIncomparableTypes is returned when a keyword sort meets an integer
	// value and a non-integer value under the same key.
	ErrIncomparableTypes = errors.New("incomparable attribute values")
	// ErrCorruptRecord is returned when a persisted line cannot be parsed.
	ErrCorruptRecord = errors.New("corrupt record")
	// ErrIO is returned when reading or writing persisted data fails.
	ErrIO = errors.New("inventory i/o failure")
	// ErrInvalidCapacity is returned for a negative capacity.
	ErrInvalidCapacity = errors.New("invalid capacity")
	// ErrInvalidText is returned when an item key or value is not valid
	// UTF-8 and so has no canonical text form.
	ErrInvalidText = errors.New("attribute is not valid UTF-8")
)

// RecordError reports an unparsable persisted line.
type RecordError struct {
	// Line is the 1-based line number of the offending record.
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("inventory: line %d: %v: %v", e.Line, ErrCorruptRecord, e.Err)
}

// Is reports ErrCorruptRecord as a match.
func (e *RecordError) Is(target error) bool {
	return target == ErrCorruptRecord
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
