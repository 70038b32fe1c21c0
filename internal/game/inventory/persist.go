package inventory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Read builds an Inventory of the given capacity from persisted text.
//
// Precondition: size >= 0.
// Postcondition: equivalent to New(size) followed by Load(r).
func Read(r io.Reader, size int) (*Inventory, error) {
	inv, err := New(size)
	if err != nil {
		return nil, err
	}
	if err := inv.Load(r); err != nil {
		return nil, err
	}
	return inv, nil
}

// Load replaces the slot contents with records read from r, one per line.
//
// Blank lines are empty slots. The result always has the current capacity:
// lines beyond Size() are ignored and missing lines become empty slots.
//
// Postcondition: on success Count() is recomputed; on error (ErrCorruptRecord
// via *RecordError, or ErrIO) the Inventory is unchanged.
func (inv *Inventory) Load(r io.Reader) error {
	slots := make([]Item, len(inv.slots))
	br := bufio.NewReader(r)
	for line := 0; line < len(slots); line++ {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("inventory: Load: line %d: %w: %w", line+1, ErrIO, err)
		}
		if text == "" && err != nil {
			break
		}
		item, perr := ParseItem(strings.TrimRight(text, "\r\n"))
		if perr != nil {
			return &RecordError{Line: line + 1, Err: perr}
		}
		slots[line] = item
		if err != nil {
			break
		}
	}
	inv.slots = slots
	inv.recount()
	return nil
}

// Save writes exactly Size() lines to w, the canonical text form of each
// slot in ascending order. Saving an unmodified Inventory twice produces
// identical output.
//
// Postcondition: write failures are returned wrapped with ErrIO.
func (inv *Inventory) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := range inv.slots {
		if _, err := bw.WriteString(inv.slots[i].String()); err != nil {
			return fmt.Errorf("inventory: Save: slot %d: %w: %w", i, ErrIO, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("inventory: Save: slot %d: %w: %w", i, ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("inventory: Save: flushing: %w: %w", ErrIO, err)
	}
	return nil
}
