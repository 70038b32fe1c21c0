package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cory-johannsen/satchel/internal/game/inventory"
)

// parseItemArgs builds an Item from key=value arguments, or from a single
// argument holding the canonical text form.
func parseItemArgs(args []string) (inventory.Item, error) {
	if len(args) == 1 && strings.HasPrefix(strings.TrimSpace(args[0]), "{") {
		it, err := inventory.ParseItem(args[0])
		if err != nil {
			return inventory.Item{}, fmt.Errorf("parse item: %w", err)
		}
		return it, nil
	}
	var it inventory.Item
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return inventory.Item{}, fmt.Errorf("invalid attribute %q: expected key=value", arg)
		}
		it.Set(key, value)
	}
	if it.IsEmpty() {
		return inventory.Item{}, fmt.Errorf("item needs at least one key=value attribute")
	}
	return it, nil
}

func parseSlot(arg string) (int, error) {
	slot, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q: %w", arg, err)
	}
	return slot, nil
}

func printSlot(w io.Writer, slot int, it inventory.Item) {
	if it.IsEmpty() {
		fmt.Fprintf(w, "%4d  <empty>\n", slot)
		return
	}
	fmt.Fprintf(w, "%4d  %s\n", slot, it)
}

func printSummary(w io.Writer, inv *inventory.Inventory) {
	fmt.Fprintf(w, "%d/%d slots used, %d empty\n", inv.Count(), inv.Size(), inv.EmptyCount())
}
