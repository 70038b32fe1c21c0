package scripting

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/cory-johannsen/satchel/internal/game/inventory"
)

// Filter is a compiled Lua boolean expression over a global `item` table
// holding the item's attributes as strings, e.g.
//
//	item.category == "pots" and tonumber(item.count) >= 2
type Filter struct {
	expr  string
	proto *lua.FunctionProto
	limit int
}

// CompileFilter parses expr once for repeated evaluation.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a Filter or a syntax error naming expr.
func CompileFilter(expr string, instLimit int) (*Filter, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("scripting: empty filter expression")
	}
	chunk, err := parse.Parse(strings.NewReader("return ("+expr+")"), "filter")
	if err != nil {
		return nil, fmt.Errorf("scripting: parsing filter %q: %w", expr, err)
	}
	proto, err := lua.Compile(chunk, "filter")
	if err != nil {
		return nil, fmt.Errorf("scripting: compiling filter %q: %w", expr, err)
	}
	return &Filter{expr: expr, proto: proto, limit: instLimit}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match evaluates the filter against it. Lua truthiness applies: only nil
// and false do not match.
//
// Postcondition: runtime errors and instruction-limit overruns are returned.
func (f *Filter) Match(it inventory.Item) (bool, error) {
	L, release := NewSandboxedState(f.limit)
	defer release()

	tbl := L.NewTable()
	for k, v := range it.All() {
		tbl.RawSetString(k, lua.LString(v))
	}
	L.SetGlobal("item", tbl)

	L.Push(L.NewFunctionFromProto(f.proto))
	if err := L.PCall(0, 1, nil); err != nil {
		return false, fmt.Errorf("scripting: evaluating filter %q: %w", f.expr, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return lua.LVAsBool(ret), nil
}

// Select returns the slots of the non-empty items in inv that match, in
// ascending order.
//
// Postcondition: stops at and returns the first evaluation error.
func (f *Filter) Select(inv *inventory.Inventory) ([]int, error) {
	var slots []int
	for slot, it := range inv.All() {
		if it.IsEmpty() {
			continue
		}
		ok, err := f.Match(it)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", slot, err)
		}
		if ok {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}
