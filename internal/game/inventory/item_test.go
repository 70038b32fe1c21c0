package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/satchel/internal/game/inventory"
)

func item(kv ...string) inventory.Item {
	var it inventory.Item
	for i := 0; i+1 < len(kv); i += 2 {
		it.Set(kv[i], kv[i+1])
	}
	return it
}

func TestItem_ZeroValueIsEmpty(t *testing.T) {
	var it inventory.Item
	assert.True(t, it.IsEmpty())
	assert.Equal(t, 0, it.Len())
	assert.Equal(t, "", it.String())
}

func TestItem_GetSetHas(t *testing.T) {
	it := inventory.NewItem(inventory.Attr{Key: "name", Value: "potion"})

	v, ok := it.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "potion", v)

	_, ok = it.Get("type")
	assert.False(t, ok)
	assert.False(t, it.Has("type"))

	it.Set("type", "pots")
	assert.True(t, it.Has("type"))
	assert.False(t, it.IsEmpty())
}

func TestItem_OverwriteKeepsPosition(t *testing.T) {
	it := item("name", "potion", "count", "3")
	it.Set("name", "elixir")
	assert.Equal(t, []string{"name", "count"}, it.Keys())
	assert.Equal(t, `{"name": "elixir", "count": "3"}`, it.String())
}

func TestItem_EqualIgnoresOrder(t *testing.T) {
	a := item("name", "potion", "count", "3")
	b := item("count", "3", "name", "potion")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(item("name", "potion")))
	assert.True(t, inventory.Item{}.Equal(item()))
}

func TestItem_CloneIsIndependent(t *testing.T) {
	a := item("name", "potion")
	b := a.Clone()
	b.Set("name", "elixir")
	v, _ := a.Get("name")
	assert.Equal(t, "potion", v)
}

func TestItem_AssignedCopyIsIndependent(t *testing.T) {
	a := item("name", "potion")
	b := a
	b.Set("count", "3")

	assert.False(t, a.Has("count"))
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, `{"name": "potion"}`, a.String())
	assert.False(t, a.Equal(b))

	c := b
	c.Set("name", "elixir")
	v, _ := b.Get("name")
	assert.Equal(t, "potion", v)
	assert.Equal(t, []string{"name", "count"}, c.Keys())
}

func TestItem_CopiesWithSpareCapacityDoNotShareKeys(t *testing.T) {
	base := item("a", "1", "b", "2", "c", "3")
	x, y := base, base
	x.Set("x", "1")
	y.Set("y", "1")
	assert.Equal(t, []string{"a", "b", "c", "x"}, x.Keys())
	assert.Equal(t, []string{"a", "b", "c", "y"}, y.Keys())
	assert.Equal(t, 3, base.Len())
}

func TestItem_ValidateRejectsInvalidUTF8(t *testing.T) {
	assert.NoError(t, item("name", "pöt").Validate())
	assert.ErrorIs(t, item("name", "\xff\xfe").Validate(), inventory.ErrInvalidText)
	assert.ErrorIs(t, item("\xc3", "x").Validate(), inventory.ErrInvalidText)

	_, err := item("name", "\xff").MarshalText()
	assert.ErrorIs(t, err, inventory.ErrInvalidText)
}

func TestItem_AllYieldsInsertionOrder(t *testing.T) {
	it := item("b", "2", "a", "1", "c", "3")
	var keys []string
	for k := range it.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"b", "a", "c"}, keys)
}

func TestParseItem_Canonical(t *testing.T) {
	it, err := inventory.ParseItem(`{"name": "potion", "count": "3"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "count"}, it.Keys())
	v, _ := it.Get("count")
	assert.Equal(t, "3", v)
}

func TestParseItem_BlankAndEmptyObject(t *testing.T) {
	for _, text := range []string{"", "   ", "{}", " { } "} {
		it, err := inventory.ParseItem(text)
		require.NoError(t, err, "text %q", text)
		assert.True(t, it.IsEmpty(), "text %q", text)
	}
}

func TestParseItem_ScalarValuesKeptAsText(t *testing.T) {
	it, err := inventory.ParseItem(`{"count": 3, "rare": true, "weight": 1.50}`)
	require.NoError(t, err)
	assert.Equal(t, `{"count": "3", "rare": "true", "weight": "1.50"}`, it.String())
}

func TestParseItem_Rejects(t *testing.T) {
	for _, text := range []string{
		`{"name": "potion"`,
		`["name"]`,
		`{"name": null}`,
		`{"name": {"x": "y"}}`,
		`{"a": ["b"]}`,
		`{"a": "b"} trailing`,
		`{"a": "b"}{}`,
		`{'name': 'potion'}`,
		`potion`,
	} {
		_, err := inventory.ParseItem(text)
		assert.Error(t, err, "text %q", text)
	}
}

func TestItem_StringDoesNotEscapeHTML(t *testing.T) {
	it := item("desc", "<b>&</b>")
	assert.Equal(t, `{"desc": "<b>&</b>"}`, it.String())
}

func TestItem_UnmarshalText(t *testing.T) {
	var it inventory.Item
	require.NoError(t, it.UnmarshalText([]byte(`{"name": "potion"}`)))
	assert.True(t, it.Equal(item("name", "potion")))
	assert.Error(t, it.UnmarshalText([]byte(`nope`)))
	assert.True(t, it.Equal(item("name", "potion")), "failed UnmarshalText must not modify the item")
}

func genItem(t *rapid.T, label string) inventory.Item {
	keys := rapid.SliceOfDistinct(rapid.String(), rapid.ID[string]).Draw(t, label+"_keys")
	var it inventory.Item
	for i, k := range keys {
		it.Set(k, rapid.String().Draw(t, label+"_value_"+string(rune('a'+i%26))))
	}
	return it
}

// Property: the canonical text form parses back to an equal Item with the same key order.
func TestPropertyItemTextRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		it := genItem(t, "item")
		text := it.String()
		got, err := inventory.ParseItem(text)
		if err != nil {
			t.Fatalf("ParseItem(%q): %v", text, err)
		}
		if !got.Equal(it) {
			t.Fatalf("round trip mismatch: %q -> %q", text, got.String())
		}
		if got.String() != text {
			t.Fatalf("canonical form not stable: %q vs %q", text, got.String())
		}
	})
}

// Property: a copy stays unchanged whatever is set on the other copy.
func TestPropertyItemCopiesIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genItem(t, "item")
		before := a.String()
		b := a
		b.Set(rapid.String().Draw(t, "key"), rapid.String().Draw(t, "value"))
		if a.String() != before || a.Len() != len(a.Keys()) {
			t.Fatalf("original changed: %q -> %q", before, a.String())
		}
		for _, k := range a.Keys() {
			if !a.Has(k) {
				t.Fatalf("key %q listed but missing", k)
			}
		}
	})
}

// Property: the canonical text form never spans more than one line.
func TestPropertyItemTextSingleLine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := genItem(t, "item").String()
		for _, r := range text {
			if r == '\n' || r == '\r' {
				t.Fatalf("canonical form contains a line break: %q", text)
			}
		}
	})
}
