package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// String returns the canonical text form of the Item: a JSON object literal
// such as {"name": "potion", "count": "3"} with keys in insertion order.
// An empty Item encodes as the empty string. Invalid UTF-8 is rendered as
// U+FFFD; Validate reports whether the form is exact.
func (it Item) String() string {
	if it.IsEmpty() {
		return ""
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range it.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(k))
		b.WriteString(": ")
		b.WriteString(quote(it.values[k]))
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalText implements encoding.TextMarshaler using the canonical text form.
// Items that fail Validate are rejected.
func (it Item) MarshalText() ([]byte, error) {
	if err := it.Validate(); err != nil {
		return nil, fmt.Errorf("inventory: MarshalText: %w", err)
	}
	return []byte(it.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Blank text yields an
// empty Item.
func (it *Item) UnmarshalText(text []byte) error {
	parsed, err := ParseItem(string(text))
	if err != nil {
		return err
	}
	*it = parsed
	return nil
}

// ParseItem parses the canonical text form back into an Item.
//
// Blank or whitespace-only text yields an empty Item. Number and boolean
// values are accepted and kept as their literal text; null, arrays and
// nested objects are rejected.
//
// Postcondition: ParseItem(it.String()) is Equal to it.
func ParseItem(text string) (Item, error) {
	if strings.TrimSpace(text) == "" {
		return Item{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Item{}, fmt.Errorf("reading object start: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Item{}, fmt.Errorf("expected '{', got %v", tok)
	}

	var it Item
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Item{}, fmt.Errorf("reading key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return Item{}, fmt.Errorf("expected string key, got %v", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return Item{}, fmt.Errorf("reading value for %q: %w", key, err)
		}
		value, err := scalarText(tok)
		if err != nil {
			return Item{}, fmt.Errorf("value for %q: %w", key, err)
		}
		it.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return Item{}, fmt.Errorf("reading object end: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Item{}, errors.New("unexpected data after object")
	}
	return it, nil
}

func scalarText(tok json.Token) (string, error) {
	switch v := tok.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case nil:
		return "", errors.New("null is not a valid attribute value")
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}

// quote encodes s as a JSON string without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
