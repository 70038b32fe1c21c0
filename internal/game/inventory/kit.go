package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// InstanceIDKey is the attribute set on items stamped by a Kit.
const InstanceIDKey = "instance_id"

// Kit is a named set of items used to seed an Inventory, loaded from YAML:
//
//	id: starter
//	capacity: 10
//	stamp_instances: true
//	items:
//	  - name: potion
//	    count: 3
type Kit struct {
	ID string
	// Capacity is the size of inventories created by NewInventory; 0 means
	// exactly len(Items).
	Capacity int
	// StampInstances sets InstanceIDKey to a fresh UUID on every applied item.
	StampInstances bool
	Items          []Item
}

type kitFile struct {
	ID             string      `yaml:"id"`
	Capacity       int         `yaml:"capacity"`
	StampInstances bool        `yaml:"stamp_instances"`
	Items          []yaml.Node `yaml:"items"`
}

// Validate checks that the Kit satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (k *Kit) Validate() error {
	var errs []error
	if k.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if k.Capacity < 0 {
		errs = append(errs, fmt.Errorf("Capacity must be >= 0, got %d", k.Capacity))
	}
	if k.Capacity > 0 && len(k.Items) > k.Capacity {
		errs = append(errs, fmt.Errorf("%d items exceed capacity %d", len(k.Items), k.Capacity))
	}
	for i, it := range k.Items {
		if it.IsEmpty() {
			errs = append(errs, fmt.Errorf("item %d has no attributes", i))
		}
		if err := it.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("kit validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// ParseKit decodes and validates a single kit document. Item attributes keep
// their YAML order; scalar values are kept as their literal text.
func ParseKit(data []byte) (*Kit, error) {
	var f kitFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ParseKit: %w", err)
	}
	k := &Kit{
		ID:             f.ID,
		Capacity:       f.Capacity,
		StampInstances: f.StampInstances,
		Items:          make([]Item, 0, len(f.Items)),
	}
	for i := range f.Items {
		it, err := itemFromNode(&f.Items[i])
		if err != nil {
			return nil, fmt.Errorf("ParseKit: item %d: %w", i, err)
		}
		k.Items = append(k.Items, it)
	}
	if err := k.Validate(); err != nil {
		return nil, fmt.Errorf("ParseKit: %w", err)
	}
	return k, nil
}

func itemFromNode(n *yaml.Node) (Item, error) {
	if n.Kind != yaml.MappingNode {
		return Item{}, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	var it Item
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return Item{}, fmt.Errorf("line %d: attributes must be scalar key/value pairs", key.Line)
		}
		if value.Tag == "!!null" {
			return Item{}, fmt.Errorf("line %d: attribute %q has no value", value.Line, key.Value)
		}
		it.Set(key.Value, value.Value)
	}
	return it, nil
}

// LoadKits reads all *.yaml and *.yml files from dir and parses each as a Kit.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Kits or the first encountered error.
func LoadKits(dir string) ([]*Kit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadKits: cannot read directory %q: %w", dir, err)
	}

	var kits []*Kit
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadKits: cannot read file %q: %w", path, err)
		}
		k, err := ParseKit(data)
		if err != nil {
			return nil, fmt.Errorf("LoadKits: invalid kit in %q: %w", path, err)
		}
		kits = append(kits, k)
	}
	return kits, nil
}

// Apply adds every kit item to inv in kit order and returns the slots used.
//
// Postcondition: if inv has fewer than len(Items) empty slots, returns
// ErrFull and inv is unchanged.
func (k *Kit) Apply(inv *Inventory) ([]int, error) {
	if inv.EmptyCount() < len(k.Items) {
		return nil, fmt.Errorf("inventory: kit %q needs %d slots, %d free: %w",
			k.ID, len(k.Items), inv.EmptyCount(), ErrFull)
	}
	slots := make([]int, 0, len(k.Items))
	for _, it := range k.Items {
		it = it.Clone()
		if k.StampInstances {
			it.Set(InstanceIDKey, uuid.New().String())
		}
		slot, err := inv.Add(it)
		if err != nil {
			return slots, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// NewInventory returns a fresh Inventory sized for the kit and filled with it.
func (k *Kit) NewInventory() (*Inventory, error) {
	size := max(k.Capacity, len(k.Items))
	inv, err := New(size)
	if err != nil {
		return nil, err
	}
	if _, err := k.Apply(inv); err != nil {
		return nil, err
	}
	return inv, nil
}
