package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/satchel/internal/game/inventory"
)

// ErrInventoryNotFound is returned when no inventory is stored for an owner.
var ErrInventoryNotFound = errors.New("inventory not found")

// InventoryRepository stores inventories as one row per occupied slot, each
// holding the item's canonical text form.
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates an InventoryRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Save replaces the stored inventory for owner with inv in a single transaction.
//
// Precondition: owner must be non-empty.
// Postcondition: Load(ctx, owner, inv.Size()) reproduces every slot of inv.
func (r *InventoryRepository) Save(ctx context.Context, owner string, inv *inventory.Inventory) error {
	if owner == "" {
		return errors.New("saving inventory: owner must not be empty")
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO inventories (owner, capacity) VALUES ($1, $2)
		ON CONFLICT (owner) DO UPDATE SET capacity = EXCLUDED.capacity, updated_at = NOW()`,
		owner, inv.Size(),
	); err != nil {
		return fmt.Errorf("upserting inventory %q: %w", owner, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM inventory_slots WHERE owner = $1`, owner); err != nil {
		return fmt.Errorf("clearing slots for %q: %w", owner, err)
	}

	var rows [][]any
	for slot, it := range inv.All() {
		if it.IsEmpty() {
			continue
		}
		rows = append(rows, []any{owner, int32(slot), it.String()})
	}
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"inventory_slots"},
			[]string{"owner", "slot", "record"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("copying slots for %q: %w", owner, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing inventory %q: %w", owner, err)
	}
	return nil
}

// Capacity returns the capacity recorded by the last Save for owner.
//
// Postcondition: Returns ErrInventoryNotFound if owner has never been saved.
func (r *InventoryRepository) Capacity(ctx context.Context, owner string) (int, error) {
	var capacity int32
	err := r.db.QueryRow(ctx, `SELECT capacity FROM inventories WHERE owner = $1`, owner).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrInventoryNotFound
		}
		return 0, fmt.Errorf("querying inventory %q: %w", owner, err)
	}
	return int(capacity), nil
}

// Load builds an Inventory of the requested capacity from the stored slots.
// Stored slots at or beyond capacity are ignored; missing slots are empty.
//
// Precondition: capacity >= 0.
// Postcondition: Returns ErrInventoryNotFound if owner has never been saved;
// an unparsable record yields an *inventory.RecordError whose Line is slot+1.
func (r *InventoryRepository) Load(ctx context.Context, owner string, capacity int) (*inventory.Inventory, error) {
	if _, err := r.Capacity(ctx, owner); err != nil {
		return nil, err
	}
	inv, err := inventory.New(capacity)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT slot, record FROM inventory_slots
		WHERE owner = $1 AND slot < $2
		ORDER BY slot ASC`,
		owner, capacity,
	)
	if err != nil {
		return nil, fmt.Errorf("listing slots for %q: %w", owner, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot int32
		var record string
		if err := rows.Scan(&slot, &record); err != nil {
			return nil, fmt.Errorf("scanning slot row: %w", err)
		}
		it, err := inventory.ParseItem(record)
		if err != nil {
			return nil, &inventory.RecordError{Line: int(slot) + 1, Err: err}
		}
		if err := inv.Set(int(slot), it); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots for %q: %w", owner, err)
	}
	return inv, nil
}

// Delete removes the stored inventory for owner.
//
// Postcondition: Returns ErrInventoryNotFound if nothing was deleted.
func (r *InventoryRepository) Delete(ctx context.Context, owner string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventories WHERE owner = $1`, owner)
	if err != nil {
		return fmt.Errorf("deleting inventory %q: %w", owner, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInventoryNotFound
	}
	return nil
}
