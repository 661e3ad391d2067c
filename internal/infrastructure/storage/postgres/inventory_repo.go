package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"larder/internal/core/id"
	"larder/internal/domain/inventory"
)

const inventoryTable = "inventory_records"

var inventoryColumns = []string{
	"id", "household_id", "product_id", "quantity", "unit",
	"location", "expires_at", "min_threshold",
	"version", "created_at", "updated_at",
}

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	pool *Pool
}

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(pool *Pool) *InventoryRepo {
	return &InventoryRepo{pool: pool}
}

func (r *InventoryRepo) HouseholdInventory(ctx context.Context, householdID id.ID) ([]inventory.Record, error) {
	sql, args, err := psql.Select(inventoryColumns...).
		From(inventoryTable).
		Where(squirrel.Eq{"household_id": householdID}).
		OrderBy("product_id", "location NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []inventory.Record
	if err := pgxscan.Select(ctx, r.pool, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select inventory: %w", err)
	}
	return records, nil
}

func (r *InventoryRepo) Upsert(ctx context.Context, rec *inventory.Record) error {
	if err := rec.Validate(ctx); err != nil {
		return err
	}

	sql, args, err := psql.Insert(inventoryTable).
		Columns(inventoryColumns...).
		Values(rec.ID, rec.HouseholdID, rec.ProductID, rec.Quantity, rec.Unit,
			rec.Location, rec.ExpiresAt, rec.MinThreshold,
			rec.Version, rec.CreatedAt, rec.UpdatedAt).
		Suffix(`ON CONFLICT (household_id, product_id, location) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			unit = EXCLUDED.unit,
			expires_at = EXCLUDED.expires_at,
			min_threshold = EXCLUDED.min_threshold,
			version = ` + inventoryTable + `.version + 1,
			updated_at = now()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}
