package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"larder/internal/core/id"
	"larder/internal/domain/consumption"
)

const purchaseTable = "purchase_events"

// maxPurchaseHistory bounds how many events feed rate derivation; older
// habits should not drown out current ones.
const maxPurchaseHistory = 20

// ConsumptionRepo implements consumption.History on purchase events.
type ConsumptionRepo struct {
	pool *Pool
}

// NewConsumptionRepo creates a new consumption repository.
func NewConsumptionRepo(pool *Pool) *ConsumptionRepo {
	return &ConsumptionRepo{pool: pool}
}

func (r *ConsumptionRepo) Purchases(ctx context.Context, householdID, productID id.ID) ([]consumption.Purchase, error) {
	sql, args, err := psql.Select("product_id", "quantity", "unit", "purchased_at").
		From(purchaseTable).
		Where(squirrel.Eq{"household_id": householdID, "product_id": productID}).
		OrderBy("purchased_at DESC").
		Limit(maxPurchaseHistory).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var purchases []consumption.Purchase
	if err := pgxscan.Select(ctx, r.pool, &purchases, sql, args...); err != nil {
		return nil, fmt.Errorf("select purchases: %w", err)
	}
	return purchases, nil
}

func (r *ConsumptionRepo) Rates(ctx context.Context, householdID id.ID) (map[id.ID]consumption.Rate, error) {
	sql, args, err := psql.Select(
		"pe.product_id", "pe.quantity", "pe.unit", "pe.purchased_at",
		"p.default_unit").
		From(purchaseTable + " pe").
		Join(productTable + " p ON p.id = pe.product_id").
		Where(squirrel.Eq{"pe.household_id": householdID}).
		OrderBy("pe.product_id", "pe.purchased_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	type purchaseRow struct {
		consumption.Purchase
		DefaultUnit string `db:"default_unit"`
	}
	var rows []purchaseRow
	if err := pgxscan.Select(ctx, r.pool, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select purchases: %w", err)
	}

	byProduct := make(map[id.ID][]consumption.Purchase)
	defaultUnits := make(map[id.ID]string)
	for _, row := range rows {
		if len(byProduct[row.ProductID]) >= maxPurchaseHistory {
			continue
		}
		byProduct[row.ProductID] = append(byProduct[row.ProductID], row.Purchase)
		defaultUnits[row.ProductID] = row.DefaultUnit
	}

	rates := make(map[id.ID]consumption.Rate, len(byProduct))
	for productID, events := range byProduct {
		if rate, ok := consumption.RateFromPurchases(events, defaultUnits[productID]); ok {
			rates[productID] = rate
		}
	}
	return rates, nil
}

func (r *ConsumptionRepo) Record(ctx context.Context, householdID id.ID, p consumption.Purchase) error {
	sql, args, err := psql.Insert(purchaseTable).
		Columns("id", "household_id", "product_id", "quantity", "unit", "purchased_at").
		Values(id.New(), householdID, p.ProductID, p.Quantity, p.Unit, p.PurchasedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}
