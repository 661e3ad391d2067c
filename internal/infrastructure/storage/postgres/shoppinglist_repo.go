package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"larder/internal/core/id"
	"larder/internal/domain/shoppinglist"
)

const shoppingListTable = "shopping_list_items"

var shoppingListColumns = []string{
	"id", "household_id", "product_id", "name", "quantity", "unit",
	"source", "category", "estimated_price", "checked",
	"version", "created_at", "updated_at",
}

// ShoppingListRepo implements shoppinglist.Store.
type ShoppingListRepo struct {
	pool *Pool
}

// NewShoppingListRepo creates a new shopping-list repository.
func NewShoppingListRepo(pool *Pool) *ShoppingListRepo {
	return &ShoppingListRepo{pool: pool}
}

func (r *ShoppingListRepo) ListByHousehold(ctx context.Context, householdID id.ID) ([]shoppinglist.Item, error) {
	sql, args, err := psql.Select(shoppingListColumns...).
		From(shoppingListTable).
		Where(squirrel.Eq{"household_id": householdID}).
		OrderBy("checked", "name", "unit").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []shoppinglist.Item
	if err := pgxscan.Select(ctx, r.pool, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select shopping list: %w", err)
	}
	return items, nil
}

func (r *ShoppingListRepo) ReplaceGenerated(ctx context.Context, householdID id.ID, items []shoppinglist.Item) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	sql, args, err := psql.Delete(shoppingListTable).
		Where(squirrel.Eq{
			"household_id": householdID,
			"source": []shoppinglist.Source{
				shoppinglist.SourceDepletion,
				shoppinglist.SourceRecipe,
			},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete generated items: %w", err)
	}

	for _, item := range items {
		sql, args, err := psql.Insert(shoppingListTable).
			Columns(shoppingListColumns...).
			Values(item.ID, item.HouseholdID, item.ProductID, item.Name,
				item.Quantity, item.Unit, item.Source, item.Category,
				item.EstimatedPrice, item.Checked,
				item.Version, item.CreatedAt, item.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *ShoppingListRepo) Create(ctx context.Context, item *shoppinglist.Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	sql, args, err := psql.Insert(shoppingListTable).
		Columns(shoppingListColumns...).
		Values(item.ID, item.HouseholdID, item.ProductID, item.Name,
			item.Quantity, item.Unit, item.Source, item.Category,
			item.EstimatedPrice, item.Checked,
			item.Version, item.CreatedAt, item.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}
