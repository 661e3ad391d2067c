package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"larder/internal/core/apperror"
	"larder/internal/core/id"
	"larder/internal/domain/catalogs/product"
)

const productTable = "products"

var productColumns = []string{
	"id", "code", "name", "category", "default_unit", "par_quantity",
	"version", "created_at", "updated_at",
}

// psql builds queries with PostgreSQL placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	pool *Pool
}

// NewProductRepo creates a new product repository.
func NewProductRepo(pool *Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	sql, args, err := psql.Select(productColumns...).
		From(productTable).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.pool, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	result := make(map[id.ID]*product.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	sql, args, err := psql.Select(productColumns...).
		From(productTable).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []*product.Product
	if err := pgxscan.Select(ctx, r.pool, &products, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*product.Product, error) {
	sql, args, err := psql.Select(productColumns...).
		From(productTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []*product.Product
	if err := pgxscan.Select(ctx, r.pool, &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	sql, args, err := psql.Insert(productTable).
		Columns(productColumns...).
		Values(p.ID, p.Code, p.Name, p.Category, p.DefaultUnit, p.ParQuantity,
			p.Version, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}
