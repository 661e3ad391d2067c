package product

import (
	"context"

	"larder/internal/core/id"
)

// Repository defines storage operations for the product catalog.
// The catalog itself is owned by an external collaborator; the engine only
// reads identities, default units and par quantities.
type Repository interface {
	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetByIDs retrieves products in bulk, keyed by ID. Missing IDs are
	// simply absent from the result, not an error.
	GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*Product, error)

	// List retrieves all products ordered by name
	List(ctx context.Context) ([]*Product, error)

	// Create inserts a new product (used by seeding)
	Create(ctx context.Context, p *Product) error
}
