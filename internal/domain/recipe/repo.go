package recipe

import (
	"context"

	"larder/internal/core/id"
)

// ListFilter selects a page of the recipe catalog. Ranking walks the
// catalog page by page rather than materializing it.
type ListFilter struct {
	// IDs restricts to specific recipes
	IDs []id.ID

	// Tag restricts to recipes carrying the tag
	Tag string

	// Pagination
	Limit  int
	Offset int
}

// Catalog is the recipe-catalog collaborator. Each returned recipe carries
// its full ingredient list and substitution table.
type Catalog interface {
	// List returns one page of recipes ordered by name. An empty page
	// means the catalog is exhausted.
	List(ctx context.Context, filter ListFilter) ([]*Recipe, error)

	// GetByIDs returns the requested recipes; missing IDs are absent
	// from the result, not an error.
	GetByIDs(ctx context.Context, ids []id.ID) ([]*Recipe, error)

	// Create inserts a recipe with its ingredients (used by seeding)
	Create(ctx context.Context, r *Recipe) error
}
