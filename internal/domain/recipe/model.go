// Package recipe provides the recipe catalog collaborator: recipes, their
// ingredient requirements, and substitution tables. Recipes are immutable
// once published; the engine never writes them.
package recipe

import (
	"context"

	"larder/internal/core/apperror"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
)

// Ingredient is one requirement of a recipe. Either ProductID references
// the catalog, or Name carries free text that never matched a product;
// free-text ingredients can never be satisfied by inventory.
type Ingredient struct {
	ID id.ID `db:"id" json:"id"`

	// ProductID is nil for free-text ingredients
	ProductID *id.ID `db:"product_id" json:"productId,omitempty"`

	// Name is the display name; for free-text ingredients it is the only
	// identity the recipe has
	Name string `db:"name" json:"name"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	Unit string `db:"unit" json:"unit"`

	// Optional ingredients never block a ready-to-cook classification
	Optional bool `db:"is_optional" json:"isOptional"`
}

// Resolved reports whether the ingredient maps to a catalog product.
func (i Ingredient) Resolved() bool {
	return i.ProductID != nil && !id.IsNil(*i.ProductID)
}

// SubstitutionTable maps a product to its acceptable substitutes, in
// declaration order. Order matters: the matcher takes the first substitute
// that fully covers the requirement.
type SubstitutionTable map[id.ID][]id.ID

// Substitutes returns the ordered substitutes for a product, or nil.
func (t SubstitutionTable) Substitutes(productID id.ID) []id.ID {
	if t == nil {
		return nil
	}
	return t[productID]
}

// Recipe is one published recipe with its ingredient list.
type Recipe struct {
	entity.Catalog

	// Servings the ingredient quantities are sized for
	Servings int `db:"servings" json:"servings"`

	// Tags for discovery filters ("vegan", "quick")
	Tags []string `db:"tags" json:"tags"`

	Ingredients []Ingredient `db:"-" json:"ingredients"`

	Substitutions SubstitutionTable `db:"-" json:"substitutions,omitempty"`
}

// New creates a Recipe with required fields.
func New(code, name string, servings int) *Recipe {
	return &Recipe{
		Catalog:  entity.NewCatalog(code, name),
		Servings: servings,
	}
}

// Validate implements entity.Validatable.
func (r *Recipe) Validate(ctx context.Context) error {
	if err := r.Catalog.Validate(ctx); err != nil {
		return err
	}
	if r.Servings < 0 {
		return apperror.NewValidation("servings cannot be negative").
			WithDetail("field", "servings")
	}
	return nil
}

// HasTag reports whether the recipe carries a tag.
func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
