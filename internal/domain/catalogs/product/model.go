// Package product provides the Product catalog: canonical grocery item
// identities shared by inventory, recipes and shopping lists.
package product

import (
	"context"

	"larder/internal/core/apperror"
	"larder/internal/core/entity"
	"larder/internal/core/types"
	"larder/internal/domain/catalogs/unit"
)

// Product represents one canonical grocery item.
type Product struct {
	entity.Catalog

	// Category groups products for shopping-list presentation ("dairy",
	// "produce", "pantry")
	Category string `db:"category" json:"category"`

	// DefaultUnit is the unit inventory and suggestions are expressed in
	DefaultUnit string `db:"default_unit" json:"defaultUnit"`

	// ParQuantity is the ideal stock level in DefaultUnit, used to size
	// restock suggestions when no purchase history exists
	ParQuantity types.Quantity `db:"par_quantity" json:"parQuantity"`
}

// New creates a Product with required fields.
func New(code, name, category, defaultUnit string, par types.Quantity) *Product {
	return &Product{
		Catalog:     entity.NewCatalog(code, name),
		Category:    category,
		DefaultUnit: defaultUnit,
		ParQuantity: par,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.DefaultUnit == "" {
		return apperror.NewValidation("default unit is required").
			WithDetail("field", "defaultUnit")
	}

	if p.ParQuantity.IsNegative() {
		return apperror.NewValidation("par quantity cannot be negative").
			WithDetail("field", "parQuantity")
	}

	return nil
}

// UnitFamily returns the family of the product's default unit.
func (p *Product) UnitFamily() unit.Family {
	return unit.Resolve(p.DefaultUnit).Family
}
