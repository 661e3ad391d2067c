// Package shoppinglist synthesizes shopping lists out of depletion
// candidates, recipe shortfalls and manual additions.
package shoppinglist

import (
	"context"

	"larder/internal/core/apperror"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
)

// Source tells where a shopping-list item came from.
type Source string

const (
	// SourceDepletion marks items added because stock ran low
	SourceDepletion Source = "depletion"

	// SourceRecipe marks items covering a recipe shortfall
	SourceRecipe Source = "recipe"

	// SourceManual marks items a household member added by hand
	SourceManual Source = "manual"
)

// Item is one shopping-list line. ProductID is nil for free-text lines,
// which are never merged with catalog-backed lines.
type Item struct {
	entity.BaseRecord

	HouseholdID id.ID `db:"household_id" json:"householdId"`

	ProductID *id.ID `db:"product_id" json:"productId,omitempty"`

	Name string `db:"name" json:"name"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	Unit string `db:"unit" json:"unit"`

	Source Source `db:"source" json:"source"`

	// Category mirrors the product category for grouped presentation
	Category string `db:"category" json:"category"`

	// EstimatedPrice is optional, filled when price data exists
	EstimatedPrice *types.Quantity `db:"estimated_price" json:"estimatedPrice,omitempty"`

	// Checked marks the line as bought
	Checked bool `db:"checked" json:"checked"`
}

// NewItem creates a shopping-list line.
func NewItem(householdID id.ID, name string, qty types.Quantity, unitSymbol string, source Source) *Item {
	return &Item{
		BaseRecord:  entity.NewBaseRecord(),
		HouseholdID: householdID,
		Name:        name,
		Quantity:    qty,
		Unit:        unitSymbol,
		Source:      source,
	}
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if id.IsNil(i.HouseholdID) {
		return apperror.NewValidation("household is required").
			WithDetail("field", "householdId")
	}
	if i.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !i.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	switch i.Source {
	case SourceDepletion, SourceRecipe, SourceManual:
	default:
		return apperror.NewValidation("unknown source").
			WithDetail("field", "source").
			WithDetail("value", string(i.Source))
	}
	return nil
}

// Store persists shopping-list items.
type Store interface {
	// ListByHousehold returns the current list, unchecked lines first.
	ListByHousehold(ctx context.Context, householdID id.ID) ([]Item, error)

	// ReplaceGenerated atomically deletes the household's depletion and
	// recipe sourced lines and inserts the given ones. Manual lines are
	// untouched so regeneration stays idempotent for them.
	ReplaceGenerated(ctx context.Context, householdID id.ID, items []Item) error

	// Create inserts a single manual line.
	Create(ctx context.Context, item *Item) error
}
