// Package inventory provides household inventory records: the on-hand
// quantity snapshots every matching and detection call reasons over.
package inventory

import (
	"context"
	"time"

	"larder/internal/core/apperror"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/catalogs/unit"
)

// Record is one household's on-hand quantity of a product. A household may
// hold the same product in several locations; matching sums across them.
type Record struct {
	entity.BaseRecord

	HouseholdID id.ID `db:"household_id" json:"householdId"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// Quantity on hand, never negative
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Unit the quantity is expressed in; must be convertible to the
	// product's default unit
	Unit string `db:"unit" json:"unit"`

	// Location is the storage place ("fridge", "pantry"), optional
	Location *string `db:"location" json:"location,omitempty"`

	// ExpiresAt is the optional expiration date
	ExpiresAt *time.Time `db:"expires_at" json:"expiresAt,omitempty"`

	// MinThreshold is the optional per-record low-stock level in Unit.
	// When set it overrides the detection call's global minimum.
	MinThreshold *types.Quantity `db:"min_threshold" json:"minThreshold,omitempty"`
}

// NewRecord creates an inventory record.
func NewRecord(householdID, productID id.ID, qty types.Quantity, unitSymbol string) *Record {
	return &Record{
		BaseRecord:  entity.NewBaseRecord(),
		HouseholdID: householdID,
		ProductID:   productID,
		Quantity:    qty,
		Unit:        unitSymbol,
	}
}

// Validate implements entity.Validatable.
func (r *Record) Validate(ctx context.Context) error {
	if id.IsNil(r.HouseholdID) {
		return apperror.NewValidation("household is required").
			WithDetail("field", "householdId")
	}
	if id.IsNil(r.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if r.Quantity.IsNegative() {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}
	if r.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}
	if r.MinThreshold != nil && r.MinThreshold.IsNegative() {
		return apperror.NewValidation("minimum threshold cannot be negative").
			WithDetail("field", "minThreshold")
	}
	return nil
}

// UnitFamily returns the family of the record's unit.
func (r *Record) UnitFamily() unit.Family {
	return unit.Resolve(r.Unit).Family
}
