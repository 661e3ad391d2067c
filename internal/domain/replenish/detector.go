// Package replenish detects inventory records nearing depletion and
// estimates how much of a product to buy back.
package replenish

import (
	"sort"

	"github.com/shopspring/decimal"

	"larder/internal/core/apperror"
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/catalogs/product"
	"larder/internal/domain/catalogs/unit"
	"larder/internal/domain/consumption"
	"larder/internal/domain/inventory"
)

// Candidate is a product flagged for replenishment. Quantity and Unit are
// normalized to the product's default unit. DaysLeft is nil when no
// consumption rate could be derived for the product.
type Candidate struct {
	Product   product.Product `json:"product"`
	Quantity  types.Quantity  `json:"quantity"`
	Unit      string          `json:"unit"`
	Threshold types.Quantity  `json:"threshold"`
	DaysLeft  *types.Quantity `json:"daysLeft,omitempty"`
	Suggested types.Quantity  `json:"suggested"`
}

// DetectConfig tunes depletion detection.
type DetectConfig struct {
	// ThresholdDays flags products projected to run out within this many
	// days. Zero disables projection-based flagging.
	ThresholdDays int

	// MinQuantity is the fallback low-stock threshold, in the product's
	// default unit, for records without their own MinThreshold.
	MinQuantity types.Quantity
}

// DefaultDetectConfig returns the detection tuning used when a caller
// passes no overrides.
func DefaultDetectConfig() DetectConfig {
	return DetectConfig{
		ThresholdDays: 3,
		MinQuantity:   types.NewQuantity(1),
	}
}

func (c DetectConfig) Validate() error {
	if c.ThresholdDays < 0 {
		return apperror.NewInvalidConfig("thresholdDays must not be negative")
	}
	if c.MinQuantity.IsNegative() {
		return apperror.NewInvalidConfig("minQuantity must not be negative")
	}
	return nil
}

// Detect flags inventory records that are at or below their low-stock
// threshold, or projected to deplete within cfg.ThresholdDays. A record's
// own MinThreshold takes precedence over cfg.MinQuantity. Quantities are
// compared in the product's default unit; records whose unit cannot be
// converted to it are compared in their own unit.
func Detect(
	records []inventory.Record,
	products map[id.ID]*product.Product,
	rates map[id.ID]consumption.Rate,
	cfg DetectConfig,
) ([]Candidate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0)
	for _, rec := range records {
		prod, ok := products[rec.ProductID]
		if !ok || prod == nil {
			continue
		}

		qty, unitSymbol := normalizedQuantity(rec, prod)

		threshold := cfg.MinQuantity
		if rec.MinThreshold != nil {
			threshold = *rec.MinThreshold
		}

		var daysLeft *types.Quantity
		if rate, ok := rates[rec.ProductID]; ok && rate.Samples >= 2 && rate.PerDay.IsPositive() {
			d := qty.Div(rate.PerDay)
			daysLeft = &d
		}

		low := qty.LessThanOrEqual(threshold)
		if !low && daysLeft != nil && cfg.ThresholdDays > 0 {
			low = daysLeft.LessThanOrEqual(decimal.NewFromInt(int64(cfg.ThresholdDays)))
		}
		if !low {
			continue
		}

		candidates = append(candidates, Candidate{
			Product:   *prod,
			Quantity:  qty,
			Unit:      unitSymbol,
			Threshold: threshold,
			DaysLeft:  daysLeft,
		})
	}

	sortCandidates(candidates)
	return candidates, nil
}

// normalizedQuantity converts a record's quantity to the product's default
// unit. On conversion failure the record's own unit is kept.
func normalizedQuantity(rec inventory.Record, prod *product.Product) (types.Quantity, string) {
	if rec.Unit == prod.DefaultUnit {
		return rec.Quantity, rec.Unit
	}
	converted, err := unit.ConvertSymbols(rec.Quantity, rec.Unit, prod.DefaultUnit)
	if err != nil {
		return rec.Quantity, rec.Unit
	}
	return converted, prod.DefaultUnit
}

// sortCandidates orders by urgency: exhausted records first, then fewest
// projected days left (records without a projection last), then lowest
// quantity, then product name.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		aOut := !a.Quantity.IsPositive()
		bOut := !b.Quantity.IsPositive()
		if aOut != bOut {
			return aOut
		}

		switch {
		case a.DaysLeft != nil && b.DaysLeft == nil:
			return true
		case a.DaysLeft == nil && b.DaysLeft != nil:
			return false
		case a.DaysLeft != nil && b.DaysLeft != nil && !a.DaysLeft.Equal(*b.DaysLeft):
			return a.DaysLeft.LessThan(*b.DaysLeft)
		}

		if !a.Quantity.Equal(b.Quantity) {
			return a.Quantity.LessThan(b.Quantity)
		}
		return a.Product.Name < b.Product.Name
	})
}
