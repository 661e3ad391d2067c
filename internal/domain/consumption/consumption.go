// Package consumption provides the usage-analytics collaborator: purchase
// history and consumption rates used by depletion detection and restock
// estimation.
package consumption

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/catalogs/unit"
)

// Purchase is one historical purchase event of a product.
type Purchase struct {
	ProductID   id.ID          `db:"product_id" json:"productId"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	Unit        string         `db:"unit" json:"unit"`
	PurchasedAt time.Time      `db:"purchased_at" json:"purchasedAt"`
}

// Rate is the average daily consumption of a product, derived from
// purchase history. Samples records how many events backed the estimate.
type Rate struct {
	PerDay  types.Quantity `json:"perDay"`
	Samples int            `json:"samples"`
}

// History is the analytics collaborator interface.
type History interface {
	// Purchases returns a household's purchase events for one product,
	// most recent first.
	Purchases(ctx context.Context, householdID, productID id.ID) ([]Purchase, error)

	// Rates returns per-product consumption rates for a household.
	// Products without enough history are absent from the map.
	Rates(ctx context.Context, householdID id.ID) (map[id.ID]Rate, error)

	// Record appends a purchase event (used by seeding)
	Record(ctx context.Context, householdID id.ID, p Purchase) error
}

// RateFromPurchases derives a daily consumption rate from purchase
// events, expressed in defaultUnit. Fewer than 2 usable events means the
// rate is unknown, never fabricated: ok is false and callers must fall
// back to absolute thresholds. Events whose unit cannot be converted to
// defaultUnit are ignored.
//
// The model is simple replacement-rate inference: everything purchased
// before the latest event is assumed consumed over the span between the
// first and last purchase.
func RateFromPurchases(purchases []Purchase, defaultUnit string) (Rate, bool) {
	sorted := normalized(purchases, defaultUnit)
	if len(sorted) < 2 {
		return Rate{}, false
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PurchasedAt.Before(sorted[j].PurchasedAt)
	})

	span := sorted[len(sorted)-1].PurchasedAt.Sub(sorted[0].PurchasedAt)
	days := decimal.NewFromFloat(span.Hours() / 24)
	if !days.IsPositive() {
		return Rate{}, false
	}

	consumed := decimal.Zero
	for _, p := range sorted[:len(sorted)-1] {
		consumed = consumed.Add(p.Quantity)
	}
	if !consumed.IsPositive() {
		return Rate{}, false
	}

	return Rate{
		PerDay:  consumed.Div(days),
		Samples: len(sorted),
	}, true
}

// MedianQuantity returns the median single-purchase quantity in
// defaultUnit, ignoring events whose unit cannot be converted to it. For
// an even count it averages the two middle values.
func MedianQuantity(purchases []Purchase, defaultUnit string) types.Quantity {
	usable := normalized(purchases, defaultUnit)
	if len(usable) == 0 {
		return decimal.Zero
	}

	quantities := make([]types.Quantity, len(usable))
	for i, p := range usable {
		quantities[i] = p.Quantity
	}
	sort.Slice(quantities, func(i, j int) bool {
		return quantities[i].LessThan(quantities[j])
	})

	mid := len(quantities) / 2
	if len(quantities)%2 == 1 {
		return quantities[mid]
	}
	return quantities[mid-1].Add(quantities[mid]).Div(decimal.NewFromInt(2))
}

// normalized converts purchase quantities to defaultUnit, dropping events
// recorded in an incompatible unit. Mixing 500ml and 1l of the same
// product must not skew aggregates by the conversion factor.
func normalized(purchases []Purchase, defaultUnit string) []Purchase {
	out := make([]Purchase, 0, len(purchases))
	for _, p := range purchases {
		qty, err := unit.ConvertSymbols(p.Quantity, p.Unit, defaultUnit)
		if err != nil {
			continue
		}
		p.Quantity = qty
		p.Unit = defaultUnit
		out = append(out, p)
	}
	return out
}
