package replenish

import (
	"github.com/shopspring/decimal"

	"larder/internal/core/types"
	"larder/internal/domain/consumption"
)

// minPurchaseSamples is how much history the typical-purchase model needs
// before it is trusted over the par-level fallback.
const minPurchaseSamples = 3

var minSuggestion = decimal.NewFromInt(1)

// EstimateQuantity suggests how much of a product to buy, in the
// product's default unit. With enough purchase history the typical
// (median) purchase size is used, otherwise the gap between the product's
// par level and current stock. The result is rounded up to one decimal
// place and never falls below 1.
func EstimateQuantity(
	purchases []consumption.Purchase,
	defaultUnit string,
	par types.Quantity,
	current types.Quantity,
) types.Quantity {
	var suggested types.Quantity
	if len(purchases) >= minPurchaseSamples {
		suggested = consumption.MedianQuantity(purchases, defaultUnit)
	} else {
		suggested = par.Sub(current)
	}

	suggested = suggested.RoundCeil(1)
	if suggested.LessThan(minSuggestion) {
		return minSuggestion
	}
	return suggested
}
