package replenish

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"larder/internal/core/types"
	"larder/internal/domain/consumption"
)

func purchases(quantities ...string) []consumption.Purchase {
	out := make([]consumption.Purchase, len(quantities))
	for i, q := range quantities {
		out[i] = consumption.Purchase{
			ProductID:   milkID,
			Quantity:    types.MustQuantity(q),
			Unit:        "l",
			PurchasedAt: time.Now().AddDate(0, 0, -i*7),
		}
	}
	return out
}

func TestEstimateQuantity_TypicalPurchase(t *testing.T) {
	got := EstimateQuantity(purchases("2", "1", "2", "3"), "l",
		types.MustQuantity("10"), types.MustQuantity("0"))

	// Median of the history wins over the par gap.
	assert.Equal(t, "2", got.String())
}

func TestEstimateQuantity_ParFallback(t *testing.T) {
	// Two events are not enough history.
	got := EstimateQuantity(purchases("5", "5"), "l",
		types.MustQuantity("2"), types.MustQuantity("0.2"))

	assert.Equal(t, "1.8", got.String())
}

func TestEstimateQuantity_RoundsUp(t *testing.T) {
	got := EstimateQuantity(nil, "l",
		types.MustQuantity("2"), types.MustQuantity("0.85"))

	assert.Equal(t, "1.2", got.String())
}

func TestEstimateQuantity_NeverBelowOne(t *testing.T) {
	// Overstocked against par still suggests a minimal purchase.
	got := EstimateQuantity(nil, "l",
		types.MustQuantity("1"), types.MustQuantity("5"))

	assert.Equal(t, "1", got.String())
}

func TestEstimateQuantity_MixedUnitHistory(t *testing.T) {
	history := purchases("2", "1", "2")
	history[1].Quantity = types.MustQuantity("1000")
	history[1].Unit = "ml"

	got := EstimateQuantity(history, "l",
		types.MustQuantity("10"), types.MustQuantity("0"))

	// The 1000ml entry counts as 1l, leaving a 2l median.
	assert.Equal(t, "2", got.String())
}
