package availability

import (
	"github.com/shopspring/decimal"

	"larder/internal/core/apperror"
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/catalogs/unit"
	"larder/internal/domain/inventory"
	"larder/internal/domain/recipe"
)

// Match computes per-ingredient availability for one recipe against an
// inventory snapshot. Pure function: no side effects, the snapshot is
// never mutated.
//
// Data problems (free-text ingredients, unknown units, unconvertible
// records) degrade to "unsatisfied"; only nil input collections are an
// error.
func Match(
	ingredients []recipe.Ingredient,
	records []inventory.Record,
	substitutions recipe.SubstitutionTable,
) ([]MatchResult, error) {
	if ingredients == nil {
		return nil, apperror.NewValidation("ingredient collection is nil")
	}
	if records == nil {
		return nil, apperror.NewValidation("inventory collection is nil")
	}

	byProduct := indexByProduct(records)

	results := make([]MatchResult, 0, len(ingredients))
	for _, ing := range ingredients {
		results = append(results, matchOne(ing, byProduct, substitutions))
	}
	return results, nil
}

func indexByProduct(records []inventory.Record) map[id.ID][]inventory.Record {
	idx := make(map[id.ID][]inventory.Record, len(records))
	for _, r := range records {
		idx[r.ProductID] = append(idx[r.ProductID], r)
	}
	return idx
}

func matchOne(
	ing recipe.Ingredient,
	byProduct map[id.ID][]inventory.Record,
	substitutions recipe.SubstitutionTable,
) MatchResult {
	result := MatchResult{Ingredient: ing}

	if ing.Quantity.IsNegative() || ing.Unit == "" {
		// Malformed ingredient: flagged, excluded from scoring.
		result.Invalid = true
		return result
	}

	key, ok := Normalize(ing)
	if !ok {
		// Free-text: unsatisfiable, carried into scoring as missing
		// with no shortfall quantity.
		result.Unresolved = true
		return result
	}

	required := ing.Quantity
	target := unit.Resolve(ing.Unit)

	available := summedQuantity(byProduct[key.ProductID], target)
	if available.GreaterThanOrEqual(required) {
		result.Satisfied = true
		result.Available = available
		return result
	}

	// First substitute that fully covers the requirement wins; partial
	// quantities of different products are never combined.
	best := available
	for _, subID := range substitutions.Substitutes(key.ProductID) {
		subAvailable := summedQuantity(byProduct[subID], target)
		if subAvailable.GreaterThanOrEqual(required) {
			sub := subID
			result.Satisfied = true
			result.Available = subAvailable
			result.SubstituteID = &sub
			return result
		}
		best = types.MaxQuantity(best, subAvailable)
	}

	result.Available = best
	result.Shortfall = required.Sub(best)
	return result
}

// summedQuantity sums a product's records in the target unit. A household
// may split one product across locations; records whose unit cannot
// convert to the target simply do not count.
func summedQuantity(records []inventory.Record, target unit.Unit) types.Quantity {
	total := decimal.Zero
	for _, r := range records {
		converted, err := unit.Convert(r.Quantity, unit.Resolve(r.Unit), target)
		if err != nil {
			continue
		}
		total = total.Add(converted)
	}
	return total
}
