// Package availability matches recipes against a household's inventory
// snapshot: per-ingredient matching with substitution awareness, recipe
// scoring, and catalog-wide ranking.
//
// Everything here is a pure computation over caller-supplied snapshots.
// Results are transient value objects, constructed per call and never
// persisted.
package availability

import (
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/catalogs/unit"
	"larder/internal/domain/recipe"
)

// Key is the canonical comparison key for one ingredient: the resolved
// product identity and the unit family its quantity lives in.
type Key struct {
	ProductID id.ID
	Family    unit.Family
}

// Normalize maps an ingredient to its comparison key. Free-text
// ingredients (no catalog product) fail resolution softly: ok is false and
// the ingredient is treated as unsatisfiable, not as an error.
func Normalize(ing recipe.Ingredient) (Key, bool) {
	if !ing.Resolved() {
		return Key{}, false
	}
	return Key{
		ProductID: *ing.ProductID,
		Family:    unit.Resolve(ing.Unit).Family,
	}, true
}

// MatchResult is the per-ingredient outcome of one matching call.
type MatchResult struct {
	Ingredient recipe.Ingredient `json:"ingredient"`

	Satisfied bool `json:"satisfied"`

	// Available is the best summed quantity found across the original
	// product and its substitutes, in the ingredient's unit
	Available types.Quantity `json:"available"`

	// Shortfall is required minus available when unsatisfied, zero
	// otherwise. Unresolved ingredients carry no shortfall.
	Shortfall types.Quantity `json:"shortfall"`

	// SubstituteID is set when a substitute product covered the
	// requirement instead of the original
	SubstituteID *id.ID `json:"substituteId,omitempty"`

	// Unresolved marks free-text ingredients that cannot match inventory
	Unresolved bool `json:"unresolved"`

	// Invalid marks malformed ingredients (negative quantity, missing
	// unit); they are flagged and excluded from scoring, never a crash
	Invalid bool `json:"invalid"`
}

// Optional reports whether the underlying ingredient is optional, so
// callers can hide optional rows from missing lists.
func (m MatchResult) Optional() bool {
	return m.Ingredient.Optional
}

// Classification buckets a scored recipe for discovery.
type Classification string

const (
	ClassReady  Classification = "ready-to-cook"
	ClassAlmost Classification = "almost-there"
	ClassNotYet Classification = "not-yet"
)

// RecipeMatch is the scored outcome for one recipe. Lifetime is one
// ranking call.
type RecipeMatch struct {
	Recipe *recipe.Recipe `json:"recipe"`

	// Percent is the display percentage, rounded down
	Percent int `json:"matchPercentage"`

	// Exact keeps the unrounded percentage for stable sort ordering
	Exact float64 `json:"-"`

	MatchedCount int `json:"matchedCount"`
	TotalCount   int `json:"totalCount"`

	// Missing lists unsatisfied results in ingredient order, optional
	// ones included but flagged
	Missing []MatchResult `json:"missing"`

	Classification Classification `json:"classification"`
}

// RequiredMissing counts missing ingredients that actually block cooking:
// optional and malformed entries do not.
func (m RecipeMatch) RequiredMissing() int {
	n := 0
	for _, r := range m.Missing {
		if !r.Ingredient.Optional && !r.Invalid {
			n++
		}
	}
	return n
}
