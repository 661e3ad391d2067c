package availability

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/inventory"
	"larder/internal/domain/recipe"
)

func testRecipe(name string, ingredients ...recipe.Ingredient) *recipe.Recipe {
	r := recipe.New("RC-"+name, name, 2)
	r.Ingredients = ingredients
	return r
}

func satisfied() MatchResult {
	return MatchResult{Ingredient: ingredient(id.New(), "1", "pc"), Satisfied: true}
}

func missing(optional bool) MatchResult {
	ing := ingredient(id.New(), "1", "pc")
	ing.Optional = optional
	return MatchResult{Ingredient: ing, Shortfall: types.MustQuantity("1")}
}

func TestScoreConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultScoreConfig().Validate())

	bad := DefaultScoreConfig()
	bad.AlmostThreshold = -1
	assert.Error(t, bad.Validate())

	bad = DefaultScoreConfig()
	bad.AlmostThreshold = 101
	assert.Error(t, bad.Validate())

	bad = DefaultScoreConfig()
	bad.MaxMissing = -1
	assert.Error(t, bad.Validate())
}

func TestScore_AllSatisfiedIsReady(t *testing.T) {
	r := testRecipe("carbonara")
	match, err := Score(r, []MatchResult{satisfied(), satisfied()}, DefaultScoreConfig())
	require.NoError(t, err)

	assert.Equal(t, ClassReady, match.Classification)
	assert.Equal(t, 100, match.Percent)
	assert.Equal(t, 2, match.MatchedCount)
}

func TestScore_HalfCoverageFallsBelowDefaultThreshold(t *testing.T) {
	// 1 of 2 required satisfied: 50% < 70% default, so not-yet even
	// though only one ingredient is missing.
	r := testRecipe("pasta al pomodoro")
	match, err := Score(r, []MatchResult{satisfied(), missing(false)}, DefaultScoreConfig())
	require.NoError(t, err)

	assert.Equal(t, 50, match.Percent)
	assert.Equal(t, ClassNotYet, match.Classification)
	assert.Len(t, match.Missing, 1)
}

func TestScore_AlmostThere(t *testing.T) {
	r := testRecipe("stew")
	results := []MatchResult{satisfied(), satisfied(), satisfied(), missing(false)}
	match, err := Score(r, results, DefaultScoreConfig())
	require.NoError(t, err)

	assert.Equal(t, 75, match.Percent)
	assert.Equal(t, ClassAlmost, match.Classification)
}

func TestScore_TooManyMissingBlocksAlmost(t *testing.T) {
	r := testRecipe("feast")
	results := []MatchResult{}
	for i := 0; i < 10; i++ {
		results = append(results, satisfied())
	}
	for i := 0; i < 4; i++ {
		results = append(results, missing(false))
	}

	// 10/14 ≈ 71.4% clears the threshold, but 4 missing > default 3.
	match, err := Score(r, results, DefaultScoreConfig())
	require.NoError(t, err)
	assert.Equal(t, 71, match.Percent, "rounded down for display")
	assert.Equal(t, ClassNotYet, match.Classification)
}

func TestScore_OptionalMissingDoesNotBlockReady(t *testing.T) {
	r := testRecipe("salad")
	match, err := Score(r, []MatchResult{satisfied(), missing(true)}, DefaultScoreConfig())
	require.NoError(t, err)

	assert.Equal(t, ClassReady, match.Classification)
	assert.Equal(t, 100, match.Percent, "optional excluded from denominator by default")
	// The optional ingredient still appears, flagged, so callers can
	// choose to hide it.
	require.Len(t, match.Missing, 1)
	assert.True(t, match.Missing[0].Optional())
}

func TestScore_IncludeOptionalChangesDenominator(t *testing.T) {
	cfg := DefaultScoreConfig()
	cfg.IncludeOptional = true

	r := testRecipe("salad")
	match, err := Score(r, []MatchResult{satisfied(), missing(true)}, cfg)
	require.NoError(t, err)

	assert.Equal(t, 50, match.Percent)
	// Optional missing still never blocks ready-to-cook.
	assert.Equal(t, ClassReady, match.Classification)
}

func TestScore_NoRequiredIngredientsIsVacuouslyReady(t *testing.T) {
	r := testRecipe("glass of water")
	match, err := Score(r, []MatchResult{}, DefaultScoreConfig())
	require.NoError(t, err)

	assert.Equal(t, 100, match.Percent)
	assert.Equal(t, ClassReady, match.Classification)
}

func TestScore_InvalidIngredientExcluded(t *testing.T) {
	r := testRecipe("broken")
	invalid := MatchResult{Ingredient: ingredient(id.New(), "1", "pc"), Invalid: true}

	match, err := Score(r, []MatchResult{satisfied(), invalid}, DefaultScoreConfig())
	require.NoError(t, err)

	assert.Equal(t, 100, match.Percent)
	assert.Equal(t, 1, match.TotalCount)
	assert.Equal(t, ClassReady, match.Classification)
}

// Match percentage is monotonically non-decreasing as any single inventory
// quantity grows, holding the recipe fixed.
func TestScore_MonotoneInInventory(t *testing.T) {
	ingredients := []recipe.Ingredient{
		ingredient(pastaID, "400", "g"),
		ingredient(tomatoID, "3", "pc"),
	}

	prev := -1.0
	for _, pastaGrams := range []string{"0", "100", "399", "400", "1000"} {
		records := []inventory.Record{
			record(pastaID, pastaGrams, "g"),
			record(tomatoID, "3", "pc"),
		}
		results, err := Match(ingredients, records, nil)
		require.NoError(t, err)

		match, err := Score(testRecipe("pasta"), results, DefaultScoreConfig())
		require.NoError(t, err)

		assert.GreaterOrEqual(t, match.Exact, prev,
			fmt.Sprintf("pasta=%sg must not lower the score", pastaGrams))
		assert.GreaterOrEqual(t, match.Exact, 0.0)
		assert.LessOrEqual(t, match.Exact, 100.0)
		prev = match.Exact
	}
}
