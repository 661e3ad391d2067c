package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/inventory"
	"larder/internal/domain/recipe"
)

var (
	householdID = id.MustParse("01923456-0000-7000-8000-000000000001")
	pastaID     = id.MustParse("01923456-0000-7000-8000-0000000000aa")
	penneID     = id.MustParse("01923456-0000-7000-8000-0000000000ab")
	tomatoID    = id.MustParse("01923456-0000-7000-8000-0000000000ac")
	milkID      = id.MustParse("01923456-0000-7000-8000-0000000000ad")
)

func ingredient(productID id.ID, qty, unitSymbol string) recipe.Ingredient {
	p := productID
	return recipe.Ingredient{
		ID:        id.New(),
		ProductID: &p,
		Name:      "ingredient " + productID.String()[:8],
		Quantity:  types.MustQuantity(qty),
		Unit:      unitSymbol,
	}
}

func record(productID id.ID, qty, unitSymbol string) inventory.Record {
	return *inventory.NewRecord(householdID, productID, types.MustQuantity(qty), unitSymbol)
}

func TestMatch_NilInputsRejected(t *testing.T) {
	_, err := Match(nil, []inventory.Record{}, nil)
	assert.Error(t, err)

	_, err = Match([]recipe.Ingredient{}, nil, nil)
	assert.Error(t, err)

	results, err := Match([]recipe.Ingredient{}, []inventory.Record{}, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// Recipe needs 400g pasta and 3 tomatoes; inventory has 500g pasta and one
// tomato. Pasta satisfied, tomatoes short by 2.
func TestMatch_PartialCoverage(t *testing.T) {
	ingredients := []recipe.Ingredient{
		ingredient(pastaID, "400", "g"),
		ingredient(tomatoID, "3", "pc"),
	}
	records := []inventory.Record{
		record(pastaID, "500", "g"),
		record(tomatoID, "1", "pc"),
	}

	results, err := Match(ingredients, records, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Satisfied)
	assert.True(t, results[0].Available.Equal(types.MustQuantity("500")))

	assert.False(t, results[1].Satisfied)
	assert.True(t, results[1].Shortfall.Equal(types.MustQuantity("2")),
		"want shortfall 2, got %s", results[1].Shortfall)
}

// Zero pasta on hand but 600g of penne configured as substitute: pasta is
// satisfied via the substitute and the substitute is noted.
func TestMatch_SubstituteCovers(t *testing.T) {
	ingredients := []recipe.Ingredient{
		ingredient(pastaID, "400", "g"),
		ingredient(tomatoID, "3", "pc"),
	}
	records := []inventory.Record{
		record(penneID, "600", "g"),
		record(tomatoID, "1", "pc"),
	}
	subs := recipe.SubstitutionTable{pastaID: {penneID}}

	results, err := Match(ingredients, records, subs)
	require.NoError(t, err)

	assert.True(t, results[0].Satisfied)
	require.NotNil(t, results[0].SubstituteID)
	assert.Equal(t, penneID, *results[0].SubstituteID)

	assert.False(t, results[1].Satisfied)
}

// The first substitute that fully covers wins; quantities of different
// products are never combined.
func TestMatch_NoPartialCombination(t *testing.T) {
	ingredients := []recipe.Ingredient{ingredient(pastaID, "400", "g")}
	records := []inventory.Record{
		record(pastaID, "300", "g"),
		record(penneID, "350", "g"),
	}
	subs := recipe.SubstitutionTable{pastaID: {penneID}}

	results, err := Match(ingredients, records, subs)
	require.NoError(t, err)

	// 300 + 350 would cover 400, but combination is not allowed.
	assert.False(t, results[0].Satisfied)
	// Shortfall is measured against the best single product (350g penne).
	assert.True(t, results[0].Shortfall.Equal(types.MustQuantity("50")),
		"want shortfall 50, got %s", results[0].Shortfall)
}

func TestMatch_SubstituteDeclarationOrderWins(t *testing.T) {
	riceID := id.MustParse("01923456-0000-7000-8000-0000000000ae")
	ingredients := []recipe.Ingredient{ingredient(pastaID, "200", "g")}
	records := []inventory.Record{
		record(penneID, "500", "g"),
		record(riceID, "900", "g"),
	}
	subs := recipe.SubstitutionTable{pastaID: {penneID, riceID}}

	results, err := Match(ingredients, records, subs)
	require.NoError(t, err)
	require.NotNil(t, results[0].SubstituteID)
	assert.Equal(t, penneID, *results[0].SubstituteID)
}

// Same product split across locations sums before comparison.
func TestMatch_SumsAcrossLocations(t *testing.T) {
	fridge, pantry := "fridge", "pantry"
	r1 := record(pastaID, "250", "g")
	r1.Location = &fridge
	r2 := record(pastaID, "0.2", "kg")
	r2.Location = &pantry

	results, err := Match(
		[]recipe.Ingredient{ingredient(pastaID, "400", "g")},
		[]inventory.Record{r1, r2},
		nil,
	)
	require.NoError(t, err)

	assert.True(t, results[0].Satisfied)
	assert.True(t, results[0].Available.Equal(types.MustQuantity("450")))
}

// Unknown unit families never satisfy by numeric coincidence.
func TestMatch_UnknownFamilyNeverConverts(t *testing.T) {
	herbID := id.MustParse("01923456-0000-7000-8000-0000000000af")
	ing := ingredient(herbID, "2", "bunch")
	rec := record(herbID, "2", "kg")

	results, err := Match([]recipe.Ingredient{ing}, []inventory.Record{rec}, nil)
	require.NoError(t, err)
	assert.False(t, results[0].Satisfied)

	// Same unknown symbol on both sides still compares by equality.
	rec2 := record(herbID, "2", "bunch")
	results, err = Match([]recipe.Ingredient{ing}, []inventory.Record{rec2}, nil)
	require.NoError(t, err)
	assert.True(t, results[0].Satisfied)
}

func TestMatch_FreeTextUnresolved(t *testing.T) {
	freeText := recipe.Ingredient{
		ID:       id.New(),
		Name:     "a pinch of love",
		Quantity: types.MustQuantity("1"),
		Unit:     "pc",
	}

	results, err := Match([]recipe.Ingredient{freeText}, []inventory.Record{}, nil)
	require.NoError(t, err)

	assert.False(t, results[0].Satisfied)
	assert.True(t, results[0].Unresolved)
	assert.True(t, results[0].Shortfall.IsZero(), "unresolved carries no shortfall")
}

func TestMatch_MalformedIngredientFlagged(t *testing.T) {
	bad := ingredient(pastaID, "-1", "g")

	results, err := Match([]recipe.Ingredient{bad}, []inventory.Record{}, nil)
	require.NoError(t, err)
	assert.True(t, results[0].Invalid)
	assert.False(t, results[0].Satisfied)
}
