package availability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/core/id"
	"larder/internal/domain/inventory"
	"larder/internal/domain/recipe"
)

// fakeCatalog serves recipes from memory with real paging semantics.
type fakeCatalog struct {
	recipes []*recipe.Recipe
}

func (f *fakeCatalog) List(_ context.Context, filter recipe.ListFilter) ([]*recipe.Recipe, error) {
	matched := make([]*recipe.Recipe, 0, len(f.recipes))
	for _, r := range f.recipes {
		if filter.Tag != "" && !r.HasTag(filter.Tag) {
			continue
		}
		matched = append(matched, r)
	}

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], nil
}

func (f *fakeCatalog) GetByIDs(_ context.Context, ids []id.ID) ([]*recipe.Recipe, error) {
	var out []*recipe.Recipe
	for _, r := range f.recipes {
		for _, want := range ids {
			if r.ID == want {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) Create(_ context.Context, r *recipe.Recipe) error {
	f.recipes = append(f.recipes, r)
	return nil
}

type fakeInventory struct {
	records []inventory.Record
}

func (f *fakeInventory) HouseholdInventory(_ context.Context, _ id.ID) ([]inventory.Record, error) {
	return f.records, nil
}

func rankerFor(recipes []*recipe.Recipe, records []inventory.Record) *Ranker {
	return NewRanker(RankerConfig{
		Catalog:   &fakeCatalog{recipes: recipes},
		Inventory: &fakeInventory{records: records},
		PageSize:  2, // force multiple pages
		Workers:   3,
	})
}

func TestRank_OrderingAndFiltering(t *testing.T) {
	// ready: everything on hand
	ready := testRecipe("Aglio e Olio", ingredient(pastaID, "200", "g"))

	// almost: 3 of 4 satisfied (75% >= 70, 1 missing <= 3)
	almost := testRecipe("Pasta Bake",
		ingredient(pastaID, "200", "g"),
		ingredient(pastaID, "100", "g"),
		ingredient(pastaID, "50", "g"),
		ingredient(tomatoID, "5", "pc"),
	)

	// not-yet: nothing on hand
	notYet := testRecipe("Tomato Soup",
		ingredient(tomatoID, "6", "pc"),
		ingredient(milkID, "0.5", "l"),
	)

	records := []inventory.Record{record(pastaID, "1", "kg")}

	got, err := rankerFor([]*recipe.Recipe{notYet, almost, ready}, records).
		Rank(context.Background(), householdID, RankOptions{Score: DefaultScoreConfig()})
	require.NoError(t, err)

	require.Len(t, got, 2, "not-yet recipes are filtered from discovery")
	assert.Equal(t, "Aglio e Olio", got[0].Recipe.Name)
	assert.Equal(t, ClassReady, got[0].Classification)
	assert.Equal(t, "Pasta Bake", got[1].Recipe.Name)
	assert.Equal(t, ClassAlmost, got[1].Classification)
}

func TestRank_IncludeNotYet(t *testing.T) {
	notYet := testRecipe("Tomato Soup", ingredient(tomatoID, "6", "pc"))

	got, err := rankerFor([]*recipe.Recipe{notYet}, nil).
		Rank(context.Background(), householdID, RankOptions{
			Score:         DefaultScoreConfig(),
			IncludeNotYet: true,
		})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ClassNotYet, got[0].Classification)
}

func TestRank_TieBreakByNameThenMissing(t *testing.T) {
	// Both 50%, both one missing: name ascending decides.
	b := testRecipe("Bravo", ingredient(pastaID, "100", "g"), ingredient(tomatoID, "1", "pc"))
	a := testRecipe("Alpha", ingredient(pastaID, "100", "g"), ingredient(tomatoID, "1", "pc"))

	records := []inventory.Record{record(pastaID, "500", "g")}
	cfg := DefaultScoreConfig()
	cfg.AlmostThreshold = 40

	got, err := rankerFor([]*recipe.Recipe{b, a}, records).
		Rank(context.Background(), householdID, RankOptions{Score: cfg})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Recipe.Name)
	assert.Equal(t, "Bravo", got[1].Recipe.Name)
}

func TestRank_DeterministicAcrossRuns(t *testing.T) {
	var recipes []*recipe.Recipe
	names := []string{"Delta", "Echo", "Alpha", "Charlie", "Bravo", "Foxtrot", "Golf"}
	for _, n := range names {
		recipes = append(recipes, testRecipe(n, ingredient(pastaID, "100", "g")))
	}
	records := []inventory.Record{record(pastaID, "10", "kg")}
	r := rankerFor(recipes, records)

	first, err := r.Rank(context.Background(), householdID, RankOptions{Score: DefaultScoreConfig()})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := r.Rank(context.Background(), householdID, RankOptions{Score: DefaultScoreConfig()})
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].Recipe.Name, again[j].Recipe.Name)
		}
	}
}

func TestRank_Limit(t *testing.T) {
	var recipes []*recipe.Recipe
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		recipes = append(recipes, testRecipe(n, ingredient(pastaID, "1", "g")))
	}
	records := []inventory.Record{record(pastaID, "1", "kg")}

	got, err := rankerFor(recipes, records).
		Rank(context.Background(), householdID, RankOptions{
			Score: DefaultScoreConfig(),
			Limit: 3,
		})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = rankerFor(recipes, records).
		Rank(context.Background(), householdID, RankOptions{
			Score: DefaultScoreConfig(),
			Limit: -1,
		})
	assert.Error(t, err)
}

func TestRank_CELFilter(t *testing.T) {
	vegan := testRecipe("Chickpea Curry", ingredient(pastaID, "1", "g"))
	vegan.Tags = []string{"vegan"}
	other := testRecipe("Beef Stew", ingredient(pastaID, "1", "g"))

	f, err := recipe.CompileFilter(`tags.exists(t, t == "vegan")`)
	require.NoError(t, err)

	records := []inventory.Record{record(pastaID, "1", "kg")}
	got, err := rankerFor([]*recipe.Recipe{vegan, other}, records).
		Rank(context.Background(), householdID, RankOptions{
			Score:  DefaultScoreConfig(),
			Filter: f,
		})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Chickpea Curry", got[0].Recipe.Name)
}

func TestRank_InvalidConfigRejected(t *testing.T) {
	cfg := DefaultScoreConfig()
	cfg.AlmostThreshold = 250

	_, err := rankerFor(nil, nil).
		Rank(context.Background(), householdID, RankOptions{Score: cfg})
	assert.Error(t, err)
}
