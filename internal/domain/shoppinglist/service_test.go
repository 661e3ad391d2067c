package shoppinglist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corecontext "larder/internal/core/context"
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/catalogs/product"
	"larder/internal/domain/consumption"
	"larder/internal/domain/inventory"
	"larder/internal/domain/recipe"
)

type fakeInventory struct {
	records []inventory.Record
}

func (f *fakeInventory) HouseholdInventory(ctx context.Context, householdID id.ID) ([]inventory.Record, error) {
	return f.records, nil
}

func (f *fakeInventory) Upsert(ctx context.Context, r *inventory.Record) error {
	f.records = append(f.records, *r)
	return nil
}

type fakeProducts struct {
	products map[id.ID]*product.Product
}

func (f *fakeProducts) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	return f.products[productID], nil
}

func (f *fakeProducts) GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	out := make(map[id.ID]*product.Product)
	for _, pid := range ids {
		if p, ok := f.products[pid]; ok {
			out[pid] = p
		}
	}
	return out, nil
}

func (f *fakeProducts) List(ctx context.Context) ([]*product.Product, error) { return nil, nil }

func (f *fakeProducts) Create(ctx context.Context, p *product.Product) error {
	f.products[p.ID] = p
	return nil
}

type fakeRecipes struct {
	recipes []*recipe.Recipe
}

func (f *fakeRecipes) List(ctx context.Context, filter recipe.ListFilter) ([]*recipe.Recipe, error) {
	return f.recipes, nil
}

func (f *fakeRecipes) GetByIDs(ctx context.Context, ids []id.ID) ([]*recipe.Recipe, error) {
	var out []*recipe.Recipe
	for _, r := range f.recipes {
		for _, rid := range ids {
			if r.ID == rid {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeRecipes) Create(ctx context.Context, r *recipe.Recipe) error {
	f.recipes = append(f.recipes, r)
	return nil
}

type fakeHistory struct{}

func (fakeHistory) Purchases(ctx context.Context, householdID, productID id.ID) ([]consumption.Purchase, error) {
	return nil, nil
}

func (fakeHistory) Rates(ctx context.Context, householdID id.ID) (map[id.ID]consumption.Rate, error) {
	return nil, nil
}

func (fakeHistory) Record(ctx context.Context, householdID id.ID, p consumption.Purchase) error {
	return nil
}

type fakeStore struct {
	generated []Item
	manual    []Item
}

func (f *fakeStore) ListByHousehold(ctx context.Context, householdID id.ID) ([]Item, error) {
	return append(append([]Item{}, f.generated...), f.manual...), nil
}

func (f *fakeStore) ReplaceGenerated(ctx context.Context, householdID id.ID, items []Item) error {
	f.generated = items
	return nil
}

func (f *fakeStore) Create(ctx context.Context, item *Item) error {
	f.manual = append(f.manual, *item)
	return nil
}

type fakeArchiver struct {
	runs int
}

func (f *fakeArchiver) Archive(ctx context.Context, householdID id.ID, items []Item) error {
	f.runs++
	return nil
}

func householdCtx(t *testing.T) context.Context {
	t.Helper()
	return corecontext.WithHousehold(context.Background(), &corecontext.HouseholdContext{
		HouseholdID: listHousehold.String(),
	})
}

func milkProductRef() *id.ID {
	pid := milkID
	return &pid
}

func serviceUnderTest(t *testing.T) (*Service, *fakeStore, *fakeArchiver, id.ID) {
	t.Helper()

	milkRecipe := recipe.New("hot-chocolate", "Hot Chocolate", 2)
	milkRecipe.Ingredients = []recipe.Ingredient{
		{ID: id.New(), ProductID: milkProductRef(), Name: "Milk",
			Quantity: types.MustQuantity("1"), Unit: "l"},
	}

	threshold := types.MustQuantity("0.5")
	record := *inventory.NewRecord(listHousehold, milkID, types.MustQuantity("0.2"), "l")
	record.MinThreshold = &threshold

	store := &fakeStore{}
	archiver := &fakeArchiver{}
	svc := NewService(
		&fakeInventory{records: []inventory.Record{record}},
		&fakeProducts{products: catalogProducts()},
		&fakeRecipes{recipes: []*recipe.Recipe{milkRecipe}},
		fakeHistory{},
		store,
		archiver,
	)
	return svc, store, archiver, milkRecipe.ID
}

func TestGenerate_MergesRecipeAndDepletionForSameProduct(t *testing.T) {
	svc, store, archiver, recipeID := serviceUnderTest(t)
	ctx := householdCtx(t)

	items, err := svc.Generate(ctx, GenerateOptions{
		IncludeLowStock: true,
		RecipeIDs:       []id.ID{recipeID},
	})
	require.NoError(t, err)

	// The recipe needs 0.8l more, depletion wants the 2l par restored:
	// one merged line with the larger quantity.
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, "1.8", items[0].Quantity.String())
	assert.Equal(t, "l", items[0].Unit)
	assert.Equal(t, SourceDepletion, items[0].Source)
	assert.Equal(t, listHousehold, items[0].HouseholdID)

	assert.Equal(t, items, store.generated)
	assert.Equal(t, 1, archiver.runs)
}

func TestGenerate_RegenerationIsIdempotent(t *testing.T) {
	svc, store, _, _ := serviceUnderTest(t)
	ctx := householdCtx(t)

	opts := GenerateOptions{IncludeLowStock: true}

	first, err := svc.Generate(ctx, opts)
	require.NoError(t, err)
	second, err := svc.Generate(ctx, opts)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.True(t, first[i].Quantity.Equal(second[i].Quantity))
	}
	assert.Len(t, store.generated, len(second))
}

func TestGenerate_ManualLinesSurviveRegeneration(t *testing.T) {
	svc, store, _, _ := serviceUnderTest(t)
	ctx := householdCtx(t)

	manual := NewItem(listHousehold, "batteries", types.MustQuantity("4"), "pc", SourceManual)
	require.NoError(t, svc.Add(ctx, manual))

	_, err := svc.Generate(ctx, GenerateOptions{IncludeLowStock: true})
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(all))
	for _, item := range all {
		names = append(names, item.Name)
	}
	assert.Contains(t, names, "batteries")
	assert.Len(t, store.manual, 1)
}

func TestGenerate_RequiresHousehold(t *testing.T) {
	svc, _, _, _ := serviceUnderTest(t)

	_, err := svc.Generate(context.Background(), GenerateOptions{IncludeLowStock: true})
	assert.Error(t, err)
}
