package shoppinglist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/catalogs/product"
)

var (
	listHousehold = id.MustParse("018f3a2e-0000-7000-8000-0000000000bb")
	milkID        = id.MustParse("018f3a2e-0000-7000-8000-000000000020")
	basilID       = id.MustParse("018f3a2e-0000-7000-8000-000000000021")
)

func catalogProducts() map[id.ID]*product.Product {
	milk := product.New("p-milk", "Milk", "dairy", "l", types.MustQuantity("2"))
	milk.ID = milkID
	basil := product.New("p-basil", "Basil", "produce", "bunch", types.MustQuantity("1"))
	basil.ID = basilID
	return map[id.ID]*product.Product{milkID: milk, basilID: basil}
}

func line(productID *id.ID, name, qty, unitSymbol string, source Source) Item {
	item := *NewItem(listHousehold, name, types.MustQuantity(qty), unitSymbol, source)
	item.ProductID = productID
	return item
}

func TestSynthesize_KeepsLargestNotSum(t *testing.T) {
	// A recipe wants 1l of milk and depletion wants 2l back in stock:
	// one trip to the shop covers both with 2l, not 3l.
	items := []Item{
		line(&milkID, "Milk", "2", "l", SourceDepletion),
		line(&milkID, "Milk", "1", "l", SourceRecipe),
	}

	got := Synthesize(items, catalogProducts())

	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].Quantity.String())
	assert.Equal(t, SourceDepletion, got[0].Source)
}

func TestSynthesize_ReconcilesUnits(t *testing.T) {
	items := []Item{
		line(&milkID, "Milk", "500", "ml", SourceRecipe),
		line(&milkID, "Milk", "0.4", "l", SourceDepletion),
	}

	got := Synthesize(items, catalogProducts())

	require.Len(t, got, 1)
	assert.Equal(t, "l", got[0].Unit)
	assert.Equal(t, "0.5", got[0].Quantity.String())
}

func TestSynthesize_UnconvertibleUnitsStaySeparate(t *testing.T) {
	// Basil by the bunch and basil by weight cannot be reconciled.
	items := []Item{
		line(&basilID, "Basil", "1", "bunch", SourceRecipe),
		line(&basilID, "Basil", "50", "g", SourceRecipe),
	}

	got := Synthesize(items, catalogProducts())

	require.Len(t, got, 2)
	units := []string{got[0].Unit, got[1].Unit}
	assert.ElementsMatch(t, []string{"bunch", "g"}, units)
}

func TestSynthesize_FreeTextStaysDistinct(t *testing.T) {
	// Without a catalog identity two equal names may still mean
	// different things, so free-text lines never merge.
	items := []Item{
		line(nil, "fresh thyme", "1", "bunch", SourceRecipe),
		line(nil, "fresh thyme", "2", "bunch", SourceRecipe),
		line(nil, "saffron threads", "1", "pinch", SourceManual),
	}

	got := Synthesize(items, nil)

	require.Len(t, got, 3)
	assert.Equal(t, "fresh thyme", got[0].Name)
	assert.Equal(t, "1", got[0].Quantity.String())
	assert.Equal(t, "fresh thyme", got[1].Name)
	assert.Equal(t, "2", got[1].Quantity.String())
	assert.Equal(t, "saffron threads", got[2].Name)
}

func TestSynthesize_FreeTextNeverMergesWithCatalogLine(t *testing.T) {
	items := []Item{
		line(&milkID, "Milk", "1", "l", SourceDepletion),
		line(nil, "Milk", "1", "l", SourceManual),
	}

	got := Synthesize(items, catalogProducts())
	assert.Len(t, got, 2)
}

func TestSynthesize_Idempotent(t *testing.T) {
	items := []Item{
		line(&milkID, "Milk", "500", "ml", SourceRecipe),
		line(&milkID, "Milk", "2", "l", SourceDepletion),
		line(nil, "fresh thyme", "1", "bunch", SourceManual),
	}
	products := catalogProducts()

	once := Synthesize(items, products)
	twice := Synthesize(once, products)

	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i].Name, twice[i].Name)
		assert.True(t, once[i].Quantity.Equal(twice[i].Quantity))
		assert.Equal(t, once[i].Unit, twice[i].Unit)
	}
}

func TestSynthesize_FillsCatalogMetadata(t *testing.T) {
	items := []Item{line(&milkID, "milk (whole)", "1", "l", SourceRecipe)}

	got := Synthesize(items, catalogProducts())

	require.Len(t, got, 1)
	assert.Equal(t, "Milk", got[0].Name)
	assert.Equal(t, "dairy", got[0].Category)
}

func TestGroupByCategory_PreservesMultiset(t *testing.T) {
	items := Synthesize([]Item{
		line(&milkID, "Milk", "1", "l", SourceDepletion),
		line(&basilID, "Basil", "1", "bunch", SourceRecipe),
		line(nil, "batteries", "4", "pc", SourceManual),
	}, catalogProducts())

	grouped := GroupByCategory(items)

	total := 0
	for _, bucket := range grouped {
		total += len(bucket)
	}
	assert.Equal(t, len(items), total)
	assert.Len(t, grouped["dairy"], 1)
	assert.Len(t, grouped["produce"], 1)
	assert.Len(t, grouped["other"], 1)
}
