package shoppinglist

import (
	"sort"

	"larder/internal/core/id"
	"larder/internal/domain/catalogs/product"
	"larder/internal/domain/catalogs/unit"
)

// Synthesize merges raw shopping-list lines into a deduplicated list.
// Lines that share a product are collapsed into one, keeping the LARGEST
// requested quantity rather than the sum: two sources both noticing the
// same gap describe one need, not two. Quantities are reconciled in the
// product's default unit; a line whose unit cannot be converted to it
// stays separate under its own unit. Free-text lines (nil ProductID)
// never merge, not even with each other: without a catalog identity two
// equal names may still mean different things.
//
// The result is sorted by name then unit, so synthesis is deterministic
// and idempotent: feeding the output back in returns an equal list.
func Synthesize(items []Item, products map[id.ID]*product.Product) []Item {
	type key struct {
		productID id.ID
		line      int
		unit      string
	}

	merged := make(map[key]Item, len(items))
	for i, item := range items {
		normalized := normalizeLine(item, products)

		// Free-text lines get a per-input key so they always stay
		// distinct.
		k := key{line: i + 1}
		if normalized.ProductID != nil {
			k = key{productID: *normalized.ProductID, unit: normalized.Unit}
		}

		existing, ok := merged[k]
		if !ok {
			merged[k] = normalized
			continue
		}
		if normalized.Quantity.GreaterThan(existing.Quantity) {
			existing.Quantity = normalized.Quantity
		}
		// Depletion wins over recipe wins over manual for provenance of a
		// merged line.
		if sourceRank(normalized.Source) < sourceRank(existing.Source) {
			existing.Source = normalized.Source
		}
		merged[k] = existing
	}

	out := make([]Item, 0, len(merged))
	for _, item := range merged {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].Unit != out[j].Unit {
			return out[i].Unit < out[j].Unit
		}
		return out[i].Quantity.LessThan(out[j].Quantity)
	})
	return out
}

// normalizeLine converts a catalog-backed line to the product's default
// unit and fills in its display name and category.
func normalizeLine(item Item, products map[id.ID]*product.Product) Item {
	if item.ProductID == nil {
		return item
	}
	prod, ok := products[*item.ProductID]
	if !ok || prod == nil {
		return item
	}

	item.Name = prod.Name
	item.Category = prod.Category

	if item.Unit != prod.DefaultUnit {
		converted, err := unit.ConvertSymbols(item.Quantity, item.Unit, prod.DefaultUnit)
		if err == nil {
			item.Quantity = converted
			item.Unit = prod.DefaultUnit
		}
	}
	return item
}

func sourceRank(s Source) int {
	switch s {
	case SourceDepletion:
		return 0
	case SourceRecipe:
		return 1
	default:
		return 2
	}
}

// GroupByCategory arranges items into category buckets for presentation.
// Items without a category land under "other". The transform is pure: the
// union of all buckets is exactly the input multiset.
func GroupByCategory(items []Item) map[string][]Item {
	grouped := make(map[string][]Item)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "other"
		}
		grouped[category] = append(grouped[category], item)
	}
	return grouped
}
