package dto

import (
	"larder/internal/core/apperror"
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/shoppinglist"
)

// GenerateListRequest selects the sources for a generation run.
type GenerateListRequest struct {
	IncludeLowStock bool     `json:"includeLowStock"`
	RecipeIDs       []string `json:"recipeIds"`
	GroupByCategory bool     `json:"groupByCategory"`
	ThresholdDays   *int     `json:"thresholdDays,omitempty"`
	MinQuantity     string   `json:"minQuantity,omitempty"`
}

// ToOptions converts the request to generation options.
func (r *GenerateListRequest) ToOptions() (shoppinglist.GenerateOptions, error) {
	opts := shoppinglist.GenerateOptions{
		IncludeLowStock: r.IncludeLowStock,
	}

	for _, raw := range r.RecipeIDs {
		recipeID, err := id.Parse(raw)
		if err != nil {
			return shoppinglist.GenerateOptions{}, apperror.NewValidation("invalid recipe id").
				WithDetail("value", raw)
		}
		opts.RecipeIDs = append(opts.RecipeIDs, recipeID)
	}

	if r.ThresholdDays != nil || r.MinQuantity != "" {
		query := LowStockQuery{ThresholdDays: r.ThresholdDays, MinQuantity: r.MinQuantity}
		cfg, err := query.ToConfig()
		if err != nil {
			return shoppinglist.GenerateOptions{}, err
		}
		opts.Detect = &cfg
	}

	return opts, nil
}

// AddItemRequest is the body for adding a manual line.
type AddItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	Quantity  string  `json:"quantity" binding:"required"`
	Unit      string  `json:"unit" binding:"required"`
	ProductID *string `json:"productId"`
}

// ToItem converts the request to a domain item.
func (r *AddItemRequest) ToItem() (*shoppinglist.Item, error) {
	qty, err := types.NewQuantityFromString(r.Quantity)
	if err != nil {
		return nil, apperror.NewValidation("invalid quantity").
			WithDetail("value", r.Quantity)
	}

	item := shoppinglist.NewItem(id.Nil(), r.Name, qty, r.Unit, shoppinglist.SourceManual)
	if r.ProductID != nil {
		productID, err := id.Parse(*r.ProductID)
		if err != nil {
			return nil, apperror.NewValidation("invalid product id").
				WithDetail("value", *r.ProductID)
		}
		item.ProductID = &productID
	}
	return item, nil
}

// ItemResponse is one shopping-list line.
type ItemResponse struct {
	ID        string  `json:"id"`
	ProductID *string `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Quantity  string  `json:"quantity"`
	Unit      string  `json:"unit"`
	Source    string  `json:"source"`
	Category  string  `json:"category,omitempty"`
	Checked   bool    `json:"checked"`
}

// FromItem converts a domain item to its response form.
func FromItem(item shoppinglist.Item) ItemResponse {
	resp := ItemResponse{
		ID:       item.ID.String(),
		Name:     item.Name,
		Quantity: item.Quantity.String(),
		Unit:     item.Unit,
		Source:   string(item.Source),
		Category: item.Category,
		Checked:  item.Checked,
	}
	if item.ProductID != nil {
		pid := item.ProductID.String()
		resp.ProductID = &pid
	}
	return resp
}

// ListResponse is a flat shopping list.
type ListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// GroupedListResponse is a shopping list grouped by category.
type GroupedListResponse struct {
	Groups map[string][]ItemResponse `json:"groups"`
	Total  int                       `json:"total"`
}

// FromItems converts a slice of domain items.
func FromItems(items []shoppinglist.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}
