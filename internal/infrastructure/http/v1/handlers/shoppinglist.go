package handlers

import (
	"github.com/gin-gonic/gin"

	"larder/internal/domain/shoppinglist"
	"larder/internal/infrastructure/http/v1/dto"
)

// ShoppingListHandler serves shopping-list generation and retrieval.
type ShoppingListHandler struct {
	*BaseHandler
	service *shoppinglist.Service
}

// NewShoppingListHandler creates a new shopping-list handler.
func NewShoppingListHandler(base *BaseHandler, service *shoppinglist.Service) *ShoppingListHandler {
	return &ShoppingListHandler{BaseHandler: base, service: service}
}

// Generate synthesizes a shopping list from the selected sources.
// POST /api/v1/shopping-list/generate
func (h *ShoppingListHandler) Generate(c *gin.Context) {
	var req dto.GenerateListRequest
	if !h.BindJSON(c, &req) {
		return
	}

	opts, err := req.ToOptions()
	if err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.Generate(c.Request.Context(), opts)
	if err != nil {
		h.Error(c, err)
		return
	}

	if req.GroupByCategory {
		grouped := shoppinglist.GroupByCategory(items)
		resp := dto.GroupedListResponse{
			Groups: make(map[string][]dto.ItemResponse, len(grouped)),
			Total:  len(items),
		}
		for category, bucket := range grouped {
			resp.Groups[category] = dto.FromItems(bucket)
		}
		h.OK(c, resp)
		return
	}

	h.OK(c, dto.ListResponse{Items: dto.FromItems(items), Total: len(items)})
}

// List returns the household's current shopping list.
// GET /api/v1/shopping-list
func (h *ShoppingListHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: dto.FromItems(items), Total: len(items)})
}

// Add appends a manual line to the household's list.
// POST /api/v1/shopping-list/items
func (h *ShoppingListHandler) Add(c *gin.Context) {
	var req dto.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := req.ToItem()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Add(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item.ID.String())
}
