package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "larder/internal/core/context"
	"larder/internal/domain/availability"
	"larder/internal/infrastructure/http/v1/dto"
)

// MatchHandler serves ranked recipe matches.
type MatchHandler struct {
	*BaseHandler
	ranker *availability.Ranker
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(base *BaseHandler, ranker *availability.Ranker) *MatchHandler {
	return &MatchHandler{BaseHandler: base, ranker: ranker}
}

// List returns recipes ranked by availability against current inventory.
// GET /api/v1/recipes/matches
func (h *MatchHandler) List(c *gin.Context) {
	var query dto.MatchQuery
	if !h.BindQuery(c, &query) {
		return
	}

	opts, err := query.ToOptions()
	if err != nil {
		h.Error(c, err)
		return
	}

	householdID, err := appctx.RequireHouseholdID(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	matches, err := h.ranker.Rank(c.Request.Context(), householdID, opts)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.MatchListResponse{
		Matches: make([]dto.RecipeMatchResponse, 0, len(matches)),
		Total:   len(matches),
	}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, dto.FromRecipeMatch(m))
	}
	h.OK(c, resp)
}
