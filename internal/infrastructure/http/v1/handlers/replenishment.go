package handlers

import (
	"github.com/gin-gonic/gin"

	"larder/internal/domain/replenish"
	"larder/internal/infrastructure/http/v1/dto"
)

// ReplenishmentHandler serves low-stock detection.
type ReplenishmentHandler struct {
	*BaseHandler
	service *replenish.Service
}

// NewReplenishmentHandler creates a new replenishment handler.
func NewReplenishmentHandler(base *BaseHandler, service *replenish.Service) *ReplenishmentHandler {
	return &ReplenishmentHandler{BaseHandler: base, service: service}
}

// LowStock returns replenishment candidates, most urgent first.
// GET /api/v1/replenishment/low-stock
func (h *ReplenishmentHandler) LowStock(c *gin.Context) {
	var query dto.LowStockQuery
	if !h.BindQuery(c, &query) {
		return
	}

	cfg, err := query.ToConfig()
	if err != nil {
		h.Error(c, err)
		return
	}

	candidates, err := h.service.LowStock(c.Request.Context(), cfg)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.LowStockResponse{
		Candidates: make([]dto.CandidateResponse, 0, len(candidates)),
		Total:      len(candidates),
	}
	for _, candidate := range candidates {
		resp.Candidates = append(resp.Candidates, dto.FromCandidate(candidate))
	}
	h.OK(c, resp)
}
