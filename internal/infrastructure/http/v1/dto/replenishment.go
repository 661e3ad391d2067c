package dto

import (
	"larder/internal/core/apperror"
	"larder/internal/core/types"
	"larder/internal/domain/replenish"
)

// LowStockQuery carries depletion-detection query parameters.
type LowStockQuery struct {
	// ThresholdDays flags products projected to run out within N days
	ThresholdDays *int `form:"thresholdDays" binding:"omitempty,min=0"`

	// MinQuantity is the fallback low-stock threshold
	MinQuantity string `form:"minQuantity"`
}

// ToConfig converts query parameters to a detection config.
func (q *LowStockQuery) ToConfig() (replenish.DetectConfig, error) {
	cfg := replenish.DefaultDetectConfig()
	if q.ThresholdDays != nil {
		cfg.ThresholdDays = *q.ThresholdDays
	}
	if q.MinQuantity != "" {
		min, err := types.NewQuantityFromString(q.MinQuantity)
		if err != nil {
			return replenish.DetectConfig{}, apperror.NewValidation("invalid minQuantity").
				WithDetail("value", q.MinQuantity)
		}
		cfg.MinQuantity = min
	}
	return cfg, cfg.Validate()
}

// CandidateResponse is one replenishment candidate.
type CandidateResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  string  `json:"quantity"`
	Unit      string  `json:"unit"`
	Threshold string  `json:"threshold"`
	DaysLeft  *string `json:"daysLeft,omitempty"`
	Suggested string  `json:"suggested"`
}

// FromCandidate converts a domain candidate to its response form.
func FromCandidate(c replenish.Candidate) CandidateResponse {
	resp := CandidateResponse{
		ProductID: c.Product.ID.String(),
		Name:      c.Product.Name,
		Category:  c.Product.Category,
		Quantity:  c.Quantity.String(),
		Unit:      c.Unit,
		Threshold: c.Threshold.String(),
		Suggested: c.Suggested.String(),
	}
	if c.DaysLeft != nil {
		days := c.DaysLeft.Round(1).String()
		resp.DaysLeft = &days
	}
	return resp
}

// LowStockResponse wraps replenishment candidates.
type LowStockResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Total      int                 `json:"total"`
}
