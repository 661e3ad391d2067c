package dto

import (
	"larder/internal/domain/availability"
	"larder/internal/domain/recipe"
)

// MatchQuery carries recipe-matching query parameters.
type MatchQuery struct {
	// Threshold is the minimum percentage for almost-there (1..100)
	Threshold *int `form:"threshold" binding:"omitempty,min=1,max=100"`

	// MaxMissing caps missing required ingredients for almost-there
	MaxMissing *int `form:"maxMissing" binding:"omitempty,min=0"`

	// IncludeOptional counts optional ingredients toward the percentage
	IncludeOptional bool `form:"includeOptional"`

	// IncludeNotYet keeps recipes below the threshold in the response
	IncludeNotYet bool `form:"includeNotYet"`

	// Tag restricts the catalog walk
	Tag string `form:"tag"`

	// Filter is a discovery filter expression
	Filter string `form:"filter"`

	// Limit caps the number of returned matches
	Limit int `form:"limit" binding:"omitempty,min=0"`
}

// ToOptions converts query parameters to ranking options. The filter
// expression, if any, is compiled here so a bad expression fails the
// request before any catalog walk starts.
func (q *MatchQuery) ToOptions() (availability.RankOptions, error) {
	score := availability.DefaultScoreConfig()
	if q.Threshold != nil {
		score.AlmostThreshold = float64(*q.Threshold)
	}
	if q.MaxMissing != nil {
		score.MaxMissing = *q.MaxMissing
	}
	score.IncludeOptional = q.IncludeOptional

	opts := availability.RankOptions{
		Score:         score,
		IncludeNotYet: q.IncludeNotYet,
		Tag:           q.Tag,
		Limit:         q.Limit,
	}

	if q.Filter != "" {
		filter, err := recipe.CompileFilter(q.Filter)
		if err != nil {
			return availability.RankOptions{}, err
		}
		opts.Filter = filter
	}

	return opts, nil
}

// MissingIngredientResponse is one unsatisfied ingredient line.
type MissingIngredientResponse struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	Unit       string `json:"unit"`
	Available  string `json:"available"`
	Shortfall  string `json:"shortfall"`
	Optional   bool   `json:"optional"`
	Unresolved bool   `json:"unresolved,omitempty"`
	Invalid    bool   `json:"invalid,omitempty"`
}

// RecipeMatchResponse is one ranked recipe match.
type RecipeMatchResponse struct {
	RecipeID        string                      `json:"recipeId"`
	Name            string                      `json:"name"`
	Servings        int                         `json:"servings"`
	Tags            []string                    `json:"tags,omitempty"`
	MatchPercentage int                         `json:"matchPercentage"`
	MatchedCount    int                         `json:"matchedCount"`
	TotalCount      int                         `json:"totalCount"`
	Classification  availability.Classification `json:"classification"`
	Missing         []MissingIngredientResponse `json:"missing,omitempty"`
}

// FromRecipeMatch converts a domain match to its response form.
func FromRecipeMatch(m availability.RecipeMatch) RecipeMatchResponse {
	missing := make([]MissingIngredientResponse, 0, len(m.Missing))
	for _, res := range m.Missing {
		missing = append(missing, MissingIngredientResponse{
			Name:       res.Ingredient.Name,
			Quantity:   res.Ingredient.Quantity.String(),
			Unit:       res.Ingredient.Unit,
			Available:  res.Available.String(),
			Shortfall:  res.Shortfall.String(),
			Optional:   res.Ingredient.Optional,
			Unresolved: res.Unresolved,
			Invalid:    res.Invalid,
		})
	}

	return RecipeMatchResponse{
		RecipeID:        m.Recipe.ID.String(),
		Name:            m.Recipe.Name,
		Servings:        m.Recipe.Servings,
		Tags:            m.Recipe.Tags,
		MatchPercentage: m.Percent,
		MatchedCount:    m.MatchedCount,
		TotalCount:      m.TotalCount,
		Classification:  m.Classification,
		Missing:         missing,
	}
}

// MatchListResponse wraps ranked matches.
type MatchListResponse struct {
	Matches []RecipeMatchResponse `json:"matches"`
	Total   int                   `json:"total"`
}
