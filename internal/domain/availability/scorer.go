package availability

import (
	"fmt"
	"math"

	"larder/internal/core/apperror"
	"larder/internal/domain/recipe"
)

// ScoreConfig holds the classification policy. Nonsensical values are
// rejected, never clamped.
type ScoreConfig struct {
	// IncludeOptional counts optional ingredients in the percentage
	// denominator. Default excluded.
	IncludeOptional bool

	// AlmostThreshold is the minimum percentage for "almost-there"
	AlmostThreshold float64

	// MaxMissing is the maximum missing-ingredient count for
	// "almost-there"
	MaxMissing int
}

// DefaultScoreConfig returns the documented default policy: optional
// ingredients excluded, 70% threshold, at most 3 missing.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		AlmostThreshold: 70,
		MaxMissing:      3,
	}
}

// Validate rejects invalid policy values.
func (c ScoreConfig) Validate() error {
	if c.AlmostThreshold < 0 || c.AlmostThreshold > 100 {
		return apperror.NewInvalidConfig(
			fmt.Sprintf("almost-there threshold must be within [0, 100], got %v", c.AlmostThreshold))
	}
	if c.MaxMissing < 0 {
		return apperror.NewInvalidConfig(
			fmt.Sprintf("max missing count cannot be negative, got %d", c.MaxMissing))
	}
	return nil
}

// Score aggregates per-ingredient match results into a classified
// RecipeMatch.
func Score(r *recipe.Recipe, results []MatchResult, cfg ScoreConfig) (RecipeMatch, error) {
	if err := cfg.Validate(); err != nil {
		return RecipeMatch{}, err
	}
	if r == nil {
		return RecipeMatch{}, apperror.NewValidation("recipe is nil")
	}

	match := RecipeMatch{Recipe: r}

	matched, total := 0, 0
	for _, res := range results {
		if res.Invalid {
			// Malformed ingredients are flagged in the missing list
			// but never counted.
			match.Missing = append(match.Missing, res)
			continue
		}
		if res.Ingredient.Optional && !cfg.IncludeOptional {
			if !res.Satisfied {
				match.Missing = append(match.Missing, res)
			}
			continue
		}

		total++
		if res.Satisfied {
			matched++
		} else {
			match.Missing = append(match.Missing, res)
		}
	}

	match.MatchedCount = matched
	match.TotalCount = total

	if total == 0 {
		// Nothing required: vacuously cookable.
		match.Exact = 100
	} else {
		match.Exact = float64(matched) / float64(total) * 100
	}
	match.Percent = int(math.Floor(match.Exact))

	match.Classification = classify(match, cfg)
	return match, nil
}

func classify(m RecipeMatch, cfg ScoreConfig) Classification {
	if m.RequiredMissing() == 0 {
		return ClassReady
	}
	if m.Exact >= cfg.AlmostThreshold && m.RequiredMissing() <= cfg.MaxMissing {
		return ClassAlmost
	}
	return ClassNotYet
}
