// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"larder/internal/core/apperror"
	"larder/internal/core/id"
)

// HouseholdContext carries the authenticated household for a request.
// The household is the ownership boundary for inventory and shopping lists;
// everything downstream of the auth middleware reads it from here, never
// from request parameters.
type HouseholdContext struct {
	HouseholdID string
	MemberID    string
	Plan        string // subscription plan label, informational only
}

type householdContextKey struct{}

// WithHousehold adds HouseholdContext to context.
func WithHousehold(ctx context.Context, h *HouseholdContext) context.Context {
	return context.WithValue(ctx, householdContextKey{}, h)
}

// GetHousehold returns HouseholdContext from context.
func GetHousehold(ctx context.Context) *HouseholdContext {
	if v, ok := ctx.Value(householdContextKey{}).(*HouseholdContext); ok {
		return v
	}
	return nil
}

// GetHouseholdID returns household ID from context or empty string.
func GetHouseholdID(ctx context.Context) string {
	if h := GetHousehold(ctx); h != nil {
		return h.HouseholdID
	}
	return ""
}

// RequireHouseholdID returns the household ID as a typed identifier.
// Services call this at their entry points; a missing or malformed ID
// means the request never passed the auth middleware.
func RequireHouseholdID(ctx context.Context) (id.ID, error) {
	raw := GetHouseholdID(ctx)
	if raw == "" {
		return id.Nil(), apperror.NewUnauthorized("household not resolved")
	}
	householdID, err := id.Parse(raw)
	if err != nil {
		return id.Nil(), apperror.NewUnauthorized("malformed household identifier").
			WithDetail("household_id", raw)
	}
	return householdID, nil
}

// GetMemberID returns the acting member ID from context or empty string.
func GetMemberID(ctx context.Context) string {
	if h := GetHousehold(ctx); h != nil {
		return h.MemberID
	}
	return ""
}
