// Package auth issues and validates household access tokens.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appctx "larder/internal/core/context"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "larder",
		AccessTokenTTL: 24 * time.Hour,
	}
}

// Claims represents JWT claims. The household is the ownership boundary,
// the member is the person acting on its behalf.
type Claims struct {
	jwt.RegisteredClaims
	HouseholdID string `json:"hid"`
	MemberID    string `json:"mid"`
	Plan        string `json:"plan,omitempty"`
}

// JWTService handles token issuance and validation.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// GenerateAccessToken issues a token for a household member.
func (s *JWTService) GenerateAccessToken(householdID, memberID, plan string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   memberID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		HouseholdID: householdID,
		MemberID:    memberID,
		Plan:        plan,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a token and returns the household context.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.HouseholdContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.HouseholdID == "" {
		return nil, fmt.Errorf("token carries no household")
	}

	return &appctx.HouseholdContext{
		HouseholdID: claims.HouseholdID,
		MemberID:    claims.MemberID,
		Plan:        claims.Plan,
	}, nil
}
