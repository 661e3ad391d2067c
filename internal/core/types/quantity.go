// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Quantity is an exact decimal amount of a product in some unit.
// Uses decimal.Decimal so unit conversion and shortfall arithmetic never
// accumulate floating-point error.
type Quantity = decimal.Decimal

// NewQuantity creates a Quantity from a float.
// WARNING: prefer NewQuantityFromString for values parsed from input.
func NewQuantity(f float64) Quantity {
	return decimal.NewFromFloat(f)
}

// NewQuantityFromString creates a Quantity from a decimal string.
func NewQuantityFromString(s string) (Quantity, error) {
	return decimal.NewFromString(s)
}

// MustQuantity creates a Quantity from a string, panics on error.
// Use only for constants and tests.
func MustQuantity(s string) Quantity {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroQuantity returns the zero Quantity.
func ZeroQuantity() Quantity {
	return decimal.Zero
}

// MaxQuantity returns the larger of two quantities.
func MaxQuantity(a, b Quantity) Quantity {
	if a.GreaterThanOrEqual(b) {
		return a
	}
	return b
}
