// Package unit provides measurement-unit families and conversion between
// units of the same family. The registry is fixed reference data: grocery
// quantities only ever need mass, volume and count, and the conversion
// ratios never change.
package unit

import (
	"strings"

	"github.com/shopspring/decimal"

	"larder/internal/core/apperror"
)

// Family groups units that are interconvertible via fixed ratios.
type Family string

const (
	FamilyMass   Family = "mass"
	FamilyVolume Family = "volume"
	FamilyCount  Family = "count"

	// FamilyUnknown marks units outside the registry ("bunch", "slice").
	// Unknown units are compared by symbol equality only, never converted.
	FamilyUnknown Family = "unknown"
)

// Unit is one measurement unit with its conversion factor to the family's
// base unit (gram, milliliter, piece).
type Unit struct {
	Symbol string
	Family Family

	// Factor converts one of this unit into the family base unit.
	Factor decimal.Decimal
}

func def(symbol string, family Family, factor string) Unit {
	return Unit{Symbol: symbol, Family: family, Factor: decimal.RequireFromString(factor)}
}

// registry maps lowercase symbols to units. Aliases share an entry.
var registry = map[string]Unit{
	// mass, base gram
	"mg": def("mg", FamilyMass, "0.001"),
	"g":  def("g", FamilyMass, "1"),
	"kg": def("kg", FamilyMass, "1000"),
	"oz": def("oz", FamilyMass, "28.349523125"),
	"lb": def("lb", FamilyMass, "453.59237"),

	// volume, base milliliter
	"ml":   def("ml", FamilyVolume, "1"),
	"cl":   def("cl", FamilyVolume, "10"),
	"dl":   def("dl", FamilyVolume, "100"),
	"l":    def("l", FamilyVolume, "1000"),
	"tsp":  def("tsp", FamilyVolume, "4.92892159375"),
	"tbsp": def("tbsp", FamilyVolume, "14.78676478125"),
	"cup":  def("cup", FamilyVolume, "236.5882365"),

	// count, base piece
	"pc":    def("pc", FamilyCount, "1"),
	"pcs":   def("pc", FamilyCount, "1"),
	"piece": def("pc", FamilyCount, "1"),
	"dozen": def("dozen", FamilyCount, "12"),
}

// Resolve looks up a unit symbol, case-insensitively. Unregistered symbols
// resolve to a FamilyUnknown unit carrying the normalized symbol, so
// callers can still compare them by equality.
func Resolve(symbol string) Unit {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if u, ok := registry[s]; ok {
		return u
	}
	return Unit{Symbol: s, Family: FamilyUnknown, Factor: decimal.NewFromInt(1)}
}

// Known reports whether the symbol belongs to a registered family.
func Known(symbol string) bool {
	_, ok := registry[strings.ToLower(strings.TrimSpace(symbol))]
	return ok
}

// Convertible reports whether a quantity in `from` can be expressed in
// `to`. Unknown units are convertible only to themselves (same symbol).
func Convertible(from, to Unit) bool {
	if from.Family == FamilyUnknown || to.Family == FamilyUnknown {
		return from.Symbol == to.Symbol
	}
	return from.Family == to.Family
}

// Convert expresses qty (in `from` units) in `to` units.
// Returns an error when the units belong to different families; callers in
// the matching path treat that as "not satisfied" rather than failing.
func Convert(qty decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	if !Convertible(from, to) {
		return decimal.Zero, apperror.NewValidation("cannot convert between unit families").
			WithDetail("from", from.Symbol).
			WithDetail("to", to.Symbol)
	}
	if from.Symbol == to.Symbol {
		return qty, nil
	}
	return qty.Mul(from.Factor).Div(to.Factor), nil
}

// ConvertSymbols is Convert over raw symbols.
func ConvertSymbols(qty decimal.Decimal, from, to string) (decimal.Decimal, error) {
	return Convert(qty, Resolve(from), Resolve(to))
}
