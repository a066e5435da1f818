// Package filter selects the visible subset of the catalog.
package filter

import (
	"slices"

	"github.com/utafrali/storefront/internal/domain"
)

// DefaultMaxPrice is the upper price bound of a reset filter, in cents. It is
// a fixed default and deliberately not derived from the catalog.
const DefaultMaxPrice int64 = 100_00

// Reset returns the default filter state.
func Reset() domain.FilterState {
	return domain.FilterState{
		Category:        domain.CategoryAll,
		PriceRange:      domain.PriceRange{Min: 0, Max: DefaultMaxPrice},
		SelectedBadges:  []string{},
		SelectedOrigins: []string{},
	}
}

// Apply returns the products matching every predicate of f, in their input
// order. No match yields an empty, non-nil slice.
func Apply(products []domain.Product, f domain.FilterState) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p passes every predicate of f.
func Matches(p domain.Product, f domain.FilterState) bool {
	return categoryMatch(p, f.Category) &&
		f.PriceRange.Contains(p.Price) &&
		originMatch(p, f.SelectedOrigins) &&
		badgeMatch(p, f.SelectedBadges)
}

func categoryMatch(p domain.Product, category string) bool {
	return category == domain.CategoryAll || p.Category == category
}

// originMatch is OR: any selected origin will do.
func originMatch(p domain.Product, origins []string) bool {
	return len(origins) == 0 || slices.Contains(origins, p.Details.Origin)
}

// badgeMatch is AND: the product must carry every selected badge.
func badgeMatch(p domain.Product, badges []string) bool {
	for _, b := range badges {
		if !p.HasBadge(b) {
			return false
		}
	}
	return true
}

// HasActive reports whether f differs from the reset state in any way the
// shopper would want to clear.
func HasActive(f domain.FilterState) bool {
	return f.Category != domain.CategoryAll ||
		len(f.SelectedBadges) > 0 ||
		len(f.SelectedOrigins) > 0 ||
		f.PriceRange.Min > 0 ||
		f.PriceRange.Max < DefaultMaxPrice
}

// Toggle adds value to set, or removes it when already present. The input
// slice is not modified.
func Toggle(set []string, value string) []string {
	if i := slices.Index(set, value); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), value)
}
