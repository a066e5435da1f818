package domain

import (
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// PriceRange is an inclusive price window in cents.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Contains reports whether price lies within the range, bounds included.
func (r PriceRange) Contains(price int64) bool {
	return price >= r.Min && price <= r.Max
}

// FilterState is the set of active catalog filters.
//
// Selected badges combine with AND: a product must carry every one.
// Selected origins combine with OR: a product's origin must be any one.
type FilterState struct {
	Category        string     `json:"category"`
	PriceRange      PriceRange `json:"price_range"`
	SelectedBadges  []string   `json:"selected_badges"`
	SelectedOrigins []string   `json:"selected_origins"`
}

// Validate rejects unknown categories and malformed price ranges.
func (f FilterState) Validate() error {
	if !IsValidCategory(f.Category) {
		return apperrors.InvalidInput("unknown category: " + f.Category)
	}
	if f.PriceRange.Min < 0 || f.PriceRange.Max < 0 {
		return apperrors.InvalidInput("price bounds must not be negative")
	}
	if f.PriceRange.Min > f.PriceRange.Max {
		return apperrors.InvalidInput("min price must not exceed max price")
	}
	return nil
}
