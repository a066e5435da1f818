package domain

import "slices"

// Product categories. CategoryAll is a filter sentinel, never assigned to a product.
const (
	CategoryAll        = "All"
	CategoryBeverages  = "Beverages"
	CategorySuperfoods = "Superfoods"
	CategoryOils       = "Oils"
	CategorySpices     = "Spices"
	CategoryPantry     = "Pantry"
)

// Categories returns the category list in display order, starting with All.
func Categories() []string {
	return []string{
		CategoryAll,
		CategoryBeverages,
		CategorySuperfoods,
		CategoryOils,
		CategorySpices,
		CategoryPantry,
	}
}

// IsValidCategory reports whether c is one of Categories.
func IsValidCategory(c string) bool {
	return slices.Contains(Categories(), c)
}

// Product is a catalog entry. Prices are in cents.
type Product struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Price       int64          `json:"price"`
	Image       string         `json:"image"`
	Images      []string       `json:"images"`
	Badges      []string       `json:"badges"`
	Rating      float64        `json:"rating"`
	Reviews     int            `json:"reviews"`
	Details     ProductDetails `json:"details"`
}

// ProductDetails holds descriptive product attributes.
type ProductDetails struct {
	Origin      string `json:"origin"`
	Weight      string `json:"weight"`
	Ingredients string `json:"ingredients"`
}

// Clone returns a deep copy so callers cannot mutate shared catalog slices.
func (p Product) Clone() Product {
	p.Images = slices.Clone(p.Images)
	p.Badges = slices.Clone(p.Badges)
	return p
}

// HasBadge reports whether the product carries badge b.
func (p Product) HasBadge(b string) bool {
	return slices.Contains(p.Badges, b)
}
