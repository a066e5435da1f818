// Package catalog holds the immutable product catalog and its facets.
package catalog

import (
	"slices"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/slug"
)

// Store is a read-only product catalog. It is safe for concurrent use; every
// accessor returns copies.
type Store struct {
	products []domain.Product
	byID     map[string]int
	bySlug   map[string]int
}

// New builds a store over products, keeping their order. Missing slugs are
// generated from product names.
func New(products []domain.Product) *Store {
	s := &Store{
		products: make([]domain.Product, len(products)),
		byID:     make(map[string]int, len(products)),
		bySlug:   make(map[string]int, len(products)),
	}
	for i, p := range products {
		p = p.Clone()
		if p.Slug == "" {
			p.Slug = slug.Generate(p.Name)
		}
		s.products[i] = p
		s.byID[p.ID] = i
		s.bySlug[p.Slug] = i
	}
	return s
}

// Default returns the Heritage catalog.
func Default() *Store {
	return New(heritageProducts)
}

// All returns every product in catalog order.
func (s *Store) All() []domain.Product {
	out := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of products.
func (s *Store) Len() int {
	return len(s.products)
}

// ByID looks a product up by id.
func (s *Store) ByID(id string) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i].Clone(), true
}

// Lookup resolves a product by id, falling back to its slug.
func (s *Store) Lookup(idOrSlug string) (domain.Product, bool) {
	if p, ok := s.ByID(idOrSlug); ok {
		return p, true
	}
	i, ok := s.bySlug[idOrSlug]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i].Clone(), true
}

// DistinctBadges returns every badge in the catalog, sorted.
func (s *Store) DistinctBadges() []string {
	var badges []string
	for _, p := range s.products {
		badges = append(badges, p.Badges...)
	}
	return sortedUnique(badges)
}

// DistinctOrigins returns every origin in the catalog, sorted.
func (s *Store) DistinctOrigins() []string {
	origins := make([]string, 0, len(s.products))
	for _, p := range s.products {
		origins = append(origins, p.Details.Origin)
	}
	return sortedUnique(origins)
}

// MaxPrice returns the highest price rounded up to a whole currency unit.
func (s *Store) MaxPrice() int64 {
	var maxPrice int64
	for _, p := range s.products {
		maxPrice = max(maxPrice, p.Price)
	}
	return (maxPrice + 99) / 100 * 100
}

// Categories returns the category list, starting with All.
func (s *Store) Categories() []string {
	return domain.Categories()
}

// Match returns products whose name, description, category, badges or
// ingredients mention any word of query, in catalog order. Words shorter than
// four letters are ignored.
func (s *Store) Match(query string) []domain.Product {
	var terms []string
	for _, w := range strings.FieldsFunc(strings.ToLower(query), isSeparator) {
		if len(w) >= 4 {
			terms = append(terms, w)
		}
	}

	out := []domain.Product{}
	if len(terms) == 0 {
		return out
	}
	for _, p := range s.products {
		haystack := strings.ToLower(strings.Join([]string{
			p.Name, p.Description, p.Category, strings.Join(p.Badges, " "), p.Details.Ingredients,
		}, " "))
		if slices.ContainsFunc(terms, func(t string) bool { return strings.Contains(haystack, t) }) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func isSeparator(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
}

func sortedUnique(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
