package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
)

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestReset(t *testing.T) {
	f := Reset()
	assert.Equal(t, domain.CategoryAll, f.Category)
	assert.Equal(t, domain.PriceRange{Min: 0, Max: 100_00}, f.PriceRange)
	assert.NotNil(t, f.SelectedBadges)
	assert.Empty(t, f.SelectedBadges)
	assert.Empty(t, f.SelectedOrigins)
	assert.NoError(t, f.Validate())
	assert.False(t, HasActive(f))
}

func TestApply_ResetReturnsWholeCatalogInOrder(t *testing.T) {
	all := catalog.Default().All()
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(Apply(all, Reset())))
}

func TestApply_Category(t *testing.T) {
	f := Reset()
	f.Category = domain.CategoryPantry
	assert.Equal(t, []string{"5", "6"}, ids(Apply(catalog.Default().All(), f)))
}

func TestApply_PriceIsInclusive(t *testing.T) {
	f := Reset()
	f.PriceRange = domain.PriceRange{Min: 15_00, Max: 28_00}
	assert.Equal(t, []string{"4", "5", "6"}, ids(Apply(catalog.Default().All(), f)))
}

func TestApply_BadgesAreAND(t *testing.T) {
	products := []domain.Product{
		{ID: "organic-only", Badges: []string{"Organic"}},
		{ID: "both", Badges: []string{"Vegan", "Organic"}},
		{ID: "none"},
	}
	f := Reset()
	f.SelectedBadges = []string{"Organic", "Vegan"}

	assert.Equal(t, []string{"both"}, ids(Apply(products, f)))
}

func TestApply_OriginsAreOR(t *testing.T) {
	products := []domain.Product{
		{ID: "lk", Details: domain.ProductDetails{Origin: "Sri Lanka"}},
		{ID: "in", Details: domain.ProductDetails{Origin: "India"}},
		{ID: "ke", Details: domain.ProductDetails{Origin: "Kenya"}},
	}

	f := Reset()
	f.SelectedOrigins = []string{"Sri Lanka"}
	assert.Equal(t, []string{"lk"}, ids(Apply(products, f)))

	f.SelectedOrigins = []string{"Sri Lanka", "Kenya"}
	assert.Equal(t, []string{"lk", "ke"}, ids(Apply(products, f)))
}

func TestApply_AllPredicatesMustHold(t *testing.T) {
	f := Reset()
	f.Category = domain.CategoryOils
	f.SelectedBadges = []string{"Organic"}
	f.SelectedOrigins = []string{"Sri Lanka"}
	f.PriceRange = domain.PriceRange{Min: 0, Max: 31_99}

	assert.Empty(t, Apply(catalog.Default().All(), f))

	f.PriceRange.Max = 32_00
	assert.Equal(t, []string{"3"}, ids(Apply(catalog.Default().All(), f)))
}

func TestApply_EmptyResultIsNonNil(t *testing.T) {
	f := Reset()
	f.SelectedBadges = []string{"Does Not Exist"}

	got := Apply(catalog.Default().All(), f)
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.NotNil(t, Apply(nil, Reset()))
}

func TestHasActive(t *testing.T) {
	tests := []struct {
		name string
		edit func(*domain.FilterState)
		want bool
	}{
		{"reset", func(*domain.FilterState) {}, false},
		{"category", func(f *domain.FilterState) { f.Category = domain.CategoryOils }, true},
		{"badge", func(f *domain.FilterState) { f.SelectedBadges = []string{"Vegan"} }, true},
		{"origin", func(f *domain.FilterState) { f.SelectedOrigins = []string{"Sri Lanka"} }, true},
		{"min", func(f *domain.FilterState) { f.PriceRange.Min = 1 }, true},
		{"max", func(f *domain.FilterState) { f.PriceRange.Max = 99_99 }, true},
		{"max above default", func(f *domain.FilterState) { f.PriceRange.Max = 200_00 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Reset()
			tt.edit(&f)
			assert.Equal(t, tt.want, HasActive(f))
		})
	}
}

func TestToggle(t *testing.T) {
	set := []string{"Organic"}

	added := Toggle(set, "Vegan")
	assert.Equal(t, []string{"Organic", "Vegan"}, added)
	assert.Equal(t, []string{"Organic"}, set)

	removed := Toggle(added, "Organic")
	assert.Equal(t, []string{"Vegan"}, removed)
	assert.Equal(t, []string{"Organic", "Vegan"}, added)

	assert.Equal(t, []string{"x"}, Toggle(nil, "x"))
}
