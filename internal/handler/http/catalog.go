package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/filter"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// CatalogHandler serves the read-only product catalog.
type CatalogHandler struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(store *catalog.Store, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{store: store, logger: logger}
}

// ProductListResponse is the body of GET /products.
type ProductListResponse struct {
	Products         []domain.Product   `json:"products"`
	Count            int                `json:"count"`
	Filter           domain.FilterState `json:"filter"`
	HasActiveFilters bool               `json:"has_active_filters"`
}

// FacetsResponse lists the values the filter sidebar offers.
type FacetsResponse struct {
	Categories    []string           `json:"categories"`
	Badges        []string           `json:"badges"`
	Origins       []string           `json:"origins"`
	MaxPrice      int64              `json:"max_price"`
	DefaultFilter domain.FilterState `json:"default_filter"`
}

// ListProducts handles GET /api/v1/products
//
// Query: category, min_price, max_price (cents), badge and origin (repeatable).
// Absent parameters keep their reset defaults.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products := filter.Apply(h.store.All(), f)
	httputil.WriteData(w, http.StatusOK, ProductListResponse{
		Products:         products,
		Count:            len(products),
		Filter:           f,
		HasActiveFilters: filter.HasActive(f),
	})
}

// GetProduct handles GET /api/v1/products/{idOrSlug}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	p, ok := h.store.Lookup(idOrSlug)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", idOrSlug), h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, p)
}

// Facets handles GET /api/v1/facets
func (h *CatalogHandler) Facets(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, FacetsResponse{
		Categories:    h.store.Categories(),
		Badges:        h.store.DistinctBadges(),
		Origins:       h.store.DistinctOrigins(),
		MaxPrice:      h.store.MaxPrice(),
		DefaultFilter: filter.Reset(),
	})
}

func parseFilter(r *http.Request) (domain.FilterState, error) {
	q := r.URL.Query()
	f := filter.Reset()

	if v := q.Get("category"); v != "" {
		f.Category = v
	}
	if v := q.Get("min_price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, apperrors.InvalidInput("min_price must be a whole number of cents")
		}
		f.PriceRange.Min = price
	}
	if v := q.Get("max_price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, apperrors.InvalidInput("max_price must be a whole number of cents")
		}
		f.PriceRange.Max = price
	}
	for _, b := range q["badge"] {
		if b != "" && !slices.Contains(f.SelectedBadges, b) {
			f.SelectedBadges = append(f.SelectedBadges, b)
		}
	}
	for _, o := range q["origin"] {
		if o != "" && !slices.Contains(f.SelectedOrigins, o) {
			f.SelectedOrigins = append(f.SelectedOrigins, o)
		}
	}

	return f, f.Validate()
}
