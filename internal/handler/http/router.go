package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/assistant"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const serviceName = "storefront"

// catalogMaxAge is the Cache-Control max-age for catalog reads, in seconds.
const catalogMaxAge = 300

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Catalog    *catalog.Store
	Carts      *service.CartService
	Checkouts  *service.CheckoutService
	Assistant  assistant.Assistant
	Health     *health.Handler
	CORS       middleware.CORSConfig
	PprofCIDRs []string
	// AssistantLimit throttles assistant calls; a zero RPS disables it.
	AssistantLimit middleware.RateLimitConfig
	Logger         *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(d.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", d.Health.LivenessHandler())
	r.Get("/health/ready", d.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, d.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(d.Catalog, logger)
	cartHandler := NewCartHandler(d.Carts, logger)
	checkoutHandler := NewCheckoutHandler(d.Checkouts, logger)
	assistantHandler := NewAssistantHandler(d.Assistant, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(catalogMaxAge))
			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{idOrSlug}", catalogHandler.GetProduct)
			r.Get("/facets", catalogHandler.Facets)
		})

		r.Post("/checkout/format", checkoutHandler.Format)

		r.Route("/assistant", func(r chi.Router) {
			r.Use(middleware.NoStore)
			if d.AssistantLimit.RPS > 0 {
				r.Use(middleware.RateLimit(d.AssistantLimit, logger))
			}
			r.Post("/search", assistantHandler.Search)
			r.Post("/analyze", assistantHandler.Analyze)
			r.Post("/generate", assistantHandler.Generate)
			r.Post("/chat", assistantHandler.Chat)
		})

		// Session-scoped state
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session)
			r.Use(middleware.NoStore)

			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Patch("/cart/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)

			r.Post("/checkout", checkoutHandler.Open)
			r.Get("/checkout", checkoutHandler.Get)
			r.Delete("/checkout", checkoutHandler.Teardown)
			r.Post("/checkout/shipping", checkoutHandler.SubmitShipping)
			r.Post("/checkout/back", checkoutHandler.Back)
			r.Post("/checkout/payment", checkoutHandler.SubmitPayment)
			r.Post("/checkout/cancel", checkoutHandler.Cancel)
			r.Post("/checkout/dismiss", checkoutHandler.Dismiss)
		})
	})

	return r
}
