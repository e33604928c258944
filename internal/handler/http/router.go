package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliaxp/LiberaryApplication/internal/service"
	"github.com/iliaxp/LiberaryApplication/pkg/health"
	"github.com/iliaxp/LiberaryApplication/pkg/middleware"
)

// ServiceName labels metrics and spans.
const ServiceName = "storefront"

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svc *service.Storefront,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cors middleware.CORSConfig,
	limit middleware.RateLimitConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cors))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	h := NewStorefrontHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(limit, logger))
		r.Use(ContentTypeJSON)

		r.Get("/categories", h.ListCategories)
		r.Get("/books/{bookId}", h.GetBook)

		r.Group(func(r chi.Router) {
			r.Use(SessionIDFromHeader)

			r.Route("/screen", func(r chi.Router) {
				r.Get("/", h.GetScreen)
				r.Post("/splash/finish", h.FinishSplash)
				r.Post("/onboarding/complete", h.CompleteOnboarding)
				r.Post("/back", h.Back)
			})

			r.Route("/library", func(r chi.Router) {
				r.Get("/", h.GetLibrary)
				r.Put("/category", h.SetCategory)
				r.Put("/search", h.SetSearchQuery)
				r.Put("/search/active", h.SetSearchActive)
				r.Put("/sort", h.SetSortOption)
			})

			r.Post("/books/{bookId}/select", h.SelectBook)
			r.Post("/books/{bookId}/buy", h.BuyBook)
			r.Post("/detail/category", h.ChooseDetailCategory)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Post("/open", h.OpenCart)
				r.Post("/items", h.AddItem)
				r.Put("/items/{bookId}", h.UpdateItemQuantity)
				r.Delete("/items/{bookId}", h.RemoveItem)
				r.Post("/checkout", h.Checkout)
			})

			r.Route("/payment", func(r chi.Router) {
				r.Get("/", h.GetPayment)
				r.Post("/validate", h.ValidatePayment)
				r.Post("/complete", h.CompletePayment)
			})

			r.Get("/carousel", h.GetCarousel)
			r.Put("/carousel/current", h.ShowSlide)
		})
	})

	return r
}
