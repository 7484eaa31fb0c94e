package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ezra-186/Team09-HCH/pkg/health"
	"github.com/Ezra-186/Team09-HCH/pkg/middleware"

	"github.com/Ezra-186/Team09-HCH/internal/auth"
	"github.com/Ezra-186/Team09-HCH/internal/service"
)

// RouterConfig bundles the dependencies the router wires together.
type RouterConfig struct {
	Products      *service.ProductService
	Reviews       *service.ReviewService
	Sellers       *service.SellerService
	SessionCodec  *auth.SessionCodec
	Health        *health.Handler
	CORS          middleware.CORSConfig
	SecureCookies bool
	Logger        *slog.Logger
}

// NewRouter creates a chi router with all marketplace routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("marketplace"))
	r.Use(SessionMiddleware(cfg.SessionCodec))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(cfg.Products, cfg.Reviews, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.Reviews, cfg.Logger)
	sellerHandler := NewSellerHandler(cfg.Sellers, cfg.Products, cfg.Logger)
	authHandler := NewAuthHandler(cfg.Sellers, cfg.SecureCookies, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/sources", productHandler.Sources)
			r.Get("/{id}", productHandler.Get)
			r.Get("/{id}/stats", productHandler.Stats)

			r.Group(func(r chi.Router) {
				r.Use(RequireSeller)
				r.Post("/", productHandler.Create)
				r.Patch("/{id}", productHandler.Update)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})

		r.Route("/sellers", func(r chi.Router) {
			r.Get("/", sellerHandler.List)
			r.Get("/{id}", sellerHandler.Get)
			r.Get("/{id}/products", sellerHandler.Products)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.List)
			r.Post("/", reviewHandler.Create)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
		})
	})

	return r
}
