package http

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukahub/storefront/pkg/health"
	"github.com/dukahub/storefront/pkg/middleware"
)

// RouterConfig carries the wiring the router needs beyond the handlers.
type RouterConfig struct {
	ServiceName       string
	PprofEnabled      bool
	PprofCIDRs        []string
	PolicyCacheMaxAge int
}

// Handlers groups the storefront's HTTP handlers for router assembly.
type Handlers struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Auth     *AuthHandler
	Orders   *OrderHandler
	Session  *SessionMiddleware
	Health   *health.Handler
}

// NewRouter assembles the storefront API router.
func NewRouter(cfg RouterConfig, h Handlers, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health/live", h.Health.LivenessHandler())
	r.Get("/health/ready", h.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if cfg.PprofEnabled {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(h.Session.Handler)

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.CacheControl(60))
			r.Get("/", h.Products.List)
			r.Get("/{id}", h.Products.Get)
			r.Get("/{id}/buy-now", h.Products.BuyNow)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items", h.Cart.Add)
			r.Post("/items/remove", h.Cart.Remove)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.Checkout.Open)
			r.Get("/", h.Checkout.Current)
			r.Delete("/", h.Checkout.Abandon)
			r.Get("/counties", h.Checkout.Counties)
			r.Get("/subcounties", h.Checkout.Subcounties)
			r.Get("/couriers", h.Checkout.Couriers)
			r.Get("/payment-options", h.Checkout.PaymentOptions)
			r.Get("/last-delivery", h.Checkout.LastDelivery)
			r.Post("/delivery", h.Checkout.SetDelivery)
			r.Post("/profile", h.Checkout.SetProfile)
			r.Post("/back", h.Checkout.Back)
			r.Post("/submit", h.Checkout.Submit)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/register", h.Auth.Register)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)
			r.Post("/forgot-password", h.Auth.ForgotPassword)
			r.Post("/reset-password", h.Auth.ResetPassword)
		})

		r.Put("/account/profile", h.Auth.UpdateProfile)
		r.Get("/orders", h.Orders.List)
		r.Post("/contact", h.Orders.Contact)

		r.Route("/policies", func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.PolicyCacheMaxAge))
			r.Get("/{slug}", h.Orders.Policy)
		})
	})

	return r
}
