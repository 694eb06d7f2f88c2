package routes

import (
	"net/http"

	"github.com/BradenHooton/loginlab/internal/auth"
	"github.com/BradenHooton/loginlab/internal/handlers"
	"github.com/BradenHooton/loginlab/internal/middleware"
	pkghttp "github.com/BradenHooton/loginlab/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies holds what RegisterRoutes wires into the router
type Dependencies struct {
	UserHandler    *handlers.UserHandler
	AuthHandler    *handlers.AuthHandler
	AdminHandler   *handlers.AdminHandler // optional
	TokenManager   *auth.TokenManager
	LoginRateLimit middleware.RateLimitConfig
	Gatherer       prometheus.Gatherer // nil means the default registry
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, deps Dependencies) {
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Public routes; the demo service exposes user management unauthenticated
	deps.UserHandler.RegisterRoutes(router)
	router.With(middleware.RateLimitByIP(deps.LoginRateLimit)).Post("/login", deps.AuthHandler.Login)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(deps.TokenManager))
		r.Get("/auth/me", deps.AuthHandler.Me)
		if deps.AdminHandler != nil {
			deps.AdminHandler.RegisterRoutes(r)
		}
	})
}
