package web

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/znz-systems/linkboard/internal/ratelimit"
	"github.com/znz-systems/linkboard/internal/web/handlers"
	"github.com/znz-systems/linkboard/internal/web/middleware"
)

// RouterDeps holds all dependencies needed to build the router.
type RouterDeps struct {
	ConnectionHandler *handlers.ConnectionHandler
	DashboardHandler  *handlers.DashboardHandler
	SearchHandler     *handlers.SearchHandler
	AuthReturnHandler *handlers.AuthReturnHandler
	HealthHandler     *handlers.HealthHandler
	Relay             http.Handler
	Limiter           *ratelimit.Limiter
	StaticFS          fs.FS
}

// NewRouter wires all routes into a Chi router.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	fileServer := http.FileServer(http.FS(deps.StaticFS))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	r.Get("/healthz", deps.HealthHandler.HandleHealth)

	// Browser pages (with CSRF)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.Get("/", deps.ConnectionHandler.ShowConnections)
		r.Get("/status", deps.ConnectionHandler.ShowStatus)

		r.Get("/dashboard", deps.DashboardHandler.ShowDashboard)
		r.Get("/dashboard/people/{id}", deps.DashboardHandler.ShowPerson)
		r.Get("/search", deps.SearchHandler.ShowSearch)

		r.Get("/auth/success", deps.AuthReturnHandler.ShowSuccess)
		r.Post("/auth/success/complete", deps.AuthReturnHandler.HandleComplete)
		r.Get("/auth/continue", deps.AuthReturnHandler.HandleContinue)
		r.Get("/auth/error", deps.AuthReturnHandler.ShowError)

		// User triggered backend actions (CSRF + rate limited)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(deps.Limiter))

			r.Post("/connect/{provider}", deps.ConnectionHandler.HandleConnect)
			r.Post("/sync", deps.ConnectionHandler.HandleSync)
			r.Post("/accounts/{id}/disconnect", deps.ConnectionHandler.HandleDisconnect)
			r.Post("/dashboard/refresh", deps.DashboardHandler.HandleRefresh)
			r.Post("/search", deps.SearchHandler.HandleSearch)
		})
	})

	// JSON relay (rate limited, no CSRF)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.Limiter))

		r.Method(http.MethodPost, "/api/linkedin/people-search", deps.Relay)
	})

	return r
}
