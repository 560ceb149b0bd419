package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sipico/dashboard-api/internal/auth"
	"github.com/sipico/dashboard-api/internal/metrics"
	"github.com/sipico/dashboard-api/internal/middleware"
)

// NewRouter creates the API router with all routes and middleware.
func (h *Handler) NewRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware)

	requireAuth := auth.Middleware(h.tokens)
	optionalAuth := auth.OptionalMiddleware(h.tokens)

	// Public endpoints (no auth)
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReady)

	r.Route("/users", func(r chi.Router) {
		r.Post("/create", h.HandleCreateUser)
		r.Post("/authenticate", h.HandleAuthenticate)
	})

	r.Route("/dashboards", func(r chi.Router) {
		// Owner-scoped endpoints (token required)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/dashboards", h.HandleListDashboards)
			r.Get("/dashboard", h.HandleGetDashboard)
			r.Post("/create-dashboard", h.HandleCreateDashboard)
			r.Post("/delete-dashboard", h.HandleDeleteDashboard)
			r.Post("/save-dashboard", h.HandleSaveDashboard)
			r.Post("/clone-dashboard", h.HandleCloneDashboard)
			r.Post("/share-dashboard", h.HandleShareDashboard)
			r.Post("/change-password", h.HandleChangePassword)
		})

		// Sharing gate endpoints: anonymous viewers allowed, owners
		// recognized when a token is present
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Post("/check-password-needed", h.HandleCheckPasswordNeeded)
			r.Post("/check-password", h.HandleCheckPassword)
		})
	})

	r.Route("/sources", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/sources", h.HandleListSources)
			r.Post("/create-source", h.HandleCreateSource)
			r.Post("/change-source", h.HandleChangeSource)
			r.Post("/delete-source", h.HandleDeleteSource)
			r.Post("/check-sources", h.HandleCheckSources)
		})

		// Viewers of a shared dashboard fetch source metadata by name
		r.With(optionalAuth).Post("/source", h.HandleGetSource)
	})

	// Runtime log level management
	r.With(requireAuth).Post("/api/loglevel", h.HandleSetLogLevel)

	return r
}
