/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontends

ROUTE GROUPS:
  /api/orgs/{orgID}/rate-resolution        Rate resolution
  /api/orgs/{orgID}/staffing-requests/*    Candidate ranking
  /api/orgs/{orgID}/assignments/*          Assignment lifecycle
  /api/health                              Liveness
  /metrics                                 Prometheus

SECURITY NOTE:
  No authentication middleware. Auth is out of scope for this core and
  belongs to the surrounding platform.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
// Metrics may be nil, in which case handlers are mounted uninstrumented.
func NewRouter(h *Handler, m *Metrics) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	wrap := func(endpoint string, next http.HandlerFunc) http.HandlerFunc {
		if m == nil {
			return next
		}
		return m.Instrument(endpoint, next)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/orgs/{orgID}", func(r chi.Router) {
			r.Get("/rate-resolution", wrap("rate_resolution", h.ResolveRate))

			r.Route("/staffing-requests/{requestID}", func(r chi.Router) {
				r.Get("/candidates", wrap("rank_candidates", h.RankCandidates))
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Post("/", wrap("create_assignment", h.CreateAssignment))
				r.Get("/{id}", wrap("get_assignment", h.GetAssignment))
				r.Patch("/{id}", wrap("update_assignment", h.UpdateAssignment))
				r.Post("/{id}/cancel", wrap("cancel_assignment", h.CancelAssignment))
			})
		})
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
