package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/statsboard/statsboard/internal/api/handler"
	"github.com/statsboard/statsboard/internal/api/middleware"
	"github.com/statsboard/statsboard/internal/config"
	"github.com/statsboard/statsboard/internal/database"
	"github.com/statsboard/statsboard/internal/events"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Source       handler.SnapshotSource
	Reloader     handler.Reloader
	DBPinger     handler.DBPinger
	Repo         database.Repository
	Events       *events.Hub
	Dashboard    config.Dashboard
	Version      string
	OpenAPISpec  []byte
	AdminKeyHash string
	CORSOrigins  []string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
// The loads routes need Repo, /api/v1/events needs Events, and /admin/reload
// needs both Reloader and AdminKeyHash.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	healthHandler := handler.NewHealthHandler(deps.Source, deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec, deps.Version)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	pageHandler := handler.NewPageHandler(deps.Source, deps.Dashboard, deps.Version)
	r.Get("/", pageHandler.ServeHTTP)

	compHandler := handler.NewCompetitionHandler(deps.Source, deps.Dashboard.TopN, deps.Dashboard.AgeBins)
	menuHandler := handler.NewMenuHandler(deps.Dashboard)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu", menuHandler.ServeHTTP)

		r.Route("/competitions", func(r chi.Router) {
			r.Get("/", compHandler.List)
			r.Route("/{competition}", func(r chi.Router) {
				r.Get("/players", compHandler.Players)
				r.Get("/overview", compHandler.Overview)
				r.Get("/top-scorers", compHandler.TopScorers)
				r.Get("/position-stats", compHandler.PositionStats)
				r.Get("/cards", compHandler.Cards)
			})
		})

		if deps.Events != nil {
			eventsHandler := handler.NewEventsHandler(deps.Events, deps.CORSOrigins)
			r.Get("/events", eventsHandler.ServeHTTP)
		}

		if deps.Repo != nil {
			loadHandler := handler.NewLoadHandler(deps.Repo)
			r.Route("/loads", func(r chi.Router) {
				r.Get("/", loadHandler.List)
				r.Get("/{id}", loadHandler.GetByID)
				r.Get("/{id}/competitions/{competition}/players", loadHandler.Records)
			})
		}
	})

	if deps.Reloader != nil && deps.AdminKeyHash != "" {
		reloadHandler := handler.NewReloadHandler(deps.Reloader)
		r.With(middleware.AdminKey(deps.AdminKeyHash)).Post("/admin/reload", reloadHandler.ServeHTTP)
	}

	return r
}
