package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Bobot/internal/seeder"
	"github.com/MikeSquared-Agency/Bobot/internal/store"
)

func NewRouter(s store.Store, sd *seeder.Seeder, adminToken string, requestsPerMinute int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))

	weightsH := NewWeightsHandler(sd.Generator())
	units := NewUnitsHandler(s)
	swot := NewSWOTHandler(s, sd)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ClientIDMiddleware)
		r.Use(RateLimitMiddleware(requestsPerMinute))

		r.Get("/weights", weightsH.Generate)

		r.Get("/units", units.List)
		r.Get("/units/{id}", units.Get)
		r.Get("/units/{id}/swot", swot.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Post("/units", units.Create)
			r.Post("/units/{id}/swot/seed", swot.SeedUnit)
			r.Post("/swot/seed", swot.SeedAll)
			r.Post("/swot/rebalance", swot.Rebalance)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
