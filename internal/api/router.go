package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sourcepoint/tenderd/internal/catalog"
	"github.com/sourcepoint/tenderd/internal/directory"
	"github.com/sourcepoint/tenderd/internal/events"
	"github.com/sourcepoint/tenderd/internal/scoring"
	"github.com/sourcepoint/tenderd/internal/store"
	"github.com/sourcepoint/tenderd/internal/workflow"
)

func NewRouter(s store.Store, ev events.Client, dir directory.Client, wf *workflow.Workflow, cat *catalog.Catalog, rec *scoring.Recommender, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	evaluations := NewEvaluationsHandler(s, ev, cat, rec)
	summary := NewSummaryHandler(s, cat)
	selections := NewSelectionsHandler(s, wf)
	exports := NewExportHandler(s, cat, dir)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(UserIDMiddleware)

		r.Post("/events/{eventID}/evaluations/seed", evaluations.Seed)
		r.Get("/events/{eventID}/evaluations", evaluations.List)
		r.Get("/events/{eventID}/summary", summary.Summary)
		r.Get("/events/{eventID}/export", exports.Export)

		r.Patch("/evaluations/{id}/score", evaluations.Score)
		r.Delete("/evaluations/{id}/score", evaluations.ClearScore)
		r.Get("/evaluations/{id}/recommendation", evaluations.Recommendation)
		r.Post("/evaluations/{id}/accept-recommendation", evaluations.AcceptRecommendation)

		r.Post("/events/{eventID}/selection/submit", selections.Submit)
		r.Get("/events/{eventID}/selection", selections.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/selections/pending", selections.Pending)
			r.Post("/selections/{id}/approve", selections.Approve)
			r.Post("/selections/{id}/reject", selections.Reject)
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
