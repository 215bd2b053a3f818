package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/brightpath-labs/vendoreval/internal/auth"
	"github.com/brightpath-labs/vendoreval/internal/decision"
	"github.com/brightpath-labs/vendoreval/internal/evaluation"
	"github.com/brightpath-labs/vendoreval/internal/events"
	"github.com/brightpath-labs/vendoreval/internal/rubric"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

// Deps collects everything the HTTP layer needs. The events client may be
// nil; handlers skip publishing in that case.
type Deps struct {
	Store    store.Store
	Rubric   *rubric.Rubric
	Manager  *evaluation.Manager
	Decision *decision.Service
	Resolver *auth.Resolver
	Events   events.Client
	Logger   *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	vendors := NewVendorsHandler(d.Store)
	evals := NewEvaluationsHandler(d.Store, d.Manager, d.Events)
	summary := NewSummaryHandler(d.Store, d.Rubric)
	reports := NewReportsHandler(d.Store, d.Rubric)
	decisions := NewDecisionsHandler(d.Store, d.Decision, d.Events)
	settings := NewSettingsHandler(d.Store, d.Events)

	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(d.Logger))
	r.Use(RateLimitMiddleware(240))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(d.Resolver))

		r.Post("/vendors", vendors.Create)
		r.Get("/vendors", vendors.List)
		r.Get("/vendors/{id}", vendors.Get)

		r.Post("/vendors/{id}/evaluation", evals.Submit)
		r.Put("/vendors/{id}/evaluation/draft", evals.SaveDraft)
		r.Get("/vendors/{id}/evaluation", evals.GetOwn)
		r.Get("/vendors/{id}/evaluations", evals.List)
		r.Put("/vendors/{id}/evaluations/{evaluatorID}/draft", evals.AdminSaveDraft)

		r.Get("/vendors/{id}/summary", summary.Get)
		r.Get("/vendors/{id}/report", reports.Get)
		r.Post("/vendors/{id}/decision", decisions.Record)

		r.Get("/admin/settings", settings.Get)
		r.Put("/admin/settings", settings.Update)
	})

	return r
}
