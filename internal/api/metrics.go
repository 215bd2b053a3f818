package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	evaluationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vendoreval_evaluations_submitted_total",
		Help: "Evaluations accepted with status SUBMITTED.",
	})
	draftsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vendoreval_drafts_saved_total",
		Help: "Draft evaluation writes.",
	})
	decisionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendoreval_decisions_total",
		Help: "Terminal vendor decisions by outcome.",
	}, []string{"decision"})
	capabilityDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendoreval_capability_denials_total",
		Help: "Capability requests denied, by reason.",
	}, []string{"reason"})
)

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
