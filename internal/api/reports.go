package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/access"
	"github.com/brightpath-labs/vendoreval/internal/report"
	"github.com/brightpath-labs/vendoreval/internal/rubric"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

type ReportsHandler struct {
	store  store.Store
	rubric *rubric.Rubric
}

func NewReportsHandler(s store.Store, r *rubric.Rubric) *ReportsHandler {
	return &ReportsHandler{store: s, rubric: r}
}

// Get handles GET /api/v1/vendors/{id}/report. The format query parameter
// selects the capability required: print and export runs are gated on their
// feature flags as well as the caller's grants.
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	cap := access.CapViewAggregate
	switch r.URL.Query().Get("format") {
	case "":
	case "print":
		cap = access.CapPrintReports
	case "export":
		cap = access.CapExportData
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown report format"})
		return
	}
	if _, ok := requireCapability(w, r, h.store, cap); !ok {
		return
	}

	vendorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vendor id"})
		return
	}
	vendor, err := h.store.GetVendor(r.Context(), vendorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if vendor == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "vendor not found"})
		return
	}

	evals, err := h.store.ListEvaluations(r.Context(), vendorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	votes, err := h.store.ListVotes(r.Context(), vendorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, report.Build(h.rubric, vendor, evals, votes))
}
