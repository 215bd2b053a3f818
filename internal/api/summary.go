package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/access"
	"github.com/brightpath-labs/vendoreval/internal/aggregate"
	"github.com/brightpath-labs/vendoreval/internal/rubric"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

type SummaryHandler struct {
	store  store.Store
	rubric *rubric.Rubric
}

func NewSummaryHandler(s store.Store, r *rubric.Rubric) *SummaryHandler {
	return &SummaryHandler{store: s, rubric: r}
}

// Get handles GET /api/v1/vendors/{id}/summary
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCapability(w, r, h.store, access.CapViewAggregate); !ok {
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

	writeJSON(w, http.StatusOK, aggregate.Aggregate(h.rubric, vendorID, evals))
}
