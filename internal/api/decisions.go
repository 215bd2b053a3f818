package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/access"
	"github.com/brightpath-labs/vendoreval/internal/decision"
	"github.com/brightpath-labs/vendoreval/internal/events"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

type DecisionsHandler struct {
	store   store.Store
	service *decision.Service
	events  events.Client
}

func NewDecisionsHandler(s store.Store, svc *decision.Service, ev events.Client) *DecisionsHandler {
	return &DecisionsHandler{store: s, service: svc, events: ev}
}

type DecisionRequest struct {
	Choice string `json:"choice"`
}

// Record handles POST /api/v1/vendors/{id}/decision
func (h *DecisionsHandler) Record(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireCapability(w, r, h.store, access.CapDecide)
	if !ok {
		return
	}
	vendorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vendor id"})
		return
	}

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	choice := store.VoteChoice(req.Choice)
	if choice != store.VoteAccept && choice != store.VoteReject {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "choice must be ACCEPT or REJECT"})
		return
	}

	vendor, err := h.service.Record(r.Context(), vendorID, actor.ID, actor.Name, choice)
	if err != nil {
		switch {
		case errors.Is(err, decision.ErrVendorNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "vendor not found"})
		case errors.Is(err, decision.ErrAlreadyDecided):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "vendor already decided"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}

	decisionsRecorded.WithLabelValues(string(vendor.FinalDecision)).Inc()
	if h.events != nil {
		ev := events.DecisionRecordedEvent{
			VendorID:  vendor.ID.String(),
			Decision:  string(vendor.FinalDecision),
			DecidedBy: actor.Name,
		}
		if vendor.DecidedAt != nil {
			ev.DecidedAt = *vendor.DecidedAt
		}
		_ = h.events.Publish(events.SubjectDecisionRecorded(vendor.ID.String()), ev)
	}

	writeJSON(w, http.StatusOK, vendor)
}
