package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/access"
	"github.com/brightpath-labs/vendoreval/internal/evaluation"
	"github.com/brightpath-labs/vendoreval/internal/events"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

type EvaluationsHandler struct {
	store   store.Store
	manager *evaluation.Manager
	events  events.Client
}

func NewEvaluationsHandler(s store.Store, m *evaluation.Manager, ev events.Client) *EvaluationsHandler {
	return &EvaluationsHandler{store: s, manager: m, events: ev}
}

type ScoreSubmissionRequest struct {
	Scores  map[string]float64 `json:"scores"`
	Remarks map[string]string  `json:"remarks,omitempty"`
}

type ScoreSubmissionResponse struct {
	OverallScore float64            `json:"overall_score"`
	Status       string             `json:"status"`
	Progress     map[string]float64 `json:"progress,omitempty"`
}

// Submit handles POST /api/v1/vendors/{id}/evaluation
func (h *EvaluationsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireCapability(w, r, h.store, access.CapSubmitOwnEvaluation)
	if !ok {
		return
	}
	vendor, ok := h.loadVendor(w, r)
	if !ok {
		return
	}

	var req ScoreSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	e, err := h.manager.Submit(r.Context(), evaluation.Submission{
		VendorID:      vendor.ID,
		EvaluatorID:   actor.ID,
		EvaluatorName: actor.Name,
		Scores:        req.Scores,
		Remarks:       req.Remarks,
	})
	if err != nil {
		writeEvaluationError(w, err)
		return
	}

	evaluationsSubmitted.Inc()
	if h.events != nil {
		_ = h.events.Publish(events.SubjectEvaluationSubmitted(vendor.ID.String()), events.EvaluationSubmittedEvent{
			VendorID:     vendor.ID.String(),
			EvaluatorID:  actor.ID.String(),
			Domain:       e.Domain,
			OverallScore: e.OverallScore,
			Status:       string(e.Status),
		})
	}

	writeJSON(w, http.StatusCreated, ScoreSubmissionResponse{
		OverallScore: e.OverallScore,
		Status:       string(e.Status),
	})
}

// SaveDraft handles PUT /api/v1/vendors/{id}/evaluation/draft
func (h *EvaluationsHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireCapability(w, r, h.store, access.CapSubmitOwnEvaluation)
	if !ok {
		return
	}
	vendor, ok := h.loadVendor(w, r)
	if !ok {
		return
	}

	var req ScoreSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	e, err := h.manager.UpsertDraft(r.Context(), evaluation.Submission{
		VendorID:      vendor.ID,
		EvaluatorID:   actor.ID,
		EvaluatorName: actor.Name,
		Scores:        req.Scores,
		Remarks:       req.Remarks,
	}, false)
	if err != nil {
		writeEvaluationError(w, err)
		return
	}

	draftsSaved.Inc()
	if h.events != nil {
		_ = h.events.Publish(events.SubjectEvaluationDrafted(vendor.ID.String()), events.EvaluationSubmittedEvent{
			VendorID:     vendor.ID.String(),
			EvaluatorID:  actor.ID.String(),
			Domain:       e.Domain,
			OverallScore: e.OverallScore,
			Status:       string(e.Status),
		})
	}

	writeJSON(w, http.StatusOK, ScoreSubmissionResponse{
		OverallScore: e.OverallScore,
		Status:       string(e.Status),
		Progress:     h.manager.Progress(e.Scores),
	})
}

// AdminSaveDraft handles PUT /api/v1/vendors/{id}/evaluations/{evaluatorID}/draft.
// It lets an admin reopen another evaluator's record: the overwrite is
// explicit, targets an existing record, and lands as DRAFT even if the record
// was SUBMITTED.
func (h *EvaluationsHandler) AdminSaveDraft(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCapability(w, r, h.store, access.CapManageEvaluations); !ok {
		return
	}
	vendor, ok := h.loadVendor(w, r)
	if !ok {
		return
	}
	evaluatorID, err := uuid.Parse(chi.URLParam(r, "evaluatorID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid evaluator id"})
		return
	}

	existing, err := h.store.GetEvaluation(r.Context(), vendor.ID, evaluatorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "evaluation not found"})
		return
	}

	var req ScoreSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	e, err := h.manager.UpsertDraft(r.Context(), evaluation.Submission{
		VendorID:      vendor.ID,
		EvaluatorID:   evaluatorID,
		EvaluatorName: existing.EvaluatorName,
		Scores:        req.Scores,
		Remarks:       req.Remarks,
	}, true)
	if err != nil {
		writeEvaluationError(w, err)
		return
	}

	draftsSaved.Inc()
	if h.events != nil {
		_ = h.events.Publish(events.SubjectEvaluationDrafted(vendor.ID.String()), events.EvaluationSubmittedEvent{
			VendorID:     vendor.ID.String(),
			EvaluatorID:  evaluatorID.String(),
			Domain:       e.Domain,
			OverallScore: e.OverallScore,
			Status:       string(e.Status),
		})
	}

	writeJSON(w, http.StatusOK, ScoreSubmissionResponse{
		OverallScore: e.OverallScore,
		Status:       string(e.Status),
		Progress:     h.manager.Progress(e.Scores),
	})
}

// GetOwn handles GET /api/v1/vendors/{id}/evaluation
func (h *EvaluationsHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireCapability(w, r, h.store, access.CapViewOwnEvaluation)
	if !ok {
		return
	}
	vendorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vendor id"})
		return
	}

	e, err := h.manager.GetOwn(r.Context(), vendorID, actor.ID)
	if err != nil {
		writeEvaluationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// List handles GET /api/v1/vendors/{id}/evaluations
func (h *EvaluationsHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCapability(w, r, h.store, access.CapViewAllEvaluations); !ok {
		return
	}
	vendorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vendor id"})
		return
	}

	evals, err := h.manager.ListForVendor(r.Context(), vendorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if evals == nil {
		evals = []*store.Evaluation{}
	}
	writeJSON(w, http.StatusOK, evals)
}

func (h *EvaluationsHandler) loadVendor(w http.ResponseWriter, r *http.Request) (*store.Vendor, bool) {
	vendorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vendor id"})
		return nil, false
	}
	vendor, err := h.store.GetVendor(r.Context(), vendorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if vendor == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "vendor not found"})
		return nil, false
	}
	return vendor, true
}
