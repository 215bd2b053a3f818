package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/access"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

type VendorsHandler struct {
	store store.Store
}

func NewVendorsHandler(s store.Store) *VendorsHandler {
	return &VendorsHandler{store: s}
}

type CreateVendorRequest struct {
	Name          string   `json:"name"`
	Scopes        []string `json:"scopes,omitempty"`
	RFIStatus     string   `json:"rfi_status,omitempty"`
	RFIReceivedAt string   `json:"rfi_received_at,omitempty"`
}

// Create handles POST /api/v1/vendors
func (h *VendorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCapability(w, r, h.store, access.CapManageVendors); !ok {
		return
	}

	var req CreateVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	v := &store.Vendor{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Scopes:        req.Scopes,
		RFIStatus:     req.RFIStatus,
		FinalDecision: store.DecisionPending,
	}
	if req.RFIReceivedAt != "" {
		ts, err := time.Parse(time.RFC3339, req.RFIReceivedAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rfi_received_at must be RFC 3339"})
			return
		}
		v.RFIReceivedAt = &ts
	}

	if err := h.store.CreateVendor(r.Context(), v); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// List handles GET /api/v1/vendors
func (h *VendorsHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCapability(w, r, h.store, access.CapViewOwnEvaluation); !ok {
		return
	}
	vendors, err := h.store.ListVendors(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if vendors == nil {
		vendors = []*store.Vendor{}
	}
	writeJSON(w, http.StatusOK, vendors)
}

// Get handles GET /api/v1/vendors/{id}
func (h *VendorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCapability(w, r, h.store, access.CapViewOwnEvaluation); !ok {
		return
	}
	vendorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vendor id"})
		return
	}
	v, err := h.store.GetVendor(r.Context(), vendorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if v == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "vendor not found"})
		return
	}
	writeJSON(w, http.StatusOK, v)
}
