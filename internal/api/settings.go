package api

import (
	"encoding/json"
	"net/http"

	"github.com/brightpath-labs/vendoreval/internal/access"
	"github.com/brightpath-labs/vendoreval/internal/events"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

type SettingsHandler struct {
	store  store.Store
	events events.Client
}

func NewSettingsHandler(s store.Store, ev events.Client) *SettingsHandler {
	return &SettingsHandler{store: s, events: ev}
}

// SettingsUpdateRequest carries a partial update. Fields left null keep
// their current value.
type SettingsUpdateRequest struct {
	ChatEnabled           *bool `json:"chat_enabled"`
	DirectDecisionEnabled *bool `json:"direct_decision_enabled"`
	PrintEnabled          *bool `json:"print_enabled"`
	ExportEnabled         *bool `json:"export_enabled"`
}

// Get handles GET /api/v1/admin/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCapability(w, r, h.store, access.CapManageSettings); !ok {
		return
	}
	fs, err := h.store.GetSettings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

// Update handles PUT /api/v1/admin/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireCapability(w, r, h.store, access.CapManageSettings)
	if !ok {
		return
	}

	var req SettingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	fs, err := h.store.GetSettings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if req.ChatEnabled != nil {
		fs.ChatEnabled = *req.ChatEnabled
	}
	if req.DirectDecisionEnabled != nil {
		fs.DirectDecisionEnabled = *req.DirectDecisionEnabled
	}
	if req.PrintEnabled != nil {
		fs.PrintEnabled = *req.PrintEnabled
	}
	if req.ExportEnabled != nil {
		fs.ExportEnabled = *req.ExportEnabled
	}

	if err := h.store.UpdateSettings(r.Context(), fs); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectSettingsUpdated(), events.SettingsUpdatedEvent{
			ChatEnabled:           fs.ChatEnabled,
			DirectDecisionEnabled: fs.DirectDecisionEnabled,
			PrintEnabled:          fs.PrintEnabled,
			ExportEnabled:         fs.ExportEnabled,
			UpdatedBy:             actor.Name,
		})
	}

	writeJSON(w, http.StatusOK, fs)
}
