package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightpath-labs/vendoreval/internal/access"
	"github.com/brightpath-labs/vendoreval/internal/auth"
	"github.com/brightpath-labs/vendoreval/internal/evaluation"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requireCapability resolves the actor, loads current feature settings, and
// consults the gate. Settings are read at the moment of use, never cached or
// polled. On denial the response is already written.
func requireCapability(w http.ResponseWriter, r *http.Request, s store.Store, cap access.Capability) (access.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		capabilityDenials.WithLabelValues(string(access.ReasonUnauthenticated)).Inc()
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":  "authentication required",
			"reason": string(access.ReasonUnauthenticated),
		})
		return access.Actor{}, false
	}

	fs, err := s.GetSettings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return access.Actor{}, false
	}

	v := access.Decide(actor, cap, fs)
	if !v.Granted {
		capabilityDenials.WithLabelValues(string(v.Reason)).Inc()
		status := http.StatusForbidden
		if v.Reason == access.ReasonUnauthenticated {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, map[string]string{
			"error":  "capability denied",
			"reason": string(v.Reason),
		})
		return access.Actor{}, false
	}
	return actor, true
}

// writeEvaluationError maps record-manager errors onto HTTP statuses. The
// offending keys travel with the payload so the client can point at the
// exact fields; nothing beyond the denial category leaks.
func writeEvaluationError(w http.ResponseWriter, err error) {
	var unknown *evaluation.UnknownCriterionError
	var outOfRange *evaluation.OutOfRangeScoreError
	var incomplete *evaluation.IncompleteScoreSetError

	switch {
	case errors.As(err, &unknown):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "unknown criterion",
			"keys":  unknown.Keys,
		})
	case errors.As(err, &outOfRange):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "score out of range",
			"key":   outOfRange.Key,
			"value": outOfRange.Value,
		})
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "incomplete score set",
			"missing": incomplete.Missing,
		})
	case errors.Is(err, evaluation.ErrAlreadySubmitted):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "evaluation already submitted"})
	case errors.Is(err, evaluation.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "evaluation not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
