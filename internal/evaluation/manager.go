// Package evaluation enforces the one-evaluation-per-evaluator-per-vendor
// invariant and the score validation rules in front of the record store.
package evaluation

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/rubric"
	"github.com/brightpath-labs/vendoreval/internal/scoring"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

type Manager struct {
	rubric *rubric.Rubric
	store  store.Store
	logger *slog.Logger
}

func NewManager(r *rubric.Rubric, s store.Store, logger *slog.Logger) *Manager {
	return &Manager{rubric: r, store: s, logger: logger}
}

// Submission carries the caller-supplied parts of an evaluation write.
type Submission struct {
	VendorID      uuid.UUID
	EvaluatorID   uuid.UUID
	EvaluatorName string
	Scores        map[string]float64
	Remarks       map[string]string
}

// Submit validates a complete score set, computes the weighted overall score,
// and persists the record as SUBMITTED. The store upsert is keyed on
// (vendor, evaluator), so resubmission replaces the earlier record: exactly
// one row per pair, last writer wins.
func (m *Manager) Submit(ctx context.Context, sub Submission) (*store.Evaluation, error) {
	if err := m.validate(sub, true); err != nil {
		return nil, err
	}

	e := &store.Evaluation{
		VendorID:      sub.VendorID,
		EvaluatorID:   sub.EvaluatorID,
		EvaluatorName: sub.EvaluatorName,
		Domain:        m.rubric.Domain,
		Scores:        sub.Scores,
		Remarks:       pruneEmpty(sub.Remarks),
		OverallScore:  scoring.WeightedOverall(m.rubric, sub.Scores),
		Status:        store.EvaluationSubmitted,
	}
	if err := m.store.UpsertEvaluation(ctx, e); err != nil {
		return nil, err
	}
	m.logger.Info("evaluation submitted",
		"vendor_id", e.VendorID,
		"evaluator_id", e.EvaluatorID,
		"overall_score", e.OverallScore,
	)
	return e, nil
}

// UpsertDraft saves a partial score set as DRAFT. It refuses to touch a record
// the evaluator has already submitted unless asAdmin is set; even then the
// overwrite is explicit, never silent.
func (m *Manager) UpsertDraft(ctx context.Context, sub Submission, asAdmin bool) (*store.Evaluation, error) {
	if err := m.validate(sub, false); err != nil {
		return nil, err
	}

	existing, err := m.store.GetEvaluation(ctx, sub.VendorID, sub.EvaluatorID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == store.EvaluationSubmitted && !asAdmin {
		return nil, ErrAlreadySubmitted
	}

	e := &store.Evaluation{
		VendorID:      sub.VendorID,
		EvaluatorID:   sub.EvaluatorID,
		EvaluatorName: sub.EvaluatorName,
		Domain:        m.rubric.Domain,
		Scores:        sub.Scores,
		Remarks:       pruneEmpty(sub.Remarks),
		OverallScore:  scoring.WeightedOverall(m.rubric, sub.Scores),
		Status:        store.EvaluationDraft,
	}
	if err := m.store.UpsertEvaluation(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// GetOwn fetches the caller's evaluation for a vendor.
func (m *Manager) GetOwn(ctx context.Context, vendorID, evaluatorID uuid.UUID) (*store.Evaluation, error) {
	e, err := m.store.GetEvaluation(ctx, vendorID, evaluatorID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// ListForVendor returns every evaluation for a vendor. Restricting who may
// call this is the access gate's job at the API boundary, not the manager's.
func (m *Manager) ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]*store.Evaluation, error) {
	return m.store.ListEvaluations(ctx, vendorID)
}

// Progress returns the weighted per-category subtotals for one evaluation,
// the figure the interactive progress view renders while scores are entered.
func (m *Manager) Progress(scores map[string]float64) map[string]float64 {
	return scoring.Subtotals(m.rubric, scores)
}

func (m *Manager) validate(sub Submission, complete bool) error {
	if !m.rubric.WeightsConsistent() {
		return ErrRubricInconsistent
	}

	var unknown []string
	for k := range sub.Scores {
		if !m.rubric.HasCriterion(k) {
			unknown = append(unknown, k)
		}
	}
	for k := range sub.Remarks {
		if !m.rubric.HasCriterion(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return &UnknownCriterionError{Keys: unknown}
	}

	// Rubric order keeps the first reported offender deterministic.
	for _, key := range m.rubric.CriteriaKeys() {
		v, ok := sub.Scores[key]
		if !ok {
			continue
		}
		if math.IsNaN(v) || v < 0 || v > 10 {
			return &OutOfRangeScoreError{Key: key, Value: v}
		}
	}

	if complete {
		var missing []string
		for _, key := range m.rubric.CriteriaKeys() {
			if _, ok := sub.Scores[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			return &IncompleteScoreSetError{Missing: missing}
		}
	}
	return nil
}

func pruneEmpty(remarks map[string]string) map[string]string {
	if len(remarks) == 0 {
		return nil
	}
	out := make(map[string]string, len(remarks))
	for k, v := range remarks {
		if v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
