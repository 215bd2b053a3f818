// Package aggregate folds a vendor's evaluation set into the dashboard
// summary. Everything here is pure and re-derivable: the summary is computed
// on demand from the stored evaluations and never persisted, so it cannot go
// stale. A summary built while a submission is in flight may miss that one
// record; that is accepted for a dashboard view rather than locked away.
package aggregate

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/rubric"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

// DefaultTopComments is how many recent remarks the summary surfaces.
const DefaultTopComments = 3

// Comment is one evaluator remark surfaced in the summary.
type Comment struct {
	CriterionKey  string    `json:"criterion_key"`
	EvaluatorName string    `json:"evaluator_name,omitempty"`
	Text          string    `json:"text"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// VendorSummary is the aggregated view over a vendor's submitted evaluations.
// Drafts count toward EvaluationCount but are private working state and
// contribute nothing to the averages, subtotals, or comments.
//
// OverallAverage is nil when no submitted evaluations exist: "not available"
// must stay distinguishable from a genuine unanimous zero. Criterion averages
// default to 0 instead, matching the original dashboard.
//
// CategorySubtotals are unweighted means of the per-criterion averages, a
// deliberately simpler figure than the precise weighted subtotal used in the
// per-evaluator progress view.
type VendorSummary struct {
	VendorID          uuid.UUID          `json:"vendor_id"`
	EvaluationCount   int                `json:"evaluation_count"`
	SubmittedCount    int                `json:"submitted_count"`
	CriterionAverages map[string]float64 `json:"criterion_averages"`
	CategorySubtotals map[string]float64 `json:"category_subtotals"`
	OverallAverage    *float64           `json:"overall_average"`
	TopComments       []Comment          `json:"top_comments,omitempty"`
}

// Aggregate computes the summary for one vendor from a snapshot of its
// evaluation set.
func Aggregate(r *rubric.Rubric, vendorID uuid.UUID, evals []*store.Evaluation) VendorSummary {
	submitted := make([]*store.Evaluation, 0, len(evals))
	for _, e := range evals {
		if e.Status == store.EvaluationSubmitted {
			submitted = append(submitted, e)
		}
	}

	summary := VendorSummary{
		VendorID:          vendorID,
		EvaluationCount:   len(evals),
		SubmittedCount:    len(submitted),
		CriterionAverages: make(map[string]float64, r.CriterionCount()),
		CategorySubtotals: make(map[string]float64, len(r.Categories)),
	}

	for _, key := range r.CriteriaKeys() {
		var sum float64
		var n int
		for _, e := range submitted {
			if v, ok := e.Scores[key]; ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			summary.CriterionAverages[key] = sum / float64(n)
		} else {
			summary.CriterionAverages[key] = 0
		}
	}

	for _, cat := range r.Categories {
		if len(cat.Criteria) == 0 {
			summary.CategorySubtotals[cat.Key] = 0
			continue
		}
		var sum float64
		for _, c := range cat.Criteria {
			sum += summary.CriterionAverages[c.Key]
		}
		summary.CategorySubtotals[cat.Key] = sum / float64(len(cat.Criteria))
	}

	if len(submitted) > 0 {
		var sum float64
		for _, e := range submitted {
			sum += e.OverallScore
		}
		avg := sum / float64(len(submitted))
		summary.OverallAverage = &avg
	}

	summary.TopComments = TopComments(submitted, DefaultTopComments)
	return summary
}

// TopComments flattens every non-empty remark across the evaluations, newest
// submission first, truncated to n.
func TopComments(evals []*store.Evaluation, n int) []Comment {
	var all []Comment
	for _, e := range evals {
		for key, text := range e.Remarks {
			if text == "" {
				continue
			}
			all = append(all, Comment{
				CriterionKey:  key,
				EvaluatorName: e.EvaluatorName,
				Text:          text,
				SubmittedAt:   e.UpdatedAt,
			})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].SubmittedAt.Equal(all[j].SubmittedAt) {
			return all[i].SubmittedAt.After(all[j].SubmittedAt)
		}
		return all[i].CriterionKey < all[j].CriterionKey
	})
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}
