// Package report assembles the data payload a print/export renderer consumes.
// Rendering itself is an external concern; this side only gathers and shapes.
package report

import (
	"time"

	"github.com/brightpath-labs/vendoreval/internal/aggregate"
	"github.com/brightpath-labs/vendoreval/internal/decision"
	"github.com/brightpath-labs/vendoreval/internal/rubric"
	"github.com/brightpath-labs/vendoreval/internal/store"
)

type VendorInfo struct {
	Name          string     `json:"name"`
	Scopes        []string   `json:"scopes,omitempty"`
	RFIStatus     string     `json:"rfi_status"`
	RFIReceivedAt *time.Time `json:"rfi_received_at,omitempty"`
	FinalDecision string     `json:"final_decision"`
}

type EvaluationDetail struct {
	Evaluator    string             `json:"evaluator"`
	Domain       string             `json:"domain"`
	OverallScore float64            `json:"overall_score"`
	Status       string             `json:"status"`
	Scores       map[string]float64 `json:"scores"`
	Remarks      map[string]string  `json:"remarks,omitempty"`
	SubmittedAt  time.Time          `json:"submitted_at"`
}

type Report struct {
	VendorInfo    VendorInfo               `json:"vendor_info"`
	Evaluations   []EvaluationDetail       `json:"evaluations"`
	AverageScores *aggregate.VendorSummary `json:"average_scores,omitempty"`
	Voting        decision.Tally           `json:"voting"`
	GeneratedAt   time.Time                `json:"generated_at"`
}

// Build shapes one vendor's full evaluation record for the renderer. Only
// SUBMITTED evaluations appear: drafts are private to their evaluator and
// never leave through the report. AverageScores is omitted entirely when no
// submitted evaluations exist, the same way the original dashboard reported
// a null block rather than a zeroed one.
func Build(r *rubric.Rubric, vendor *store.Vendor, evals []*store.Evaluation, votes []*store.Vote) Report {
	submitted := make([]*store.Evaluation, 0, len(evals))
	for _, e := range evals {
		if e.Status == store.EvaluationSubmitted {
			submitted = append(submitted, e)
		}
	}

	rep := Report{
		VendorInfo: VendorInfo{
			Name:          vendor.Name,
			Scopes:        vendor.Scopes,
			RFIStatus:     orDefault(vendor.RFIStatus, "Not Submitted"),
			RFIReceivedAt: vendor.RFIReceivedAt,
			FinalDecision: string(vendor.FinalDecision),
		},
		Voting:      decision.TallyVotes(votes),
		GeneratedAt: time.Now().UTC(),
	}

	for _, e := range submitted {
		rep.Evaluations = append(rep.Evaluations, EvaluationDetail{
			Evaluator:    e.EvaluatorName,
			Domain:       e.Domain,
			OverallScore: e.OverallScore,
			Status:       string(e.Status),
			Scores:       e.Scores,
			Remarks:      e.Remarks,
			SubmittedAt:  e.UpdatedAt,
		})
	}

	if len(submitted) > 0 {
		summary := aggregate.Aggregate(r, vendor.ID, evals)
		rep.AverageScores = &summary
	}
	return rep
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
