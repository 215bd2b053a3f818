package scoring

import "github.com/brightpath-labs/vendoreval/internal/rubric"

// WeightedOverall computes the weighted overall score for one evaluation on a
// 0-100 scale: each criterion contributes (score/10) * weight. A missing score
// contributes zero — the rubric weight still applies, unscored criteria are
// never excluded and the remainder is never re-normalized.
//
// Scores must already be validated to [0,10]; no clamping happens here. The
// result keeps full floating precision; rounding is a presentation concern.
func WeightedOverall(r *rubric.Rubric, scores map[string]float64) float64 {
	var total float64
	for _, cat := range r.Categories {
		for _, c := range cat.Criteria {
			total += scores[c.Key] / 10 * c.Weight
		}
	}
	return total
}

// CategorySubtotal computes the precise weighted contribution of one category
// for a single evaluation, on a 0-weight scale. This is the figure shown in
// the per-evaluator progress view; the cross-evaluator dashboard subtotal in
// the aggregate package is deliberately a different, unweighted computation.
func CategorySubtotal(r *rubric.Rubric, categoryKey string, scores map[string]float64) float64 {
	for _, cat := range r.Categories {
		if cat.Key != categoryKey {
			continue
		}
		var sub float64
		for _, c := range cat.Criteria {
			sub += scores[c.Key] / 10 * c.Weight
		}
		return sub
	}
	return 0
}

// Subtotals returns the weighted contribution of every category, keyed by
// category key.
func Subtotals(r *rubric.Rubric, scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(r.Categories))
	for _, cat := range r.Categories {
		var sub float64
		for _, c := range cat.Criteria {
			sub += scores[c.Key] / 10 * c.Weight
		}
		out[cat.Key] = sub
	}
	return out
}
