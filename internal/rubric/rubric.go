package rubric

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Criterion is a single scored line item within a category. Weight is the
// criterion's share of the full 100-point rubric, not of its category.
type Criterion struct {
	Key    string  `yaml:"key"`
	Text   string  `yaml:"text"`
	Weight float64 `yaml:"weight"`
}

// Category groups criteria under a named share of the rubric.
type Category struct {
	Key      string      `yaml:"key"`
	Name     string      `yaml:"name"`
	Weight   float64     `yaml:"weight"`
	Criteria []Criterion `yaml:"criteria"`
}

// Rubric is the fixed evaluation grid. It is loaded once at startup,
// validated, and never mutated afterwards.
type Rubric struct {
	Domain     string     `yaml:"domain"`
	Categories []Category `yaml:"categories"`
}

// WeightMismatchError reports a category whose criterion weights do not add up
// to its declared share. CategoryKey is empty when the category shares
// themselves fail to sum to 100.
type WeightMismatchError struct {
	CategoryKey string
	Expected    float64
	Actual      float64
}

func (e *WeightMismatchError) Error() string {
	if e.CategoryKey == "" {
		return fmt.Sprintf("rubric category weights sum to %.4f, must sum to %.0f", e.Actual, e.Expected)
	}
	return fmt.Sprintf("category %q criterion weights sum to %.4f, declared share is %.4f", e.CategoryKey, e.Actual, e.Expected)
}

// Validate checks weight consistency: every category's criterion weights must
// equal the category's declared share, and the shares must sum to exactly 100.
// A failure here means the configuration is corrupt; callers must treat it as
// fatal, not as a request-time error.
func (r *Rubric) Validate() error {
	if len(r.Categories) == 0 {
		return fmt.Errorf("rubric has no categories")
	}
	seen := make(map[string]struct{})
	var total float64
	for _, cat := range r.Categories {
		if cat.Key == "" {
			return fmt.Errorf("category %q has empty key", cat.Name)
		}
		var sum float64
		for _, c := range cat.Criteria {
			if c.Key == "" {
				return fmt.Errorf("category %q has a criterion with empty key", cat.Key)
			}
			if _, dup := seen[c.Key]; dup {
				return fmt.Errorf("duplicate criterion key %q", c.Key)
			}
			seen[c.Key] = struct{}{}
			if c.Weight < 0 {
				return fmt.Errorf("criterion %q has negative weight %f", c.Key, c.Weight)
			}
			sum += c.Weight
		}
		if sum != cat.Weight {
			return &WeightMismatchError{CategoryKey: cat.Key, Expected: cat.Weight, Actual: sum}
		}
		total += cat.Weight
	}
	if total != 100 {
		return &WeightMismatchError{Expected: 100, Actual: total}
	}
	return nil
}

// CriteriaKeys returns every criterion key in rubric order.
func (r *Rubric) CriteriaKeys() []string {
	keys := make([]string, 0, r.CriterionCount())
	for _, cat := range r.Categories {
		for _, c := range cat.Criteria {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// CriterionCount returns the number of criteria across all categories.
func (r *Rubric) CriterionCount() int {
	n := 0
	for _, cat := range r.Categories {
		n += len(cat.Criteria)
	}
	return n
}

// WeightOf returns the rubric-wide percent weight of a criterion.
func (r *Rubric) WeightOf(criterionKey string) (float64, bool) {
	for _, cat := range r.Categories {
		for _, c := range cat.Criteria {
			if c.Key == criterionKey {
				return c.Weight, true
			}
		}
	}
	return 0, false
}

// CategoryOf returns the key of the category owning a criterion.
func (r *Rubric) CategoryOf(criterionKey string) (string, bool) {
	for _, cat := range r.Categories {
		for _, c := range cat.Criteria {
			if c.Key == criterionKey {
				return cat.Key, true
			}
		}
	}
	return "", false
}

// HasCriterion reports whether the key names a rubric criterion.
func (r *Rubric) HasCriterion(criterionKey string) bool {
	_, ok := r.WeightOf(criterionKey)
	return ok
}

// WeightTolerance bounds floating-point drift allowed when re-summing weights
// at score-computation time. Configuration-time validation uses exact equality.
const WeightTolerance = 0.01

// WeightsConsistent is the runtime counterpart of Validate: it re-sums the
// category shares with a small tolerance for floating point.
func (r *Rubric) WeightsConsistent() bool {
	var total float64
	for _, cat := range r.Categories {
		total += cat.Weight
	}
	return math.Abs(total-100) <= WeightTolerance
}

// LoadFile reads a rubric definition from a YAML file. The result still has
// to pass Validate before use.
func LoadFile(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rubric: %w", err)
	}
	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse rubric: %w", err)
	}
	return &r, nil
}
