package evaluation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadySubmitted rejects draft writes against a record the evaluator has
// already submitted. The caller should re-fetch state, not retry.
var ErrAlreadySubmitted = errors.New("evaluation already submitted")

// ErrNotFound is returned when no evaluation exists for the requested pair.
var ErrNotFound = errors.New("evaluation not found")

// ErrRubricInconsistent means the rubric's weights no longer sum to 100
// within tolerance. The rubric is validated exactly at startup and never
// mutated, so this firing means memory corruption or a programming error;
// no score may be computed from it.
var ErrRubricInconsistent = errors.New("rubric weights out of tolerance")

// UnknownCriterionError reports score or remark keys that are not part of the
// rubric. Nothing is persisted.
type UnknownCriterionError struct {
	Keys []string
}

func (e *UnknownCriterionError) Error() string {
	return fmt.Sprintf("unknown criteria: %s", strings.Join(e.Keys, ", "))
}

// OutOfRangeScoreError reports the first score outside [0,10].
type OutOfRangeScoreError struct {
	Key   string
	Value float64
}

func (e *OutOfRangeScoreError) Error() string {
	return fmt.Sprintf("score for %q is %g, must be in [0,10]", e.Key, e.Value)
}

// IncompleteScoreSetError reports rubric criteria missing from a submission.
// Drafts may be partial; submissions may not.
type IncompleteScoreSetError struct {
	Missing []string
}

func (e *IncompleteScoreSetError) Error() string {
	return fmt.Sprintf("missing scores for: %s", strings.Join(e.Missing, ", "))
}

// IsValidationError reports whether err belongs to the request-validation
// class (recoverable by the caller, nothing persisted).
func IsValidationError(err error) bool {
	var unknown *UnknownCriterionError
	var outOfRange *OutOfRangeScoreError
	var incomplete *IncompleteScoreSetError
	return errors.As(err, &unknown) || errors.As(err, &outOfRange) || errors.As(err, &incomplete)
}
