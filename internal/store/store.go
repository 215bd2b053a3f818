package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EvaluationStatus string

const (
	EvaluationDraft     EvaluationStatus = "DRAFT"
	EvaluationSubmitted EvaluationStatus = "SUBMITTED"
)

type Decision string

const (
	DecisionPending  Decision = "PENDING"
	DecisionAccepted Decision = "ACCEPTED"
	DecisionRejected Decision = "REJECTED"
)

type VoteChoice string

const (
	VoteAccept VoteChoice = "ACCEPT"
	VoteReject VoteChoice = "REJECT"
)

// Vendor is one candidate under evaluation. FinalDecision moves from PENDING
// to a terminal state exactly once; the store's CAS update enforces that.
type Vendor struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Scopes        []string   `json:"scopes,omitempty"`
	RFIStatus     string     `json:"rfi_status,omitempty"`
	RFIReceivedAt *time.Time `json:"rfi_received_at,omitempty"`
	FinalDecision Decision   `json:"final_decision"`
	DecidedBy     *uuid.UUID `json:"decided_by,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Evaluation is one evaluator's score set for one vendor. At most one exists
// per (vendor, evaluator) pair; UpsertEvaluation keys on that pair.
type Evaluation struct {
	ID            uuid.UUID          `json:"id"`
	VendorID      uuid.UUID          `json:"vendor_id"`
	EvaluatorID   uuid.UUID          `json:"evaluator_id"`
	EvaluatorName string             `json:"evaluator_name,omitempty"`
	Domain        string             `json:"domain"`
	Scores        map[string]float64 `json:"scores"`
	Remarks       map[string]string  `json:"remarks,omitempty"`
	OverallScore  float64            `json:"overall_score"`
	Status        EvaluationStatus   `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Vote is an immutable record of one decision action. The vote set is
// evidence; Vendor.FinalDecision is the authoritative outcome.
type Vote struct {
	ID        uuid.UUID  `json:"id"`
	VendorID  uuid.UUID  `json:"vendor_id"`
	VoterID   uuid.UUID  `json:"voter_id"`
	VoterName string     `json:"voter_name,omitempty"`
	Choice    VoteChoice `json:"choice"`
	CreatedAt time.Time  `json:"created_at"`
}

// FeatureSettings are the process-wide capability switches, mutable by admins
// only (enforced at the API layer).
type FeatureSettings struct {
	ChatEnabled           bool      `json:"chat_enabled"`
	DirectDecisionEnabled bool      `json:"direct_decision_enabled"`
	PrintEnabled          bool      `json:"print_enabled"`
	ExportEnabled         bool      `json:"export_enabled"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type Store interface {
	CreateVendor(ctx context.Context, v *Vendor) error
	GetVendor(ctx context.Context, id uuid.UUID) (*Vendor, error)
	ListVendors(ctx context.Context) ([]*Vendor, error)

	// UpsertEvaluation inserts or replaces the record for the evaluation's
	// (vendor_id, evaluator_id) pair. Uniqueness lives here, in the store's
	// keyed transaction, not in application-level locking.
	UpsertEvaluation(ctx context.Context, e *Evaluation) error
	GetEvaluation(ctx context.Context, vendorID, evaluatorID uuid.UUID) (*Evaluation, error)
	ListEvaluations(ctx context.Context, vendorID uuid.UUID) ([]*Evaluation, error)

	CreateVote(ctx context.Context, v *Vote) error
	ListVotes(ctx context.Context, vendorID uuid.UUID) ([]*Vote, error)

	// DecideVendor atomically moves a vendor from PENDING to the given
	// terminal decision. Returns false when the vendor was already decided;
	// the stored decision is left untouched in that case.
	DecideVendor(ctx context.Context, vendorID uuid.UUID, decision Decision, decidedBy uuid.UUID) (bool, error)

	GetSettings(ctx context.Context) (*FeatureSettings, error)
	UpdateSettings(ctx context.Context, s *FeatureSettings) error

	Close() error
}
