// Package decision owns the vendor's terminal accept/reject transition.
package decision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/store"
)

// ErrAlreadyDecided rejects a decision attempt against a vendor that already
// carries a terminal outcome. The stored decision is unchanged; callers must
// re-fetch state rather than retry.
var ErrAlreadyDecided = errors.New("vendor already decided")

// ErrVendorNotFound is returned when the vendor does not exist.
var ErrVendorNotFound = errors.New("vendor not found")

type Service struct {
	store  store.Store
	logger *slog.Logger
}

func NewService(s store.Store, logger *slog.Logger) *Service {
	return &Service{store: s, logger: logger}
}

// Record applies an accept/reject decision. The transition is a store-level
// check-and-set: of two simultaneous requests exactly one wins, the loser
// gets ErrAlreadyDecided. The vote is written only for the winning request
// and is immutable evidence; the vendor's final_decision is the outcome.
func (s *Service) Record(ctx context.Context, vendorID uuid.UUID, voterID uuid.UUID, voterName string, choice store.VoteChoice) (*store.Vendor, error) {
	var outcome store.Decision
	switch choice {
	case store.VoteAccept:
		outcome = store.DecisionAccepted
	case store.VoteReject:
		outcome = store.DecisionRejected
	default:
		return nil, fmt.Errorf("invalid decision choice %q", choice)
	}

	vendor, err := s.store.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	won, err := s.store.DecideVendor(ctx, vendorID, outcome, voterID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrAlreadyDecided
	}

	vote := &store.Vote{
		VendorID:  vendorID,
		VoterID:   voterID,
		VoterName: voterName,
		Choice:    choice,
	}
	if err := s.store.CreateVote(ctx, vote); err != nil {
		// The decision itself already landed; a failed vote write is
		// evidence loss, not an outcome change.
		s.logger.Error("failed to record vote", "vendor_id", vendorID, "error", err)
	}

	s.logger.Info("vendor decided",
		"vendor_id", vendorID,
		"decision", outcome,
		"decided_by", voterID,
	)
	return s.store.GetVendor(ctx, vendorID)
}

// Tally summarizes the vote set for a vendor report.
type Tally struct {
	Accept int `json:"accept"`
	Reject int `json:"reject"`
	Total  int `json:"total"`
}

func TallyVotes(votes []*store.Vote) Tally {
	t := Tally{Total: len(votes)}
	for _, v := range votes {
		switch v.Choice {
		case store.VoteAccept:
			t.Accept++
		case store.VoteReject:
			t.Reject++
		}
	}
	return t
}
