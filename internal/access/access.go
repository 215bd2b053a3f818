// Package access is the single permission gate consulted by every operation.
// Role checks are never done inline at call sites; callers ask for a
// capability and get back a grant or a denial with a reason they can render.
package access

import (
	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/store"
)

type Role string

const (
	RoleContributor   Role = "CONTRIBUTOR"
	RoleDecisionMaker Role = "DECISION_MAKER"
	RoleAdmin         Role = "ADMIN"
)

// ParseRole maps a wire string onto the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleContributor, RoleDecisionMaker, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type Capability string

const (
	CapSubmitOwnEvaluation Capability = "evaluation:submit-own"
	CapViewOwnEvaluation   Capability = "evaluation:view-own"
	CapViewAllEvaluations  Capability = "evaluation:view-all"
	CapViewAggregate       Capability = "aggregate:view"
	CapDecide              Capability = "decision:record"
	CapManageSettings      Capability = "settings:manage"
	CapManageVendors       Capability = "vendor:manage"
	CapManageEvaluations   Capability = "evaluation:manage"
	CapChat                Capability = "chat:access"
	CapPrintReports        Capability = "report:print"
	CapExportData          Capability = "report:export"
)

// PermissionFlags are the per-actor capability switches. A flag alone is not
// enough: the matching global feature flag must also be on (AND, never OR).
type PermissionFlags struct {
	CanAccessChat   bool `json:"can_access_chat"`
	CanPrintReports bool `json:"can_print_reports"`
	CanExportData   bool `json:"can_export_data"`
}

// Actor is a resolved, authenticated caller.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Role  Role
	Flags PermissionFlags
}

type DenyReason string

const (
	ReasonUnauthenticated      DenyReason = "UNAUTHENTICATED"
	ReasonPermissionNotGranted DenyReason = "PERMISSION_NOT_GRANTED"
	ReasonFeatureDisabled      DenyReason = "FEATURE_DISABLED"
)

// Verdict is the outcome of a capability request. Reason is set only on
// denial and never carries internal state beyond the category.
type Verdict struct {
	Granted bool
	Reason  DenyReason
}

func granted() Verdict            { return Verdict{Granted: true} }
func denied(r DenyReason) Verdict { return Verdict{Reason: r} }

// Decide resolves whether the actor may exercise the capability under the
// current feature settings. Rules are ordered; the first match wins.
func Decide(actor Actor, cap Capability, fs *store.FeatureSettings) Verdict {
	if _, ok := ParseRole(string(actor.Role)); !ok {
		return denied(ReasonUnauthenticated)
	}

	// Flag-gated capabilities apply to every role, admins included: the
	// global switch is checked before the actor's own flag so the two
	// denial reasons stay distinguishable.
	switch cap {
	case CapChat:
		if !fs.ChatEnabled {
			return denied(ReasonFeatureDisabled)
		}
		if !actor.Flags.CanAccessChat {
			return denied(ReasonPermissionNotGranted)
		}
		return granted()
	case CapPrintReports:
		if !fs.PrintEnabled {
			return denied(ReasonFeatureDisabled)
		}
		if !actor.Flags.CanPrintReports {
			return denied(ReasonPermissionNotGranted)
		}
		return granted()
	case CapExportData:
		if !fs.ExportEnabled {
			return denied(ReasonFeatureDisabled)
		}
		if !actor.Flags.CanExportData {
			return denied(ReasonPermissionNotGranted)
		}
		return granted()
	}

	switch actor.Role {
	case RoleAdmin:
		switch cap {
		case CapSubmitOwnEvaluation:
			// Admins observe, they do not score.
			return denied(ReasonPermissionNotGranted)
		case CapDecide:
			if !fs.DirectDecisionEnabled {
				return denied(ReasonFeatureDisabled)
			}
			return granted()
		default:
			return granted()
		}
	case RoleDecisionMaker:
		switch cap {
		case CapSubmitOwnEvaluation, CapViewOwnEvaluation, CapViewAggregate, CapViewAllEvaluations:
			return granted()
		case CapDecide:
			if !fs.DirectDecisionEnabled {
				return denied(ReasonFeatureDisabled)
			}
			return granted()
		}
	case RoleContributor:
		switch cap {
		case CapSubmitOwnEvaluation, CapViewOwnEvaluation:
			return granted()
		}
	}
	return denied(ReasonPermissionNotGranted)
}
