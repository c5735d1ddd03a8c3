package workflow

import (
	"fmt"

	"loandesk/internal/domain"
)

// PlanKind tells the caller which path a requested status change must take.
type PlanKind string

const (
	PlanDirect      PlanKind = "direct"
	PlanFinalReview PlanKind = "final_review"
	PlanBlocked     PlanKind = "blocked"
)

// Plan is the orchestrator's answer to a requested status change.
type Plan struct {
	Kind         PlanKind                 `json:"kind"`
	Requested    domain.ApplicationStatus `json:"requested"`
	Decision     domain.ApplicationStatus `json:"decision,omitempty"`
	PendingCount int                      `json:"pendingCount"`
	Discouraged  bool                     `json:"discouraged"`
	Reason       string                   `json:"reason,omitempty"`
	Summary      domain.DocumentSummary   `json:"documentSummary"`
	// AllowedTargets lists every status the application may move to from its current one.
	AllowedTargets []domain.ApplicationStatus `json:"allowedTargets"`
}

// PlanUpdate decides whether a requested status is applied directly, needs a final
// review, or is blocked until every document is reviewed.
func PlanUpdate(requested domain.ApplicationStatus, summary domain.DocumentSummary) Plan {
	p := Plan{Requested: requested, PendingCount: summary.PendingCount, Summary: summary}

	switch {
	case IsDirectStatus(requested):
		p.Kind = PlanDirect
	case IsFinalDecision(requested) && summary.AllReviewed:
		p.Kind = PlanFinalReview
		p.Decision = requested
		if requested == domain.StatusApproved && !summary.AllApproved {
			p.Discouraged = true
			p.Reason = fmt.Sprintf("%d of %d documents were rejected", summary.RejectedCount, summary.Total)
		}
	default:
		p.Kind = PlanBlocked
		if summary.Total == 0 {
			p.Reason = "application has no documents"
		} else {
			p.Reason = fmt.Sprintf("%d document(s) still pending verification", summary.PendingCount)
		}
	}
	return p
}
