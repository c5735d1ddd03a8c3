package workflow

import "loandesk/internal/domain"

// transitions lists the legal application status moves. approved and rejected are
// terminal and have no entry.
var transitions = map[domain.ApplicationStatus]map[domain.ApplicationStatus]bool{
	domain.StatusPending: {
		domain.StatusUnderReview: true,
		domain.StatusOnHold:      true,
		domain.StatusApproved:    true,
		domain.StatusRejected:    true,
	},
	domain.StatusUnderReview: {
		domain.StatusPending:  true,
		domain.StatusOnHold:   true,
		domain.StatusApproved: true,
		domain.StatusRejected: true,
	},
	domain.StatusOnHold: {
		domain.StatusPending:     true,
		domain.StatusUnderReview: true,
		domain.StatusApproved:    true,
		domain.StatusRejected:    true,
	},
}

// CheckTransition reports whether an application may move from one status to another.
func CheckTransition(from, to domain.ApplicationStatus) error {
	if !domain.ValidApplicationStatuses[to] {
		return domain.ErrInvalidStatus
	}
	if !transitions[from][to] {
		return domain.ErrInvalidTransition
	}
	return nil
}

// IsFinalDecision reports whether the status can only be reached through a final review.
func IsFinalDecision(s domain.ApplicationStatus) bool {
	return s == domain.StatusApproved || s == domain.StatusRejected || s == domain.StatusOnHold
}

// IsDirectStatus reports whether the status is applied without final-review gating.
func IsDirectStatus(s domain.ApplicationStatus) bool {
	return s == domain.StatusPending || s == domain.StatusUnderReview
}

// IsClosed reports whether the application reached a terminal decision.
func IsClosed(s domain.ApplicationStatus) bool {
	return s == domain.StatusApproved || s == domain.StatusRejected
}

// AllowedTargets returns the statuses reachable from the given one, in display order.
func AllowedTargets(from domain.ApplicationStatus) []domain.ApplicationStatus {
	order := []domain.ApplicationStatus{
		domain.StatusPending,
		domain.StatusUnderReview,
		domain.StatusOnHold,
		domain.StatusApproved,
		domain.StatusRejected,
	}
	var out []domain.ApplicationStatus
	for _, s := range order {
		if transitions[from][s] {
			out = append(out, s)
		}
	}
	return out
}
