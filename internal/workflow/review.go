package workflow

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"loandesk/internal/domain"
)

// Policy holds the tunable parts of final-review validation.
type Policy struct {
	// EnforceAmountCap rejects approvals above the requested loan amount.
	EnforceAmountCap bool
}

// FinalReview is a reviewer's terminal decision on an application.
type FinalReview struct {
	Decision domain.ApplicationStatus
	Comments string
	// ApprovedAmount is the reviewer-entered amount as text; only read for approvals.
	ApprovedAmount string
}

// ReviewOutcome carries values derived while validating a final review.
type ReviewOutcome struct {
	ApprovedAmount float64
	// OverRequested is set when the approved amount exceeds the requested one and
	// the cap is not enforced.
	OverRequested bool
}

// maxAmount is the first value that no longer fits the NUMERIC(14, 2) amount columns.
const maxAmount = 1e12

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)

// ParseAmount reads a reviewer-entered amount such as "400000" or "4,00,000.50".
// Signs, exponents and more than two decimal places are rejected.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, domain.ErrApprovedAmountRequired
	}
	s = strings.ReplaceAll(s, ",", "")
	if !amountPattern.MatchString(s) {
		return 0, domain.ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || v >= maxAmount {
		return 0, domain.ErrInvalidAmount
	}
	return v, nil
}

// ValidateFinalReview checks every precondition of a final review against the
// application's current state and document summary. Nothing is mutated.
func ValidateFinalReview(app *domain.Application, summary domain.DocumentSummary, review FinalReview, policy Policy) (ReviewOutcome, error) {
	var out ReviewOutcome

	if !IsFinalDecision(review.Decision) {
		return out, domain.ErrNotFinalDecision
	}
	if strings.TrimSpace(review.Comments) == "" {
		return out, domain.ErrCommentsRequired
	}
	if err := CheckTransition(app.Status, review.Decision); err != nil {
		return out, err
	}
	if !summary.AllReviewed {
		return out, domain.ErrDocumentsPending
	}

	if review.Decision != domain.StatusApproved {
		return out, nil
	}
	if !summary.AllApproved {
		return out, domain.ErrDocumentsNotApproved
	}
	amount, err := ParseAmount(review.ApprovedAmount)
	if err != nil {
		return out, err
	}
	if app.LoanAmount > 0 && amount > app.LoanAmount {
		if policy.EnforceAmountCap {
			return out, domain.ErrAmountExceedsRequested
		}
		out.OverRequested = true
	}
	out.ApprovedAmount = amount
	return out, nil
}

// ApplyFinalReview writes a validated decision onto the application. Approval stamps
// amount, time and approver; every other decision clears them.
func ApplyFinalReview(app *domain.Application, review FinalReview, outcome ReviewOutcome, performer string, now time.Time) {
	app.Status = review.Decision
	app.AdminComments = strings.TrimSpace(review.Comments)
	app.LastActionBy = performer

	if review.Decision == domain.StatusApproved {
		amount := outcome.ApprovedAmount
		at := now.UTC()
		by := performer
		app.ApprovedLoanAmount = &amount
		app.ApprovedAt = &at
		app.ApprovedBy = &by
		return
	}
	app.ApprovedLoanAmount = nil
	app.ApprovedAt = nil
	app.ApprovedBy = nil
}

// ApplyDirectStatus validates and applies a pending/under_review change.
func ApplyDirectStatus(app *domain.Application, status domain.ApplicationStatus, comments, performer string) error {
	if !domain.ValidApplicationStatuses[status] {
		return domain.ErrInvalidStatus
	}
	if !IsDirectStatus(status) {
		return domain.ErrFinalReviewRequired
	}
	if err := CheckTransition(app.Status, status); err != nil {
		return err
	}
	app.Status = status
	if c := strings.TrimSpace(comments); c != "" {
		app.AdminComments = c
	}
	app.LastActionBy = performer
	return nil
}
