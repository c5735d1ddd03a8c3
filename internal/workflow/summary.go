// Package workflow is the single authority on the loan review state machine: document
// aggregate policy, application status transitions, final-review gating and site
// inspection preconditions. Everything here is pure; callers persist the results.
package workflow

import (
	"github.com/google/uuid"

	"loandesk/internal/domain"
)

// Summarize counts the verification states of an application's documents.
func Summarize(docs []domain.Document) domain.DocumentSummary {
	var approved, rejected, pending int
	for i := range docs {
		switch docs[i].VerificationStatus {
		case domain.VerificationApproved:
			approved++
		case domain.VerificationRejected:
			rejected++
		default:
			pending++
		}
	}
	return SummaryFromCounts(approved, rejected, pending)
}

// SummaryFromCounts derives the gating flags from pre-aggregated counts.
// An application with no documents is never all reviewed.
func SummaryFromCounts(approved, rejected, pending int) domain.DocumentSummary {
	total := approved + rejected + pending
	return domain.DocumentSummary{
		ApprovedCount: approved,
		RejectedCount: rejected,
		PendingCount:  pending,
		Total:         total,
		AllReviewed:   pending == 0 && total > 0,
		AllApproved:   approved == total && total > 0,
		AllRejected:   rejected == total && total > 0,
		Mixed:         approved > 0 && rejected > 0 && pending == 0,
	}
}

// CanVerifyDocument checks that a document may receive the requested verification.
// Finalized documents only change through the reopen flow.
func CanVerifyDocument(doc *domain.Document, status domain.VerificationStatus) error {
	if !status.IsFinal() {
		return domain.ErrInvalidVerificationStatus
	}
	if doc.VerificationStatus.IsFinal() {
		return domain.ErrDocumentFinalized
	}
	return nil
}

// CanReopenDocument checks that a finalized document may be reset to pending.
func CanReopenDocument(app *domain.Application, doc *domain.Document) error {
	if IsClosed(app.Status) {
		return domain.ErrApplicationClosed
	}
	if !doc.VerificationStatus.IsFinal() {
		return domain.ErrDocumentNotFinalized
	}
	return nil
}

// ProjectDecisions summarizes docs as they would stand once the given verifications
// are applied. docs is not modified.
func ProjectDecisions(docs []domain.Document, decisions map[uuid.UUID]domain.VerificationStatus) domain.DocumentSummary {
	projected := make([]domain.Document, len(docs))
	copy(projected, docs)
	for i := range projected {
		if status, ok := decisions[projected[i].ID]; ok {
			projected[i].VerificationStatus = status
		}
	}
	return Summarize(projected)
}
