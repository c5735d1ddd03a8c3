package port

import (
	"context"

	"loandesk/internal/domain"
)

// EmailSender defines the contract for applicant notifications.
type EmailSender interface {
	SendDecision(ctx context.Context, toEmail string, notice domain.DecisionNotice) error
	SendInspectionScheduled(ctx context.Context, toEmail string, notice domain.InspectionNotice) error
}
