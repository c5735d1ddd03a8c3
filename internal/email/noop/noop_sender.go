package noop

import (
	"context"

	"go.uber.org/zap"

	"loandesk/internal/domain"
	"loandesk/internal/port"
)

type noopSender struct {
	log *zap.Logger
}

// NewNoopSender creates a no-op EmailSender that only logs what would have been sent.
func NewNoopSender(log *zap.Logger) port.EmailSender {
	return &noopSender{log: log}
}

func (s *noopSender) SendDecision(_ context.Context, toEmail string, notice domain.DecisionNotice) error {
	s.log.Info("noop email: decision",
		zap.String("to", toEmail),
		zap.String("reference_no", notice.ReferenceNo),
		zap.String("decision", string(notice.Decision)))
	return nil
}

func (s *noopSender) SendInspectionScheduled(_ context.Context, toEmail string, notice domain.InspectionNotice) error {
	s.log.Info("noop email: inspection scheduled",
		zap.String("to", toEmail),
		zap.String("reference_no", notice.ReferenceNo),
		zap.String("date", notice.InspectionDate),
		zap.String("time", notice.InspectionTime))
	return nil
}
