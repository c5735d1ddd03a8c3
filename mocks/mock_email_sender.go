package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loandesk/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendDecision(ctx context.Context, toEmail string, notice domain.DecisionNotice) error {
	args := m.Called(ctx, toEmail, notice)
	return args.Error(0)
}

func (m *MockEmailSender) SendInspectionScheduled(ctx context.Context, toEmail string, notice domain.InspectionNotice) error {
	args := m.Called(ctx, toEmail, notice)
	return args.Error(0)
}
