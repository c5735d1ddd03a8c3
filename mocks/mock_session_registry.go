package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"loandesk/internal/domain"
)

// MockSessionRegistry is a mock implementation of port.SessionRegistry.
type MockSessionRegistry struct {
	mock.Mock
}

func (m *MockSessionRegistry) Activate(ctx context.Context, role domain.UserRole, sessionID string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, role, sessionID, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockSessionRegistry) IsActive(ctx context.Context, role domain.UserRole, sessionID string) (bool, error) {
	args := m.Called(ctx, role, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRegistry) Revoke(ctx context.Context, role domain.UserRole, sessionID string) error {
	args := m.Called(ctx, role, sessionID)
	return args.Error(0)
}
