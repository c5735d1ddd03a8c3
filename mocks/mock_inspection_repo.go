package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loandesk/internal/domain"
)

// MockInspectionRepo is a mock implementation of port.InspectionRepository.
type MockInspectionRepo struct {
	mock.Mock
}

func (m *MockInspectionRepo) Create(ctx context.Context, insp *domain.SiteInspection) error {
	args := m.Called(ctx, insp)
	return args.Error(0)
}

func (m *MockInspectionRepo) GetByID(ctx context.Context, appID, inspectionID uuid.UUID) (*domain.SiteInspection, error) {
	args := m.Called(ctx, appID, inspectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SiteInspection), args.Error(1)
}

func (m *MockInspectionRepo) ListByApplication(ctx context.Context, appID uuid.UUID) ([]domain.SiteInspection, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SiteInspection), args.Error(1)
}

func (m *MockInspectionRepo) Close(ctx context.Context, insp *domain.SiteInspection) error {
	args := m.Called(ctx, insp)
	return args.Error(0)
}
