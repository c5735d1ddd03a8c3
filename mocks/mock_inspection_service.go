package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loandesk/internal/domain"
	"loandesk/internal/service"
)

// MockInspectionService is a mock implementation of service.InspectionService.
type MockInspectionService struct {
	mock.Mock
}

func (m *MockInspectionService) Schedule(ctx context.Context, input *service.ScheduleInspectionInput) (*domain.SiteInspection, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SiteInspection), args.Error(1)
}

func (m *MockInspectionService) List(ctx context.Context, appID uuid.UUID) ([]domain.SiteInspection, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SiteInspection), args.Error(1)
}

func (m *MockInspectionService) Close(ctx context.Context, input *service.CloseInspectionInput) (*domain.SiteInspection, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SiteInspection), args.Error(1)
}
