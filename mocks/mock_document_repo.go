package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loandesk/internal/domain"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, appID, docID uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, appID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) ListByApplication(ctx context.Context, appID uuid.UUID) ([]domain.Document, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) CountsByApplications(ctx context.Context, appIDs []uuid.UUID) ([]domain.DocumentCounts, error) {
	args := m.Called(ctx, appIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentCounts), args.Error(1)
}

func (m *MockDocumentRepo) UpdateVerification(ctx context.Context, doc *domain.Document, expected domain.VerificationStatus) error {
	args := m.Called(ctx, doc, expected)
	return args.Error(0)
}
