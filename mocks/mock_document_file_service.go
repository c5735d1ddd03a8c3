package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loandesk/internal/service"
)

// MockDocumentFileService is a mock implementation of service.DocumentFileService.
type MockDocumentFileService struct {
	mock.Mock
}

func (m *MockDocumentFileService) Open(ctx context.Context, appID, docID uuid.UUID) (*service.DocumentFile, error) {
	args := m.Called(ctx, appID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentFile), args.Error(1)
}
