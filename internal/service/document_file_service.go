package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loandesk/internal/domain"
	"loandesk/internal/port"
)

// DocumentFile is a document's metadata together with its stored bytes.
type DocumentFile struct {
	Document *domain.Document
	Data     []byte
}

// DocumentFileService streams stored document files for download and preview.
type DocumentFileService interface {
	Open(ctx context.Context, appID, docID uuid.UUID) (*DocumentFile, error)
}

type documentFileService struct {
	docRepo       port.DocumentRepository
	storage       port.ObjectStorage
	defaultBucket string
	log           *zap.Logger
}

// NewDocumentFileService creates a new DocumentFileService. defaultBucket is used for
// documents imported without an explicit bucket.
func NewDocumentFileService(docRepo port.DocumentRepository, storage port.ObjectStorage, defaultBucket string, log *zap.Logger) DocumentFileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &documentFileService{
		docRepo:       docRepo,
		storage:       storage,
		defaultBucket: defaultBucket,
		log:           log,
	}
}

func (s *documentFileService) Open(ctx context.Context, appID, docID uuid.UUID) (*DocumentFile, error) {
	doc, err := s.docRepo.GetByID(ctx, appID, docID)
	if err != nil {
		return nil, err
	}
	bucket := doc.S3Bucket
	if bucket == "" {
		bucket = s.defaultBucket
	}
	data, err := s.storage.Download(ctx, bucket, doc.S3Key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("document file missing from storage",
				zap.String("document_id", doc.ID.String()),
				zap.String("key", doc.S3Key))
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return &DocumentFile{Document: doc, Data: data}, nil
}
