package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"loandesk/internal/domain"
	"loandesk/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.VerificationStatus == "" {
		doc.VerificationStatus = domain.VerificationPending
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO application_documents (
		id, application_id, document_type, original_name, file_size, content_type,
		s3_bucket, s3_key, verification_status, verified_by, verified_at,
		verification_comments, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11,
		$12, $13, $14
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.ApplicationID, doc.DocumentType, doc.OriginalName, doc.FileSize, doc.ContentType,
		doc.S3Bucket, doc.S3Key, doc.VerificationStatus, doc.VerifiedBy, doc.VerifiedAt,
		doc.VerificationComments, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, appID, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM application_documents WHERE id = $1 AND application_id = $2", docID, appID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByApplication(ctx context.Context, appID uuid.UUID) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM application_documents WHERE application_id = $1
		 ORDER BY created_at ASC, id ASC`, appID)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByApplication: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) CountsByApplications(ctx context.Context, appIDs []uuid.UUID) ([]domain.DocumentCounts, error) {
	if len(appIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		`SELECT application_id,
			COUNT(CASE WHEN verification_status = 'approved' THEN 1 END) AS approved,
			COUNT(CASE WHEN verification_status = 'rejected' THEN 1 END) AS rejected,
			COUNT(CASE WHEN verification_status NOT IN ('approved', 'rejected') THEN 1 END) AS pending
		 FROM application_documents
		 WHERE application_id IN (?)
		 GROUP BY application_id`, appIDs)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.CountsByApplications build: %w", err)
	}

	var counts []domain.DocumentCounts
	if err := r.db.SelectContext(ctx, &counts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("documentRepo.CountsByApplications: %w", err)
	}
	return counts, nil
}

func (r *documentRepo) UpdateVerification(ctx context.Context, doc *domain.Document, expected domain.VerificationStatus) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE application_documents SET
			verification_status = $1, verified_by = $2, verified_at = $3,
			verification_comments = $4, updated_at = $5
		 WHERE id = $6 AND application_id = $7 AND verification_status = $8`,
		doc.VerificationStatus, doc.VerifiedBy, doc.VerifiedAt,
		doc.VerificationComments, doc.UpdatedAt,
		doc.ID, doc.ApplicationID, expected)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateVerification: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := r.GetByID(ctx, doc.ApplicationID, doc.ID); err != nil {
			return err
		}
		return domain.ErrDocumentFinalized
	}
	return nil
}
