package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"loandesk/internal/domain"
	"loandesk/internal/port"
)

type auditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo creates a new PostgreSQL-backed AuditRepository.
func NewAuditRepo(db *sqlx.DB) port.AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO application_audit_log (id, application_id, document_id, performed_by, action, changes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.ApplicationID, entry.DocumentID, entry.PerformedBy, entry.Action, entry.Changes)
	if err != nil {
		return fmt.Errorf("auditRepo.Create: %w", err)
	}
	return nil
}

func (r *auditRepo) ListByApplication(ctx context.Context, appID uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM application_audit_log WHERE application_id = $1`, appID)
	if err != nil {
		return nil, 0, fmt.Errorf("auditRepo.ListByApplication count: %w", err)
	}

	var entries []domain.AuditEntry
	err = r.db.SelectContext(ctx, &entries,
		`SELECT * FROM application_audit_log
		 WHERE application_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		appID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("auditRepo.ListByApplication: %w", err)
	}
	return entries, total, nil
}
