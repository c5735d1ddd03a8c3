package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"loandesk/internal/domain"
	"loandesk/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const applicationStatsQuery = `SELECT
	COUNT(*) AS total_applications,
	COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending,
	COUNT(CASE WHEN status = 'under_review' THEN 1 END) AS under_review,
	COUNT(CASE WHEN status = 'on_hold' THEN 1 END) AS on_hold,
	COUNT(CASE WHEN status = 'approved' THEN 1 END) AS approved,
	COUNT(CASE WHEN status = 'rejected' THEN 1 END) AS rejected,
	COALESCE(SUM(loan_amount), 0) AS total_requested_amount,
	COALESCE(SUM(approved_loan_amount), 0) AS total_approved_amount
FROM applications`

const documentStatsQuery = `SELECT
	COUNT(CASE WHEN verification_status = 'pending' THEN 1 END) AS documents_pending,
	COUNT(CASE WHEN verification_status = 'approved' THEN 1 END) AS documents_approved,
	COUNT(CASE WHEN verification_status = 'rejected' THEN 1 END) AS documents_rejected
FROM application_documents`

const inspectionStatsQuery = `SELECT
	COUNT(CASE WHEN status = 'scheduled' THEN 1 END) AS inspections_scheduled,
	COUNT(CASE WHEN status = 'completed' THEN 1 END) AS inspections_completed
FROM site_inspections`

func (r *statsRepo) GetStats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	if err := r.db.GetContext(ctx, &stats, applicationStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats applications: %w", err)
	}

	var docs struct {
		Pending  int `db:"documents_pending"`
		Approved int `db:"documents_approved"`
		Rejected int `db:"documents_rejected"`
	}
	if err := r.db.GetContext(ctx, &docs, documentStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats documents: %w", err)
	}
	stats.DocumentsPending = docs.Pending
	stats.DocumentsApproved = docs.Approved
	stats.DocumentsRejected = docs.Rejected

	var insp struct {
		Scheduled int `db:"inspections_scheduled"`
		Completed int `db:"inspections_completed"`
	}
	if err := r.db.GetContext(ctx, &insp, inspectionStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats inspections: %w", err)
	}
	stats.InspectionsScheduled = insp.Scheduled
	stats.InspectionsCompleted = insp.Completed

	return &stats, nil
}
