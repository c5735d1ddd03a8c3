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

const oneScheduledIndex = "uq_site_inspections_one_scheduled"

type inspectionRepo struct {
	db *sqlx.DB
}

// NewInspectionRepo creates a new PostgreSQL-backed InspectionRepository.
func NewInspectionRepo(db *sqlx.DB) port.InspectionRepository {
	return &inspectionRepo{db: db}
}

func (r *inspectionRepo) Create(ctx context.Context, insp *domain.SiteInspection) error {
	insp.ID = uuid.New()
	now := time.Now().UTC()
	insp.CreatedAt = now
	insp.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO site_inspections (
			id, application_id, status, inspection_date, inspection_time,
			inspector_name, inspector_contact, notes, scheduled_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		insp.ID, insp.ApplicationID, insp.Status, insp.InspectionDate, insp.InspectionTime,
		insp.InspectorName, insp.InspectorContact, insp.Notes, insp.ScheduledBy,
		insp.CreatedAt, insp.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, oneScheduledIndex) {
			return domain.ErrInspectionAlreadyScheduled
		}
		return fmt.Errorf("inspectionRepo.Create: %w", err)
	}
	return nil
}

func (r *inspectionRepo) GetByID(ctx context.Context, appID, inspectionID uuid.UUID) (*domain.SiteInspection, error) {
	var insp domain.SiteInspection
	err := r.db.GetContext(ctx, &insp,
		"SELECT * FROM site_inspections WHERE id = $1 AND application_id = $2", inspectionID, appID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInspectionNotFound
		}
		return nil, fmt.Errorf("inspectionRepo.GetByID: %w", err)
	}
	return &insp, nil
}

func (r *inspectionRepo) ListByApplication(ctx context.Context, appID uuid.UUID) ([]domain.SiteInspection, error) {
	var list []domain.SiteInspection
	err := r.db.SelectContext(ctx, &list,
		`SELECT * FROM site_inspections WHERE application_id = $1
		 ORDER BY created_at DESC`, appID)
	if err != nil {
		return nil, fmt.Errorf("inspectionRepo.ListByApplication: %w", err)
	}
	return list, nil
}

func (r *inspectionRepo) Close(ctx context.Context, insp *domain.SiteInspection) error {
	insp.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE site_inspections SET
			status = $1, outcome_notes = $2, closed_by = $3, closed_at = $4, updated_at = $5
		 WHERE id = $6 AND application_id = $7 AND status = 'scheduled'`,
		insp.Status, insp.OutcomeNotes, insp.ClosedBy, insp.ClosedAt, insp.UpdatedAt,
		insp.ID, insp.ApplicationID)
	if err != nil {
		return fmt.Errorf("inspectionRepo.Close: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInspectionClosed
	}
	return nil
}
