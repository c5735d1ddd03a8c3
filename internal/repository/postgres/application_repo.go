package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"loandesk/internal/domain"
	"loandesk/internal/port"
)

type applicationRepo struct {
	db *sqlx.DB
}

// NewApplicationRepo creates a new PostgreSQL-backed ApplicationRepository.
func NewApplicationRepo(db *sqlx.DB) port.ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `id, reference_no, applicant_name, cnic, email, phone, profession,
	organization_name, city, loan_amount, approved_loan_amount, status, admin_comments,
	approved_at, approved_by, last_action_by, created_at, updated_at`

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.Status == "" {
		app.Status = domain.StatusPending
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (`+applicationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		app.ID, app.ReferenceNo, app.ApplicantName, app.CNIC, app.Email, app.Phone, app.Profession,
		app.OrganizationName, app.City, app.LoanAmount, app.ApprovedLoanAmount, app.Status, app.AdminComments,
		app.ApprovedAt, app.ApprovedBy, app.LastActionBy, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("applicationRepo.Create: %w", err)
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	var app domain.Application
	err := r.db.GetContext(ctx, &app,
		"SELECT "+applicationColumns+" FROM applications WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("applicationRepo.GetByID: %w", err)
	}
	return &app, nil
}

// filterClause builds the WHERE clause for list queries; args start at $1.
func filterClause(filter domain.ApplicationFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(applicant_name ILIKE $%d OR reference_no ILIKE $%d OR cnic ILIKE $%d OR organization_name ILIKE $%d OR city ILIKE $%d)",
			n, n, n, n, n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *applicationRepo) List(ctx context.Context, filter domain.ApplicationFilter, offset, limit int) ([]domain.Application, int, error) {
	where, args := filterClause(filter)

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM applications"+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("applicationRepo.List count: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM applications%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		applicationColumns, where, len(args)-1, len(args))

	var apps []domain.Application
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("applicationRepo.List: %w", err)
	}
	return apps, total, nil
}

func (r *applicationRepo) ListAll(ctx context.Context, filter domain.ApplicationFilter) ([]domain.Application, error) {
	where, args := filterClause(filter)

	var apps []domain.Application
	err := r.db.SelectContext(ctx, &apps,
		"SELECT "+applicationColumns+" FROM applications"+where+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("applicationRepo.ListAll: %w", err)
	}
	return apps, nil
}

func (r *applicationRepo) UpdateDecision(ctx context.Context, app *domain.Application, expected domain.ApplicationStatus) error {
	app.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET
			status = $1, admin_comments = $2, approved_loan_amount = $3,
			approved_at = $4, approved_by = $5, last_action_by = $6, updated_at = $7
		 WHERE id = $8 AND status = $9`,
		app.Status, app.AdminComments, app.ApprovedLoanAmount,
		app.ApprovedAt, app.ApprovedBy, app.LastActionBy, app.UpdatedAt,
		app.ID, expected)
	if err != nil {
		return fmt.Errorf("applicationRepo.UpdateDecision: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)", app.ID); err != nil {
			return fmt.Errorf("applicationRepo.UpdateDecision exists: %w", err)
		}
		if !exists {
			return domain.ErrApplicationNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}
