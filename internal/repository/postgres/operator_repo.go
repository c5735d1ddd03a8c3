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

type operatorRepo struct {
	db *sqlx.DB
}

// NewOperatorRepo creates a new PostgreSQL-backed OperatorRepository.
func NewOperatorRepo(db *sqlx.DB) port.OperatorRepository {
	return &operatorRepo{db: db}
}

func (r *operatorRepo) Create(ctx context.Context, op *domain.Operator) error {
	op.ID = uuid.New()
	now := time.Now().UTC()
	op.CreatedAt = now
	op.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO operators (id, username, password_hash, full_name, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		op.ID, op.Username, op.PasswordHash, op.FullName, op.Role, op.IsActive, op.CreatedAt, op.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("operatorRepo.Create: %w", err)
	}
	return nil
}

func (r *operatorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error) {
	var op domain.Operator
	err := r.db.GetContext(ctx, &op, "SELECT * FROM operators WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("operatorRepo.GetByID: %w", err)
	}
	return &op, nil
}

func (r *operatorRepo) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	var op domain.Operator
	err := r.db.GetContext(ctx, &op, "SELECT * FROM operators WHERE username = $1", username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("operatorRepo.GetByUsername: %w", err)
	}
	return &op, nil
}
