package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"loandesk/internal/domain"
	"loandesk/internal/port"
)

const defaultClaimTimeout = 5 * time.Minute

type notificationRepo struct {
	db           *sqlx.DB
	claimTimeout time.Duration
}

// NewNotificationRepo creates a new PostgreSQL-backed NotificationRepository.
// Rows left in sending for longer than claimTimeout are claimed again.
func NewNotificationRepo(db *sqlx.DB, claimTimeout time.Duration) port.NotificationRepository {
	if claimTimeout <= 0 {
		claimTimeout = defaultClaimTimeout
	}
	return &notificationRepo{db: db, claimTimeout: claimTimeout}
}

func (r *notificationRepo) Enqueue(ctx context.Context, n *domain.Notification) error {
	n.ID = uuid.New()
	n.Status = domain.NotificationQueued
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, application_id, kind, recipient, payload, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.ApplicationID, n.Kind, n.Recipient, n.Payload, n.Status, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("notificationRepo.Enqueue: %w", err)
	}
	return nil
}

// ClaimQueued atomically moves up to limit queued rows to sending and returns them.
// Rows stuck in sending past the claim timeout, left behind by a worker that died
// mid-delivery, are claimed along with them.
// SKIP LOCKED lets several worker instances drain the outbox without double sends.
func (r *notificationRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Notification, error) {
	var claimed []domain.Notification
	err := r.db.SelectContext(ctx, &claimed,
		`UPDATE notifications SET status = 'sending', attempts = attempts + 1, updated_at = NOW()
		 WHERE id IN (
			SELECT id FROM notifications
			WHERE status = 'queued'
			   OR (status = 'sending' AND updated_at < NOW() - make_interval(secs => $2))
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`, limit, r.claimTimeout.Seconds())
	if err != nil {
		return nil, fmt.Errorf("notificationRepo.ClaimQueued: %w", err)
	}
	return claimed, nil
}

func (r *notificationRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET status = 'sent', sent_at = NOW(), last_error = '', updated_at = NOW()
		 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("notificationRepo.MarkSent: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) MarkFailed(ctx context.Context, id uuid.UUID, lastErr string, maxAttempts int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET
			status = CASE WHEN attempts < $1 THEN 'queued' ELSE 'failed' END,
			last_error = $2, updated_at = NOW()
		 WHERE id = $3`, maxAttempts, lastErr, id)
	if err != nil {
		return fmt.Errorf("notificationRepo.MarkFailed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
