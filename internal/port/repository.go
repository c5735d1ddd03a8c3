package port

import (
	"context"

	"github.com/google/uuid"

	"loandesk/internal/domain"
)

// OperatorRepository defines the contract for operator account persistence.
type OperatorRepository interface {
	Create(ctx context.Context, op *domain.Operator) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error)
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error)
}

// ApplicationRepository defines the contract for loan application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	List(ctx context.Context, filter domain.ApplicationFilter, offset, limit int) ([]domain.Application, int, error)
	ListAll(ctx context.Context, filter domain.ApplicationFilter) ([]domain.Application, error)
	// UpdateDecision persists status, comments and approval fields. It only succeeds
	// while the stored status still equals expected; otherwise ErrInvalidTransition.
	UpdateDecision(ctx context.Context, app *domain.Application, expected domain.ApplicationStatus) error
}

// DocumentRepository defines the contract for application document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, appID, docID uuid.UUID) (*domain.Document, error)
	ListByApplication(ctx context.Context, appID uuid.UUID) ([]domain.Document, error)
	CountsByApplications(ctx context.Context, appIDs []uuid.UUID) ([]domain.DocumentCounts, error)
	// UpdateVerification persists the verification fields. It only succeeds while the
	// stored status still equals expected; otherwise ErrDocumentFinalized.
	UpdateVerification(ctx context.Context, doc *domain.Document, expected domain.VerificationStatus) error
}

// InspectionRepository defines the contract for site inspection persistence.
type InspectionRepository interface {
	// Create maps a violation of the one-scheduled-per-application index to
	// ErrInspectionAlreadyScheduled.
	Create(ctx context.Context, insp *domain.SiteInspection) error
	GetByID(ctx context.Context, appID, inspectionID uuid.UUID) (*domain.SiteInspection, error)
	ListByApplication(ctx context.Context, appID uuid.UUID) ([]domain.SiteInspection, error)
	Close(ctx context.Context, insp *domain.SiteInspection) error
}

// AuditRepository defines the contract for the application audit log.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByApplication(ctx context.Context, appID uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error)
}

// NotificationRepository is the outbox the notification worker drains.
type NotificationRepository interface {
	Enqueue(ctx context.Context, n *domain.Notification) error
	ClaimQueued(ctx context.Context, limit int) ([]domain.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	// MarkFailed requeues the notification while attempts < maxAttempts, else marks it failed.
	MarkFailed(ctx context.Context, id uuid.UUID, lastErr string, maxAttempts int) error
}

// StatsRepository provides the dashboard aggregate query.
type StatsRepository interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
}
