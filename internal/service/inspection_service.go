package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loandesk/internal/domain"
	"loandesk/internal/metrics"
	"loandesk/internal/port"
	"loandesk/internal/workflow"
)

// ScheduleInspectionInput is the input for scheduling a site inspection.
type ScheduleInspectionInput struct {
	ApplicationID    uuid.UUID
	InspectionDate   string
	InspectionTime   string
	InspectorName    string
	InspectorContact string
	Notes            string
	ScheduledBy      string
}

// CloseInspectionInput is the input for completing or cancelling an inspection.
type CloseInspectionInput struct {
	ApplicationID uuid.UUID
	InspectionID  uuid.UUID
	Status        domain.InspectionStatus
	OutcomeNotes  string
	PerformedBy   string
}

// InspectionService schedules and closes site inspections for approved applications.
type InspectionService interface {
	Schedule(ctx context.Context, input *ScheduleInspectionInput) (*domain.SiteInspection, error)
	List(ctx context.Context, appID uuid.UUID) ([]domain.SiteInspection, error)
	Close(ctx context.Context, input *CloseInspectionInput) (*domain.SiteInspection, error)
}

type inspectionService struct {
	appRepo   port.ApplicationRepository
	inspRepo  port.InspectionRepository
	auditRepo port.AuditRepository
	notifRepo port.NotificationRepository
	loc       *time.Location
	log       *zap.Logger
	now       func() time.Time
}

// NewInspectionService creates a new InspectionService. Inspection dates are
// compared by calendar day in loc; a nil loc means UTC.
func NewInspectionService(
	appRepo port.ApplicationRepository,
	inspRepo port.InspectionRepository,
	auditRepo port.AuditRepository,
	notifRepo port.NotificationRepository,
	loc *time.Location,
	log *zap.Logger,
) InspectionService {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &inspectionService{
		appRepo:   appRepo,
		inspRepo:  inspRepo,
		auditRepo: auditRepo,
		notifRepo: notifRepo,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

func (s *inspectionService) Schedule(ctx context.Context, input *ScheduleInspectionInput) (*domain.SiteInspection, error) {
	app, err := s.appRepo.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	existing, err := s.inspRepo.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanScheduleInspection(app, existing); err != nil {
		return nil, err
	}
	if err := workflow.ValidateInspectionSlot(input.InspectionDate, input.InspectionTime, s.now().In(s.loc)); err != nil {
		return nil, err
	}

	insp := &domain.SiteInspection{
		ApplicationID:    app.ID,
		Status:           domain.InspectionScheduled,
		InspectionDate:   strings.TrimSpace(input.InspectionDate),
		InspectionTime:   strings.TrimSpace(input.InspectionTime),
		InspectorName:    strings.TrimSpace(input.InspectorName),
		InspectorContact: strings.TrimSpace(input.InspectorContact),
		Notes:            strings.TrimSpace(input.Notes),
		ScheduledBy:      input.ScheduledBy,
	}
	// The partial unique index catches a concurrent schedule that passed the guard.
	if err := s.inspRepo.Create(ctx, insp); err != nil {
		return nil, err
	}
	metrics.InspectionsScheduled.Inc()

	changes, _ := json.Marshal(map[string]string{
		"inspectionId":   insp.ID.String(),
		"inspectionDate": insp.InspectionDate,
		"inspectionTime": insp.InspectionTime,
		"inspectorName":  insp.InspectorName,
	})
	writeAudit(ctx, s.auditRepo, s.log, app.ID, nil, input.ScheduledBy, domain.AuditInspectionScheduled, changes)
	s.log.Info("site inspection scheduled",
		zap.String("application_id", app.ID.String()),
		zap.String("inspection_id", insp.ID.String()),
		zap.String("date", insp.InspectionDate))

	enqueueNotification(ctx, s.notifRepo, s.log, app, domain.NotificationInspectionScheduled, domain.InspectionNotice{
		ReferenceNo:      app.ReferenceNo,
		ApplicantName:    app.ApplicantName,
		InspectionDate:   insp.InspectionDate,
		InspectionTime:   insp.InspectionTime,
		InspectorName:    insp.InspectorName,
		InspectorContact: insp.InspectorContact,
	})
	return insp, nil
}

func (s *inspectionService) List(ctx context.Context, appID uuid.UUID) ([]domain.SiteInspection, error) {
	if _, err := s.appRepo.GetByID(ctx, appID); err != nil {
		return nil, err
	}
	return s.inspRepo.ListByApplication(ctx, appID)
}

func (s *inspectionService) Close(ctx context.Context, input *CloseInspectionInput) (*domain.SiteInspection, error) {
	insp, err := s.inspRepo.GetByID(ctx, input.ApplicationID, input.InspectionID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CloseInspection(insp, input.Status, input.OutcomeNotes, input.PerformedBy, s.now()); err != nil {
		return nil, err
	}
	if err := s.inspRepo.Close(ctx, insp); err != nil {
		return nil, err
	}

	action := domain.AuditInspectionCompleted
	if insp.Status == domain.InspectionCancelled {
		action = domain.AuditInspectionCancelled
	}
	changes, _ := json.Marshal(map[string]string{
		"inspectionId": insp.ID.String(),
		"status":       string(insp.Status),
		"outcomeNotes": insp.OutcomeNotes,
	})
	writeAudit(ctx, s.auditRepo, s.log, insp.ApplicationID, nil, input.PerformedBy, action, changes)
	return insp, nil
}
