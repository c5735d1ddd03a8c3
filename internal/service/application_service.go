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

// UpdateStatusInput is the input for a direct status change.
type UpdateStatusInput struct {
	ApplicationID uuid.UUID
	Status        domain.ApplicationStatus
	Comments      string
	PerformedBy   string
}

// DocumentDecision is one per-document verification bundled with a final review.
type DocumentDecision struct {
	DocumentID uuid.UUID
	Status     domain.VerificationStatus
	Comments   string
}

// SubmitReviewInput is the input for a final review.
type SubmitReviewInput struct {
	ApplicationID     uuid.UUID
	Decision          domain.ApplicationStatus
	Comments          string
	ApprovedAmount    string
	DocumentDecisions []DocumentDecision
	PerformedBy       string
}

// VerifyDocumentInput is the input for a single document verification.
type VerifyDocumentInput struct {
	ApplicationID uuid.UUID
	DocumentID    uuid.UUID
	Status        domain.VerificationStatus
	Comments      string
	PerformedBy   string
}

// ReopenDocumentInput is the input for resetting a finalized document to pending.
type ReopenDocumentInput struct {
	ApplicationID uuid.UUID
	DocumentID    uuid.UUID
	Reason        string
	PerformedBy   string
}

// ApplicationService drives the review workflow for loan applications.
type ApplicationService interface {
	List(ctx context.Context, filter domain.ApplicationFilter, offset, limit int) ([]domain.Application, int, error)
	ListAll(ctx context.Context, filter domain.ApplicationFilter) ([]domain.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	PlanStatusUpdate(ctx context.Context, id uuid.UUID, requested domain.ApplicationStatus) (*workflow.Plan, error)
	UpdateStatus(ctx context.Context, input *UpdateStatusInput) (*domain.Application, error)
	SubmitReview(ctx context.Context, input *SubmitReviewInput) (*domain.Application, error)
	VerifyDocument(ctx context.Context, input *VerifyDocumentInput) (*domain.Document, error)
	ReopenDocument(ctx context.Context, input *ReopenDocumentInput) (*domain.Document, error)
	History(ctx context.Context, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error)
}

type applicationService struct {
	appRepo   port.ApplicationRepository
	docRepo   port.DocumentRepository
	inspRepo  port.InspectionRepository
	auditRepo port.AuditRepository
	notifRepo port.NotificationRepository
	policy    workflow.Policy
	log       *zap.Logger
	now       func() time.Time
}

// NewApplicationService creates a new ApplicationService. auditRepo and notifRepo may be nil.
func NewApplicationService(
	appRepo port.ApplicationRepository,
	docRepo port.DocumentRepository,
	inspRepo port.InspectionRepository,
	auditRepo port.AuditRepository,
	notifRepo port.NotificationRepository,
	policy workflow.Policy,
	log *zap.Logger,
) ApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &applicationService{
		appRepo:   appRepo,
		docRepo:   docRepo,
		inspRepo:  inspRepo,
		auditRepo: auditRepo,
		notifRepo: notifRepo,
		policy:    policy,
		log:       log,
		now:       time.Now,
	}
}

func (s *applicationService) List(ctx context.Context, filter domain.ApplicationFilter, offset, limit int) ([]domain.Application, int, error) {
	apps, total, err := s.appRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachSummaries(ctx, apps); err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (s *applicationService) ListAll(ctx context.Context, filter domain.ApplicationFilter) ([]domain.Application, error) {
	apps, err := s.appRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.attachSummaries(ctx, apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *applicationService) attachSummaries(ctx context.Context, apps []domain.Application) error {
	if len(apps) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(apps))
	for i := range apps {
		ids[i] = apps[i].ID
	}
	counts, err := s.docRepo.CountsByApplications(ctx, ids)
	if err != nil {
		return err
	}
	byApp := make(map[uuid.UUID]domain.DocumentCounts, len(counts))
	for _, c := range counts {
		byApp[c.ApplicationID] = c
	}
	for i := range apps {
		c := byApp[apps[i].ID]
		summary := workflow.SummaryFromCounts(c.Approved, c.Rejected, c.Pending)
		apps[i].DocumentSummary = &summary
	}
	return nil
}

func (s *applicationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	docs, err := s.docRepo.ListByApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	inspections, err := s.inspRepo.ListByApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := workflow.Summarize(docs)
	app.Documents = docs
	app.Inspections = inspections
	app.DocumentSummary = &summary
	return app, nil
}

func (s *applicationService) summaryFor(ctx context.Context, appID uuid.UUID) (domain.DocumentSummary, error) {
	docs, err := s.docRepo.ListByApplication(ctx, appID)
	if err != nil {
		return domain.DocumentSummary{}, err
	}
	return workflow.Summarize(docs), nil
}

func (s *applicationService) PlanStatusUpdate(ctx context.Context, id uuid.UUID, requested domain.ApplicationStatus) (*workflow.Plan, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckTransition(app.Status, requested); err != nil {
		return nil, err
	}
	summary, err := s.summaryFor(ctx, id)
	if err != nil {
		return nil, err
	}
	plan := workflow.PlanUpdate(requested, summary)
	plan.AllowedTargets = workflow.AllowedTargets(app.Status)
	if plan.Kind == workflow.PlanBlocked {
		metrics.BlockedPlans.WithLabelValues(string(requested)).Inc()
	}
	return &plan, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, input *UpdateStatusInput) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckTransition(app.Status, input.Status); err != nil {
		return nil, err
	}

	// Final statuses go through SubmitReview; tell the caller which gate applies.
	if workflow.IsFinalDecision(input.Status) {
		summary, err := s.summaryFor(ctx, app.ID)
		if err != nil {
			return nil, err
		}
		if workflow.PlanUpdate(input.Status, summary).Kind == workflow.PlanBlocked {
			metrics.BlockedPlans.WithLabelValues(string(input.Status)).Inc()
			return nil, domain.ErrDocumentsPending
		}
		return nil, domain.ErrFinalReviewRequired
	}

	prev := app.Status
	if err := workflow.ApplyDirectStatus(app, input.Status, input.Comments, input.PerformedBy); err != nil {
		return nil, err
	}
	if err := s.appRepo.UpdateDecision(ctx, app, prev); err != nil {
		return nil, err
	}
	metrics.StatusTransitions.WithLabelValues(string(prev), string(app.Status), "direct").Inc()

	changes, _ := json.Marshal(map[string]string{
		"from":     string(prev),
		"to":       string(app.Status),
		"comments": strings.TrimSpace(input.Comments),
	})
	s.audit(ctx, app.ID, nil, input.PerformedBy, domain.AuditStatusUpdated, changes)
	s.log.Info("application status updated",
		zap.String("application_id", app.ID.String()),
		zap.String("from", string(prev)),
		zap.String("to", string(app.Status)),
		zap.String("performed_by", input.PerformedBy))

	return s.GetByID(ctx, app.ID)
}

func (s *applicationService) SubmitReview(ctx context.Context, input *SubmitReviewInput) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	// Cheap checks first so a bad request never touches document state.
	if !workflow.IsFinalDecision(input.Decision) {
		return nil, domain.ErrNotFinalDecision
	}
	if strings.TrimSpace(input.Comments) == "" {
		return nil, domain.ErrCommentsRequired
	}
	if err := workflow.CheckTransition(app.Status, input.Decision); err != nil {
		return nil, err
	}

	docs, err := s.docRepo.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	targets, failed := checkDecisions(docs, input.DocumentDecisions)
	if len(failed) > 0 {
		return nil, &domain.BatchError{Applied: []uuid.UUID{}, Failed: failed}
	}

	// Validate against the documents as they will stand once the decisions are written.
	review := workflow.FinalReview{
		Decision:       input.Decision,
		Comments:       input.Comments,
		ApprovedAmount: input.ApprovedAmount,
	}
	outcome, err := workflow.ValidateFinalReview(app, workflow.ProjectDecisions(docs, decisionMap(input.DocumentDecisions)), review, s.policy)
	if err != nil {
		return nil, err
	}

	applied := make([]uuid.UUID, 0, len(input.DocumentDecisions))
	for i, dd := range input.DocumentDecisions {
		if err := s.persistVerification(ctx, app, targets[i], dd.Status, dd.Comments, input.PerformedBy); err != nil {
			s.log.Warn("review aborted on document failure",
				zap.String("application_id", app.ID.String()),
				zap.String("document_id", dd.DocumentID.String()),
				zap.Int("applied", len(applied)),
				zap.Error(err))
			return nil, &domain.BatchError{
				Applied: applied,
				Failed:  []domain.DocumentFailure{domain.NewDocumentFailure(dd.DocumentID, err)},
			}
		}
		applied = append(applied, dd.DocumentID)
	}

	if len(applied) > 0 {
		// Re-check against stored state in case another request reopened a document.
		summary, err := s.summaryFor(ctx, app.ID)
		if err != nil {
			return nil, err
		}
		if outcome, err = workflow.ValidateFinalReview(app, summary, review, s.policy); err != nil {
			return nil, err
		}
	}
	if outcome.OverRequested {
		s.log.Warn("approved amount exceeds requested amount",
			zap.String("application_id", app.ID.String()),
			zap.Float64("requested", app.LoanAmount),
			zap.Float64("approved", outcome.ApprovedAmount))
	}

	prev := app.Status
	workflow.ApplyFinalReview(app, review, outcome, input.PerformedBy, s.now())
	if err := s.appRepo.UpdateDecision(ctx, app, prev); err != nil {
		return nil, err
	}
	metrics.StatusTransitions.WithLabelValues(string(prev), string(app.Status), "final_review").Inc()

	changes, _ := json.Marshal(map[string]interface{}{
		"from":               prev,
		"to":                 app.Status,
		"comments":           app.AdminComments,
		"approvedLoanAmount": app.ApprovedLoanAmount,
		"documentsApplied":   applied,
	})
	s.audit(ctx, app.ID, nil, input.PerformedBy, domain.AuditReviewSubmitted, changes)
	s.log.Info("final review submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("decision", string(app.Status)),
		zap.String("performed_by", input.PerformedBy))

	s.notify(ctx, app, domain.NotificationDecision, domain.DecisionNotice{
		ReferenceNo:        app.ReferenceNo,
		ApplicantName:      app.ApplicantName,
		Decision:           app.Status,
		Comments:           app.AdminComments,
		ApprovedLoanAmount: app.ApprovedLoanAmount,
	})

	return s.GetByID(ctx, app.ID)
}

func (s *applicationService) VerifyDocument(ctx context.Context, input *VerifyDocumentInput) (*domain.Document, error) {
	app, err := s.appRepo.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	return s.verify(ctx, app, input.DocumentID, input.Status, input.Comments, input.PerformedBy)
}

// verify applies one document decision. Finalized documents and closed applications
// are refused before anything is written.
func (s *applicationService) verify(ctx context.Context, app *domain.Application, docID uuid.UUID, status domain.VerificationStatus, comments, performer string) (*domain.Document, error) {
	if workflow.IsClosed(app.Status) {
		return nil, domain.ErrApplicationClosed
	}
	doc, err := s.docRepo.GetByID(ctx, app.ID, docID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanVerifyDocument(doc, status); err != nil {
		return nil, err
	}

	if err := s.persistVerification(ctx, app, doc, status, comments, performer); err != nil {
		return nil, err
	}
	return doc, nil
}

// persistVerification stamps and stores a verification the caller already checked.
func (s *applicationService) persistVerification(ctx context.Context, app *domain.Application, doc *domain.Document, status domain.VerificationStatus, comments, performer string) error {
	prev := doc.VerificationStatus
	at := s.now().UTC()
	by := performer
	doc.VerificationStatus = status
	doc.VerifiedAt = &at
	doc.VerifiedBy = &by
	doc.VerificationComments = strings.TrimSpace(comments)
	if err := s.docRepo.UpdateVerification(ctx, doc, prev); err != nil {
		return err
	}
	metrics.DocumentVerifications.WithLabelValues(string(status)).Inc()

	changes, _ := json.Marshal(map[string]string{
		"from":     string(prev),
		"to":       string(status),
		"comments": doc.VerificationComments,
	})
	s.audit(ctx, app.ID, &doc.ID, performer, domain.AuditDocumentVerified, changes)
	return nil
}

// checkDecisions resolves each bundled decision to its document and reports every
// decision that could not be applied. Nothing is written.
func checkDecisions(docs []domain.Document, decisions []DocumentDecision) ([]*domain.Document, []domain.DocumentFailure) {
	byID := make(map[uuid.UUID]*domain.Document, len(docs))
	for i := range docs {
		byID[docs[i].ID] = &docs[i]
	}
	targets := make([]*domain.Document, len(decisions))
	seen := make(map[uuid.UUID]bool, len(decisions))
	var failed []domain.DocumentFailure
	for i, dd := range decisions {
		doc, ok := byID[dd.DocumentID]
		switch {
		case !ok:
			failed = append(failed, domain.NewDocumentFailure(dd.DocumentID, domain.ErrDocumentNotFound))
			continue
		case seen[dd.DocumentID]:
			failed = append(failed, domain.NewDocumentFailure(dd.DocumentID, domain.ErrDocumentFinalized))
			continue
		}
		if err := workflow.CanVerifyDocument(doc, dd.Status); err != nil {
			failed = append(failed, domain.NewDocumentFailure(dd.DocumentID, err))
			continue
		}
		seen[dd.DocumentID] = true
		targets[i] = doc
	}
	return targets, failed
}

func decisionMap(decisions []DocumentDecision) map[uuid.UUID]domain.VerificationStatus {
	m := make(map[uuid.UUID]domain.VerificationStatus, len(decisions))
	for _, dd := range decisions {
		m[dd.DocumentID] = dd.Status
	}
	return m
}

func (s *applicationService) ReopenDocument(ctx context.Context, input *ReopenDocumentInput) (*domain.Document, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}
	app, err := s.appRepo.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	doc, err := s.docRepo.GetByID(ctx, input.ApplicationID, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanReopenDocument(app, doc); err != nil {
		return nil, err
	}

	prev := doc.VerificationStatus
	doc.VerificationStatus = domain.VerificationPending
	doc.VerifiedAt = nil
	doc.VerifiedBy = nil
	doc.VerificationComments = reason
	if err := s.docRepo.UpdateVerification(ctx, doc, prev); err != nil {
		return nil, err
	}

	changes, _ := json.Marshal(map[string]string{
		"from":   string(prev),
		"to":     string(domain.VerificationPending),
		"reason": reason,
	})
	s.audit(ctx, app.ID, &doc.ID, input.PerformedBy, domain.AuditDocumentReopened, changes)
	s.log.Info("document reopened",
		zap.String("application_id", app.ID.String()),
		zap.String("document_id", doc.ID.String()),
		zap.String("performed_by", input.PerformedBy))
	return doc, nil
}

func (s *applicationService) History(ctx context.Context, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error) {
	if _, err := s.appRepo.GetByID(ctx, id); err != nil {
		return nil, 0, err
	}
	if s.auditRepo == nil {
		return []domain.AuditEntry{}, 0, nil
	}
	return s.auditRepo.ListByApplication(ctx, id, offset, limit)
}

// audit writes an audit entry. Failures are logged and never fail the operation.
func (s *applicationService) audit(ctx context.Context, appID uuid.UUID, docID *uuid.UUID, performer string, action domain.AuditAction, changes json.RawMessage) {
	writeAudit(ctx, s.auditRepo, s.log, appID, docID, performer, action, changes)
}

func (s *applicationService) notify(ctx context.Context, app *domain.Application, kind domain.NotificationKind, payload interface{}) {
	enqueueNotification(ctx, s.notifRepo, s.log, app, kind, payload)
}

func writeAudit(ctx context.Context, repo port.AuditRepository, log *zap.Logger, appID uuid.UUID, docID *uuid.UUID, performer string, action domain.AuditAction, changes json.RawMessage) {
	if repo == nil {
		return
	}
	if changes == nil {
		changes = json.RawMessage("{}")
	}
	entry := &domain.AuditEntry{
		ID:            uuid.New(),
		ApplicationID: appID,
		DocumentID:    docID,
		PerformedBy:   performer,
		Action:        action,
		Changes:       changes,
	}
	if err := repo.Create(ctx, entry); err != nil {
		log.Error("failed to write audit entry",
			zap.String("action", string(action)),
			zap.String("application_id", appID.String()),
			zap.Error(err))
	}
}

// enqueueNotification queues an applicant email. Applicants without an email address
// are skipped; enqueue failures are logged only.
func enqueueNotification(ctx context.Context, repo port.NotificationRepository, log *zap.Logger, app *domain.Application, kind domain.NotificationKind, payload interface{}) {
	if repo == nil || strings.TrimSpace(app.Email) == "" {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to encode notification", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	n := &domain.Notification{
		ApplicationID: app.ID,
		Kind:          kind,
		Recipient:     strings.TrimSpace(app.Email),
		Payload:       body,
	}
	if err := repo.Enqueue(ctx, n); err != nil {
		log.Error("failed to enqueue notification",
			zap.String("kind", string(kind)),
			zap.String("application_id", app.ID.String()),
			zap.Error(err))
	}
}
