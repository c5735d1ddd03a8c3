package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"loandesk/internal/domain"
	"loandesk/internal/workflow"
)

// ListOptions filters and pages an application list.
type ListOptions struct {
	Status domain.ApplicationStatus
	Query  string
	Page   int
	Limit  int
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Status != "" {
		v.Set("status", string(o.Status))
	}
	if o.Query != "" {
		v.Set("q", o.Query)
	}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	return v
}

// ApplicationPage is one page of applications.
type ApplicationPage struct {
	Applications []domain.Application
	Meta         Meta
}

func appPath(id uuid.UUID) string {
	return "/applications/" + id.String()
}

// LoginResult is a fresh session returned by Login.
type LoginResult struct {
	AccessToken string           `json:"accessToken"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	Operator    *domain.Operator `json:"operator"`
}

// Login exchanges credentials for a session and stores its token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var s LoginResult
	body := map[string]string{"username": username, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &s); err != nil {
		return nil, err
	}
	c.SetToken(s.AccessToken)
	return &s, nil
}

// Logout revokes the current session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	return err
}

// SessionInfo is the identity behind the current token.
type SessionInfo struct {
	OperatorID uuid.UUID       `json:"operatorId"`
	Username   string          `json:"username"`
	Role       domain.UserRole `json:"role"`
	ExpiresAt  time.Time       `json:"expiresAt"`
}

// Session returns the current session, or an *APIError with code SESSION_REVOKED once
// a newer login replaced it.
func (c *Client) Session(ctx context.Context) (*SessionInfo, error) {
	var s SessionInfo
	if _, err := c.do(ctx, http.MethodGet, "/auth/session", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListApplications returns one page of applications with document summaries.
func (c *Client) ListApplications(ctx context.Context, opts ListOptions) (*ApplicationPage, error) {
	var apps []domain.Application
	meta, err := c.do(ctx, http.MethodGet, "/applications", opts.values(), nil, &apps)
	if err != nil {
		return nil, err
	}
	page := &ApplicationPage{Applications: apps}
	if meta != nil {
		page.Meta = *meta
	}
	return page, nil
}

// GetApplication returns one application with documents and inspections.
func (c *Client) GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	var app domain.Application
	if _, err := c.do(ctx, http.MethodGet, appPath(id), nil, nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// PlanStatus asks the server which path a requested status change takes.
func (c *Client) PlanStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) (*workflow.Plan, error) {
	var p workflow.Plan
	q := url.Values{"status": {string(status)}}
	if _, err := c.do(ctx, http.MethodGet, appPath(id)+"/plan", q, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStatus applies a direct status change.
func (c *Client) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus, comments string) (*domain.Application, error) {
	var app domain.Application
	body := map[string]string{"status": string(status), "comments": comments}
	if _, err := c.do(ctx, http.MethodPut, appPath(id)+"/status", nil, body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// DocumentDecision is a per-document verification sent with a review or an edit.
type DocumentDecision struct {
	DocumentID         uuid.UUID                 `json:"documentId"`
	VerificationStatus domain.VerificationStatus `json:"verificationStatus"`
	Comments           string                    `json:"comments,omitempty"`
}

// Review is a final review submission.
type Review struct {
	FinalDecision       domain.ApplicationStatus `json:"finalDecision"`
	ApplicationComments string                   `json:"applicationComments"`
	ApprovedLoanAmount  string                   `json:"approvedLoanAmount,omitempty"`
	DocumentDecisions   []DocumentDecision       `json:"documentDecisions,omitempty"`
}

// SubmitReview records a final decision.
func (c *Client) SubmitReview(ctx context.Context, id uuid.UUID, review Review) (*domain.Application, error) {
	var app domain.Application
	if _, err := c.do(ctx, http.MethodPut, appPath(id)+"/review", nil, review, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// VerifyDocument approves or rejects one document.
func (c *Client) VerifyDocument(ctx context.Context, appID, docID uuid.UUID, status domain.VerificationStatus, comments string) (*domain.Document, error) {
	var doc domain.Document
	body := map[string]string{"verificationStatus": string(status), "comments": comments}
	if _, err := c.do(ctx, http.MethodPut, appPath(appID)+"/documents/"+docID.String()+"/verify", nil, body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReopenDocument resets a finalized document to pending.
func (c *Client) ReopenDocument(ctx context.Context, appID, docID uuid.UUID, reason string) (*domain.Document, error) {
	var doc domain.Document
	body := map[string]string{"reason": reason}
	if _, err := c.do(ctx, http.MethodPut, appPath(appID)+"/documents/"+docID.String()+"/reopen", nil, body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DownloadDocument returns the document bytes and content type.
func (c *Client) DownloadDocument(ctx context.Context, appID, docID uuid.UUID) ([]byte, string, error) {
	return c.raw(ctx, appPath(appID)+"/documents/"+docID.String()+"/download", nil)
}

// PreviewDocument returns the document bytes served inline.
func (c *Client) PreviewDocument(ctx context.Context, appID, docID uuid.UUID) ([]byte, string, error) {
	return c.raw(ctx, appPath(appID)+"/documents/"+docID.String()+"/preview", nil)
}

// History returns one page of the application's audit trail.
func (c *Client) History(ctx context.Context, id uuid.UUID, page, limit int) ([]domain.AuditEntry, *Meta, error) {
	var entries []domain.AuditEntry
	q := ListOptions{Page: page, Limit: limit}.values()
	meta, err := c.do(ctx, http.MethodGet, appPath(id)+"/history", q, nil, &entries)
	if err != nil {
		return nil, nil, err
	}
	return entries, meta, nil
}

// Stats returns the dashboard summary.
func (c *Client) Stats(ctx context.Context) (*domain.Stats, error) {
	var s domain.Stats
	if _, err := c.do(ctx, http.MethodGet, "/applications/stats/summary", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Export downloads the filtered application list as CSV or XLSX.
func (c *Client) Export(ctx context.Context, format domain.ExportFormat, opts ListOptions) ([]byte, error) {
	q := opts.values()
	q.Del("page")
	q.Del("limit")
	q.Set("format", string(format))
	data, _, err := c.raw(ctx, "/applications/export", q)
	return data, err
}
