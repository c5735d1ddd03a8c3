package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"loandesk/internal/domain"
)

// InspectionRequest schedules a site inspection.
type InspectionRequest struct {
	InspectionDate   string `json:"inspectionDate"`
	InspectionTime   string `json:"inspectionTime"`
	InspectorName    string `json:"inspectorName,omitempty"`
	InspectorContact string `json:"inspectorContact,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// ScheduleInspection schedules a site inspection for an approved application.
func (c *Client) ScheduleInspection(ctx context.Context, appID uuid.UUID, req InspectionRequest) (*domain.SiteInspection, error) {
	var insp domain.SiteInspection
	if _, err := c.do(ctx, http.MethodPost, appPath(appID)+"/site-inspection", nil, req, &insp); err != nil {
		return nil, err
	}
	return &insp, nil
}

// ListInspections returns every inspection of an application.
func (c *Client) ListInspections(ctx context.Context, appID uuid.UUID) ([]domain.SiteInspection, error) {
	var list []domain.SiteInspection
	if _, err := c.do(ctx, http.MethodGet, appPath(appID)+"/site-inspections", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CompleteInspection closes a scheduled inspection as completed.
func (c *Client) CompleteInspection(ctx context.Context, appID, inspID uuid.UUID, notes string) (*domain.SiteInspection, error) {
	return c.closeInspection(ctx, appID, inspID, "complete", notes)
}

// CancelInspection closes a scheduled inspection as cancelled.
func (c *Client) CancelInspection(ctx context.Context, appID, inspID uuid.UUID, notes string) (*domain.SiteInspection, error) {
	return c.closeInspection(ctx, appID, inspID, "cancel", notes)
}

func (c *Client) closeInspection(ctx context.Context, appID, inspID uuid.UUID, action, notes string) (*domain.SiteInspection, error) {
	var insp domain.SiteInspection
	body := map[string]string{"outcomeNotes": notes}
	path := appPath(appID) + "/site-inspections/" + inspID.String() + "/" + action
	if _, err := c.do(ctx, http.MethodPut, path, nil, body, &insp); err != nil {
		return nil, err
	}
	return &insp, nil
}
