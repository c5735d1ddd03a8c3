package ses

import (
	"fmt"
	"html"

	"loandesk/internal/domain"
)

type message struct {
	subject string
	html    string
	text    string
}

var decisionHeadlines = map[domain.ApplicationStatus]string{
	domain.StatusApproved: "Your loan application has been approved",
	domain.StatusRejected: "Update on your loan application",
	domain.StatusOnHold:   "Your loan application is on hold",
}

func buildDecisionMessage(n domain.DecisionNotice, team string) message {
	headline, ok := decisionHeadlines[n.Decision]
	if !ok {
		headline = "Update on your loan application"
	}
	subject := fmt.Sprintf("%s (%s)", headline, n.ReferenceNo)

	detail := ""
	if n.Decision == domain.StatusApproved && n.ApprovedLoanAmount != nil {
		detail = fmt.Sprintf("Approved amount: PKR %.2f", *n.ApprovedLoanAmount)
	}

	text := fmt.Sprintf("Dear %s,\n\n%s.\n\nReference: %s\n%s\nReviewer comments: %s\n\n%s",
		n.ApplicantName, headline, n.ReferenceNo, detail, n.Comments, team)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <p>Dear %s,</p>
  <p>Reference: <strong>%s</strong></p>
  <p>%s</p>
  <p>Reviewer comments:</p>
  <blockquote style="color: #555;">%s</blockquote>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`,
		html.EscapeString(headline), html.EscapeString(n.ApplicantName), html.EscapeString(n.ReferenceNo),
		html.EscapeString(detail), html.EscapeString(n.Comments), html.EscapeString(team))

	return message{subject: subject, html: body, text: text}
}

func buildInspectionMessage(n domain.InspectionNotice, team string) message {
	subject := fmt.Sprintf("Site inspection scheduled (%s)", n.ReferenceNo)

	inspector := n.InspectorName
	if inspector == "" {
		inspector = "our field team"
	}
	contact := ""
	if n.InspectorContact != "" {
		contact = "Contact: " + n.InspectorContact
	}

	text := fmt.Sprintf("Dear %s,\n\nA site inspection for application %s is scheduled on %s at %s by %s.\n%s\n\n%s",
		n.ApplicantName, n.ReferenceNo, n.InspectionDate, n.InspectionTime, inspector, contact, team)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Site inspection scheduled</h2>
  <p>Dear %s,</p>
  <p>A site inspection for application <strong>%s</strong> is scheduled on <strong>%s</strong> at <strong>%s</strong> by %s.</p>
  <p>%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`,
		html.EscapeString(n.ApplicantName), html.EscapeString(n.ReferenceNo), html.EscapeString(n.InspectionDate),
		html.EscapeString(n.InspectionTime), html.EscapeString(inspector), html.EscapeString(contact), html.EscapeString(team))

	return message{subject: subject, html: body, text: text}
}
