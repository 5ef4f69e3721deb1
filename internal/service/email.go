package service

import (
	"context"
	"fmt"

	"eventhub-backend/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService returns nil when no API key is configured; callers treat a
// nil EmailService as "email channel disabled".
func NewEmailService(cfg config.EmailConfig) EmailService {
	if cfg.SendGridAPIKey == "" {
		return nil
	}
	return &sendGridEmailService{
		apiKey:    cfg.SendGridAPIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *sendGridEmailService) SendApprovalNotice(ctx context.Context, email, name, eventTitle string) error {
	subject := fmt.Sprintf("You're in: %s", eventTitle)
	plainText := fmt.Sprintf("Hi %s, your application for %s has been approved. See you there!", name, eventTitle)
	htmlContent := fmt.Sprintf(`<html><body>
		<h2>Application Approved</h2>
		<p>Hi %s,</p>
		<p>Your application for <strong>%s</strong> has been approved. See you there!</p>
	</body></html>`, name, eventTitle)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendRejectionNotice(ctx context.Context, email, name, eventTitle, reason string) error {
	subject := fmt.Sprintf("Update on your application: %s", eventTitle)
	plainText := fmt.Sprintf("Hi %s, your application for %s was not approved. Reason: %s", name, eventTitle, reason)
	htmlContent := fmt.Sprintf(`<html><body>
		<h2>Application Update</h2>
		<p>Hi %s,</p>
		<p>Your application for <strong>%s</strong> was not approved.</p>
		<p>Reason: %s</p>
	</body></html>`, name, eventTitle, reason)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
