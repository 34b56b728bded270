package notifications

import (
	"context"
	"fmt"

	"github.com/resendlabs/resend-go"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/notifications/templates"
	"github.com/KnowYourRightsCard/kyrcard-go/pkg/config"
)

// ResendEmailSender is the concrete EmailSender backed by the Resend API.
type ResendEmailSender struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewResendEmailSender creates the alert email sender. The API key is
// required; from address and name have configured defaults.
func NewResendEmailSender() (*ResendEmailSender, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	return &ResendEmailSender{
		client:    resend.NewClient(config.ResendAPIKey),
		fromEmail: config.AlertEmailFrom,
		fromName:  config.AlertEmailName,
	}, nil
}

// SendAlertEmail composes and sends the emergency alert email.
func (s *ResendEmailSender) SendAlertEmail(ctx context.Context, toEmail, contactName string, msg AlertMessage) error {
	subject := fmt.Sprintf("EMERGENCY ALERT from %s", msg.UserName)

	headline := msg.Custom
	if headline == "" {
		headline = fmt.Sprintf("%s has triggered an emergency alert during a police encounter.", msg.UserName)
	}

	content := templates.GetAlertEmailContent(templates.AlertEmailProps{
		ContactName:  contactName,
		Headline:     headline,
		LocationLine: LocationLine(msg.Location),
		Timestamp:    msg.Timestamp,
		AlertID:      msg.AlertID,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: subject,
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		return failure.Wrap(failure.ChannelSendFailed, "notify.email", err)
	}
	return nil
}
