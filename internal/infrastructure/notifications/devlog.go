package notifications

import (
	"context"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
)

// LogSMSSender is the development fallback when no SMS gateway is
// configured. It logs the message instead of sending it.
type LogSMSSender struct {
	logger *logging.ChanneledLogger
}

// NewLogSMSSender creates the log-only SMS sender.
func NewLogSMSSender(logger *logging.ChanneledLogger) *LogSMSSender {
	return &LogSMSSender{logger: logger}
}

func (s *LogSMSSender) SendAlertSMS(ctx context.Context, toNumber string, msg AlertMessage) error {
	s.logger.Notify().Info("SMS gateway not configured, logging alert SMS instead",
		"to", toNumber, "alertId", msg.AlertID, "location", LocationLine(msg.Location))
	return nil
}

// LogEmailSender is the development fallback when no Resend API key is
// configured.
type LogEmailSender struct {
	logger *logging.ChanneledLogger
}

// NewLogEmailSender creates the log-only email sender.
func NewLogEmailSender(logger *logging.ChanneledLogger) *LogEmailSender {
	return &LogEmailSender{logger: logger}
}

func (s *LogEmailSender) SendAlertEmail(ctx context.Context, toEmail, contactName string, msg AlertMessage) error {
	s.logger.Notify().Info("Email sender not configured, logging alert email instead",
		"to", toEmail, "alertId", msg.AlertID, "location", LocationLine(msg.Location))
	return nil
}
