package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/pkg/config"
)

// GatewaySMSSender is the concrete SMSSender posting to an HTTP SMS
// gateway (Twilio-compatible JSON relay).
type GatewaySMSSender struct {
	baseURL string
	token   string
	from    string
	client  *http.Client
}

// NewGatewaySMSSender creates the alert SMS sender. The gateway URL is
// required.
func NewGatewaySMSSender() (*GatewaySMSSender, error) {
	if config.SMSGatewayURL == "" {
		return nil, fmt.Errorf("SMS_GATEWAY_URL environment variable is required")
	}

	return &GatewaySMSSender{
		baseURL: config.SMSGatewayURL,
		token:   config.SMSGatewayToken,
		from:    config.SMSSenderNumber,
		client:  &http.Client{Timeout: config.NotifySendTimeout},
	}, nil
}

type smsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// SendAlertSMS posts the emergency alert text message.
func (s *GatewaySMSSender) SendAlertSMS(ctx context.Context, toNumber string, msg AlertMessage) error {
	payload, err := json.Marshal(smsRequest{From: s.from, To: toNumber, Body: msg.Body()})
	if err != nil {
		return failure.Wrap(failure.ChannelSendFailed, "notify.sms", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return failure.Wrap(failure.ChannelSendFailed, "notify.sms", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return failure.Wrap(failure.ChannelSendFailed, "notify.sms", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure.Wrap(failure.ChannelSendFailed, "notify.sms",
			fmt.Errorf("sms gateway returned status %d", resp.StatusCode))
	}
	return nil
}
