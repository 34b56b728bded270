// Package notifications provides the SMS and email channels behind
// emergency alert dispatch.
package notifications

import (
	"context"
	"fmt"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
)

// AlertMessage is the channel-independent content of an emergency alert.
// Custom, when set, replaces the generated alert text.
type AlertMessage struct {
	AlertID   string
	UserName  string
	Location  encounter.Location
	Timestamp string
	Custom    string
}

// Body returns the alert text: the caller-supplied message when present,
// otherwise the generated default with location and timestamp.
func (m AlertMessage) Body() string {
	if m.Custom != "" {
		return m.Custom
	}
	return fmt.Sprintf(
		"EMERGENCY ALERT: %s has triggered an alert during a police encounter. Location: %s. Time: %s. Sent by KnowYourRightsCard.",
		m.UserName, LocationLine(m.Location), m.Timestamp,
	)
}

// SMSSender delivers an alert over SMS. Implementations return a
// channel_send_failed failure on delivery errors.
type SMSSender interface {
	SendAlertSMS(ctx context.Context, toNumber string, msg AlertMessage) error
}

// EmailSender delivers an alert over email.
type EmailSender interface {
	SendAlertEmail(ctx context.Context, toEmail, contactName string, msg AlertMessage) error
}

// LocationLine renders the alert's location for message bodies. Empty
// city and state degrade to raw coordinates.
func LocationLine(loc encounter.Location) string {
	switch {
	case loc.City != "" && loc.State != "":
		return loc.City + ", " + loc.State
	case loc.City != "":
		return loc.City
	case loc.State != "":
		return loc.State
	default:
		return fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude)
	}
}
