// Package templates provides email template components
package templates

import (
	"bytes"
	"html/template"
	"log"
)

type AlertEmailProps struct {
	ContactName  string
	Headline     string
	LocationLine string
	Timestamp    string
	AlertID      string
}

var alertContentTemplate = template.Must(template.New("alertContent").Parse(`
<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">Hi {{.ContactName}},</p>
<p style="font-family: Helvetica, sans-serif; font-size: 18px; font-weight: bold; color: #b91c1c; margin: 0; margin-bottom: 16px;">{{.Headline}}</p>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 8px;"><strong>Location:</strong> {{.LocationLine}}</p>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;"><strong>Time:</strong> {{.Timestamp}}</p>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">They listed you as an emergency contact. Please try to reach them, and consider noting the time and location above.</p>
<p style="font-family: Helvetica, sans-serif; font-size: 13px; color: #9a9ea6; margin: 0;">Alert reference: {{.AlertID}}</p>`))

// GetAlertEmailContent renders the emergency alert body block.
func GetAlertEmailContent(props AlertEmailProps) string {
	if props.ContactName == "" {
		props.ContactName = "there"
	}
	if props.LocationLine == "" {
		props.LocationLine = "Unknown"
	}

	var buf bytes.Buffer
	if err := alertContentTemplate.Execute(&buf, props); err != nil {
		log.Printf("Failed to execute alert email template: %v", err)
		return ""
	}
	return buf.String()
}
