// Package alerting defines the per-contact dispatch outcome types produced
// by an emergency alert fan-out. These are transient values: computed per
// dispatch, logged, never persisted as their own entity.
package alerting

// ChannelOutcome records the result of a single channel attempt for one
// contact.
type ChannelOutcome string

const (
	OutcomeNotAttempted ChannelOutcome = "not_attempted"
	OutcomeSent         ChannelOutcome = "sent"
	OutcomeFailed       ChannelOutcome = "failed"
)

// ContactResult captures both channel outcomes for one contact. A contact
// with both channels can have one succeed and one fail.
type ContactResult struct {
	ContactID string         `json:"contactId"`
	Name      string         `json:"name"`
	SMS       ChannelOutcome `json:"sms"`
	Email     ChannelOutcome `json:"email"`
	Error     string         `json:"error,omitempty"`
}

// Summary aggregates channel outcomes across the whole dispatch.
type Summary struct {
	ContactsNotified int `json:"contactsNotified"`
	TotalAttempts    int `json:"totalAttempts"`
	SuccessfulSends  int `json:"successfulSends"`
	FailedSends      int `json:"failedSends"`
}

// DispatchResult is returned by every attempted dispatch. Success reports
// whether the dispatch attempt was made, not whether every message was
// delivered; callers inspect Summary.FailedSends for partial failure.
type DispatchResult struct {
	Success     bool            `json:"success"`
	AlertID     string          `json:"alertId"`
	EncounterID string          `json:"encounterId,omitempty"`
	Summary     Summary         `json:"summary"`
	Results     []ContactResult `json:"results"`
}

// Aggregate folds per-contact results into a summary.
func Aggregate(results []ContactResult) Summary {
	s := Summary{ContactsNotified: len(results)}
	for _, r := range results {
		for _, outcome := range []ChannelOutcome{r.SMS, r.Email} {
			switch outcome {
			case OutcomeSent:
				s.TotalAttempts++
				s.SuccessfulSends++
			case OutcomeFailed:
				s.TotalAttempts++
			}
		}
	}
	s.FailedSends = s.TotalAttempts - s.SuccessfulSends
	return s
}
