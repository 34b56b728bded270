package alerting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateCountsChannelsIndependently(t *testing.T) {
	results := []ContactResult{
		{ContactID: "c-1", SMS: OutcomeSent, Email: OutcomeSent},
		{ContactID: "c-2", SMS: OutcomeFailed, Email: OutcomeNotAttempted},
		{ContactID: "c-3", SMS: OutcomeNotAttempted, Email: OutcomeSent},
	}

	summary := Aggregate(results)

	assert.Equal(t, 3, summary.ContactsNotified)
	assert.Equal(t, 4, summary.TotalAttempts)
	assert.Equal(t, 3, summary.SuccessfulSends)
	assert.Equal(t, 1, summary.FailedSends)
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)
	assert.Zero(t, summary.ContactsNotified)
	assert.Zero(t, summary.TotalAttempts)
	assert.Zero(t, summary.SuccessfulSends)
	assert.Zero(t, summary.FailedSends)
}
