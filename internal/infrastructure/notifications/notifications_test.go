package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
)

func TestLocationLinePrefersCityAndState(t *testing.T) {
	assert.Equal(t, "Los Angeles, CA", LocationLine(encounter.Location{City: "Los Angeles", State: "CA"}))
	assert.Equal(t, "Los Angeles", LocationLine(encounter.Location{City: "Los Angeles"}))
	assert.Equal(t, "CA", LocationLine(encounter.Location{State: "CA"}))
}

func TestLocationLineFallsBackToFourDecimalCoordinates(t *testing.T) {
	line := LocationLine(encounter.Location{Latitude: 34.05, Longitude: -118.24})
	assert.Equal(t, "34.0500, -118.2400", line)
}

func TestBodyDefaultIncludesLocationAndTime(t *testing.T) {
	msg := AlertMessage{
		UserName:  "0x1234...abcd",
		Location:  encounter.Location{City: "Austin", State: "TX"},
		Timestamp: "January 2, 2006 at 3:04 PM MST",
	}
	body := msg.Body()
	assert.Contains(t, body, "EMERGENCY ALERT")
	assert.Contains(t, body, "Austin, TX")
	assert.Contains(t, body, "January 2, 2006 at 3:04 PM MST")
}

func TestBodyCustomMessageOverridesDefault(t *testing.T) {
	msg := AlertMessage{
		UserName: "0x1234...abcd",
		Location: encounter.Location{City: "Austin", State: "TX"},
		Custom:   "Help, corner of 5th and Main",
	}
	assert.Equal(t, "Help, corner of 5th and Main", msg.Body())
}
