package encounter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", FormatDuration(0))
	assert.Equal(t, "00:05", FormatDuration(5))
	assert.Equal(t, "01:00", FormatDuration(60))
	assert.Equal(t, "02:05", FormatDuration(125))
	assert.Equal(t, "61:01", FormatDuration(3661))
}

func TestFormatDurationClampsNegative(t *testing.T) {
	assert.Equal(t, "00:00", FormatDuration(-17))
}
