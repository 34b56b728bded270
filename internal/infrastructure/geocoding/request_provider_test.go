package geocoding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/location"
)

type staticResolver struct {
	place location.Place
}

func (r staticResolver) ResolvePlace(ctx context.Context, lat, lng float64) location.Place {
	return r.place
}

func floatPtr(f float64) *float64 { return &f }

func TestRequestProviderReturnsClientCoordinates(t *testing.T) {
	provider := NewRequestProvider(ClientReport{
		Latitude:  floatPtr(34.05),
		Longitude: floatPtr(-118.24),
	}, staticResolver{})

	coords, err := provider.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 34.05, coords.Latitude)
	assert.Equal(t, -118.24, coords.Longitude)
}

func TestRequestProviderMapsErrorCodes(t *testing.T) {
	cases := map[string]failure.Kind{
		ErrCodePermissionDenied:    failure.PermissionDenied,
		ErrCodePositionUnavailable: failure.PositionUnavailable,
		ErrCodeTimeout:             failure.Timeout,
		ErrCodeUnsupported:         failure.Unsupported,
		"":                         failure.PositionUnavailable,
		"something_else":           failure.PositionUnavailable,
	}

	for code, kind := range cases {
		provider := NewRequestProvider(ClientReport{ErrorCode: code}, staticResolver{})
		_, err := provider.Acquire(context.Background())
		assert.True(t, failure.Is(err, kind), "code %q should map to %s", code, kind)
	}
}

func TestRequestProviderDelegatesPlaceResolution(t *testing.T) {
	provider := NewRequestProvider(ClientReport{}, staticResolver{place: location.Place{City: "Austin", State: "TX"}})
	place := provider.ResolvePlace(context.Background(), 30.26, -97.74)
	assert.Equal(t, "Austin", place.City)
	assert.Equal(t, "TX", place.State)
}

func TestStateForCoordinates(t *testing.T) {
	assert.Equal(t, "CA", StateForCoordinates(34.05, -118.24))
	assert.Equal(t, "TX", StateForCoordinates(30.26, -97.74))
	assert.Equal(t, "NY", StateForCoordinates(40.71, -74.00))
	assert.Equal(t, "DC", StateForCoordinates(38.90, -77.03))
	assert.Equal(t, "FL", StateForCoordinates(25.76, -80.19))
	assert.Empty(t, StateForCoordinates(0, 0))
}

func TestStateCodePrefersISOSubdivision(t *testing.T) {
	assert.Equal(t, "CA", stateCode("US-CA", "California"))
	assert.Equal(t, "California", stateCode("", "California"))
	assert.Equal(t, "California", stateCode("CA-ON", "California"))
}
