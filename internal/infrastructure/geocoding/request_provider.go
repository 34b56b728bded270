package geocoding

import (
	"context"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/location"
)

// ClientReport is the position payload the mobile client attaches to an
// encounter or alert request. The client either supplies coordinates or
// names the acquisition error its platform geolocation API raised.
type ClientReport struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ErrorCode string   `json:"errorCode,omitempty"`
}

// Client geolocation error codes.
const (
	ErrCodePermissionDenied    = "permission_denied"
	ErrCodePositionUnavailable = "position_unavailable"
	ErrCodeTimeout             = "timeout"
	ErrCodeUnsupported         = "unsupported"
)

// RequestProvider adapts a single request's ClientReport to the
// location.Provider contract. Each request gets its own provider; the
// place resolver is shared.
type RequestProvider struct {
	report   ClientReport
	resolver placeResolver
}

type placeResolver interface {
	ResolvePlace(ctx context.Context, lat, lng float64) location.Place
}

// NewRequestProvider wraps one request's position report.
func NewRequestProvider(report ClientReport, resolver placeResolver) *RequestProvider {
	return &RequestProvider{report: report, resolver: resolver}
}

// Acquire returns the client-reported coordinates, or maps the client's
// acquisition error code to the matching failure kind.
func (p *RequestProvider) Acquire(ctx context.Context) (location.Coordinates, error) {
	if p.report.Latitude != nil && p.report.Longitude != nil {
		return location.Coordinates{
			Latitude:  *p.report.Latitude,
			Longitude: *p.report.Longitude,
		}, nil
	}

	kind := failure.PositionUnavailable
	switch p.report.ErrorCode {
	case ErrCodePermissionDenied:
		kind = failure.PermissionDenied
	case ErrCodeTimeout:
		kind = failure.Timeout
	case ErrCodeUnsupported:
		kind = failure.Unsupported
	}
	return location.Coordinates{}, failure.New(kind, "location.acquire")
}

// ResolvePlace delegates to the shared reverse geocoder.
func (p *RequestProvider) ResolvePlace(ctx context.Context, lat, lng float64) location.Place {
	return p.resolver.ResolvePlace(ctx, lat, lng)
}
