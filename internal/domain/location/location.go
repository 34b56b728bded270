// Package location defines the location provider contract consumed by the
// encounter and alert workflows.
package location

import "context"

// Coordinates is a raw device position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is the human-readable resolution of a coordinate pair. Either
// field may be empty; place resolution is enrichment, never a hard
// requirement.
type Place struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

// Provider acquires a device position and resolves it to a place.
//
// Acquire fails with one of the failure kinds permission_denied,
// position_unavailable, timeout, or unsupported. Callers must treat
// acquisition failure as recoverable.
//
// ResolvePlace returns an empty Place on collaborator failure rather
// than an error.
type Provider interface {
	Acquire(ctx context.Context) (Coordinates, error)
	ResolvePlace(ctx context.Context, lat, lng float64) Place
}
