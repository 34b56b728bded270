// Package encounter defines the encounter aggregate: a recorded interaction
// with law enforcement, its location snapshot, and the trusted contacts an
// alert fans out to.
package encounter

import "time"

// Status tracks the encounter lifecycle. An ended encounter never becomes
// active again.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Location is the snapshot captured when the encounter starts. City and
// State are enrichment only; coordinates are the hard requirement.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
}

// Encounter represents one recorded interaction.
type Encounter struct {
	ID           string    `json:"encounterId"`
	UserID       string    `json:"userId"`
	Timestamp    time.Time `json:"timestamp"`
	Location     Location  `json:"location"`
	RecordingURL string    `json:"recordingUrl,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	AlertSent    bool      `json:"alertSent"`
	Duration     *int      `json:"duration,omitempty"`
	Status       Status    `json:"status"`
}

// Patch holds optional field updates for an encounter. Nil fields are left
// untouched.
type Patch struct {
	RecordingURL *string `json:"recordingUrl,omitempty"`
	Summary      *string `json:"summary,omitempty"`
	AlertSent    *bool   `json:"alertSent,omitempty"`
	Duration     *int    `json:"duration,omitempty"`
	Status       *Status `json:"status,omitempty"`
}

// Apply merges the patch into a copy of e and returns it.
func (p Patch) Apply(e Encounter) Encounter {
	if p.RecordingURL != nil {
		e.RecordingURL = *p.RecordingURL
	}
	if p.Summary != nil {
		e.Summary = *p.Summary
	}
	if p.AlertSent != nil {
		e.AlertSent = *p.AlertSent
	}
	if p.Duration != nil {
		e.Duration = p.Duration
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	return e
}

// Repository defines the persistence operations for Encounter entities.
// FindByUser returns encounters ordered newest-first by timestamp.
type Repository interface {
	FindByID(id string) (*Encounter, error)
	FindByUser(userID string) ([]Encounter, error)
	Create(e *Encounter) error
	Update(id string, patch Patch) error
}
