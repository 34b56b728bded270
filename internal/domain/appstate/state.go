// Package appstate is the single source of truth for UI-visible application
// state. State is mutated only through the enumerated Action transitions
// applied by a pure reducer, so every change is traceable and replayable.
package appstate

import (
	"time"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/user"
)

// RecordingState is transient recording status. It is replaced wholesale by
// SetRecordingState - callers supply the full next state so no field can go
// stale through a partial patch.
type RecordingState struct {
	IsRecording  bool       `json:"isRecording"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	Duration     int        `json:"duration"`
	RecordingURL string     `json:"recordingUrl,omitempty"`
}

// AppState is the full application state for one user session.
type AppState struct {
	User                 *user.User               `json:"user"`
	CurrentEncounter     *encounter.Encounter     `json:"currentEncounter"`
	Recording            RecordingState           `json:"recordingState"`
	AlertContacts        []encounter.AlertContact `json:"alertContacts"`
	Encounters           []encounter.Encounter    `json:"encounters"`
	SelectedJurisdiction string                   `json:"selectedJurisdiction"`
	LocationEnabled      bool                     `json:"isLocationEnabled"`
	Loading              bool                     `json:"isLoading"`
	Error                string                   `json:"error,omitempty"`
}

// InitialState returns the state a fresh session starts from.
func InitialState() AppState {
	return AppState{
		SelectedJurisdiction: "CA",
		AlertContacts:        []encounter.AlertContact{},
		Encounters:           []encounter.Encounter{},
	}
}

// clone returns a copy of s whose slices are safe to hand to readers while
// the originals keep mutating through the reducer.
func (s AppState) clone() AppState {
	out := s
	out.AlertContacts = append([]encounter.AlertContact(nil), s.AlertContacts...)
	out.Encounters = append([]encounter.Encounter(nil), s.Encounters...)
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.CurrentEncounter != nil {
		e := *s.CurrentEncounter
		out.CurrentEncounter = &e
	}
	return out
}
