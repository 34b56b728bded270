package appstate

import (
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/user"
)

// Action is the closed set of state transitions. Every mutation of AppState
// goes through exactly one of these.
type Action interface {
	isAction()
}

// SetUser replaces the current user.
type SetUser struct {
	User *user.User
}

// SetCurrentEncounter replaces the in-progress encounter pointer.
type SetCurrentEncounter struct {
	Encounter *encounter.Encounter
}

// SetRecordingState replaces recording status wholesale, never merged.
type SetRecordingState struct {
	State RecordingState
}

// SetAlertContacts replaces the full contact list. Used on initial load.
type SetAlertContacts struct {
	Contacts []encounter.AlertContact
}

// AddAlertContact appends a contact to the list.
type AddAlertContact struct {
	Contact encounter.AlertContact
}

// UpdateAlertContact merges a patch into the matching contact. Unknown ids
// are a no-op, not an error.
type UpdateAlertContact struct {
	ID    string
	Patch encounter.ContactPatch
}

// RemoveAlertContact deletes a contact by id, preserving the order of the
// remaining members.
type RemoveAlertContact struct {
	ID string
}

// SetSelectedJurisdiction replaces the selected jurisdiction code.
type SetSelectedJurisdiction struct {
	Code string
}

// SetLocationEnabled replaces the location permission flag.
type SetLocationEnabled struct {
	Enabled bool
}

// SetEncounters replaces the full encounter history. Used on initial load;
// the caller supplies the list already ordered most-recent-first.
type SetEncounters struct {
	Encounters []encounter.Encounter
}

// AddEncounter prepends to the encounter history. Most-recent-first
// ordering is an invariant.
type AddEncounter struct {
	Encounter encounter.Encounter
}

// UpdateEncounter merges a patch into the matching history entry and, when
// the id matches the current encounter, into the current pointer too. Both
// views stay consistent.
type UpdateEncounter struct {
	ID    string
	Patch encounter.Patch
}

// SetLoading replaces the loading flag.
type SetLoading struct {
	Loading bool
}

// SetError replaces the error message. Empty clears it.
type SetError struct {
	Message string
}

func (SetUser) isAction()                 {}
func (SetCurrentEncounter) isAction()     {}
func (SetRecordingState) isAction()       {}
func (SetAlertContacts) isAction()        {}
func (AddAlertContact) isAction()         {}
func (UpdateAlertContact) isAction()      {}
func (RemoveAlertContact) isAction()      {}
func (SetSelectedJurisdiction) isAction() {}
func (SetLocationEnabled) isAction()      {}
func (SetEncounters) isAction()           {}
func (AddEncounter) isAction()            {}
func (UpdateEncounter) isAction()         {}
func (SetLoading) isAction()              {}
func (SetError) isAction()                {}
