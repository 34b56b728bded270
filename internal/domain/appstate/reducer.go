package appstate

import "github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"

// Reduce applies one transition and returns the next state. It is a pure
// function of (previous state, action): no I/O, no mutation of its inputs.
// Replaying the same action sequence from the same initial state always
// yields an identical result.
func Reduce(state AppState, action Action) AppState {
	switch a := action.(type) {
	case SetUser:
		state.User = a.User

	case SetCurrentEncounter:
		state.CurrentEncounter = a.Encounter

	case SetRecordingState:
		state.Recording = a.State

	case SetAlertContacts:
		state.AlertContacts = append([]encounter.AlertContact(nil), a.Contacts...)

	case AddAlertContact:
		contacts := make([]encounter.AlertContact, 0, len(state.AlertContacts)+1)
		contacts = append(contacts, state.AlertContacts...)
		contacts = append(contacts, a.Contact)
		state.AlertContacts = contacts

	case UpdateAlertContact:
		contacts := append([]encounter.AlertContact(nil), state.AlertContacts...)
		for i := range contacts {
			if contacts[i].ID == a.ID {
				contacts[i] = a.Patch.Apply(contacts[i])
			}
		}
		state.AlertContacts = contacts

	case RemoveAlertContact:
		contacts := make([]encounter.AlertContact, 0, len(state.AlertContacts))
		for _, c := range state.AlertContacts {
			if c.ID != a.ID {
				contacts = append(contacts, c)
			}
		}
		state.AlertContacts = contacts

	case SetSelectedJurisdiction:
		state.SelectedJurisdiction = a.Code

	case SetLocationEnabled:
		state.LocationEnabled = a.Enabled

	case SetEncounters:
		state.Encounters = append([]encounter.Encounter(nil), a.Encounters...)

	case AddEncounter:
		encounters := make([]encounter.Encounter, 0, len(state.Encounters)+1)
		encounters = append(encounters, a.Encounter)
		encounters = append(encounters, state.Encounters...)
		state.Encounters = encounters

	case UpdateEncounter:
		encounters := append([]encounter.Encounter(nil), state.Encounters...)
		for i := range encounters {
			if encounters[i].ID == a.ID {
				encounters[i] = a.Patch.Apply(encounters[i])
			}
		}
		state.Encounters = encounters
		if state.CurrentEncounter != nil && state.CurrentEncounter.ID == a.ID {
			updated := a.Patch.Apply(*state.CurrentEncounter)
			state.CurrentEncounter = &updated
		}

	case SetLoading:
		state.Loading = a.Loading

	case SetError:
		state.Error = a.Message
	}

	return state
}
