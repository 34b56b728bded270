package appstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/user"
)

func sampleEncounter(id string) encounter.Encounter {
	return encounter.Encounter{
		ID:        id,
		UserID:    "user-1",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Location:  encounter.Location{Latitude: 34.05, Longitude: -118.24, City: "Los Angeles", State: "CA"},
		Status:    encounter.StatusActive,
	}
}

func sampleContact(id, name string) encounter.AlertContact {
	return encounter.AlertContact{ID: id, UserID: "user-1", Name: name, Phone: "+15551234567"}
}

func TestReduceIsDeterministic(t *testing.T) {
	enc := sampleEncounter("enc-1")
	actions := []Action{
		SetUser{User: &user.User{UserID: "user-1"}},
		AddAlertContact{Contact: sampleContact("c-1", "Ana")},
		AddAlertContact{Contact: sampleContact("c-2", "Ben")},
		SetCurrentEncounter{Encounter: &enc},
		AddEncounter{Encounter: enc},
		SetLoading{Loading: true},
		SetLoading{Loading: false},
	}

	replay := func() AppState {
		state := InitialState()
		for _, a := range actions {
			state = Reduce(state, a)
		}
		return state
	}

	first := replay()
	second := replay()
	assert.Equal(t, first, second)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	state := InitialState()
	state = Reduce(state, AddAlertContact{Contact: sampleContact("c-1", "Ana")})

	before := state.AlertContacts[0].Name
	_ = Reduce(state, UpdateAlertContact{ID: "c-1", Patch: encounter.ContactPatch{Name: strPtr("Changed")}})

	assert.Equal(t, before, state.AlertContacts[0].Name)
}

func TestUpdateEncounterUpdatesBothViews(t *testing.T) {
	enc := sampleEncounter("enc-1")
	state := InitialState()
	state = Reduce(state, SetCurrentEncounter{Encounter: &enc})
	state = Reduce(state, AddEncounter{Encounter: enc})

	summary := "resolved without incident"
	state = Reduce(state, UpdateEncounter{ID: "enc-1", Patch: encounter.Patch{Summary: &summary}})

	require.NotNil(t, state.CurrentEncounter)
	assert.Equal(t, summary, state.CurrentEncounter.Summary)
	require.Len(t, state.Encounters, 1)
	assert.Equal(t, summary, state.Encounters[0].Summary)
}

func TestUpdateEncounterLeavesUnrelatedCurrentPointer(t *testing.T) {
	current := sampleEncounter("enc-active")
	old := sampleEncounter("enc-old")
	state := InitialState()
	state = Reduce(state, SetCurrentEncounter{Encounter: &current})
	state = Reduce(state, AddEncounter{Encounter: old})
	state = Reduce(state, AddEncounter{Encounter: current})

	sent := true
	state = Reduce(state, UpdateEncounter{ID: "enc-old", Patch: encounter.Patch{AlertSent: &sent}})

	require.NotNil(t, state.CurrentEncounter)
	assert.False(t, state.CurrentEncounter.AlertSent)
	assert.True(t, state.Encounters[1].AlertSent)
	assert.False(t, state.Encounters[0].AlertSent)
}

func TestAddEncounterPrepends(t *testing.T) {
	state := InitialState()
	state = Reduce(state, AddEncounter{Encounter: sampleEncounter("older")})
	state = Reduce(state, AddEncounter{Encounter: sampleEncounter("newer")})

	require.Len(t, state.Encounters, 2)
	assert.Equal(t, "newer", state.Encounters[0].ID)
	assert.Equal(t, "older", state.Encounters[1].ID)
}

func TestContactLifecyclePreservesOrder(t *testing.T) {
	state := InitialState()
	state = Reduce(state, AddAlertContact{Contact: sampleContact("c-1", "Ana")})
	state = Reduce(state, AddAlertContact{Contact: sampleContact("c-2", "Ben")})
	state = Reduce(state, AddAlertContact{Contact: sampleContact("c-3", "Cam")})

	state = Reduce(state, RemoveAlertContact{ID: "c-2"})
	require.Len(t, state.AlertContacts, 2)
	assert.Equal(t, "c-1", state.AlertContacts[0].ID)
	assert.Equal(t, "c-3", state.AlertContacts[1].ID)

	state = Reduce(state, UpdateAlertContact{ID: "c-3", Patch: encounter.ContactPatch{Name: strPtr("Camila")}})
	assert.Equal(t, "Camila", state.AlertContacts[1].Name)
}

func TestUpdateAlertContactUnknownIDIsNoop(t *testing.T) {
	state := InitialState()
	state = Reduce(state, AddAlertContact{Contact: sampleContact("c-1", "Ana")})

	next := Reduce(state, UpdateAlertContact{ID: "missing", Patch: encounter.ContactPatch{Name: strPtr("X")}})
	assert.Equal(t, state.AlertContacts, next.AlertContacts)
}

func TestSetEncountersReplacesHistory(t *testing.T) {
	state := InitialState()
	state = Reduce(state, AddEncounter{Encounter: sampleEncounter("stale")})

	loaded := []encounter.Encounter{sampleEncounter("enc-2"), sampleEncounter("enc-1")}
	state = Reduce(state, SetEncounters{Encounters: loaded})

	require.Len(t, state.Encounters, 2)
	assert.Equal(t, "enc-2", state.Encounters[0].ID)

	// The reducer copies the input slice.
	loaded[0].ID = "mutated"
	assert.Equal(t, "enc-2", state.Encounters[0].ID)
}

func TestSetErrorEmptyClears(t *testing.T) {
	state := InitialState()
	state = Reduce(state, SetError{Message: "something failed"})
	assert.Equal(t, "something failed", state.Error)

	state = Reduce(state, SetError{Message: ""})
	assert.Empty(t, state.Error)
}

func strPtr(s string) *string { return &s }
