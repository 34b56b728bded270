package appstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDispatchAppliesInOrder(t *testing.T) {
	store := NewStore()
	store.Dispatch(AddEncounter{Encounter: sampleEncounter("first")})
	store.Dispatch(AddEncounter{Encounter: sampleEncounter("second")})

	state := store.State()
	require.Len(t, state.Encounters, 2)
	assert.Equal(t, "second", state.Encounters[0].ID)
}

func TestStoreConcurrentDispatchLosesNothing(t *testing.T) {
	store := NewStore()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(AddAlertContact{Contact: sampleContact("c", "x")})
		}()
	}
	wg.Wait()

	assert.Len(t, store.State().AlertContacts, n)
}

func TestStoreSnapshotIsIsolated(t *testing.T) {
	store := NewStore()
	store.Dispatch(AddAlertContact{Contact: sampleContact("c-1", "Ana")})

	snapshot := store.State()
	snapshot.AlertContacts[0].Name = "Mutated"

	assert.Equal(t, "Ana", store.State().AlertContacts[0].Name)
}

func TestStoreListenersSeeEveryTransition(t *testing.T) {
	store := NewStore()

	var seen []int
	store.Subscribe(func(s AppState) {
		seen = append(seen, len(s.Encounters))
	})

	store.Dispatch(AddEncounter{Encounter: sampleEncounter("e-1")})
	store.Dispatch(AddEncounter{Encounter: sampleEncounter("e-2")})

	assert.Equal(t, []int{1, 2}, seen)
}

func TestWithEncounterSerializesSameID(t *testing.T) {
	store := NewStore()

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.WithEncounter("enc-1", func() {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
			})
		}(i)
	}
	wg.Wait()

	assert.Len(t, order, 10)
}

func TestHubIsolatesUsers(t *testing.T) {
	hub := NewHub()
	hub.Get("alice").Dispatch(AddEncounter{Encounter: sampleEncounter("e-1")})

	assert.Len(t, hub.Get("alice").State().Encounters, 1)
	assert.Empty(t, hub.Get("bob").State().Encounters)

	hub.Drop("alice")
	assert.Empty(t, hub.Get("alice").State().Encounters)
}

func TestHubForEachVisitsLiveStores(t *testing.T) {
	hub := NewHub()
	enc := sampleEncounter("e-1")
	hub.Get("alice").Dispatch(SetCurrentEncounter{Encounter: &enc})
	hub.Get("bob")

	active := 0
	hub.ForEach(func(userID string, s *Store) {
		if s.State().CurrentEncounter != nil {
			active++
		}
	})
	assert.Equal(t, 1, active)
}
