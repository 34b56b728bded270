package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/appstate"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/location"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/performance"
)

type stubSummarizer struct {
	text  string
	calls int
}

func (s *stubSummarizer) SummarizeEncounter(ctx context.Context, enc encounter.Encounter, transcript string) string {
	s.calls++
	return s.text
}

type encounterFixture struct {
	service     *EncounterService
	hub         *appstate.Hub
	repo        *fakeEncounterRepo
	summarizer  *stubSummarizer
	broadcaster *fakeBroadcaster
}

func newEncounterFixture(t *testing.T) *encounterFixture {
	t.Helper()
	repo := newFakeEncounterRepo()
	hub := appstate.NewHub()
	summarizer := &stubSummarizer{text: "Encounter recorded."}
	broadcaster := &fakeBroadcaster{}
	logger := newTestLogger(t)
	return &encounterFixture{
		service:     NewEncounterService(repo, hub, summarizer, broadcaster, logger, performance.NewTracker()),
		hub:         hub,
		repo:        repo,
		summarizer:  summarizer,
		broadcaster: broadcaster,
	}
}

func workingProvider() *stubProvider {
	return &stubProvider{
		coords: location.Coordinates{Latitude: 34.05, Longitude: -118.24},
		place:  location.Place{City: "Los Angeles", State: "CA"},
	}
}

func TestStartEncounterCommitsStateAndPersists(t *testing.T) {
	f := newEncounterFixture(t)

	enc, err := f.service.StartEncounter(context.Background(), "user-1", workingProvider())
	require.NoError(t, err)
	require.NotNil(t, enc)

	assert.NotEmpty(t, enc.ID)
	assert.Equal(t, "user-1", enc.UserID)
	assert.Equal(t, encounter.StatusActive, enc.Status)
	assert.Equal(t, "Los Angeles", enc.Location.City)
	assert.Equal(t, "CA", enc.Location.State)

	persisted, err := f.repo.FindByID(enc.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted)

	state := f.hub.Get("user-1").State()
	require.NotNil(t, state.CurrentEncounter)
	assert.Equal(t, enc.ID, state.CurrentEncounter.ID)
	require.Len(t, state.Encounters, 1)
	assert.Equal(t, enc.ID, state.Encounters[0].ID)

	require.Len(t, f.broadcaster.events, 1)
	assert.Equal(t, "encounter_started", f.broadcaster.events[0].Event)
}

func TestStartEncounterRejectsSecondActive(t *testing.T) {
	f := newEncounterFixture(t)

	_, err := f.service.StartEncounter(context.Background(), "user-1", workingProvider())
	require.NoError(t, err)

	provider := workingProvider()
	enc, err := f.service.StartEncounter(context.Background(), "user-1", provider)

	assert.Nil(t, enc)
	assert.True(t, failure.Is(err, failure.EncounterAlreadyActive))
	assert.Zero(t, provider.acquired, "rejected start should not acquire a position")
}

func TestStartEncounterStorageFailureLeavesStateUntouched(t *testing.T) {
	f := newEncounterFixture(t)
	f.repo.createErr = fmt.Errorf("disk full")

	enc, err := f.service.StartEncounter(context.Background(), "user-1", workingProvider())

	assert.Nil(t, enc)
	require.Error(t, err)

	state := f.hub.Get("user-1").State()
	assert.Nil(t, state.CurrentEncounter)
	assert.Empty(t, state.Encounters)
	assert.Empty(t, f.broadcaster.events)
}

func TestStartEncounterFailsWithLocationRequired(t *testing.T) {
	f := newEncounterFixture(t)
	provider := &stubProvider{acquireErr: failure.New(failure.PermissionDenied, "location.acquire")}

	enc, err := f.service.StartEncounter(context.Background(), "user-1", provider)

	assert.Nil(t, enc)
	assert.True(t, failure.Is(err, failure.LocationRequired))
	assert.ErrorContains(t, err, "permission_denied")
	assert.Nil(t, f.hub.Get("user-1").State().CurrentEncounter)
}

func TestStartEncounterAppearsInHistoryBeforeCurrent(t *testing.T) {
	f := newEncounterFixture(t)
	store := f.hub.Get("user-1")

	store.Subscribe(func(s appstate.AppState) {
		if s.CurrentEncounter == nil {
			return
		}
		for _, e := range s.Encounters {
			if e.ID == s.CurrentEncounter.ID {
				return
			}
		}
		t.Errorf("observed current encounter %s missing from history", s.CurrentEncounter.ID)
	})

	_, err := f.service.StartEncounter(context.Background(), "user-1", workingProvider())
	require.NoError(t, err)
}

func TestEndEncounterCompletesAndClearsCurrent(t *testing.T) {
	f := newEncounterFixture(t)

	started, err := f.service.StartEncounter(context.Background(), "user-1", workingProvider())
	require.NoError(t, err)

	closed, err := f.service.EndEncounter(context.Background(), "user-1", started.ID)
	require.NoError(t, err)
	require.NotNil(t, closed)

	assert.Equal(t, encounter.StatusCompleted, closed.Status)
	require.NotNil(t, closed.Duration)
	assert.Equal(t, 0, *closed.Duration, "no recording means no recorded duration")
	assert.Equal(t, "Encounter recorded.", closed.Summary)
	assert.Equal(t, 1, f.summarizer.calls)

	state := f.hub.Get("user-1").State()
	assert.Nil(t, state.CurrentEncounter)
	assert.False(t, state.Recording.IsRecording)
	require.Len(t, state.Encounters, 1)
	assert.Equal(t, encounter.StatusCompleted, state.Encounters[0].Status)

	persisted, err := f.repo.FindByID(started.ID)
	require.NoError(t, err)
	assert.Equal(t, encounter.StatusCompleted, persisted.Status)
}

func TestEndEncounterUsesRecordedDuration(t *testing.T) {
	f := newEncounterFixture(t)

	started, err := f.service.StartEncounter(context.Background(), "user-1", workingProvider())
	require.NoError(t, err)

	f.hub.Get("user-1").Dispatch(appstate.SetRecordingState{State: appstate.RecordingState{Duration: 125}})

	closed, err := f.service.EndEncounter(context.Background(), "user-1", started.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.Duration)
	assert.Equal(t, 125, *closed.Duration)
	assert.Equal(t, "02:05", encounter.FormatDuration(*closed.Duration))
}

func TestEndEncounterUnknownIDIsNoop(t *testing.T) {
	f := newEncounterFixture(t)

	_, err := f.service.StartEncounter(context.Background(), "user-1", workingProvider())
	require.NoError(t, err)

	closed, err := f.service.EndEncounter(context.Background(), "user-1", "someone-elses-id")
	assert.Nil(t, closed)
	assert.NoError(t, err)

	assert.NotNil(t, f.hub.Get("user-1").State().CurrentEncounter)
}

func TestCancelEncounterSkipsSummary(t *testing.T) {
	f := newEncounterFixture(t)

	started, err := f.service.StartEncounter(context.Background(), "user-1", workingProvider())
	require.NoError(t, err)

	closed, err := f.service.CancelEncounter(context.Background(), "user-1", started.ID)
	require.NoError(t, err)
	require.NotNil(t, closed)

	assert.Equal(t, encounter.StatusCancelled, closed.Status)
	assert.Empty(t, closed.Summary)
	assert.Zero(t, f.summarizer.calls)
}

func TestCloseEncounterStorageFailureKeepsCurrent(t *testing.T) {
	f := newEncounterFixture(t)

	started, err := f.service.StartEncounter(context.Background(), "user-1", workingProvider())
	require.NoError(t, err)

	f.repo.updateErr = fmt.Errorf("disk full")
	closed, err := f.service.EndEncounter(context.Background(), "user-1", started.ID)

	assert.Nil(t, closed)
	require.Error(t, err)

	state := f.hub.Get("user-1").State()
	require.NotNil(t, state.CurrentEncounter)
	assert.Equal(t, encounter.StatusActive, state.CurrentEncounter.Status)
}

func TestRecordingLifecycle(t *testing.T) {
	f := newEncounterFixture(t)

	err := f.service.StartRecording("user-1")
	require.Error(t, err, "recording requires an active encounter")

	started, err := f.service.StartEncounter(context.Background(), "user-1", workingProvider())
	require.NoError(t, err)

	require.NoError(t, f.service.StartRecording("user-1"))
	state := f.hub.Get("user-1").State()
	assert.True(t, state.Recording.IsRecording)
	require.NotNil(t, state.Recording.StartTime)

	require.NoError(t, f.service.StopRecording("user-1", "https://media.example.com/rec-1.webm"))
	state = f.hub.Get("user-1").State()
	assert.False(t, state.Recording.IsRecording)
	assert.Equal(t, "https://media.example.com/rec-1.webm", state.Recording.RecordingURL)
	require.NotNil(t, state.CurrentEncounter)
	assert.Equal(t, "https://media.example.com/rec-1.webm", state.CurrentEncounter.RecordingURL)

	persisted, err := f.repo.FindByID(started.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/rec-1.webm", persisted.RecordingURL)
}

func TestStopRecordingWithoutActiveRecordingIsNoop(t *testing.T) {
	f := newEncounterFixture(t)
	require.NoError(t, f.service.StopRecording("user-1", "https://media.example.com/rec-1.webm"))
	assert.Empty(t, f.hub.Get("user-1").State().Recording.RecordingURL)
}

func TestLoadHistoryReplacesStateList(t *testing.T) {
	f := newEncounterFixture(t)
	require.NoError(t, f.repo.Create(&encounter.Encounter{
		ID:        "enc-1",
		UserID:    "user-1",
		Timestamp: time.Now().UTC().Add(-time.Hour),
		Status:    encounter.StatusCompleted,
	}))
	require.NoError(t, f.repo.Create(&encounter.Encounter{
		ID:        "enc-other",
		UserID:    "user-2",
		Timestamp: time.Now().UTC(),
		Status:    encounter.StatusCompleted,
	}))

	encounters, err := f.service.LoadHistory("user-1")
	require.NoError(t, err)
	require.Len(t, encounters, 1)
	assert.Equal(t, "enc-1", encounters[0].ID)

	state := f.hub.Get("user-1").State()
	require.Len(t, state.Encounters, 1)
	assert.Equal(t, "enc-1", state.Encounters[0].ID)
}

func TestGetEncounterIsOwnerScoped(t *testing.T) {
	f := newEncounterFixture(t)
	require.NoError(t, f.repo.Create(&encounter.Encounter{
		ID:        "enc-1",
		UserID:    "user-1",
		Timestamp: time.Now().UTC(),
		Status:    encounter.StatusCompleted,
	}))

	enc, err := f.service.GetEncounter("user-1", "enc-1")
	require.NoError(t, err)
	require.NotNil(t, enc)

	enc, err = f.service.GetEncounter("user-2", "enc-1")
	require.NoError(t, err)
	assert.Nil(t, enc)
}
