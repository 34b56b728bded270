package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/alerting"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/appstate"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/location"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/user"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/notifications"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/performance"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		DefaultLevel: slog.LevelError + 4,
	})
	require.NoError(t, err)
	return logger
}

type fakeEncounterRepo struct {
	mu        sync.Mutex
	byID      map[string]*encounter.Encounter
	updates   []string
	createErr error
	updateErr error
}

func newFakeEncounterRepo() *fakeEncounterRepo {
	return &fakeEncounterRepo{byID: make(map[string]*encounter.Encounter)}
}

func (r *fakeEncounterRepo) FindByID(id string) (*encounter.Encounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEncounterRepo) FindByUser(userID string) ([]encounter.Encounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []encounter.Encounter
	for _, e := range r.byID {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEncounterRepo) Create(e *encounter.Encounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	copied := *e
	r.byID[e.ID] = &copied
	return nil
}

func (r *fakeEncounterRepo) Update(id string, patch encounter.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, id)
	if e, ok := r.byID[id]; ok {
		updated := patch.Apply(*e)
		r.byID[id] = &updated
	}
	return nil
}

type fakeSMSSender struct {
	mu      sync.Mutex
	sent    []string
	last    notifications.AlertMessage
	failFor map[string]bool
}

func (s *fakeSMSSender) SendAlertSMS(ctx context.Context, toNumber string, msg notifications.AlertMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = msg
	if s.failFor[toNumber] {
		return fmt.Errorf("gateway rejected %s", toNumber)
	}
	s.sent = append(s.sent, toNumber)
	return nil
}

type fakeEmailSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (s *fakeEmailSender) SendAlertEmail(ctx context.Context, toEmail, contactName string, msg notifications.AlertMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[toEmail] {
		return fmt.Errorf("provider rejected %s", toEmail)
	}
	s.sent = append(s.sent, toEmail)
	return nil
}

type recordedEvent struct {
	UserID string
	Event  string
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *fakeBroadcaster) AddClientWithSession(userID, sessionID string) chan string { return nil }
func (b *fakeBroadcaster) RemoveClientWithSession(ch chan string, userID, sessionID string) {
}
func (b *fakeBroadcaster) GetSessionConnectionCount(userID, sessionID string) int { return 0 }

func (b *fakeBroadcaster) BroadcastToUser(userID, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{UserID: userID, Event: event})
}

type stubProvider struct {
	coords     location.Coordinates
	acquireErr error
	place      location.Place
	acquired   int
}

func (p *stubProvider) Acquire(ctx context.Context) (location.Coordinates, error) {
	p.acquired++
	if p.acquireErr != nil {
		return location.Coordinates{}, p.acquireErr
	}
	return p.coords, nil
}

func (p *stubProvider) ResolvePlace(ctx context.Context, lat, lng float64) location.Place {
	return p.place
}

type alertFixture struct {
	service     *AlertService
	hub         *appstate.Hub
	repo        *fakeEncounterRepo
	sms         *fakeSMSSender
	email       *fakeEmailSender
	broadcaster *fakeBroadcaster
}

func newAlertFixture(t *testing.T) *alertFixture {
	t.Helper()
	repo := newFakeEncounterRepo()
	hub := appstate.NewHub()
	sms := &fakeSMSSender{failFor: make(map[string]bool)}
	email := &fakeEmailSender{failFor: make(map[string]bool)}
	broadcaster := &fakeBroadcaster{}
	logger := newTestLogger(t)
	return &alertFixture{
		service:     NewAlertService(repo, hub, sms, email, broadcaster, logger, performance.NewTracker()),
		hub:         hub,
		repo:        repo,
		sms:         sms,
		email:       email,
		broadcaster: broadcaster,
	}
}

func signedInUser(userID string) *user.User {
	wallet := "0x1234567890abcdef1234"
	return &user.User{
		UserID:             userID,
		WalletAddress:      &wallet,
		SubscriptionStatus: user.SubscriptionFree,
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
}

func TestDispatchAlertPartialFailureStillSucceeds(t *testing.T) {
	f := newAlertFixture(t)
	store := f.hub.Get("user-1")
	store.Dispatch(appstate.SetUser{User: signedInUser("user-1")})
	store.Dispatch(appstate.SetAlertContacts{Contacts: []encounter.AlertContact{
		{ID: "c1", Name: "Ana", Phone: "+15550001111"},
		{ID: "c2", Name: "Ben", Email: "ben@example.com"},
		{ID: "c3", Name: "Cruz", Phone: "+15550002222", Email: "cruz@example.com"},
	}})
	f.sms.failFor["+15550002222"] = true

	provider := &stubProvider{
		coords: location.Coordinates{Latitude: 34.05, Longitude: -118.24},
		place:  location.Place{City: "Los Angeles", State: "CA"},
	}

	result, err := f.service.DispatchAlert(context.Background(), "user-1", provider, "")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.AlertID)
	assert.NotEmpty(t, result.EncounterID)

	assert.Equal(t, 3, result.Summary.ContactsNotified)
	assert.Equal(t, 4, result.Summary.TotalAttempts)
	assert.Equal(t, 3, result.Summary.SuccessfulSends)
	assert.Equal(t, 1, result.Summary.FailedSends)

	require.Len(t, result.Results, 3)
	assert.Equal(t, "c1", result.Results[0].ContactID)
	assert.Equal(t, alerting.OutcomeSent, result.Results[0].SMS)
	assert.Equal(t, alerting.OutcomeNotAttempted, result.Results[0].Email)
	assert.Equal(t, "c2", result.Results[1].ContactID)
	assert.Equal(t, alerting.OutcomeNotAttempted, result.Results[1].SMS)
	assert.Equal(t, alerting.OutcomeSent, result.Results[1].Email)
	assert.Equal(t, "c3", result.Results[2].ContactID)
	assert.Equal(t, alerting.OutcomeFailed, result.Results[2].SMS)
	assert.Equal(t, alerting.OutcomeSent, result.Results[2].Email)
	assert.NotEmpty(t, result.Results[2].Error)

	require.Len(t, f.broadcaster.events, 1)
	assert.Equal(t, "alert_dispatched", f.broadcaster.events[0].Event)
}

func TestDispatchAlertRequiresSignedInUser(t *testing.T) {
	f := newAlertFixture(t)
	store := f.hub.Get("user-1")
	store.Dispatch(appstate.SetAlertContacts{Contacts: []encounter.AlertContact{
		{ID: "c1", Name: "Ana", Phone: "+15550001111"},
	}})

	provider := &stubProvider{coords: location.Coordinates{Latitude: 1, Longitude: 1}}
	result, err := f.service.DispatchAlert(context.Background(), "user-1", provider, "")

	assert.Nil(t, result)
	assert.True(t, failure.Is(err, failure.NotAuthenticated))
	assert.Empty(t, f.sms.sent)
	assert.Empty(t, f.email.sent)
	assert.Empty(t, f.broadcaster.events)
}

func TestDispatchAlertRequiresContacts(t *testing.T) {
	f := newAlertFixture(t)
	store := f.hub.Get("user-1")
	store.Dispatch(appstate.SetUser{User: signedInUser("user-1")})

	provider := &stubProvider{coords: location.Coordinates{Latitude: 1, Longitude: 1}}
	result, err := f.service.DispatchAlert(context.Background(), "user-1", provider, "")

	assert.Nil(t, result)
	assert.True(t, failure.Is(err, failure.NoContacts))
	assert.Zero(t, provider.acquired)
	assert.Empty(t, f.broadcaster.events)
}

func TestDispatchAlertBlocksWithoutLocation(t *testing.T) {
	f := newAlertFixture(t)
	store := f.hub.Get("user-1")
	store.Dispatch(appstate.SetUser{User: signedInUser("user-1")})
	store.Dispatch(appstate.SetAlertContacts{Contacts: []encounter.AlertContact{
		{ID: "c1", Name: "Ana", Phone: "+15550001111"},
	}})

	provider := &stubProvider{acquireErr: failure.New(failure.PermissionDenied, "location.acquire")}
	result, err := f.service.DispatchAlert(context.Background(), "user-1", provider, "")

	assert.Nil(t, result)
	assert.True(t, failure.Is(err, failure.LocationRequired))
	assert.Empty(t, f.sms.sent)
	assert.Empty(t, f.email.sent)
	assert.Empty(t, f.broadcaster.events)
}

func TestDispatchAlertReusesActiveEncounterLocation(t *testing.T) {
	f := newAlertFixture(t)
	active := encounter.Encounter{
		ID:     "enc-1",
		UserID: "user-1",
		Location: encounter.Location{
			Latitude:  30.26,
			Longitude: -97.74,
			City:      "Austin",
			State:     "TX",
		},
		Timestamp: time.Now().UTC(),
		Status:    encounter.StatusActive,
	}
	require.NoError(t, f.repo.Create(&active))

	store := f.hub.Get("user-1")
	store.Dispatch(appstate.SetUser{User: signedInUser("user-1")})
	store.Dispatch(appstate.SetCurrentEncounter{Encounter: &active})
	store.Dispatch(appstate.SetAlertContacts{Contacts: []encounter.AlertContact{
		{ID: "c1", Name: "Ana", Phone: "+15550001111"},
	}})

	provider := &stubProvider{acquireErr: failure.New(failure.Timeout, "location.acquire")}
	result, err := f.service.DispatchAlert(context.Background(), "user-1", provider, "")
	require.NoError(t, err)

	assert.Zero(t, provider.acquired, "active encounter location should be reused")
	assert.Equal(t, "enc-1", result.EncounterID)

	persisted, err := f.repo.FindByID("enc-1")
	require.NoError(t, err)
	assert.True(t, persisted.AlertSent)
}

func TestDispatchAlertCreatesEncounterWhenNoneActive(t *testing.T) {
	f := newAlertFixture(t)
	store := f.hub.Get("user-1")
	store.Dispatch(appstate.SetUser{User: signedInUser("user-1")})
	store.Dispatch(appstate.SetAlertContacts{Contacts: []encounter.AlertContact{
		{ID: "c1", Name: "Ana", Phone: "+15550001111"},
	}})

	provider := &stubProvider{
		coords: location.Coordinates{Latitude: 34.05, Longitude: -118.24},
		place:  location.Place{City: "Los Angeles", State: "CA"},
	}

	result, err := f.service.DispatchAlert(context.Background(), "user-1", provider, "")
	require.NoError(t, err)
	require.NotEmpty(t, result.EncounterID)

	persisted, err := f.repo.FindByID(result.EncounterID)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.True(t, persisted.AlertSent)
	assert.Equal(t, "user-1", persisted.UserID)
	assert.Equal(t, "Los Angeles", persisted.Location.City)

	state := store.State()
	require.Len(t, state.Encounters, 1)
	assert.Equal(t, result.EncounterID, state.Encounters[0].ID)
	assert.Nil(t, state.CurrentEncounter)
}

func TestDispatchAlertEncounterCreateFailureStillDispatches(t *testing.T) {
	f := newAlertFixture(t)
	f.repo.createErr = fmt.Errorf("disk full")

	store := f.hub.Get("user-1")
	store.Dispatch(appstate.SetUser{User: signedInUser("user-1")})
	store.Dispatch(appstate.SetAlertContacts{Contacts: []encounter.AlertContact{
		{ID: "c1", Name: "Ana", Phone: "+15550001111"},
	}})

	provider := &stubProvider{coords: location.Coordinates{Latitude: 34.05, Longitude: -118.24}}
	result, err := f.service.DispatchAlert(context.Background(), "user-1", provider, "")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.EncounterID)
	assert.Equal(t, 1, result.Summary.SuccessfulSends)
	assert.Empty(t, store.State().Encounters)
}

func TestDispatchAlertCustomMessageReachesChannels(t *testing.T) {
	f := newAlertFixture(t)
	store := f.hub.Get("user-1")
	store.Dispatch(appstate.SetUser{User: signedInUser("user-1")})
	store.Dispatch(appstate.SetAlertContacts{Contacts: []encounter.AlertContact{
		{ID: "c1", Name: "Ana", Phone: "+15550001111"},
	}})

	provider := &stubProvider{coords: location.Coordinates{Latitude: 34.05, Longitude: -118.24}}
	_, err := f.service.DispatchAlert(context.Background(), "user-1", provider, "Help, corner of 5th and Main")
	require.NoError(t, err)

	assert.Equal(t, "Help, corner of 5th and Main", f.sms.last.Custom)
	assert.Equal(t, "Help, corner of 5th and Main", f.sms.last.Body())
}

func TestDispatchAlertBookkeepingFailureIsNotSurfaced(t *testing.T) {
	f := newAlertFixture(t)
	active := encounter.Encounter{
		ID:        "enc-1",
		UserID:    "user-1",
		Location:  encounter.Location{Latitude: 30.26, Longitude: -97.74},
		Timestamp: time.Now().UTC(),
		Status:    encounter.StatusActive,
	}
	require.NoError(t, f.repo.Create(&active))
	f.repo.updateErr = fmt.Errorf("disk full")

	store := f.hub.Get("user-1")
	store.Dispatch(appstate.SetUser{User: signedInUser("user-1")})
	store.Dispatch(appstate.SetCurrentEncounter{Encounter: &active})
	store.Dispatch(appstate.SetAlertContacts{Contacts: []encounter.AlertContact{
		{ID: "c1", Name: "Ana", Phone: "+15550001111"},
	}})

	result, err := f.service.DispatchAlert(context.Background(), "user-1", &stubProvider{}, "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Summary.SuccessfulSends)

	// The failed persist must not leak into session state either.
	state := store.State()
	require.NotNil(t, state.CurrentEncounter)
	assert.False(t, state.CurrentEncounter.AlertSent)
}
