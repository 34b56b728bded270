package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/appstate"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/location"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/messaging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/performance"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/security"
	"github.com/KnowYourRightsCard/kyrcard-go/pkg/config"
)

// Summarizer produces the completed-encounter summary text. It must not
// fail the caller; implementations return fallback text on error.
type Summarizer interface {
	SummarizeEncounter(ctx context.Context, enc encounter.Encounter, transcript string) string
}

// EncounterService orchestrates the encounter lifecycle: start, end,
// cancel, history load, and recording status. All state transitions go
// through the user's store; persistence happens before the matching
// transition commits, so a storage failure leaves state untouched.
type EncounterService struct {
	encounterRepo encounter.Repository
	hub           *appstate.Hub
	summarizer    Summarizer
	broadcaster   messaging.Broadcaster
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker

	tickMu  sync.Mutex
	tickers map[string]chan struct{} // userId -> recording ticker stop channel
}

// NewEncounterService creates a new encounter application service.
func NewEncounterService(
	encounterRepo encounter.Repository,
	hub *appstate.Hub,
	summarizer Summarizer,
	broadcaster messaging.Broadcaster,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *EncounterService {
	return &EncounterService{
		encounterRepo: encounterRepo,
		hub:           hub,
		summarizer:    summarizer,
		broadcaster:   broadcaster,
		logger:        logger,
		perfTracker:   perfTracker,
		tickers:       make(map[string]chan struct{}),
	}
}

// StartEncounter acquires the device position, creates an encounter
// record, persists it, and commits it to the user's state. A second
// active encounter is rejected before any side effect runs.
func (s *EncounterService) StartEncounter(ctx context.Context, userID string, provider location.Provider) (*encounter.Encounter, error) {
	marker := s.perfTracker.StartOperation("encounter:start", userID)
	defer marker.Complete()

	store := s.hub.Get(userID)
	if store.State().CurrentEncounter != nil {
		marker.SetError(failure.New(failure.EncounterAlreadyActive, "encounter.start"))
		return nil, failure.New(failure.EncounterAlreadyActive, "encounter.start")
	}

	coords, err := provider.Acquire(ctx)
	if err != nil {
		s.logger.Location().Warn("Location acquisition failed", "userId", userID, "kind", string(failure.KindOf(err)))
		wrapped := failure.Wrap(failure.LocationRequired, "encounter.start", err)
		marker.SetError(wrapped)
		return nil, wrapped
	}

	place := provider.ResolvePlace(ctx, coords.Latitude, coords.Longitude)

	enc := &encounter.Encounter{
		ID:        security.GenerateULID(),
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Location: encounter.Location{
			Latitude:  coords.Latitude,
			Longitude: coords.Longitude,
			City:      place.City,
			State:     place.State,
		},
		Status: encounter.StatusActive,
	}

	var startErr error
	store.WithEncounter(enc.ID, func() {
		if err := s.encounterRepo.Create(enc); err != nil {
			startErr = err
			return
		}
		store.Dispatch(appstate.AddEncounter{Encounter: *enc})
		store.Dispatch(appstate.SetCurrentEncounter{Encounter: enc})
	})
	if startErr != nil {
		s.logger.Encounter().Error("Failed to persist encounter", "userId", userID, "error", startErr.Error())
		marker.SetError(startErr)
		return nil, startErr
	}

	s.broadcaster.BroadcastToUser(userID, "encounter_started", enc)
	s.logger.Encounter().Info("Encounter started", "encounterId", enc.ID, "userId", userID, "city", enc.Location.City, "state", enc.Location.State)
	return enc, nil
}

// EndEncounter completes the active encounter: stops any recording tick,
// computes the duration, generates a summary, persists the final record,
// and clears the current-encounter pointer. Ending an encounter that is
// not the active one is a no-op.
func (s *EncounterService) EndEncounter(ctx context.Context, userID, encounterID string) (*encounter.Encounter, error) {
	return s.closeEncounter(ctx, userID, encounterID, encounter.StatusCompleted)
}

// CancelEncounter closes the active encounter without keeping it as a
// completed record. The row is retained with cancelled status; no summary
// is generated.
func (s *EncounterService) CancelEncounter(ctx context.Context, userID, encounterID string) (*encounter.Encounter, error) {
	return s.closeEncounter(ctx, userID, encounterID, encounter.StatusCancelled)
}

func (s *EncounterService) closeEncounter(ctx context.Context, userID, encounterID string, status encounter.Status) (*encounter.Encounter, error) {
	marker := s.perfTracker.StartOperation("encounter:end", userID)
	defer marker.Complete()

	store := s.hub.Get(userID)
	current := store.State().CurrentEncounter
	if current == nil || current.ID != encounterID {
		return nil, nil
	}

	s.stopRecordingTicker(userID)

	// Final duration comes from recording state, not the encounter's age.
	recording := store.State().Recording
	duration := recording.Duration
	if recording.IsRecording && recording.StartTime != nil {
		duration = int(time.Since(*recording.StartTime).Seconds())
	}

	patch := encounter.Patch{
		Status:   &status,
		Duration: &duration,
	}
	if recording.RecordingURL != "" && current.RecordingURL == "" {
		url := recording.RecordingURL
		patch.RecordingURL = &url
	}
	if status == encounter.StatusCompleted {
		final := patch.Apply(*current)
		summary := s.summarizer.SummarizeEncounter(ctx, final, "")
		patch.Summary = &summary
	}

	var closeErr error
	store.WithEncounter(encounterID, func() {
		if err := s.encounterRepo.Update(encounterID, patch); err != nil {
			closeErr = err
			return
		}
		store.Dispatch(appstate.UpdateEncounter{ID: encounterID, Patch: patch})
		store.Dispatch(appstate.SetCurrentEncounter{Encounter: nil})
		store.Dispatch(appstate.SetRecordingState{State: appstate.RecordingState{}})
	})
	if closeErr != nil {
		s.logger.Encounter().Error("Failed to persist encounter close", "encounterId", encounterID, "error", closeErr.Error())
		marker.SetError(closeErr)
		return nil, closeErr
	}

	closed := patch.Apply(*current)
	s.broadcaster.BroadcastToUser(userID, "encounter_ended", closed)
	s.logger.Encounter().Info("Encounter closed", "encounterId", encounterID, "userId", userID, "status", string(status), "duration", duration)
	return &closed, nil
}

// LoadHistory loads the user's encounter history into state, newest first.
func (s *EncounterService) LoadHistory(userID string) ([]encounter.Encounter, error) {
	encounters, err := s.encounterRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	s.hub.Get(userID).Dispatch(appstate.SetEncounters{Encounters: encounters})
	return encounters, nil
}

// GetEncounter loads one encounter, scoped to its owner.
func (s *EncounterService) GetEncounter(userID, encounterID string) (*encounter.Encounter, error) {
	enc, err := s.encounterRepo.FindByID(encounterID)
	if err != nil {
		return nil, err
	}
	if enc == nil || enc.UserID != userID {
		return nil, nil
	}
	return enc, nil
}

// StartRecording flips recording state on and starts the duration tick.
// The tick updates state once per interval and pushes the elapsed time to
// the user's open sessions.
func (s *EncounterService) StartRecording(userID string) error {
	store := s.hub.Get(userID)
	if store.State().CurrentEncounter == nil {
		return fmt.Errorf("recording requires an active encounter")
	}

	now := time.Now().UTC()
	store.Dispatch(appstate.SetRecordingState{State: appstate.RecordingState{
		IsRecording: true,
		StartTime:   &now,
	}})

	s.startRecordingTicker(userID, now)
	s.logger.Encounter().Info("Recording started", "userId", userID)
	return nil
}

// StopRecording flips recording state off, keeping the final duration and
// the uploaded recording URL, and attaches the URL to the active encounter.
func (s *EncounterService) StopRecording(userID, recordingURL string) error {
	s.stopRecordingTicker(userID)

	store := s.hub.Get(userID)
	recording := store.State().Recording
	if !recording.IsRecording {
		return nil
	}

	duration := recording.Duration
	if recording.StartTime != nil {
		duration = int(time.Since(*recording.StartTime).Seconds())
	}

	store.Dispatch(appstate.SetRecordingState{State: appstate.RecordingState{
		Duration:     duration,
		RecordingURL: recordingURL,
	}})

	current := store.State().CurrentEncounter
	if current != nil && recordingURL != "" {
		patch := encounter.Patch{RecordingURL: &recordingURL}
		store.WithEncounter(current.ID, func() {
			if err := s.encounterRepo.Update(current.ID, patch); err != nil {
				s.logger.Encounter().Error("Failed to persist recording URL", "encounterId", current.ID, "error", err.Error())
				return
			}
			store.Dispatch(appstate.UpdateEncounter{ID: current.ID, Patch: patch})
		})
	}

	s.logger.Encounter().Info("Recording stopped", "userId", userID, "duration", duration)
	return nil
}

func (s *EncounterService) startRecordingTicker(userID string, startTime time.Time) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	if stop, ok := s.tickers[userID]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	s.tickers[userID] = stop

	go func() {
		ticker := time.NewTicker(config.RecordingTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				store := s.hub.Get(userID)
				recording := store.State().Recording
				if !recording.IsRecording {
					return
				}
				recording.Duration = int(time.Since(startTime).Seconds())
				store.Dispatch(appstate.SetRecordingState{State: recording})
				s.broadcaster.BroadcastToUser(userID, "recording_tick", map[string]any{
					"duration":  recording.Duration,
					"formatted": encounter.FormatDuration(recording.Duration),
				})
			}
		}
	}()
}

func (s *EncounterService) stopRecordingTicker(userID string) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	if stop, ok := s.tickers[userID]; ok {
		close(stop)
		delete(s.tickers, userID)
	}
}
