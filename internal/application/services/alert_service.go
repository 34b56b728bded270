package services

import (
	"context"
	"sync"
	"time"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/alerting"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/appstate"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/location"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/messaging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/notifications"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/performance"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/security"
)

// AlertService fans an emergency alert out to every saved contact over
// every channel that contact carries. Channel sends run concurrently; a
// failed send never stops the remaining sends, and the dispatch reports
// success once the fan-out completes regardless of per-send failures.
type AlertService struct {
	encounterRepo encounter.Repository
	hub           *appstate.Hub
	sms           notifications.SMSSender
	email         notifications.EmailSender
	broadcaster   messaging.Broadcaster
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewAlertService creates a new alert application service.
func NewAlertService(
	encounterRepo encounter.Repository,
	hub *appstate.Hub,
	sms notifications.SMSSender,
	email notifications.EmailSender,
	broadcaster messaging.Broadcaster,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *AlertService {
	return &AlertService{
		encounterRepo: encounterRepo,
		hub:           hub,
		sms:           sms,
		email:         email,
		broadcaster:   broadcaster,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// DispatchAlert sends the emergency alert. Preconditions are checked
// before any side effect: an authenticated user, at least one contact,
// and a usable location. When an encounter is active its location
// snapshot is reused; otherwise the position is acquired fresh and an
// encounter record is created for the alert. A non-empty message
// replaces the generated alert text.
func (s *AlertService) DispatchAlert(ctx context.Context, userID string, provider location.Provider, message string) (*alerting.DispatchResult, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("alert:dispatch", userID)
	defer marker.Complete()

	store := s.hub.Get(userID)
	state := store.State()

	if state.User == nil {
		marker.SetError(failure.New(failure.NotAuthenticated, "alert.dispatch"))
		return nil, failure.New(failure.NotAuthenticated, "alert.dispatch")
	}
	if len(state.AlertContacts) == 0 {
		marker.SetError(failure.New(failure.NoContacts, "alert.dispatch"))
		return nil, failure.New(failure.NoContacts, "alert.dispatch")
	}

	loc, encounterID, err := s.resolveLocation(ctx, state, provider)
	if err != nil {
		s.logger.Alert().Warn("Alert blocked on location", "userId", userID, "error", err.Error())
		marker.SetError(err)
		return nil, err
	}

	alertID := security.GenerateULID()

	// Bookkeeping is best-effort: a persistence failure here is logged,
	// the emergency notification still goes out.
	encounterID = s.recordAlert(store, userID, encounterID, loc, alertID)

	msg := notifications.AlertMessage{
		AlertID:   alertID,
		UserName:  displayName(state.User.WalletAddress, userID),
		Location:  loc,
		Timestamp: time.Now().UTC().Format("January 2, 2006 at 3:04 PM MST"),
		Custom:    message,
	}

	results := s.fanOut(ctx, state.AlertContacts, msg)
	summary := alerting.Aggregate(results)

	result := &alerting.DispatchResult{
		Success:     true,
		AlertID:     alertID,
		EncounterID: encounterID,
		Summary:     summary,
		Results:     results,
	}

	s.logger.LogDispatchOutcome(alertID, userID, summary.TotalAttempts, summary.FailedSends, time.Since(start))
	s.broadcaster.BroadcastToUser(userID, "alert_dispatched", result)
	marker.AddMetadata("contactsNotified", summary.ContactsNotified)
	marker.AddMetadata("failedSends", summary.FailedSends)
	return result, nil
}

// recordAlert flags the active encounter's alert_sent, or creates a new
// encounter record carrying the alert when none is active. Returns the id
// the dispatch result should report, or "" when persistence failed.
func (s *AlertService) recordAlert(store *appstate.Store, userID, encounterID string, loc encounter.Location, alertID string) string {
	if encounterID != "" {
		sent := true
		patch := encounter.Patch{AlertSent: &sent}
		store.WithEncounter(encounterID, func() {
			if err := s.encounterRepo.Update(encounterID, patch); err != nil {
				s.logger.Alert().Error("Failed to flag encounter alert_sent", "encounterId", encounterID, "alertId", alertID, "error", err.Error())
				return
			}
			store.Dispatch(appstate.UpdateEncounter{ID: encounterID, Patch: patch})
		})
		return encounterID
	}

	enc := &encounter.Encounter{
		ID:        security.GenerateULID(),
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Location:  loc,
		AlertSent: true,
		Status:    encounter.StatusActive,
	}
	created := false
	store.WithEncounter(enc.ID, func() {
		if err := s.encounterRepo.Create(enc); err != nil {
			s.logger.Alert().Error("Failed to record alert encounter", "alertId", alertID, "error", err.Error())
			return
		}
		store.Dispatch(appstate.AddEncounter{Encounter: *enc})
		created = true
	})
	if !created {
		return ""
	}
	return enc.ID
}

func (s *AlertService) resolveLocation(ctx context.Context, state appstate.AppState, provider location.Provider) (encounter.Location, string, error) {
	if state.CurrentEncounter != nil {
		return state.CurrentEncounter.Location, state.CurrentEncounter.ID, nil
	}

	coords, err := provider.Acquire(ctx)
	if err != nil {
		return encounter.Location{}, "", failure.Wrap(failure.LocationRequired, "alert.dispatch", err)
	}
	place := provider.ResolvePlace(ctx, coords.Latitude, coords.Longitude)
	return encounter.Location{
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		City:      place.City,
		State:     place.State,
	}, "", nil
}

// fanOut attempts every channel for every contact concurrently and
// collects per-contact results in contact order.
func (s *AlertService) fanOut(ctx context.Context, contacts []encounter.AlertContact, msg notifications.AlertMessage) []alerting.ContactResult {
	results := make([]alerting.ContactResult, len(contacts))

	var wg sync.WaitGroup
	for i, contact := range contacts {
		wg.Add(1)
		go func(i int, contact encounter.AlertContact) {
			defer wg.Done()
			results[i] = s.notifyContact(ctx, contact, msg)
		}(i, contact)
	}
	wg.Wait()

	return results
}

func (s *AlertService) notifyContact(ctx context.Context, contact encounter.AlertContact, msg notifications.AlertMessage) alerting.ContactResult {
	result := alerting.ContactResult{
		ContactID: contact.ID,
		Name:      contact.Name,
		SMS:       alerting.OutcomeNotAttempted,
		Email:     alerting.OutcomeNotAttempted,
	}

	if contact.Phone != "" {
		if err := s.sms.SendAlertSMS(ctx, contact.Phone, msg); err != nil {
			result.SMS = alerting.OutcomeFailed
			result.Error = err.Error()
			s.logger.Notify().Warn("Alert SMS failed", "alertId", msg.AlertID, "contactId", contact.ID, "error", err.Error())
		} else {
			result.SMS = alerting.OutcomeSent
		}
	}

	if contact.Email != "" {
		if err := s.email.SendAlertEmail(ctx, contact.Email, contact.Name, msg); err != nil {
			result.Email = alerting.OutcomeFailed
			result.Error = err.Error()
			s.logger.Notify().Warn("Alert email failed", "alertId", msg.AlertID, "contactId", contact.ID, "error", err.Error())
		} else {
			result.Email = alerting.OutcomeSent
		}
	}

	return result
}

// displayName renders the user for alert messages. Wallet addresses are
// shortened to their first and last four characters.
func displayName(wallet *string, userID string) string {
	if wallet != nil && len(*wallet) > 12 {
		w := *wallet
		return w[:6] + "..." + w[len(w)-4:]
	}
	if wallet != nil && *wallet != "" {
		return *wallet
	}
	return "KnowYourRightsCard user " + userID
}
