package services

import (
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/appstate"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/security"
)

// ContactService manages a user's alert contacts, keeping the persisted
// list and the state store in step. Writes persist first; the matching
// state transition commits only after the write succeeds.
type ContactService struct {
	contactRepo encounter.ContactRepository
	hub         *appstate.Hub
	logger      *logging.ChanneledLogger
}

// NewContactService creates a new contact application service.
func NewContactService(contactRepo encounter.ContactRepository, hub *appstate.Hub, logger *logging.ChanneledLogger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		hub:         hub,
		logger:      logger,
	}
}

// LoadContacts loads the user's contacts into state.
func (s *ContactService) LoadContacts(userID string) ([]encounter.AlertContact, error) {
	contacts, err := s.contactRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	s.hub.Get(userID).Dispatch(appstate.SetAlertContacts{Contacts: contacts})
	return contacts, nil
}

// AddContact validates, persists, and commits a new contact.
func (s *ContactService) AddContact(userID string, c encounter.AlertContact) (*encounter.AlertContact, error) {
	c.ID = security.GenerateULID()
	c.UserID = userID

	if err := s.contactRepo.Create(&c); err != nil {
		return nil, err
	}
	s.hub.Get(userID).Dispatch(appstate.AddAlertContact{Contact: c})

	s.logger.System().Info("Alert contact added", "contactId", c.ID, "userId", userID)
	return &c, nil
}

// UpdateContact persists a contact patch and commits it to state.
func (s *ContactService) UpdateContact(userID, contactID string, patch encounter.ContactPatch) (*encounter.AlertContact, error) {
	updated, err := s.contactRepo.Update(contactID, patch)
	if err != nil {
		return nil, err
	}
	s.hub.Get(userID).Dispatch(appstate.UpdateAlertContact{ID: contactID, Patch: patch})
	return updated, nil
}

// RemoveContact deletes a contact and commits the removal to state.
func (s *ContactService) RemoveContact(userID, contactID string) error {
	if err := s.contactRepo.Delete(contactID); err != nil {
		return err
	}
	s.hub.Get(userID).Dispatch(appstate.RemoveAlertContact{ID: contactID})

	s.logger.System().Info("Alert contact removed", "contactId", contactID, "userId", userID)
	return nil
}
