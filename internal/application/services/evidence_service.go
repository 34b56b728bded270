package services

import (
	"fmt"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/media"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
)

// EvidenceService attaches photo evidence to encounters. Photos belong to
// the encounter's owner; ownership is checked before any file is written.
type EvidenceService struct {
	encounterRepo encounter.Repository
	processor     *media.EvidenceProcessor
	logger        *logging.ChanneledLogger
}

// NewEvidenceService creates a new evidence application service.
func NewEvidenceService(encounterRepo encounter.Repository, processor *media.EvidenceProcessor, logger *logging.ChanneledLogger) *EvidenceService {
	return &EvidenceService{
		encounterRepo: encounterRepo,
		processor:     processor,
		logger:        logger,
	}
}

// EvidencePhoto is the stored result of a photo upload.
type EvidencePhoto struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// AttachPhoto stores a base64 photo under the encounter's evidence
// directory.
func (s *EvidenceService) AttachPhoto(userID, encounterID, data string) (*EvidencePhoto, error) {
	enc, err := s.encounterRepo.FindByID(encounterID)
	if err != nil {
		return nil, err
	}
	if enc == nil || enc.UserID != userID {
		return nil, fmt.Errorf("encounter %s not found", encounterID)
	}

	url, thumbURL, err := s.processor.SaveEvidencePhoto(data, encounterID)
	if err != nil {
		return nil, err
	}

	s.logger.Encounter().Info("Evidence photo attached", "encounterId", encounterID, "userId", userID, "url", url)
	return &EvidencePhoto{URL: url, ThumbnailURL: thumbURL}, nil
}
