package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/application/services"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/geocoding"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/performance"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/presentation/http/middleware"
)

// EncounterHandlers contains all encounter lifecycle HTTP handlers
type EncounterHandlers struct {
	encounterService *services.EncounterService
	evidenceService  *services.EvidenceService
	geocoder         *geocoding.NominatimClient
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewEncounterHandlers creates encounter handlers with injected dependencies
func NewEncounterHandlers(
	encounterService *services.EncounterService,
	evidenceService *services.EvidenceService,
	geocoder *geocoding.NominatimClient,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *EncounterHandlers {
	return &EncounterHandlers{
		encounterService: encounterService,
		evidenceService:  evidenceService,
		geocoder:         geocoder,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// PostStart handles POST /api/v1/encounters/start
func (h *EncounterHandlers) PostStart(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var report geocoding.ClientReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	provider := geocoding.NewRequestProvider(report, h.geocoder)
	enc, err := h.encounterService.StartEncounter(c.Request.Context(), userID, provider)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enc)
}

// PostEnd handles POST /api/v1/encounters/:id/end
func (h *EncounterHandlers) PostEnd(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	enc, err := h.encounterService.EndEncounter(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if enc == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "noop": true})
		return
	}
	c.JSON(http.StatusOK, enc)
}

// PostCancel handles POST /api/v1/encounters/:id/cancel
func (h *EncounterHandlers) PostCancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	enc, err := h.encounterService.CancelEncounter(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if enc == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "noop": true})
		return
	}
	c.JSON(http.StatusOK, enc)
}

// GetHistory handles GET /api/v1/encounters
func (h *EncounterHandlers) GetHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	marker := h.perfTracker.StartOperation("encounter:history", userID)
	defer marker.Complete()

	encounters, err := h.encounterService.LoadHistory(userID)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"encounters": encounters})
}

// GetEncounter handles GET /api/v1/encounters/:id
func (h *EncounterHandlers) GetEncounter(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	enc, err := h.encounterService.GetEncounter(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if enc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "encounter not found"})
		return
	}
	c.JSON(http.StatusOK, enc)
}

// PostRecordingStart handles POST /api/v1/recording/start
func (h *EncounterHandlers) PostRecordingStart(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := h.encounterService.StartRecording(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostRecordingStop handles POST /api/v1/recording/stop
func (h *EncounterHandlers) PostRecordingStop(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req struct {
		RecordingURL string `json:"recordingUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	if err := h.encounterService.StopRecording(userID, req.RecordingURL); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostEvidence handles POST /api/v1/encounters/:id/evidence
func (h *EncounterHandlers) PostEvidence(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req struct {
		Photo string `json:"photo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo is required"})
		return
	}

	photo, err := h.evidenceService.AttachPhoto(userID, c.Param("id"), req.Photo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}
