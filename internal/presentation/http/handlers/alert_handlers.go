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

// AlertHandlers contains the emergency alert HTTP handlers
type AlertHandlers struct {
	alertService *services.AlertService
	geocoder     *geocoding.NominatimClient
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewAlertHandlers creates alert handlers with injected dependencies
func NewAlertHandlers(alertService *services.AlertService, geocoder *geocoding.NominatimClient, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AlertHandlers {
	return &AlertHandlers{
		alertService: alertService,
		geocoder:     geocoder,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// PostDispatch handles POST /api/v1/alerts/dispatch
func (h *AlertHandlers) PostDispatch(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req struct {
		geocoding.ClientReport
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	provider := geocoding.NewRequestProvider(req.ClientReport, h.geocoder)
	result, err := h.alertService.DispatchAlert(c.Request.Context(), userID, provider, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
