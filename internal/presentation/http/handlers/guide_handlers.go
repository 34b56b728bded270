package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/application/services"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/user"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/presentation/http/middleware"
)

// GuideHandlers contains the rights guide HTTP handlers
type GuideHandlers struct {
	guideService *services.GuideService
	logger       *logging.ChanneledLogger
}

// NewGuideHandlers creates guide handlers with injected dependencies
func NewGuideHandlers(guideService *services.GuideService, logger *logging.ChanneledLogger) *GuideHandlers {
	return &GuideHandlers{
		guideService: guideService,
		logger:       logger,
	}
}

// GetRights handles GET /api/v1/guides/rights
func (h *GuideHandlers) GetRights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rights": h.guideService.BasicRights()})
}

// GetPhrases handles GET /api/v1/guides/phrases?lang=es
func (h *GuideHandlers) GetPhrases(c *gin.Context) {
	lang := user.Language(c.DefaultQuery("lang", "en"))
	c.JSON(http.StatusOK, h.guideService.EmergencyPhrases(lang))
}

// GetStateInfo handles GET /api/v1/guides/states/:code
func (h *GuideHandlers) GetStateInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.guideService.StateInfo(c.Param("code")))
}

// PutJurisdiction handles PUT /api/v1/guides/jurisdiction
func (h *GuideHandlers) PutJurisdiction(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	if err := h.guideService.SelectJurisdiction(userID, req.Code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostScript handles POST /api/v1/guides/scripts - premium script generation
func (h *GuideHandlers) PostScript(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req struct {
		Scenario string `json:"scenario" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scenario is required"})
		return
	}

	script, err := h.guideService.GenerateScript(c.Request.Context(), userID, req.Scenario)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"script": script})
}
