package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/application/services"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/user"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/performance"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/presentation/http/middleware"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// PostSignIn handles POST /api/v1/auth/signin - wallet sign-in
func (h *AuthHandlers) PostSignIn(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}

	marker := h.perfTracker.StartOperation("auth:signin", "")
	defer marker.Complete()

	result, err := h.authService.SignInWithWallet(req.WalletAddress)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	h.logger.Perf().Info("Performance for PostSignIn request", "duration", marker.Duration, "userId", result.User.UserID, "success", true)
	c.JSON(http.StatusOK, result)
}

// PostSignOut handles POST /api/v1/auth/signout
func (h *AuthHandlers) PostSignOut(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	h.authService.SignOut(userID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetProfile handles GET /api/v1/auth/profile
func (h *AuthHandlers) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	u, err := h.authService.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// PutProfile handles PUT /api/v1/auth/profile
func (h *AuthHandlers) PutProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var patch user.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	start := time.Now()
	updated, err := h.authService.UpdateProfile(userID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Auth().Info("Profile updated", "userId", userID, "duration", time.Since(start))
	c.JSON(http.StatusOK, updated)
}
