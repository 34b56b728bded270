package handlers

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/appstate"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/messaging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/performance"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/presentation/http/middleware"
	"github.com/KnowYourRightsCard/kyrcard-go/pkg/config"
)

const maxSSEConnections = 1000

var activeSSEConnections int64

// StateHandlers serves state snapshots and the live state event stream
type StateHandlers struct {
	hub         *appstate.Hub
	broadcaster messaging.Broadcaster
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewStateHandlers creates state handlers with injected dependencies
func NewStateHandlers(hub *appstate.Hub, broadcaster messaging.Broadcaster, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *StateHandlers {
	return &StateHandlers{
		hub:         hub,
		broadcaster: broadcaster,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetState handles GET /api/v1/state - full state snapshot
func (h *StateHandlers) GetState(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, h.hub.Get(userID).State())
}

// GetStream handles GET /api/v1/state/stream - SSE state event feed
func (h *StateHandlers) GetStream(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		h.logger.SSE().Error("SSE connection request missing session ID", "userId", userID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID required for SSE connection"})
		return
	}

	if atomic.LoadInt64(&activeSSEConnections) >= maxSSEConnections {
		h.logger.SSE().Warn("SSE connection limit reached", "userId", userID, "sessionId", sessionID)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "SSE connection limit reached. Please try again later."})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ch := h.broadcaster.AddClientWithSession(userID, sessionID)
	atomic.AddInt64(&activeSSEConnections, 1)
	defer func() {
		atomic.AddInt64(&activeSSEConnections, -1)
		h.broadcaster.RemoveClientWithSession(ch, userID, sessionID)
	}()

	// Initial connection confirmation
	fmt.Fprintf(c.Writer, "data: {\"type\":\"connected\",\"sessionId\":\"%s\",\"timestamp\":\"%s\"}\n\n", sessionID, time.Now().Format(time.RFC3339))
	c.Writer.Flush()

	h.logger.SSE().Info("SSE connection established", "userId", userID, "sessionId", sessionID, "totalConnections", atomic.LoadInt64(&activeSSEConnections))

	clientCtx := c.Request.Context()
	heartbeat := time.NewTicker(time.Duration(config.SSEHeartbeatIntervalSeconds) * time.Second)
	defer heartbeat.Stop()

	connectionStart := time.Now()
	for {
		select {
		case <-clientCtx.Done():
			h.logger.SSE().Info("SSE client disconnected", "userId", userID, "sessionId", sessionID, "connectionDuration", time.Since(connectionStart))
			return

		case message, ok := <-ch:
			if !ok {
				return
			}
			if _, err := c.Writer.WriteString(message); err != nil {
				h.logger.SSE().Error("SSE write failed", "userId", userID, "sessionId", sessionID, "error", err.Error())
				return
			}
			c.Writer.Flush()

		case <-heartbeat.C:
			hb := fmt.Sprintf("data: {\"type\":\"heartbeat\",\"timestamp\":\"%s\"}\n\n", time.Now().Format(time.RFC3339))
			if _, err := c.Writer.WriteString(hb); err != nil {
				h.logger.SSE().Error("SSE heartbeat failed", "userId", userID, "sessionId", sessionID, "error", err.Error())
				return
			}
			c.Writer.Flush()
		}
	}
}
