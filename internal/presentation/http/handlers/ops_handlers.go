package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/application/services"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/messaging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/security"
)

const opsTokenLifetime = 12 * time.Hour

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// OpsHandlers contains the ops dashboard HTTP handlers
type OpsHandlers struct {
	opsService  *services.OpsService
	broadcaster *messaging.OpsBroadcaster
	logger      *logging.ChanneledLogger

	tokenMu sync.Mutex
	tokens  map[string]time.Time // token -> expiry
}

// NewOpsHandlers creates ops handlers with injected dependencies
func NewOpsHandlers(opsService *services.OpsService, broadcaster *messaging.OpsBroadcaster, logger *logging.ChanneledLogger) *OpsHandlers {
	return &OpsHandlers{
		opsService:  opsService,
		broadcaster: broadcaster,
		logger:      logger,
		tokens:      make(map[string]time.Time),
	}
}

// Login handles POST /api/ops/login
func (h *OpsHandlers) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	if !h.opsService.VerifyPassword(req.Password) {
		h.logger.Auth().Warn("Ops dashboard login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	token, err := security.GenerateSecureToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.tokenMu.Lock()
	h.tokens[token] = time.Now().Add(opsTokenLifetime)
	h.tokenMu.Unlock()

	h.logger.Auth().Info("Ops dashboard login")
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// AuthCheck handles GET /api/ops/auth
func (h *OpsHandlers) AuthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": h.validToken(c.GetHeader("X-Ops-Token"))})
}

// OpsAuthMiddleware guards the authenticated ops endpoints.
func (h *OpsHandlers) OpsAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.validToken(c.GetHeader("X-Ops-Token")) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "ops authentication required"})
			return
		}
		c.Next()
	}
}

func (h *OpsHandlers) validToken(token string) bool {
	if token == "" {
		return false
	}
	h.tokenMu.Lock()
	defer h.tokenMu.Unlock()
	expiry, ok := h.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(h.tokens, token)
		return false
	}
	return true
}

// GetActivity handles GET /api/ops/activity - recent operation metrics
func (h *OpsHandlers) GetActivity(c *gin.Context) {
	markers := h.opsService.RecentOperations(time.Hour, c.Query("prefix"))
	c.JSON(http.StatusOK, gin.H{
		"snapshot":   h.opsService.OpsSnapshot(),
		"operations": markers,
	})
}

// GetFeed handles GET /api/ops/feed - websocket snapshot feed
func (h *OpsHandlers) GetFeed(c *gin.Context) {
	if !h.validToken(c.Query("token")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "ops authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.SSE().Error("Ops websocket upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.OpsClient{
		Conn: conn,
		Send: make(chan []byte, 8),
	}
	h.broadcaster.Register(client)

	go h.writePump(client)
	go h.readPump(client)
}

func (h *OpsHandlers) writePump(client *messaging.OpsClient) {
	defer client.Conn.Close()
	for message := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump drains the connection so pings are handled and disconnects
// unregister the client.
func (h *OpsHandlers) readPump(client *messaging.OpsClient) {
	defer func() {
		h.broadcaster.Unregister(client)
		client.Conn.Close()
	}()
	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
