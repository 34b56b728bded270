// Package messaging provides the concrete implementation of the SSE broadcaster.
package messaging

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
)

// SSEBroadcaster manages user-scoped, session-specific SSE connections.
// A user with the app open on two devices holds two sessions; state
// events fan out to every session.
type SSEBroadcaster struct {
	userSessions map[string]map[string][]chan string // userId -> sessionId -> []channels
	mu           sync.Mutex
	logger       *logging.ChanneledLogger
}

var (
	globalBroadcaster *SSEBroadcaster
	once              sync.Once
)

// NewSSEBroadcaster creates the singleton SSEBroadcaster instance.
func NewSSEBroadcaster(logger *logging.ChanneledLogger) *SSEBroadcaster {
	once.Do(func() {
		globalBroadcaster = &SSEBroadcaster{
			userSessions: make(map[string]map[string][]chan string),
			logger:       logger,
		}
	})
	return globalBroadcaster
}

// AddClientWithSession registers a new SSE client for a user session.
func (b *SSEBroadcaster) AddClientWithSession(userID, sessionID string) chan string {
	ch := make(chan string, 10)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.userSessions[userID] == nil {
		b.userSessions[userID] = make(map[string][]chan string)
	}
	b.userSessions[userID][sessionID] = append(b.userSessions[userID][sessionID], ch)

	b.logger.SSE().Debug("SSE client registered", "userId", userID, "sessionId", sessionID)
	return ch
}

// RemoveClientWithSession removes an SSE client from a user session.
func (b *SSEBroadcaster) RemoveClientWithSession(ch chan string, userID, sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sessions, exists := b.userSessions[userID]; exists {
		if clients, exists := sessions[sessionID]; exists {
			newClients := make([]chan string, 0, len(clients))
			for _, client := range clients {
				if client != ch {
					newClients = append(newClients, client)
				}
			}
			sessions[sessionID] = newClients

			if len(sessions[sessionID]) == 0 {
				delete(sessions, sessionID)
			}
		}

		if len(sessions) == 0 {
			delete(b.userSessions, userID)
		}
	}
	b.logger.SSE().Debug("SSE client unregistered", "userId", userID, "sessionId", sessionID)
}

// GetSessionConnectionCount returns the connection count for a user session.
func (b *SSEBroadcaster) GetSessionConnectionCount(userID, sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sessions, exists := b.userSessions[userID]; exists {
		return len(sessions[sessionID])
	}
	return 0
}

// BroadcastToUser sends an event to every open session of a user. Full
// channels drop the message rather than block.
func (b *SSEBroadcaster) BroadcastToUser(userID, event string, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.SSE().Error("Panic recovered in BroadcastToUser", "error", r, "userId", userID)
		}
	}()

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.SSE().Error("Failed to marshal SSE payload", "event", event, "error", err.Error())
		return
	}
	message := fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)

	b.mu.Lock()
	defer b.mu.Unlock()

	sessions, exists := b.userSessions[userID]
	if !exists {
		return
	}
	for sessionID, clients := range sessions {
		for _, ch := range clients {
			select {
			case ch <- message:
			default:
				b.logger.SSE().Warn("SSE channel full, message dropped", "userId", userID, "sessionId", sessionID, "event", event)
			}
		}
	}
}
