package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
)

// OpsClient represents a single connected ops dashboard client.
type OpsClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// OpsSnapshot is the data structure sent to the ops dashboard on each tick.
type OpsSnapshot struct {
	ActiveUsers       int       `json:"activeUsers"`
	ActiveEncounters  int       `json:"activeEncounters"`
	ActiveRecordings  int       `json:"activeRecordings"`
	AlertsDispatched  int       `json:"alertsDispatched"`
	AlertSendFailures int       `json:"alertSendFailures"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// SnapshotSource produces the current ops snapshot.
type SnapshotSource interface {
	OpsSnapshot() OpsSnapshot
}

// OpsBroadcaster manages all connected ops clients and broadcasts
// snapshots on a fixed tick.
type OpsBroadcaster struct {
	clients    map[*OpsClient]bool
	register   chan *OpsClient
	unregister chan *OpsClient
	source     SnapshotSource
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewOpsBroadcaster creates a new broadcaster instance.
func NewOpsBroadcaster(source SnapshotSource, logger *logging.ChanneledLogger) *OpsBroadcaster {
	return &OpsBroadcaster{
		clients:    make(map[*OpsClient]bool),
		register:   make(chan *OpsClient),
		unregister: make(chan *OpsClient),
		source:     source,
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *OpsBroadcaster) Run() {
	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			b.logger.SSE().Info("Ops dashboard client registered")

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			b.logger.SSE().Info("Ops dashboard client unregistered")

		case <-ticker.C:
			b.broadcastSnapshot()
		}
	}
}

// Register queues a client for registration.
func (b *OpsBroadcaster) Register(client *OpsClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *OpsBroadcaster) Unregister(client *OpsClient) {
	b.unregister <- client
}

func (b *OpsBroadcaster) broadcastSnapshot() {
	b.mu.RLock()
	hasClients := len(b.clients) > 0
	b.mu.RUnlock()
	if !hasClients {
		return
	}

	snapshot := b.source.OpsSnapshot()
	snapshot.GeneratedAt = time.Now().UTC()

	message, err := json.Marshal(snapshot)
	if err != nil {
		b.logger.SSE().Error("Failed to marshal ops snapshot", "error", err.Error())
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}
