// Package messaging defines interfaces for real-time communication.
package messaging

// Broadcaster manages SSE client connections and pushes state events to
// a user's open sessions.
type Broadcaster interface {
	AddClientWithSession(userID, sessionID string) chan string
	RemoveClientWithSession(ch chan string, userID, sessionID string)
	GetSessionConnectionCount(userID, sessionID string) int
	BroadcastToUser(userID, event string, payload any)
}
