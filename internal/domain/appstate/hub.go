package appstate

import "sync"

// Hub hands out one Store per user session. The backend serves many users;
// each gets an isolated single-writer store.
type Hub struct {
	mu     sync.Mutex
	stores map[string]*Store
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{stores: make(map[string]*Store)}
}

// Get returns the store for a user, creating it on first use.
func (h *Hub) Get(userID string) *Store {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.stores[userID]; ok {
		return s
	}
	s := NewStore()
	h.stores[userID] = s
	return s
}

// ForEach visits every live store. The callback must not call back into
// the hub.
func (h *Hub) ForEach(fn func(userID string, s *Store)) {
	h.mu.Lock()
	stores := make(map[string]*Store, len(h.stores))
	for id, s := range h.stores {
		stores[id] = s
	}
	h.mu.Unlock()

	for id, s := range stores {
		fn(id, s)
	}
}

// Drop discards a user's store, typically on logout.
func (h *Hub) Drop(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.stores, userID)
}
