package appstate

import "sync"

// Listener observes every state change, receiving the state after the
// transition applied. Listeners run synchronously under the dispatch lock,
// so they must not dispatch.
type Listener func(AppState)

// Store owns one AppState and serializes all transitions. It is
// single-writer by construction: Dispatch holds a mutex while the reducer
// runs, so transitions apply in the order invoked with no reordering or
// batching. The store performs no I/O.
type Store struct {
	mu        sync.Mutex
	state     AppState
	listeners []Listener

	lockMu   sync.Mutex
	encLocks map[string]*sync.Mutex
}

// NewStore creates a store seeded with the initial state.
func NewStore() *Store {
	return &Store{
		state:    InitialState(),
		encLocks: make(map[string]*sync.Mutex),
	}
}

// Dispatch applies one transition.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	for _, l := range s.listeners {
		l(s.state.clone())
	}
}

// State returns a snapshot safe for concurrent readers.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers a listener for state changes.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// WithEncounter runs fn while holding the lock for one encounter id.
// Orchestration sequences that persist and then commit transitions for the
// same encounter run under this lock so no other mutation of that
// encounter can interleave between the two steps.
func (s *Store) WithEncounter(id string, fn func()) {
	s.lockMu.Lock()
	l, ok := s.encLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.encLocks[id] = l
	}
	s.lockMu.Unlock()

	l.Lock()
	defer l.Unlock()
	fn()
}
