// Package performance provides lightweight operation timing for the
// application services and HTTP handlers.
package performance

import (
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"` // e.g., "alert:dispatch", "encounter:start"
	UserID    string         `json:"userId"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Duration  time.Duration  `json:"duration"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Completed bool           `json:"completed"`

	tracker *Tracker
}

// Complete marks the operation as finished and records it.
func (m *Marker) Complete() {
	if m.Completed {
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
	if m.tracker != nil {
		m.tracker.record(*m)
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// Tracker collects completed markers, keeping a bounded window of recent
// measurements per operation.
type Tracker struct {
	mu        sync.Mutex
	recent    []Marker
	maxRecent int
}

// NewTracker creates a tracker retaining the most recent measurements.
func NewTracker() *Tracker {
	return &Tracker{maxRecent: 1000}
}

// StartOperation begins tracking a named operation for a user.
func (t *Tracker) StartOperation(operation, userID string) *Marker {
	return &Marker{
		Operation: operation,
		UserID:    userID,
		StartTime: time.Now(),
		Success:   true,
		tracker:   t,
	}
}

func (t *Tracker) record(m Marker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recent = append(t.recent, m)
	if len(t.recent) > t.maxRecent {
		t.recent = t.recent[len(t.recent)-t.maxRecent:]
	}
}

// RecentMetrics returns completed markers within the given window.
func (t *Tracker) RecentMetrics(within time.Duration) []Marker {
	cutoff := time.Now().Add(-within)
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Marker
	for _, m := range t.recent {
		if m.EndTime.After(cutoff) {
			out = append(out, m)
		}
	}
	return out
}
