package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/appstate"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/messaging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/performance"
	"github.com/KnowYourRightsCard/kyrcard-go/pkg/config"
)

// OpsService backs the ops dashboard: password verification for dashboard
// access and live snapshots of encounter and alert activity.
type OpsService struct {
	hub         *appstate.Hub
	perfTracker *performance.Tracker
}

// NewOpsService creates a new ops application service.
func NewOpsService(hub *appstate.Hub, perfTracker *performance.Tracker) *OpsService {
	return &OpsService{
		hub:         hub,
		perfTracker: perfTracker,
	}
}

// VerifyPassword checks the ops dashboard password against the configured
// bcrypt hash. An unset hash locks the dashboard.
func (s *OpsService) VerifyPassword(password string) bool {
	if config.OpsPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(config.OpsPassword), []byte(password)) == nil
}

// OpsSnapshot implements messaging.SnapshotSource by folding live store
// state and the recent performance window into dashboard counters.
func (s *OpsService) OpsSnapshot() messaging.OpsSnapshot {
	var snapshot messaging.OpsSnapshot

	s.hub.ForEach(func(userID string, store *appstate.Store) {
		state := store.State()
		snapshot.ActiveUsers++
		if state.CurrentEncounter != nil {
			snapshot.ActiveEncounters++
		}
		if state.Recording.IsRecording {
			snapshot.ActiveRecordings++
		}
	})

	for _, m := range s.perfTracker.RecentMetrics(time.Hour) {
		if m.Operation != "alert:dispatch" || !m.Success {
			continue
		}
		snapshot.AlertsDispatched++
		if failed, ok := m.Metadata["failedSends"].(int); ok {
			snapshot.AlertSendFailures += failed
		}
	}

	return snapshot
}

// RecentOperations returns the recent performance markers, optionally
// filtered by operation prefix.
func (s *OpsService) RecentOperations(within time.Duration, prefix string) []performance.Marker {
	markers := s.perfTracker.RecentMetrics(within)
	if prefix == "" {
		return markers
	}
	var out []performance.Marker
	for _, m := range markers {
		if strings.HasPrefix(m.Operation, prefix) {
			out = append(out, m)
		}
	}
	return out
}
