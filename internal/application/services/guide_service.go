package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/appstate"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/rights"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/user"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
)

// ScriptGenerator produces scenario scripts on demand.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, scenario, state, language string) (string, error)
}

// GuideService serves rights guides, emergency phrases, and per-state
// legal information, and generates premium interaction scripts.
type GuideService struct {
	hub       *appstate.Hub
	generator ScriptGenerator
	logger    *logging.ChanneledLogger
}

// NewGuideService creates a new guide application service.
func NewGuideService(hub *appstate.Hub, generator ScriptGenerator, logger *logging.ChanneledLogger) *GuideService {
	return &GuideService{
		hub:       hub,
		generator: generator,
		logger:    logger,
	}
}

// BasicRights returns the universal rights guide entries.
func (s *GuideService) BasicRights() []rights.Guide {
	return rights.BasicRights
}

// EmergencyPhrases returns the scripted phrases in the given language,
// falling back to English for unknown languages.
func (s *GuideService) EmergencyPhrases(lang user.Language) rights.Phrases {
	return rights.EmergencyPhrases(lang)
}

// StateInfo returns legal information for a jurisdiction.
func (s *GuideService) StateInfo(code string) rights.StateInfo {
	return rights.InfoForState(strings.ToUpper(code))
}

// SelectJurisdiction commits the user's jurisdiction selection to state.
// Unknown codes are rejected before the transition.
func (s *GuideService) SelectJurisdiction(userID, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := rights.StateNames[code]; !ok {
		return fmt.Errorf("unknown jurisdiction code %q", code)
	}
	s.hub.Get(userID).Dispatch(appstate.SetSelectedJurisdiction{Code: code})
	return nil
}

// GenerateScript produces a personalized scenario script. Premium only.
func (s *GuideService) GenerateScript(ctx context.Context, userID, scenario string) (string, error) {
	state := s.hub.Get(userID).State()
	if state.User == nil {
		return "", failure.New(failure.NotAuthenticated, "guide.generateScript")
	}
	if !state.User.IsPremium() {
		return "", failure.New(failure.PermissionDenied, "guide.generateScript")
	}

	info := rights.InfoForState(state.SelectedJurisdiction)
	script, err := s.generator.GenerateScript(ctx, scenario, info.Name, string(state.User.PreferredLanguage))
	if err != nil {
		s.logger.System().Error("Script generation failed", "userId", userID, "scenario", scenario, "error", err.Error())
		return "", err
	}
	return script, nil
}
