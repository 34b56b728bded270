// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/appstate"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/user"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/security"
	"github.com/KnowYourRightsCard/kyrcard-go/pkg/config"
)

// AuthService handles wallet sign-in and session establishment. A wallet
// address is the identity; first sign-in creates the user record.
type AuthService struct {
	userRepo user.Repository
	hub      *appstate.Hub
	logger   *logging.ChanneledLogger
}

// NewAuthService creates a new auth application service.
func NewAuthService(userRepo user.Repository, hub *appstate.Hub, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hub:      hub,
		logger:   logger,
	}
}

// SignInResult is returned on successful sign-in.
type SignInResult struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// SignInWithWallet resolves or creates the user behind a wallet address,
// issues a session token, and seeds the user's state store.
func (s *AuthService) SignInWithWallet(walletAddress string) (*SignInResult, error) {
	walletAddress = strings.TrimSpace(walletAddress)
	if walletAddress == "" {
		return nil, failure.New(failure.NotAuthenticated, "auth.signIn")
	}

	u, err := s.userRepo.FindByWallet(walletAddress)
	if err != nil {
		return nil, err
	}

	if u == nil {
		now := time.Now().UTC()
		u = &user.User{
			UserID:             security.GenerateULID(),
			WalletAddress:      &walletAddress,
			SubscriptionStatus: user.SubscriptionFree,
			PreferredLanguage:  user.LanguageEnglish,
			SavedJurisdictions: []string{},
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := s.userRepo.Create(u); err != nil {
			return nil, err
		}
		s.logger.Auth().Info("New user created from wallet sign-in", "userId", u.UserID)
	}

	token, err := security.GenerateUserToken(u.UserID, config.JWTSecret, config.TokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.hub.Get(u.UserID).Dispatch(appstate.SetUser{User: u})
	s.logger.Auth().Info("User signed in", "userId", u.UserID)

	return &SignInResult{Token: token, User: u}, nil
}

// SignOut discards the user's state store.
func (s *AuthService) SignOut(userID string) {
	s.hub.Drop(userID)
	s.logger.Auth().Info("User signed out", "userId", userID)
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(userID string) (*user.User, error) {
	u, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, failure.New(failure.NotAuthenticated, "auth.getUser")
	}
	return u, nil
}

// UpdateProfile applies a profile patch and refreshes the state store.
func (s *AuthService) UpdateProfile(userID string, patch user.Patch) (*user.User, error) {
	updated, err := s.userRepo.Update(userID, patch)
	if err != nil {
		return nil, err
	}
	s.hub.Get(userID).Dispatch(appstate.SetUser{User: updated})
	return updated, nil
}
