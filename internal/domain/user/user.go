// Package user defines the user entity and its repository interface.
// The repository abstracts the persistence gateway so the core stays
// decoupled from the database.
package user

import "time"

// SubscriptionStatus is resolved by the billing collaborator; the core
// only ever reads it.
type SubscriptionStatus string

const (
	SubscriptionFree    SubscriptionStatus = "free"
	SubscriptionPremium SubscriptionStatus = "premium"
)

// Language is the user's preferred content language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// User represents an authenticated user of the application.
type User struct {
	UserID             string             `json:"userId"`
	WalletAddress      *string            `json:"walletAddress,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	PreferredLanguage  Language           `json:"preferredLanguage"`
	SavedJurisdictions []string           `json:"savedJurisdictions"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// IsPremium reports whether premium features are unlocked.
func (u *User) IsPremium() bool {
	return u.SubscriptionStatus == SubscriptionPremium
}

// Patch holds optional field updates for a user. Nil fields are left
// untouched.
type Patch struct {
	WalletAddress      *string             `json:"walletAddress,omitempty"`
	SubscriptionStatus *SubscriptionStatus `json:"subscriptionStatus,omitempty"`
	PreferredLanguage  *Language           `json:"preferredLanguage,omitempty"`
	SavedJurisdictions *[]string           `json:"savedJurisdictions,omitempty"`
}

// Apply merges the patch into a copy of u and returns it.
func (p Patch) Apply(u User) User {
	if p.WalletAddress != nil {
		u.WalletAddress = p.WalletAddress
	}
	if p.SubscriptionStatus != nil {
		u.SubscriptionStatus = *p.SubscriptionStatus
	}
	if p.PreferredLanguage != nil {
		u.PreferredLanguage = *p.PreferredLanguage
	}
	if p.SavedJurisdictions != nil {
		u.SavedJurisdictions = *p.SavedJurisdictions
	}
	return u
}

// Repository defines the persistence operations for User entities.
type Repository interface {
	FindByID(id string) (*User, error)
	FindByWallet(walletAddress string) (*User, error)
	Create(u *User) error
	Update(id string, patch Patch) (*User, error)
}
