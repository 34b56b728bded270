package encounter

import "github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"

// AlertContact is a trusted contact alerts fan out to. At least one of
// Phone or Email must be present.
type AlertContact struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Relationship string `json:"relationship"`
}

// Validate rejects contacts that cannot be reached on any channel.
func (c *AlertContact) Validate() error {
	if c.Phone == "" && c.Email == "" {
		return failure.New(failure.InvalidContact, "contact.validate")
	}
	return nil
}

// ContactPatch holds optional field updates for an alert contact.
type ContactPatch struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	Relationship *string `json:"relationship,omitempty"`
}

// Apply merges the patch into a copy of c and returns it.
func (p ContactPatch) Apply(c AlertContact) AlertContact {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Relationship != nil {
		c.Relationship = *p.Relationship
	}
	return c
}

// ContactRepository defines the persistence operations for alert contacts.
type ContactRepository interface {
	FindByUser(userID string) ([]AlertContact, error)
	Create(c *AlertContact) error
	Update(id string, patch ContactPatch) (*AlertContact, error)
	Delete(id string) error
}
