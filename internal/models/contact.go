package models

import (
	"time"

	"github.com/google/uuid"
)

// TrustedContact is a person the user wants alerted during an SOS. The
// mobile number is stored as entered; equality checks use the canonical
// 10-digit form.
type TrustedContact struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	Relationship string `json:"relationship,omitempty"`

	// IsGuardian is set at creation when the mobile matches a registered
	// guardian, and never changes afterwards.
	IsGuardian bool `json:"is_guardian"`
	IsActive   bool `json:"is_active"`
}
