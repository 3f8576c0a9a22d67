package models

import (
	"time"

	"github.com/google/uuid"
)

// User account statuses.
const (
	UserStatusActive    = "ACTIVE"
	UserStatusSuspended = "SUSPENDED"
	UserStatusDeleted   = "DELETED"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile,omitempty"`

	PasswordHash string `json:"-"` // Never returned in JSON

	// SetTrustedContacts gates onboarding in the mobile client; it is
	// owned by the trusted-contact registry, not by profile updates.
	SetTrustedContacts bool `json:"set_trusted_contacts"`

	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
