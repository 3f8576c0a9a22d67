package models

import (
	"time"

	"github.com/google/uuid"
)

// Guardian is a designated protector for a user. The first guardian with an
// email (lowest priority value) receives the SOS email.
type Guardian struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email,omitempty"`
	Priority     int    `json:"priority"`
}
