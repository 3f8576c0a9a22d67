package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Alert dispatch outcomes.
const (
	AlertStatusSent   = "sent"
	AlertStatusFailed = "failed"
)

// AlertLocation is the position attached to a dispatch.
type AlertLocation struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	MapsLink  string  `bson:"maps_link" json:"maps_link"`
}

// SenderDetails snapshots the sender's identity at dispatch time, so the
// record stays meaningful even if the account changes later.
type SenderDetails struct {
	Name   string `bson:"name" json:"name"`
	Mobile string `bson:"mobile" json:"mobile"`
	Email  string `bson:"email,omitempty" json:"email,omitempty"`
}

// AlertRecord is one SOS dispatch attempt, written whether or not the
// channels succeeded. Append-only audit trail in MongoDB.
type AlertRecord struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID string             `bson:"user_id" json:"user_id"`

	Recipients []string      `bson:"recipients" json:"recipients"`
	Message    string        `bson:"message" json:"message"`
	Location   AlertLocation `bson:"location" json:"location"`

	// Status reflects the text channel only; the guardian email is
	// best-effort and tracked separately via EmailSent.
	Status    string `bson:"status" json:"status"`
	RequestID string `bson:"request_id,omitempty" json:"request_id,omitempty"`

	Sender        SenderDetails `bson:"sender" json:"sender"`
	GuardianEmail string        `bson:"guardian_email,omitempty" json:"guardian_email,omitempty"`
	EmailSent     bool          `bson:"email_sent" json:"email_sent"`

	Error  string    `bson:"error,omitempty" json:"error,omitempty"`
	SentAt time.Time `bson:"sent_at" json:"sent_at"`
}
