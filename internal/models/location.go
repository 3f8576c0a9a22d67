package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationSample is one GPS reading from a user's device. Stored in MongoDB;
// the distance gate in the location service decides whether a sample is
// persisted at all.
type LocationSample struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID string             `bson:"user_id" json:"user_id"`

	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`

	// Optional device telemetry. Pointers so absent and zero are distinct.
	Accuracy *float64 `bson:"accuracy,omitempty" json:"accuracy,omitempty"`
	Altitude *float64 `bson:"altitude,omitempty" json:"altitude,omitempty"`
	Speed    *float64 `bson:"speed,omitempty" json:"speed,omitempty"`
	Heading  *float64 `bson:"heading,omitempty" json:"heading,omitempty"`

	// Timestamp is when the device took the reading; CreatedAt is when the
	// server stored it.
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NearbyUser is a discovery result: another user's latest position joined
// with their identity, plus the distance from the query point in meters.
type NearbyUser struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Mobile    string    `json:"mobile,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Distance  float64   `json:"distance"`
	Timestamp time.Time `json:"timestamp"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
}
